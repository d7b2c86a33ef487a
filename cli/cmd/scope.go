package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/yfelo/cli/cmd/repl"
	"github.com/ardnew/yfelo/exprlang"
	"github.com/ardnew/yfelo/lang"
	"github.com/ardnew/yfelo/log"
	"github.com/ardnew/yfelo/tmpl"
)

// languages are the expression languages a template may select.
var languages = map[string]tmpl.Language{
	lang.Name:     lang.Language{},
	exprlang.Name: exprlang.Language{},
}

// Languages returns the names of the supported expression languages.
func Languages() []string { return slices.Sorted(maps.Keys(languages)) }

// Vars returns the kong variables interpolated into the command flags.
func Vars() kong.Vars {
	return kong.Vars{
		"langDefault":  lang.Name,
		"langEnum":     strings.Join(Languages(), ","),
		"leftDefault":  tmpl.DefaultLeft,
		"rightDefault": tmpl.DefaultRight,
	}
}

// Syntax selects how template source is read.
type Syntax struct {
	Lang  string `default:"${langDefault}"  enum:"${langEnum}" help:"Expression language of templates without a header" short:"l"`
	Left  string `default:"${leftDefault}"                     help:"Left tag delimiter"`
	Right string `default:"${rightDefault}"                    help:"Right tag delimiter"`
}

// engine returns a template engine configured by s.
func (s *Syntax) engine() *tmpl.Engine {
	opts := []tmpl.Option{
		tmpl.WithDefaultLanguage(s.Lang),
		tmpl.WithDelimiters(s.Left, s.Right),
		tmpl.WithLogger(log.Default()),
	}

	for _, name := range Languages() {
		opts = append(opts, tmpl.WithLanguage(name, languages[name]))
	}

	return tmpl.New(opts...)
}

// Scope selects the variables templates are rendered against.
type Scope struct {
	Syntax `embed:""`

	Data       []string `help:"YAML or JSON data file bound at the root (repeatable)" sep:"none" short:"d" type:"existingfile"`
	Set        []string `help:"Bind NAME to the value of EXPR (repeatable)"            sep:"none" short:"s" placeholder:"NAME=EXPR"`
	NoBuiltins bool     `help:"Omit the builtin functions and host facts"`
}

// data loads and merges the data files in order. Later files replace the
// top-level keys of earlier ones.
func (s *Scope) data(ctx context.Context) (*lang.Object, error) {
	merged := lang.NewObject()

	for _, path := range s.Data {
		obj, err := lang.LoadFile(ctx, path)
		if err != nil {
			return nil, err
		}

		for k, v := range obj.All {
			merged.Set(k, v)
		}
	}

	return merged, nil
}

// open returns a fresh root frame for templates written in language l. The
// --set bindings are made in a child frame so they shadow data.
func (s *Scope) open(ctx context.Context, l tmpl.Language) (repl.Scope, error) {
	data, err := s.data(ctx)
	if err != nil {
		return nil, err
	}

	logger := log.Default()

	var root repl.Scope

	switch l.(type) {
	case lang.Language:
		var opts []lang.Option
		if !s.NoBuiltins {
			opts = append(opts, lang.WithBuiltins())
		}

		root = lang.NewContext(append(opts, lang.WithData(data), lang.WithLogger(logger))...)

	case exprlang.Language:
		var opts []exprlang.Option
		if !s.NoBuiltins {
			opts = append(opts, exprlang.WithBuiltins())
		}

		root = exprlang.NewContext(append(opts, exprlang.WithData(data), exprlang.WithLogger(logger))...)

	default:
		return nil, ErrLanguage
	}

	if len(s.Set) == 0 {
		return root, nil
	}

	frame, ok := root.Fork().(repl.Scope)
	if !ok {
		return nil, ErrLanguage
	}

	for _, binding := range s.Set {
		if err := bind(l, frame, binding); err != nil {
			return nil, err
		}
	}

	log.DebugContext(ctx, "bindings set", slog.Int("count", len(s.Set)))

	return frame, nil
}

// bind evaluates a NAME=EXPR binding in frame and binds the result.
func bind(l tmpl.Language, frame tmpl.Context, binding string) error {
	name, src, ok := strings.Cut(binding, "=")
	if name = strings.TrimSpace(name); !ok || name == "" {
		return ErrBinding.With(slog.String("binding", binding))
	}

	p, n, err := l.ParsePattern(name, 0)
	if err != nil || n != len(name) {
		return ErrBinding.With(slog.String("binding", binding)).Wrap(err)
	}

	v, err := tmpl.Eval(l, frame, strings.TrimSpace(src))
	if err != nil {
		return ErrBinding.With(slog.String("binding", binding)).Wrap(err)
	}

	return frame.Bind(p, v)
}

// sourceError decorates a syntax error with the line and column it occurred
// at in src.
func sourceError(err error, name, src string) error {
	var se *tmpl.SyntaxError
	if !errors.As(err, &se) {
		return err
	}

	line, column := se.Position(src)

	e := ErrSyntax.With(
		slog.String("source", name),
		slog.Int("line", line),
		slog.Int("column", column),
	)

	if se.Hint != "" {
		e = e.With(slog.String("hint", se.Hint))
	}

	log.Debug("syntax error", slog.String("snippet", se.Snippet(src)))

	return e.Wrap(err)
}

// Encoding formats of evaluated values and parse trees.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// encode writes v to w in the given format.
func encode(ctx context.Context, w io.Writer, v tmpl.Value, format string, indent int) error {
	if format == formatText {
		_, err := io.WriteString(w, v.String()+"\n")

		return err
	}

	lv, ok := v.(lang.Value)
	if !ok {
		ev, _ := v.(exprlang.Value)

		var err error
		if lv, err = lang.FromNative(ev.V); err != nil {
			return ErrEncode.Wrap(err)
		}
	}

	var err error

	switch format {
	case formatJSON:
		err = lang.FormatJSON(ctx, w, lv, indent)
	default:
		err = lang.FormatYAML(ctx, w, lv, indent)
	}

	if err != nil {
		return ErrEncode.With(slog.String("format", format)).Wrap(err)
	}

	return nil
}
