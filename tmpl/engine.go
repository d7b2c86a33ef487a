package tmpl

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/yfelo/log"
)

const (
	// DefaultLeft and DefaultRight are the default tag delimiters.
	DefaultLeft  = "{"
	DefaultRight = "}"

	// DefaultLanguage is the name under which the engine looks up the
	// expression language when a template has no header.
	DefaultLanguage = "default"

	// HeaderName is the inline directive name of the optional template header,
	// for example "{@yfelo}" or "{@yfelo expr}".
	HeaderName = "yfelo"
)

// Engine parses and renders templates with a fixed directive registry,
// set of expression languages and tag delimiters. An Engine is safe for
// concurrent use once constructed.
type Engine struct {
	dirs   Registry
	langs  map[string]Language
	lang   string
	left   string
	right  string
	logger log.Logger
	cache  sync.Map
}

// Option configures an [Engine].
type Option func(*Engine)

// New returns an Engine with the builtin directives and default delimiters,
// configured by opts.
func New(opts ...Option) *Engine {
	var e Engine

	applyDefaults(&e)
	applyOptions(&e, opts...)

	return &e
}

func applyDefaults(e *Engine) {
	e.dirs = DefaultRegistry()
	e.langs = map[string]Language{}
	e.lang = DefaultLanguage
	e.left = DefaultLeft
	e.right = DefaultRight
}

func applyOptions(e *Engine, opts ...Option) {
	for _, opt := range opts {
		opt(e)
	}
}

// WithDelimiters sets the left and right tag delimiters. Empty strings keep
// the current value.
func WithDelimiters(left, right string) Option {
	return func(e *Engine) {
		if left != "" {
			e.left = left
		}

		if right != "" {
			e.right = right
		}
	}
}

// WithLanguage registers an expression language under name.
func WithLanguage(name string, l Language) Option {
	return func(e *Engine) { e.langs[name] = l }
}

// WithDefaultLanguage selects the language used by templates without a
// header.
func WithDefaultLanguage(name string) Option {
	return func(e *Engine) { e.lang = name }
}

// WithDirective registers a directive factory under name. Branch directives
// use the "parent:branch" form.
func WithDirective(name string, f Factory) Option {
	return func(e *Engine) { e.dirs.Add(name, f) }
}

// WithRegistry replaces the directive registry.
func WithRegistry(r Registry) Option {
	return func(e *Engine) { e.dirs = r.Clone() }
}

// WithLogger sets the logger used to trace parsing and rendering.
func WithLogger(logger log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// Delimiters returns the left and right tag delimiters.
func (e *Engine) Delimiters() (left, right string) { return e.left, e.right }

// Languages returns the names of the registered languages in sorted order.
func (e *Engine) Languages() []string {
	return slices.Sorted(maps.Keys(e.langs))
}

// Directives returns a copy of the directive registry.
func (e *Engine) Directives() Registry { return e.dirs.Clone() }

// Parse parses src into a node tree.
func (e *Engine) Parse(ctx context.Context, src string) ([]Node, error) {
	lang, start, err := e.header(src)
	if err != nil {
		return nil, err
	}

	nodes, err := NewReader(src, start, e.left, e.right, lang, e.dirs).Run()
	if err != nil {
		e.logger.TraceContext(ctx, "parse failed",
			slog.Int("source_bytes", len(src)),
			slog.Any("error", err),
		)

		return nil, err
	}

	e.logger.TraceContext(ctx, "parse complete",
		slog.Int("source_bytes", len(src)),
		slog.Int("node_count", len(nodes)),
	)

	return nodes, nil
}

// Render renders a parsed node tree against c.
func (e *Engine) Render(
	ctx context.Context,
	nodes []Node,
	c Context,
) (string, error) {
	out, err := Render(c, nodes)
	if err != nil {
		e.logger.TraceContext(ctx, "render failed", slog.Any("error", err))

		return "", err
	}

	e.logger.TraceContext(ctx, "render complete",
		slog.Int("output_bytes", len(out)),
	)

	return out, nil
}

// Execute parses src and renders it against c.
func (e *Engine) Execute(ctx context.Context, src string, c Context) (string, error) {
	nodes, err := e.Parse(ctx, src)
	if err != nil {
		return "", err
	}

	return e.Render(ctx, nodes, c)
}

// Language returns the language selected by the header of src, or the
// default language when src has none.
func (e *Engine) Language(src string) (Language, error) {
	lang, _, err := e.header(src)

	return lang, err
}

// header resolves the language of src and the offset where its body begins.
// A header is an inline "yfelo" tag at the very start of the source with an
// optional language name; one line break after it is dropped.
func (e *Engine) header(src string) (Language, int, error) {
	name, start := e.lang, 0

	prefix := e.left + string(MarkInline) + HeaderName
	if strings.HasPrefix(src, prefix) &&
		(len(src) == len(prefix) || !isAlnum(rune(src[len(prefix)]))) {
		r := &Reader{src: src, pos: len(prefix), right: e.right}
		r.TrimStart()

		if !strings.HasPrefix(r.rest(), e.right) {
			id, span, err := r.ParseIdent()
			if err != nil {
				return nil, 0, err
			}

			if _, ok := e.langs[id]; !ok {
				return nil, 0, NewSyntaxError(span, "unknown language '%s'", id)
			}

			name = id
		}

		if err := r.closeTag(); err != nil {
			return nil, 0, err
		}

		start = r.pos

		switch rest := r.rest(); {
		case strings.HasPrefix(rest, "\r\n"):
			start += 2
		case strings.HasPrefix(rest, "\n"):
			start++
		}
	}

	lang, ok := e.langs[name]
	if !ok {
		if len(e.langs) == 0 {
			return nil, 0, ErrNoLanguage
		}

		return nil, 0, ErrUnknownLanguage.With(slog.String("language", name))
	}

	return lang, start, nil
}
