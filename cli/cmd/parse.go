package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/yfelo/tmpl"
)

// Parse prints the parse tree of a template without rendering it.
type Parse struct {
	Syntax `embed:""`

	Format   string `default:"yaml" enum:"yaml,json,text" help:"Output format (text re-emits normalized template source)" short:"f"`
	Indent   int    `default:"2"                          help:"Indentation width (0 for compact output)"                 short:"i"`
	Template string `arg:""         default:"-"           help:"Template file or '-' for stdin"`
}

// Run executes the parse command.
func (p *Parse) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := openSources([]string{p.Template})
	if err != nil {
		return err
	}
	defer closeSources(srcs)

	e := p.engine()
	w := stdout(ctx)

	for _, s := range srcs {
		text, err := s.read()
		if err != nil {
			return err
		}

		nodes, err := e.Parse(ctx, text)
		if err != nil {
			return sourceError(err, s.name, text)
		}

		switch p.Format {
		case formatText:
			left, right := e.Delimiters()
			err = tmpl.Format(w, nodes, left, right)
		case formatJSON:
			err = tmpl.FormatJSON(ctx, w, nodes, p.Indent)
		default:
			err = tmpl.FormatYAML(ctx, w, nodes, p.Indent)
		}

		if err != nil {
			return ErrEncode.With(slog.String("format", p.Format)).Wrap(err)
		}
	}

	return nil
}
