package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"

	"github.com/natefinch/atomic"

	"github.com/ardnew/yfelo/log"
	"github.com/ardnew/yfelo/tmpl"
)

// Render renders each template in order and writes the concatenated output.
type Render struct {
	Scope `embed:""`

	Output    string   `help:"Write output to file (atomically) instead of stdout" short:"o" type:"path"`
	Templates []string `arg:"" help:"Template file(s) or '-' for stdin"                       optional:""`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := openSources(r.Templates)
	if err != nil {
		return err
	}
	defer closeSources(srcs)

	e := r.engine()

	var out bytes.Buffer

	for _, s := range srcs {
		text, err := s.read()
		if err != nil {
			return err
		}

		if err := r.render(ctx, e, &out, s.name, text); err != nil {
			return err
		}
	}

	log.DebugContext(ctx, "rendered templates",
		slog.Int("count", len(srcs)),
		slog.Int("output_bytes", out.Len()),
	)

	if r.Output == "" {
		if _, err := out.WriteTo(stdout(ctx)); err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil
	}

	if err := atomic.WriteFile(r.Output, &out); err != nil {
		return ErrWriteOutput.With(slog.String("file", r.Output)).Wrap(err)
	}

	return nil
}

// render renders one template against a fresh root frame in the language
// its header selects.
func (r *Render) render(
	ctx context.Context,
	e *tmpl.Engine,
	w io.Writer,
	name, text string,
) error {
	l, err := e.Language(text)
	if err != nil {
		return sourceError(err, name, text)
	}

	scope, err := r.open(ctx, l)
	if err != nil {
		return err
	}

	nodes, err := e.ParseCached(ctx, text)
	if err != nil {
		return sourceError(err, name, text)
	}

	res, err := e.Render(ctx, nodes, scope)
	if err != nil {
		return ErrRender.With(slog.String("source", name)).Wrap(err)
	}

	_, err = io.WriteString(w, res)

	return err
}
