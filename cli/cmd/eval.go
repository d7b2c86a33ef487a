package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/yfelo/log"
	"github.com/ardnew/yfelo/tmpl"
)

// Eval evaluates a single expression against the data and bindings.
type Eval struct {
	Scope `embed:""`

	Format string `default:"text" enum:"text,json,yaml" help:"Output format"                              short:"f"`
	Indent int    `default:"2"                          help:"Indentation width (0 for compact output)" short:"i"`
	Expr   string `arg:""                               help:"Expression to evaluate"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	l, err := e.engine().Language("")
	if err != nil {
		return err
	}

	scope, err := e.open(ctx, l)
	if err != nil {
		return err
	}

	v, err := tmpl.Eval(l, scope, e.Expr)
	if err != nil {
		return sourceError(err, "<expr>", e.Expr)
	}

	log.DebugContext(ctx, "evaluated expression",
		slog.String("lang", e.Lang),
		slog.String("expr", e.Expr),
	)

	return encode(ctx, stdout(ctx), v, e.Format, e.Indent)
}
