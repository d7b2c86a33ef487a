package cmd

import (
	"context"

	"github.com/ardnew/yfelo/cli/cmd/repl"
	"github.com/ardnew/yfelo/log"
)

// Repl starts an interactive session. Definitions made by one line stay
// visible to the lines after it.
type Repl struct {
	Scope `embed:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cacheDir, ok := variable(ctx, CacheIdentifier)
	if !ok || cacheDir == "" {
		return ErrNoCache
	}

	e := r.engine()

	l, err := e.Language("")
	if err != nil {
		return err
	}

	scope, err := r.open(ctx, l)
	if err != nil {
		return err
	}

	return repl.Run(ctx, repl.Session{Engine: e, Scope: scope}, cacheDir, log.Default())
}
