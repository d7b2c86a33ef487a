package exprlang

import (
	"fmt"
	"log/slog"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/yfelo/tmpl"
)

// Predefined errors (sentinel values).
var (
	ErrCompile         = tmpl.NewError("failed to compile expression")
	ErrRun             = tmpl.NewError("failed to evaluate expression")
	ErrUndefined       = tmpl.NewError("undefined identifier")
	ErrAlreadyBound    = tmpl.NewError("identifier already bound")
	ErrMissingArgument = tmpl.NewError("missing argument")
	ErrNotCallable     = tmpl.NewError("value is not callable")
	ErrType            = tmpl.NewError("type mismatch")
	ErrPattern         = tmpl.NewError("pattern does not match value")
	ErrForeign         = tmpl.NewError("node belongs to another language")
	ErrCallDepth       = tmpl.NewError("maximum call depth exceeded")
)

func undefinedError(name string, visible []string) error {
	err := ErrUndefined.Wrap(fmt.Errorf("'%s'", name)).
		With(slog.String("identifier", name))

	if matches := fuzzy.Find(name, visible); len(matches) > 0 {
		err = err.With(slog.String("suggestion", matches[0].Str))
	}

	return err
}

func alreadyBoundError(name string) error {
	return ErrAlreadyBound.Wrap(fmt.Errorf("'%s'", name)).
		With(slog.String("identifier", name))
}

func typeError(expect string, found any) error {
	return ErrType.
		Wrap(fmt.Errorf("expect %s, found %T", expect, found)).
		With(slog.String("expect", expect), slog.String("found", fmt.Sprintf("%T", found)))
}

func foreignError(node any) error {
	return ErrForeign.With(slog.String("type", fmt.Sprintf("%T", node)))
}
