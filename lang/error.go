package lang

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/yfelo/tmpl"
)

// Predefined errors (sentinel values).
var (
	ErrUndefined       = tmpl.NewError("undefined identifier")
	ErrAlreadyBound    = tmpl.NewError("identifier already bound")
	ErrMissingArgument = tmpl.NewError("missing argument")
	ErrNotCallable     = tmpl.NewError("value is not callable")
	ErrType            = tmpl.NewError("type mismatch")
	ErrIndex           = tmpl.NewError("cannot index value")
	ErrPattern         = tmpl.NewError("pattern does not match value")
	ErrForeign         = tmpl.NewError("node belongs to another language")
	ErrLoadData        = tmpl.NewError("failed to load data")
	ErrArgument        = tmpl.NewError("invalid argument")
	ErrCallDepth       = tmpl.NewError("maximum call depth exceeded")
)

// undefinedError reports name as unbound, suggesting the closest visible
// name when one exists.
func undefinedError(name string, r tmpl.Range, visible []string) error {
	err := ErrUndefined.Wrap(fmt.Errorf("'%s'", name)).With(
		slog.String("identifier", name),
		slog.Int("start", r.Start),
		slog.Int("end", r.End),
	)

	if matches := fuzzy.Find(name, visible); len(matches) > 0 {
		err = err.With(slog.String("suggestion", matches[0].Str))
	}

	return err
}

func alreadyBoundError(name string) error {
	return ErrAlreadyBound.Wrap(fmt.Errorf("'%s'", name)).
		With(slog.String("identifier", name))
}

func missingArgumentError(fn string, param tmpl.Pattern) error {
	return ErrMissingArgument.
		Wrap(fmt.Errorf("'%s' of '%s'", param, fn)).
		With(slog.String("function", fn), slog.String("parameter", param.String()))
}

func typeError(expect string, found Value) error {
	return ErrType.
		Wrap(fmt.Errorf("expect %s, found %s", expect, found.Kind())).
		With(slog.String("expect", expect), slog.String("found", found.Kind().String()))
}

func foreignError(node any) error {
	return ErrForeign.With(slog.String("type", fmt.Sprintf("%T", node)))
}

func argumentError(fn, msg string) error {
	return ErrArgument.Wrap(errors.New(fn + ": " + msg)).
		With(slog.String("function", fn))
}
