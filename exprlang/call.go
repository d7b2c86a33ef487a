package exprlang

import (
	"fmt"
	"log/slog"

	"github.com/ardnew/yfelo/tmpl"
)

// closure is a template function defined with the def directive.
type closure struct {
	name   string
	params []tmpl.Param
	body   tmpl.Definition
}

func (c *Context) call(name string, fn any, args []any) (any, error) {
	switch fn := fn.(type) {
	case *closure:
		return c.invoke(fn, args)
	case Func:
		return fn(args...)
	}

	return nil, ErrNotCallable.Wrap(fmt.Errorf("'%s'", name)).With(
		slog.String("identifier", name),
		slog.String("type", fmt.Sprintf("%T", fn)),
	)
}

// invoke runs f in a new frame forked from c. Inline bodies return the
// value of their expression; block bodies return their rendered text.
func (c *Context) invoke(f *closure, args []any) (any, error) {
	if c.depth >= MaxCallDepth {
		return nil, ErrCallDepth.With(slog.String("function", f.name), slog.Int("depth", c.depth))
	}

	frame := c.fork()
	frame.depth++

	c.logger.Trace("call",
		slog.String("function", f.name),
		slog.Int("args", len(args)),
	)

	for i, p := range f.params {
		pat, _ := p.Pattern.(Pattern)

		var arg any

		switch {
		case i < len(args):
			arg = args[i]

		case p.Default != nil:
			e, ok := p.Default.(*Expr)
			if !ok {
				return nil, foreignError(p.Default)
			}

			v, err := frame.eval(e)
			if err != nil {
				return nil, err
			}

			arg = v.V

		default:
			return nil, ErrMissingArgument.
				Wrap(fmt.Errorf("'%s' of '%s'", pat, f.name)).
				With(slog.String("function", f.name), slog.String("parameter", pat.String()))
		}

		if err := frame.bind(pat, arg); err != nil {
			return nil, err
		}
	}

	switch body := f.body.(type) {
	case tmpl.Inline:
		e, ok := body.Expr.(*Expr)
		if !ok {
			return nil, foreignError(body.Expr)
		}

		v, err := frame.eval(e)
		if err != nil {
			return nil, err
		}

		return v.V, nil

	case tmpl.Block:
		return tmpl.Render(frame, body.Nodes)
	}

	return nil, foreignError(f.body)
}
