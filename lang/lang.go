package lang

import (
	"context"

	"github.com/ardnew/yfelo/tmpl"
)

// Name is the name the default language is registered under.
const Name = tmpl.DefaultLanguage

// Language is the default expression language. The zero value is ready to
// use.
type Language struct{}

// ParseExpr implements [tmpl.Language].
func (Language) ParseExpr(src string, offset int) (tmpl.Expr, int, error) {
	e, n, err := ParseExpr(src, offset)
	if err != nil {
		return nil, 0, err
	}

	return e, n, nil
}

// ParsePattern implements [tmpl.Language].
func (Language) ParsePattern(src string, offset int) (tmpl.Pattern, int, error) {
	p, n, err := ParsePattern(src, offset)
	if err != nil {
		return nil, 0, err
	}

	return p, n, nil
}

// NewEngine returns a template engine with the default language registered
// under [Name], configured by opts.
func NewEngine(opts ...tmpl.Option) *tmpl.Engine {
	return tmpl.New(append([]tmpl.Option{tmpl.WithLanguage(Name, Language{})}, opts...)...)
}

// Render parses src with a default engine and renders it against c.
func Render(ctx context.Context, src string, c *Context) (string, error) {
	return NewEngine().Execute(ctx, src, c)
}

// Eval parses src as a single expression and evaluates it in c. Input left
// over after the expression is a syntax error.
func Eval(src string, c *Context) (Value, error) {
	e, n, err := ParseExpr(src, 0)
	if err != nil {
		return nil, err
	}

	rest := src[n:]
	p := &parser{src: rest, offset: n}
	p.skipSpace()

	if !p.eof() {
		return nil, p.errorf("unexpected input after expression")
	}

	return c.eval(e)
}
