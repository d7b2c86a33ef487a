package exprlang

import (
	"fmt"
	"log/slog"
	"maps"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/expr-lang/expr/builtin"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/yfelo/lang"
	"github.com/ardnew/yfelo/log"
	"github.com/ardnew/yfelo/tmpl"
)

// MaxCallDepth bounds the nesting of template function calls.
const MaxCallDepth = 512

// Func is the form of host functions callable from expressions.
type Func = func(args ...any) (any, error)

// Context is one frame of the scope chain. Bindings are plain Go values;
// evaluation flattens the chain into the environment of the expr program.
type Context struct {
	parent *Context
	vars   map[string]any
	logger log.Logger
	depth  int
}

// Option configures a root [Context].
type Option func(*Context)

// NewContext returns an empty root frame configured by opts.
func NewContext(opts ...Option) *Context {
	c := Context{vars: map[string]any{}}

	for _, opt := range opts {
		opt(&c)
	}

	return &c
}

// WithBuiltins places the host builtins in a frame above the root, so
// templates may shadow them.
func WithBuiltins() Option {
	return func(c *Context) {
		c.parent = &Context{vars: Builtins(), logger: c.logger}
	}
}

// WithVars copies vars into the root frame.
func WithVars(vars map[string]any) Option {
	return func(c *Context) { maps.Copy(c.vars, vars) }
}

// WithData copies the entries of a default-language object into the root
// frame as plain Go values.
func WithData(data *lang.Object) Option {
	return func(c *Context) {
		if data == nil {
			return
		}

		for k, v := range data.All {
			c.vars[k] = lang.ToNative(v)
		}
	}
}

// WithLogger sets the logger used to trace bindings and calls.
func WithLogger(logger log.Logger) Option {
	return func(c *Context) {
		c.logger = logger
		if c.parent != nil {
			c.parent.logger = logger
		}
	}
}

// Builtins returns a fresh copy of the host functions available to
// expressions in addition to the expr-lang builtins.
func Builtins() map[string]any {
	return map[string]any{
		"env": func(name ...string) any {
			if len(name) == 0 {
				out := map[string]any{}
				for _, entry := range os.Environ() {
					if k, v, ok := strings.Cut(entry, "="); ok {
						out[k] = v
					}
				}

				return out
			}

			return os.Getenv(name[0])
		},
		"cwd": func() string {
			wd, _ := os.Getwd()

			return wd
		},
		"hostname": func() string {
			h, _ := os.Hostname()

			return h
		},
	}
}

// Fork implements [tmpl.Context].
func (c *Context) Fork() tmpl.Context { return c.fork() }

func (c *Context) fork() *Context {
	return &Context{parent: c, vars: map[string]any{}, logger: c.logger, depth: c.depth}
}

// Lookup resolves name in this frame or the nearest enclosing one.
func (c *Context) Lookup(name string) (any, bool) {
	for f := c; f != nil; f = f.parent {
		if v, ok := f.vars[name]; ok {
			return v, true
		}
	}

	return nil, false
}

// Names returns every name visible from this frame in sorted order,
// including the expr-lang builtins.
func (c *Context) Names() []string {
	seen := map[string]struct{}{}

	for name := range builtin.Index {
		seen[name] = struct{}{}
	}

	for f := c; f != nil; f = f.parent {
		for k := range f.vars {
			seen[k] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}

// Set binds name to v in this frame.
func (c *Context) Set(name string, v any) error { return c.bindIdent(name, v) }

// Eval implements [tmpl.Context].
func (c *Context) Eval(expr tmpl.Expr) (tmpl.Value, error) {
	e, ok := expr.(*Expr)
	if !ok {
		return nil, foreignError(expr)
	}

	v, err := c.eval(e)
	if err != nil {
		return nil, err
	}

	return v, nil
}

// Bind implements [tmpl.Context].
func (c *Context) Bind(pattern tmpl.Pattern, value tmpl.Value) error {
	p, ok := pattern.(Pattern)
	if !ok {
		return foreignError(pattern)
	}

	v, ok := value.(Value)
	if !ok {
		return foreignError(value)
	}

	return c.bind(p, v.V)
}

// Def implements [tmpl.Context]. The closure is bound under name in this
// frame.
func (c *Context) Def(name string, params []tmpl.Param, body tmpl.Definition) error {
	for _, p := range params {
		if _, ok := p.Pattern.(Pattern); !ok {
			return foreignError(p.Pattern)
		}
	}

	return c.bindIdent(name, &closure{name: name, params: params, body: body})
}

// Apply implements [tmpl.Context].
func (c *Context) Apply(name string, args []tmpl.Expr) (tmpl.Value, error) {
	fn, ok := c.Lookup(name)
	if !ok {
		return nil, undefinedError(name, c.Names())
	}

	vals := make([]any, len(args))

	for i, a := range args {
		e, ok := a.(*Expr)
		if !ok {
			return nil, foreignError(a)
		}

		v, err := c.eval(e)
		if err != nil {
			return nil, err
		}

		vals[i] = v.V
	}

	out, err := c.call(name, fn, vals)
	if err != nil {
		return nil, err
	}

	return Value{out}, nil
}

func (c *Context) eval(e *Expr) (Value, error) {
	env := c.env()

	for _, name := range e.idents {
		if _, ok := env[name]; ok {
			continue
		}

		if _, ok := builtin.Index[name]; ok || strings.HasPrefix(name, "$") {
			continue
		}

		return Value{}, undefinedError(name, c.Names())
	}

	out, err := vm.Run(e.program, env)
	if err != nil {
		return Value{}, ErrRun.Wrap(err).With(
			slog.String("expression", e.Source),
			slog.Int("start", e.Range.Start),
			slog.Int("end", e.Range.End),
		)
	}

	return Value{out}, nil
}

// env flattens the scope chain. Template functions are bound to this frame
// so that their bodies see the caller's bindings.
func (c *Context) env() map[string]any {
	var chain []*Context
	for f := c; f != nil; f = f.parent {
		chain = append(chain, f)
	}

	env := map[string]any{}

	for _, f := range slices.Backward(chain) {
		for k, v := range f.vars {
			if cl, ok := v.(*closure); ok {
				env[k] = c.bound(cl)
			} else {
				env[k] = v
			}
		}
	}

	return env
}

func (c *Context) bound(cl *closure) Func {
	return func(args ...any) (any, error) { return c.invoke(cl, args) }
}

func (c *Context) bindIdent(name string, v any) error {
	if _, ok := c.vars[name]; ok {
		return alreadyBoundError(name)
	}

	c.vars[name] = v

	c.logger.Trace("bind",
		slog.String("identifier", name),
		slog.String("type", fmt.Sprintf("%T", v)),
	)

	return nil
}

func (c *Context) bind(p Pattern, v any) error {
	switch p := p.(type) {
	case *Ident:
		return c.bindIdent(p.Name, v)

	case *List:
		rv := reflect.ValueOf(v)
		if k := rv.Kind(); k != reflect.Slice && k != reflect.Array {
			return ErrPattern.Wrap(typeError("slice", v)).
				With(slog.String("pattern", p.String()))
		}

		for i, sub := range p.Items {
			var item any
			if i < rv.Len() {
				item = rv.Index(i).Interface()
			}

			if err := c.bind(sub, item); err != nil {
				return err
			}
		}

		return nil
	}

	return foreignError(p)
}
