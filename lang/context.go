package lang

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/ardnew/yfelo/log"
	"github.com/ardnew/yfelo/tmpl"
)

// Context is one frame of the default language's scope chain. Each frame
// holds its own bindings and refers to its parent; lookups walk outward.
type Context struct {
	parent *Context
	vars   *Object
	logger log.Logger
	depth  int // nested function calls
}

// Option configures a root [Context].
type Option func(*Context)

// NewContext returns an empty root frame configured by opts.
func NewContext(opts ...Option) *Context {
	var c Context

	applyDefaults(&c)
	applyOptions(&c, opts...)

	return &c
}

func applyDefaults(c *Context) {
	c.vars = NewObject()
}

func applyOptions(c *Context, opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// WithBuiltins places the host builtins in a frame above the root, so
// templates may shadow them.
func WithBuiltins() Option {
	return func(c *Context) {
		c.parent = &Context{vars: Builtins(), logger: c.logger}
	}
}

// WithData copies the entries of data into the root frame, replacing any
// existing bindings of the same names.
func WithData(data *Object) Option {
	return func(c *Context) {
		if data == nil {
			return
		}

		for k, v := range data.All {
			c.vars.Set(k, v)
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

// Fork implements [tmpl.Context].
func (c *Context) Fork() tmpl.Context { return c.fork() }

func (c *Context) fork() *Context {
	return &Context{parent: c, vars: NewObject(), logger: c.logger, depth: c.depth}
}

// Locals returns the bindings of this frame only. The returned object is
// shared with the frame.
func (c *Context) Locals() *Object { return c.vars }

// Lookup resolves name in this frame or the nearest enclosing one.
func (c *Context) Lookup(name string) (Value, bool) {
	for f := c; f != nil; f = f.parent {
		if v, ok := f.vars.Get(name); ok {
			return v, true
		}
	}

	return nil, false
}

// Names returns every name visible from this frame in sorted order,
// including the literal keywords.
func (c *Context) Names() []string {
	seen := map[string]struct{}{"true": {}, "false": {}, "null": {}}

	for f := c; f != nil; f = f.parent {
		for _, k := range f.vars.keys {
			seen[k] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}

// Set binds name to v in this frame.
func (c *Context) Set(name string, v Value) error {
	return c.bindIdent(name, v)
}

// Eval implements [tmpl.Context].
func (c *Context) Eval(expr tmpl.Expr) (tmpl.Value, error) {
	e, ok := expr.(Expr)
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

	return c.bind(p, v)
}

// Def implements [tmpl.Context]. The closure is bound under name in this
// frame.
func (c *Context) Def(
	name string,
	params []tmpl.Param,
	body tmpl.Definition,
) error {
	return c.bindIdent(name, &Closure{Name: name, Params: params, Body: body})
}

// Apply implements [tmpl.Context].
func (c *Context) Apply(name string, args []tmpl.Expr) (tmpl.Value, error) {
	fn, ok := c.Lookup(name)
	if !ok {
		return nil, undefinedError(name, tmpl.Range{}, c.Names())
	}

	exprs := make([]Expr, len(args))

	for i, a := range args {
		e, ok := a.(Expr)
		if !ok {
			return nil, foreignError(a)
		}

		exprs[i] = e
	}

	v, err := c.call(name, fn, exprs)
	if err != nil {
		return nil, err
	}

	return v, nil
}

func (c *Context) bindIdent(name string, v Value) error {
	if c.vars.Has(name) {
		return alreadyBoundError(name)
	}

	c.vars.Set(name, v)

	c.logger.Trace("bind",
		slog.String("identifier", name),
		slog.String("kind", v.Kind().String()),
	)

	return nil
}

func (c *Context) bind(p Pattern, v Value) error {
	switch p := p.(type) {
	case *IdentPattern:
		return c.bindIdent(p.Name, v)

	case *ArrayPattern:
		arr, ok := v.(*Array)
		if !ok {
			return ErrPattern.Wrap(typeError("array", v)).
				With(slog.String("pattern", p.String()))
		}

		for i, sub := range p.Items {
			var item Value = Null{}
			if i < len(arr.Items) {
				item = arr.Items[i]
			}

			if err := c.bind(sub, item); err != nil {
				return err
			}
		}

		return nil

	case *ObjectPattern:
		obj, ok := v.(*Object)
		if !ok {
			return ErrPattern.Wrap(typeError("object", v)).
				With(slog.String("pattern", p.String()))
		}

		for _, ent := range p.Entries {
			sub := ent.Value
			if sub == nil {
				id, _ := ent.Key.(*Ident)
				sub = &IdentPattern{Name: id.Name, Range: id.Range}
			}

			item, ok := obj.Get(keyName(ent.Key))
			if !ok {
				item = Null{}
			}

			if err := c.bind(sub, item); err != nil {
				return err
			}
		}

		return nil
	}

	return foreignError(p)
}
