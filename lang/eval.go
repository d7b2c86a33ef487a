package lang

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/ardnew/yfelo/tmpl"
)

func (c *Context) eval(e Expr) (Value, error) {
	switch e := e.(type) {
	case *NumberLit:
		return Number(e.Value), nil

	case *StringLit:
		return String(e.Value), nil

	case *Ident:
		return c.resolve(e)

	case *ArrayLit:
		items := make([]Value, len(e.Items))

		for i, item := range e.Items {
			v, err := c.eval(item)
			if err != nil {
				return nil, err
			}

			items[i] = v
		}

		return NewArray(items...), nil

	case *ObjectLit:
		obj := NewObject()

		for _, ent := range e.Entries {
			var (
				v   Value
				err error
			)

			if ent.Value == nil {
				id, _ := ent.Key.(*Ident)
				v, err = c.resolve(id)
			} else {
				v, err = c.eval(ent.Value)
			}

			if err != nil {
				return nil, err
			}

			obj.Set(keyName(ent.Key), v)
		}

		return obj, nil

	case *Call:
		fn, err := c.eval(e.Func)
		if err != nil {
			return nil, err
		}

		return c.call(e.Func.String(), fn, e.Args)

	case *Unary:
		v, err := c.eval(e.Operand)
		if err != nil {
			return nil, err
		}

		return unary(e.Op, v)

	case *Binary:
		return c.evalBinary(e)

	case *Index:
		base, err := c.eval(e.Base)
		if err != nil {
			return nil, err
		}

		key, err := c.eval(e.Key)
		if err != nil {
			return nil, err
		}

		return index(base, key)
	}

	return nil, foreignError(e)
}

func (c *Context) resolve(id *Ident) (Value, error) {
	switch id.Name {
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	case "null":
		return Null{}, nil
	}

	if v, ok := c.Lookup(id.Name); ok {
		return v, nil
	}

	return nil, undefinedError(id.Name, id.Range, c.Names())
}

func (c *Context) evalBinary(e *Binary) (Value, error) {
	l, err := c.eval(e.Left)
	if err != nil {
		return nil, err
	}

	// && and || skip the right operand once the result is known
	switch {
	case e.Op == And && !l.Bool():
		return Bool(false), nil
	case e.Op == Or && l.Bool():
		return Bool(true), nil
	}

	r, err := c.eval(e.Right)
	if err != nil {
		return nil, err
	}

	return binary(e.Op, l, r)
}

func unary(op UnaryOp, v Value) (Value, error) {
	if op == Not {
		return Bool(!v.Bool()), nil
	}

	n, err := asNumber(v)
	if err != nil {
		return nil, err
	}

	if op == Neg {
		n = -n
	}

	return Number(n), nil
}

func binary(op BinaryOp, l, r Value) (Value, error) {
	switch op {
	case And, Or:
		return Bool(r.Bool()), nil
	case Eq:
		return Bool(Equal(l, r)), nil
	case Ne:
		return Bool(!Equal(l, r)), nil
	case Add:
		if l.Kind() == KindString || r.Kind() == KindString {
			return String(l.String() + r.String()), nil
		}
	}

	a, err := asNumber(l)
	if err != nil {
		return nil, err
	}

	b, err := asNumber(r)
	if err != nil {
		return nil, err
	}

	switch op {
	case Pow:
		return Number(math.Pow(a, b)), nil
	case Mul:
		return Number(a * b), nil
	case Div:
		return Number(a / b), nil
	case Mod:
		return Number(math.Mod(a, b)), nil
	case Add:
		return Number(a + b), nil
	case Sub:
		return Number(a - b), nil
	case Lt:
		return Bool(a < b), nil
	case Le:
		return Bool(a <= b), nil
	case Gt:
		return Bool(a > b), nil
	case Ge:
		return Bool(a >= b), nil
	}

	x, y := int64(a), int64(b)

	switch op {
	case Shl, Shr:
		if y < 0 {
			return nil, argumentError(op.String(), "negative shift count")
		}

		if op == Shl {
			return Number(x << y), nil
		}

		return Number(x >> y), nil
	case BitAnd:
		return Number(x & y), nil
	case BitXor:
		return Number(x ^ y), nil
	case BitOr:
		return Number(x | y), nil
	}

	return nil, ErrType.With(slog.String("operator", op.String()))
}

// MaxCallDepth bounds the nesting of template function calls.
const MaxCallDepth = 512

// call applies fn to args evaluated in c. name identifies the callee in
// errors.
func (c *Context) call(name string, fn Value, args []Expr) (Value, error) {
	vals := make([]Value, len(args))

	for i, a := range args {
		v, err := c.eval(a)
		if err != nil {
			return nil, err
		}

		vals[i] = v
	}

	switch f := fn.(type) {
	case *Closure:
		return c.invoke(f, vals)

	case Func:
		return f(vals...)
	}

	return nil, ErrNotCallable.
		Wrap(fmt.Errorf("'%s' is %s", name, fn.Kind())).
		With(slog.String("callee", name))
}

// invoke runs a closure in a fork of the calling frame. Arguments bind to
// parameters by position; missing ones take their default, which is
// evaluated in the new frame.
func (c *Context) invoke(f *Closure, args []Value) (Value, error) {
	if c.depth >= MaxCallDepth {
		return nil, ErrCallDepth.With(
			slog.String("function", f.Name),
			slog.Int("depth", c.depth),
		)
	}

	frame := c.fork()
	frame.depth++

	c.logger.Trace("call",
		slog.String("function", f.Name),
		slog.Int("args", len(args)),
	)

	for i, p := range f.Params {
		pat, ok := p.Pattern.(Pattern)
		if !ok {
			return nil, foreignError(p.Pattern)
		}

		var v Value

		switch {
		case i < len(args):
			v = args[i]

		case p.Default != nil:
			e, ok := p.Default.(Expr)
			if !ok {
				return nil, foreignError(p.Default)
			}

			dv, err := frame.eval(e)
			if err != nil {
				return nil, err
			}

			v = dv

		default:
			return nil, missingArgumentError(f.Name, p.Pattern)
		}

		if err := frame.bind(pat, v); err != nil {
			return nil, err
		}
	}

	switch body := f.Body.(type) {
	case tmpl.Inline:
		e, ok := body.Expr.(Expr)
		if !ok {
			return nil, foreignError(body.Expr)
		}

		return frame.eval(e)

	case tmpl.Block:
		s, err := tmpl.Render(frame, body.Nodes)
		if err != nil {
			return nil, err
		}

		return String(s), nil
	}

	return nil, foreignError(f.Body)
}
