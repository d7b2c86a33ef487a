package lang

import (
	"strconv"
	"strings"

	"github.com/ardnew/yfelo/tmpl"
)

// Expr is a node of the expression AST. Every node records the source range
// it was parsed from.
type Expr interface {
	tmpl.Expr
	Span() tmpl.Range
	expr()
}

type (
	// NumberLit is a numeric literal.
	NumberLit struct {
		Value float64
		Range tmpl.Range
	}

	// StringLit is a quoted string literal with escapes resolved.
	StringLit struct {
		Value string
		Range tmpl.Range
	}

	// Ident is an identifier reference.
	Ident struct {
		Name  string
		Range tmpl.Range
	}

	// ArrayLit is an array literal.
	ArrayLit struct {
		Items []Expr
		Range tmpl.Range
	}

	// ObjectLit is an object literal. Entries keep their source order.
	ObjectLit struct {
		Entries []ObjectEntry
		Range   tmpl.Range
	}

	// Call applies Func to Args. Range covers the argument list.
	Call struct {
		Func  Expr
		Args  []Expr
		Range tmpl.Range
	}

	// Unary is a prefix operation. Range covers the operator.
	Unary struct {
		Op      UnaryOp
		Operand Expr
		Range   tmpl.Range
	}

	// Binary is an infix operation. Range covers the operator.
	Binary struct {
		Left  Expr
		Op    BinaryOp
		Right Expr
		Range tmpl.Range
	}

	// Index looks up Key in Base. Bracket is false for the member form a.b,
	// in which case Key is the StringLit "b". Range covers the suffix.
	Index struct {
		Base    Expr
		Key     Expr
		Bracket bool
		Range   tmpl.Range
	}
)

// ObjectEntry is one "key: value" pair of an object literal. Value is nil
// for the shorthand form, where the key is an [*Ident] naming both the key
// and the bound value.
type ObjectEntry struct {
	Key   Expr
	Value Expr
}

func (e *NumberLit) Span() tmpl.Range { return e.Range }
func (e *StringLit) Span() tmpl.Range { return e.Range }
func (e *Ident) Span() tmpl.Range     { return e.Range }
func (e *ArrayLit) Span() tmpl.Range  { return e.Range }
func (e *ObjectLit) Span() tmpl.Range { return e.Range }
func (e *Call) Span() tmpl.Range      { return e.Range }
func (e *Unary) Span() tmpl.Range     { return e.Range }
func (e *Binary) Span() tmpl.Range    { return e.Range }
func (e *Index) Span() tmpl.Range     { return e.Range }

func (*NumberLit) expr() {}
func (*StringLit) expr() {}
func (*Ident) expr()     {}
func (*ArrayLit) expr()  {}
func (*ObjectLit) expr() {}
func (*Call) expr()      {}
func (*Unary) expr()     {}
func (*Binary) expr()    {}
func (*Index) expr()     {}

func (e *NumberLit) String() string { return formatNumber(e.Value) }
func (e *StringLit) String() string { return quote(e.Value) }
func (e *Ident) String() string     { return e.Name }

func (e *ArrayLit) String() string {
	return "[" + joinExprs(e.Items) + "]"
}

func (e *ObjectLit) String() string {
	var sb strings.Builder

	sb.WriteByte('{')

	for i, ent := range e.Entries {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(ent.Key.String())

		if ent.Value != nil {
			sb.WriteString(": ")
			sb.WriteString(ent.Value.String())
		}
	}

	sb.WriteByte('}')

	return sb.String()
}

func (e *Call) String() string {
	return operand(e.Func) + "(" + joinExprs(e.Args) + ")"
}

func (e *Unary) String() string {
	return e.Op.String() + operand(e.Operand)
}

func (e *Binary) String() string {
	return operand(e.Left) + " " + e.Op.String() + " " + operand(e.Right)
}

func (e *Index) String() string {
	if !e.Bracket {
		if k, ok := e.Key.(*StringLit); ok {
			return operand(e.Base) + "." + k.Value
		}
	}

	return operand(e.Base) + "[" + e.Key.String() + "]"
}

// operand parenthesizes operator expressions nested inside another
// expression.
func operand(e Expr) string {
	switch e.(type) {
	case *Binary, *Unary:
		return "(" + e.String() + ")"
	}

	return e.String()
}

func joinExprs(exprs []Expr) string {
	s := make([]string, len(exprs))
	for i, e := range exprs {
		s[i] = e.String()
	}

	return strings.Join(s, ", ")
}

// quote renders s as a double-quoted literal using only the escapes the
// parser understands.
func quote(s string) string {
	var sb strings.Builder

	sb.WriteByte('"')

	for _, c := range s {
		switch c {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteRune(c)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(c)
		}
	}

	sb.WriteByte('"')

	return sb.String()
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Pattern is a binding target.
type Pattern interface {
	tmpl.Pattern
	Span() tmpl.Range
	pattern()
}

type (
	// IdentPattern binds a single name.
	IdentPattern struct {
		Name  string
		Range tmpl.Range
	}

	// ArrayPattern binds array elements positionally.
	ArrayPattern struct {
		Items []Pattern
		Range tmpl.Range
	}

	// ObjectPattern binds object values by key.
	ObjectPattern struct {
		Entries []PatternEntry
		Range   tmpl.Range
	}
)

// PatternEntry is one "key: pattern" pair of an object pattern. Value is nil
// for the shorthand form, which binds the key's own name.
type PatternEntry struct {
	Key   Expr
	Value Pattern
}

func (p *IdentPattern) Span() tmpl.Range  { return p.Range }
func (p *ArrayPattern) Span() tmpl.Range  { return p.Range }
func (p *ObjectPattern) Span() tmpl.Range { return p.Range }

func (*IdentPattern) pattern()  {}
func (*ArrayPattern) pattern()  {}
func (*ObjectPattern) pattern() {}

// Ident implements [tmpl.Pattern].
func (p *IdentPattern) Ident() (string, bool) { return p.Name, true }

// Ident implements [tmpl.Pattern].
func (*ArrayPattern) Ident() (string, bool) { return "", false }

// Ident implements [tmpl.Pattern].
func (*ObjectPattern) Ident() (string, bool) { return "", false }

func (p *IdentPattern) String() string { return p.Name }

func (p *ArrayPattern) String() string {
	s := make([]string, len(p.Items))
	for i, item := range p.Items {
		s[i] = item.String()
	}

	return "[" + strings.Join(s, ", ") + "]"
}

func (p *ObjectPattern) String() string {
	s := make([]string, len(p.Entries))

	for i, ent := range p.Entries {
		s[i] = ent.Key.String()
		if ent.Value != nil {
			s[i] += ": " + ent.Value.String()
		}
	}

	return "{" + strings.Join(s, ", ") + "}"
}

// keyName returns the object key named by an object literal or pattern key.
func keyName(key Expr) string {
	switch k := key.(type) {
	case *Ident:
		return k.Name
	case *StringLit:
		return k.Value
	case *NumberLit:
		return formatNumber(k.Value)
	}

	return key.String()
}
