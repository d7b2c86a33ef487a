package tmpl

import (
	"fmt"
	"strings"
	"unicode"
)

// Language parses the interior of tags. Offsets passed in are added to every
// reported range so errors point into the enclosing template. The returned
// length counts the bytes consumed from src.
type Language interface {
	ParseExpr(src string, offset int) (Expr, int, error)
	ParsePattern(src string, offset int) (Pattern, int, error)
}

// Expr is a parsed expression of some Language.
type Expr interface {
	fmt.Stringer
}

// Pattern is a parsed binding target of some Language.
type Pattern interface {
	fmt.Stringer
	// Ident returns the bound name if the pattern is a bare identifier.
	Ident() (string, bool)
}

// Context is one frame of an evaluation scope chain.
type Context interface {
	Eval(expr Expr) (Value, error)
	// Fork returns a child frame whose failed lookups fall back to the
	// receiver.
	Fork() Context
	Bind(pattern Pattern, value Value) error
	Def(name string, params []Param, body Definition) error
	Apply(name string, args []Expr) (Value, error)
}

// Value is a runtime value produced by a Context.
type Value interface {
	// String returns the rendered form of the value.
	String() string
	Bool() bool
	Entries() ([]Entry, error)
}

// Entry is one iteration step over a collection value.
type Entry struct {
	Value Value
	Key   Value
}

// Param is a function parameter with an optional default expression.
type Param struct {
	Pattern Pattern
	Default Expr
}

// Definition is the body of a template function: [Inline] or [Block].
type Definition interface {
	definition()
}

// Inline is a function body consisting of a single expression.
type Inline struct {
	Expr Expr
}

// Block is a function body consisting of template nodes.
type Block struct {
	Nodes []Node
}

func (Inline) definition() {}
func (Block) definition()  {}

// Eval parses src as one expression of l and evaluates it in c. Input other
// than white space after the expression is a syntax error.
func Eval(l Language, c Context, src string) (Value, error) {
	e, n, err := l.ParseExpr(src, 0)
	if err != nil {
		return nil, err
	}

	if rest := strings.TrimLeftFunc(src[n:], unicode.IsSpace); rest != "" {
		return nil, NewSyntaxError(At(len(src)-len(rest)), "unexpected input after expression")
	}

	return c.Eval(e)
}
