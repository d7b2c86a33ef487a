package exprlang

import (
	"strings"

	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/yfelo/tmpl"
)

// Expr is a compiled expression together with the source it came from.
type Expr struct {
	Source string
	Range  tmpl.Range

	program *vm.Program
	idents  []string // free identifiers, in order of first use
}

func (e *Expr) String() string { return e.Source }

// Idents returns the free identifiers of the expression in order of first
// use. Names declared with let inside the expression are excluded.
func (e *Expr) Idents() []string { return append([]string(nil), e.idents...) }

// Pattern is a binding target.
type Pattern interface {
	tmpl.Pattern
	pattern()
}

// Ident binds a single name.
type Ident struct {
	Name  string
	Range tmpl.Range
}

// List binds the elements of a slice to its items in order. Missing elements
// bind nil.
type List struct {
	Items []Pattern
	Range tmpl.Range
}

func (*Ident) pattern() {}
func (*List) pattern()  {}

func (p *Ident) String() string { return p.Name }

func (p *List) String() string {
	items := make([]string, len(p.Items))
	for i, item := range p.Items {
		items[i] = item.String()
	}

	return "[" + strings.Join(items, ", ") + "]"
}

func (p *Ident) Ident() (string, bool) { return p.Name, true }
func (*List) Ident() (string, bool)    { return "", false }
