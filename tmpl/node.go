package tmpl

// Node is one item of a parsed template: [Text], [*ExprNode] or [*Element].
// A parsed tree is immutable and may be rendered concurrently against
// independent contexts.
type Node interface {
	node()
}

// Text is literal template text.
type Text string

// ExprNode is an interpolated expression.
type ExprNode struct {
	Expr Expr
}

// Element is a parsed directive occurrence. Branches hold the secondary tags
// (such as elif and else) attached to the element, each with its own nodes.
type Element struct {
	Directive Directive
	Name      string
	Mark      Mark
	Nodes     []Node
	Branches  []*Element
}

func (Text) node()      {}
func (*ExprNode) node() {}
func (*Element) node()  {}

// Mark is the character following the left delimiter of a directive tag.
type Mark byte

const (
	MarkOpen   Mark = '#'
	MarkClose  Mark = '/'
	MarkInline Mark = '@'
	MarkBranch Mark = ':'
)

func (m Mark) String() string { return string(rune(m)) }

func isMark(c byte) bool {
	switch Mark(c) {
	case MarkOpen, MarkClose, MarkInline, MarkBranch:
		return true
	}

	return false
}

// TagInfo describes a directive tag while it is being parsed.
type TagInfo struct {
	Name  string
	Range Range
	Mark  Mark
}

// ExpectChildren fails unless the tag opens a block or a branch.
func (t TagInfo) ExpectChildren() error {
	if t.Mark == MarkOpen || t.Mark == MarkBranch {
		return nil
	}

	return NewSyntaxError(t.Range, "directive '%s' should not be empty", t.Name)
}

// ExpectEmpty fails unless the tag is inline.
func (t TagInfo) ExpectEmpty() error {
	if t.Mark == MarkInline {
		return nil
	}

	return NewSyntaxError(t.Range, "directive '%s' should be empty", t.Name)
}
