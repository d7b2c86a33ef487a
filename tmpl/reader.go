package tmpl

import (
	"errors"
	"strings"
	"unicode"
)

// openElement is an element on the reader stack together with the tag that
// opened it and the branch tags attached so far.
type openElement struct {
	elem     *Element
	tag      TagInfo
	branches []TagInfo
}

// Reader scans template source into a node tree. Directive factories receive
// the Reader to consume their own argument syntax with the Parse helpers.
type Reader struct {
	lang  Language
	dirs  Registry
	left  string
	right string
	src   string
	pos   int
	stack []openElement
	// tagged is set once a tag has been scanned, so the next text chunk
	// follows a tag.
	tagged bool
}

// NewReader returns a Reader over src starting at byte offset start.
func NewReader(
	src string,
	start int,
	left, right string,
	lang Language,
	dirs Registry,
) *Reader {
	return &Reader{
		lang:  lang,
		dirs:  dirs,
		left:  left,
		right: right,
		src:   src,
		pos:   start,
		stack: []openElement{{elem: &Element{Directive: Stub{}, Mark: MarkOpen}}},
	}
}

// Offset returns the current byte offset into the source.
func (r *Reader) Offset() int { return r.pos }

// Language returns the expression language used by the reader.
func (r *Reader) Language() Language { return r.lang }

func (r *Reader) rest() string { return r.src[r.pos:] }

func (r *Reader) skip(n int) { r.pos += n }

// TrimStart skips whitespace at the current offset.
func (r *Reader) TrimStart() {
	rest := r.rest()
	r.skip(len(rest) - len(strings.TrimLeftFunc(rest, unicode.IsSpace)))
}

// ParseExpr parses an expression at the current offset and skips trailing
// whitespace.
func (r *Reader) ParseExpr() (Expr, error) {
	expr, n, err := r.lang.ParseExpr(r.rest(), r.pos)
	if err != nil {
		return nil, &SyntaxError{
			Message: "expect expression",
			Range:   At(r.pos),
			Hint:    hintFrom(err),
		}
	}

	r.skip(n)
	r.TrimStart()

	return expr, nil
}

// ParsePattern parses a pattern at the current offset and skips trailing
// whitespace. The returned range covers the pattern text.
func (r *Reader) ParsePattern() (Pattern, Range, error) {
	pat, n, err := r.lang.ParsePattern(r.rest(), r.pos)
	if err != nil {
		return nil, At(r.pos), &SyntaxError{
			Message: "expect pattern",
			Range:   At(r.pos),
			Hint:    hintFrom(err),
		}
	}

	rest := r.rest()
	lead := len(rest) - len(strings.TrimLeftFunc(rest, unicode.IsSpace))
	span := Range{Start: r.pos + min(lead, n), End: r.pos + n}

	r.skip(n)
	r.TrimStart()

	return pat, span, nil
}

// ParseIdent parses a name made of ASCII letters, digits and underscores.
func (r *Reader) ParseIdent() (string, Range, error) {
	rest := r.rest()

	n := strings.IndexFunc(rest, func(c rune) bool { return !isNameChar(c) })
	if n < 0 {
		n = len(rest)
	}

	if n == 0 {
		return "", At(r.pos), NewSyntaxError(At(r.pos), "expect identifier")
	}

	span := Range{Start: r.pos, End: r.pos + n}

	r.skip(n)
	r.TrimStart()

	return rest[:n], span, nil
}

// ParsePunct consumes punct and any whitespace after it.
func (r *Reader) ParsePunct(punct string) error {
	if !strings.HasPrefix(r.rest(), punct) {
		return NewSyntaxError(At(r.pos), "expected punctuation '%s'", punct)
	}

	r.skip(len(punct))
	r.TrimStart()

	return nil
}

// ParseKeyword consumes keyword if it is not followed by a name character.
// Whitespace after the keyword is left in place.
func (r *Reader) ParseKeyword(keyword string) error {
	rest := r.rest()

	if !strings.HasPrefix(rest, keyword) ||
		(len(rest) > len(keyword) && isNameChar(rune(rest[len(keyword)]))) {
		return NewSyntaxError(At(r.pos), "expect keyword '%s'", keyword)
	}

	r.skip(len(keyword))

	return nil
}

func (r *Reader) closeTag() error {
	if !strings.HasPrefix(r.rest(), r.right) {
		return NewSyntaxError(At(r.pos), "invalid tag syntax: expect '%s'", r.right)
	}

	r.skip(len(r.right))

	return nil
}

func (r *Reader) top() *openElement { return &r.stack[len(r.stack)-1] }

// pushNode appends n to the innermost open element, or to its last branch.
func (r *Reader) pushNode(n Node) {
	elem := r.top().elem
	if k := len(elem.Branches); k > 0 {
		elem = elem.Branches[k-1]
	}

	elem.Nodes = append(elem.Nodes, n)
}

// pushText appends text, first dropping a whitespace run that contains a
// line break from each side that touches a tag. afterTag reports a tag
// before the chunk and beforeTag a tag after it.
func (r *Reader) pushText(text string, afterTag, beforeTag bool) {
	if afterTag {
		if rest := strings.TrimLeftFunc(text, isASCIISpace); strings.Contains(
			text[:len(text)-len(rest)], "\n",
		) {
			text = rest
		}
	}

	if beforeTag {
		if rest := strings.TrimRightFunc(text, isASCIISpace); strings.Contains(
			text[len(rest):], "\n",
		) {
			text = rest
		}
	}

	if text != "" {
		r.pushNode(Text(text))
	}
}

// open resolves the directive for tag and lets its factory parse arguments.
func (r *Reader) open(tag TagInfo) (Directive, error) {
	parent := r.top()

	name := tag.Name
	if tag.Mark == MarkBranch {
		name = parent.tag.Name + ":" + tag.Name
	}

	factory, ok := r.dirs.Lookup(name)
	if !ok {
		err := NewSyntaxError(tag.Range, "unknown directive '%s'", name)
		if s := r.dirs.suggest(name); s != "" {
			err.Hint = "did you mean '" + s + "'?"
		}

		return nil, err
	}

	if tag.Mark == MarkBranch {
		if err := parent.elem.Directive.Branch(parent.branches, tag); err != nil {
			return nil, err
		}
	}

	dir, err := factory(r, tag)
	if err != nil {
		var se *SyntaxError
		if !errors.As(err, &se) {
			return nil, &SyntaxError{Message: err.Error(), Range: tag.Range}
		}

		// the directive narrowed the location itself
		if se.Range != tag.Range {
			se.Message = "invalid syntax for directive '" + tag.Name + "': " +
				se.Message
		}

		return nil, se
	}

	return dir, nil
}

func (r *Reader) expectParent(tag TagInfo) error {
	if len(r.stack) == 1 {
		return NewSyntaxError(tag.Range, "unmatched tag name '%s'", tag.Name)
	}

	return nil
}

// tagName scans a directive name, which unlike an identifier is limited to
// ASCII letters and digits.
func (r *Reader) tagName() (string, Range, error) {
	rest := r.rest()

	n := strings.IndexFunc(rest, func(c rune) bool { return !isAlnum(c) })
	if n < 0 {
		n = len(rest)
	}

	span := Range{Start: r.pos, End: r.pos + n}
	if n == 0 {
		return "", span, NewSyntaxError(span, "invalid tag syntax: missing directive name")
	}

	r.skip(n)
	r.TrimStart()

	return rest[:n], span, nil
}

func (r *Reader) directive(mark Mark) error {
	name, span, err := r.tagName()
	if err != nil {
		return err
	}

	tag := TagInfo{Name: name, Range: span, Mark: mark}

	switch mark {
	case MarkOpen:
		dir, err := r.open(tag)
		if err != nil {
			return err
		}

		r.stack = append(r.stack, openElement{
			elem: &Element{Directive: dir, Name: name, Mark: mark},
			tag:  tag,
		})

	case MarkInline:
		dir, err := r.open(tag)
		if err != nil {
			return err
		}

		r.pushNode(&Element{Directive: dir, Name: name, Mark: mark})

	case MarkBranch:
		if err := r.expectParent(tag); err != nil {
			return err
		}

		dir, err := r.open(tag)
		if err != nil {
			return err
		}

		top := r.top()
		top.elem.Branches = append(top.elem.Branches,
			&Element{Directive: dir, Name: name, Mark: mark})
		top.branches = append(top.branches, tag)

	case MarkClose:
		if err := r.expectParent(tag); err != nil {
			return err
		}

		top := r.stack[len(r.stack)-1]
		if top.tag.Name != name {
			return NewSyntaxError(span,
				"unmatched tag name: expect '%s', found '%s'", top.tag.Name, name)
		}

		r.stack = r.stack[:len(r.stack)-1]

		if err := top.elem.Directive.Close(r, tag); err != nil {
			return err
		}

		r.pushNode(top.elem)
	}

	return nil
}

// Run scans the whole source and returns the root nodes.
func (r *Reader) Run() ([]Node, error) {
	for {
		rest := r.rest()

		i := strings.Index(rest, r.left)
		if i < 0 {
			break
		}

		r.pushText(rest[:i], r.tagged, true)
		r.skip(i + len(r.left))
		r.tagged = true

		if rest = r.rest(); rest != "" && isMark(rest[0]) {
			r.skip(1)

			if err := r.directive(Mark(rest[0])); err != nil {
				return nil, err
			}

			if err := r.closeTag(); err != nil {
				return nil, err
			}

			continue
		}

		expr, err := r.ParseExpr()
		if err != nil {
			return nil, err
		}

		if err := r.closeTag(); err != nil {
			return nil, err
		}

		r.pushNode(&ExprNode{Expr: expr})
	}

	r.pushText(r.rest(), r.tagged, false)
	r.pos = len(r.src)

	if len(r.stack) > 1 {
		top := r.top()

		return nil, NewSyntaxError(top.tag.Range,
			"unmatched tag name '%s'", top.tag.Name)
	}

	return r.stack[0].elem.Nodes, nil
}

func isAlnum(c rune) bool {
	return c < unicode.MaxASCII && (unicode.IsLetter(c) || unicode.IsDigit(c))
}

func isNameChar(c rune) bool { return c == '_' || isAlnum(c) }

func isASCIISpace(c rune) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}

	return false
}

func hintFrom(err error) string {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se.Message
	}

	return err.Error()
}
