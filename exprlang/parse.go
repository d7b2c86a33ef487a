package exprlang

import (
	"errors"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/file"
	"github.com/expr-lang/expr/parser"

	"github.com/ardnew/yfelo/tmpl"
)

// reserved words cannot be bound by patterns.
var reserved = []string{
	"and", "contains", "else", "endsWith", "false", "if", "in", "let",
	"matches", "nil", "not", "or", "startsWith", "true",
}

// ParseExpr parses one expression from the start of src. Leading whitespace
// is skipped and counted; the input after the expression is left
// unconsumed. Ranges are shifted by offset.
func ParseExpr(src string, offset int) (*Expr, int, error) {
	lead := len(src) - len(strings.TrimLeftFunc(src, unicode.IsSpace))

	var (
		first error
		tried = -1
	)

	for _, cut := range cutPoints(src) {
		text := strings.TrimRightFunc(src[:cut], unicode.IsSpace)
		if len(text) <= lead || len(text) == tried {
			continue
		}

		tried = len(text)

		tree, err := parser.Parse(text[lead:])
		if err != nil {
			if first == nil {
				first = err
			}

			continue
		}

		e, err := compile(text[lead:], tree.Node)
		if err != nil {
			return nil, 0, &tmpl.SyntaxError{
				Message: "invalid expression",
				Range:   tmpl.Range{Start: offset + lead, End: offset + len(text)},
				Hint:    message(err),
			}
		}

		e.Range = tmpl.Range{Start: offset + lead, End: offset + len(text)}

		return e, len(text), nil
	}

	se := tmpl.NewSyntaxError(tmpl.At(offset+lead), "empty expression")
	if first != nil {
		se.Message = "invalid expression"
		se.Hint = message(first)
	}

	return nil, 0, se
}

func compile(source string, node ast.Node) (*Expr, error) {
	program, err := expr.Compile(source)
	if err != nil {
		return nil, err
	}

	v := &identVisitor{declared: map[string]bool{}}
	ast.Walk(&node, v)

	e := &Expr{Source: source, program: program}

	for _, name := range v.names {
		if !v.declared[name] && !slices.Contains(e.idents, name) {
			e.idents = append(e.idents, name)
		}
	}

	return e, nil
}

// identVisitor collects the identifiers an expression reads.
type identVisitor struct {
	names    []string
	declared map[string]bool
}

func (v *identVisitor) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IdentifierNode:
		v.names = append(v.names, n.Value)
	case *ast.VariableDeclaratorNode:
		v.declared[n.Name] = true
	}
}

// cutPoints returns the offsets at which src may end an expression, longest
// first. Scanning stops at the first unbalanced closing bracket or line
// break outside of brackets and strings.
func cutPoints(src string) []int {
	var (
		cuts  []int
		depth int
		quote byte
	)

	for i := 0; i < len(src); i++ {
		c := src[i]

		if quote != 0 {
			switch c {
			case '\\':
				if quote != '`' {
					i++
				}
			case quote:
				quote = 0
			}

			continue
		}

		if depth == 0 {
			cuts = append(cuts, i)
		}

		switch c {
		case '"', '\'', '`':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth == 0 {
				slices.Reverse(cuts)

				return cuts
			}

			depth--
		case '\n':
			if depth == 0 {
				slices.Reverse(cuts)

				return cuts
			}
		}
	}

	cuts = append(cuts, len(src))
	slices.Reverse(cuts)

	return cuts
}

// message returns the first line of an expr diagnostic.
func message(err error) string {
	var fe *file.Error
	if errors.As(err, &fe) {
		return fe.Message
	}

	msg, _, _ := strings.Cut(err.Error(), "\n")

	return msg
}

// ParsePattern parses one binding pattern from the start of src with the
// same conventions as [ParseExpr].
func ParsePattern(src string, offset int) (Pattern, int, error) {
	p := &patternParser{src: src, offset: offset}

	p.skipSpace()

	pat, err := p.parse()
	if err != nil {
		return nil, 0, err
	}

	return pat, p.pos, nil
}

type patternParser struct {
	src    string
	pos    int
	offset int
}

func (p *patternParser) skipSpace() {
	rest := p.src[p.pos:]
	p.pos += len(rest) - len(strings.TrimLeftFunc(rest, unicode.IsSpace))
}

func (p *patternParser) errorf(format string, args ...any) *tmpl.SyntaxError {
	return tmpl.NewSyntaxError(tmpl.At(p.offset+p.pos), format, args...)
}

func (p *patternParser) span(start int) tmpl.Range {
	return tmpl.Range{Start: p.offset + start, End: p.offset + p.pos}
}

func (p *patternParser) parse() (Pattern, error) {
	start := p.pos

	if p.pos < len(p.src) && p.src[p.pos] == '[' {
		p.pos++

		list := &List{}

		for {
			p.skipSpace()

			if p.pos < len(p.src) && p.src[p.pos] == ']' {
				p.pos++
				list.Range = p.span(start)

				return list, nil
			}

			item, err := p.parse()
			if err != nil {
				return nil, err
			}

			list.Items = append(list.Items, item)

			p.skipSpace()

			if p.pos < len(p.src) && p.src[p.pos] == ',' {
				p.pos++

				continue
			}

			if p.pos >= len(p.src) || p.src[p.pos] != ']' {
				return nil, p.errorf("expected punctuation ']'")
			}
		}
	}

	for p.pos < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if r != '_' && !unicode.IsLetter(r) && (p.pos == start || !unicode.IsDigit(r)) {
			break
		}

		p.pos += size
	}

	if p.pos == start {
		return nil, p.errorf("expect identifier")
	}

	name := p.src[start:p.pos]
	if slices.Contains(reserved, name) {
		p.pos = start

		return nil, p.errorf("reserved identifier '%s'", name)
	}

	return &Ident{Name: name, Range: p.span(start)}, nil
}
