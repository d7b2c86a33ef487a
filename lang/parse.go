package lang

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/yfelo/tmpl"
)

// ParseExpr parses one expression from the start of src. Leading whitespace
// is skipped and counted; trailing input is left unconsumed. Ranges in the
// result and in errors are shifted by offset.
func ParseExpr(src string, offset int) (Expr, int, error) {
	p := &parser{src: src, offset: offset}

	p.skipSpace()

	e, err := p.parseExpr()
	if err != nil {
		return nil, 0, err
	}

	return e, p.pos, nil
}

// ParsePattern parses one binding pattern from the start of src with the
// same conventions as [ParseExpr].
func ParsePattern(src string, offset int) (Pattern, int, error) {
	p := &parser{src: src, offset: offset}

	p.skipSpace()

	pat, err := p.parsePattern()
	if err != nil {
		return nil, 0, err
	}

	return pat, p.pos, nil
}

// parser holds the parser state.
type parser struct {
	src    string
	pos    int
	offset int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}

	return p.src[p.pos]
}

func (p *parser) peekRune() rune {
	r, _ := utf8.DecodeRuneInString(p.src[p.pos:])

	return r
}

func (p *parser) skipSpace() {
	for !p.eof() {
		r, n := utf8.DecodeRuneInString(p.src[p.pos:])
		if !unicode.IsSpace(r) {
			return
		}

		p.pos += n
	}
}

// expect consumes c after optional whitespace.
func (p *parser) expect(c byte) bool {
	p.skipSpace()

	if p.peek() != c {
		return false
	}

	p.pos++

	return true
}

// span returns the absolute range from start to the current position.
func (p *parser) span(start int) tmpl.Range {
	return tmpl.Range{Start: start + p.offset, End: p.pos + p.offset}
}

func (p *parser) errorf(format string, args ...any) *tmpl.SyntaxError {
	return tmpl.NewSyntaxError(tmpl.At(p.pos+p.offset), format, args...)
}

func (p *parser) parseExpr() (Expr, error) { return p.parseBinary(1) }

// parseBinary is a precedence climbing loop over infix operators binding at
// least as tightly as minPrec.
func (p *parser) parseBinary(minPrec int) (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		save := p.pos

		p.skipSpace()

		op, ok := p.peekBinary()
		if !ok || op.Precedence() < minPrec {
			p.pos = save

			return left, nil
		}

		start := p.pos
		p.pos += len(op.String())
		span := p.span(start)

		p.skipSpace()

		next := op.Precedence() + 1
		if op.RightAssoc() {
			next = op.Precedence()
		}

		right, err := p.parseBinary(next)
		if err != nil {
			// a dangling operator may belong to the tag delimiter
			p.pos = save

			return left, nil
		}

		left = &Binary{Left: left, Op: op, Right: right, Range: span}
	}
}

func (p *parser) peekBinary() (BinaryOp, bool) {
	rest := p.src[p.pos:]

	for _, op := range binaryOps {
		if strings.HasPrefix(rest, op.String()) {
			return op, true
		}
	}

	return 0, false
}

func (p *parser) parseUnary() (Expr, error) {
	var op UnaryOp

	switch p.peek() {
	case '!':
		op = Not
	case '+':
		op = Pos
	case '-':
		op = Neg
	default:
		return p.parsePostfix()
	}

	start := p.pos
	p.pos++
	span := p.span(start)

	p.skipSpace()

	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	return &Unary{Op: op, Operand: operand, Range: span}, nil
}

// parsePostfix parses an atom followed by any number of call, index and
// member suffixes. A suffix that fails to parse ends the expression before
// it rather than failing the whole parse.
func (p *parser) parsePostfix() (Expr, error) {
	e, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for {
		save := p.pos

		next, ok := p.parseSuffix(e)
		if !ok {
			p.pos = save

			return e, nil
		}

		e = next
	}
}

func (p *parser) parseSuffix(base Expr) (Expr, bool) {
	start := p.pos

	switch p.peek() {
	case '(':
		p.pos++

		args, ok := p.parseList(')')
		if !ok {
			return nil, false
		}

		return &Call{Func: base, Args: args, Range: p.span(start)}, true

	case '[':
		p.pos++
		p.skipSpace()

		key, err := p.parseExpr()
		if err != nil || !p.expect(']') {
			return nil, false
		}

		return &Index{Base: base, Key: key, Bracket: true, Range: p.span(start)}, true

	case '.':
		p.pos++

		keyStart := p.pos

		name, ok := p.scanIdent()
		if !ok {
			return nil, false
		}

		key := &StringLit{Value: name, Range: p.span(keyStart)}

		return &Index{Base: base, Key: key, Range: p.span(start)}, true
	}

	return nil, false
}

// parseList parses comma separated expressions up to and including the
// closing byte. A trailing comma is allowed.
func (p *parser) parseList(closing byte) ([]Expr, bool) {
	var list []Expr

	for {
		if p.expect(closing) {
			return list, true
		}

		p.skipSpace()

		e, err := p.parseExpr()
		if err != nil {
			return nil, false
		}

		list = append(list, e)

		if p.expect(',') {
			continue
		}

		if p.expect(closing) {
			return list, true
		}

		return nil, false
	}
}

func (p *parser) parseAtom() (Expr, error) {
	start := p.pos

	switch c := p.peek(); {
	case c >= '0' && c <= '9':
		return p.parseNumber()

	case c == '"' || c == '\'':
		s, err := p.scanString()
		if err != nil {
			return nil, err
		}

		return &StringLit{Value: s, Range: p.span(start)}, nil

	case c == '[':
		p.pos++

		items, ok := p.parseList(']')
		if !ok {
			return nil, p.errorf("expect ']'")
		}

		return &ArrayLit{Items: items, Range: p.span(start)}, nil

	case c == '{':
		return p.parseObject()

	case c == '(':
		p.pos++
		p.skipSpace()

		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if !p.expect(')') {
			return nil, p.errorf("expect ')'")
		}

		return e, nil
	}

	if name, ok := p.scanIdent(); ok {
		return &Ident{Name: name, Range: p.span(start)}, nil
	}

	return nil, p.errorf("expect expression")
}

func (p *parser) parseNumber() (Expr, error) {
	start := p.pos

	p.scanDigits()

	if p.peek() == '.' && p.pos+1 < len(p.src) && isDigit(p.src[p.pos+1]) {
		p.pos++
		p.scanDigits()
	}

	if c := p.peek(); c == 'e' || c == 'E' {
		save := p.pos
		p.pos++

		if c := p.peek(); c == '+' || c == '-' {
			p.pos++
		}

		if !isDigit(p.peek()) {
			p.pos = save
		} else {
			p.scanDigits()
		}
	}

	f, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return nil, tmpl.NewSyntaxError(p.span(start), "invalid number")
	}

	return &NumberLit{Value: f, Range: p.span(start)}, nil
}

func (p *parser) scanDigits() {
	for isDigit(p.peek()) {
		p.pos++
	}
}

func (p *parser) scanString() (string, error) {
	quote := p.src[p.pos]
	start := p.pos
	p.pos++

	var sb strings.Builder

	for !p.eof() {
		c := p.src[p.pos]

		switch {
		case c == quote:
			p.pos++

			return sb.String(), nil

		case c == '\\' && p.pos+1 < len(p.src):
			r, n := utf8.DecodeRuneInString(p.src[p.pos+1:])

			switch r {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteRune(r)
			}

			p.pos += 1 + n

		default:
			sb.WriteByte(c)
			p.pos++
		}
	}

	p.pos = start

	return "", p.errorf("unterminated string")
}

func (p *parser) scanIdent() (string, bool) {
	start := p.pos

	if p.eof() || !isIdentStart(p.peekRune()) {
		return "", false
	}

	for !p.eof() {
		r, n := utf8.DecodeRuneInString(p.src[p.pos:])
		if !isIdentChar(r) {
			break
		}

		p.pos += n
	}

	return p.src[start:p.pos], true
}

func (p *parser) parseObject() (Expr, error) {
	start := p.pos
	p.pos++

	var entries []ObjectEntry

	for {
		if p.expect('}') {
			return &ObjectLit{Entries: entries, Range: p.span(start)}, nil
		}

		p.skipSpace()

		key, err := p.parseKey()
		if err != nil {
			return nil, err
		}

		ent := ObjectEntry{Key: key}

		if p.expect(':') {
			p.skipSpace()

			if ent.Value, err = p.parseExpr(); err != nil {
				return nil, err
			}
		} else if _, ok := key.(*Ident); !ok {
			return nil, p.errorf("expect ':'")
		}

		entries = append(entries, ent)

		if p.expect(',') {
			continue
		}

		if p.expect('}') {
			return &ObjectLit{Entries: entries, Range: p.span(start)}, nil
		}

		return nil, p.errorf("expect '}'")
	}
}

// parseKey parses an object key: identifier, string or number.
func (p *parser) parseKey() (Expr, error) {
	start := p.pos

	switch c := p.peek(); {
	case isDigit(c):
		return p.parseNumber()

	case c == '"' || c == '\'':
		s, err := p.scanString()
		if err != nil {
			return nil, err
		}

		return &StringLit{Value: s, Range: p.span(start)}, nil
	}

	if name, ok := p.scanIdent(); ok {
		return &Ident{Name: name, Range: p.span(start)}, nil
	}

	return nil, p.errorf("expect object key")
}

func (p *parser) parsePattern() (Pattern, error) {
	start := p.pos

	switch p.peek() {
	case '[':
		p.pos++

		var items []Pattern

		for {
			if p.expect(']') {
				return &ArrayPattern{Items: items, Range: p.span(start)}, nil
			}

			p.skipSpace()

			item, err := p.parsePattern()
			if err != nil {
				return nil, err
			}

			items = append(items, item)

			if p.expect(',') {
				continue
			}

			if p.expect(']') {
				return &ArrayPattern{Items: items, Range: p.span(start)}, nil
			}

			return nil, p.errorf("expect ']'")
		}

	case '{':
		p.pos++

		var entries []PatternEntry

		for {
			if p.expect('}') {
				return &ObjectPattern{Entries: entries, Range: p.span(start)}, nil
			}

			p.skipSpace()

			key, err := p.parseKey()
			if err != nil {
				return nil, err
			}

			ent := PatternEntry{Key: key}

			if p.expect(':') {
				p.skipSpace()

				if ent.Value, err = p.parsePattern(); err != nil {
					return nil, err
				}
			} else if id, ok := key.(*Ident); !ok || isReserved(id.Name) {
				return nil, p.errorf("expect ':'")
			}

			entries = append(entries, ent)

			if p.expect(',') {
				continue
			}

			if p.expect('}') {
				return &ObjectPattern{Entries: entries, Range: p.span(start)}, nil
			}

			return nil, p.errorf("expect '}'")
		}
	}

	name, ok := p.scanIdent()
	if !ok {
		return nil, p.errorf("expect pattern")
	}

	if isReserved(name) {
		p.pos = start

		return nil, p.errorf("reserved identifier '%s'", name)
	}

	return &IdentPattern{Name: name, Range: p.span(start)}, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isIdentChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isReserved reports whether name is a literal keyword.
func isReserved(name string) bool {
	switch name {
	case "true", "false", "null":
		return true
	}

	return false
}
