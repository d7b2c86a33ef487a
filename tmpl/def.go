package tmpl

import "strings"

// DefVar binds the value of an expression in the current frame.
//
//	{@def PATTERN = EXPR}
type DefVar struct {
	BaseDirective

	Pattern Pattern
	Expr    Expr
}

// DefFunc stores a template function. Expr is nil for block bodies, whose
// children become the function body.
//
//	{@def NAME(PARAMS) = EXPR}
//	{#def NAME(PARAMS)}...{/def}
//	{#def NAME}...{/def}
type DefFunc struct {
	BaseDirective

	Name   string
	Params []Param
	Expr   Expr
}

// OpenDef is the factory for [DefVar] and [DefFunc].
func OpenDef(r *Reader, tag TagInfo) (Directive, error) {
	pat, span, err := r.ParsePattern()
	if err != nil {
		return nil, err
	}

	if r.ParsePunct("(") == nil {
		name, ok := pat.Ident()
		if !ok {
			return nil, NewSyntaxError(span, "expect identifier")
		}

		params, err := parseParams(r)
		if err != nil {
			return nil, err
		}

		d := &DefFunc{Name: name, Params: params}

		if r.ParsePunct("=") == nil {
			if err := tag.ExpectEmpty(); err != nil {
				return nil, err
			}

			if d.Expr, err = r.ParseExpr(); err != nil {
				return nil, err
			}

			return d, nil
		}

		if err := tag.ExpectChildren(); err != nil {
			return nil, err
		}

		return d, nil
	}

	if r.ParsePunct("=") == nil {
		if err := tag.ExpectEmpty(); err != nil {
			return nil, err
		}

		expr, err := r.ParseExpr()
		if err != nil {
			return nil, err
		}

		return &DefVar{Pattern: pat, Expr: expr}, nil
	}

	name, ok := pat.Ident()
	if !ok {
		return nil, NewSyntaxError(span, "expect identifier")
	}

	if err := tag.ExpectChildren(); err != nil {
		return nil, err
	}

	return &DefFunc{Name: name}, nil
}

// parseParams reads "PATTERN [= EXPR], ... )" after the opening parenthesis.
func parseParams(r *Reader) ([]Param, error) {
	var params []Param

	for r.ParsePunct(")") != nil {
		pat, _, err := r.ParsePattern()
		if err != nil {
			return nil, err
		}

		p := Param{Pattern: pat}

		if r.ParsePunct("=") == nil {
			if p.Default, err = r.ParseExpr(); err != nil {
				return nil, err
			}
		}

		params = append(params, p)

		if r.ParsePunct(",") == nil {
			continue
		}

		if err := r.ParsePunct(")"); err != nil {
			return nil, err
		}

		break
	}

	return params, nil
}

// Render implements [Directive].
func (d *DefVar) Render(ctx Context, _ []Node, _ []*Element) (string, error) {
	v, err := ctx.Eval(d.Expr)
	if err != nil {
		return "", err
	}

	return "", ctx.Bind(d.Pattern, v)
}

func (d *DefVar) String() string {
	return d.Pattern.String() + " = " + d.Expr.String()
}

// Render implements [Directive].
func (d *DefFunc) Render(ctx Context, nodes []Node, _ []*Element) (string, error) {
	var body Definition = Block{Nodes: nodes}
	if d.Expr != nil {
		body = Inline{Expr: d.Expr}
	}

	return "", ctx.Def(d.Name, d.Params, body)
}

func (d *DefFunc) String() string {
	var sb strings.Builder

	sb.WriteString(d.Name)

	if len(d.Params) > 0 || d.Expr != nil {
		sb.WriteByte('(')

		for i, p := range d.Params {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(p.Pattern.String())

			if p.Default != nil {
				sb.WriteString(" = ")
				sb.WriteString(p.Default.String())
			}
		}

		sb.WriteByte(')')
	}

	if d.Expr != nil {
		sb.WriteString(" = ")
		sb.WriteString(d.Expr.String())
	}

	return sb.String()
}
