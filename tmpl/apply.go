package tmpl

import "strings"

// Apply calls a template function and renders its result.
//
//	{@apply NAME}
//	{@apply NAME(ARGS)}
type Apply struct {
	BaseDirective

	Name string
	Args []Expr
}

// OpenApply is the factory for [Apply].
func OpenApply(r *Reader, tag TagInfo) (Directive, error) {
	name, _, err := r.ParseIdent()
	if err != nil {
		return nil, err
	}

	d := &Apply{Name: name}

	if r.ParsePunct("(") == nil {
		for r.ParsePunct(")") != nil {
			arg, err := r.ParseExpr()
			if err != nil {
				return nil, err
			}

			d.Args = append(d.Args, arg)

			if r.ParsePunct(",") == nil {
				continue
			}

			if err := r.ParsePunct(")"); err != nil {
				return nil, err
			}

			break
		}
	}

	if err := tag.ExpectEmpty(); err != nil {
		return nil, err
	}

	return d, nil
}

// Render implements [Directive].
func (d *Apply) Render(ctx Context, _ []Node, _ []*Element) (string, error) {
	v, err := ctx.Apply(d.Name, d.Args)
	if err != nil {
		return "", err
	}

	return v.String(), nil
}

func (d *Apply) String() string {
	if len(d.Args) == 0 {
		return d.Name
	}

	args := make([]string, len(d.Args))
	for i, a := range d.Args {
		args[i] = a.String()
	}

	return d.Name + "(" + strings.Join(args, ", ") + ")"
}
