package tmpl

// For renders its children once per entry of a collection.
//
//	{#for VALUE[, KEY] in EXPR}...{/for}
type For struct {
	BaseDirective

	Value Pattern
	Key   Pattern // nil when absent
	Expr  Expr
}

// OpenFor is the factory for [For].
func OpenFor(r *Reader, tag TagInfo) (Directive, error) {
	if err := tag.ExpectChildren(); err != nil {
		return nil, err
	}

	var (
		d   For
		err error
	)

	if d.Value, _, err = r.ParsePattern(); err != nil {
		return nil, err
	}

	if r.ParsePunct(",") == nil {
		if d.Key, _, err = r.ParsePattern(); err != nil {
			return nil, err
		}
	}

	if err = r.ParseKeyword("in"); err != nil {
		return nil, err
	}

	if d.Expr, err = r.ParseExpr(); err != nil {
		return nil, err
	}

	return &d, nil
}

// Render implements [Directive].
func (d *For) Render(ctx Context, nodes []Node, _ []*Element) (string, error) {
	v, err := ctx.Eval(d.Expr)
	if err != nil {
		return "", err
	}

	entries, err := v.Entries()
	if err != nil {
		return "", err
	}

	var out []byte

	for _, e := range entries {
		frame := ctx.Fork()

		if err := frame.Bind(d.Value, e.Value); err != nil {
			return "", err
		}

		if d.Key != nil {
			if err := frame.Bind(d.Key, e.Key); err != nil {
				return "", err
			}
		}

		s, err := Render(frame, nodes)
		if err != nil {
			return "", err
		}

		out = append(out, s...)
	}

	return string(out), nil
}

func (d *For) String() string {
	s := d.Value.String()
	if d.Key != nil {
		s += ", " + d.Key.String()
	}

	return s + " in " + d.Expr.String()
}
