package tmpl

import "log/slog"

// If renders its children when the condition holds, otherwise the first
// matching elif branch, otherwise the else branch.
//
//	{#if COND}...{:elif COND}...{:else}...{/if}
type If struct {
	BaseDirective

	Cond Expr
}

// OpenIf is the factory for [If] and its elif branch.
func OpenIf(r *Reader, tag TagInfo) (Directive, error) {
	if err := tag.ExpectChildren(); err != nil {
		return nil, err
	}

	cond, err := r.ParseExpr()
	if err != nil {
		return nil, err
	}

	return &If{Cond: cond}, nil
}

// Branch rejects any branch following an else.
func (*If) Branch(prior []TagInfo, tag TagInfo) error {
	for _, p := range prior {
		if p.Name == "else" {
			return NewSyntaxError(tag.Range,
				"'%s' cannot come after 'else'", tag.Name)
		}
	}

	return nil
}

// Render implements [Directive]. Every rendered branch gets its own frame.
func (d *If) Render(
	ctx Context,
	nodes []Node,
	branches []*Element,
) (string, error) {
	ok, err := truth(ctx, d.Cond)
	if err != nil {
		return "", err
	}

	if ok {
		return Render(ctx.Fork(), nodes)
	}

	for _, b := range branches {
		switch bd := b.Directive.(type) {
		case *If:
			ok, err := truth(ctx, bd.Cond)
			if err != nil {
				return "", err
			}

			if ok {
				return Render(ctx.Fork(), b.Nodes)
			}

		case Stub:
			return bd.Render(ctx, b.Nodes, nil)

		default:
			return "", ErrUnknownBranch.With(slog.String("branch", b.Name))
		}
	}

	return "", nil
}

func (d *If) String() string { return d.Cond.String() }

func truth(ctx Context, expr Expr) (bool, error) {
	v, err := ctx.Eval(expr)
	if err != nil {
		return false, err
	}

	return v.Bool(), nil
}
