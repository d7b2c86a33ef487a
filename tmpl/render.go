package tmpl

import "strings"

// Render renders nodes against ctx and concatenates the output. Directive
// elements re-enter Render for their own children.
func Render(ctx Context, nodes []Node) (string, error) {
	var sb strings.Builder

	for _, n := range nodes {
		switch n := n.(type) {
		case Text:
			sb.WriteString(string(n))

		case *ExprNode:
			v, err := ctx.Eval(n.Expr)
			if err != nil {
				return "", err
			}

			sb.WriteString(v.String())

		case *Element:
			s, err := n.Directive.Render(ctx, n.Nodes, n.Branches)
			if err != nil {
				return "", err
			}

			sb.WriteString(s)
		}
	}

	return sb.String(), nil
}
