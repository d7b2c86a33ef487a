package tmpl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Dump converts a node tree into plain maps and slices suitable for
// serialization.
func Dump(nodes []Node) []any {
	out := make([]any, 0, len(nodes))

	for _, n := range nodes {
		switch n := n.(type) {
		case Text:
			out = append(out, map[string]any{"text": string(n)})

		case *ExprNode:
			out = append(out, map[string]any{"expr": n.Expr.String()})

		case *Element:
			out = append(out, dumpElement(n))
		}
	}

	return out
}

func dumpElement(e *Element) map[string]any {
	m := map[string]any{
		"directive": e.Name,
		"mark":      e.Mark.String(),
	}

	if args := directiveArgs(e.Directive); args != "" {
		m["args"] = args
	}

	if len(e.Nodes) > 0 {
		m["nodes"] = Dump(e.Nodes)
	}

	if len(e.Branches) > 0 {
		branches := make([]any, len(e.Branches))
		for i, b := range e.Branches {
			branches[i] = dumpElement(b)
		}

		m["branches"] = branches
	}

	return m
}

func directiveArgs(d Directive) string {
	if s, ok := d.(fmt.Stringer); ok {
		return s.String()
	}

	return ""
}

// Format writes nodes back in template syntax using the given delimiters.
func Format(w io.Writer, nodes []Node, left, right string) error {
	var sb strings.Builder

	formatNodes(&sb, nodes, left, right)

	_, err := io.WriteString(w, sb.String())

	return err
}

func formatNodes(sb *strings.Builder, nodes []Node, left, right string) {
	for _, n := range nodes {
		switch n := n.(type) {
		case Text:
			sb.WriteString(string(n))

		case *ExprNode:
			sb.WriteString(left)
			sb.WriteString(n.Expr.String())
			sb.WriteString(right)

		case *Element:
			formatTag(sb, n, left, right)

			if n.Mark == MarkInline {
				continue
			}

			formatNodes(sb, n.Nodes, left, right)

			for _, b := range n.Branches {
				formatTag(sb, b, left, right)
				formatNodes(sb, b.Nodes, left, right)
			}

			sb.WriteString(left)
			sb.WriteByte(byte(MarkClose))
			sb.WriteString(n.Name)
			sb.WriteString(right)
		}
	}
}

func formatTag(sb *strings.Builder, e *Element, left, right string) {
	sb.WriteString(left)
	sb.WriteByte(byte(e.Mark))
	sb.WriteString(e.Name)

	if args := directiveArgs(e.Directive); args != "" {
		sb.WriteByte(' ')
		sb.WriteString(args)
	}

	sb.WriteString(right)
}

// FormatJSON writes the node dump as JSON. A positive indent pretty-prints.
func FormatJSON(_ context.Context, w io.Writer, nodes []Node, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(Dump(nodes), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(Dump(nodes))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the node dump as YAML. A non-positive indent selects
// flow style.
func FormatYAML(ctx context.Context, w io.Writer, nodes []Node, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, Dump(nodes), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}
