package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall is the innermost call whose argument list holds the cursor.
type functionCall struct {
	name     string // dotted callee, e.g. "path.cat"
	argIndex int    // 0-based index of the argument under the cursor
	inCall   bool
}

// bracket is an unclosed opening bracket seen left of the cursor.
type bracket struct {
	pos    int  // byte offset of the bracket
	commas int  // top-level commas seen inside it so far
	open   byte // '(', '[' or '{'
}

// detectFunctionCall reports the call whose argument list contains cursor.
// Brackets of every kind nest, so commas inside array or object literals do
// not advance the argument index, and string literals are skipped.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(cursor, len(input))

	var (
		stack []bracket
		quote byte
	)

	for i := 0; i < cursor; i++ {
		c := input[i]

		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}

			continue
		}

		switch c {
		case '"', '\'', '`':
			quote = c
		case '(', '[', '{':
			stack = append(stack, bracket{pos: i, open: c})
		case ')', ']', '}':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case ',':
			if len(stack) > 0 {
				stack[len(stack)-1].commas++
			}
		}
	}

	if len(stack) == 0 || stack[len(stack)-1].open != '(' {
		return functionCall{}
	}

	top := stack[len(stack)-1]

	name := calleeBefore(input, top.pos)
	if name == "" {
		return functionCall{}
	}

	return functionCall{name: name, argIndex: top.commas, inCall: true}
}

// calleeBefore returns the dotted identifier ending at offset end, ignoring
// whitespace between it and the parenthesis.
func calleeBefore(input string, end int) string {
	head := strings.TrimRight(input[:end], " \t")

	start := len(head)
	for start > 0 && (isIdentByte(head[start-1]) || head[start-1] == '.') {
		start--
	}

	name := strings.Trim(head[start:], ".")
	if name == "" || !isIdentStart(name[0]) {
		return ""
	}

	return name
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80
}

func isIdentByte(c byte) bool { return isIdentStart(c) || c >= '0' && c <= '9' }

// getSignature returns the parameters of the function named name in scope.
// It reports false when name does not resolve to a function.
func getSignature(scope Scope, name string) ([]string, bool) {
	return scope.Signature(name)
}

// renderSignatureHint renders name(params...) with the parameter at arg
// highlighted. A variadic parameter stays highlighted for every argument at
// or past its position.
func renderSignatureHint(name string, params []string, arg int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		style := signatureStyle
		if arg == i || arg > i && strings.HasPrefix(param, "...") {
			style = currentParamStyle
		}

		b.WriteString(style.Render(param))
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
