package repl

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m model) View() string {
	if m.quitting {
		return ""
	}

	return m.input.View() + "\n" + m.status() + "\n"
}

// status renders the line below the input: the history position while
// browsing, a usage hint on an empty line, the signature of the call under
// the cursor, or the completion candidates.
func (m model) status() string {
	input := m.input.Value()

	switch {
	case m.nav.index < m.history.Len():
		pos := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.nav.index + 1))

		return hintStyle.Render(pos + "/" + strconv.Itoa(m.history.Len()))

	case strings.TrimSpace(input) == "":
		if m.mode == modeCtrl {
			return hintStyle.Render(
				"Type " + strings.Join(commandNames(), ", ") + " (press Esc to return)",
			)
		}

		return hintStyle.Render("Type a template or expression, or press Esc for commands")

	case m.mode == modeEval:
		call := detectFunctionCall(input, m.input.Position())
		if !call.inCall {
			break
		}

		if params, ok := getSignature(m.session.Scope, call.name); ok {
			return renderSignatureHint(call.name, params, call.argIndex)
		}
	}

	return renderCandidateBar(m.comp.matches, m.comp.index, m.comp.cycling, m.width, m.isFunc)
}

// isFunc reports whether the completion candidate name refers to a
// function at the current member path.
func (m model) isFunc(name string) bool {
	if m.mode != modeEval {
		return false
	}

	if parent := parentPath(m.input.Value(), m.comp.start); parent != "" {
		name = parent + "." + name
	}

	_, ok := m.session.Scope.Signature(name)

	return ok
}
