package repl

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// commands are the control-mode commands in the order help lists them.
var commands = []struct {
	name    string
	aliases []string
	help    string
}{
	{"help", []string{"h", "?"}, "Print this help"},
	{"list", []string{"l"}, `List names bound in this session ("list all" adds the builtins)`},
	{"edit", []string{"e"}, "Write a multi-line template in $EDITOR and render it"},
	{"draft", []string{"d"}, "Print the last template written with edit"},
	{"clear", []string{"c"}, "Clear the screen"},
	{"quit", []string{"q", "exit"}, "Exit"},
}

// commandNames returns the command names offered for completion.
func commandNames() []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.name
	}

	return names
}

// lookupCommand resolves a command name or alias.
func lookupCommand(name string) (string, bool) {
	for _, c := range commands {
		if c.name == name || slices.Contains(c.aliases, name) {
			return c.name, true
		}
	}

	return "", false
}

func helpMessage() string {
	var b strings.Builder

	b.WriteString("\n: Commands (press Esc to toggle mode):\n\n")

	for _, c := range commands {
		fmt.Fprintf(&b, "  %-8s %s\n", c.name, c.help)
	}

	b.WriteString(`
Usage:
  Type a template to render it; definitions persist between lines
  Type a line without tags to evaluate it as an expression
  Tab / Shift-Tab cycle through completions, Space accepts one
  Up/Down walk history, switching mode to match the entry
  Shift+Up/Shift+Down walk history of the current mode only
  Alt+Up/Alt+Down walk command history, then restore the line
  Ctrl+C on an empty line or Ctrl+D exits
`)

	return b.String()
}

// submit runs the input line in the current mode and clears it.
func (m model) submit() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	mode := m.mode

	if _, err := m.history.WriteWithMode(input, mode); err != nil {
		m.logger.DebugContext(m.ctxFunc(), "could not save history", slog.Any("error", err))
	}

	m.buffers = [2]buffer{}
	m.nav = navigation{index: m.history.Len()}
	m.comp = completion{index: -1}
	m.input.SetValue("")

	echo := tea.Println(mode.echo(input))

	if mode == modeCtrl {
		return m.command(echo, input)
	}

	if out := m.evaluate(input); out != nil {
		return m, tea.Sequence(echo, out)
	}

	return m, echo
}

// evaluate renders or evaluates input against the session and returns the
// command printing its result, or nil when there is nothing to print.
func (m model) evaluate(input string) tea.Cmd {
	ctx := m.ctxFunc()

	out, err := m.session.Eval(ctx, input)
	if err != nil {
		m.logger.DebugContext(
			ctx,
			"repl eval failed",
			slog.String("input", input),
			slog.Any("error", err),
		)

		return tea.Println(errorStyle.Render("error: " + err.Error()))
	}

	m.logger.TraceContext(ctx, "repl eval", slog.Int("output_bytes", len(out)))

	if out == "" {
		return nil
	}

	return tea.Println(resultStyle.Render(out))
}

func (m model) command(echo tea.Cmd, input string) (model, tea.Cmd) {
	word, rest, _ := strings.Cut(input, " ")
	args := strings.Fields(rest)

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl command",
		slog.String("command", word),
		slog.Any("args", args),
	)

	name, ok := lookupCommand(word)
	if !ok {
		return m, tea.Sequence(echo, tea.Println(
			errorStyle.Render("unknown command: "+word+" (try 'help')"),
		))
	}

	switch name {
	case "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "list":
		return m, tea.Sequence(echo, tea.Println(m.listNames(slices.Contains(args, "all"))))

	case "edit":
		return m, tea.Sequence(echo, m.edit())

	case "draft":
		if strings.TrimSpace(m.draft) == "" {
			return m, tea.Sequence(echo, tea.Println(hintStyle.Render("  (no draft yet)")))
		}

		return m, tea.Sequence(echo, tea.Println(strings.TrimRight(m.draft, "\n")))

	case "clear":
		return m, tea.ClearScreen
	}

	m.quitting = true

	return m, tea.Sequence(echo, tea.Quit)
}

// edit opens the last draft in the user's editor and renders the result.
func (m model) edit() tea.Cmd {
	c := &editCommand{
		session: m.session,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
		draft:   m.draft,
	}

	return tea.Exec(c, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err, draft: c.draft}
		case c.cancelled:
			return editCancelledMsg{}
		}

		return editDoneMsg{draft: c.draft, output: c.output}
	})
}

// listNames lists the names bound since the session started, or every
// visible name when all is set, each with a short preview of its value.
func (m model) listNames(all bool) string {
	var b strings.Builder

	for _, name := range m.session.Scope.Names() {
		if _, ok := m.preset[name]; ok && !all {
			continue
		}

		if preview, ok := m.session.Preview(name); ok {
			fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(preview))
		}
	}

	if b.Len() == 0 {
		return hintStyle.Render("  (nothing bound yet)")
	}

	return strings.TrimRight(b.String(), "\n")
}
