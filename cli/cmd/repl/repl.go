package repl

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/yfelo/log"
)

// editDoneMsg is sent when an edited template was rendered successfully.
type editDoneMsg struct{ draft, output string }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a parse
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-parse error.
type editErrorMsg struct {
	err   error
	draft string
}

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// inputMode selects what a submitted line is: a template or expression, or
// a control command.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

func (m inputMode) other() inputMode {
	if m == modeEval {
		return modeCtrl
	}

	return modeEval
}

func (m inputMode) prompt() string {
	if m == modeCtrl {
		return ctrlPromptStyle.Render(" :")
	}

	return promptStyle.Render("➜ ")
}

// echo formats a submitted line the way it was typed.
func (m inputMode) echo(input string) string {
	return m.prompt() + inputStyle.Render(input)
}

// buffer is the text and cursor of an input line.
type buffer struct {
	text   string
	cursor int
}

// completion is the candidate list for the word under the cursor.
type completion struct {
	matches    fuzzy.Matches
	saved      buffer // input before cycling began
	start, end int    // byte bounds of the word being completed
	index      int    // selected match, -1 when none
	cycling    bool
}

// navigation tracks the position in history. index equals the history
// length while a fresh line is being typed.
type navigation struct {
	saved     buffer // input before Alt navigation began
	index     int
	savedMode inputMode
	ctrlOnly  bool // Alt navigation through commands only
}

type model struct {
	ctxFunc  func() context.Context
	history  *History
	preset   map[string]struct{} // names visible when the session started
	session  Session
	logger   log.Logger
	draft    string // last template written with edit
	input    textinput.Model
	buffers  [2]buffer // stashed input of each mode
	comp     completion
	nav      navigation
	width    int
	mode     inputMode
	quitting bool
}

// Run starts an interactive session over session. History is kept in
// cacheDir.
func Run(
	ctx context.Context,
	session Session,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if session.Engine == nil || session.Scope == nil {
		return ErrNoSession
	}

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("history", history.Len()),
	)

	_, err = tea.NewProgram(
		newModel(ctx, session, history, logger),
		tea.WithContext(ctx),
	).Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	session Session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = modeEval.prompt()
	ti.CharLimit = 1024
	ti.Width = defaultWidth
	ti.Focus()

	preset := make(map[string]struct{})
	for _, name := range session.Scope.Names() {
		preset[name] = struct{}{}
	}

	return model{
		ctxFunc: func() context.Context { return ctx },
		history: history,
		preset:  preset,
		session: session,
		logger:  logger,
		input:   ti,
		comp:    completion{index: -1},
		nav:     navigation{index: history.Len()},
		width:   defaultWidth,
		mode:    modeEval,
	}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(m.input.Prompt) - 1

		return m, nil

	case editDoneMsg:
		m.draft = msg.draft
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl edit rendered",
			slog.Int("output_bytes", len(msg.output)),
		)

		if msg.output == "" {
			return m, tea.Println(resultStyle.Render("✔ — template rendered"))
		}

		return m, tea.Println(resultStyle.Render(msg.output))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("🗴 — edit cancelled."))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		m.draft = msg.draft

		return m, tea.Println(errorStyle.Render("🗴 — error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

// current returns the input line being edited.
func (m model) current() buffer {
	return buffer{text: m.input.Value(), cursor: m.input.Position()}
}

// load replaces the input line with b and recomputes completions.
func (m *model) load(b buffer) {
	m.input.SetValue(b.text)
	m.input.SetCursor(b.cursor)
	m.refresh(false)
}

// switchMode stashes the input of the current mode and restores the input
// last typed in mode.
func (m model) switchMode(mode inputMode) model {
	m.buffers[m.mode] = m.current()
	m.mode = mode
	m.input.Prompt = mode.prompt()
	m.load(m.buffers[mode])

	return m
}
