package repl

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/yfelo/lang"
	"github.com/ardnew/yfelo/log"
)

func testModel(t *testing.T) model {
	t.Helper()

	session := Session{
		Engine: lang.NewEngine(),
		Scope:  lang.NewContext(lang.WithBuiltins()),
	}

	history := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	return newModel(t.Context(), session, history, log.Logger{})
}

// enter types line into the input and submits it.
func enter(m model, line string) model {
	m.input.SetValue(line)
	m, _ = m.submit()

	return m
}

func TestLookupCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		word   string
		want   string
		wantOK bool
	}{
		{word: "help", want: "help", wantOK: true},
		{word: "?", want: "help", wantOK: true},
		{word: "exit", want: "quit", wantOK: true},
		{word: "d", want: "draft", wantOK: true},
		{word: "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			t.Parallel()

			got, ok := lookupCommand(tt.word)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("lookupCommand(%q) = %q, %v, want %q, %v", tt.word, got, ok, tt.want, tt.wantOK)
			}
		})
	}

	help := helpMessage()
	for _, name := range commandNames() {
		if !strings.Contains(help, "  "+name+" ") {
			t.Errorf("help does not describe %q", name)
		}
	}
}

func TestModel_Submit(t *testing.T) {
	t.Parallel()

	m := testModel(t)

	if got := m.listNames(false); !strings.Contains(got, "nothing bound") {
		t.Errorf("list before definitions = %q", got)
	}

	m = enter(m, "{@def n = 2}")
	m = enter(m, "{@def twice(x) = x * 2}")

	got := stripANSI(m.listNames(false))
	for _, want := range []string{"n = 2", "twice (x)"} {
		if !strings.Contains(got, want) {
			t.Errorf("list = %q, missing %q", got, want)
		}
	}

	if strings.Contains(got, "upper") {
		t.Errorf("list = %q, includes builtins", got)
	}

	if all := m.listNames(true); !strings.Contains(all, "upper") {
		t.Errorf("list all = %q, missing builtins", all)
	}

	if m.input.Value() != "" {
		t.Errorf("input after submit = %q, want empty", m.input.Value())
	}

	m = m.switchMode(modeCtrl)
	m = enter(m, "quit")

	if !m.quitting {
		t.Error("quit did not end the session")
	}

	if got := m.history.Len(); got != 3 {
		t.Errorf("history length = %d, want 3", got)
	}
}

func TestModel_Recall(t *testing.T) {
	t.Parallel()

	m := testModel(t)
	m = enter(m, "1 + 1")
	m = m.switchMode(modeCtrl)
	m = enter(m, "help")
	m = m.switchMode(modeEval)
	m = enter(m, "2 + 2")

	steps := []struct {
		step     int
		sameMode bool
		wantLine string
		wantMode inputMode
	}{
		{step: -1, wantLine: "2 + 2", wantMode: modeEval},
		{step: -1, wantLine: "help", wantMode: modeCtrl},
		{step: -1, wantLine: "1 + 1", wantMode: modeEval},
		{step: -1, wantLine: "1 + 1", wantMode: modeEval},
		{step: 1, sameMode: true, wantLine: "2 + 2", wantMode: modeEval},
		{step: 1, wantLine: "", wantMode: modeEval},
	}

	for i, s := range steps {
		m = m.recall(s.step, s.sameMode)

		if got := m.input.Value(); got != s.wantLine || m.mode != s.wantMode {
			t.Fatalf("step %d: line %q mode %d, want %q mode %d", i, got, m.mode, s.wantLine, s.wantMode)
		}
	}

	if m.nav.index != m.history.Len() {
		t.Errorf("index after newest = %d, want %d", m.nav.index, m.history.Len())
	}

	// Alt navigation visits commands only and restores the typed line.
	m.input.SetValue("draft text")

	m = m.recallCtrl(-1)
	if got := m.input.Value(); got != "help" || m.mode != modeCtrl {
		t.Fatalf("recallCtrl = %q mode %d, want help in command mode", got, m.mode)
	}

	m = m.recallCtrl(-1)
	if got := m.input.Value(); got != "draft text" || m.mode != modeEval {
		t.Errorf("restored = %q mode %d, want typed line in eval mode", got, m.mode)
	}
}

func TestModel_Cycle(t *testing.T) {
	t.Parallel()

	m := testModel(t)
	m = enter(m, "{@def alpha = 1}")
	m = enter(m, "{@def alps = 2}")

	m.input.SetValue("al")
	m.input.SetCursor(2)
	m.refresh(true)

	if len(m.comp.matches) < 2 {
		t.Fatalf("matches = %v, want alpha and alps", m.comp.matches)
	}

	first := m.comp.matches[0].Str

	m = m.cycle(1)
	if got := m.input.Value(); got != first {
		t.Errorf("after Tab = %q, want %q", got, first)
	}

	m = m.cycle(-1)
	if got := m.input.Value(); got == first {
		t.Errorf("Shift-Tab kept %q", got)
	}

	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if got := next.input.Value(); got != "al" {
		t.Errorf("Esc while cycling = %q, want the typed word", got)
	}
}
