package repl

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
)

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		if msg.Type == tea.KeyCtrlC {
			m.comp.cycling = false
			m.nav = navigation{index: m.history.Len()}
			m.load(buffer{})
		}

		return m, nil

	case tea.KeyEnter:
		if m.comp.cycling && len(m.comp.matches) > 0 {
			// Keep the selected candidate without submitting.
			m.comp.cycling = false
			m.refresh(true)

			return m, nil
		}

		m.nav.ctrlOnly = false

		return m.submit()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp, tea.KeyDown:
		step := 1
		if msg.Type == tea.KeyUp {
			step = -1
		}

		if msg.Alt {
			return m.recallCtrl(step), nil
		}

		return m.recall(step, false), nil

	case tea.KeyShiftUp:
		return m.recall(-1, true), nil

	case tea.KeyShiftDown:
		return m.recall(1, true), nil

	case tea.KeyEsc:
		if m.comp.cycling {
			m.comp.cycling = false
			m.load(m.comp.saved)

			return m, nil
		}

		m.nav.ctrlOnly = false

		return m.switchMode(m.mode.other()), nil
	}

	// Any other key edits the line. A space after Tab accepts the candidate.
	var cmd tea.Cmd

	m.comp.cycling = false
	m.nav = navigation{index: m.history.Len()}
	m.input, cmd = m.input.Update(msg)
	m.refresh(msg.Type == tea.KeyRunes)

	return m, cmd
}

// cycle selects the next candidate in direction step and writes it into the
// input. A sole candidate is accepted at once.
func (m model) cycle(step int) model {
	n := len(m.comp.matches)

	switch {
	case n == 0:
		return m

	case n == 1:
		m.replaceWord(m.comp.matches[0].Str)
		m.comp = completion{index: -1}

		return m

	case !m.comp.cycling:
		m.comp.cycling = true
		m.comp.saved = m.current()

		m.comp.index = 0
		if step < 0 {
			m.comp.index = n - 1
		}

	default:
		m.comp.index = (m.comp.index + step + n) % n
	}

	m.replaceWord(m.comp.matches[m.comp.index].Str)

	return m
}

// replaceWord replaces the word being completed with s and moves the cursor
// after it.
func (m *model) replaceWord(s string) {
	v := m.input.Value()

	m.input.SetValue(v[:m.comp.start] + s + v[m.comp.end:])
	m.comp.end = m.comp.start + len(s)
	m.input.SetCursor(m.comp.end)
}

// recall moves through history in direction step and loads the entry it
// lands on, switching to that entry's mode. With sameMode set, entries of
// the other mode are skipped. Moving past the newest entry clears the line.
func (m model) recall(step int, sameMode bool) model {
	for i := m.nav.index + step; i >= 0 && i < m.history.Len(); i += step {
		e, err := m.history.GetEntry(i)
		if err != nil {
			break
		}

		if sameMode && e.Mode != m.mode {
			continue
		}

		if e.Mode != m.mode {
			m = m.switchMode(e.Mode)
		}

		m.nav.index = i
		m.load(buffer{text: e.Line, cursor: len(e.Line)})

		return m
	}

	if step > 0 && m.nav.index < m.history.Len() {
		m.nav.index = m.history.Len()
		m.load(buffer{})
	}

	return m
}

// recallCtrl browses command history only. Running off either end restores
// the mode and line that were active before browsing began.
func (m model) recallCtrl(step int) model {
	if !m.nav.ctrlOnly {
		m.nav.ctrlOnly = true
		m.nav.savedMode = m.mode
		m.nav.saved = m.current()
		m = m.switchMode(modeCtrl)
	}

	prev := m.nav.index

	m = m.recall(step, true)
	if m.nav.index != prev && m.nav.index < m.history.Len() {
		return m
	}

	m.nav.ctrlOnly = false
	m = m.switchMode(m.nav.savedMode)
	m.nav.index = m.history.Len()
	m.load(m.nav.saved)

	return m
}
