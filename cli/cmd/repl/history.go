package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
)

const (
	baseHistory = "history.utf8"

	// historyLimit is the number of entries kept. Older entries are dropped
	// when the file is next rewritten.
	historyLimit = 1000
)

// HistoryEntry is one input line and the mode it was entered in.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

// prefix returns the file prefix recording the mode of an entry.
func (m inputMode) prefix() string {
	if m == modeCtrl {
		return "C:"
	}

	return "E:"
}

// encode formats e as one line of the history file. Templates drafted in
// the editor span lines, so they are stored as quoted Go strings. A line that
// already starts with a quote is quoted too, to keep decoding unambiguous.
func (e HistoryEntry) encode() string {
	line := e.Line
	if strings.ContainsAny(line, "\r\n") || strings.HasPrefix(line, `"`) {
		line = strconv.Quote(line)
	}

	return e.Mode.prefix() + line + "\n"
}

// decodeHistory parses one line of the history file. Lines without a mode
// prefix are expressions.
func decodeHistory(line string) HistoryEntry {
	e := HistoryEntry{Line: line, Mode: modeEval}

	if s, ok := strings.CutPrefix(line, modeCtrl.prefix()); ok {
		e = HistoryEntry{Line: s, Mode: modeCtrl}
	} else if s, ok := strings.CutPrefix(line, modeEval.prefix()); ok {
		e.Line = s
	}

	if strings.HasPrefix(e.Line, `"`) {
		if s, err := strconv.Unquote(e.Line); err == nil {
			e.Line = s
		}
	}

	return e
}

// History is the REPL input history, persisted one entry per line. Each line
// of the file carries a mode prefix, "E:" for templates and expressions and
// "C:" for control commands.
type History struct {
	path    string
	entries []HistoryEntry
	mu      sync.RWMutex
}

// NewHistory returns a History persisted at path. Nothing is read until
// [History.Load].
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the entries with the contents of the history file. A missing
// file is an empty history.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}
	defer file.Close()

	h.entries = h.entries[:0]

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			h.entries = append(h.entries, decodeHistory(line))
		}
	}

	if n := len(h.entries) - historyLimit; n > 0 {
		h.entries = slices.Delete(h.entries, 0, n)
	}

	return scanner.Err()
}

// WriteWithMode records entry as the newest input of the given mode. An
// earlier identical entry is moved to the end rather than repeated. It
// returns the number of bytes written to the history file.
func (h *History) WriteWithMode(entry string, mode inputMode) (int, error) {
	e := HistoryEntry{Line: strings.TrimSpace(entry), Mode: mode}
	if e.Line == "" {
		return 0, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	i := slices.Index(h.entries, e)

	switch {
	case i >= 0 && i == len(h.entries)-1:
		return 0, nil

	case i >= 0:
		h.entries = append(slices.Delete(h.entries, i, i+1), e)

		return h.rewriteFile()

	case len(h.entries) >= historyLimit:
		h.entries = append(h.entries[1:], e)

		return h.rewriteFile()
	}

	h.entries = append(h.entries, e)

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	return file.WriteString(e.encode())
}

// GetEntry returns the entry at index i, where 0 is the oldest.
func (h *History) GetEntry(i int) (HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of the entries, oldest first.
func (h *History) Entries() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

// rewriteFile replaces the history file with the current entries. The caller
// must hold h.mu.
func (h *History) rewriteFile() (int, error) {
	var sb strings.Builder
	for _, e := range h.entries {
		sb.WriteString(e.encode())
	}

	if err := os.WriteFile(h.path, []byte(sb.String()), 0o600); err != nil {
		return 0, err
	}

	return sb.Len(), nil
}
