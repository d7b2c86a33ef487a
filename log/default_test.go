package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// replaceDefault swaps the package logger for the duration of a test.
func replaceDefault(t *testing.T, opts ...Option) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	defaultMu.Lock()
	saved := defaultLog
	defaultLog = Make(&buf, opts...)
	defaultMu.Unlock()

	t.Cleanup(func() {
		defaultMu.Lock()
		defaultLog = saved
		defaultMu.Unlock()
	})

	return &buf
}

func TestPackage_Functions(t *testing.T) {
	buf := replaceDefault(t, WithLevel(LevelTrace), WithPretty(false))

	tests := []struct {
		fn    func(string, ...slog.Attr)
		level string
	}{
		{Trace, "TRACE"},
		{Debug, "DEBUG"},
		{Info, "INFO"},
		{Warn, "WARN"},
		{Error, "ERROR"},
	}

	for _, tt := range tests {
		buf.Reset()
		tt.fn("message", slog.String("key", "value"))

		m := decode(t, buf.Bytes())
		if m["level"] != tt.level || m["msg"] != "message" || m["key"] != "value" {
			t.Errorf("%s: got %v", tt.level, m)
		}
	}
}

func TestPackage_ContextFunctions(t *testing.T) {
	buf := replaceDefault(t, WithLevel(LevelTrace), WithPretty(false))

	TraceContext(t.Context(), "a")
	DebugContext(t.Context(), "b")
	InfoContext(t.Context(), "c")
	WarnContext(t.Context(), "d")
	ErrorContext(t.Context(), "e")

	if n := strings.Count(buf.String(), "\n"); n != 5 {
		t.Errorf("got %d records, want 5", n)
	}
}

func TestPackage_Config(t *testing.T) {
	buf := replaceDefault(t, WithPretty(false))

	Info("before")
	Config(WithLevel(LevelWarn), WithCaller(true))
	Info("filtered")
	Warn("after")

	out := buf.String()
	if !strings.Contains(out, "before") || strings.Contains(out, "filtered") {
		t.Errorf("got %q", out)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")

	src, _ := decode(t, []byte(lines[len(lines)-1]))["source"].(map[string]any)
	if file, _ := src["file"].(string); !strings.HasSuffix(file, "default_test.go") {
		t.Errorf("caller of package function = %v", src)
	}

	if Default().Level() != LevelWarn {
		t.Errorf("Default().Level() = %v", Default().Level())
	}

	With(slog.String("scope", "test")).Warn("scoped")

	if !strings.Contains(buf.String(), `"scope":"test"`) {
		t.Error("With attribute missing")
	}
}
