package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"testing"
)

func decode(t *testing.T, line []byte) map[string]any {
	t.Helper()

	var m map[string]any
	if err := json.Unmarshal(line, &m); err != nil {
		t.Fatalf("decode %q: %v", line, err)
	}

	return m
}

func TestMake_Defaults(t *testing.T) {
	t.Parallel()

	l := Make(&bytes.Buffer{})

	if l.Level() != DefaultLevel || l.Format() != DefaultFormat {
		t.Errorf("got %v %v, want %v %v", l.Level(), l.Format(), DefaultLevel, DefaultFormat)
	}

	if l.caller != DefaultCaller || l.pretty != DefaultPretty {
		t.Errorf("got caller=%t pretty=%t", l.caller, l.pretty)
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level Level
		want  []string
	}{
		{level: LevelTrace, want: []string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}},
		{level: LevelDebug, want: []string{"DEBUG", "INFO", "WARN", "ERROR"}},
		{level: LevelWarn, want: []string{"WARN", "ERROR"}},
		{level: LevelError, want: []string{"ERROR"}},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			l := Make(&buf, WithLevel(tt.level), WithPretty(false))
			l.Trace("m")
			l.Debug("m")
			l.Info("m")
			l.Warn("m")
			l.Error("m")

			lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
			if len(lines) != len(tt.want) {
				t.Fatalf("got %d records, want %d:\n%s", len(lines), len(tt.want), buf.String())
			}

			for i, line := range lines {
				if got := decode(t, line)["level"]; got != tt.want[i] {
					t.Errorf("record %d level = %v, want %s", i, got, tt.want[i])
				}
			}
		})
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	t.Parallel()

	var l Logger

	l.Info("discarded")
	l.TraceContext(t.Context(), "discarded")

	if l.Enabled(t.Context(), LevelError) {
		t.Error("zero logger enabled")
	}

	if l.Level() != DefaultLevel || l.Format() != DefaultFormat {
		t.Error("zero logger should report defaults")
	}

	if w := l.With(slog.String("a", "b")); w.Logger != nil {
		t.Error("With on zero logger allocated a handler")
	}

	var buf bytes.Buffer

	l.Wrap(WithOutput(&buf), WithPretty(false)).Info("kept")

	if !strings.Contains(buf.String(), `"msg":"kept"`) {
		t.Errorf("Wrap on zero logger: got %q", buf.String())
	}
}

func TestLogger_Formats(t *testing.T) {
	t.Parallel()

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		Make(&buf, WithFormat(FormatJSON), WithPretty(false)).
			Info("rendered", slog.String("template", "a.yf"), slog.Int("bytes", 12))

		m := decode(t, buf.Bytes())
		if m["msg"] != "rendered" || m["template"] != "a.yf" || m["bytes"] != 12.0 {
			t.Errorf("got %v", m)
		}
	})

	t.Run("text", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		Make(&buf, WithFormat(FormatText), WithPretty(false), WithTimeLayout("none")).
			Warn("slow parse", slog.Int("nodes", 3))

		if got, want := buf.String(), "level=WARN msg=\"slow parse\" nodes=3\n"; got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		Make(&buf, WithFormat(Format(9))).Error("dropped")

		if buf.Len() != 0 {
			t.Errorf("got %q", buf.String())
		}
	})
}

func TestLogger_TimeLayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		layout string
		want   *regexp.Regexp
	}{
		{layout: "none", want: nil},
		{layout: " ", want: nil},
		{layout: "Kitchen", want: regexp.MustCompile(`^\d{1,2}:\d{2}(AM|PM)$`)},
		{layout: "date-only", want: regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)},
		{layout: "2006", want: regexp.MustCompile(`^\d{4}$`)},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			Make(&buf, WithTimeLayout(tt.layout), WithPretty(false)).Info("m")

			ts, ok := decode(t, buf.Bytes())["time"].(string)

			switch {
			case tt.want == nil && ok:
				t.Errorf("unexpected time %q", ts)
			case tt.want != nil && !tt.want.MatchString(ts):
				t.Errorf("time %q does not match %v", ts, tt.want)
			}
		})
	}
}

func TestLogger_Caller(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	Make(&buf, WithCaller(true), WithPretty(false)).Info("here")

	src, _ := decode(t, buf.Bytes())["source"].(map[string]any)
	if file, _ := src["file"].(string); !strings.HasSuffix(file, "log_test.go") {
		t.Errorf("source = %v", src)
	}
}

func TestLogger_WithAndWrap(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	base := Make(&buf, WithPretty(false))
	child := base.With(slog.String("template", "x"))

	child.Info("child")
	base.Info("base")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("got %d records", len(lines))
	}

	if decode(t, lines[0])["template"] != "x" {
		t.Error("With attribute missing")
	}

	if _, ok := decode(t, lines[1])["template"]; ok {
		t.Error("With changed the parent logger")
	}

	quiet := base.Wrap(WithLevel(LevelError))
	if quiet.Level() != LevelError || base.Level() != LevelInfo {
		t.Errorf("got %v and %v", quiet.Level(), base.Level())
	}
}

func TestLogger_Concurrent(t *testing.T) {
	t.Parallel()

	var (
		buf syncBuffer
		wg  sync.WaitGroup
	)

	l := Make(&buf, WithPretty(false))

	for i := range 32 {
		wg.Go(func() { l.Info("m", slog.Int("i", i)) })
	}

	wg.Wait()

	if n := bytes.Count(buf.Bytes(), []byte("\n")); n != 32 {
		t.Errorf("got %d records, want 32", n)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Bytes()
}
