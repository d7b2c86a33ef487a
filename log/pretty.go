package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of the pretty handlers. Styles render plain
// text when the output is not a terminal.
type palette struct {
	key, str, num, time, null lipgloss.Style
	yes, no                   lipgloss.Style
	trace, debug, info, warn  lipgloss.Style
	error                     lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }

	return &palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		time:  fg("4"),
		null:  fg("8"),
		yes:   fg("2"),
		no:    fg("1"),
		trace: fg("5"),
		debug: fg("4"),
		info:  fg("2"),
		warn:  fg("3").Bold(true),
		error: fg("1").Bold(true),
	}
}

func (p *palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.error
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	}

	return p.trace
}

// prettyHandler writes records either as one line of key=value pairs or as
// an indented block of key: value lines, both without quoting.
type prettyHandler struct {
	opts    slog.HandlerOptions
	format  Format
	palette *palette
	mu      *sync.Mutex
	w       io.Writer
	attrs   []slog.Attr
	groups  []string
}

func newPrettyHandler(w io.Writer, format Format, opts *slog.HandlerOptions) *prettyHandler {
	return &prettyHandler{
		opts:    *opts,
		format:  format,
		palette: newPalette(w),
		mu:      &sync.Mutex{},
		w:       w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	floor := slog.LevelInfo
	if h.opts.Level != nil {
		floor = h.opts.Level.Level()
	}

	return level >= floor
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], h.qualify(attrs)...)

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &c
}

// qualify flattens groups into dotted keys and applies ReplaceAttr.
func (h *prettyHandler) qualify(attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, 0, len(attrs))

	var walk func(groups []string, a slog.Attr)

	walk = func(groups []string, a slog.Attr) {
		a.Value = a.Value.Resolve()

		if a.Value.Kind() == slog.KindGroup {
			sub := groups
			if a.Key != "" {
				sub = append(groups[:len(groups):len(groups)], a.Key)
			}

			for _, g := range a.Value.Group() {
				walk(sub, g)
			}

			return
		}

		if h.opts.ReplaceAttr != nil {
			if a = h.opts.ReplaceAttr(groups, a); a.Equal(slog.Attr{}) {
				return
			}
		}

		for i := len(groups) - 1; i >= 0; i-- {
			a.Key = groups[i] + "." + a.Key
		}

		out = append(out, a)
	}

	for _, a := range attrs {
		walk(h.groups, a)
	}

	return out
}

func (h *prettyHandler) builtin(a slog.Attr) (slog.Attr, bool) {
	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(nil, a)
	}

	return a, !a.Equal(slog.Attr{})
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		if a, ok := h.builtin(slog.Time(slog.TimeKey, r.Time)); ok {
			fields = append(fields, a)
		}
	}

	level, _ := h.builtin(slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			fields = append(fields, slog.String(slog.SourceKey,
				src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	fields = append(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.attrs...)

	var attrs []slog.Attr

	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)

		return true
	})

	fields = append(fields, h.qualify(attrs)...)

	var buf bytes.Buffer

	levelText := h.palette.level(r.Level).Render(level.Value.String())

	switch h.format {
	case FormatJSON:
		buf.WriteString("{\n")
		h.writeField(&buf, "  ", slog.LevelKey, levelText)

		for _, a := range fields {
			buf.WriteString(",\n")
			h.writeField(&buf, "  ", a.Key, h.value(a.Value))
		}

		buf.WriteString("\n}\n")

	default:
		h.writeField(&buf, "", slog.LevelKey, levelText)

		for _, a := range fields {
			buf.WriteByte(' ')
			h.writeField(&buf, "", a.Key, h.value(a.Value))
		}

		buf.WriteByte('\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) writeField(buf *bytes.Buffer, indent, key, value string) {
	buf.WriteString(indent)
	buf.WriteString(h.palette.key.Render(key))

	if h.format == FormatJSON {
		buf.WriteString(": ")
	} else {
		buf.WriteByte('=')
	}

	buf.WriteString(value)
}

func (h *prettyHandler) value(v slog.Value) string {
	p := h.palette

	switch v.Kind() {
	case slog.KindString:
		return p.str.Render(v.String())
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return p.num.Render(v.String())
	case slog.KindBool:
		if v.Bool() {
			return p.yes.Render("true")
		}

		return p.no.Render("false")
	case slog.KindDuration:
		return p.time.Render(v.Duration().String())
	case slog.KindTime:
		return p.time.Render(v.Time().Format("2006-01-02T15:04:05.000Z07:00"))
	}

	switch x := v.Any().(type) {
	case nil:
		return p.null.Render("null")
	case error:
		return p.no.Render(x.Error())
	case fmt.Stringer:
		return p.str.Render(x.String())
	}

	return p.str.Render(fmt.Sprint(v.Any()))
}
