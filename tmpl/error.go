package tmpl

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrReadInput       = NewError("failed to read input")
	ErrNoLanguage      = NewError("no expression language configured")
	ErrUnknownLanguage = NewError("unknown language")
	ErrUnknownBranch   = NewError("unexpected branch directive")
	ErrRender          = NewError("render failed")
)

// Error represents a render-time error with optional structured logging
// attributes. It implements both error and slog.LogValuer.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error derived from the same sentinel.
// Errors produced by [Error.With] and [Error.Wrap] keep their message, so
// errors.Is(ErrX.With(...), ErrX) holds.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg != "" && t.msg == e.msg
}

// Message returns the base message without the wrapped cause.
func (e *Error) Message() string { return e.msg }

// Attrs returns a copy of the structured attributes attached to e.
func (e *Error) Attrs() []slog.Attr {
	return append([]slog.Attr(nil), e.attrs...)
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// Range is a half-open interval of byte offsets into template source.
type Range struct {
	Start int
	End   int
}

// At returns the empty range located at offset.
func At(offset int) Range { return Range{Start: offset, End: offset} }

// Shift returns r moved right by n bytes.
func (r Range) Shift(n int) Range {
	return Range{Start: r.Start + n, End: r.End + n}
}

// Len returns the number of bytes covered by r.
func (r Range) Len() int { return r.End - r.Start }

func (r Range) String() string {
	return "[" + strconv.Itoa(r.Start) + ", " + strconv.Itoa(r.End) + ")"
}

// SyntaxError is reported by the reader, the expression languages, and
// directive parse hooks. Parsing stops at the first one.
type SyntaxError struct {
	Message string
	Range   Range
	// Hint is an optional suggestion shown alongside the message.
	Hint string
}

// NewSyntaxError returns a SyntaxError with a formatted message.
func NewSyntaxError(r Range, format string, args ...any) *SyntaxError {
	return &SyntaxError{Message: fmt.Sprintf(format, args...), Range: r}
}

func (e *SyntaxError) Error() string {
	msg := e.Message + " at " + e.Range.String()
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}

	return msg
}

// LogValue implements slog.LogValuer.
func (e *SyntaxError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("error", e.Message),
		slog.Int("start", e.Range.Start),
		slog.Int("end", e.Range.End),
	}

	if e.Hint != "" {
		attrs = append(attrs, slog.String("hint", e.Hint))
	}

	return slog.GroupValue(attrs...)
}

// Position returns the 1-based line and column of the error's start offset
// within src.
func (e *SyntaxError) Position(src string) (line, column int) {
	off := min(max(e.Range.Start, 0), len(src))
	head := src[:off]
	line = strings.Count(head, "\n") + 1
	column = off - strings.LastIndexByte(head, '\n')

	return line, column
}

// Snippet formats the source line containing the error with a marker under
// the offending range.
func (e *SyntaxError) Snippet(src string) string {
	line, column := e.Position(src)
	lines := strings.Split(src, "\n")

	if line > len(lines) {
		return ""
	}

	var sb strings.Builder

	num := strconv.Itoa(line)

	sb.WriteString("  ")
	sb.WriteString(num)
	sb.WriteString(" | ")
	sb.WriteString(lines[line-1])
	sb.WriteByte('\n')

	// 2 leading spaces + " | "
	sb.WriteString(strings.Repeat(" ", len(num)+5+column-1))
	sb.WriteString(strings.Repeat("^", max(e.Range.Len(), 1)))
	sb.WriteByte('\n')

	return sb.String()
}
