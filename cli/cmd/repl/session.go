package repl

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ardnew/yfelo/exprlang"
	"github.com/ardnew/yfelo/lang"
	"github.com/ardnew/yfelo/tmpl"
)

// Scope is a root frame that can be inspected for completion.
type Scope interface {
	tmpl.Context
	// Names returns every identifier visible from the frame.
	Names() []string
	// Members returns the member names of the collection at a dotted path.
	Members(path string) []string
	// Signature returns the parameter list of the function at a dotted path.
	Signature(path string) ([]string, bool)
}

// Session is the state input is evaluated against. Bindings made by one
// line stay visible to the lines after it.
type Session struct {
	Engine *tmpl.Engine
	Scope  Scope
}

// Eval renders line as a template when it contains the left delimiter and
// evaluates it as one expression otherwise. A line that fails to parse as a
// template is retried as an expression, so object literals still evaluate;
// the template error is reported when both fail.
func (s Session) Eval(ctx context.Context, line string) (string, error) {
	left, _ := s.Engine.Delimiters()
	if !strings.Contains(line, left) {
		return s.expr(line)
	}

	nodes, err := s.Engine.Parse(ctx, line)
	if err != nil {
		var se *tmpl.SyntaxError
		if !errors.As(err, &se) {
			return "", err
		}

		if out, exprErr := s.expr(line); exprErr == nil {
			return out, nil
		}

		return "", err
	}

	return s.Engine.Render(ctx, nodes, s.Scope)
}

func (s Session) expr(line string) (string, error) {
	l, err := s.Engine.Language("")
	if err != nil {
		return "", err
	}

	v, err := tmpl.Eval(l, s.Scope, line)
	if err != nil {
		return "", err
	}

	return Display(v), nil
}

// Display formats a value for the REPL. Unlike rendered output, strings are
// quoted so they can be told apart from other values.
func Display(v tmpl.Value) string {
	switch v := v.(type) {
	case lang.Value:
		return lang.FormatValue(v)
	case exprlang.Value:
		if s, ok := v.V.(string); ok {
			return strconv.Quote(s)
		}
	}

	return v.String()
}

// previewWidth limits the runes of a value shown by [Session.Preview].
const previewWidth = 48

// Preview returns a one-line summary of the value bound to name: the
// parameter list of a function, or the display form of any other value.
func (s Session) Preview(name string) (string, bool) {
	if params, ok := s.Scope.Signature(name); ok {
		return "(" + strings.Join(params, ", ") + ")", true
	}

	l, err := s.Engine.Language("")
	if err != nil {
		return "", false
	}

	v, err := tmpl.Eval(l, s.Scope, name)
	if err != nil {
		return "", false
	}

	text := strings.ReplaceAll(Display(v), "\n", " ")
	if utf8.RuneCountInString(text) > previewWidth {
		text = string([]rune(text)[:previewWidth-1]) + "…"
	}

	return "= " + text, true
}
