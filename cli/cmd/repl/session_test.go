package repl

import (
	"strings"
	"testing"

	"github.com/ardnew/yfelo/exprlang"
	"github.com/ardnew/yfelo/lang"
	"github.com/ardnew/yfelo/tmpl"
)

type evalStep struct {
	line    string
	want    string
	wantErr bool
}

func TestSession_Eval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		session Session
		steps   []evalStep
	}{
		{
			name: "default",
			session: Session{
				Engine: lang.NewEngine(),
				Scope:  lang.NewContext(lang.WithBuiltins()),
			},
			steps: []evalStep{
				{line: "{@def n = 2}", want: ""},
				{line: "n * 21", want: "42"},
				{line: "{@def greet(who) = 'hi ' + who}", want: ""},
				{line: "greet('ada')", want: `"hi ada"`},
				{line: "{greet('bo')}!", want: "hi bo!"},
				{line: "{sum: n + 1}", want: "{sum: 3}"},
				{line: "{nope}", wantErr: true},
				{line: "n +", wantErr: true},
			},
		},
		{
			name: "expr",
			session: Session{
				Engine: exprlang.NewEngine(),
				Scope:  exprlang.NewContext(exprlang.WithBuiltins()),
			},
			steps: []evalStep{
				{line: "{@def x = 2}", want: ""},
				{line: "x * 3", want: "6"},
				{line: "upper('a')", want: `"A"`},
				{line: "{x}-{x + 1}", want: "2-3"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			for _, step := range tt.steps {
				got, err := tt.session.Eval(t.Context(), step.line)
				if (err != nil) != step.wantErr {
					t.Fatalf("Eval(%q) error = %v, wantErr %v", step.line, err, step.wantErr)
				}

				if got != step.want {
					t.Errorf("Eval(%q) = %q, want %q", step.line, got, step.want)
				}
			}
		})
	}
}

func TestSession_Preview(t *testing.T) {
	t.Parallel()

	s := Session{
		Engine: lang.NewEngine(),
		Scope:  lang.NewContext(lang.WithBuiltins()),
	}

	if _, err := s.Eval(t.Context(), "{@def add(a, b) = a + b}{@def name = 'yfelo'}"); err != nil {
		t.Fatalf("eval: %v", err)
	}

	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{name: "add", want: "(a, b)", wantOK: true},
		{name: "name", want: `= "yfelo"`, wantOK: true},
		{name: "missing", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := s.Preview(tt.name)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Preview(%q) = (%q, %v), want (%q, %v)",
					tt.name, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDisplay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value tmpl.Value
		want  string
	}{
		{name: "lang string", value: lang.String("a"), want: `"a"`},
		{name: "lang number", value: lang.Number(1.5), want: "1.5"},
		{name: "lang null", value: lang.Null{}, want: "null"},
		{name: "expr string", value: exprlang.Value{V: "a"}, want: `"a"`},
		{name: "expr int", value: exprlang.Value{V: 7}, want: "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Display(tt.value); got != tt.want {
				t.Errorf("Display() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDescribeSyntaxError(t *testing.T) {
	t.Parallel()

	src := "ok\n{#if x}"

	_, err := lang.NewEngine().Parse(t.Context(), src)
	if err == nil {
		t.Fatal("expected a syntax error")
	}

	got := describeSyntaxError(err, src)
	for _, want := range []string{"parse error at 2:", "2 | {#if x}", "^"} {
		if !strings.Contains(got, want) {
			t.Errorf("describeSyntaxError = %q, missing %q", got, want)
		}
	}
}
