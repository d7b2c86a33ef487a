package tmpl_test

import (
	"errors"
	"testing"

	"github.com/ardnew/yfelo/exprlang"
	"github.com/ardnew/yfelo/lang"
	"github.com/ardnew/yfelo/tmpl"
)

func TestEval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		l    tmpl.Language
		c    tmpl.Context
		src  string
		want string
	}{
		{name: "default", l: lang.Language{}, c: lang.NewContext(), src: "1 + 2", want: "3"},
		{name: "trailing space", l: lang.Language{}, c: lang.NewContext(), src: " 'a' \n", want: "a"},
		{name: "expr", l: exprlang.Language{}, c: exprlang.NewContext(), src: "upper('a')", want: "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v, err := tmpl.Eval(tt.l, tt.c, tt.src)
			if err != nil {
				t.Fatalf("eval: %v", err)
			}

			if got := v.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEval_TrailingInput(t *testing.T) {
	t.Parallel()

	_, err := tmpl.Eval(lang.Language{}, lang.NewContext(), "1 2")

	var se *tmpl.SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("got %v, want *tmpl.SyntaxError", err)
	}

	if se.Message != "unexpected input after expression" || se.Range != span(2, 2) {
		t.Errorf("got %q at %v", se.Message, se.Range)
	}
}
