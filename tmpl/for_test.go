package tmpl_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ardnew/yfelo/lang"
	"github.com/ardnew/yfelo/tmpl"
)

func TestFor_Parse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  *tmpl.For
	}{
		{
			name:  "value",
			input: "{#for x in y}{/for}",
			want: &tmpl.For{
				Value: &lang.IdentPattern{Name: "x", Range: span(6, 7)},
				Expr:  ident("y", span(11, 12)),
			},
		},
		{
			name:  "value and key",
			input: "{#for x, y in z}{/for}",
			want: &tmpl.For{
				Value: &lang.IdentPattern{Name: "x", Range: span(6, 7)},
				Key:   &lang.IdentPattern{Name: "y", Range: span(9, 10)},
				Expr:  ident("z", span(14, 15)),
			},
		},
		{
			name:  "destructuring",
			input: "{#for [a, b] in z}{/for}",
			want: &tmpl.For{
				Value: &lang.ArrayPattern{
					Items: []lang.Pattern{
						&lang.IdentPattern{Name: "a", Range: span(7, 8)},
						&lang.IdentPattern{Name: "b", Range: span(10, 11)},
					},
					Range: span(6, 12),
				},
				Expr: ident("z", span(16, 17)),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			nodes := parse(t, tt.input)
			if len(nodes) != 1 {
				t.Fatalf("got %d nodes, want 1", len(nodes))
			}

			elem, ok := nodes[0].(*tmpl.Element)
			if !ok {
				t.Fatalf("got %T, want *tmpl.Element", nodes[0])
			}

			if !reflect.DeepEqual(elem.Directive, tt.want) {
				t.Errorf("got %#v\nwant %#v", elem.Directive, tt.want)
			}
		})
	}
}

func TestFor_ParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		message string
		want    tmpl.Range
	}{
		{
			name:    "missing pattern",
			input:   "{#for}{/for}",
			message: "invalid syntax for directive 'for': expect pattern",
			want:    span(5, 5),
		},
		{
			name:    "missing in",
			input:   "{#for x}{/for}",
			message: "invalid syntax for directive 'for': expect keyword 'in'",
			want:    span(7, 7),
		},
		{
			name:    "inline",
			input:   "{@for}",
			message: "directive 'for' should not be empty",
			want:    span(2, 5),
		},
		{
			name:    "missing collection",
			input:   "{#for x in}{/for}",
			message: "invalid syntax for directive 'for': expect expression",
			want:    span(10, 10),
		},
		{
			name:    "extra input",
			input:   "{#for x in y z}{/for}",
			message: "invalid tag syntax: expect '}'",
			want:    span(13, 13),
		},
		{
			name:    "three patterns",
			input:   "{#for x, y, z in w}{/for}",
			message: "invalid syntax for directive 'for': expect keyword 'in'",
			want:    span(10, 10),
		},
		{
			name:    "reserved name",
			input:   "{#for null in w}{/for}",
			message: "invalid syntax for directive 'for': expect pattern",
			want:    span(6, 6),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			se := parseError(t, tt.input)
			if se.Message != tt.message {
				t.Errorf("message = %q, want %q", se.Message, tt.message)
			}

			if se.Range != tt.want {
				t.Errorf("range = %v, want %v", se.Range, tt.want)
			}
		})
	}
}

func TestFor_Render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		data  map[string]any
		want  string
	}{
		{
			name:  "array values",
			input: "{#for x in [1, 2, 3]}{x * 2}{/for}",
			want:  "246",
		},
		{
			name:  "array indices",
			input: "{#for x, i in [2, 4, 6]}{i + 1}. {x}{/for}",
			want:  "1. 22. 43. 6",
		},
		{
			name:  "object values in order",
			input: "{#for v in {x: 2, y: 3, z: 1}}{v}{/for}",
			want:  "231",
		},
		{
			name:  "object keys",
			input: "{#for v, k in {x: 2, y: 3, z: 1}}{k}. {v}{/for}",
			want:  "x. 2y. 3z. 1",
		},
		{
			name:  "array pattern",
			input: "{#for [a, b] in [[1, 2], [3]]}{a}{b};{/for}",
			want:  "12;3;",
		},
		{
			name:  "object pattern",
			input: "{#for {n, m: o} in [{n: 1, m: 2}, {n: 3}]}{n}{o};{/for}",
			want:  "12;3;",
		},
		{
			name:  "data collection",
			input: "{#for s in list}<{s}>{/for}",
			data:  map[string]any{"list": []any{"a", "b"}},
			want:  "<a><b>",
		},
		{
			name:  "empty",
			input: "[{#for s in []}{s}{/for}]",
			want:  "[]",
		},
		{
			name:  "nested",
			input: "{#for a in [1, 2]}{#for b in [3, 4]}{a}{b} {/for}{/for}",
			want:  "13 14 23 24 ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := render(t, tt.input, tt.data); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFor_Render_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  error
	}{
		{
			name:  "not iterable",
			input: "{#for x in 1}{/for}",
			want:  lang.ErrType,
		},
		{
			name:  "rebinding loop variable",
			input: "{#for x in [1]}{@def x = 2}{/for}",
			want:  lang.ErrAlreadyBound,
		},
		{
			name:  "pattern mismatch",
			input: "{#for [a] in [1]}{/for}",
			want:  lang.ErrPattern,
		},
		{
			name:  "undefined collection",
			input: "{#for x in nope}{/for}",
			want:  lang.ErrUndefined,
		},
		{
			name:  "body definition does not escape the loop",
			input: "{#for x in [1]}{@def y = x}{/for}{y}",
			want:  lang.ErrUndefined,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := renderErr(t, tt.input, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}
