package repl

import (
	"slices"
	"strings"
	"testing"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/yfelo/exprlang"
	"github.com/ardnew/yfelo/lang"
)

func TestWordBounds_ExprOperators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"dot_separated", "bar.baz", 7, "baz", 4, 7},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_paren", "double(fo", 9, "fo", 7, 9},
		{"after_comma", "add(a, fo", 9, "fo", 7, 9},
		{"in_ternary", "x ? fo", 6, "fo", 4, 6},
		{"after_comparison", "a > fo", 6, "fo", 4, 6},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"after_minus", "a-b", 3, "b", 2, 3},
		{"cursor_past_end", "foo", 9, "foo", 0, 3},
		// Tag punctuation separates words.
		{"in_tag", "{user.na", 8, "na", 6, 8},
		{"after_directive", "{@def gre", 9, "gre", 6, 9},
		{"after_block", "{#for x in it", 13, "it", 11, 13},
		{"in_string", "'ab", 3, "ab", 1, 3},
		// After dot is an empty word (for triggering child completions).
		{"empty_after_dot", "config.", 7, "", 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestParentPath_WithOperators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wordStart int
		want      string
	}{
		{"top_level", "fo", 0, ""},
		{"simple_chain", "bar.baz.", 8, "bar.baz"},
		{"after_operator", "foo + bar.baz.", 14, "bar.baz"},
		{"after_paren", "(bar.baz.", 9, "bar.baz"},
		{"no_chain", "a + ", 4, ""},
		{"deep_chain", "a.b.c.", 6, "a.b.c"},
		{"after_equals", "x = a.b.", 8, "a.b"},
		{"after_minus", "x-a.b.", 6, "a.b"},
		{"in_tag", "{cfg.log.", 9, "cfg.log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parentPath(tt.input, tt.wordStart)
			if got != tt.want {
				t.Errorf("parentPath(%q, %d) = %q, want %q",
					tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func TestChildCandidates(t *testing.T) {
	t.Parallel()

	def := lang.NewContext(lang.WithBuiltins())
	if _, err := lang.Render(t.Context(), "{@def cfg = {log: {level: 'info'}, port: 80}}", def); err != nil {
		t.Fatalf("render: %v", err)
	}

	expr := exprlang.NewContext(exprlang.WithVars(map[string]any{
		"cfg": map[string]any{"port": 80, "log": map[string]any{"level": "info"}},
	}))

	tests := []struct {
		name     string
		scope    Scope
		parent   string
		want     []string
		contains string
	}{
		{name: "object members", scope: def, parent: "cfg", want: []string{"log", "port"}},
		{name: "nested members", scope: def, parent: "cfg.log", want: []string{"level"}},
		{name: "scalar", scope: def, parent: "cfg.port", want: nil},
		{name: "top level", scope: def, parent: "", contains: "cfg"},
		{name: "map members", scope: expr, parent: "cfg", want: []string{"log", "port"}},
		{name: "expr top level", scope: expr, parent: "", contains: "cfg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := childCandidates(tt.scope, tt.parent)
			if tt.contains != "" {
				if !slices.Contains(got, tt.contains) {
					t.Errorf("childCandidates(%q) = %q, missing %q", tt.parent, got, tt.contains)
				}

				return
			}

			if !slices.Equal(got, tt.want) {
				t.Errorf("childCandidates(%q) = %q, want %q", tt.parent, got, tt.want)
			}
		})
	}
}

func TestRenderCandidateBar(t *testing.T) {
	t.Parallel()

	matches := fuzzy.Find("p", []string{"port", "path.cat", "pool"})
	isFunc := func(name string) bool { return name == "path.cat" }

	if got := stripANSI(renderCandidateBar(nil, -1, false, 80, isFunc)); got != "" {
		t.Errorf("empty bar = %q", got)
	}

	got := stripANSI(renderCandidateBar(matches, 0, true, 80, isFunc))
	for _, want := range []string{"port", "path.cat()", "pool"} {
		if !strings.Contains(got, want) {
			t.Errorf("bar %q missing candidate %q", got, want)
		}
	}

	if narrow := stripANSI(renderCandidateBar(matches, 0, false, 12, isFunc)); !strings.HasSuffix(narrow, "...") {
		t.Errorf("narrow bar %q not truncated", narrow)
	}
}
