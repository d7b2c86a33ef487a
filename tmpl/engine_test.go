package tmpl_test

import (
	"errors"
	"reflect"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/ardnew/yfelo/lang"
	"github.com/ardnew/yfelo/tmpl"
)

func TestEngine_Header(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []tmpl.Node
	}{
		{
			name:  "bare header",
			input: "{@yfelo}\nHello",
			want:  []tmpl.Node{tmpl.Text("Hello")},
		},
		{
			name:  "named language",
			input: "{@yfelo default}\r\nHello",
			want:  []tmpl.Node{tmpl.Text("Hello")},
		},
		{
			name:  "only one line break dropped",
			input: "{@yfelo}\n\n  Hello",
			want:  []tmpl.Node{tmpl.Text("\n  Hello")},
		},
		{
			name:  "no header",
			input: "Hello",
			want:  []tmpl.Node{tmpl.Text("Hello")},
		},
		{
			name:  "offsets count the header",
			input: "{@yfelo}\n{x}",
			want:  []tmpl.Node{&tmpl.ExprNode{Expr: ident("x", span(10, 11))}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parse(t, tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parse %q:\n got %#v\nwant %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestEngine_Header_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		message string
		want    tmpl.Range
	}{
		{
			name:    "unknown language",
			input:   "{@yfelo nope}",
			message: "unknown language 'nope'",
			want:    span(8, 12),
		},
		{
			name:    "unterminated header",
			input:   "{@yfelo default",
			message: "invalid tag syntax: expect '}'",
			want:    span(15, 15),
		},
		{
			name:    "longer directive name is not a header",
			input:   "{@yfelox}",
			message: "unknown directive 'yfelox'",
			want:    span(2, 8),
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

func TestEngine_Languages(t *testing.T) {
	t.Parallel()

	t.Run("none registered", func(t *testing.T) {
		t.Parallel()

		_, err := tmpl.New().Parse(t.Context(), "Hello")
		if !errors.Is(err, tmpl.ErrNoLanguage) {
			t.Errorf("got %v, want %v", err, tmpl.ErrNoLanguage)
		}
	})

	t.Run("default missing", func(t *testing.T) {
		t.Parallel()

		e := tmpl.New(tmpl.WithLanguage("other", lang.Language{}))

		_, err := e.Parse(t.Context(), "Hello")
		if !errors.Is(err, tmpl.ErrUnknownLanguage) {
			t.Errorf("got %v, want %v", err, tmpl.ErrUnknownLanguage)
		}

		if _, err := e.Parse(t.Context(), "{@yfelo other}Hello"); err != nil {
			t.Errorf("header selecting registered language: %v", err)
		}
	})

	t.Run("default selected", func(t *testing.T) {
		t.Parallel()

		e := tmpl.New(
			tmpl.WithLanguage("other", lang.Language{}),
			tmpl.WithDefaultLanguage("other"),
		)

		l, err := e.Language("Hello")
		if err != nil {
			t.Fatalf("language: %v", err)
		}

		if _, ok := l.(lang.Language); !ok {
			t.Errorf("got %T, want lang.Language", l)
		}
	})

	t.Run("sorted names", func(t *testing.T) {
		t.Parallel()

		e := lang.NewEngine(tmpl.WithLanguage("alt", lang.Language{}))

		if got, want := e.Languages(), []string{"alt", lang.Name}; !slices.Equal(got, want) {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}

func TestEngine_Directives_IsCopy(t *testing.T) {
	t.Parallel()

	e := lang.NewEngine()

	dirs := e.Directives()
	delete(dirs, "if")

	if _, ok := e.Directives().Lookup("if"); !ok {
		t.Error("engine registry changed through returned copy")
	}

	want := []string{"apply", "def", "for", "if", "if:elif", "if:else", "stub"}
	if got := e.Directives().Names(); !slices.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEngine_WithRegistry(t *testing.T) {
	t.Parallel()

	e := lang.NewEngine(tmpl.WithRegistry(tmpl.Registry{"stub": tmpl.OpenStub}))

	if _, err := e.Parse(t.Context(), "{#stub}x{/stub}"); err != nil {
		t.Fatalf("parse: %v", err)
	}

	if _, err := e.Parse(t.Context(), "{#if x}x{/if}"); err == nil {
		t.Error("expected unknown directive error")
	}
}

func TestEngine_Delimiters(t *testing.T) {
	t.Parallel()

	e := lang.NewEngine(tmpl.WithDelimiters("{{", "}}"))

	if l, r := e.Delimiters(); l != "{{" || r != "}}" {
		t.Errorf("got %q %q", l, r)
	}

	c := lang.NewContext()

	out, err := e.Execute(t.Context(),
		"{{@yfelo}}\n{{@def x = {a: 1}}}{x.a} is {{x.a}}", c)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if out != "{x.a} is 1" {
		t.Errorf("got %q", out)
	}
}

func TestEngine_Execute(t *testing.T) {
	t.Parallel()

	data := lang.NewObject()
	data.Set("name", lang.String("yfelo"))

	out, err := lang.NewEngine().Execute(t.Context(),
		"Hello, {name}!", lang.NewContext(lang.WithData(data)))
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if out != "Hello, yfelo!" {
		t.Errorf("got %q", out)
	}
}

func TestEngine_ParseCached(t *testing.T) {
	t.Parallel()

	e := newEngine()

	const src = "{#foo}{x}{/foo}"

	a, err := e.ParseCached(t.Context(), src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	b, err := e.ParseCached(t.Context(), src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if a[0] != b[0] {
		t.Error("expected cached tree to be reused")
	}

	e.ClearCache()

	c, err := e.ParseCached(t.Context(), src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if a[0] == c[0] {
		t.Error("expected fresh tree after ClearCache")
	}

	if !reflect.DeepEqual(a, c) {
		t.Error("reparsed tree differs")
	}
}

func TestEngine_ParseCached_Error(t *testing.T) {
	t.Parallel()

	e := newEngine()

	_, err1 := e.ParseCached(t.Context(), "{#foo}")
	_, err2 := e.ParseCached(t.Context(), "{#foo}")

	if err1 == nil || err1 != err2 {
		t.Errorf("expected the same cached error, got %v and %v", err1, err2)
	}
}

func TestEngine_ParseCached_Concurrent(t *testing.T) {
	t.Parallel()

	e := newEngine()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		roots = map[tmpl.Node]struct{}{}
	)

	for range 16 {
		wg.Go(func() {
			nodes, err := e.ParseCached(t.Context(), "{#bar}{y}{/bar}")
			if err != nil {
				t.Error(err)

				return
			}

			mu.Lock()
			roots[nodes[0]] = struct{}{}
			mu.Unlock()
		})
	}

	wg.Wait()

	if len(roots) != 1 {
		t.Errorf("got %d distinct trees, want 1", len(roots))
	}
}

func TestEngine_ParseReader(t *testing.T) {
	t.Parallel()

	e := newEngine()

	src := strings.Repeat("line {x}\n", 100)

	nodes, err := e.ParseReader(t.Context(), strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if len(nodes) != 200 {
		t.Errorf("got %d nodes, want 200", len(nodes))
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestEngine_ParseReader_Error(t *testing.T) {
	t.Parallel()

	_, err := newEngine().ParseReader(t.Context(), failingReader{})
	if !errors.Is(err, tmpl.ErrReadInput) {
		t.Errorf("got %v, want %v", err, tmpl.ErrReadInput)
	}
}
