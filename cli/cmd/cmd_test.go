package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/yfelo/exprlang"
	"github.com/ardnew/yfelo/lang"
	"github.com/ardnew/yfelo/tmpl"
)

type testCLI struct {
	Render Render `cmd:""`
	Parse  Parse  `cmd:""`
	Eval   Eval   `cmd:""`
	Init   Init   `cmd:""`
}

// run parses args into a fresh CLI and runs the selected command, returning
// what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var (
		cli testCLI
		out bytes.Buffer
	)

	ctx := t.Context()

	parser, err := kong.New(&cli,
		kong.Writers(&out, &out),
		kong.Exit(func(code int) { t.Fatalf("exit %d: %s", code, out.String()) }),
		kong.BindSingletonProvider(func() context.Context { return ctx }),
		Vars().CloneWith(kong.Vars{
			ConfigIdentifier: filepath.Join(t.TempDir(), "config"),
		}),
	)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	ctx = WithContext(ctx, ktx)

	err = ktx.Run(ctx)

	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestRender(t *testing.T) {
	t.Parallel()

	data := writeFile(t, "data.yaml", "name: ada\nlangs: [go, zig]\n")

	tests := []struct {
		name      string
		templates []string
		flags     []string
		want      string
		wantErr   bool
	}{
		{
			name:      "definition",
			templates: []string{"{@def who = 'world'}Hello, {who}!"},
			want:      "Hello, world!",
		},
		{
			name:      "data and bindings",
			templates: []string{"{name}/{n}"},
			flags:     []string{"--data", data, "--set", "n=1 + 1"},
			want:      "ada/2",
		},
		{
			name:      "binding shadows data",
			templates: []string{"{name}"},
			flags:     []string{"-d", data, "-s", "name='bo'"},
			want:      "bo",
		},
		{
			name:      "expr header",
			templates: []string{"{@yfelo expr}\n{#for l in langs}{upper(l)} {/for}"},
			flags:     []string{"-d", data},
			want:      "GO ZIG ",
		},
		{
			name:      "expr default",
			templates: []string{"{len(langs)}"},
			flags:     []string{"-d", data, "--lang", exprlang.Name},
			want:      "2",
		},
		{
			name:      "delimiters",
			templates: []string{"<< 1 + 2 >>{}"},
			flags:     []string{"--left", "<<", "--right", ">>"},
			want:      "3{}",
		},
		{
			name:      "concatenated",
			templates: []string{"a", "b"},
			want:      "ab",
		},
		{
			name:      "fresh root per template",
			templates: []string{"{@def x = 1}", "{x}"},
			wantErr:   true,
		},
		{
			name:      "no builtins",
			templates: []string{"{upper('a')}"},
			flags:     []string{"--no-builtins"},
			wantErr:   true,
		},
		{
			name:      "bad binding",
			templates: []string{"x"},
			flags:     []string{"--set", "nope"},
			wantErr:   true,
		},
		{
			name:      "syntax error",
			templates: []string{"{#if true}"},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			args := append([]string{"render"}, tt.flags...)
			for i, src := range tt.templates {
				args = append(args, writeFile(t, "t"+string(rune('0'+i))+".yf", src))
			}

			got, err := run(t, args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("render error = %v, wantErr %v", err, tt.wantErr)
			}

			if !tt.wantErr && got != tt.want {
				t.Errorf("render = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender_Output(t *testing.T) {
	t.Parallel()

	src := writeFile(t, "t.yf", "{@def n = 6 * 7}{n} is the answer\n")
	dst := filepath.Join(t.TempDir(), "out.txt")

	got, err := run(t, "render", "-o", dst, src)
	if err != nil {
		t.Fatal(err)
	}

	if got != "" {
		t.Errorf("stdout = %q, want nothing", got)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}

	if want := "42 is the answer\n"; string(data) != want {
		t.Errorf("output file = %q, want %q", data, want)
	}
}

func TestRender_SyntaxErrorPosition(t *testing.T) {
	t.Parallel()

	src := writeFile(t, "t.yf", "line one\n{1 +}")

	_, err := run(t, "render", src)
	if err == nil {
		t.Fatal("expected error")
	}

	var cerr *Error
	if !errors.As(err, &cerr) || cerr.Message() != ErrSyntax.Message() {
		t.Fatalf("error = %v, want %v", err, ErrSyntax)
	}

	var se *tmpl.SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("error %v does not wrap a syntax error", err)
	}

	attrs := map[string]int64{}
	for _, a := range cerr.Attrs() {
		if a.Key == "line" || a.Key == "column" {
			attrs[a.Key] = a.Value.Int64()
		}
	}

	if attrs["line"] != 2 {
		t.Errorf("line = %d, want 2", attrs["line"])
	}
}

func TestEval(t *testing.T) {
	t.Parallel()

	data := writeFile(t, "data.yaml", "cfg: {port: 80, tags: [a]}\n")

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "number", args: []string{"1 + 2"}, want: "3\n"},
		{name: "string", args: []string{"'a' + 'b'"}, want: "ab\n"},
		{name: "data", args: []string{"-d", data, "cfg.port"}, want: "80\n"},
		{name: "json", args: []string{"-f", "json", "-i", "0", "-d", data, "cfg"}, want: `{"port":80,"tags":["a"]}` + "\n"},
		{name: "yaml", args: []string{"-f", "yaml", "-d", data, "cfg.tags"}, want: "- a\n"},
		{name: "expr", args: []string{"-l", "expr", "upper('a')"}, want: "A\n"},
		{name: "expr json", args: []string{"-l", "expr", "-f", "json", "-i", "0", "{a: 1}"}, want: `{"a":1}` + "\n"},
		{name: "binding", args: []string{"-s", "x=2", "x * x"}, want: "4\n"},
		{name: "trailing input", args: []string{"1 2"}, wantErr: true},
		{name: "undefined", args: []string{"nope"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := run(t, append([]string{"eval"}, tt.args...)...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("eval error = %v, wantErr %v", err, tt.wantErr)
			}

			if !tt.wantErr && got != tt.want {
				t.Errorf("eval = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	src := writeFile(t, "t.yf", "Hi {name}{#if ok}!{/if}")

	tests := []struct {
		format string
		want   []string
	}{
		{format: "yaml", want: []string{"name", "if"}},
		{format: "json", want: []string{`"name"`, `"if"`}},
		{format: "text", want: []string{"Hi ", "{name}", "{#if ok}", "{/if}"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			got, err := run(t, "parse", "-f", tt.format, src)
			if err != nil {
				t.Fatal(err)
			}

			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("parse -f %s = %q, missing %q", tt.format, got, w)
				}
			}
		})
	}

	if _, err := run(t, "parse", writeFile(t, "bad.yf", "{/if}")); err == nil {
		t.Error("expected syntax error")
	}
}

func TestOpenSources(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeFile(t, "a.yf", "A")
	b := writeFile(t, "b.yf", "B")

	link := filepath.Join(dir, "link.yf")
	if err := os.Symlink(a, link); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		paths   []string
		want    []string
		wantErr bool
	}{
		{name: "in order", paths: []string{b, a}, want: []string{"B", "A"}},
		{name: "duplicate path", paths: []string{a, a, b}, want: []string{"A", "B"}},
		{name: "symlink", paths: []string{a, link}, want: []string{"A"}},
		{name: "missing", paths: []string{a, filepath.Join(dir, "nope")}, wantErr: true},
		{name: "directory", paths: []string{dir}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srcs, err := openSources(tt.paths)
			if (err != nil) != tt.wantErr {
				t.Fatalf("openSources error = %v, wantErr %v", err, tt.wantErr)
			}

			defer closeSources(srcs)

			var got []string

			for _, s := range srcs {
				text, err := s.read()
				if err != nil {
					t.Fatal(err)
				}

				got = append(got, text)
			}

			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("contents = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		binding string
		want    string
		wantErr bool
	}{
		{name: "expression", binding: "x=1 + 1", want: "2"},
		{name: "spaces", binding: " x = 'a' ", want: `"a"`},
		{name: "pattern", binding: "[x, y]=[3, 4]", want: "3"},
		{name: "no equals", binding: "x", wantErr: true},
		{name: "no name", binding: "=1", wantErr: true},
		{name: "bad name", binding: "x y=1", wantErr: true},
		{name: "bad expr", binding: "x=1 +", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := lang.NewContext()

			err := bind(lang.Language{}, c, tt.binding)
			if (err != nil) != tt.wantErr {
				t.Fatalf("bind(%q) error = %v, wantErr %v", tt.binding, err, tt.wantErr)
			}

			if tt.wantErr {
				return
			}

			v, ok := c.Lookup("x")
			if !ok {
				t.Fatal("x not bound")
			}

			if got := lang.FormatValue(v); got != tt.want {
				t.Errorf("x = %s, want %s", got, tt.want)
			}
		})
	}
}
