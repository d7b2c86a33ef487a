package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func resolveFlag(t *testing.T, r kong.Resolver, name string) any {
	t.Helper()

	val, err := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: name}})
	if err != nil {
		t.Fatalf("Resolve(%q) failed: %v", name, err)
	}

	return val
}

func TestResolve_RootDefinitions(t *testing.T) {
	t.Parallel()

	config := `{@yfelo default}
{@def log_level = 'debug'}
{@def log_format = 'te' + 'xt'}
{@def log_pretty = false}
{@def depth = 2 * 21}
{@def ratio = 0.5}
{@def tags = ['a', 'b']}
{@def helper(x) = x}
`

	resolver, err := resolve(t.Context(), baseConfig)(strings.NewReader(config))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	tests := []struct {
		flag string
		want any
	}{
		{flag: "log-level", want: "debug"},
		{flag: "log_level", want: "debug"},
		{flag: "log-format", want: "text"},
		{flag: "log-pretty", want: false},
		{flag: "depth", want: "42"},
		{flag: "ratio", want: "0.5"},
		{flag: "helper", want: nil},
		{flag: "missing", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			t.Parallel()

			if got := resolveFlag(t, resolver, tt.flag); got != tt.want {
				t.Errorf("%s = %#v, want %#v", tt.flag, got, tt.want)
			}
		})
	}

	tags, ok := resolveFlag(t, resolver, "tags").([]any)
	if !ok || len(tags) != 2 || tags[0] != "a" || tags[1] != "b" {
		t.Errorf("tags = %#v, want [a b]", tags)
	}
}

func TestResolve_NamedObject(t *testing.T) {
	t.Parallel()

	config := `{@def config = {log_level: 'warn'}}{@def log_format = 'json'}`

	resolver, err := resolve(t.Context(), baseConfig)(strings.NewReader(config))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if got := resolveFlag(t, resolver, "log-level"); got != "warn" {
		t.Errorf("log-level = %v, want warn", got)
	}

	// Definitions outside the named object are not included.
	if got := resolveFlag(t, resolver, "log-format"); got != nil {
		t.Errorf("log-format = %v, want nil", got)
	}
}

func TestResolve_Ignored(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config string
	}{
		{name: "syntax error", config: `{#if true}`},
		{name: "render error", config: `{@def log_level = nope}`},
		{name: "empty", config: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resolver, err := resolve(t.Context(), baseConfig)(strings.NewReader(tt.config))
			if err != nil {
				t.Fatalf("resolve failed: %v", err)
			}

			if err := resolver.Validate(nil); err != nil {
				t.Errorf("Validate failed: %v", err)
			}

			if got := resolveFlag(t, resolver, "log-level"); got != nil {
				t.Errorf("log-level = %v, want nil", got)
			}
		})
	}
}

// TestResolve_ReadError verifies a failing reader yields an empty config.
func TestResolve_ReadError(t *testing.T) {
	t.Parallel()

	resolver, err := resolve(t.Context(), baseConfig)(&errorReader{err: bytes.ErrTooLarge})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if got := resolveFlag(t, resolver, "log-level"); got != nil {
		t.Errorf("log-level = %v, want nil", got)
	}
}

// errorReader is a reader that always returns an error.
type errorReader struct {
	err error
}

func (e *errorReader) Read(p []byte) (n int, err error) {
	return 0, e.err
}
