package pkg

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	t.Parallel()

	if !regexp.MustCompile(`^\d+\.\d+\.\d+`).MatchString(Version()) {
		t.Errorf("Version() = %q", Version())
	}
}

func TestAuthor(t *testing.T) {
	t.Parallel()

	for _, a := range Author {
		if a.Name == "" || !strings.Contains(a.Email, "@") {
			t.Errorf("incomplete author %+v", a)
		}
	}
}

func TestPrefixOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{path: "/usr/bin/yfelo", want: "yfelo"},
		{path: "/opt/yfelo.exe", want: "yfelo"},
		{path: "/tmp/__debug_bin3121", want: Name},
		{path: "/home/u/.tmpl.bin", want: "tmpl"},
		{path: "/x/..", want: Name},
		{path: "tool.v2", want: "tool"},
	}

	for _, tt := range tests {
		if got := prefixOf(filepath.FromSlash(tt.path)); got != tt.want {
			t.Errorf("prefixOf(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestUserDir(t *testing.T) {
	t.Parallel()

	ok := func() (string, error) { return "/cfg", nil }
	if got := userDir(ok, ".config"); got != "/cfg" {
		t.Errorf("got %q", got)
	}

	fail := func() (string, error) { return "", errors.New("unset") }
	if got := userDir(fail, ".config"); filepath.Base(got) != ".config" && got != "." {
		t.Errorf("fallback = %q", got)
	}
}

func TestDirs(t *testing.T) {
	t.Parallel()

	for _, dir := range []string{ConfigDir(), CacheDir()} {
		if filepath.Base(dir) != Prefix() {
			t.Errorf("%q does not end in %q", dir, Prefix())
		}
	}
}
