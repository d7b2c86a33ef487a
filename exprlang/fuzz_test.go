package exprlang

import (
	"testing"
)

func FuzzParseExpr(f *testing.F) {
	for _, seed := range []string{
		"a + b}", "{a: [1, (2)]}", `"x}" + y`, "f(1, 2)", "let x = 1; x",
		"filter(xs, # > 1)", "(", "'", "x\ny", "",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, src string) {
		e, n, err := ParseExpr(src, 0)
		if err != nil {
			return
		}

		if n > len(src) || e.Range.End != n || e.Range.Start > e.Range.End {
			t.Fatalf("bad extent %d %v for %q", n, e.Range, src)
		}

		if src[e.Range.Start:e.Range.End] != e.Source {
			t.Fatalf("source %q does not match range %v of %q", e.Source, e.Range, src)
		}
	})
}

func FuzzParsePattern(f *testing.F) {
	for _, seed := range []string{"x", "[a, [b]]", "[", "nil", " _"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, src string) {
		p, n, err := ParsePattern(src, 0)
		if err != nil {
			return
		}

		if n > len(src) || p.String() == "" && n == 0 {
			t.Fatalf("bad extent %d for %q", n, src)
		}
	})
}
