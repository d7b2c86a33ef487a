package lang

// This file defines the host builtins installed by WithBuiltins. The builtin
// object is built once per process and copied on every access, so a context
// may never mutate the shared instance.
//
// Builtin names live in a frame above the root and can be shadowed.

import (
	"bufio"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/ardnew/mung"
)

// Private singleton cache.
//
//nolint:gochecknoglobals
var (
	builtinOnce sync.Once
	builtins    *Object
)

// Builtins returns a copy of the host builtin bindings.
func Builtins() *Object {
	builtinOnce.Do(func() {
		builtins = NewObject()

		builtins.Set("env", Func(envFunc))
		builtins.Set("len", Func(lenFunc))
		builtins.Set("keys", Func(keysFunc))
		builtins.Set("upper", stringFunc("upper", strings.ToUpper))
		builtins.Set("lower", stringFunc("lower", strings.ToLower))
		builtins.Set("join", Func(joinFunc))
		builtins.Set("cwd", Func(func(...Value) (Value, error) {
			return String(getCwd()), nil
		}))

		builtins.Set("platform", targetObject(getPlatform()))
		builtins.Set("target", targetObject(getTarget()))
		builtins.Set("hostname", String(getHostname()))
		builtins.Set("shell", String(getShell()))

		file := NewObject()
		file.Set("exists", predicateFunc("file.exists", fileExists))
		file.Set("isDir", predicateFunc("file.isDir", fileIsDir))
		file.Set("isRegular", predicateFunc("file.isRegular", fileIsRegular))
		file.Set("isSymlink", predicateFunc("file.isSymlink", fileIsSymlink))
		builtins.Set("file", file)

		path := NewObject()
		path.Set("abs", stringFunc("path.abs", pathAbs))
		path.Set("cat", Func(pathCatFunc))
		path.Set("rel", Func(pathRelFunc))
		builtins.Set("path", path)

		m := NewObject()
		m.Set("prefix", Func(mungPrefixFunc))
		m.Set("prefixif", Func(mungPrefixIfFunc))
		builtins.Set("mung", m)
	})

	return cloneObject(builtins)
}

// cloneObject copies o and every object nested in it.
func cloneObject(o *Object) *Object {
	c := NewObject()

	for k, v := range o.All {
		if sub, ok := v.(*Object); ok {
			v = cloneObject(sub)
		}

		c.Set(k, v)
	}

	return c
}

func stringArgs(fn string, args []Value, n int) ([]string, error) {
	if len(args) < n {
		return nil, argumentError(fn, "too few arguments")
	}

	s := make([]string, len(args))

	for i, a := range args {
		v, err := asString(a)
		if err != nil {
			return nil, err
		}

		s[i] = v
	}

	return s, nil
}

func stringFunc(fn string, f func(string) string) Func {
	return func(args ...Value) (Value, error) {
		s, err := stringArgs(fn, args, 1)
		if err != nil {
			return nil, err
		}

		return String(f(s[0])), nil
	}
}

func predicateFunc(fn string, f func(string) bool) Func {
	return func(args ...Value) (Value, error) {
		s, err := stringArgs(fn, args, 1)
		if err != nil {
			return nil, err
		}

		return Bool(f(s[0])), nil
	}
}

// ---------------------------------------------------------------------------
// Value helpers
// ---------------------------------------------------------------------------

// envFunc returns one environment variable, or all of them as an object
// when called without arguments.
func envFunc(args ...Value) (Value, error) {
	if len(args) == 0 {
		obj := NewObject()

		env := os.Environ()
		slices.Sort(env)

		for _, entry := range env {
			if key, value, ok := strings.Cut(entry, "="); ok {
				obj.Set(key, String(value))
			}
		}

		return obj, nil
	}

	s, err := stringArgs("env", args, 1)
	if err != nil {
		return nil, err
	}

	return String(os.Getenv(s[0])), nil
}

func lenFunc(args ...Value) (Value, error) {
	if len(args) < 1 {
		return nil, argumentError("len", "too few arguments")
	}

	switch v := args[0].(type) {
	case String:
		return Number(utf8.RuneCountInString(string(v))), nil
	case *Array:
		return Number(len(v.Items)), nil
	case *Object:
		return Number(v.Len()), nil
	}

	return nil, typeError("string, array or object", args[0])
}

func keysFunc(args ...Value) (Value, error) {
	if len(args) < 1 {
		return nil, argumentError("keys", "too few arguments")
	}

	obj, ok := args[0].(*Object)
	if !ok {
		return nil, typeError("object", args[0])
	}

	keys := make([]Value, 0, obj.Len())
	for _, k := range obj.keys {
		keys = append(keys, String(k))
	}

	return NewArray(keys...), nil
}

func joinFunc(args ...Value) (Value, error) {
	if len(args) < 1 {
		return nil, argumentError("join", "too few arguments")
	}

	arr, ok := args[0].(*Array)
	if !ok {
		return nil, typeError("array", args[0])
	}

	sep := ""

	if len(args) > 1 {
		s, err := asString(args[1])
		if err != nil {
			return nil, err
		}

		sep = s
	}

	s := make([]string, len(arr.Items))
	for i, v := range arr.Items {
		s[i] = v.String()
	}

	return String(strings.Join(s, sep)), nil
}

// ---------------------------------------------------------------------------
// System information helpers
// ---------------------------------------------------------------------------

// target contains string identifiers for a target operating system and
// instruction set architecture.
type target struct {
	OS   string
	Arch string
}

func targetObject(t target) *Object {
	obj := NewObject()
	obj.Set("os", String(t.OS))
	obj.Set("arch", String(t.Arch))

	return obj
}

// getTarget returns the host target using GNU GCC/LLVM naming conventions.
func getTarget() target {
	t := getPlatform()

	switch t.Arch {
	case "386":
		t.Arch = "i386"
	case "amd64":
		t.Arch = "x86_64"
	case "arm":
		if arm, ok := os.LookupEnv("GOARM"); ok {
			arm, _, _ = strings.Cut(arm, ",")
			switch arm = strings.TrimSpace(arm); arm {
			case "5", "6", "7":
				t.Arch = "armv" + arm
			}
		}
	case "arm64":
		if t.OS != "darwin" {
			t.Arch = "aarch64"
		}
	case "mipsle":
		t.Arch = "mipsel"
	}

	return t
}

// getPlatform returns the host target using Go conventions.
func getPlatform() target {
	o, ok := os.LookupEnv("GOHOSTOS")
	if !ok {
		if o, ok = os.LookupEnv("GOOS"); !ok {
			o = runtime.GOOS
		}
	}

	a, ok := os.LookupEnv("GOHOSTARCH")
	if !ok {
		if a, ok = os.LookupEnv("GOARCH"); !ok {
			a = runtime.GOARCH
		}
	}

	return target{OS: o, Arch: a}
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return ""
	}

	return hostname
}

func getShell() string {
	if shell, ok := os.LookupEnv("SHELL"); ok {
		return shell
	}

	name, ok := os.LookupEnv("USER")
	if !ok || name == "" {
		return ""
	}

	f, err := os.Open("/etc/passwd")
	if err != nil {
		return ""
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	for s.Scan() {
		e := strings.Split(s.Text(), ":")
		if len(e) > 6 && e[0] == name {
			return e[6]
		}
	}

	return ""
}

func getCwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return pathAbs(".")
	}

	return cwd
}

// ---------------------------------------------------------------------------
// Filesystem functions
// ---------------------------------------------------------------------------

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return !os.IsNotExist(err)
}

func fileIsDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

func fileIsRegular(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

func fileIsSymlink(path string) bool {
	info, err := os.Lstat(path)

	return err == nil && info.Mode()&os.ModeSymlink != 0
}

// ---------------------------------------------------------------------------
// Path manipulation functions
// ---------------------------------------------------------------------------

func pathAbs(path string) string {
	p, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return p
}

func pathCatFunc(args ...Value) (Value, error) {
	elem, err := stringArgs("path.cat", args, 0)
	if err != nil {
		return nil, err
	}

	return String(filepath.Join(elem...)), nil
}

func pathRelFunc(args ...Value) (Value, error) {
	s, err := stringArgs("path.rel", args, 2)
	if err != nil {
		return nil, err
	}

	p, err := filepath.Rel(pathAbs(s[0]), pathAbs(s[1]))
	if err != nil {
		return String(filepath.Join(s[0], s[1])), nil
	}

	return String(p), nil
}

// ---------------------------------------------------------------------------
// PATH-like string manipulation (mung)
// ---------------------------------------------------------------------------

// mungPrefixFunc prepends items to a PATH-like list, removing duplicates.
func mungPrefixFunc(args ...Value) (Value, error) {
	s, err := stringArgs("mung.prefix", args, 1)
	if err != nil {
		return nil, err
	}

	return String(mung.Make(
		mung.WithSubjectItems(s[0]),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(s[1:]...),
	).String()), nil
}

// mungPrefixIfFunc is mungPrefixFunc keeping only the items accepted by a
// host predicate such as file.isDir.
func mungPrefixIfFunc(args ...Value) (Value, error) {
	if len(args) < 2 {
		return nil, argumentError("mung.prefixif", "too few arguments")
	}

	pred, ok := args[1].(Func)
	if !ok {
		return nil, typeError("host function", args[1])
	}

	list, err := asString(args[0])
	if err != nil {
		return nil, err
	}

	items, err := stringArgs("mung.prefixif", args[2:], 0)
	if err != nil {
		return nil, err
	}

	var failed error

	filter := func(item string) bool {
		v, err := pred(String(item))
		if err != nil {
			failed = err

			return false
		}

		return v.Bool()
	}

	out := mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(items...),
		mung.WithFilter(filter),
	).String()

	if failed != nil {
		return nil, failed
	}

	return String(out), nil
}
