package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer commands print results to.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// variable returns the kong variable named id.
func variable(ctx context.Context, id string) (string, bool) {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return "", false
	}

	v, ok := ktx.Model.Vars()[id]

	return v, ok
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// source is one template input.
type source struct {
	name string
	r    io.ReadCloser
}

// read returns the whole content of s.
func (s source) read() (string, error) {
	data, err := io.ReadAll(s.r)
	if err != nil {
		return "", ErrReadSource.With(slog.String("source", s.name)).Wrap(err)
	}

	return string(data), nil
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// openSources opens each path in order. A path naming a file already opened
// (through a symlink, a relative path or stdin itself) is skipped. All
// occurrences of "-" collapse into one stdin source at the position of the
// first. No paths at all means stdin.
func openSources(paths []string) (srcs []source, err error) {
	if len(paths) == 0 {
		paths = []string{stdinSource}
	}

	defer func() {
		if err != nil {
			closeSources(srcs)

			srcs = nil
		}
	}()

	seen := make(map[fileKey]struct{})

	stdinKey, hasStdinKey := fileKey{}, false
	if info, err := os.Stdin.Stat(); err == nil {
		stdinKey, hasStdinKey = makeFileKey(info)
	}

	stdin := false

	for _, path := range paths {
		if path == stdinSource {
			if !stdin {
				stdin = true

				if hasStdinKey {
					seen[stdinKey] = struct{}{}
				}

				srcs = append(srcs, source{name: "<stdin>", r: io.NopCloser(os.Stdin)})
			}

			continue
		}

		file, err := openUniqueFile(path, seen)
		if err != nil {
			return srcs, ErrOpenSource.With(slog.String("source", path)).Wrap(err)
		}

		if file != nil {
			srcs = append(srcs, source{name: path, r: file})
		}
	}

	return srcs, nil
}

func closeSources(srcs []source) {
	for _, s := range srcs {
		_ = s.r.Close()
	}
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates, returning
// a nil file for a duplicate.
func openUniqueFile(path string, seen map[fileKey]struct{}) (*os.File, error) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	// Resolve symlinks to their target.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		return nil, errIsDir
	}

	if key, ok := makeFileKey(info); ok {
		if _, exists := seen[key]; exists {
			return nil, nil
		}

		seen[key] = struct{}{}
	}

	return os.Open(resolved)
}

var errIsDir = errors.New("is a directory")

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
