package tmpl

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// state tracks the parse result of one source text.
type state struct {
	once  sync.Once
	src   string
	nodes []Node
	err   error
}

// cacheKey returns the cache key of src.
func cacheKey(src string) string {
	return strconv.FormatUint(xxh3.HashString(src), 36)
}

// ParseReader reads all of r and parses it. Parse results are cached per
// engine by source hash, so repeated sources are parsed once.
func (e *Engine) ParseReader(ctx context.Context, r io.Reader) ([]Node, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("source", "reader"))
	}

	e.logger.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return e.ParseCached(ctx, string(data))
}

// ParseCached is [Engine.Parse] with caching keyed by the xxh3 hash of src.
// A failed parse is cached as well. A hash collision with a different source
// bypasses the cache.
func (e *Engine) ParseCached(ctx context.Context, src string) ([]Node, error) {
	key := cacheKey(src)

	value, hit := e.cache.LoadOrStore(key, &state{src: src})

	st, ok := value.(*state)
	if !ok {
		return nil, ErrReadInput.With(
			slog.String("issue", "invalid cache entry type"),
		)
	}

	e.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", key),
		slog.Bool("cache_hit", hit),
	)

	if st.src != src {
		e.logger.DebugContext(ctx, "cache collision",
			slog.String("source_hash", key),
			slog.Int("source_bytes", len(src)),
		)

		return e.Parse(ctx, src)
	}

	st.once.Do(func() {
		st.nodes, st.err = e.Parse(ctx, src)
	})

	return st.nodes, st.err
}

// ClearCache drops all cached parse results.
func (e *Engine) ClearCache() {
	e.cache.Clear()
}
