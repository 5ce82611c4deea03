package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"bdactivity/internal/cache"
	"bdactivity/internal/core"
	"bdactivity/internal/log"
	"bdactivity/internal/metrics"
	"bdactivity/internal/source"
)

// ErrSourceUnavailable marks failures to reach or read the source.
var ErrSourceUnavailable = errors.New("source unavailable")

// Loader reads a source once per content identity and shares the parsed
// dataset between callers. Entries leave the memo only through Invalidate
// or Clear.
type Loader struct {
	src    source.Source
	memo   cache.Cache[*core.Dataset]
	group  singleflight.Group
	logger *log.Logger
	sl     *log.StructuredLogger
}

// New creates a loader for src. maxEntries bounds the memo; zero keeps every
// identity ever loaded.
func New(src source.Source, maxEntries int, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentLoader)
	return &Loader{
		src:    src,
		memo:   cache.NewLRUCache[*core.Dataset](maxEntries),
		logger: logger,
		sl:     log.NewStructuredLogger(logger),
	}
}

// Load returns the dataset for the current content of the source.
func (l *Loader) Load(ctx context.Context) (*core.Dataset, error) {
	identity, err := l.src.Identity(ctx)
	if err != nil {
		return nil, fmt.Errorf("identify %s source: %w: %w", l.src.Name(), ErrSourceUnavailable, err)
	}

	if ds, ok := l.memo.Get(identity); ok {
		metrics.RecordCacheLookup(true)
		l.sl.LogDatasetLoaded(ctx, l.src.Name(), identity, ds.Len(), len(ds.Columns()), true)
		return ds, nil
	}
	metrics.RecordCacheLookup(false)

	v, err, _ := l.group.Do(identity, func() (interface{}, error) {
		if ds, ok := l.memo.Get(identity); ok {
			return ds, nil
		}
		ds, err := l.fetchAndParse(ctx, identity)
		if err != nil {
			return nil, err
		}
		l.memo.Set(identity, ds)
		return ds, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*core.Dataset), nil
}

func (l *Loader) fetchAndParse(ctx context.Context, identity string) (*core.Dataset, error) {
	start := time.Now()
	name := l.src.Name()

	t, err := l.src.Fetch(ctx)
	if err != nil {
		metrics.RecordLoad(name, 0, time.Since(start), err)
		if errors.Is(err, source.ErrNoData) {
			err = &core.ParseError{Err: err}
			metrics.RecordParseFailure(name)
		}
		l.sl.LogError(ctx, "Dataset fetch failed", err, log.OpFetch,
			log.NewFields().WithDataset(name, identity, 0, 0))
		return nil, fmt.Errorf("fetch %s source: %w: %w", name, ErrSourceUnavailable, err)
	}

	ds, err := Parse(t)
	if err != nil {
		metrics.RecordLoad(name, 0, time.Since(start), err)
		metrics.RecordParseFailure(name)
		l.sl.LogError(ctx, "Dataset parse failed", err, log.OpParse,
			log.NewFields().WithDataset(name, identity, len(t.Rows), len(t.Header)))
		return nil, err
	}

	metrics.RecordLoad(name, ds.Len(), time.Since(start), nil)
	l.sl.LogDatasetLoaded(ctx, name, identity, ds.Len(), len(ds.Columns()), false)
	return ds, nil
}

// Invalidate drops the memo entry for the current identity of the source.
// It reports whether an entry was present.
func (l *Loader) Invalidate(ctx context.Context) (bool, error) {
	identity, err := l.src.Identity(ctx)
	if err != nil {
		return false, fmt.Errorf("identify %s source: %w", l.src.Name(), err)
	}
	_, ok := l.memo.Get(identity)
	l.memo.Delete(identity)
	l.logger.InfoContext(ctx, "Dataset invalidated",
		log.FieldOperation, log.OpInvalidate,
		log.FieldIdentity, identity,
		"present", ok)
	return ok, nil
}

// Clear drops every memo entry and returns how many there were.
func (l *Loader) Clear(ctx context.Context) int {
	n := l.memo.Clear()
	l.logger.InfoContext(ctx, "Dataset memo cleared",
		log.FieldOperation, log.OpInvalidate,
		"entries", n)
	return n
}

// Cached returns the number of memoized datasets.
func (l *Loader) Cached() int { return l.memo.Size() }
