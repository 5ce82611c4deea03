package loader

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bdactivity/internal/core"
	"bdactivity/internal/source"
	"bdactivity/internal/source/memory"
)

// countingSource counts fetches of the wrapped store.
type countingSource struct {
	*memory.Store
	fetches atomic.Int32
	fail    error
}

func (c *countingSource) Fetch(ctx context.Context) (source.Table, error) {
	c.fetches.Add(1)
	if c.fail != nil {
		return source.Table{}, c.fail
	}
	return c.Store.Fetch(ctx)
}

func newCountingSource() *countingSource {
	return &countingSource{Store: memory.New("test", header, [][]string{
		{"2024-01-05", "Asha", "FPO-1", "Meeting", "3"},
		{"2024-01-06", "Ravi", "FPO-2", "Training", "4"},
	})}
}

func TestLoadMemoizesByIdentity(t *testing.T) {
	ctx := context.Background()
	src := newCountingSource()
	l := New(src, 0, nil)

	first, err := l.Load(ctx)
	require.NoError(t, err)
	second, err := l.Load(ctx)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.EqualValues(t, 1, src.fetches.Load())

	_, err = src.ReplaceAll(ctx, source.Table{Header: header, Rows: [][]string{{"2024-02-01", "Asha"}}})
	require.NoError(t, err)

	third, err := l.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, third.Len(), "new content is a new identity")
	assert.EqualValues(t, 2, src.fetches.Load())
	assert.Equal(t, 2, l.Cached())
}

func TestLoadCollapsesConcurrentCalls(t *testing.T) {
	src := newCountingSource()
	l := New(src, 0, nil)

	var wg sync.WaitGroup
	results := make([]*core.Dataset, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ds, err := l.Load(context.Background())
			assert.NoError(t, err)
			results[i] = ds
		}(i)
	}
	wg.Wait()

	for _, ds := range results {
		assert.Same(t, results[0], ds)
	}
	assert.LessOrEqual(t, src.fetches.Load(), int32(16))
	assert.Equal(t, 1, l.Cached())
}

func TestInvalidateForcesReload(t *testing.T) {
	ctx := context.Background()
	src := newCountingSource()
	l := New(src, 0, nil)

	_, err := l.Load(ctx)
	require.NoError(t, err)

	dropped, err := l.Invalidate(ctx)
	require.NoError(t, err)
	assert.True(t, dropped)

	dropped, err = l.Invalidate(ctx)
	require.NoError(t, err)
	assert.False(t, dropped)

	_, err = l.Load(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, src.fetches.Load())

	assert.Equal(t, 1, l.Clear(ctx))
	assert.Zero(t, l.Cached())
}

func TestLoadErrorsAreNotMemoized(t *testing.T) {
	ctx := context.Background()
	src := newCountingSource()
	src.fail = errors.New("unreachable")
	l := New(src, 0, nil)

	_, err := l.Load(ctx)
	require.ErrorIs(t, err, ErrSourceUnavailable)
	assert.Zero(t, l.Cached())

	src.fail = nil
	ds, err := l.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
}

func TestLoadParseFailure(t *testing.T) {
	src := memory.New("bad", header, [][]string{{"someday", "Asha"}})
	_, err := New(src, 0, nil).Load(context.Background())
	assert.ErrorIs(t, err, core.ErrParse)
}

func TestLoadEmptySourceIsParseError(t *testing.T) {
	src := memory.New("empty", nil, nil)
	_, err := New(src, 0, nil).Load(context.Background())
	assert.ErrorIs(t, err, core.ErrParse)
}
