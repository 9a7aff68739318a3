package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu    sync.Mutex
	data  map[string][]any
	err   error
	calls atomic.Int32
}

func (f *fakeBackend) Fetch(_ context.Context, collection string) ([]any, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]any(nil), f.data[collection]...), nil
}

func (f *fakeBackend) set(collection string, records ...any) {
	f.mu.Lock()
	f.data[collection] = records
	f.mu.Unlock()
}

func newBackend() *fakeBackend {
	return &fakeBackend{data: map[string][]any{}}
}

func TestFetchData_ReplacesWholesale(t *testing.T) {
	backend := newBackend()
	backend.set("transfers", map[string]any{"id": 1}, map[string]any{"id": 2})
	store := NewSnapshotStore(backend, Config{})
	ctx := context.Background()

	_, err := store.FetchData(ctx, "transfers")
	require.NoError(t, err)

	backend.set("transfers", map[string]any{"id": 3})
	_, err = store.FetchData(ctx, "transfers")
	require.NoError(t, err)

	snap, ok := store.Snapshot("transfers")
	require.True(t, ok)
	assert.Equal(t, []any{map[string]any{"id": 3}}, snap.Records)
}

func TestFetchData_ErrorKeepsPrevious(t *testing.T) {
	backend := newBackend()
	backend.set("rules", map[string]any{"id": 1})
	store := NewSnapshotStore(backend, Config{})
	ctx := context.Background()

	_, err := store.FetchData(ctx, "rules")
	require.NoError(t, err)

	backend.err = errors.New("connection refused")
	_, err = store.FetchData(ctx, "rules")
	require.Error(t, err)

	snap, ok := store.Snapshot("rules")
	require.True(t, ok)
	assert.Len(t, snap.Records, 1)
}

func TestSnapshot_IsCopy(t *testing.T) {
	backend := newBackend()
	backend.set("scraps", "a", "b")
	store := NewSnapshotStore(backend, Config{})

	snap, err := store.FetchData(context.Background(), "scraps")
	require.NoError(t, err)
	snap.Records[0] = "mutated"

	again, _ := store.Snapshot("scraps")
	assert.Equal(t, []any{"a", "b"}, again.Records)
}

func TestGet_FetchesOnlyWhenNeeded(t *testing.T) {
	backend := newBackend()
	backend.set("operations", "x")
	store := NewSnapshotStore(backend, Config{})
	ctx := context.Background()

	_, err := store.Get(ctx, "operations", false)
	require.NoError(t, err)
	_, err = store.Get(ctx, "operations", false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, backend.calls.Load())

	_, err = store.Get(ctx, "operations", true)
	require.NoError(t, err)
	assert.EqualValues(t, 2, backend.calls.Load())
}

func TestListeners_PanicRecovered(t *testing.T) {
	backend := newBackend()
	backend.set("attributes", "a")
	store := NewSnapshotStore(backend, Config{})

	var seen []string
	store.OnInvalidation(func(string, int) { panic("boom") })
	store.OnInvalidation(func(collection string, records int) {
		seen = append(seen, collection)
		assert.Equal(t, 1, records)
	})

	_, err := store.FetchData(context.Background(), "attributes")
	require.NoError(t, err)
	assert.Equal(t, []string{"attributes"}, seen)
}

func TestObserver(t *testing.T) {
	backend := newBackend()
	backend.err = errors.New("down")

	var observed []error
	store := NewSnapshotStore(backend, Config{
		Observer: func(_ string, _ time.Duration, err error) { observed = append(observed, err) },
	})
	_, _ = store.FetchData(context.Background(), "quants")
	require.Len(t, observed, 1)
	assert.EqualError(t, observed[0], "down")
}

func TestStartStop_RefreshLoop(t *testing.T) {
	backend := newBackend()
	backend.set("transfers", "t")
	backend.set("products", "p")

	store := NewSnapshotStore(backend, Config{
		Preload:         []string{"transfers", "products"},
		RefreshInterval: 10 * time.Millisecond,
	})
	require.NoError(t, store.Start(context.Background()))

	_, ok := store.OldestFetch()
	assert.True(t, ok)

	assert.Eventually(t, func() bool { return backend.calls.Load() >= 4 }, time.Second, 5*time.Millisecond)
	store.Stop()
	store.Stop()

	stats := store.GetStats()
	require.Len(t, stats.Collections, 2)
	assert.Equal(t, "products", stats.Collections[0].Name)
}

func TestOldestFetch_MissingCollection(t *testing.T) {
	store := NewSnapshotStore(newBackend(), Config{Preload: []string{"rules"}})
	_, ok := store.OldestFetch()
	assert.False(t, ok)
}

func TestOldestFetch_OnDemand(t *testing.T) {
	store := NewSnapshotStore(newBackend(), Config{RefreshInterval: time.Minute})
	assert.True(t, store.OnDemand())
	_, ok := store.OldestFetch()
	assert.False(t, ok)

	preloaded := NewSnapshotStore(newBackend(), Config{Preload: []string{"rules"}})
	assert.False(t, preloaded.OnDemand())
}
