// Package cache holds the last fetched raw backend collections.
package cache

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"stockview/pkg/logger"
)

// Fetcher loads one raw collection from the backend.
type Fetcher interface {
	Fetch(ctx context.Context, collection string) ([]any, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, collection string) ([]any, error)

func (f FetcherFunc) Fetch(ctx context.Context, collection string) ([]any, error) {
	return f(ctx, collection)
}

// Snapshot is a read-only view of one collection as of FetchedAt.
type Snapshot struct {
	Collection string
	Records    []any
	FetchedAt  time.Time
}

// InvalidationListener is called after a collection has been replaced.
type InvalidationListener func(collection string, records int)

// FetchObserver receives the outcome of every backend fetch.
type FetchObserver func(collection string, took time.Duration, err error)

// Config tunes the store.
type Config struct {
	// Preload lists collections loaded by Start and refreshed by the loop.
	Preload []string
	// RefreshInterval of zero disables the background loop.
	RefreshInterval time.Duration
	Observer        FetchObserver
}

// SnapshotStore keeps raw collections in memory.
// A refetch replaces a collection wholesale; readers always get a copy.
type SnapshotStore struct {
	fetcher Fetcher
	cfg     Config
	now     func() time.Time

	mu          sync.RWMutex
	collections map[string]Snapshot

	listeners   []InvalidationListener
	listenersMu sync.RWMutex

	lifecycleMu sync.Mutex
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	started     bool
}

// NewSnapshotStore creates an empty store backed by fetcher.
func NewSnapshotStore(fetcher Fetcher, cfg Config) *SnapshotStore {
	return &SnapshotStore{
		fetcher:     fetcher,
		cfg:         cfg,
		now:         time.Now,
		collections: make(map[string]Snapshot),
	}
}

// FetchData loads collection from the backend and replaces the stored copy.
// On error the previous snapshot is kept.
func (s *SnapshotStore) FetchData(ctx context.Context, collection string) (Snapshot, error) {
	start := s.now()
	records, err := s.fetcher.Fetch(ctx, collection)
	if s.cfg.Observer != nil {
		s.cfg.Observer(collection, s.now().Sub(start), err)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch %s: %w", collection, err)
	}
	if records == nil {
		records = []any{}
	}

	snap := Snapshot{Collection: collection, Records: records, FetchedAt: s.now()}
	s.mu.Lock()
	s.collections[collection] = snap
	s.mu.Unlock()

	log(ctx).Debugw("snapshot replaced", "collection", collection, "records", len(records))
	s.notify(ctx, collection, len(records))
	return copySnapshot(snap), nil
}

// Snapshot returns a copy of the stored collection.
func (s *SnapshotStore) Snapshot(collection string) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.collections[collection]
	if !ok {
		return Snapshot{}, false
	}
	return copySnapshot(snap), true
}

// Get returns the stored collection, fetching it first when it is missing
// or when refresh is set.
func (s *SnapshotStore) Get(ctx context.Context, collection string, refresh bool) (Snapshot, error) {
	if !refresh {
		if snap, ok := s.Snapshot(collection); ok {
			return snap, nil
		}
	}
	return s.FetchData(ctx, collection)
}

func log(ctx context.Context) *logger.Logger {
	return logger.FromContext(ctx).WithComponent("snapshot-store")
}

func copySnapshot(snap Snapshot) Snapshot {
	snap.Records = append([]any(nil), snap.Records...)
	if snap.Records == nil {
		snap.Records = []any{}
	}
	return snap
}

// Start loads the preloaded collections and starts the refresh loop.
// A failed preload is logged, not fatal: the collection is fetched on first use.
func (s *SnapshotStore) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s.lifecycleMu.Lock()
	if s.started {
		s.lifecycleMu.Unlock()
		return nil
	}
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.started = true
	s.lifecycleMu.Unlock()

	s.refreshAll(loopCtx)

	if s.cfg.RefreshInterval > 0 && len(s.cfg.Preload) > 0 {
		s.wg.Add(1)
		go s.refreshLoop(loopCtx)
	}
	log(ctx).Infow("snapshot store started",
		"preload", s.cfg.Preload,
		"refreshInterval", s.cfg.RefreshInterval.String())
	return nil
}

// Stop cancels the refresh loop and waits for it to exit.
func (s *SnapshotStore) Stop() {
	s.lifecycleMu.Lock()
	if !s.started {
		s.lifecycleMu.Unlock()
		return
	}
	cancel := s.cancel
	s.started = false
	s.cancel = nil
	s.lifecycleMu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
	log(context.Background()).Infow("snapshot store stopped")
}

func (s *SnapshotStore) refreshLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refreshAll(ctx)
		}
	}
}

func (s *SnapshotStore) refreshAll(ctx context.Context) {
	for _, collection := range s.cfg.Preload {
		if ctx.Err() != nil {
			return
		}
		if _, err := s.FetchData(ctx, collection); err != nil {
			log(ctx).Warnw("snapshot refresh failed", "collection", collection, "error", err)
		}
	}
}

// OnInvalidation registers a callback run after every replacement.
func (s *SnapshotStore) OnInvalidation(listener InvalidationListener) {
	s.listenersMu.Lock()
	s.listeners = append(s.listeners, listener)
	s.listenersMu.Unlock()
}

// notify runs listeners inline with panic recovery.
func (s *SnapshotStore) notify(ctx context.Context, collection string, records int) {
	s.listenersMu.RLock()
	defer s.listenersMu.RUnlock()
	for _, listener := range s.listeners {
		func(l InvalidationListener) {
			defer func() {
				if r := recover(); r != nil {
					log(ctx).Errorw("listener panic recovered", "collection", collection, "panic", r)
				}
			}()
			l(collection, records)
		}(listener)
	}
}

// Stats describes the store contents.
type Stats struct {
	Collections []CollectionStats `json:"collections"`
}

// CollectionStats describes one stored collection.
type CollectionStats struct {
	Name      string    `json:"name"`
	Records   int       `json:"records"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// GetStats returns per-collection sizes and fetch times, sorted by name.
func (s *SnapshotStore) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := Stats{Collections: make([]CollectionStats, 0, len(s.collections))}
	for name, snap := range s.collections {
		out.Collections = append(out.Collections, CollectionStats{
			Name:      name,
			Records:   len(snap.Records),
			FetchedAt: snap.FetchedAt,
		})
	}
	sort.Slice(out.Collections, func(i, j int) bool {
		return out.Collections[i].Name < out.Collections[j].Name
	})
	return out
}

// OnDemand reports whether no collection is preloaded, so every collection
// is fetched on first use and there is nothing to keep fresh.
func (s *SnapshotStore) OnDemand() bool {
	return len(s.cfg.Preload) == 0
}

// OldestFetch returns the fetch time of the stalest preloaded collection.
// ok is false when nothing is preloaded or when any preloaded collection has
// never been fetched.
func (s *SnapshotStore) OldestFetch() (oldest time.Time, ok bool) {
	if s.OnDemand() {
		return time.Time{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i, name := range s.cfg.Preload {
		snap, found := s.collections[name]
		if !found {
			return time.Time{}, false
		}
		if i == 0 || snap.FetchedAt.Before(oldest) {
			oldest = snap.FetchedAt
		}
	}
	return oldest, true
}

// Records returns the raw records of collection via Get.
func (s *SnapshotStore) Records(ctx context.Context, collection string, refresh bool) ([]any, error) {
	snap, err := s.Get(ctx, collection, refresh)
	if err != nil {
		return nil, err
	}
	return snap.Records, nil
}
