package store

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// Result kinds.
const (
	KindReliability = "reliability"
	KindEOQ         = "eoq"
	KindStats       = "stats"
	KindSimulate    = "simulate"
)

// Result is one completed calculation. Output is the JSON-encodable value
// returned by the calculator (e.g. compute.ReliabilityResult).
type Result struct {
	ID     string
	Kind   string
	Input  any
	Output any
}

// Entry is a result together with the time it was stored.
type Entry struct {
	Result    Result
	UpdatedAt time.Time
}

// Store is a thread-safe in-memory result cache, keyed by result ID.
// A background goroutine (Run) periodically evicts entries that have not
// been updated within the configured TTL.
type Store struct {
	mu   sync.RWMutex
	data map[string]*Entry
	ttl  time.Duration
	now  func() time.Time // injectable for deterministic tests
}

// New creates a Store with the given TTL.
func New(ttl time.Duration) *Store {
	return &Store{
		data: make(map[string]*Entry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// TTL returns the configured retention period.
func (s *Store) TTL() time.Duration { return s.ttl }

// Put stores or replaces the result with res.ID.
// Callers must not modify res.Output after calling Put.
func (s *Store) Put(res Result) *Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := &Entry{Result: res, UpdatedAt: s.now()}
	s.data[res.ID] = e
	return e
}

// Get returns the live Entry for id. Entries older than the TTL are
// reported as missing even if they have not been evicted yet.
func (s *Store) Get(id string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.data[id]
	if !ok || !e.UpdatedAt.After(s.now().Add(-s.ttl)) {
		return nil, false
	}
	return e, true
}

// List returns all live entries, newest first. When kind is non-empty only
// entries of that kind are returned.
func (s *Store) List(kind string) []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cutoff := s.now().Add(-s.ttl)
	out := make([]*Entry, 0, len(s.data))
	for _, e := range s.data {
		if !e.UpdatedAt.After(cutoff) {
			continue
		}
		if kind != "" && e.Result.Kind != kind {
			continue
		}
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b *Entry) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Result.ID, b.Result.ID)
	})
	return out
}

// Count returns the total number of entries currently held, including stale ones.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Evict removes entries whose UpdatedAt is older than now minus TTL.
// It returns the number of entries removed.
func (s *Store) Evict(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := now.Add(-s.ttl)
	removed := 0
	for id, e := range s.data {
		if !e.UpdatedAt.After(cutoff) {
			delete(s.data, id)
			removed++
		}
	}
	return removed
}

// Run starts the background TTL eviction loop. It ticks at half the TTL interval
// (minimum 1 second) so entries are evicted promptly. Run blocks until ctx is
// cancelled.
func (s *Store) Run(ctx context.Context) {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.Evict(now); n > 0 {
				slog.Debug("store: evicted stale results", "count", n)
			}
		}
	}
}
