package cache

import (
	"sync"
	"time"

	"github.com/preston-bernstein/game-collections-service/internal/domain/collections"
)

type entry struct {
	state      State
	gen        uint64
	lastAccess time.Time
}

// Store is a thread-safe keyed cache of fetch states. Each key carries a
// generation; results are only applied for the generation they were started
// under, so an invalidated or abandoned fetch can never overwrite newer data.
// Generations come from one store-wide counter and are never reused, even
// after a key is evicted and created again.
type Store struct {
	mu      sync.Mutex
	entries map[collections.Key]*entry
	seq     uint64
	now     func() time.Time
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{
		entries: make(map[collections.Key]*entry),
		now:     time.Now,
	}
}

// Get returns the current state for key.
func (s *Store) Get(key collections.Key) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return State{}, false
	}
	e.lastAccess = s.now()
	return e.state, true
}

// Generation returns the current generation for key, zero when absent.
func (s *Store) Generation(key collections.Key) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		return e.gen
	}
	return 0
}

// Begin marks a fetch in flight and returns the generation it belongs to.
// Any previously fetched view is kept alongside the loading status.
func (s *Store) Begin(key collections.Key) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entryLocked(key)
	e.state.Status = StatusLoading
	e.state.Err = nil
	return e.gen
}

// Complete stores the result of a fetch started under gen. It returns false
// and drops the result when the key has since been invalidated or evicted.
func (s *Store) Complete(key collections.Key, gen uint64, st State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.gen != gen {
		return false
	}
	if st.Status == StatusError && e.state.HasView() {
		// keep the last good view so a later stale read still has something
		st.View = e.state.View
		st.FetchedAt = e.state.FetchedAt
		st.Stale = true
	}
	e.state = st
	e.lastAccess = s.now()
	return true
}

// Invalidate bumps the generation for key and marks its view stale.
// It returns the new generation, or zero if the key is not cached.
func (s *Store) Invalidate(key collections.Key) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return 0
	}
	e.gen = s.nextGenLocked()
	e.state.Stale = true
	if e.state.Status == StatusLoading {
		// the in-flight fetch belongs to the old generation
		e.state.Status = StatusIdle
	}
	return e.gen
}

// Evict drops key entirely.
func (s *Store) Evict(key collections.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// EvictIdle removes entries not read or written within olderThan.
// Entries with a fetch in flight are kept.
func (s *Store) EvictIdle(olderThan time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-olderThan)
	evicted := 0
	for key, e := range s.entries {
		if e.state.Status == StatusLoading {
			continue
		}
		if e.lastAccess.Before(cutoff) {
			delete(s.entries, key)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of cached keys.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) entryLocked(key collections.Key) *entry {
	e, ok := s.entries[key]
	if !ok {
		e = &entry{gen: s.nextGenLocked()}
		s.entries[key] = e
	}
	e.lastAccess = s.now()
	return e
}

func (s *Store) nextGenLocked() uint64 {
	s.seq++
	return s.seq
}
