// Package store holds the client's authoritative copy of the user's
// applications.
//
// A Store is owned by whoever constructs it and passed explicitly to the
// components that read it; there is no package-level cache. Writes are limited
// to Load (replace from the server), Upsert/Remove (confirmed CRUD results)
// and SetStatus (the optimistic coordinator). Invalidate marks the snapshot
// stale so the next Ensure reloads it.
package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dkoosis/apptrack/internal/errors"
	"github.com/dkoosis/apptrack/internal/logger"
	"github.com/dkoosis/apptrack/pkg/record"
)

// Source fetches the full record set.
type Source interface {
	ListAll(ctx context.Context) ([]record.Record, error)
}

// Store is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	records  []record.Record
	index    map[string]int
	loaded   bool
	stale    bool
	loadedAt time.Time
	revision uint64
	log      *zap.SugaredLogger
	now      func() time.Time
}

// New returns an empty, unloaded Store.
func New() *Store {
	return &Store{
		index: make(map[string]int),
		log:   logger.Named("store"),
		now:   time.Now,
	}
}

// Replace swaps in a fresh record set and clears the stale flag.
func (s *Store) Replace(records []record.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make([]record.Record, 0, len(records))
	s.index = make(map[string]int, len(records))
	for _, r := range records {
		if i, dup := s.index[r.ID]; dup {
			s.records[i] = r.Clone()
			continue
		}
		s.index[r.ID] = len(s.records)
		s.records = append(s.records, r.Clone())
	}
	s.loaded = true
	s.stale = false
	s.loadedAt = s.now()
	s.revision++
}

// Load fetches from src and replaces the contents. On error the previous
// contents are kept.
func (s *Store) Load(ctx context.Context, src Source) error {
	records, err := src.ListAll(ctx)
	if err != nil {
		return errors.Wrap(err, "load applications")
	}
	s.Replace(records)
	s.log.Debugw("store loaded", "records", len(records))
	return nil
}

// Ensure loads from src when the store was never loaded or was invalidated.
// It reports whether a fetch happened.
func (s *Store) Ensure(ctx context.Context, src Source) (bool, error) {
	if !s.NeedsLoad() {
		return false, nil
	}
	return true, s.Load(ctx, src)
}

// NeedsLoad reports whether the next read should refetch.
func (s *Store) NeedsLoad() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.loaded || s.stale
}

// Invalidate marks the snapshot stale. Contents stay readable.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
}

// Stale reports whether Invalidate was called since the last Replace.
func (s *Store) Stale() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stale
}

// LoadedAt is the time of the last Replace.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Revision increases on every write. Views compare it to skip re-deriving.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Len is the number of records held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Snapshot returns a copy of every record in fetch order.
func (s *Store) Snapshot() []record.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]record.Record, len(s.records))
	for i, r := range s.records {
		out[i] = r.Clone()
	}
	return out
}

// Get returns the record with id.
func (s *Store) Get(id string) (record.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return record.Record{}, false
	}
	return s.records[i].Clone(), true
}

// Upsert stores a record confirmed by the server. New records are appended.
func (s *Store) Upsert(r record.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.index[r.ID]; ok {
		s.records[i] = r.Clone()
	} else {
		s.index[r.ID] = len(s.records)
		s.records = append(s.records, r.Clone())
	}
	s.revision++
}

// Remove deletes the record with id and reports whether it was present.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.records = append(s.records[:i], s.records[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.records); j++ {
		s.index[s.records[j].ID] = j
	}
	s.revision++
	return true
}

// SetStatus overwrites the cached status of id and returns the previous value.
// ok is false when id is not held.
func (s *Store) SetStatus(id string, status record.Status) (prev record.Status, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return "", false
	}
	prev = s.records[i].Status
	s.records[i].Status = status
	s.revision++
	return prev, true
}
