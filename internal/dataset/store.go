package dataset

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Snapshot is one immutable, version-stamped load of the dataset. Analytic
// calls capture a snapshot once and use its table for the whole call, so a
// concurrent reload can never change results mid-computation.
type Snapshot struct {
	ID       uuid.UUID
	Table    *Table
	LoadedAt time.Time
}

// Store holds the current snapshot behind an atomic pointer. Many readers,
// zero writers: Replace installs a whole new snapshot, it never mutates the
// one in place.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore creates a store with an initial table.
func NewStore(table *Table) *Store {
	s := &Store{}
	s.Replace(table)
	return s
}

// Snapshot returns the current snapshot.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Replace installs a new table as the current snapshot and returns it.
func (s *Store) Replace(table *Table) *Snapshot {
	snap := &Snapshot{ID: uuid.New(), Table: table, LoadedAt: time.Now()}
	s.current.Store(snap)
	return snap
}
