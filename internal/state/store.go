package state

import (
	"sync"
	"time"

	"github.com/five82/arbor/internal/engine"
)

// Snapshot is the latest view published by the host loop.
type Snapshot struct {
	View      engine.View
	Version   uint64
	Published time.Time
}

// IsOffline returns true when the backend has failed several polls in a row.
func (s Snapshot) IsOffline() bool {
	return s.View.Failures >= 2
}

// Store hands views from the host loop to readers.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	now      func() time.Time
}

// Publish replaces the stored view and bumps the version.
func (s *Store) Publish(v engine.View) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now
	if s.now != nil {
		now = s.now
	}
	s.snapshot.View = cloneView(v)
	s.snapshot.Version++
	s.snapshot.Published = now()
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.View = cloneView(s.snapshot.View)
	return snap
}

// cloneView copies the pointer fields. The configuration snapshot is
// read-only and stays shared.
func cloneView(v engine.View) engine.View {
	if v.Notice != nil {
		n := *v.Notice
		v.Notice = &n
	}
	if v.Overlay != nil {
		n := *v.Overlay
		v.Overlay = &n
	}
	if v.Milestone != nil {
		m := *v.Milestone
		v.Milestone = &m
	}
	return v
}
