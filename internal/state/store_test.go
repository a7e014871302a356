package state

import (
	"testing"
	"time"

	"github.com/five82/arbor/internal/engine"
	"github.com/five82/arbor/internal/fault"
	"github.com/five82/arbor/internal/milestone"
)

func TestStore_PublishAndSnapshotClone(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := Store{now: func() time.Time { return fixed }}

	s.Publish(engine.View{
		Total:     42,
		Stage:     2,
		Notice:    &fault.Notice{Kind: fault.NetworkFailure, Message: "down"},
		Milestone: &milestone.Event{Stage: 2, Title: "Halfway!"},
	})

	snap := s.Snapshot()
	if snap.Version != 1 || !snap.Published.Equal(fixed) {
		t.Fatalf("snapshot version=%d published=%v, want 1 at %v", snap.Version, snap.Published, fixed)
	}
	if snap.View.Total != 42 || snap.View.Stage != 2 {
		t.Fatalf("view = %+v, want total 42 stage 2", snap.View)
	}

	snap.View.Notice.Message = "changed"
	snap.View.Milestone.Title = "changed"
	again := s.Snapshot()
	if again.View.Notice.Message != "down" || again.View.Milestone.Title != "Halfway!" {
		t.Fatalf("Snapshot should clone pointer fields; got %+v %+v", again.View.Notice, again.View.Milestone)
	}
}

func TestStore_VersionIncrements(t *testing.T) {
	var s Store
	s.Publish(engine.View{})
	s.Publish(engine.View{Total: 1})
	if got := s.Snapshot().Version; got != 2 {
		t.Fatalf("Version = %d, want 2", got)
	}
}

func TestSnapshot_IsOffline(t *testing.T) {
	tests := []struct {
		failures int
		want     bool
	}{
		{0, false},
		{1, false},
		{2, true},
		{5, true},
	}
	for _, tt := range tests {
		snap := Snapshot{View: engine.View{Failures: tt.failures}}
		if got := snap.IsOffline(); got != tt.want {
			t.Fatalf("IsOffline() with %d failures = %v, want %v", tt.failures, got, tt.want)
		}
	}
}

func TestStore_ZeroValue(t *testing.T) {
	var s Store
	snap := s.Snapshot()
	if snap.Version != 0 || snap.View.Loaded {
		t.Fatalf("zero store snapshot = %+v, want empty", snap)
	}
}
