package milestone

import (
	"testing"

	"github.com/five82/arbor/internal/stage"
)

func snapshot() stage.Snapshot {
	return stage.Snapshot{
		Milestones: map[int]stage.Milestone{
			2: {
				Title:   map[string]string{"ja": "半分！", "en": "Halfway!"},
				Message: map[string]string{"ja": "よく育っています"},
			},
			3: {},
		},
	}
}

func TestCheck_ActiveLanguage(t *testing.T) {
	ev, ok := NewDetector("en").Check(2, snapshot())
	if !ok {
		t.Fatalf("Check(2) ok = false, want true")
	}
	if ev.Stage != 2 || ev.Title != "Halfway!" {
		t.Fatalf("Check(2) = %+v, want english title", ev)
	}
	if ev.Message != "よく育っています" {
		t.Fatalf("Message = %q, want baseline fallback", ev.Message)
	}
}

func TestCheck_DefaultText(t *testing.T) {
	ev, ok := NewDetector("en").Check(3, snapshot())
	if !ok {
		t.Fatalf("Check(3) ok = false, want true")
	}
	if ev.Title != "Congratulations!" || ev.Message != "You've reached a new stage!" {
		t.Fatalf("Check(3) = %+v, want built-in defaults", ev)
	}
}

func TestCheck_NoMilestone(t *testing.T) {
	if _, ok := NewDetector("ja").Check(1, snapshot()); ok {
		t.Fatalf("Check(1) ok = true, want false")
	}
}

func TestSetLanguage(t *testing.T) {
	d := NewDetector("en")
	d.SetLanguage("ja")
	ev, _ := d.Check(2, snapshot())
	if ev.Title != "半分！" {
		t.Fatalf("Title = %q, want japanese", ev.Title)
	}
}

func TestCheck_UnsetLanguageUsesBaselineDefaults(t *testing.T) {
	ev, ok := NewDetector("").Check(3, snapshot())
	if !ok {
		t.Fatalf("Check(3) ok = false, want true")
	}
	if ev.Title != "おめでとう！" {
		t.Fatalf("Title = %q, want baseline default title", ev.Title)
	}
}
