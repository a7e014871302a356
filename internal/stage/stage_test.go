package stage

import (
	"errors"
	"testing"
	"time"
)

func TestCompute_Thresholds(t *testing.T) {
	stages := []int64{10, 30, 60}

	tests := []struct {
		total int64
		want  int
	}{
		{0, 0},
		{5, 0},
		{10, 1},
		{29, 1},
		{30, 2},
		{59, 2},
		{60, 3},
		{1000, 3},
	}

	for _, tt := range tests {
		if got := Compute(tt.total, stages, 4); got != tt.want {
			t.Fatalf("Compute(%d) = %d, want %d", tt.total, got, tt.want)
		}
	}
}

func TestCompute_ClampsToImageCount(t *testing.T) {
	if got := Compute(1000, []int64{10, 30, 60}, 2); got != 1 {
		t.Fatalf("Compute with 2 images = %d, want 1", got)
	}
}

func TestCompute_EmptyInputs(t *testing.T) {
	if got := Compute(50, nil, 4); got != 0 {
		t.Fatalf("Compute with no stages = %d, want 0", got)
	}
	if got := Compute(50, []int64{10}, 0); got != 0 {
		t.Fatalf("Compute with no images = %d, want 0", got)
	}
}

func TestCompute_MonotonicAndBounded(t *testing.T) {
	stages := []int64{3, 7, 8, 20, 21, 50}
	for _, images := range []int{1, 3, 7, 9} {
		prev := 0
		for total := int64(0); total <= 80; total++ {
			got := Compute(total, stages, images)
			if got < prev {
				t.Fatalf("Compute(%d, images=%d) = %d, decreased from %d", total, images, got, prev)
			}
			if got < 0 || got > images-1 {
				t.Fatalf("Compute(%d, images=%d) = %d, out of range", total, images, got)
			}
			if again := Compute(total, stages, images); again != got {
				t.Fatalf("Compute not idempotent: %d then %d", got, again)
			}
			prev = got
		}
	}
}

func TestSnapshot_Progress(t *testing.T) {
	snap := Snapshot{Stages: []int64{10, 30}, Images: []string{"a", "b", "c"}}

	p := snap.Progress(20, 1)
	if p.Percent != 50 || p.Remaining != 10 || p.AtMax {
		t.Fatalf("Progress(20, 1) = %+v, want 50%% remaining 10", p)
	}

	p = snap.Progress(4, 0)
	if p.Percent != 40 || p.Remaining != 6 {
		t.Fatalf("Progress(4, 0) = %+v, want 40%% remaining 6", p)
	}

	p = snap.Progress(45, 2)
	if !p.AtMax || p.Percent != 100 {
		t.Fatalf("Progress at max = %+v, want AtMax", p)
	}

	if p := (Snapshot{}).Progress(3, 0); !p.AtMax {
		t.Fatalf("Progress without thresholds = %+v, want AtMax", p)
	}
}

func TestSnapshot_EnvironmentCycles(t *testing.T) {
	snap := Snapshot{Environments: []string{"spring", "summer"}}
	want := []string{"spring", "summer", "spring", "summer"}
	for stage, w := range want {
		if got := snap.EnvironmentFor(stage); got != w {
			t.Fatalf("EnvironmentFor(%d) = %q, want %q", stage, got, w)
		}
	}
	if got := (Snapshot{}).EnvironmentFor(2); got != "" {
		t.Fatalf("EnvironmentFor without environments = %q, want empty", got)
	}
}

func TestSnapshot_ImageFor(t *testing.T) {
	snap := Snapshot{Images: []string{"a", "", "c"}}
	if got := snap.ImageFor(2); got != "c" {
		t.Fatalf("ImageFor(2) = %q, want c", got)
	}
	if got := snap.ImageFor(1); got != "" {
		t.Fatalf("ImageFor(1) = %q, want empty", got)
	}
	if got := snap.ImageFor(5); got != "" {
		t.Fatalf("ImageFor(5) = %q, want empty", got)
	}
}

func TestSnapshot_Validate(t *testing.T) {
	ok := Snapshot{Stages: []int64{1, 2}, Images: []string{"a", "b", "c"}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}

	bad := Snapshot{Stages: []int64{5, 5}, Images: []string{"a", "b", "c"}}
	if err := bad.Validate(); !errors.Is(err, ErrThresholdsNotIncreasing) {
		t.Fatalf("Validate = %v, want ErrThresholdsNotIncreasing", err)
	}

	short := Snapshot{Stages: []int64{5}, Images: []string{"a"}}
	if err := short.Validate(); !errors.Is(err, ErrImageCount) {
		t.Fatalf("Validate = %v, want ErrImageCount", err)
	}
}

func TestSnapshot_IntervalDefault(t *testing.T) {
	if got := (Snapshot{}).Interval(); got != DefaultPollInterval {
		t.Fatalf("Interval = %v, want %v", got, DefaultPollInterval)
	}
	if got := (Snapshot{PollInterval: time.Second}).Interval(); got != time.Second {
		t.Fatalf("Interval = %v, want 1s", got)
	}
}
