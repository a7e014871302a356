package stage

import (
	"errors"
	"fmt"
	"time"
)

// DefaultPollInterval applies until a configuration says otherwise.
const DefaultPollInterval = 30 * time.Second

// BaselineLanguage is used when the active language has no text.
const BaselineLanguage = "ja"

// Milestone holds the per-language text shown when a stage is first reached.
type Milestone struct {
	Title   map[string]string
	Message map[string]string
}

// Snapshot is the configuration loaded from the backend. It is read-only
// once built and safe to share.
type Snapshot struct {
	Stages       []int64
	Images       []string
	Environments []string
	Milestones   map[int]Milestone
	PollInterval time.Duration
	Language     string
	DebugMode    bool
}

// Validation errors reported by Snapshot.Validate.
var (
	ErrThresholdsNotIncreasing = errors.New("stage thresholds must be strictly increasing")
	ErrNegativeThreshold       = errors.New("stage thresholds must be non-negative")
	ErrImageCount              = errors.New("image count must be one more than the number of thresholds")
)

// Validate reports the first structural problem in the snapshot. A snapshot
// that fails validation is still usable: Compute clamps to the images that exist.
func (s Snapshot) Validate() error {
	for i, thr := range s.Stages {
		if thr < 0 {
			return fmt.Errorf("%w: stages[%d] = %d", ErrNegativeThreshold, i, thr)
		}
		if i > 0 && thr <= s.Stages[i-1] {
			return fmt.Errorf("%w: stages[%d] = %d after %d", ErrThresholdsNotIncreasing, i, thr, s.Stages[i-1])
		}
	}
	if len(s.Images) != len(s.Stages)+1 {
		return fmt.Errorf("%w: %d thresholds, %d images", ErrImageCount, len(s.Stages), len(s.Images))
	}
	return nil
}

// Stage maps a counter value to a stage index for this snapshot.
func (s Snapshot) Stage(total int64) int {
	return Compute(total, s.Stages, len(s.Images))
}

// MaxStage is the highest stage that has an image slot.
func (s Snapshot) MaxStage() int {
	if len(s.Images) == 0 {
		return 0
	}
	return len(s.Images) - 1
}

// ImageFor returns the raw image identifier for a stage, or "" when the
// stage is out of range or unconfigured.
func (s Snapshot) ImageFor(stage int) string {
	if stage < 0 || stage >= len(s.Images) {
		return ""
	}
	return s.Images[stage]
}

// EnvironmentFor cycles through the configured environments by stage.
func (s Snapshot) EnvironmentFor(stage int) string {
	if len(s.Environments) == 0 || stage < 0 {
		return ""
	}
	return s.Environments[stage%len(s.Environments)]
}

// Interval returns the polling interval, falling back to the default.
func (s Snapshot) Interval() time.Duration {
	if s.PollInterval <= 0 {
		return DefaultPollInterval
	}
	return s.PollInterval
}

// Compute returns the number of thresholds not exceeding total, clamped to
// imageCount-1 so a long threshold list never indexes past the images.
func Compute(total int64, stages []int64, imageCount int) int {
	if len(stages) == 0 || imageCount <= 0 {
		return 0
	}
	current := 0
	for i, thr := range stages {
		if total < thr {
			break
		}
		current = i + 1
	}
	if current > imageCount-1 {
		return imageCount - 1
	}
	return current
}

// Progress describes how far the counter is toward the next stage.
type Progress struct {
	Percent   float64
	Remaining int64
	AtMax     bool
}

// Progress computes progress toward the stage after the given one.
func (s Snapshot) Progress(total int64, stage int) Progress {
	if len(s.Stages) == 0 || stage >= s.MaxStage() || stage >= len(s.Stages) || stage < 0 {
		return Progress{Percent: 100, AtMax: true}
	}
	var floor int64
	if stage > 0 {
		floor = s.Stages[stage-1]
	}
	next := s.Stages[stage]
	span := next - floor
	pct := 0.0
	if span > 0 {
		pct = float64((total-floor)*100) / float64(span)
		pct = min(max(pct, 0), 100)
	}
	return Progress{Percent: pct, Remaining: next - total}
}
