package engine

import (
	"time"

	"github.com/five82/arbor/internal/fault"
	"github.com/five82/arbor/internal/milestone"
	"github.com/five82/arbor/internal/stage"
)

// Frame is a rendered stage image.
type Frame struct {
	Stage       int
	URL         string
	Art         string
	Placeholder bool
}

// RetryTarget is what a manual retry re-attempts.
type RetryTarget int

const (
	RetryData RetryTarget = iota
	RetryConfig
)

func (t RetryTarget) String() string {
	if t == RetryConfig {
		return "config"
	}
	return "data"
}

// View is a copy of everything the UI draws. It shares the read-only
// snapshot with the engine and nothing else.
type View struct {
	Loaded        bool
	ConfigLoaded  bool
	Snapshot      stage.Snapshot
	Total         int64
	PreviousTotal int64
	Stage         int
	MaxStage      int
	Progress      stage.Progress
	RecentDelta   int64
	LastUpdate    time.Time

	Frame       Frame
	HasFrame    bool
	Environment string

	Animating       bool
	AnimationTarget int

	Polling       bool
	PollingActive bool
	Interval      time.Duration
	Failures      int

	Notice      *fault.Notice
	Overlay     *fault.Notice
	RetryTarget RetryTarget

	Milestone *milestone.Event
	Language  string
	DebugMode bool
}
