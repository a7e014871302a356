package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the header drops
	// secondary fields.
	LayoutCompactWidth = 80

	// LayoutSideBySideWidth is the minimum width to place the stage details
	// beside the image instead of below it.
	LayoutSideBySideWidth = 100
)

// Panel limits.
const (
	// DebugLogLines is how many lines of arbor's log the debug panel tails.
	DebugLogLines = 200

	// ModalWidth is the width of help and milestone modals.
	ModalWidth = 48
)

// Timing constants.
const (
	// DefaultUIInterval is how often the UI reads the store.
	DefaultUIInterval = 250 * time.Millisecond

	// RealtimeNoticeFor is how long the "updated" notice stays visible after
	// the counter grows.
	RealtimeNoticeFor = 3 * time.Second

	// StatsFetchTimeout bounds the lazy statistics request.
	StatsFetchTimeout = 10 * time.Second
)
