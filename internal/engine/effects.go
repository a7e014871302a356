package engine

import (
	"time"

	"github.com/five82/arbor/internal/imageref"
	"github.com/five82/arbor/internal/milestone"
)

// Effect is work the host performs on the engine's behalf. Results come back
// through the matching Handle method.
type Effect interface {
	effect()
}

// TimerKind names the engine's two timers.
type TimerKind int

const (
	TimerPoll TimerKind = iota + 1
	TimerReveal
)

func (k TimerKind) String() string {
	if k == TimerReveal {
		return "reveal"
	}
	return "poll"
}

// LoadConfig asks the host to fetch configuration and call HandleConfig.
type LoadConfig struct{}

// PollData asks the host to fetch the counter and call HandleData.
type PollData struct{}

// ArmTimer asks the host to replace the timer of Kind so that it fires once
// after After, delivering Gen to HandleTick or HandleReveal. A delivered
// generation that no longer matches is ignored.
type ArmTimer struct {
	Kind  TimerKind
	Gen   uint64
	After time.Duration
}

// ResolveImage asks the host to resolve ID, load the image, and call
// HandleImage for Stage.
type ResolveImage struct {
	Stage int
	ID    imageref.Identifier
}

// Announce reports a reached milestone.
type Announce struct {
	Event milestone.Event
}

func (LoadConfig) effect()   {}
func (PollData) effect()     {}
func (ArmTimer) effect()     {}
func (ResolveImage) effect() {}
func (Announce) effect()     {}
