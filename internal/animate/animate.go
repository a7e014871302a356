// Package animate sequences the stage-by-stage reveal shown when the tree
// grows by one or more stages.
package animate

import "time"

// Reveal delays. The final stage is held slightly shorter.
const (
	StepDelay  = 1000 * time.Millisecond
	FinalDelay = 800 * time.Millisecond
)

// Phase is the animator state.
type Phase int

const (
	Idle Phase = iota
	Animating
)

func (p Phase) String() string {
	if p == Animating {
		return "animating"
	}
	return "idle"
}

// Step is one stage to reveal, held for Delay before the next.
type Step struct {
	Stage int
	Delay time.Duration
}

// Animator holds the reveal queue. It is not safe for concurrent use; the
// engine owns it.
type Animator struct {
	phase  Phase
	queue  []int
	pos    int
	target int
}

// Phase returns the current state.
func (a *Animator) Phase() Phase { return a.phase }

// Active reports whether a reveal sequence is running.
func (a *Animator) Active() bool { return a.phase == Animating }

// Target is the stage the running sequence ends at.
func (a *Animator) Target() int { return a.target }

// Remaining lists the stages not yet revealed.
func (a *Animator) Remaining() []int {
	if a.pos >= len(a.queue) {
		return nil
	}
	return append([]int(nil), a.queue[a.pos:]...)
}

// Begin queues every stage in from..to inclusive that has an image and
// returns the first step. ok is false when nothing can be revealed, in
// which case the caller shows the target directly. Begin while already
// animating is rejected.
func (a *Animator) Begin(from, to int, hasImage func(stage int) bool) (Step, bool) {
	if a.phase == Animating || to < from {
		return Step{}, false
	}
	queue := make([]int, 0, to-from+1)
	for s := from; s <= to; s++ {
		if hasImage == nil || hasImage(s) {
			queue = append(queue, s)
		}
	}
	if len(queue) == 0 {
		return Step{}, false
	}
	a.phase = Animating
	a.queue = queue
	a.pos = 0
	a.target = to
	return a.step(), true
}

// Advance moves past the current step. It returns the next step, or
// ok=false after the final stage, leaving the animator Idle.
func (a *Animator) Advance() (Step, bool) {
	if a.phase != Animating {
		return Step{}, false
	}
	a.pos++
	if a.pos >= len(a.queue) {
		a.Reset()
		return Step{}, false
	}
	return a.step(), true
}

// Current returns the stage being revealed.
func (a *Animator) Current() (int, bool) {
	if a.phase != Animating || a.pos >= len(a.queue) {
		return 0, false
	}
	return a.queue[a.pos], true
}

// Reset abandons any running sequence.
func (a *Animator) Reset() {
	a.phase = Idle
	a.queue = nil
	a.pos = 0
}

func (a *Animator) step() Step {
	delay := StepDelay
	if a.pos == len(a.queue)-1 {
		delay = FinalDelay
	}
	return Step{Stage: a.queue[a.pos], Delay: delay}
}
