package animate

import (
	"slices"
	"testing"
)

func all(int) bool { return true }

func TestBegin_RevealsEveryStageInOrder(t *testing.T) {
	var a Animator
	step, ok := a.Begin(0, 3, all)
	if !ok {
		t.Fatalf("Begin ok = false, want true")
	}
	var got []int
	var delays []int64
	for ok {
		got = append(got, step.Stage)
		delays = append(delays, step.Delay.Milliseconds())
		step, ok = a.Advance()
	}
	if want := []int{0, 1, 2, 3}; !slices.Equal(got, want) {
		t.Fatalf("stages = %v, want %v", got, want)
	}
	if want := []int64{1000, 1000, 1000, 800}; !slices.Equal(delays, want) {
		t.Fatalf("delays = %v, want %v", delays, want)
	}
	if a.Phase() != Idle {
		t.Fatalf("Phase = %v, want idle", a.Phase())
	}
}

func TestBegin_SkipsStagesWithoutImages(t *testing.T) {
	var a Animator
	step, ok := a.Begin(1, 4, func(s int) bool { return s != 2 })
	if !ok || step.Stage != 1 {
		t.Fatalf("Begin = %+v, %v, want stage 1", step, ok)
	}
	if got := a.Remaining(); !slices.Equal(got, []int{1, 3, 4}) {
		t.Fatalf("Remaining = %v, want [1 3 4]", got)
	}
}

func TestBegin_EmptyQueue(t *testing.T) {
	var a Animator
	if _, ok := a.Begin(1, 2, func(int) bool { return false }); ok {
		t.Fatalf("Begin ok = true, want false for empty queue")
	}
	if a.Active() {
		t.Fatalf("Active = true, want false")
	}
}

func TestBegin_RejectedWhileAnimating(t *testing.T) {
	var a Animator
	a.Begin(0, 2, all)
	if _, ok := a.Begin(2, 4, all); ok {
		t.Fatalf("second Begin ok = true, want false")
	}
	if a.Target() != 2 {
		t.Fatalf("Target = %d, want 2", a.Target())
	}
}

func TestSingleStepUsesFinalDelay(t *testing.T) {
	var a Animator
	step, ok := a.Begin(5, 5, all)
	if !ok || step.Delay != FinalDelay {
		t.Fatalf("Begin = %+v, want final delay", step)
	}
	if _, ok := a.Advance(); ok {
		t.Fatalf("Advance ok = true, want false")
	}
}
