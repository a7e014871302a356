// Package engine is the growth tree's progression state machine.
//
// The engine owns the configuration snapshot, the counter's sync state, the
// reveal animator, the per-stage frame cache, and the failure reporter. It
// performs no I/O and starts no timers. Inputs arrive as method calls and
// every method returns the effects the host must carry out:
//
//	effects := eng.Start()             // [LoadConfig]
//	effects = eng.HandleConfig(snap, err) // [ArmTimer{poll}, PollData]
//	effects = eng.HandleTick(gen)      // [ArmTimer{poll}, PollData?]
//	effects = eng.HandleData(sample, err)
//	effects = eng.HandleReveal(gen)
//	effects = eng.HandleImage(stage, frame, err)
//
// Timers carry a generation. Arming a timer of the same kind bumps the
// generation, so a tick from a replaced or stopped timer is ignored and at
// most one poll timer is ever live. At most one data request is in flight;
// ticks that find one outstanding are dropped, not queued.
//
// Tests drive the engine directly and play the role of the clock.
package engine
