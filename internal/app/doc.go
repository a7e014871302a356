// Package app wires configuration, the backend client, the engine and the
// UI together.
//
// # Host loop
//
// Runner owns an engine.Engine on a single goroutine. The engine returns
// effects; the runner performs them:
//
//   - LoadConfig and PollData run the backend request on a goroutine and
//     hand the result back to the loop.
//   - ArmTimer replaces the timer of that kind on the clock. Ticks carry the
//     generation they were armed with, and the engine ignores stale ones.
//   - ResolveImage resolves, downloads and renders the stage image.
//   - Announce logs the milestone and calls the optional hook.
//
// After every step the runner publishes the engine's view to a state.Store,
// which the TUI reads on its own schedule.
//
// The clock comes from k8s.io/utils/clock so tests can drive timers with a
// fake clock.
//
// # Commands
//
// Run starts the TUI, Watch runs headless and logs stage changes, Stats
// fetches usage statistics and Check resolves every configured image.
package app
