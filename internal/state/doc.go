// Package state hands engine views from the host loop to the UI.
//
// # Overview
//
// The host loop owns the engine on a single goroutine. After each batch of
// effects it publishes engine.View into a Store; the bubbletea program and
// the headless watcher read Snapshot on their own schedule.
//
//	Producer (app.Runner):         Consumer (ui / watch):
//	┌────────────────┐            ┌─────────────────┐
//	│ engine.HandleX │            │                 │
//	│      ↓         │            │                 │
//	│ store.Publish()│───────────→│ store.Snapshot()│
//	└────────────────┘  (mutex)   └─────────────────┘
//
// # Concurrency Model
//
// Publish takes the write lock; Snapshot takes the read lock. Both copy the
// view's pointer fields so readers never share a notice or milestone with
// the writer. The configuration snapshot inside the view is read-only and
// stays shared.
//
// # Versioning
//
// Every Publish bumps Version. Readers compare versions to skip redraws and
// the watcher uses them to log only real changes.
//
// The zero Store is ready to use.
package state
