// Package ui implements arbor's terminal viewer with Bubble Tea.
//
// The model never talks to the backend for the tree itself. A tick reads the
// latest state.Snapshot published by the host loop, and key presses go back
// to the loop through the Controller interface. The one exception is the
// stats panel, which fetches usage statistics lazily the first time it opens.
//
// # Layout
//
//   - header: title, language, polling state and last update time
//   - banner: the current failure with its hint and retry key, plus any
//     informational image notice
//   - body: the stage image beside the stage, counter and progress bar, or
//     the stats or debug panel when one is open
//   - footer: short key help
//
// Help and milestone messages are drawn as centered modals on top.
//
// # Files
//
//   - app.go: Model, Update loop, messages and commands
//   - view.go: main layout rendering
//   - panels.go: stats and debug panels
//   - modal.go: modal interface and the milestone modal
//   - help.go, keys.go: key bindings and the help overlay
//   - theme.go, style_helpers.go: colors and lipgloss styles
package ui
