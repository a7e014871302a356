// Package logtail reads the end of arbor's own log file for the debug panel.
//
// Read keeps a ring buffer of the last N lines so large files are scanned
// once without holding them in memory. Parse splits slog text handler lines
// into time, level, message and attributes so the panel can color them.
package logtail
