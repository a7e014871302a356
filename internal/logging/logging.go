// Package logging builds the slog logger shared by every command.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Options selects where logs go.
type Options struct {
	// Path is the log file. Empty disables file logging.
	Path    string
	Verbose bool
	// Stderr also writes to standard error. The TUI owns the terminal, so
	// only headless commands set it.
	Stderr bool
}

// New opens the log file and returns a logger plus a function that closes
// it. The logger always works; when the file cannot be opened it falls back
// to stderr or discards.
func New(opts Options) (*slog.Logger, func() error, error) {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}

	var writers []io.Writer
	if opts.Stderr {
		writers = append(writers, os.Stderr)
	}
	closer := func() error { return nil }

	var openErr error
	if opts.Path != "" {
		file, err := open(opts.Path)
		if err != nil {
			openErr = err
		} else {
			writers = append(writers, file)
			closer = file.Close
		}
	}

	var out io.Writer
	switch len(writers) {
	case 0:
		out = io.Discard
	case 1:
		out = writers[0]
	default:
		out = io.MultiWriter(writers...)
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	return logger, closer, openErr
}

func open(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return file, nil
}
