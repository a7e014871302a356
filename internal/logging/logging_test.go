package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "arbor.log")
	logger, closeLog, err := New(Options{Path: path})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("stage changed", "from", 1, "to", 2)
	logger.Debug("hidden")
	if err := closeLog(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "stage changed") || !strings.Contains(out, "to=2") {
		t.Fatalf("log = %q, want stage change entry", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("log = %q, want debug suppressed", out)
	}
}

func TestNew_VerboseEnablesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arbor.log")
	logger, closeLog, err := New(Options{Path: path, Verbose: true})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("poll tick")
	_ = closeLog()

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "poll tick") {
		t.Fatalf("log = %q, want debug entry", data)
	}
}

func TestNew_UnwritablePathStillReturnsLogger(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	logger, closeLog, err := New(Options{Path: filepath.Join(blocker, "arbor.log")})
	if err == nil {
		t.Fatalf("New error = nil, want open failure")
	}
	if logger == nil {
		t.Fatalf("logger = nil, want usable fallback")
	}
	logger.Info("still fine")
	_ = closeLog()
}
