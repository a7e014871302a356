package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/adrg/xdg"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PollSeconds != defaultPollSeconds || cfg.RequestTimeout != defaultRequestTimeout {
		t.Fatalf("cfg = %+v, want default poll and timeout", cfg)
	}
	if cfg.ImageProtocol != defaultImageProtocol {
		t.Fatalf("ImageProtocol = %q, want %q", cfg.ImageProtocol, defaultImageProtocol)
	}
	if !errors.Is(cfg.Validate(), ErrNoAPIURL) {
		t.Fatalf("Validate() = %v, want ErrNoAPIURL", cfg.Validate())
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_url = "  https://script.example.com/exec  "
language = " en "
poll_seconds = 15
request_timeout_seconds = 4
image_protocol = "Kitty"
image_width = 60
log_file = "  ~/logs/arbor.log  "
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "https://script.example.com/exec" {
		t.Fatalf("APIURL = %q, want trimmed url", cfg.APIURL)
	}
	if cfg.Language != "en" || cfg.ImageProtocol != "kitty" {
		t.Fatalf("Language=%q ImageProtocol=%q, want en kitty", cfg.Language, cfg.ImageProtocol)
	}
	if cfg.PollInterval() != 15*time.Second || cfg.Timeout() != 4*time.Second {
		t.Fatalf("PollInterval=%v Timeout=%v, want 15s 4s", cfg.PollInterval(), cfg.Timeout())
	}
	if cfg.ImageWidth != 60 || cfg.ImageHeight != defaultImageHeight {
		t.Fatalf("image size = %dx%d, want 60x%d", cfg.ImageWidth, cfg.ImageHeight, defaultImageHeight)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestLoad_EnvOverridesAPIURL(t *testing.T) {
	t.Setenv(EnvAPIURL, "http://localhost:9000")
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`api_url = "http://ignored"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://localhost:9000" {
		t.Fatalf("APIURL = %q, want env override", cfg.APIURL)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`api_url = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestValidate(t *testing.T) {
	base := Defaults()
	base.APIURL = "http://localhost"

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"ok", func(*Config) {}, nil},
		{"no url", func(c *Config) { c.APIURL = "" }, ErrNoAPIURL},
		{"timeout", func(c *Config) { c.RequestTimeout = 0 }, ErrInvalidTimeout},
		{"poll", func(c *Config) { c.PollSeconds = -1 }, ErrInvalidPoll},
		{"size", func(c *Config) { c.ImageHeight = 0 }, ErrInvalidImageSize},
		{"protocol", func(c *Config) { c.ImageProtocol = "ascii" }, ErrUnknownProtocol},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDefaultPath_UsesXDGConfigHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	if got, want := DefaultPath(), filepath.Join(dir, AppName, "config.toml"); got != want {
		t.Fatalf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
