package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/adrg/xdg"
	toml "github.com/pelletier/go-toml/v2"
)

// AppName names the XDG directories.
const AppName = "arbor"

// Config holds the viewer's local settings.
type Config struct {
	APIURL           string
	Language         string
	PollSeconds      int
	RequestTimeout   int
	AssetURLTemplate string
	ImageProtocol    string
	ImageWidth       int
	ImageHeight      int
	LogFile          string
}

const (
	defaultPollSeconds    = 30
	defaultRequestTimeout = 10
	defaultImageProtocol  = "halfblocks"
	defaultImageWidth     = 40
	defaultImageHeight    = 20

	// EnvAPIURL overrides api_url.
	EnvAPIURL = "ARBOR_API_URL"
)

var protocols = []string{"auto", "halfblocks", "kitty", "iterm2", "sixel"}

// Validation errors returned by Config.Validate.
var (
	ErrNoAPIURL         = errors.New("api_url is not set: add it to the config file or set " + EnvAPIURL)
	ErrInvalidTimeout   = errors.New("invalid request_timeout_seconds: must be positive")
	ErrInvalidPoll      = errors.New("invalid poll_seconds: must be positive")
	ErrInvalidImageSize = errors.New("invalid image size: width and height must be positive")
	ErrUnknownProtocol  = errors.New("unknown image_protocol")
)

// Defaults returns the configuration used when no file exists.
func Defaults() Config {
	return Config{
		PollSeconds:    defaultPollSeconds,
		RequestTimeout: defaultRequestTimeout,
		ImageProtocol:  defaultImageProtocol,
		ImageWidth:     defaultImageWidth,
		ImageHeight:    defaultImageHeight,
		LogFile:        DefaultLogPath(),
	}
}

// DefaultPath is the config file location under XDG_CONFIG_HOME.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.toml")
}

// DefaultLogPath is the log file location under XDG_STATE_HOME.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, AppName, AppName+".log")
}

// Load reads the config file at path, or DefaultPath when path is empty.
// A missing file yields Defaults. Load does not validate; commands that need
// a backend call Validate.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.applyEnv()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL           string `toml:"api_url"`
		Language         string `toml:"language"`
		PollSeconds      *int   `toml:"poll_seconds"`
		RequestTimeout   *int   `toml:"request_timeout_seconds"`
		AssetURLTemplate string `toml:"asset_url_template"`
		ImageProtocol    string `toml:"image_protocol"`
		ImageWidth       *int   `toml:"image_width"`
		ImageHeight      *int   `toml:"image_height"`
		LogFile          string `toml:"log_file"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.APIURL = strings.TrimSpace(raw.APIURL)
	cfg.Language = strings.TrimSpace(raw.Language)
	cfg.AssetURLTemplate = strings.TrimSpace(raw.AssetURLTemplate)
	if p := strings.ToLower(strings.TrimSpace(raw.ImageProtocol)); p != "" {
		cfg.ImageProtocol = p
	}
	if raw.PollSeconds != nil {
		cfg.PollSeconds = *raw.PollSeconds
	}
	if raw.RequestTimeout != nil {
		cfg.RequestTimeout = *raw.RequestTimeout
	}
	if raw.ImageWidth != nil {
		cfg.ImageWidth = *raw.ImageWidth
	}
	if raw.ImageHeight != nil {
		cfg.ImageHeight = *raw.ImageHeight
	}
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}
	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.APIURL = v
	}
}

// Validate reports the first setting that would stop the viewer from
// talking to a backend.
func (c Config) Validate() error {
	if c.APIURL == "" {
		return ErrNoAPIURL
	}
	if c.RequestTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.PollSeconds <= 0 {
		return ErrInvalidPoll
	}
	if c.ImageWidth <= 0 || c.ImageHeight <= 0 {
		return ErrInvalidImageSize
	}
	if !slices.Contains(protocols, c.ImageProtocol) {
		return fmt.Errorf("%w: %q", ErrUnknownProtocol, c.ImageProtocol)
	}
	return nil
}

// PollInterval is the interval used until the backend provides one.
func (c Config) PollInterval() time.Duration {
	if c.PollSeconds <= 0 {
		return defaultPollSeconds * time.Second
	}
	return time.Duration(c.PollSeconds) * time.Second
}

// Timeout bounds each HTTP request.
func (c Config) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return defaultRequestTimeout * time.Second
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultPath(), nil
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
