package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/stockboard/internal/inventory"
)

// Config captures how stockboard reaches its inventory source and where it
// writes diagnostics.
type Config struct {
	SourceURL        string
	PollIntervalMS   int
	RequestTimeoutMS int
	FallbackPath     string
	DisableFallback  bool
	LogPath          string
	LogLevel         string
	MetricsPath      string
}

const (
	defaultConfigPath       = "~/.config/stockboard/config.toml"
	defaultSourceURL        = "https://raw.githubusercontent.com/9477781/goods-sales-data/main/inventory.json"
	defaultPollIntervalMS   = 30000
	defaultRequestTimeoutMS = 10000
	defaultLogPath          = "~/.local/state/stockboard/stockboard.log"
	defaultLogLevel         = "info"
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		SourceURL:        defaultSourceURL,
		PollIntervalMS:   defaultPollIntervalMS,
		RequestTimeoutMS: defaultRequestTimeoutMS,
		LogPath:          mustExpand(defaultLogPath),
		LogLevel:         defaultLogLevel,
	}
}

// Load locates and parses the stockboard config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
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
		SourceURL        string `toml:"source_url"`
		PollIntervalMS   int    `toml:"poll_interval_ms"`
		RequestTimeoutMS int    `toml:"request_timeout_ms"`
		FallbackPath     string `toml:"fallback_path"`
		DisableFallback  bool   `toml:"disable_fallback"`
		LogPath          string `toml:"log_path"`
		LogLevel         string `toml:"log_level"`
		MetricsPath      string `toml:"metrics_path"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.SourceURL); v != "" {
		cfg.SourceURL = v
	}
	if raw.PollIntervalMS > 0 {
		cfg.PollIntervalMS = raw.PollIntervalMS
	}
	if raw.RequestTimeoutMS > 0 {
		cfg.RequestTimeoutMS = raw.RequestTimeoutMS
	}
	if v := strings.TrimSpace(raw.FallbackPath); v != "" {
		cfg.FallbackPath = mustExpand(v)
	}
	cfg.DisableFallback = raw.DisableFallback
	if v := strings.TrimSpace(raw.LogPath); v != "" {
		cfg.LogPath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.MetricsPath); v != "" {
		cfg.MetricsPath = mustExpand(v)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Validate checks that SourceURL is an absolute http(s) URL.
func (c Config) Validate() error {
	u, err := url.Parse(strings.TrimSpace(c.SourceURL))
	if err != nil {
		return fmt.Errorf("source_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("source_url %q: scheme must be http or https", c.SourceURL)
	}
	if u.Host == "" {
		return fmt.Errorf("source_url %q: missing host", c.SourceURL)
	}
	return nil
}

// WithOverrides returns c with command-line values applied. Blank or
// non-positive values leave the file setting in place.
func (c Config) WithOverrides(sourceURL string, poll time.Duration) (Config, error) {
	if v := strings.TrimSpace(sourceURL); v != "" {
		c.SourceURL = v
	}
	if poll > 0 {
		c.PollIntervalMS = int(poll / time.Millisecond)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// PollInterval returns the time between automatic fetches.
func (c Config) PollInterval() time.Duration {
	if c.PollIntervalMS <= 0 {
		return defaultPollIntervalMS * time.Millisecond
	}
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// RequestTimeout returns the per-request HTTP timeout.
func (c Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutMS <= 0 {
		return defaultRequestTimeoutMS * time.Millisecond
	}
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// Fallback resolves the dataset shown when the first fetch fails. It returns
// nil when fallback is disabled, the file at FallbackPath when set, and the
// built-in sample otherwise.
func (c Config) Fallback() (*inventory.Snapshot, error) {
	if c.DisableFallback {
		return nil, nil
	}
	if c.FallbackPath == "" {
		snap := inventory.Sample()
		return &snap, nil
	}
	snap, err := inventory.LoadFile(c.FallbackPath)
	if err != nil {
		return nil, fmt.Errorf("load fallback: %w", err)
	}
	return &snap, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
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
