// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for rigchat.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/rigchat/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete rigchat configuration.
type Config struct {
	Ollama     OllamaConfig     `toml:"ollama"`
	Generation GenerationConfig `toml:"generation"`
	Catalog    CatalogConfig    `toml:"catalog"`
	UI         UIConfig         `toml:"ui"`
	Log        LogConfig        `toml:"log"`
}

// OllamaConfig describes how to reach the inference backend.
type OllamaConfig struct {
	// URL is the Ollama API base URL.
	URL string `toml:"url"`
	// ConnectTimeout bounds the worker's startup health check.
	ConnectTimeout Duration `toml:"connect_timeout"`
}

// GenerationConfig controls each chat generation.
type GenerationConfig struct {
	// Timeout bounds a single streamed reply. "0s" disables the limit.
	Timeout Duration `toml:"timeout"`
	// InboxSize is how many prompts may queue behind a running generation.
	InboxSize    int     `toml:"inbox_size"`
	SystemPrompt string  `toml:"system_prompt"`
	Temperature  float64 `toml:"temperature"`
	NumCtx       int     `toml:"num_ctx"`
}

// CatalogConfig controls the model list fetch.
type CatalogConfig struct {
	Timeout Duration `toml:"timeout"`
	// OnError is "empty" (show an empty list) or "show" (empty list plus the error).
	OnError string `toml:"on_error"`
}

// UIConfig contains display preferences.
type UIConfig struct {
	// Markdown renders finished assistant replies with glamour.
	Markdown bool `toml:"markdown"`
	NoColor  bool `toml:"no_color"`
}

// LogConfig controls the diagnostic log. The TUI owns the terminal, so
// logs are discarded unless File is set.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// =============================================================================
// DURATION
// =============================================================================

// Duration is a time.Duration written as a string ("30s", "10m") in TOML.
type Duration struct {
	time.Duration
}

// D is shorthand for building a Duration.
func D(d time.Duration) Duration {
	return Duration{Duration: d}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Ollama: OllamaConfig{
			URL:            "http://127.0.0.1:11434",
			ConnectTimeout: D(5 * time.Second),
		},
		Generation: GenerationConfig{
			Timeout:   D(10 * time.Minute),
			InboxSize: 4,
		},
		Catalog: CatalogConfig{
			Timeout: D(10 * time.Second),
			OnError: "empty",
		},
		UI: UIConfig{
			Markdown: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// fillDefaults fills values that are empty after decoding.
// Zero durations are left alone where zero has a meaning.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Ollama.URL == "" {
		cfg.Ollama.URL = defaults.Ollama.URL
	}
	cfg.Ollama.URL = strings.TrimRight(cfg.Ollama.URL, "/")
	if cfg.Ollama.ConnectTimeout.Duration == 0 {
		cfg.Ollama.ConnectTimeout = defaults.Ollama.ConnectTimeout
	}
	if cfg.Generation.InboxSize == 0 {
		cfg.Generation.InboxSize = defaults.Generation.InboxSize
	}
	if cfg.Catalog.Timeout.Duration == 0 {
		cfg.Catalog.Timeout = defaults.Catalog.Timeout
	}
	if cfg.Catalog.OnError == "" {
		cfg.Catalog.OnError = defaults.Catalog.OnError
	}
	cfg.Catalog.OnError = strings.ToLower(cfg.Catalog.OnError)
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the rigchat configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".rigchat"), nil
}

// DefaultPath returns the path to the default config file.
func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads the default config file. A missing file yields the defaults.
// .env files and environment overrides are applied in both cases.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadPath(path)
}

// LoadPath is LoadFromPath, except that a missing file yields the defaults.
func LoadPath(path string) (*Config, error) {
	cfg, err := LoadFromPath(path)
	if errors.Is(err, fs.ErrNotExist) {
		return finish(Default(), filepath.Dir(path))
	}
	return cfg, err
}

// LoadFromPath loads configuration from a specific TOML file with full
// validation. Keys absent from the file keep their defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := decodeFile(cfg, path); err != nil {
		return nil, err
	}
	return finish(cfg, filepath.Dir(path))
}

// Parse decodes TOML text over the defaults and validates the result.
// No environment overrides are applied.
func Parse(data string) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode TOML: %w", err)
	}
	fillDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func decodeFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file %s: %w", path, err)
	}
	return nil
}

// finish applies .env files, environment overrides, defaults and validation.
func finish(cfg *Config, dir string) (*Config, error) {
	if err := LoadDotEnv(filepath.Join(dir, ".env"), ".env"); err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()
	fillDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

const fileHeader = `# rigchat configuration file
# Durations use Go syntax: "500ms", "30s", "10m". generation.timeout = "0s" disables the limit.

`

// Encode renders cfg as TOML with the standard header.
func Encode(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(fileHeader)
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes cfg to path atomically with owner-only permissions.
func Save(cfg *Config, path string) error {
	data, err := Encode(cfg)
	if err != nil {
		return err
	}
	if err := util.AtomicWriteFile(path, data, 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns ValidateErrors when
// anything is wrong.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if u, err := url.Parse(c.Ollama.URL); err != nil {
		add("ollama.url", "invalid URL: %v", err)
	} else if u.Scheme != "http" && u.Scheme != "https" {
		add("ollama.url", "scheme must be http or https, got %q", u.Scheme)
	} else if u.Host == "" {
		add("ollama.url", "missing host")
	}
	if c.Ollama.ConnectTimeout.Duration < 0 {
		add("ollama.connect_timeout", "must not be negative")
	}

	if c.Generation.Timeout.Duration < 0 {
		add("generation.timeout", "must not be negative (use 0s to disable)")
	}
	if c.Generation.InboxSize < 1 || c.Generation.InboxSize > 64 {
		add("generation.inbox_size", "must be between 1 and 64, got %d", c.Generation.InboxSize)
	}
	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		add("generation.temperature", "must be between 0.0 and 2.0, got %g", c.Generation.Temperature)
	}
	if c.Generation.NumCtx < 0 {
		add("generation.num_ctx", "must not be negative")
	}

	if c.Catalog.Timeout.Duration < 0 {
		add("catalog.timeout", "must not be negative")
	}
	switch c.Catalog.OnError {
	case "empty", "show":
	default:
		add("catalog.on_error", "invalid value '%s', must be one of: empty, show", c.Catalog.OnError)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		add("log.level", "invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

