// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for docsnav.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.docsnav/config.toml
//   - ~/.docsnav/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/jeranaias/docsnav/internal/util"
)

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// DefaultAPIHost is the docs backend used when nothing else is configured.
	DefaultAPIHost = "https://docsapi.arc53.com"

	// DefaultEmbeddingsName is the embedding model documents must match to be
	// offered in the sidebar dropdown.
	DefaultEmbeddingsName = "openai_text-embedding-ada-002"

	// DefaultMobileBreakpoint is the terminal width (columns) below which the
	// shell behaves like the web app's mobile layout.
	DefaultMobileBreakpoint = 100

	// DefaultSidebarWidth is the sidebar width in columns.
	DefaultSidebarWidth = 34
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete docsnav configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Backend API configuration
	API APIConfig `toml:"api" json:"api"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Log configuration
	Log LogConfig `toml:"log" json:"log"`

	// Metrics configuration
	Metrics MetricsConfig `toml:"metrics" json:"metrics"`
}

// APIConfig contains the docs backend configuration.
type APIConfig struct {
	// Host is the base URL of the backend, without a trailing slash.
	Host string `toml:"host" json:"host"`
	// EmbeddingsName is the embedding model identifier selectable documents must use.
	EmbeddingsName string `toml:"embeddings_name" json:"embeddings_name"`
	// TimeoutSecs bounds each request. 0 leaves the transport default in place.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// RequestsPerSecond caps outgoing requests. 0 disables the limiter.
	RequestsPerSecond float64 `toml:"requests_per_second" json:"requests_per_second"`
	// User is sent as the owner of uploaded documents.
	User string `toml:"user" json:"user"`
}

// UIConfig contains TUI configuration.
type UIConfig struct {
	// MobileBreakpoint is the width in columns under which the layout is "mobile".
	MobileBreakpoint int `toml:"mobile_breakpoint" json:"mobile_breakpoint"`
	// SidebarWidth is the sidebar width in columns.
	SidebarWidth int `toml:"sidebar_width" json:"sidebar_width"`
	// Theme is "auto", "dark" or "light".
	Theme string `toml:"theme" json:"theme"`
	// Links are the external links listed at the bottom of the sidebar.
	Links []LinkConfig `toml:"links" json:"links"`
}

// LinkConfig is one external link.
type LinkConfig struct {
	Label string `toml:"label" json:"label"`
	URL   string `toml:"url" json:"url"`
}

// LogConfig contains diagnostic log configuration.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" json:"level"`
	// Path is the log file (empty = ~/.docsnav/docsnav.log).
	Path string `toml:"path" json:"path"`
}

// MetricsConfig contains Prometheus exposition configuration.
type MetricsConfig struct {
	// Addr is the listen address for /metrics. Empty disables the endpoint.
	Addr string `toml:"addr" json:"addr"`
}

// DefaultLinks mirrors the web sidebar's link section.
func DefaultLinks() []LinkConfig {
	return []LinkConfig{
		{Label: "Documentation", URL: "https://docs.docsgpt.co.uk/"},
		{Label: "Visit our Discord", URL: "https://discord.gg/WHJdfbQDR4"},
		{Label: "Visit our Github", URL: "https://github.com/arc53/DocsGPT"},
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		API: APIConfig{
			Host:              DefaultAPIHost,
			EmbeddingsName:    DefaultEmbeddingsName,
			TimeoutSecs:       0,
			RequestsPerSecond: 10,
			User:              "local",
		},

		UI: UIConfig{
			MobileBreakpoint: DefaultMobileBreakpoint,
			SidebarWidth:     DefaultSidebarWidth,
			Theme:            "auto",
			Links:            DefaultLinks(),
		},

		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the docsnav configuration directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".docsnav"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last, exactly once.
func Load() (*Config, error) {
	var loadErr error

	if tomlPath, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			cfg, err := LoadFromPath(tomlPath)
			if err == nil {
				return cfg, nil
			}
			loadErr = err
		}
	}

	if jsonPath, err := ConfigPathJSON(); err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			cfg, err := LoadFromPath(jsonPath)
			if err == nil {
				return cfg, nil
			}
			loadErr = err
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Defaults are usable even when a file failed to parse.
	return cfg, loadErr
}

// LoadFromPath loads a TOML or JSON file on top of the defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read JSON config %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode JSON config %s: %w", path, err)
		}
	} else {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode TOML config %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML path.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration as TOML.
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func SaveTOML(cfg *Config, path string) error {
	var sb strings.Builder
	sb.WriteString("# docsnav configuration file\n")
	sb.WriteString("# Generated by docsnav - edit with care\n\n")

	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, []byte(sb.String()), 0600); err != nil {
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

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	u, err := url.Parse(c.API.Host)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "api.host",
			Message: fmt.Sprintf("invalid URL '%s', must be an absolute http(s) URL", c.API.Host),
		})
	}

	if strings.TrimSpace(c.API.EmbeddingsName) == "" {
		errs = append(errs, ValidationError{Field: "api.embeddings_name", Message: "must not be empty"})
	}

	if c.API.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{Field: "api.timeout_secs", Message: "must not be negative"})
	}

	if c.API.RequestsPerSecond < 0 {
		errs = append(errs, ValidationError{Field: "api.requests_per_second", Message: "must not be negative"})
	}

	if c.UI.MobileBreakpoint <= 0 {
		errs = append(errs, ValidationError{Field: "ui.mobile_breakpoint", Message: "must be positive"})
	}

	if c.UI.SidebarWidth < 20 {
		errs = append(errs, ValidationError{Field: "ui.sidebar_width", Message: "must be at least 20 columns"})
	}

	validThemes := map[string]bool{"auto": true, "dark": true, "light": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}

	for i, l := range c.UI.Links {
		if l.Label == "" || l.URL == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("ui.links[%d]", i),
				Message: "label and url are required",
			})
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills zero values left behind by partial config files.
func (c *Config) SetDefaults() {
	c.API.Host = strings.TrimSuffix(strings.TrimSpace(c.API.Host), "/")
	if c.API.Host == "" {
		c.API.Host = DefaultAPIHost
	}
	if c.API.EmbeddingsName == "" {
		c.API.EmbeddingsName = DefaultEmbeddingsName
	}
	if c.API.User == "" {
		c.API.User = "local"
	}
	if c.UI.MobileBreakpoint == 0 {
		c.UI.MobileBreakpoint = DefaultMobileBreakpoint
	}
	if c.UI.SidebarWidth == 0 {
		c.UI.SidebarWidth = DefaultSidebarWidth
	}
	if c.UI.Theme == "" {
		c.UI.Theme = "auto"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// ApplyEnvOverrides applies environment variable overrides.
// The VITE_* names are accepted so a web deployment's .env can be reused.
func (c *Config) ApplyEnvOverrides() {
	// DOCSNAV_API_HOST / VITE_API_HOST
	if host := firstEnv("DOCSNAV_API_HOST", "VITE_API_HOST"); host != "" {
		c.API.Host = host
	}

	// DOCSNAV_EMBEDDINGS_NAME / VITE_EMBEDDINGS_NAME
	if name := firstEnv("DOCSNAV_EMBEDDINGS_NAME", "VITE_EMBEDDINGS_NAME"); name != "" {
		c.API.EmbeddingsName = name
	}

	// DOCSNAV_LOG_LEVEL
	if level := os.Getenv("DOCSNAV_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}

	// DOCSNAV_METRICS_ADDR
	if addr := os.Getenv("DOCSNAV_METRICS_ADDR"); addr != "" {
		c.Metrics.Addr = addr
	}
}

func firstEnv(names ...string) string {
	for _, n := range names {
		if v := strings.TrimSpace(os.Getenv(n)); v != "" {
			return v
		}
	}
	return ""
}

// =============================================================================
// GET HELPER (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "api.host").
func (c *Config) Get(key string) (interface{}, error) {
	if strings.TrimSpace(key) == "" {
		return nil, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return nil, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			return field.Interface(), nil
		}

		if field.Kind() != reflect.Struct {
			return nil, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}

	return nil, fmt.Errorf("invalid key: %s", key)
}

// GetString is Get formatted for display.
func (c *Config) GetString(key string) (string, error) {
	v, err := c.Get(key)
	if err != nil {
		return "", err
	}
	switch val := v.(type) {
	case string:
		return val, nil
	case int:
		return strconv.Itoa(val), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	default:
		return fmt.Sprintf("%v", val), nil
	}
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}
