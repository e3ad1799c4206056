// Package config loads warroom configuration from .warroom/config.json (or a
// YAML equivalent) with environment-variable overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds all warroom configuration.
type Config struct {
	// Core settings
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`

	// LLM configuration
	LLM LLMConfig `json:"llm" yaml:"llm"`

	// Local store configuration
	Storage StorageConfig `json:"storage" yaml:"storage"`

	// Logging
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// LLMConfig configures the inference gateway.
type LLMConfig struct {
	Provider string `json:"provider" yaml:"provider" env:"WARROOM_LLM_PROVIDER"` // gemini
	APIKey   string `json:"api_key" yaml:"api_key" env:"WARROOM_API_KEY"`
	Model    string `json:"model" yaml:"model" env:"WARROOM_MODEL"`
	BaseURL  string `json:"base_url" yaml:"base_url" env:"WARROOM_BASE_URL"`
	Timeout  string `json:"timeout" yaml:"timeout" env:"WARROOM_LLM_TIMEOUT"`

	// ImageModel is used by the creative image panel.
	ImageModel string `json:"image_model" yaml:"image_model" env:"WARROOM_IMAGE_MODEL"`
}

// StorageConfig configures the persistence bridge.
type StorageConfig struct {
	DatabasePath string `json:"database_path" yaml:"database_path" env:"WARROOM_DB_PATH"`
}

// LoggingConfig configures the category file logger.
type LoggingConfig struct {
	DebugMode  bool            `json:"debug_mode" yaml:"debug_mode" env:"WARROOM_DEBUG"`
	Categories map[string]bool `json:"categories" yaml:"categories"`
	Level      string          `json:"level" yaml:"level" env:"WARROOM_LOG_LEVEL"`
}

// Default returns the baseline configuration.
func Default(workspace string) *Config {
	return &Config{
		Name:    "warroom",
		Version: "1",
		LLM: LLMConfig{
			Provider:   "gemini",
			Model:      "gemini-2.5-flash",
			BaseURL:    "https://generativelanguage.googleapis.com/v1beta",
			Timeout:    "120s",
			ImageModel: "imagen-3.0-generate-002",
		},
		Storage: StorageConfig{
			DatabasePath: filepath.Join(workspace, ".warroom", "warroom.db"),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the default config file location for a workspace.
func DefaultPath(workspace string) string {
	return filepath.Join(workspace, ".warroom", "config.json")
}

// Load reads config from path, applies env overrides, and fills defaults.
// A missing file is not an error: defaults plus env are returned.
func Load(workspace, path string) (*Config, error) {
	cfg := Default(workspace)

	if path == "" {
		path = DefaultPath(workspace)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if isYAML(path) {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		} else {
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	case os.IsNotExist(err):
		// fall through to env + defaults
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// Environment wins over file values.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// Conventional Gemini env var as a last resort.
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	return cfg, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LLMTimeout parses the configured timeout, falling back to two minutes.
func (c *Config) LLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil || d <= 0 {
		return 2 * time.Minute
	}
	return d
}

// placeholder spellings that must never be sent to the inference service.
var placeholderKeys = map[string]bool{
	"":               true,
	"your_api_key":   true,
	"your-api-key":   true,
	"changeme":       true,
	"replace_me":     true,
	"api_key_here":   true,
	"paste_key_here": true,
}

// HasCredential reports whether a real API key is configured. Placeholder
// values count as absent so dependent operations short-circuit with a
// configuration error instead of attempting a call.
func (c *Config) HasCredential() bool {
	key := strings.ToLower(strings.TrimSpace(c.LLM.APIKey))
	return !placeholderKeys[key]
}
