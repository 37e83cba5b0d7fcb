// Package config loads and validates the miniclaw daemon configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// AllowAllWildcard is the allow_from sentinel value that permits every user.
const AllowAllWildcard int64 = -1

// ClaudeProviderConfig configures the Claude provider.
type ClaudeProviderConfig struct {
	APIKey       string `json:"api_key"`
	DefaultModel string `json:"default_model"`
}

// OpenRouterProviderConfig configures the OpenRouter (OpenAI-compatible) provider.
type OpenRouterProviderConfig struct {
	APIKey         string `json:"api_key"`
	BaseURL        string `json:"base_url"`
	DefaultModel   string `json:"default_model"`
	OrganizationID string `json:"organization_id,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// OllamaProviderConfig configures a local/self-hosted Ollama provider.
type OllamaProviderConfig struct {
	BaseURL        string                 `json:"base_url"`
	DefaultModel   string                 `json:"default_model"`
	TimeoutSeconds int                    `json:"timeout_seconds"`
	Options        map[string]interface{} `json:"options,omitempty"`
}

// ProviderConfig is a tagged union keyed by Config.ProviderType ("claude",
// "openrouter", "ollama"). Exactly the field matching ProviderType is read.
type ProviderConfig struct {
	Claude     *ClaudeProviderConfig     `json:"claude,omitempty"`
	OpenRouter *OpenRouterProviderConfig `json:"openrouter,omitempty"`
	Ollama     *OllamaProviderConfig     `json:"ollama,omitempty"`
}

// DefaultModel returns the configured default model for whichever provider
// variant is populated, or "" if none is set.
func (p *ProviderConfig) DefaultModel() string {
	if p == nil {
		return ""
	}
	switch {
	case p.Claude != nil:
		return p.Claude.DefaultModel
	case p.OpenRouter != nil:
		return p.OpenRouter.DefaultModel
	case p.Ollama != nil:
		return p.Ollama.DefaultModel
	}
	return ""
}

// MemoryToolConfig configures the memory tool and its optional semantic
// search backing store.
type MemoryToolConfig struct {
	SemanticSearch bool `json:"semantic_search"`
}

// FilesystemToolConfig configures the filesystem tools' sandboxing.
type FilesystemToolConfig struct {
	Restrict bool `json:"restrict"`
}

// ToolsConfig groups per-tool settings.
type ToolsConfig struct {
	Memory     MemoryToolConfig     `json:"memory"`
	Filesystem FilesystemToolConfig `json:"filesystem"`
}

// Config is the daemon's full configuration, loaded from config.json and
// overlaid with environment variables.
type Config struct {
	APIKey         string          `json:"api_key,omitempty" env:"MINICLAW_API_KEY"`
	TelegramToken  string          `json:"telegram_token,omitempty" env:"MINICLAW_TELEGRAM_TOKEN"`
	AllowFrom      []int64         `json:"allow_from"`
	SpawnLogOutput bool            `json:"spawn_log_output"`
	DefaultChannel string          `json:"default_channel"`
	ProviderType   string          `json:"provider_type,omitempty" env:"MINICLAW_PROVIDER_TYPE"`
	ProviderConfig *ProviderConfig `json:"provider_config,omitempty"`
	HeartbeatCron  string          `json:"heartbeat_cron,omitempty"`
	Tools          ToolsConfig     `json:"tools"`

	// Model is deprecated: kept only so old config files parse without
	// error. Never written back out and never consulted.
	Model string `json:"model,omitempty"`
}

// Default returns a Config with secure-by-default values: no allowed users,
// telegram as the default channel, spawn output not logged.
func Default() Config {
	return Config{
		AllowFrom:      []int64{},
		SpawnLogOutput: false,
		DefaultChannel: "telegram",
		Tools: ToolsConfig{
			Filesystem: FilesystemToolConfig{Restrict: true},
		},
	}
}

// Load reads config.json from configRoot, then applies any matching
// MINICLAW_* environment variable overrides. A missing file is not an
// error: Load returns Default() in that case so a fresh install can still
// start (onboard is expected to write the file).
func Load(configRoot string) (Config, error) {
	cfg := Default()

	path := filepath.Join(configRoot, "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, applyEnv(&cfg)
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("applying environment overrides: %w", err)
	}
	return nil
}

// Save writes the configuration to <configRoot>/config.json, creating the
// directory if necessary.
func Save(configRoot string, cfg Config) error {
	if err := os.MkdirAll(configRoot, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	path := filepath.Join(configRoot, "config.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}

// Validate checks that every allow_from entry is either a positive user id
// or the AllowAllWildcard sentinel.
func (c *Config) Validate() error {
	for _, id := range c.AllowFrom {
		if id <= 0 && id != AllowAllWildcard {
			return fmt.Errorf("invalid user ID in allow_from: %d (must be positive, or %d to allow all)", id, AllowAllWildcard)
		}
	}
	return nil
}

// IsAPIKeyConfigured reports whether the legacy api_key field is set.
func (c *Config) IsAPIKeyConfigured() bool {
	return c.APIKey != ""
}

// IsTelegramConfigured reports whether a telegram bot token is set.
func (c *Config) IsTelegramConfigured() bool {
	return c.TelegramToken != ""
}

// SafeSummary describes the configuration for logging purposes without
// ever exposing secret values.
type SafeSummary struct {
	APIKeyConfigured    bool   `json:"api_key_configured"`
	TelegramConfigured  bool   `json:"telegram_configured"`
	AllowFromCount      int    `json:"allow_from_count"`
	SpawnLogOutput      bool   `json:"spawn_log_output"`
	ProviderType        string `json:"provider_type,omitempty"`
	ProviderConfigured  bool   `json:"provider_configured"`
	Model               string `json:"model,omitempty"`
}

// SafeSummary builds a SafeSummary for this configuration.
func (c *Config) SafeSummary() SafeSummary {
	return SafeSummary{
		APIKeyConfigured:   c.IsAPIKeyConfigured(),
		TelegramConfigured: c.IsTelegramConfigured(),
		AllowFromCount:     len(c.AllowFrom),
		SpawnLogOutput:     c.SpawnLogOutput,
		ProviderType:       c.ProviderType,
		ProviderConfigured: c.ProviderConfig != nil,
		Model:              c.ProviderConfig.DefaultModel(),
	}
}
