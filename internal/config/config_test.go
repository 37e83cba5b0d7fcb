package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsSecureByDefault(t *testing.T) {
	cfg := Default()
	if len(cfg.AllowFrom) != 0 {
		t.Fatal("expected empty allow_from by default")
	}
	if cfg.DefaultChannel != "telegram" {
		t.Fatalf("expected telegram default channel, got %q", cfg.DefaultChannel)
	}
}

func TestValidateAcceptsWildcardAndPositiveIDs(t *testing.T) {
	cfg := Config{AllowFrom: []int64{123456789, AllowAllWildcard}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateRejectsNonPositiveNonWildcard(t *testing.T) {
	cfg := Config{AllowFrom: []int64{0}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for 0")
	}

	cfg2 := Config{AllowFrom: []int64{-42}}
	if err := cfg2.Validate(); err == nil {
		t.Fatal("expected validation error for negative non-wildcard id")
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("expected no error for missing config, got %v", err)
	}
	if cfg.DefaultChannel != "telegram" {
		t.Fatalf("expected default channel, got %q", cfg.DefaultChannel)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.TelegramToken = "123:abc"
	cfg.AllowFrom = []int64{555}

	if err := Save(dir, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.TelegramToken != "123:abc" {
		t.Fatalf("expected telegram token to round trip, got %q", loaded.TelegramToken)
	}
	if len(loaded.AllowFrom) != 1 || loaded.AllowFrom[0] != 555 {
		t.Fatalf("expected allow_from to round trip, got %v", loaded.AllowFrom)
	}

	if _, err := filepath.Abs(dir); err != nil {
		t.Fatalf("unexpected path error: %v", err)
	}
}

func TestSafeSummaryNeverExposesSecrets(t *testing.T) {
	cfg := Config{
		APIKey:        "sk-super-secret",
		TelegramToken: "123:secret-token",
		AllowFrom:     []int64{1, 2},
		ProviderConfig: &ProviderConfig{
			Claude: &ClaudeProviderConfig{APIKey: "sk-also-secret", DefaultModel: "claude-sonnet-4-5"},
		},
	}

	summary := cfg.SafeSummary()
	if !summary.APIKeyConfigured || !summary.TelegramConfigured {
		t.Fatal("expected both configured flags true")
	}
	if summary.AllowFromCount != 2 {
		t.Fatalf("expected count 2, got %d", summary.AllowFromCount)
	}
	if summary.Model != "claude-sonnet-4-5" {
		t.Fatalf("expected model passthrough, got %q", summary.Model)
	}
}

func TestDeprecatedModelFieldParsesButIsIgnored(t *testing.T) {
	dir := t.TempDir()
	if err := writeRawConfig(dir, `{"api_key":"k","model":"custom-model","allow_from":[1]}`); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Model != "custom-model" {
		t.Fatalf("expected deprecated model field to parse, got %q", cfg.Model)
	}
}

func writeRawConfig(dir, content string) error {
	return os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0o600)
}
