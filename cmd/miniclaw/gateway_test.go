package main

import (
	"testing"

	"github.com/mattdef/miniclaw/internal/bus"
	"github.com/mattdef/miniclaw/internal/config"
	"github.com/mattdef/miniclaw/internal/memory"
	"github.com/mattdef/miniclaw/internal/tools"
)

func TestProviderNameDefaultsToClaude(t *testing.T) {
	if got := providerName(config.Config{}); got != "claude" {
		t.Fatalf("expected claude default, got %q", got)
	}
	if got := providerName(config.Config{ProviderType: "ollama"}); got != "ollama" {
		t.Fatalf("expected ollama, got %q", got)
	}
}

func TestResolveEmbeddingFuncNilWithoutOpenRouterKey(t *testing.T) {
	if fn := resolveEmbeddingFunc(config.Config{}); fn != nil {
		t.Fatal("expected a nil embedding func with no provider config")
	}
}

func TestResolveEmbeddingFuncBuildsFromOpenRouterKey(t *testing.T) {
	cfg := config.Config{
		ProviderConfig: &config.ProviderConfig{
			OpenRouter: &config.OpenRouterProviderConfig{APIKey: "sk-or-test"},
		},
	}
	if fn := resolveEmbeddingFunc(cfg); fn == nil {
		t.Fatal("expected a non-nil embedding func when an OpenRouter key is configured")
	}
}

func TestRegisterSemanticMemoryToolSkippedWhenDisabled(t *testing.T) {
	registry := tools.NewRegistry()
	registerSemanticMemoryTool(registry, t.TempDir(), config.Config{})

	if _, ok := registry.Get("search_memory"); ok {
		t.Fatal("expected search_memory to be absent when semantic search is disabled")
	}
}

func TestRegisterBuiltinToolsRegistersMessageTool(t *testing.T) {
	registry := tools.NewRegistry()
	workspace := t.TempDir()
	mem := memory.NewStore(workspace)
	hub := bus.New()

	if err := registerBuiltinTools(registry, workspace, mem, hub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := registry.Get("message"); !ok {
		t.Fatal("expected the message tool to be registered")
	}
}
