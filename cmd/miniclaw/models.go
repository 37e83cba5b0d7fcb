package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattdef/miniclaw/internal/config"
	"github.com/mattdef/miniclaw/internal/providers"
)

// knownModels lists a curated set of models per provider family. Neither
// the Claude nor the OpenAI-compatible SDK wired into this project exposes
// a verified model-listing call, so this command reports the configured
// default plus a short, hand-maintained catalog rather than querying a
// live endpoint.
var knownModels = map[string][]string{
	"claude": {
		"claude-sonnet-4-5-20250929",
		"claude-opus-4-1-20250805",
		"claude-haiku-4-5-20251001",
	},
	"openrouter": {
		"(any model id your OpenRouter account has access to)",
	},
	"ollama": {
		"(any model id pulled into your local Ollama instance)",
	},
}

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List known models for the configured provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configRoot)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			providerType := providerName(cfg)
			out := cmd.OutOrStdout()

			provider, err := providers.FromConfig(&cfg)
			if err != nil {
				fmt.Fprintf(out, "provider: %s (not fully configured: %v)\n", providerType, err)
			} else {
				fmt.Fprintf(out, "provider: %s\n", providerType)
				fmt.Fprintf(out, "default model: %s\n", provider.GetDefaultModel())
			}

			fmt.Fprintln(out, "known models:")
			for _, m := range knownModels[providerType] {
				fmt.Fprintf(out, "  %s\n", m)
			}
			return nil
		},
	}
}
