package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/philippgille/chromem-go"

	"github.com/mattdef/miniclaw/internal/agent"
	"github.com/mattdef/miniclaw/internal/bus"
	"github.com/mattdef/miniclaw/internal/channels"
	"github.com/mattdef/miniclaw/internal/circuitbreaker"
	"github.com/mattdef/miniclaw/internal/config"
	"github.com/mattdef/miniclaw/internal/logger"
	"github.com/mattdef/miniclaw/internal/memory"
	"github.com/mattdef/miniclaw/internal/metrics"
	"github.com/mattdef/miniclaw/internal/providers"
	"github.com/mattdef/miniclaw/internal/security"
	"github.com/mattdef/miniclaw/internal/session"
	"github.com/mattdef/miniclaw/internal/tools"
)

// defaultEmbeddingModel is used for semantic memory when no more specific
// model is configured.
const defaultEmbeddingModel = "text-embedding-3-small"

// circuitBreakerFailureThreshold and circuitBreakerCooldown tune the
// breaker guarding the configured LLM provider.
const circuitBreakerFailureThreshold = 5
const circuitBreakerCooldown = 30 * time.Second

func newGatewayCmd() *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "gateway",
		Short: "Start the long-running daemon: channels, the chat hub, and the agent loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configRoot)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return &usageError{err}
			}

			hub, loop, startChannels, err := buildDaemon(cfg, configRoot, model)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			go hub.Run(ctx)
			go func() {
				if err := loop.Run(ctx); err != nil {
					logger.ErrorCF("gateway", "agent loop exited", map[string]interface{}{"error": err.Error()})
				}
			}()

			started, err := startChannels(ctx)
			for _, ch := range started {
				defer func(c channels.Channel) { _ = c.Stop(context.Background()) }(ch)
			}
			if err != nil {
				cancel()
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "gateway running, press Ctrl+C to stop")

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			fmt.Fprintln(cmd.OutOrStdout(), "shutting down gateway")
			cancel()
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "override the provider's default model")
	return cmd
}

// buildDaemon wires every package into a running hub and agent loop, and
// returns a closure that starts the configured channel adapters once the
// hub's dispatch loop is live.
func buildDaemon(cfg config.Config, workspace, modelOverride string) (*bus.ChatHub, *agent.AgentLoop, func(ctx context.Context) ([]channels.Channel, error), error) {
	provider, err := providers.FromConfig(&cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("building provider: %w", err)
	}

	model := modelOverride
	if model == "" {
		model = cfg.ProviderConfig.DefaultModel()
	}
	if model == "" {
		model = provider.GetDefaultModel()
	}

	if err := os.MkdirAll(workspace, 0o755); err != nil {
		return nil, nil, nil, fmt.Errorf("creating workspace: %w", err)
	}

	hub := bus.New()
	sessions := session.NewManager(workspace)
	mem := memory.NewStore(workspace)
	registry := tools.NewRegistry()

	if err := registerBuiltinTools(registry, workspace, mem, hub); err != nil {
		return nil, nil, nil, fmt.Errorf("registering tools: %w", err)
	}
	registerSemanticMemoryTool(registry, workspace, cfg)

	builder := agent.NewContextBuilder(workspace, registry, mem)
	breaker := circuitbreaker.New(providerName(cfg), circuitBreakerFailureThreshold, circuitBreakerCooldown)
	metric := metrics.New()

	loop := agent.New(hub, provider, builder, registry, sessions, breaker, metric, model)

	startChannels := func(ctx context.Context) ([]channels.Channel, error) {
		var started []channels.Channel

		cli := channels.NewCLIChannel(hub)
		if err := cli.Start(ctx); err != nil {
			return started, fmt.Errorf("starting cli channel: %w", err)
		}
		started = append(started, cli)

		if cfg.IsTelegramConfigured() {
			whitelist := security.NewWhitelist(cfg.AllowFrom)
			tg, err := channels.NewTelegramChannel(cfg.TelegramToken, whitelist, hub)
			if err != nil {
				return started, fmt.Errorf("building telegram channel: %w", err)
			}
			if err := tg.Start(ctx); err != nil {
				return started, fmt.Errorf("starting telegram channel: %w", err)
			}
			started = append(started, tg)
		}

		return started, nil
	}

	return hub, loop, startChannels, nil
}

func providerName(cfg config.Config) string {
	if cfg.ProviderType != "" {
		return cfg.ProviderType
	}
	return "claude"
}

// registerSemanticMemoryTool wires search_memory when config enables
// semantic search and an embedding function can be resolved. Both a
// missing key and a construction failure degrade to no semantic memory
// rather than failing the daemon, matching the rest of the config's
// optional-feature posture.
func registerSemanticMemoryTool(registry *tools.Registry, workspace string, cfg config.Config) {
	if !cfg.Tools.Memory.SemanticSearch {
		return
	}

	embeddingFn := resolveEmbeddingFunc(cfg)
	if embeddingFn == nil {
		logger.InfoCF("gateway", "no embedding-capable provider configured, semantic memory disabled", nil)
		return
	}

	store, err := memory.NewVectorStore(workspace, embeddingFn)
	if err != nil {
		logger.WarnCF("gateway", "failed to initialize vector store, semantic memory disabled", map[string]interface{}{"error": err.Error()})
		return
	}

	if err := registry.Register(tools.NewMemorySearchTool(store)); err != nil {
		logger.WarnCF("gateway", "failed to register search_memory tool", map[string]interface{}{"error": err.Error()})
	}
}

// resolveEmbeddingFunc returns an embedding function for whichever
// OpenAI-wire-compatible provider config carries an API key, or nil if
// none is configured.
func resolveEmbeddingFunc(cfg config.Config) chromem.EmbeddingFunc {
	pc := cfg.ProviderConfig
	if pc == nil {
		return nil
	}
	if pc.OpenRouter != nil && pc.OpenRouter.APIKey != "" {
		baseURL := pc.OpenRouter.BaseURL
		if baseURL == "" {
			baseURL = "https://openrouter.ai/api/v1"
		}
		model := "openai/" + defaultEmbeddingModel
		return chromem.NewEmbeddingFuncOpenAICompat(baseURL, pc.OpenRouter.APIKey, model, nil)
	}
	return nil
}

// registerBuiltinTools registers every tool the agent loop may call. The
// message tool is wired to hub.Reply so the agent can push a reply mid-turn
// without waiting for the turn to end.
func registerBuiltinTools(registry *tools.Registry, workspace string, mem *memory.Store, hub *bus.ChatHub) error {
	validator, err := security.NewPathValidator(workspace)
	if err != nil {
		return fmt.Errorf("building path validator: %w", err)
	}

	builtins := []tools.Tool{
		tools.NewExecTool(validator),
		tools.NewReadFileTool(validator),
		tools.NewWriteFileTool(validator),
		tools.NewListDirTool(validator),
		tools.NewMemoryTool(mem),
		tools.NewRememberTool(mem.ShortTerm()),
		tools.NewRecallTool(mem.ShortTerm()),
		tools.NewCreateSkillTool(workspace),
		tools.NewListSkillsTool(workspace),
		tools.NewReadSkillTool(workspace),
		tools.NewDeleteSkillTool(workspace),
		tools.NewMessageTool(hub.Reply),
	}

	for _, t := range builtins {
		if err := registry.Register(t); err != nil {
			return err
		}
	}
	return nil
}
