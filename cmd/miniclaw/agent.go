package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mattdef/miniclaw/internal/chattypes"
	"github.com/mattdef/miniclaw/internal/config"
)

// oneShotTimeout bounds a single `miniclaw agent -m` query, matching the
// agent loop's turn soft deadline with headroom for provider retries.
const oneShotTimeout = 90 * time.Second

func newAgentCmd() *cobra.Command {
	var message string
	var model string

	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Run a single one-shot agent query",
		RunE: func(cmd *cobra.Command, args []string) error {
			if message == "" {
				return &usageError{fmt.Errorf("-m/--message is required")}
			}

			cfg, err := config.Load(configRoot)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return &usageError{err}
			}

			hub, loop, _, err := buildDaemon(cfg, configRoot, model)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), oneShotTimeout)
			defer cancel()

			go hub.Run(ctx)

			const oneShotChannel = "oneshot"
			const oneShotChatID = "cli"

			inbound := chattypes.NewInboundMessage(oneShotChannel, oneShotChatID, message)
			reply, err := loop.ProcessMessage(ctx, inbound)
			if err != nil {
				return fmt.Errorf("processing message: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "message to send to the agent")
	cmd.Flags().StringVar(&model, "model", "", "override the provider's default model")
	return cmd
}
