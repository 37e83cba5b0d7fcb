package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mattdef/miniclaw/internal/channels"
	"github.com/mattdef/miniclaw/internal/config"
	"github.com/mattdef/miniclaw/internal/skills"
)

// bootstrapTemplates seeds each agent-prompt file with a short starter
// paragraph the user is expected to edit. Order matches context.go's
// bootstrapFiles so the onboarding output and the system prompt agree on
// what exists.
var bootstrapTemplates = map[string]string{
	"SOUL.md": "# Soul\n\nDescribe the agent's personality and values here.\n",
	"AGENTS.md": "# Agent Instructions\n\nAdd standing instructions the agent should always follow.\n",
	"USER.md": "# About the User\n\nAdd anything the agent should know about you here.\n",
	"TOOLS.md": "# Tool Notes\n\nAdd tool-specific usage notes or restrictions here.\n",
	"HEARTBEAT.md": "# Heartbeat\n\nAdd anything the agent should check on a recurring schedule here.\n",
}

func newOnboardCmd() *cobra.Command {
	var yes bool
	var customPath string

	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Create the workspace and configuration, interactively or with defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			basePath, err := resolveOnboardPath(customPath)
			if err != nil {
				return &usageError{err}
			}

			reader := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			if _, statErr := os.Stat(basePath); statErr == nil {
				fmt.Fprintf(out, "Workspace already exists at %s\n", basePath)
				if !yes {
					if !confirm(reader, out, "Do you want to reconfigure? (y/N)", false) {
						fmt.Fprintln(out, "Preserving existing workspace configuration.")
						return nil
					}
				} else {
					return nil
				}
			}

			if err := createWorkspaceStructure(basePath); err != nil {
				return fmt.Errorf("creating workspace: %w", err)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Workspace initialized successfully")

			cfg := config.Default()
			if !yes {
				cfg = collectOnboardConfig(reader, out, cfg)
			}

			if err := config.Save(basePath, cfg); err != nil {
				return fmt.Errorf("saving configuration: %w", err)
			}

			displayOnboardSummary(out, cfg)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip interactive prompts and accept defaults")
	cmd.Flags().StringVarP(&customPath, "path", "p", "", "absolute path for the workspace (default: ~/.miniclaw)")
	return cmd
}

func resolveOnboardPath(customPath string) (string, error) {
	if customPath == "" {
		return defaultConfigRoot(), nil
	}
	if !filepath.IsAbs(customPath) {
		return "", fmt.Errorf("invalid path %q: must be an absolute path", customPath)
	}
	return customPath, nil
}

func createWorkspaceStructure(basePath string) error {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return err
	}
	for name, content := range bootstrapTemplates {
		path := filepath.Join(basePath, name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return skills.Initialize(basePath)
}

func collectOnboardConfig(reader *bufio.Reader, out io.Writer, cfg config.Config) config.Config {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Let's configure miniclaw!")

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Provider API key")
	fmt.Fprintln(out, "This is used by the default (claude) provider, or as a fallback. Leave blank to skip.")
	if apiKey := promptLine(reader, out, "Enter your provider API key (or press Enter to skip): "); apiKey != "" {
		cfg.APIKey = apiKey
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Telegram bot token")
	fmt.Fprintln(out, "Message @BotFather on Telegram, run /newbot, then paste the token here.")
	for {
		token := promptLine(reader, out, "Enter your Telegram bot token (or press Enter to skip): ")
		if token == "" {
			break
		}
		if !channels.ValidateTelegramToken(token) {
			fmt.Fprintln(out, "Invalid token format. Expected <digits>:<non-empty>.")
			continue
		}
		cfg.TelegramToken = token
		break
	}

	if cfg.TelegramToken != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Telegram user whitelist")
		fmt.Fprintln(out, "Message @userinfobot to find your numeric user id. Comma-separate multiple ids.")
		if ids := promptLine(reader, out, "Enter allowed Telegram user id(s) (or press Enter to skip): "); ids != "" {
			cfg.AllowFrom = parseUserIDs(ids)
		}
	}

	if !confirm(reader, out, "Save this configuration?", true) {
		fmt.Fprintln(out, "Configuration cancelled. No changes were made.")
		return config.Default()
	}
	return cfg
}

func parseUserIDs(raw string) []int64 {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func displayOnboardSummary(out io.Writer, cfg config.Config) {
	summary := cfg.SafeSummary()
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Configuration Complete!")
	fmt.Fprintf(out, "API key configured: %v\n", summary.APIKeyConfigured)
	fmt.Fprintf(out, "Telegram configured: %v\n", summary.TelegramConfigured)
	fmt.Fprintf(out, "Allowed users: %d\n", summary.AllowFromCount)
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  Run 'miniclaw gateway' to start the daemon")
	fmt.Fprintln(out, "  Or run 'miniclaw agent -m \"your message\"' for a single query")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Run 'miniclaw onboard' again at any time to reconfigure.")
}

func promptLine(reader *bufio.Reader, out io.Writer, prompt string) string {
	fmt.Fprint(out, prompt)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func confirm(reader *bufio.Reader, out io.Writer, prompt string, defaultYes bool) bool {
	answer := strings.ToLower(promptLine(reader, out, prompt+" "))
	if answer == "" {
		return defaultYes
	}
	return answer == "y" || answer == "yes"
}
