// Command miniclaw is the single executable for the daemon: it onboards a
// workspace, runs the long-lived gateway, or answers a one-shot agent
// query, per the CLI surface in the project's external-interfaces spec.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mattdef/miniclaw/internal/logger"
)

// version is the semantic version printed by `miniclaw version` and
// `--version`.
const version = "0.1.0"

// usageError marks a cobra error that should exit 2 (bad arguments/flags)
// rather than 1 (runtime failure).
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

var verbose bool
var configRoot string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "miniclaw",
		Short:   "miniclaw - single-host AI agent daemon",
		Version: version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetVerbose(verbose)
		},
	}
	root.SetVersionTemplate("miniclaw {{.Version}}\n")
	root.Flags().BoolP("version", "V", false, "print version and exit")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&configRoot, "config", defaultConfigRoot(), "path to the config/workspace root")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newOnboardCmd())
	root.AddCommand(newGatewayCmd())
	root.AddCommand(newAgentCmd())
	root.AddCommand(newModelsCmd())

	return root
}

// defaultConfigRoot returns ~/.miniclaw, matching the onboarding wizard's
// default workspace location.
func defaultConfigRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".miniclaw"
	}
	return home + "/.miniclaw"
}

func main() {
	root := newRootCmd()
	err := root.Execute()
	if err == nil {
		os.Exit(0)
	}

	fmt.Fprintln(os.Stderr, "Error:", err)

	var usageErr *usageError
	if errors.As(err, &usageErr) {
		os.Exit(2)
	}
	os.Exit(1)
}
