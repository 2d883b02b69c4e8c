package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfig   string
	flagStateDir string
	flagBackend  string
	flagFeed     string
	flagLogLevel string
	flagAs       string
)

var rootCmd = &cobra.Command{
	Use:           "alertflow",
	Short:         "Alert lifecycle and SLA tracking for customer-success teams",
	Long:          "Turns read-only account alerts into workflow items: acknowledge, snooze, resolve,\nassign, run playbooks and keep notes, with a tamper-evident action log.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to config YAML (default ~/.alertflow/config.yaml)")
	pf.StringVar(&flagStateDir, "state-dir", "", "Override the state directory")
	pf.StringVar(&flagBackend, "backend", "", "Override the storage backend (file, sqlite)")
	pf.StringVar(&flagFeed, "feed", "", "Alert feed file (JSON or YAML array)")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&flagAs, "as", "", "Act as this team member id instead of the logged-in user")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
