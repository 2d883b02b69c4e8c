package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tailLines int

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditVerifyCmd)
	auditCmd.AddCommand(auditTailCmd)
	auditTailCmd.Flags().IntVarP(&tailLines, "lines", "n", 10, "Number of recent entries to show")
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Action log operations",
	Long:  "Commands for verifying and inspecting the hash-chained action log.",
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify hash chain integrity of the action log",
	Long:  "Walks the action log and validates that every entry's prev_hash\nmatches the SHA-256 of the previous entry. Fails if any entry was altered or removed.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			result := e.stores.ActionLog.Verify()
			if !result.Valid {
				return fmt.Errorf("FAILED at entry %d: %s", result.ErrorIndex, result.Error)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK: %d entries verified\n", result.Entries)
			return nil
		})
	},
}

var auditTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Show recent action log entries across all alerts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			entries := e.stores.ActionLog.All()
			start := len(entries) - tailLines
			if start < 0 {
				start = 0
			}
			for _, entry := range entries[start:] {
				fmt.Fprintln(cmd.OutOrStdout(), formatEntry(entry))
			}
			return nil
		})
	},
}
