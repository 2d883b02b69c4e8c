package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/alertflow/internal/model"
)

var (
	snoozeDays   int
	snoozeReason string

	resolveOutcome string
	resolveNotes   string
)

func init() {
	rootCmd.AddCommand(ackCmd)
	rootCmd.AddCommand(snoozeCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(assignCmd)
	rootCmd.AddCommand(reopenCmd)

	snoozeCmd.Flags().IntVarP(&snoozeDays, "days", "d", 1, "Days to snooze")
	snoozeCmd.Flags().StringVar(&snoozeReason, "reason", "", "Why the alert is snoozed")

	resolveCmd.Flags().StringVar(&resolveOutcome, "outcome", "", "Outcome: success, partial, failed, not_applicable")
	resolveCmd.Flags().StringVar(&resolveNotes, "notes", "", "Resolution notes")
	_ = resolveCmd.MarkFlagRequired("outcome")
}

var ackCmd = &cobra.Command{
	Use:   "ack <alert-id>",
	Short: "Acknowledge an alert",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, func(e *env, actor model.Actor) error {
			st, err := e.ctrl.Acknowledge(actor, args[0])
			if err != nil {
				return err
			}
			printState(cmd.OutOrStdout(), st)
			return nil
		})
	},
}

var snoozeCmd = &cobra.Command{
	Use:   "snooze <alert-id>",
	Short: "Snooze an alert for a number of days",
	Long:  "Hides the alert until now + days. Once that time passes the alert reads as open again.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, func(e *env, actor model.Actor) error {
			st, err := e.ctrl.Snooze(actor, args[0], snoozeDays, snoozeReason)
			if err != nil {
				return err
			}
			printState(cmd.OutOrStdout(), st)
			return nil
		})
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <alert-id>",
	Short: "Resolve an alert with an outcome",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, func(e *env, actor model.Actor) error {
			st, err := e.ctrl.Resolve(actor, args[0], model.OutcomeResult(resolveOutcome), resolveNotes)
			if err != nil {
				return err
			}
			printState(cmd.OutOrStdout(), st)
			return nil
		})
	},
}

var assignCmd = &cobra.Command{
	Use:   "assign <alert-id> <member-id>",
	Short: "Assign an alert to a team member",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, func(e *env, actor model.Actor) error {
			member, ok := e.cfg.Member(args[1])
			if !ok {
				return fmt.Errorf("unknown team member %q", args[1])
			}
			st, err := e.ctrl.Assign(actor, args[0], member.ID, member.Name)
			if err != nil {
				return err
			}
			printState(cmd.OutOrStdout(), st)
			return nil
		})
	},
}

var reopenCmd = &cobra.Command{
	Use:   "reopen <alert-id>",
	Short: "Reopen an alert",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, func(e *env, actor model.Actor) error {
			st, err := e.ctrl.Reopen(actor, args[0])
			if err != nil {
				return err
			}
			printState(cmd.OutOrStdout(), st)
			return nil
		})
	},
}

// printState writes a one-line summary of st.
func printState(w io.Writer, st model.AlertState) {
	parts := []string{st.AlertID, string(st.Status)}
	if st.Snooze != nil {
		parts = append(parts, "until "+st.Snooze.Until.Local().Format("2006-01-02 15:04"))
	}
	if st.Resolution != nil {
		parts = append(parts, "outcome "+string(st.Resolution.Outcome.Result))
	}
	if st.Assignment != nil {
		parts = append(parts, "assigned "+st.Assignment.ToName)
	}
	if st.Playbook != nil {
		parts = append(parts, "playbook "+st.Playbook.ID+" "+strconv.Itoa(st.Playbook.Progress)+"%")
	}
	fmt.Fprintln(w, strings.Join(parts, "  "))
}
