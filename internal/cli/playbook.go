package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ppiankov/alertflow/internal/feed"
	"github.com/ppiankov/alertflow/internal/model"
)

func init() {
	rootCmd.AddCommand(playbookCmd)
	playbookCmd.AddCommand(playbookListCmd)
	playbookCmd.AddCommand(playbookShowCmd)
	playbookCmd.AddCommand(playbookStartCmd)
	playbookCmd.AddCommand(playbookProgressCmd)
	playbookCmd.AddCommand(playbookTaskCmd)
	playbookCmd.AddCommand(playbookCompleteCmd)
}

var playbookCmd = &cobra.Command{
	Use:   "playbook",
	Short: "Remediation playbooks",
}

var playbookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available playbooks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			w := cmd.OutOrStdout()
			for _, d := range e.ctrl.Catalog().List() {
				fmt.Fprintf(w, "%-26s %-32s %2d tasks  ~%dd\n", d.ID, d.Name, len(d.Tasks), d.EstimatedDays)
			}
			return nil
		})
	},
}

var playbookShowCmd = &cobra.Command{
	Use:   "show <playbook-id>",
	Short: "Show a playbook definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			d := e.ctrl.Catalog().Get(args[0])
			if d == nil {
				return fmt.Errorf("unknown playbook %q", args[0])
			}
			out, _ := json.MarshalIndent(d, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		})
	},
}

var playbookStartCmd = &cobra.Command{
	Use:   "start <alert-id> [playbook-id]",
	Short: "Start a playbook on an alert",
	Long:  "Starts the named playbook. Without a playbook id, the one recommended for the\nalert's type is used, which requires an alert feed.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, func(e *env, actor model.Actor) error {
			playbookID := ""
			if len(args) == 2 {
				playbookID = args[1]
			} else {
				src, err := e.feed()
				if err != nil {
					return err
				}
				alert, err := feed.Find(context.Background(), src, args[0])
				if err != nil {
					return err
				}
				rec := e.ctrl.Recommended(alert.Type)
				if rec == nil {
					return fmt.Errorf("no playbook recommended for alert type %q", alert.Type)
				}
				playbookID = rec.ID
			}
			st, err := e.ctrl.StartPlaybook(actor, args[0], playbookID)
			if err != nil {
				return err
			}
			printState(cmd.OutOrStdout(), st)
			return nil
		})
	},
}

var playbookProgressCmd = &cobra.Command{
	Use:   "progress <alert-id> <percent>",
	Short: "Set playbook progress (0-100)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		progress, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid progress %q: %w", args[1], err)
		}
		return mutate(cmd, func(e *env, actor model.Actor) error {
			st, err := e.ctrl.UpdatePlaybookProgress(actor, args[0], progress)
			if err != nil {
				return err
			}
			printState(cmd.OutOrStdout(), st)
			return nil
		})
	},
}

var playbookTaskCmd = &cobra.Command{
	Use:   "task <alert-id> <task-number>",
	Short: "Toggle a playbook task (numbered from 1)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid task number %q: %w", args[1], err)
		}
		return mutate(cmd, func(e *env, actor model.Actor) error {
			st, err := e.ctrl.ToggleTask(actor, args[0], n-1)
			if err != nil {
				return err
			}
			printState(cmd.OutOrStdout(), st)
			return nil
		})
	},
}

var playbookCompleteCmd = &cobra.Command{
	Use:   "complete <alert-id>",
	Short: "Mark the running playbook complete",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, func(e *env, actor model.Actor) error {
			st, err := e.ctrl.CompletePlaybook(actor, args[0])
			if err != nil {
				return err
			}
			printState(cmd.OutOrStdout(), st)
			return nil
		})
	},
}
