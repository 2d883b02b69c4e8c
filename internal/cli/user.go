package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(membersCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login <member-id>",
	Short: "Set the team member recorded as the actor of your changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			m, ok := e.cfg.Member(args[0])
			if !ok {
				return fmt.Errorf("unknown team member %q (see 'alertflow members')", args[0])
			}
			if err := e.stores.Users.SetCurrent(m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s (%s)\n", m.Name, m.ID)
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current actor",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			a, err := e.actor()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", a.Name, a.ID)
			return nil
		})
	},
}

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "List team members and snooze durations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "Team members:")
			for _, m := range e.cfg.TeamMembers {
				fmt.Fprintf(w, "  %-10s %s\n", m.ID, m.Name)
			}
			fmt.Fprintln(w, "Snooze durations:")
			for _, d := range e.cfg.SnoozeDurations {
				fmt.Fprintf(w, "  %-10s %d days\n", d.Label, d.Days)
			}
			return nil
		})
	},
}
