package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/alertflow/internal/model"
)

func init() {
	rootCmd.AddCommand(noteCmd)
	noteCmd.AddCommand(noteAddCmd)
	noteCmd.AddCommand(noteListCmd)
	rootCmd.AddCommand(logCmd)
}

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Alert notes",
}

var noteAddCmd = &cobra.Command{
	Use:   "add <alert-id> <text>...",
	Short: "Add a note to an alert",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, func(e *env, actor model.Actor) error {
			n, err := e.ctrl.AddNote(actor, args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "note %s added to %s\n", n.ID, n.AlertID)
			return nil
		})
	},
}

var noteListCmd = &cobra.Command{
	Use:   "list <alert-id>",
	Short: "List notes on an alert, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			w := cmd.OutOrStdout()
			for _, n := range e.ctrl.Notes(args[0]) {
				fmt.Fprintf(w, "%s  %s\n    %s\n", n.CreatedAt.Local().Format("2006-01-02 15:04"), n.CreatedBy, n.Content)
			}
			return nil
		})
	},
}

var logCmd = &cobra.Command{
	Use:   "log <alert-id>",
	Short: "Show the action history of an alert, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			w := cmd.OutOrStdout()
			for _, entry := range e.ctrl.ActionLog(args[0]) {
				fmt.Fprintln(w, formatEntry(entry))
			}
			return nil
		})
	},
}

func formatEntry(entry model.ActionLogEntry) string {
	line := fmt.Sprintf("%s  %-18s %-12s %s",
		entry.Timestamp.Local().Format("2006-01-02 15:04"), entry.Action, entry.AlertID, entry.ActorName)
	if len(entry.Details) == 0 {
		return line
	}
	keys := make([]string, 0, len(entry.Details))
	for k := range entry.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var parts []string
	for _, k := range keys {
		v, _ := json.Marshal(entry.Details[k])
		parts = append(parts, k+"="+string(v))
	}
	return line + "  " + strings.Join(parts, " ")
}
