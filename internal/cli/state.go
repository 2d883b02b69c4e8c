package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/alertflow/internal/feed"
	"github.com/ppiankov/alertflow/internal/lifecycle"
	"github.com/ppiankov/alertflow/internal/model"
	"github.com/ppiankov/alertflow/internal/sla"
)

var inboxAll bool

func init() {
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(inboxCmd)
	rootCmd.AddCommand(slaCmd)
	inboxCmd.Flags().BoolVar(&inboxAll, "all", false, "Include snoozed and resolved alerts")
}

var stateCmd = &cobra.Command{
	Use:   "state <alert-id>",
	Short: "Print the workflow state of an alert as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			st, ok := e.ctrl.State(args[0])
			if !ok {
				st = model.NewAlertState(args[0])
			}
			view := struct {
				model.AlertState
				EffectiveStatus model.Status `json:"effective_status"`
			}{st, st.EffectiveStatus(time.Now())}
			out, _ := json.MarshalIndent(view, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		})
	},
}

var inboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "List feed alerts with workflow state and SLA, most urgent first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			src, err := e.feed()
			if err != nil {
				return err
			}
			return renderInbox(cmdContext(cmd), cmd.OutOrStdout(), e.ctrl, src, inboxAll)
		})
	},
}

var slaCmd = &cobra.Command{
	Use:   "sla <alert-id>",
	Short: "Show SLA status for a feed alert",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			src, err := e.feed()
			if err != nil {
				return err
			}
			alert, err := feed.Find(cmdContext(cmd), src, args[0])
			if err != nil {
				return err
			}
			info := sla.Now(alert.SLADeadline, alert.CreatedAt)
			out, _ := json.MarshalIndent(info, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		})
	},
}

func renderInbox(ctx context.Context, w io.Writer, ctrl *lifecycle.Controller, src feed.Source, all bool) error {
	alerts, err := src.Alerts(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%-12s %-9s %-13s %-9s %-12s %-18s %s\n",
		"ALERT", "SEVERITY", "STATUS", "SLA", "REMAINING", "ASSIGNEE", "TITLE")
	for _, item := range ctrl.Inbox(alerts, time.Now()) {
		if !all && (item.EffectiveStatus == model.StatusSnoozed || item.EffectiveStatus == model.StatusResolved) {
			continue
		}
		assignee := "-"
		if item.State.Assignment != nil {
			assignee = item.State.Assignment.ToName
		}
		id := item.Alert.ID
		if item.SLA.Overdue() {
			id = "!" + id
		}
		fmt.Fprintf(w, "%-12s %-9s %-13s %-9s %-12s %-18s %s\n",
			id, item.Alert.Severity, item.EffectiveStatus,
			item.SLA.Status, item.SLA.Text, assignee, item.Alert.Title)
	}
	return nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
