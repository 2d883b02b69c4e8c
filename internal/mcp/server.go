package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/ppiankov/alertflow/internal/config"
	"github.com/ppiankov/alertflow/internal/feed"
	"github.com/ppiankov/alertflow/internal/lifecycle"
	"github.com/ppiankov/alertflow/internal/model"
)

// Config holds MCP server configuration.
type Config struct {
	Controller *lifecycle.Controller
	Feed       feed.Source // optional; enables alert_inbox and alert_sla
	Actor      model.Actor
	Settings   *config.Config
	Version    string
	Logger     zerolog.Logger
}

// Server exposes the alert lifecycle controller as MCP tools.
type Server struct {
	mcpServer *mcpsdk.Server
	ctrl      *lifecycle.Controller
	feed      feed.Source
	actor     model.Actor
	settings  *config.Config
	log       zerolog.Logger
}

// New creates an MCP server with all alert tools registered.
func New(cfg Config) (*Server, error) {
	if cfg.Controller == nil {
		return nil, fmt.Errorf("controller is required")
	}
	if cfg.Actor.IsZero() {
		return nil, fmt.Errorf("actor is required: set a current user with 'alertflow login'")
	}
	settings := cfg.Settings
	if settings == nil {
		settings = config.Default()
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	s := &Server{
		ctrl:     cfg.Controller,
		feed:     cfg.Feed,
		actor:    cfg.Actor,
		settings: settings,
		log:      cfg.Logger.With().Str("component", "mcp").Logger(),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "alertflow",
			Version: version,
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport. Blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info().Str("actor", s.actor.ID).Msg("serving alert tools on stdio")
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// registerTools adds all alert tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "alert_acknowledge",
		Description: "Acknowledge an alert. Fails if the alert is resolved.",
	}, s.handleAcknowledge)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "alert_snooze",
		Description: "Snooze an alert for a whole number of days. The snooze lapses back to open automatically.",
	}, s.handleSnooze)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "alert_resolve",
		Description: "Resolve an alert with an outcome: success, partial, failed or not_applicable.",
	}, s.handleResolve)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "alert_assign",
		Description: "Assign an alert to a team member. Does not change status.",
	}, s.handleAssign)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "alert_reopen",
		Description: "Reopen an alert, clearing acknowledgement, snooze and resolution.",
	}, s.handleReopen)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "alert_playbook_start",
		Description: "Start a remediation playbook on an alert and move it to in_progress.",
	}, s.handlePlaybookStart)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "alert_playbook_progress",
		Description: "Set playbook progress (0-100). Not recorded in the action log.",
	}, s.handlePlaybookProgress)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "alert_playbook_task",
		Description: "Toggle one playbook task between done and not done.",
	}, s.handlePlaybookTask)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "alert_playbook_complete",
		Description: "Mark the running playbook complete. Repeated calls are no-ops.",
	}, s.handlePlaybookComplete)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "alert_note_add",
		Description: "Add a note to an alert.",
	}, s.handleNoteAdd)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "alert_state",
		Description: "Show the local workflow state of an alert.",
	}, s.handleState)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "alert_notes",
		Description: "List notes on an alert, newest first.",
	}, s.handleNotes)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "alert_history",
		Description: "List the action log of an alert, newest first.",
	}, s.handleHistory)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "alert_playbook_recommend",
		Description: "Recommend a playbook for an alert type.",
	}, s.handleRecommend)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "alert_registries",
		Description: "List team members, snooze durations, outcome options and playbooks.",
	}, s.handleRegistries)

	if s.feed != nil {
		mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
			Name:        "alert_inbox",
			Description: "List feed alerts enriched with workflow state and SLA, most urgent first.",
		}, s.handleInbox)

		mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
			Name:        "alert_sla",
			Description: "Evaluate the SLA of a feed alert: status, time remaining and percent of window left.",
		}, s.handleSLA)
	}
}
