package mcp

import (
	"context"
	"fmt"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ppiankov/alertflow/internal/config"
	"github.com/ppiankov/alertflow/internal/feed"
	"github.com/ppiankov/alertflow/internal/lifecycle"
	"github.com/ppiankov/alertflow/internal/model"
	"github.com/ppiankov/alertflow/internal/playbook"
	"github.com/ppiankov/alertflow/internal/sla"
)

// --- Input/Output types ---

// AlertInput identifies one alert.
type AlertInput struct {
	AlertID string `json:"alert_id" jsonschema:"alert identifier"`
}

// SnoozeInput defines parameters for alert_snooze.
type SnoozeInput struct {
	AlertID string `json:"alert_id" jsonschema:"alert identifier"`
	Days    int    `json:"days" jsonschema:"number of days to snooze, must be positive"`
	Reason  string `json:"reason,omitempty" jsonschema:"why the alert is snoozed"`
}

// ResolveInput defines parameters for alert_resolve.
type ResolveInput struct {
	AlertID string `json:"alert_id" jsonschema:"alert identifier"`
	Outcome string `json:"outcome" jsonschema:"success, partial, failed or not_applicable"`
	Notes   string `json:"notes,omitempty" jsonschema:"resolution notes"`
}

// AssignInput defines parameters for alert_assign.
type AssignInput struct {
	AlertID    string `json:"alert_id" jsonschema:"alert identifier"`
	AssigneeID string `json:"assignee_id" jsonschema:"team member id"`
}

// PlaybookStartInput defines parameters for alert_playbook_start.
type PlaybookStartInput struct {
	AlertID    string `json:"alert_id" jsonschema:"alert identifier"`
	PlaybookID string `json:"playbook_id" jsonschema:"playbook id from the catalog"`
}

// PlaybookProgressInput defines parameters for alert_playbook_progress.
type PlaybookProgressInput struct {
	AlertID  string `json:"alert_id" jsonschema:"alert identifier"`
	Progress int    `json:"progress" jsonschema:"progress percentage 0-100"`
}

// PlaybookTaskInput defines parameters for alert_playbook_task.
type PlaybookTaskInput struct {
	AlertID string `json:"alert_id" jsonschema:"alert identifier"`
	Task    int    `json:"task" jsonschema:"zero-based task index"`
}

// NoteInput defines parameters for alert_note_add.
type NoteInput struct {
	AlertID string `json:"alert_id" jsonschema:"alert identifier"`
	Content string `json:"content" jsonschema:"note text"`
}

// TypeInput defines parameters for alert_playbook_recommend.
type TypeInput struct {
	AlertType string `json:"alert_type" jsonschema:"alert type, e.g. churn_risk"`
}

// EmptyInput is used by tools without parameters.
type EmptyInput struct{}

// StateOutput is the flattened workflow state of an alert.
type StateOutput struct {
	AlertID          string `json:"alert_id"`
	Status           string `json:"status"`
	EffectiveStatus  string `json:"effective_status"`
	AcknowledgedAt   string `json:"acknowledged_at,omitempty"`
	AcknowledgedBy   string `json:"acknowledged_by,omitempty"`
	SnoozedUntil     string `json:"snoozed_until,omitempty"`
	SnoozeReason     string `json:"snooze_reason,omitempty"`
	ResolvedAt       string `json:"resolved_at,omitempty"`
	ResolvedBy       string `json:"resolved_by,omitempty"`
	Outcome          string `json:"outcome,omitempty"`
	OutcomeNotes     string `json:"outcome_notes,omitempty"`
	AssignedTo       string `json:"assigned_to,omitempty"`
	AssignedToName   string `json:"assigned_to_name,omitempty"`
	PlaybookID       string `json:"playbook_id,omitempty"`
	PlaybookStarted  string `json:"playbook_started_at,omitempty"`
	PlaybookProgress int    `json:"playbook_progress"`
	CompletedTasks   []int  `json:"completed_tasks,omitempty"`
	UpdatedAt        string `json:"updated_at,omitempty"`
}

// NoteOutput is one note.
type NoteOutput struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	CreatedBy string `json:"created_by"`
	CreatedAt string `json:"created_at"`
}

// NotesOutput lists notes of an alert.
type NotesOutput struct {
	Notes []NoteOutput `json:"notes"`
}

// HistoryEntry is one action-log entry.
type HistoryEntry struct {
	ID        string         `json:"id"`
	Action    string         `json:"action"`
	ActorID   string         `json:"actor_id"`
	ActorName string         `json:"actor_name"`
	Timestamp string         `json:"timestamp"`
	Details   map[string]any `json:"details,omitempty"`
}

// HistoryOutput lists the action log of an alert.
type HistoryOutput struct {
	Entries []HistoryEntry `json:"entries"`
}

// PlaybookOutput describes a catalog playbook.
type PlaybookOutput struct {
	Found         bool     `json:"found"`
	ID            string   `json:"id,omitempty"`
	Name          string   `json:"name,omitempty"`
	Description   string   `json:"description,omitempty"`
	EstimatedDays int      `json:"estimated_days,omitempty"`
	Tasks         []string `json:"tasks,omitempty"`
}

// RegistriesOutput lists the static registries.
type RegistriesOutput struct {
	TeamMembers     []model.Actor           `json:"team_members"`
	SnoozeDurations []config.SnoozeDuration `json:"snooze_durations"`
	OutcomeOptions  []model.OutcomeOption   `json:"outcome_options"`
	Playbooks       []PlaybookOutput        `json:"playbooks"`
}

// SLAOutput is the SLA evaluation of one feed alert.
type SLAOutput struct {
	AlertID          string   `json:"alert_id"`
	Status           string   `json:"status"`
	Text             string   `json:"text"`
	HoursRemaining   *float64 `json:"hours_remaining,omitempty"`
	PercentRemaining float64  `json:"percent_remaining"`
	Overdue          bool     `json:"overdue"`
}

// InboxItem is one enriched alert.
type InboxItem struct {
	AlertID          string  `json:"alert_id"`
	Type             string  `json:"type"`
	Severity         string  `json:"severity"`
	Category         string  `json:"category"`
	AccountID        string  `json:"account_id"`
	EffectiveStatus  string  `json:"effective_status"`
	SLAStatus        string  `json:"sla_status"`
	SLAText          string  `json:"sla_text"`
	PercentRemaining float64 `json:"percent_remaining"`
	Overdue          bool    `json:"overdue"`
	AssignedTo       string  `json:"assigned_to,omitempty"`
	Recommended      string  `json:"recommended_playbook,omitempty"`
}

// InboxOutput lists enriched alerts.
type InboxOutput struct {
	Alerts []InboxItem `json:"alerts"`
}

// --- Handlers ---

func (s *Server) handleAcknowledge(ctx context.Context, req *mcpsdk.CallToolRequest, input AlertInput) (*mcpsdk.CallToolResult, StateOutput, error) {
	st, err := s.ctrl.Acknowledge(s.actor, input.AlertID)
	return s.stateResult(st, err)
}

func (s *Server) handleSnooze(ctx context.Context, req *mcpsdk.CallToolRequest, input SnoozeInput) (*mcpsdk.CallToolResult, StateOutput, error) {
	st, err := s.ctrl.Snooze(s.actor, input.AlertID, input.Days, input.Reason)
	return s.stateResult(st, err)
}

func (s *Server) handleResolve(ctx context.Context, req *mcpsdk.CallToolRequest, input ResolveInput) (*mcpsdk.CallToolResult, StateOutput, error) {
	st, err := s.ctrl.Resolve(s.actor, input.AlertID, model.OutcomeResult(input.Outcome), input.Notes)
	return s.stateResult(st, err)
}

func (s *Server) handleAssign(ctx context.Context, req *mcpsdk.CallToolRequest, input AssignInput) (*mcpsdk.CallToolResult, StateOutput, error) {
	member, ok := s.settings.Member(input.AssigneeID)
	if !ok {
		return nil, StateOutput{}, fmt.Errorf("unknown team member %q", input.AssigneeID)
	}
	st, err := s.ctrl.Assign(s.actor, input.AlertID, member.ID, member.Name)
	return s.stateResult(st, err)
}

func (s *Server) handleReopen(ctx context.Context, req *mcpsdk.CallToolRequest, input AlertInput) (*mcpsdk.CallToolResult, StateOutput, error) {
	st, err := s.ctrl.Reopen(s.actor, input.AlertID)
	return s.stateResult(st, err)
}

func (s *Server) handlePlaybookStart(ctx context.Context, req *mcpsdk.CallToolRequest, input PlaybookStartInput) (*mcpsdk.CallToolResult, StateOutput, error) {
	st, err := s.ctrl.StartPlaybook(s.actor, input.AlertID, input.PlaybookID)
	return s.stateResult(st, err)
}

func (s *Server) handlePlaybookProgress(ctx context.Context, req *mcpsdk.CallToolRequest, input PlaybookProgressInput) (*mcpsdk.CallToolResult, StateOutput, error) {
	st, err := s.ctrl.UpdatePlaybookProgress(s.actor, input.AlertID, input.Progress)
	return s.stateResult(st, err)
}

func (s *Server) handlePlaybookTask(ctx context.Context, req *mcpsdk.CallToolRequest, input PlaybookTaskInput) (*mcpsdk.CallToolResult, StateOutput, error) {
	st, err := s.ctrl.ToggleTask(s.actor, input.AlertID, input.Task)
	return s.stateResult(st, err)
}

func (s *Server) handlePlaybookComplete(ctx context.Context, req *mcpsdk.CallToolRequest, input AlertInput) (*mcpsdk.CallToolResult, StateOutput, error) {
	st, err := s.ctrl.CompletePlaybook(s.actor, input.AlertID)
	return s.stateResult(st, err)
}

func (s *Server) handleNoteAdd(ctx context.Context, req *mcpsdk.CallToolRequest, input NoteInput) (*mcpsdk.CallToolResult, NoteOutput, error) {
	n, err := s.ctrl.AddNote(s.actor, input.AlertID, input.Content)
	if err != nil {
		return nil, NoteOutput{}, err
	}
	return nil, noteView(n), nil
}

func (s *Server) handleState(ctx context.Context, req *mcpsdk.CallToolRequest, input AlertInput) (*mcpsdk.CallToolResult, StateOutput, error) {
	st, ok := s.ctrl.State(input.AlertID)
	if !ok {
		st = model.NewAlertState(input.AlertID)
	}
	return nil, stateView(st, time.Now()), nil
}

func (s *Server) handleNotes(ctx context.Context, req *mcpsdk.CallToolRequest, input AlertInput) (*mcpsdk.CallToolResult, NotesOutput, error) {
	out := NotesOutput{Notes: []NoteOutput{}}
	for _, n := range s.ctrl.Notes(input.AlertID) {
		out.Notes = append(out.Notes, noteView(n))
	}
	return nil, out, nil
}

func (s *Server) handleHistory(ctx context.Context, req *mcpsdk.CallToolRequest, input AlertInput) (*mcpsdk.CallToolResult, HistoryOutput, error) {
	out := HistoryOutput{Entries: []HistoryEntry{}}
	for _, e := range s.ctrl.ActionLog(input.AlertID) {
		out.Entries = append(out.Entries, HistoryEntry{
			ID:        e.ID,
			Action:    string(e.Action),
			ActorID:   e.ActorID,
			ActorName: e.ActorName,
			Timestamp: e.Timestamp.UTC().Format(time.RFC3339),
			Details:   e.Details,
		})
	}
	return nil, out, nil
}

func (s *Server) handleRecommend(ctx context.Context, req *mcpsdk.CallToolRequest, input TypeInput) (*mcpsdk.CallToolResult, PlaybookOutput, error) {
	return nil, playbookView(s.ctrl.Recommended(input.AlertType)), nil
}

func (s *Server) handleRegistries(ctx context.Context, req *mcpsdk.CallToolRequest, input EmptyInput) (*mcpsdk.CallToolResult, RegistriesOutput, error) {
	out := RegistriesOutput{
		TeamMembers:     s.settings.TeamMembers,
		SnoozeDurations: s.settings.SnoozeDurations,
		OutcomeOptions:  model.OutcomeOptions,
		Playbooks:       []PlaybookOutput{},
	}
	for _, d := range s.ctrl.Catalog().List() {
		out.Playbooks = append(out.Playbooks, playbookView(d))
	}
	return nil, out, nil
}

func (s *Server) handleInbox(ctx context.Context, req *mcpsdk.CallToolRequest, input EmptyInput) (*mcpsdk.CallToolResult, InboxOutput, error) {
	alerts, err := s.feed.Alerts(ctx)
	if err != nil {
		return nil, InboxOutput{}, err
	}
	out := InboxOutput{Alerts: []InboxItem{}}
	for _, e := range s.ctrl.Inbox(alerts, time.Now()) {
		out.Alerts = append(out.Alerts, inboxView(e))
	}
	return nil, out, nil
}

func (s *Server) handleSLA(ctx context.Context, req *mcpsdk.CallToolRequest, input AlertInput) (*mcpsdk.CallToolResult, SLAOutput, error) {
	alert, err := feed.Find(ctx, s.feed, input.AlertID)
	if err != nil {
		return nil, SLAOutput{}, err
	}
	info := sla.Now(alert.SLADeadline, alert.CreatedAt)
	out := SLAOutput{
		AlertID:          alert.ID,
		Status:           string(info.Status),
		Text:             info.Text,
		PercentRemaining: info.PercentRemaining,
		Overdue:          info.Overdue(),
	}
	if info.Status != sla.StatusNone {
		hours := info.HoursRemaining
		out.HoursRemaining = &hours
	}
	return nil, out, nil
}

// --- Views ---

func (s *Server) stateResult(st model.AlertState, err error) (*mcpsdk.CallToolResult, StateOutput, error) {
	if err != nil {
		s.log.Warn().Err(err).Msg("tool call rejected")
		return nil, StateOutput{}, err
	}
	return nil, stateView(st, time.Now()), nil
}

func stateView(st model.AlertState, now time.Time) StateOutput {
	out := StateOutput{
		AlertID:         st.AlertID,
		Status:          string(st.Status),
		EffectiveStatus: string(st.EffectiveStatus(now)),
		UpdatedAt:       formatTime(st.UpdatedAt),
	}
	if st.Ack != nil {
		out.AcknowledgedAt = formatTime(st.Ack.At)
		out.AcknowledgedBy = st.Ack.By
	}
	if st.Snooze != nil {
		out.SnoozedUntil = formatTime(st.Snooze.Until)
		out.SnoozeReason = st.Snooze.Reason
	}
	if st.Resolution != nil {
		out.ResolvedAt = formatTime(st.Resolution.At)
		out.ResolvedBy = st.Resolution.By
		out.Outcome = string(st.Resolution.Outcome.Result)
		out.OutcomeNotes = st.Resolution.Outcome.Notes
	}
	if st.Assignment != nil {
		out.AssignedTo = st.Assignment.To
		out.AssignedToName = st.Assignment.ToName
	}
	if st.Playbook != nil {
		out.PlaybookID = st.Playbook.ID
		out.PlaybookStarted = formatTime(st.Playbook.StartedAt)
		out.PlaybookProgress = st.Playbook.Progress
		out.CompletedTasks = st.Playbook.CompletedTasks
	}
	return out
}

func noteView(n model.Note) NoteOutput {
	return NoteOutput{
		ID:        n.ID,
		Content:   n.Content,
		CreatedBy: n.CreatedBy,
		CreatedAt: formatTime(n.CreatedAt),
	}
}

func playbookView(d *playbook.Definition) PlaybookOutput {
	if d == nil {
		return PlaybookOutput{}
	}
	out := PlaybookOutput{
		Found:         true,
		ID:            d.ID,
		Name:          d.Name,
		Description:   d.Description,
		EstimatedDays: d.EstimatedDays,
	}
	for _, t := range d.Tasks {
		out.Tasks = append(out.Tasks, t.Title)
	}
	return out
}

func inboxView(e lifecycle.Enriched) InboxItem {
	item := InboxItem{
		AlertID:          e.Alert.ID,
		Type:             e.Alert.Type,
		Severity:         string(e.Alert.Severity),
		Category:         string(e.Alert.Category),
		AccountID:        e.Alert.AccountID,
		EffectiveStatus:  string(e.EffectiveStatus),
		SLAStatus:        string(e.SLA.Status),
		SLAText:          e.SLA.Text,
		PercentRemaining: e.SLA.PercentRemaining,
		Overdue:          e.SLA.Overdue(),
	}
	if e.State.Assignment != nil {
		item.AssignedTo = e.State.Assignment.ToName
	}
	if e.Recommended != nil {
		item.Recommended = e.Recommended.ID
	}
	return item
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
