package model

import "time"

// Action names an entry in the alert action log.
type Action string

const (
	ActionAcknowledged      Action = "acknowledged"
	ActionSnoozed           Action = "snoozed"
	ActionResolved          Action = "resolved"
	ActionAssigned          Action = "assigned"
	ActionNoteAdded         Action = "note_added"
	ActionPlaybookStarted   Action = "playbook_started"
	ActionPlaybookCompleted Action = "playbook_completed"
	ActionReopened          Action = "reopened"
)

// Note is a free-text comment on an alert. Notes are never edited.
type Note struct {
	ID        string    `json:"id"`
	AlertID   string    `json:"alert_id"`
	Content   string    `json:"content"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// ActionLogEntry is one line of the append-only audit trail.
// PrevHash links each entry to the one stored before it.
type ActionLogEntry struct {
	ID        string         `json:"id"`
	AlertID   string         `json:"alert_id"`
	Action    Action         `json:"action"`
	ActorID   string         `json:"actor_id"`
	ActorName string         `json:"actor_name"`
	Timestamp time.Time      `json:"timestamp"`
	Details   map[string]any `json:"details,omitempty"`
	PrevHash  string         `json:"prev_hash"`
}
