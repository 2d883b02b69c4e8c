// Package lifecycle is the only writer of alert workflow state. Every
// mutating operation persists a new AlertState snapshot and appends exactly
// one action-log entry, except playbook progress ticks which are not logged.
package lifecycle

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ppiankov/alertflow/internal/model"
	"github.com/ppiankov/alertflow/internal/playbook"
	"github.com/ppiankov/alertflow/internal/store"
)

// Controller applies lifecycle operations against the persisted stores.
// Operations are serialized; each either fully applies or returns an error.
type Controller struct {
	mu      sync.Mutex
	stores  *store.Set
	catalog *playbook.Catalog
	now     func() time.Time
	newID   func() string
	log     zerolog.Logger
	metrics *Metrics
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithIDs overrides note and log entry ID generation.
func WithIDs(newID func() string) Option {
	return func(c *Controller) { c.newID = newID }
}

// WithLogger sets the structured logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// WithMetrics enables operation counters.
func WithMetrics(m *Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// New creates a Controller over stores, resolving playbooks from catalog.
func New(stores *store.Set, catalog *playbook.Catalog, opts ...Option) *Controller {
	c := &Controller{
		stores:  stores,
		catalog: catalog,
		now:     time.Now,
		newID:   uuid.NewString,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With().Str("component", "lifecycle").Logger()
	return c
}

// Catalog returns the playbook catalog the controller resolves against.
func (c *Controller) Catalog() *playbook.Catalog {
	return c.catalog
}

// change describes the log side of a state mutation.
type change struct {
	action  model.Action // empty: nothing is logged
	details map[string]any
	noop    bool // nothing to persist or log
}

// mutate loads the state of alertID (or its implicit open default), applies
// fn, persists the result and appends the log entry. If the log append
// fails the previous state is written back so the pair stays consistent.
func (c *Controller) mutate(op string, actor model.Actor, alertID string, fn func(st *model.AlertState, now time.Time) (change, error)) (model.AlertState, error) {
	if err := checkArgs(actor, alertID); err != nil {
		c.metrics.recordFailure(op)
		return model.AlertState{}, fmt.Errorf("%s: %w", op, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	all := c.stores.States.All()
	prev, existed := all[alertID]
	st := model.NewAlertState(alertID)
	if existed {
		st = prev.Clone()
	}

	now := c.now()
	ch, err := fn(&st, now)
	if err != nil {
		c.metrics.recordFailure(op)
		return model.AlertState{}, fmt.Errorf("%s %s: %w", op, alertID, err)
	}
	if ch.noop {
		c.log.Debug().Str("alert_id", alertID).Str("operation", op).Msg("no change")
		return st, nil
	}

	st.UpdatedAt = now
	all[alertID] = st
	if err := c.stores.States.Save(all); err != nil {
		c.metrics.recordFailure(op)
		return model.AlertState{}, fmt.Errorf("%s %s: %w", op, alertID, err)
	}

	if ch.action != "" {
		if _, err := c.appendLog(actor, alertID, ch.action, now, ch.details); err != nil {
			if existed {
				all[alertID] = prev
			} else {
				delete(all, alertID)
			}
			if rbErr := c.stores.States.Save(all); rbErr != nil {
				c.log.Error().Err(rbErr).Str("alert_id", alertID).Msg("rollback of alert state failed")
			}
			c.metrics.recordFailure(op)
			return model.AlertState{}, fmt.Errorf("%s %s: %w", op, alertID, err)
		}
	}

	c.log.Info().
		Str("alert_id", alertID).
		Str("operation", op).
		Str("status", string(st.Status)).
		Str("actor", actor.ID).
		Msg("alert updated")
	return st, nil
}

func (c *Controller) appendLog(actor model.Actor, alertID string, action model.Action, now time.Time, details map[string]any) (model.ActionLogEntry, error) {
	entry, err := c.stores.ActionLog.Append(model.ActionLogEntry{
		ID:        c.newID(),
		AlertID:   alertID,
		Action:    action,
		ActorID:   actor.ID,
		ActorName: actor.Name,
		Timestamp: now,
		Details:   details,
	})
	if err != nil {
		return entry, err
	}
	c.metrics.recordAction(string(action))
	return entry, nil
}

func checkArgs(actor model.Actor, alertID string) error {
	if actor.IsZero() {
		return ErrMissingActor
	}
	if strings.TrimSpace(alertID) == "" {
		return ErrMissingAlertID
	}
	return nil
}

func notResolved(st *model.AlertState) error {
	if st.Status == model.StatusResolved {
		return ErrResolved
	}
	return nil
}

// Acknowledge takes ownership of an alert in any non-resolved state.
func (c *Controller) Acknowledge(actor model.Actor, alertID string) (model.AlertState, error) {
	return c.mutate("acknowledge", actor, alertID, func(st *model.AlertState, now time.Time) (change, error) {
		if err := notResolved(st); err != nil {
			return change{}, err
		}
		from := st.Status
		st.Status = model.StatusAcknowledged
		st.Ack = &model.Acknowledgement{At: now, By: actor.ID}
		st.Snooze = nil
		return change{
			action:  model.ActionAcknowledged,
			details: map[string]any{"from": string(from)},
		}, nil
	})
}

// Snooze suppresses an alert for days whole days from now.
func (c *Controller) Snooze(actor model.Actor, alertID string, days int, reason string) (model.AlertState, error) {
	return c.mutate("snooze", actor, alertID, func(st *model.AlertState, now time.Time) (change, error) {
		if days <= 0 {
			return change{}, ErrInvalidDays
		}
		if err := notResolved(st); err != nil {
			return change{}, err
		}
		until := now.Add(time.Duration(days) * 24 * time.Hour)
		st.Status = model.StatusSnoozed
		st.Snooze = &model.Snooze{Until: until, Reason: reason}
		return change{
			action: model.ActionSnoozed,
			details: map[string]any{
				"days":   days,
				"until":  until,
				"reason": reason,
			},
		}, nil
	})
}

// Resolve closes an alert with an outcome. Resolved is terminal until Reopen.
func (c *Controller) Resolve(actor model.Actor, alertID string, result model.OutcomeResult, notes string) (model.AlertState, error) {
	return c.mutate("resolve", actor, alertID, func(st *model.AlertState, now time.Time) (change, error) {
		if !result.Valid() {
			return change{}, fmt.Errorf("%w %q", ErrInvalidOutcome, result)
		}
		if err := notResolved(st); err != nil {
			return change{}, err
		}
		st.Status = model.StatusResolved
		st.Snooze = nil
		st.Resolution = &model.Resolution{
			At: now,
			By: actor.ID,
			Outcome: model.Outcome{
				Result:     result,
				Notes:      notes,
				ResolvedBy: actor.ID,
			},
		}
		return change{
			action: model.ActionResolved,
			details: map[string]any{
				"outcome": string(result),
				"notes":   notes,
			},
		}, nil
	})
}

// Assign sets the owner of an alert. Valid in every state; status is unchanged.
func (c *Controller) Assign(actor model.Actor, alertID, assigneeID, assigneeName string) (model.AlertState, error) {
	return c.mutate("assign", actor, alertID, func(st *model.AlertState, now time.Time) (change, error) {
		if strings.TrimSpace(assigneeID) == "" {
			return change{}, ErrMissingAssignee
		}
		details := map[string]any{
			"assignee_id":   assigneeID,
			"assignee_name": assigneeName,
		}
		if st.Assignment != nil {
			details["previous_assignee_id"] = st.Assignment.To
		}
		st.Assignment = &model.Assignment{To: assigneeID, ToName: assigneeName}
		return change{action: model.ActionAssigned, details: details}, nil
	})
}

// Reopen returns an alert to open and clears acknowledgement, snooze and
// resolution. Assignment and playbook progress are kept. Every call is logged.
func (c *Controller) Reopen(actor model.Actor, alertID string) (model.AlertState, error) {
	return c.mutate("reopen", actor, alertID, func(st *model.AlertState, now time.Time) (change, error) {
		from := st.Status
		st.Status = model.StatusOpen
		st.Ack = nil
		st.Snooze = nil
		st.Resolution = nil
		return change{
			action:  model.ActionReopened,
			details: map[string]any{"from": string(from)},
		}, nil
	})
}

// StartPlaybook begins (or restarts) a catalog playbook and moves the alert
// to in_progress.
func (c *Controller) StartPlaybook(actor model.Actor, alertID, playbookID string) (model.AlertState, error) {
	return c.mutate("start_playbook", actor, alertID, func(st *model.AlertState, now time.Time) (change, error) {
		if err := notResolved(st); err != nil {
			return change{}, err
		}
		def := c.catalog.Get(playbookID)
		if def == nil {
			return change{}, fmt.Errorf("%w %q", ErrUnknownPlaybook, playbookID)
		}
		st.Status = model.StatusInProgress
		st.Snooze = nil
		st.Playbook = &model.PlaybookRun{ID: def.ID, StartedAt: now}
		return change{
			action: model.ActionPlaybookStarted,
			details: map[string]any{
				"playbook_id":   def.ID,
				"playbook_name": def.Name,
			},
		}, nil
	})
}

// UpdatePlaybookProgress records a progress tick. Ticks are not logged.
// Dropping below 100 reopens a completed run.
func (c *Controller) UpdatePlaybookProgress(actor model.Actor, alertID string, progress int) (model.AlertState, error) {
	return c.mutate("update_playbook_progress", actor, alertID, func(st *model.AlertState, now time.Time) (change, error) {
		if progress < 0 || progress > 100 {
			return change{}, ErrInvalidProgress
		}
		if st.Playbook == nil {
			return change{}, ErrNoPlaybook
		}
		st.Playbook.Progress = progress
		if progress < 100 {
			st.Playbook.CompletedAt = nil
		}
		return change{}, nil
	})
}

// ToggleTask flips task index of the running playbook between done and not
// done, and derives progress from the completed set. Toggles are not logged.
// Untoggling a task of a completed run reopens it.
func (c *Controller) ToggleTask(actor model.Actor, alertID string, index int) (model.AlertState, error) {
	return c.mutate("toggle_task", actor, alertID, func(st *model.AlertState, now time.Time) (change, error) {
		if st.Playbook == nil {
			return change{}, ErrNoPlaybook
		}
		def := c.catalog.Get(st.Playbook.ID)
		if def == nil {
			return change{}, fmt.Errorf("%w %q", ErrUnknownPlaybook, st.Playbook.ID)
		}
		if index < 0 || index >= len(def.Tasks) {
			return change{}, fmt.Errorf("%w: %d", ErrInvalidTask, index)
		}

		var tasks []int
		found := false
		for _, t := range st.Playbook.CompletedTasks {
			if t == index {
				found = true
				continue
			}
			tasks = append(tasks, t)
		}
		if !found {
			tasks = append(tasks, index)
		}
		st.Playbook.CompletedTasks = tasks
		st.Playbook.Progress = def.Progress(tasks)
		if st.Playbook.Progress < 100 {
			st.Playbook.CompletedAt = nil
		}
		return change{}, nil
	})
}

// CompletePlaybook marks the running playbook done and logs completion once.
// Calling it again after completion changes nothing and logs nothing.
func (c *Controller) CompletePlaybook(actor model.Actor, alertID string) (model.AlertState, error) {
	return c.mutate("complete_playbook", actor, alertID, func(st *model.AlertState, now time.Time) (change, error) {
		if st.Playbook == nil {
			return change{}, ErrNoPlaybook
		}
		if st.Playbook.Completed() {
			return change{noop: true}, nil
		}
		st.Playbook.Progress = 100
		if def := c.catalog.Get(st.Playbook.ID); def != nil {
			tasks := make([]int, len(def.Tasks))
			for i := range tasks {
				tasks[i] = i
			}
			st.Playbook.CompletedTasks = tasks
		}
		at := now
		st.Playbook.CompletedAt = &at
		return change{
			action: model.ActionPlaybookCompleted,
			details: map[string]any{
				"playbook_id": st.Playbook.ID,
				"duration":    now.Sub(st.Playbook.StartedAt).String(),
			},
		}, nil
	})
}

// AddNote appends a note and logs note_added. The note and its log entry
// are written as a unit: if the log append fails the note is removed again.
func (c *Controller) AddNote(actor model.Actor, alertID, content string) (model.Note, error) {
	if err := checkArgs(actor, alertID); err != nil {
		c.metrics.recordFailure("add_note")
		return model.Note{}, fmt.Errorf("add_note: %w", err)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		c.metrics.recordFailure("add_note")
		return model.Note{}, fmt.Errorf("add_note %s: %w", alertID, ErrEmptyNote)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	note := model.Note{
		ID:        c.newID(),
		AlertID:   alertID,
		Content:   content,
		CreatedBy: actor.ID,
		CreatedAt: now,
	}

	prev := c.stores.Notes.All()
	next := make([]model.Note, 0, len(prev)+1)
	next = append(next, prev...)
	if err := c.stores.Notes.Save(append(next, note)); err != nil {
		c.metrics.recordFailure("add_note")
		return model.Note{}, fmt.Errorf("add_note %s: %w", alertID, err)
	}

	if _, err := c.appendLog(actor, alertID, model.ActionNoteAdded, now, map[string]any{"note_id": note.ID}); err != nil {
		if rbErr := c.stores.Notes.Save(prev); rbErr != nil {
			c.log.Error().Err(rbErr).Str("alert_id", alertID).Msg("rollback of note failed")
		}
		c.metrics.recordFailure("add_note")
		return model.Note{}, fmt.Errorf("add_note %s: %w", alertID, err)
	}

	c.log.Info().
		Str("alert_id", alertID).
		Str("operation", "add_note").
		Str("note_id", note.ID).
		Str("actor", actor.ID).
		Msg("note added")
	return note, nil
}
