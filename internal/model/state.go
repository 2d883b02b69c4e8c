package model

import (
	"errors"
	"fmt"
	"time"
)

// Status is the persisted workflow status of an alert.
type Status string

const (
	StatusOpen         Status = "open"
	StatusAcknowledged Status = "acknowledged"
	StatusInProgress   Status = "in_progress"
	StatusSnoozed      Status = "snoozed"
	StatusResolved     Status = "resolved"
)

// OutcomeResult classifies how a resolved alert ended.
type OutcomeResult string

const (
	OutcomeSuccess       OutcomeResult = "success"
	OutcomePartial       OutcomeResult = "partial"
	OutcomeFailed        OutcomeResult = "failed"
	OutcomeNotApplicable OutcomeResult = "not_applicable"
)

// OutcomeOption is a selectable resolution result with a display label.
type OutcomeOption struct {
	Value OutcomeResult `json:"value"`
	Label string        `json:"label"`
}

// OutcomeOptions lists every valid resolution result in display order.
var OutcomeOptions = []OutcomeOption{
	{Value: OutcomeSuccess, Label: "Successfully resolved"},
	{Value: OutcomePartial, Label: "Partially resolved"},
	{Value: OutcomeFailed, Label: "Could not resolve"},
	{Value: OutcomeNotApplicable, Label: "Not applicable"},
}

// Valid reports whether r is one of OutcomeOptions.
func (r OutcomeResult) Valid() bool {
	for _, o := range OutcomeOptions {
		if o.Value == r {
			return true
		}
	}
	return false
}

// Acknowledgement records who took ownership of an alert and when.
type Acknowledgement struct {
	At time.Time `json:"at"`
	By string    `json:"by"`
}

// Snooze suppresses an alert until a future instant.
type Snooze struct {
	Until  time.Time `json:"until"`
	Reason string    `json:"reason,omitempty"`
}

// Outcome is the result recorded on resolution.
type Outcome struct {
	Result     OutcomeResult `json:"result"`
	Notes      string        `json:"notes,omitempty"`
	ResolvedBy string        `json:"resolved_by"`
}

// Resolution only exists on resolved alerts and always carries an outcome.
type Resolution struct {
	At      time.Time `json:"at"`
	By      string    `json:"by"`
	Outcome Outcome   `json:"outcome"`
}

// Assignment is orthogonal to status and survives every transition.
type Assignment struct {
	To     string `json:"to"`
	ToName string `json:"to_name"`
}

// PlaybookRun tracks execution of a playbook against one alert.
type PlaybookRun struct {
	ID             string     `json:"id"`
	StartedAt      time.Time  `json:"started_at"`
	Progress       int        `json:"progress"`
	CompletedTasks []int      `json:"completed_tasks,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// Completed reports whether completion has been recorded for this run.
func (p *PlaybookRun) Completed() bool {
	return p != nil && p.CompletedAt != nil
}

// TaskDone reports whether task i is in the completed set.
func (p *PlaybookRun) TaskDone(i int) bool {
	if p == nil {
		return false
	}
	for _, t := range p.CompletedTasks {
		if t == i {
			return true
		}
	}
	return false
}

// AlertState is the local, mutable overlay on an immutable Alert.
// Status-specific fields live in sub-records that are present only in the
// states that own them: Resolution is set iff Status is resolved.
type AlertState struct {
	AlertID    string           `json:"alert_id"`
	Status     Status           `json:"status"`
	Ack        *Acknowledgement `json:"ack,omitempty"`
	Snooze     *Snooze          `json:"snooze,omitempty"`
	Resolution *Resolution      `json:"resolution,omitempty"`
	Assignment *Assignment      `json:"assignment,omitempty"`
	Playbook   *PlaybookRun     `json:"playbook,omitempty"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// NewAlertState returns the implicit state of an alert nobody has touched.
func NewAlertState(alertID string) AlertState {
	return AlertState{AlertID: alertID, Status: StatusOpen}
}

// EffectiveStatus is the status consumers should act on at now.
// An expired snooze reads as open while the stored status stays snoozed.
func (s AlertState) EffectiveStatus(now time.Time) Status {
	if s.Status == StatusSnoozed && s.Snooze != nil && !s.Snooze.Until.After(now) {
		return StatusOpen
	}
	return s.Status
}

// Clone returns a deep copy so callers can mutate without aliasing stored data.
func (s AlertState) Clone() AlertState {
	c := s
	if s.Ack != nil {
		a := *s.Ack
		c.Ack = &a
	}
	if s.Snooze != nil {
		sn := *s.Snooze
		c.Snooze = &sn
	}
	if s.Resolution != nil {
		r := *s.Resolution
		c.Resolution = &r
	}
	if s.Assignment != nil {
		a := *s.Assignment
		c.Assignment = &a
	}
	if s.Playbook != nil {
		p := *s.Playbook
		p.CompletedTasks = append([]int(nil), s.Playbook.CompletedTasks...)
		if s.Playbook.CompletedAt != nil {
			at := *s.Playbook.CompletedAt
			p.CompletedAt = &at
		}
		c.Playbook = &p
	}
	return c
}

// Validate checks the structural invariants between status and sub-records.
func (s AlertState) Validate() error {
	var errs []error
	switch s.Status {
	case StatusOpen, StatusAcknowledged, StatusInProgress, StatusSnoozed, StatusResolved:
	default:
		errs = append(errs, fmt.Errorf("unknown status %q", s.Status))
	}
	if s.Status == StatusResolved && s.Resolution == nil {
		errs = append(errs, errors.New("resolved state without resolution"))
	}
	if s.Status != StatusResolved && s.Resolution != nil {
		errs = append(errs, fmt.Errorf("%s state carries a resolution", s.Status))
	}
	if s.Resolution != nil && !s.Resolution.Outcome.Result.Valid() {
		errs = append(errs, fmt.Errorf("invalid outcome %q", s.Resolution.Outcome.Result))
	}
	if s.Status == StatusSnoozed && s.Snooze == nil {
		errs = append(errs, errors.New("snoozed state without snooze"))
	}
	if s.Playbook != nil && (s.Playbook.Progress < 0 || s.Playbook.Progress > 100) {
		errs = append(errs, fmt.Errorf("playbook progress %d out of range", s.Playbook.Progress))
	}
	return errors.Join(errs...)
}
