package lifecycle

import "errors"

var (
	ErrMissingActor    = errors.New("actor is required")
	ErrMissingAlertID  = errors.New("alert id is required")
	ErrResolved        = errors.New("alert is resolved")
	ErrInvalidDays     = errors.New("snooze days must be positive")
	ErrInvalidOutcome  = errors.New("invalid outcome")
	ErrMissingAssignee = errors.New("assignee id is required")
	ErrUnknownPlaybook = errors.New("unknown playbook")
	ErrNoPlaybook      = errors.New("no playbook started")
	ErrInvalidProgress = errors.New("playbook progress must be between 0 and 100")
	ErrInvalidTask     = errors.New("task index out of range")
	ErrEmptyNote       = errors.New("note content is empty")
)
