package store

import (
	"github.com/rs/zerolog"

	"github.com/ppiankov/alertflow/internal/kv"
)

// Set groups the four stores that share one backing kv.Store.
type Set struct {
	States    *States
	Notes     *Notes
	ActionLog *ActionLog
	Users     *Users
}

// NewSet builds all stores over s.
func NewSet(s kv.Store, log zerolog.Logger) *Set {
	return &Set{
		States:    NewStates(s, log),
		Notes:     NewNotes(s, log),
		ActionLog: NewActionLog(s, log),
		Users:     NewUsers(s, log),
	}
}
