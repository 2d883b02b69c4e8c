package store

import (
	"github.com/rs/zerolog"

	"github.com/ppiankov/alertflow/internal/kv"
	"github.com/ppiankov/alertflow/internal/model"
)

// Users holds the current-user record the CLI uses as its default actor.
type Users struct {
	kv  kv.Store
	log zerolog.Logger
}

// NewUsers returns the current-user store backed by s.
func NewUsers(s kv.Store, log zerolog.Logger) *Users {
	return &Users{kv: s, log: log.With().Str("store", KeyCurrentUser).Logger()}
}

// Current returns the stored user, or false if none is set.
func (u *Users) Current() (model.Actor, bool) {
	a := load[model.Actor](u.kv, KeyCurrentUser, u.log)
	return a, !a.IsZero()
}

// SetCurrent stores a as the current user.
func (u *Users) SetCurrent(a model.Actor) error {
	return save(u.kv, KeyCurrentUser, a)
}
