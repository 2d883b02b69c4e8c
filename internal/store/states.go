package store

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/ppiankov/alertflow/internal/kv"
	"github.com/ppiankov/alertflow/internal/model"
)

// States is the alert-state map keyed by alert ID.
type States struct {
	kv  kv.Store
	log zerolog.Logger
}

// NewStates returns the alert-state store backed by s.
func NewStates(s kv.Store, log zerolog.Logger) *States {
	return &States{kv: s, log: log.With().Str("store", KeyStates).Logger()}
}

// All returns every stored state. Never nil.
func (s *States) All() map[string]model.AlertState {
	m := load[map[string]model.AlertState](s.kv, KeyStates, s.log)
	if m == nil {
		m = make(map[string]model.AlertState)
	}
	for id, st := range m {
		if st.AlertID == "" {
			st.AlertID = id
			m[id] = st
		}
	}
	return m
}

// Get returns the stored state for alertID and whether one exists.
func (s *States) Get(alertID string) (model.AlertState, bool) {
	st, ok := s.All()[alertID]
	return st, ok
}

// List returns all states sorted by alert ID.
func (s *States) List() []model.AlertState {
	m := s.All()
	out := make([]model.AlertState, 0, len(m))
	for _, st := range m {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AlertID < out[j].AlertID })
	return out
}

// Save replaces the whole map.
func (s *States) Save(m map[string]model.AlertState) error {
	return save(s.kv, KeyStates, m)
}

// Put writes one state, keeping every other entry.
func (s *States) Put(st model.AlertState) error {
	m := s.All()
	m[st.AlertID] = st
	return s.Save(m)
}
