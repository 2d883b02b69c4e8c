package store

import (
	"github.com/rs/zerolog"

	"github.com/ppiankov/alertflow/internal/kv"
	"github.com/ppiankov/alertflow/internal/model"
)

// Notes is the flat, append-only note list.
type Notes struct {
	kv  kv.Store
	log zerolog.Logger
}

// NewNotes returns the note store backed by s.
func NewNotes(s kv.Store, log zerolog.Logger) *Notes {
	return &Notes{kv: s, log: log.With().Str("store", KeyNotes).Logger()}
}

// All returns notes in storage (insertion) order.
func (n *Notes) All() []model.Note {
	return load[[]model.Note](n.kv, KeyNotes, n.log)
}

// Save replaces the whole list.
func (n *Notes) Save(notes []model.Note) error {
	if notes == nil {
		notes = []model.Note{}
	}
	return save(n.kv, KeyNotes, notes)
}

// Append adds a note to the end of the list.
func (n *Notes) Append(note model.Note) error {
	return n.Save(append(n.All(), note))
}

// ForAlert returns the notes of one alert, newest first.
func (n *Notes) ForAlert(alertID string) []model.Note {
	var out []model.Note
	for _, note := range n.All() {
		if note.AlertID == alertID {
			out = append(out, note)
		}
	}
	newestFirst(out, func(x model.Note) int64 { return x.CreatedAt.UnixNano() })
	return out
}
