// Package store holds the typed collections persisted in a kv.Store.
//
// Every read deserializes the whole collection from the backing store; there
// is no in-process cache. That costs one decode per read but means a second
// process writing the same state directory is always observed on the next
// call. Writes replace the whole collection (last write wins).
package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ppiankov/alertflow/internal/kv"
)

// Keys of the four independent records in the backing store.
const (
	KeyStates      = "alert-states"
	KeyNotes       = "alert-notes"
	KeyActionLog   = "alert-action-log"
	KeyCurrentUser = "current-user"
)

// load decodes key into a T. Missing or corrupt data yields the zero T and
// is never returned as an error; corruption is logged.
func load[T any](s kv.Store, key string, log zerolog.Logger) T {
	var out T
	data, err := s.Get(key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			log.Warn().Err(err).Str("key", key).Msg("read failed, treating as empty")
		}
		return out
	}
	if err := json.Unmarshal(data, &out); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("corrupt data, treating as empty")
		var zero T
		return zero
	}
	return out
}

// save encodes v under key. Write failures are returned to the caller.
func save(s kv.Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
