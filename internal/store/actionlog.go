package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ppiankov/alertflow/internal/kv"
	"github.com/ppiankov/alertflow/internal/model"
)

// GenesisHash is the prev_hash of the first entry in a new action log.
const GenesisHash = "sha256:0000000000000000000000000000000000000000000000000000000000000000"

// ActionLog is the append-only audit trail. Each entry's PrevHash is the
// hash of the entry stored before it, so edits and deletions are detectable.
type ActionLog struct {
	kv  kv.Store
	log zerolog.Logger
}

// NewActionLog returns the action-log store backed by s.
func NewActionLog(s kv.Store, log zerolog.Logger) *ActionLog {
	return &ActionLog{kv: s, log: log.With().Str("store", KeyActionLog).Logger()}
}

// All returns entries in storage (append) order.
func (a *ActionLog) All() []model.ActionLogEntry {
	return load[[]model.ActionLogEntry](a.kv, KeyActionLog, a.log)
}

// Save replaces the whole list. Only Append should be used for new entries.
func (a *ActionLog) Save(entries []model.ActionLogEntry) error {
	if entries == nil {
		entries = []model.ActionLogEntry{}
	}
	return save(a.kv, KeyActionLog, entries)
}

// Append chains entry onto the log tail and persists it.
// It returns the entry as stored.
func (a *ActionLog) Append(entry model.ActionLogEntry) (model.ActionLogEntry, error) {
	entries := a.All()
	entry.PrevHash = GenesisHash
	if n := len(entries); n > 0 {
		h, err := HashEntry(entries[n-1])
		if err != nil {
			return entry, err
		}
		entry.PrevHash = h
	}
	if err := a.Save(append(entries, entry)); err != nil {
		return entry, err
	}
	return entry, nil
}

// ForAlert returns the entries of one alert, newest first.
func (a *ActionLog) ForAlert(alertID string) []model.ActionLogEntry {
	var out []model.ActionLogEntry
	for _, e := range a.All() {
		if e.AlertID == alertID {
			out = append(out, e)
		}
	}
	newestFirst(out, func(x model.ActionLogEntry) int64 { return x.Timestamp.UnixNano() })
	return out
}

// HashEntry returns "sha256:<hex>" of the entry's JSON encoding.
func HashEntry(e model.ActionLogEntry) (string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("hash entry %s: %w", e.ID, err)
	}
	h := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(h[:]), nil
}

// VerifyResult holds the outcome of a hash chain verification.
type VerifyResult struct {
	Valid      bool   `json:"valid"`
	Entries    int    `json:"entries"`
	Error      string `json:"error,omitempty"`
	ErrorIndex int    `json:"error_index,omitempty"`
}

// Verify walks the stored log and validates the hash chain.
// ErrorIndex is 1-based.
func (a *ActionLog) Verify() VerifyResult {
	entries := a.All()
	prev := GenesisHash
	for i, e := range entries {
		if e.PrevHash != prev {
			return VerifyResult{
				Error:      fmt.Sprintf("hash mismatch at entry %s: expected %s, got %s", e.ID, prev, e.PrevHash),
				ErrorIndex: i + 1,
			}
		}
		h, err := HashEntry(e)
		if err != nil {
			return VerifyResult{Error: err.Error(), ErrorIndex: i + 1}
		}
		prev = h
	}
	return VerifyResult{Valid: true, Entries: len(entries)}
}
