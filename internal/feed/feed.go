// Package feed reads alert records supplied by the upstream alert feed.
// The engine treats these records as read-only input.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/alertflow/internal/model"
)

// Source yields the current set of alerts.
type Source interface {
	Alerts(ctx context.Context) ([]model.Alert, error)
}

// File reads alerts from a JSON or YAML array on disk. The format is chosen
// by extension; anything other than .yaml/.yml is parsed as JSON.
type File struct {
	Path string
}

// Alerts reads and validates the file on every call.
func (f File) Alerts(ctx context.Context) ([]model.Alert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read alert feed: %w", err)
	}
	alerts, err := Parse(data, filepath.Ext(f.Path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	return alerts, nil
}

// Parse decodes an alert array. ext selects YAML (".yaml", ".yml") or JSON.
func Parse(data []byte, ext string) ([]model.Alert, error) {
	var alerts []model.Alert
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &alerts); err != nil {
			return nil, fmt.Errorf("invalid alert YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &alerts); err != nil {
			return nil, fmt.Errorf("invalid alert JSON: %w", err)
		}
	}
	seen := make(map[string]bool, len(alerts))
	for i, a := range alerts {
		if a.ID == "" {
			return nil, fmt.Errorf("alert %d: id is required", i)
		}
		if seen[a.ID] {
			return nil, fmt.Errorf("alert %s: duplicate id", a.ID)
		}
		seen[a.ID] = true
		if a.CreatedAt.IsZero() {
			return nil, fmt.Errorf("alert %s: created_at is required", a.ID)
		}
	}
	return alerts, nil
}

// Static is a fixed in-memory Source.
type Static []model.Alert

func (s Static) Alerts(ctx context.Context) ([]model.Alert, error) {
	return s, nil
}

// Find returns the alert with id from src.
func Find(ctx context.Context, src Source, id string) (model.Alert, error) {
	alerts, err := src.Alerts(ctx)
	if err != nil {
		return model.Alert{}, err
	}
	for _, a := range alerts {
		if a.ID == id {
			return a, nil
		}
	}
	return model.Alert{}, fmt.Errorf("alert %q not in feed", id)
}
