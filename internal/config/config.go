// Package config loads alertflow settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/alertflow/internal/kv"
	"github.com/ppiankov/alertflow/internal/model"
)

// SnoozeDuration is a selectable snooze length.
type SnoozeDuration struct {
	Label string `yaml:"label" json:"label"`
	Days  int    `yaml:"days" json:"days"`
}

// Config holds every user-tunable setting.
type Config struct {
	StateDir        string           `yaml:"state_dir"`
	Backend         kv.Backend       `yaml:"backend"`
	LogLevel        string           `yaml:"log_level"`
	PlaybookDir     string           `yaml:"playbook_dir"`
	FeedPath        string           `yaml:"feed_path"`
	TeamMembers     []model.Actor    `yaml:"team_members"`
	SnoozeDurations []SnoozeDuration `yaml:"snooze_durations"`
}

// DefaultSnoozeDurations are offered when the config names none.
var DefaultSnoozeDurations = []SnoozeDuration{
	{Label: "1 day", Days: 1},
	{Label: "3 days", Days: 3},
	{Label: "1 week", Days: 7},
	{Label: "2 weeks", Days: 14},
	{Label: "1 month", Days: 30},
}

// DefaultTeamMembers are assignable when the config names none.
var DefaultTeamMembers = []model.Actor{
	{ID: "csm-1", Name: "Jordan Lee"},
	{ID: "csm-2", Name: "Priya Natarajan"},
	{ID: "csm-3", Name: "Marcus Webb"},
	{ID: "csm-4", Name: "Elena Petrova"},
}

// DefaultDir returns the default alertflow home directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "alertflow")
	}
	return filepath.Join(home, ".alertflow")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		StateDir:        filepath.Join(DefaultDir(), "state"),
		Backend:         kv.BackendFile,
		LogLevel:        "info",
		TeamMembers:     append([]model.Actor(nil), DefaultTeamMembers...),
		SnoozeDurations: append([]SnoozeDuration(nil), DefaultSnoozeDurations...),
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.StateDir == "" {
		c.StateDir = def.StateDir
	}
	c.StateDir = expandHome(c.StateDir)
	c.PlaybookDir = expandHome(c.PlaybookDir)
	c.FeedPath = expandHome(c.FeedPath)
	if c.Backend == "" {
		c.Backend = def.Backend
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if len(c.TeamMembers) == 0 {
		c.TeamMembers = def.TeamMembers
	}
	if len(c.SnoozeDurations) == 0 {
		c.SnoozeDurations = def.SnoozeDurations
	}
}

// Validate checks settings that would otherwise fail later at use.
func (c *Config) Validate() error {
	var errs []error
	switch c.Backend {
	case kv.BackendFile, kv.BackendSQLite, kv.BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("backend must be 'file', 'sqlite' or 'memory', got %q", c.Backend))
	}
	seen := make(map[string]bool)
	for i, m := range c.TeamMembers {
		if strings.TrimSpace(m.ID) == "" {
			errs = append(errs, fmt.Errorf("team_members[%d]: id is required", i))
			continue
		}
		if seen[m.ID] {
			errs = append(errs, fmt.Errorf("team_members[%d]: duplicate id %q", i, m.ID))
		}
		seen[m.ID] = true
	}
	for i, d := range c.SnoozeDurations {
		if d.Days <= 0 {
			errs = append(errs, fmt.Errorf("snooze_durations[%d]: days must be positive", i))
		}
	}
	return errors.Join(errs...)
}

// Member returns the team member with id.
func (c *Config) Member(id string) (model.Actor, bool) {
	for _, m := range c.TeamMembers {
		if m.ID == id {
			return m, true
		}
	}
	return model.Actor{}, false
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
