package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/alertflow/internal/kv"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != kv.BackendFile || cfg.LogLevel != "info" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if len(cfg.SnoozeDurations) != len(DefaultSnoozeDurations) {
		t.Errorf("expected default snooze durations")
	}
}

func TestLoadOverridesAndKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, "state_dir: "+dir+"\nbackend: sqlite\nteam_members:\n  - {id: u1, name: Ana}\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StateDir != dir || cfg.Backend != kv.BackendSQLite {
		t.Errorf("unexpected config %+v", cfg)
	}
	if m, ok := cfg.Member("u1"); !ok || m.Name != "Ana" {
		t.Errorf("expected member u1, got %+v", m)
	}
	if len(cfg.SnoozeDurations) == 0 {
		t.Error("expected snooze defaults to fill in")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"backend":     "backend: redis\n",
		"member id":   "team_members:\n  - {name: X}\n",
		"dup member":  "team_members:\n  - {id: a}\n  - {id: a}\n",
		"snooze days": "snooze_durations:\n  - {label: never, days: 0}\n",
		"yaml":        "backend: [\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandHome("~/x"); got != filepath.Join(home, "x") {
		t.Errorf("unexpected expansion %q", got)
	}
	if got := expandHome("/abs"); got != "/abs" {
		t.Errorf("expected untouched, got %q", got)
	}
}
