package playbook

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltinLoads(t *testing.T) {
	defs, err := loadBuiltin()
	if err != nil {
		t.Fatal(err)
	}
	if len(defs) < 5 {
		t.Fatalf("expected at least 5 built-in playbooks, got %d", len(defs))
	}
	for _, d := range defs {
		if d.Source != "built-in" {
			t.Errorf("%s: expected built-in source, got %q", d.ID, d.Source)
		}
		if d.EstimatedDays <= 0 {
			t.Errorf("%s: expected positive estimated days", d.ID)
		}
	}
}

func TestRecommendedFirstMatch(t *testing.T) {
	c := Builtin()
	d := c.Recommended("churn_risk")
	if d == nil {
		t.Fatal("expected playbook for churn_risk")
	}
	if d.ID != "churn-risk-intervention" {
		t.Errorf("expected churn-risk-intervention, got %s", d.ID)
	}
	if c.Recommended("no_such_type") != nil {
		t.Error("expected nil for unknown alert type")
	}
}

func TestRecommendedPrefersEarlierDefinition(t *testing.T) {
	a := &Definition{ID: "a", Name: "A", AlertTypes: []string{"x"}, Tasks: []Task{{Title: "t"}}}
	b := &Definition{ID: "b", Name: "B", AlertTypes: []string{"x", "y"}, Tasks: []Task{{Title: "t"}}}
	c, err := NewCatalog(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Recommended("x"); got.ID != "a" {
		t.Errorf("expected a, got %s", got.ID)
	}
	if got := c.Recommended("y"); got.ID != "b" {
		t.Errorf("expected b, got %s", got.ID)
	}
}

func TestNewCatalogRejectsDuplicateIDs(t *testing.T) {
	a := &Definition{ID: "a", Name: "A", Tasks: []Task{{Title: "t"}}}
	if _, err := NewCatalog(a, a); err == nil {
		t.Error("expected duplicate id error")
	}
}

func TestParseDefinitionValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing id", "name: x\ntasks: [{title: a}]\n"},
		{"missing name", "id: x\ntasks: [{title: a}]\n"},
		{"no tasks", "id: x\nname: x\n"},
		{"empty task title", "id: x\nname: x\ntasks: [{title: ''}]\n"},
		{"negative days", "id: x\nname: x\nestimated_days: -1\ntasks: [{title: a}]\n"},
		{"bad yaml", "id: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDefinition([]byte(tt.yaml)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestProgress(t *testing.T) {
	d := &Definition{ID: "p", Name: "P", Tasks: []Task{{Title: "1"}, {Title: "2"}, {Title: "3"}}}
	tests := []struct {
		completed []int
		want      int
	}{
		{nil, 0},
		{[]int{0}, 33},
		{[]int{0, 2}, 67},
		{[]int{0, 0, 2}, 67},
		{[]int{0, 1, 2}, 100},
		{[]int{5, -1}, 0},
	}
	for _, tt := range tests {
		if got := d.Progress(tt.completed); got != tt.want {
			t.Errorf("Progress(%v) = %d, want %d", tt.completed, got, tt.want)
		}
	}
}

func TestLoadDirAppendsUserPlaybooks(t *testing.T) {
	dir := t.TempDir()
	data := "id: custom\nname: Custom\nalert_types: [churn_risk, custom_type]\ntasks: [{title: only}]\n"
	if err := os.WriteFile(filepath.Join(dir, "custom.yaml"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	c := Builtin()
	if err := c.LoadDir(dir); err != nil {
		t.Fatal(err)
	}
	if got := c.Recommended("custom_type"); got == nil || got.ID != "custom" {
		t.Fatalf("expected custom playbook, got %v", got)
	}
	// Built-ins stay ahead of user playbooks.
	if got := c.Recommended("churn_risk"); got.ID != "churn-risk-intervention" {
		t.Errorf("expected built-in to win, got %s", got.ID)
	}
	if c.Get("custom").Source != filepath.Join(dir, "custom.yaml") {
		t.Errorf("unexpected source %q", c.Get("custom").Source)
	}
}

func TestLoadDirMissingIsNoop(t *testing.T) {
	c := Builtin()
	before := len(c.List())
	if err := c.LoadDir(filepath.Join(t.TempDir(), "missing")); err != nil {
		t.Fatal(err)
	}
	if len(c.List()) != before {
		t.Error("expected catalog unchanged")
	}
}
