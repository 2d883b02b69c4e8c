package feed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/alertflow/internal/model"
)

const jsonFeed = `[
  {"id": "a1", "type": "churn_risk", "severity": "critical", "category": "risk",
   "account_id": "acc-1", "created_at": "2026-03-02T09:00:00Z",
   "sla_deadline": "2026-03-04T09:00:00Z", "arr_at_risk": 120000},
  {"id": "a2", "type": "expansion_opportunity", "severity": "low", "category": "opportunity",
   "account_id": "acc-2", "created_at": "2026-03-02T10:00:00Z"}
]`

const yamlFeed = `
- id: a1
  type: usage_drop
  severity: medium
  category: action_required
  account_id: acc-9
  created_at: 2026-03-02T09:00:00Z
  sla_deadline: 2026-03-03T09:00:00Z
`

func TestFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.json")
	if err := os.WriteFile(path, []byte(jsonFeed), 0644); err != nil {
		t.Fatal(err)
	}
	alerts, err := File{Path: path}.Alerts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}
	a := alerts[0]
	if a.Severity != model.SeverityCritical || a.Category != model.CategoryRisk {
		t.Errorf("unexpected alert %+v", a)
	}
	if a.SLADeadline == nil || !a.SLADeadline.Equal(time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected deadline %v", a.SLADeadline)
	}
	if a.ARRAtRisk == nil || *a.ARRAtRisk != 120000 {
		t.Errorf("unexpected arr %v", a.ARRAtRisk)
	}
	if alerts[1].SLADeadline != nil {
		t.Error("expected no deadline on a2")
	}
}

func TestFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.yaml")
	if err := os.WriteFile(path, []byte(yamlFeed), 0644); err != nil {
		t.Fatal(err)
	}
	alerts, err := File{Path: path}.Alerts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(alerts) != 1 || alerts[0].Type != "usage_drop" || alerts[0].SLADeadline == nil {
		t.Errorf("unexpected alerts %+v", alerts)
	}
}

func TestParseValidation(t *testing.T) {
	tests := map[string]string{
		"missing id":      `[{"created_at": "2026-03-02T09:00:00Z"}]`,
		"duplicate id":    `[{"id": "a", "created_at": "2026-03-02T09:00:00Z"}, {"id": "a", "created_at": "2026-03-02T09:00:00Z"}]`,
		"missing created": `[{"id": "a"}]`,
		"not json":        `{`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(data), ".json"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFind(t *testing.T) {
	src := Static{{ID: "a1"}, {ID: "a2"}}
	a, err := Find(context.Background(), src, "a2")
	if err != nil || a.ID != "a2" {
		t.Errorf("expected a2, got %+v, %v", a, err)
	}
	if _, err := Find(context.Background(), src, "zz"); err == nil {
		t.Error("expected not found error")
	}
}
