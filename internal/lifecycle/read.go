package lifecycle

import (
	"sort"
	"time"

	"github.com/ppiankov/alertflow/internal/model"
	"github.com/ppiankov/alertflow/internal/playbook"
	"github.com/ppiankov/alertflow/internal/sla"
)

// State returns the stored state of alertID and whether one exists.
func (c *Controller) State(alertID string) (model.AlertState, bool) {
	return c.stores.States.Get(alertID)
}

// States returns every stored state sorted by alert ID.
func (c *Controller) States() []model.AlertState {
	return c.stores.States.List()
}

// Notes returns the notes of alertID, newest first.
func (c *Controller) Notes(alertID string) []model.Note {
	return c.stores.Notes.ForAlert(alertID)
}

// ActionLog returns the action history of alertID, newest first.
func (c *Controller) ActionLog(alertID string) []model.ActionLogEntry {
	return c.stores.ActionLog.ForAlert(alertID)
}

// Recommended returns the catalog playbook for alertType, or nil.
func (c *Controller) Recommended(alertType string) *playbook.Definition {
	return c.catalog.Recommended(alertType)
}

// Enriched is an Alert combined with its local state and SLA view at one instant.
type Enriched struct {
	Alert           model.Alert          `json:"alert"`
	State           model.AlertState     `json:"state"`
	EffectiveStatus model.Status         `json:"effective_status"`
	SLA             sla.Info             `json:"sla"`
	Recommended     *playbook.Definition `json:"recommended_playbook,omitempty"`
}

// Enrich overlays the stored state (or the implicit open state) and the SLA
// evaluated at now onto a feed alert.
func (c *Controller) Enrich(a model.Alert, now time.Time) Enriched {
	st, ok := c.stores.States.Get(a.ID)
	if !ok {
		st = model.NewAlertState(a.ID)
	}
	return enrich(a, st, now, c.catalog)
}

// Inbox enriches alerts and orders them for triage: actionable before
// snoozed before resolved, then by SLA urgency, then by severity.
func (c *Controller) Inbox(alerts []model.Alert, now time.Time) []Enriched {
	states := c.stores.States.All()
	out := make([]Enriched, 0, len(alerts))
	for _, a := range alerts {
		st, ok := states[a.ID]
		if !ok {
			st = model.NewAlertState(a.ID)
		}
		out = append(out, enrich(a, st, now, c.catalog))
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := statusRank(out[i].EffectiveStatus), statusRank(out[j].EffectiveStatus)
		if ri != rj {
			return ri < rj
		}
		ui, uj := out[i].SLA.Urgency(), out[j].SLA.Urgency()
		if ui != uj {
			return ui < uj
		}
		return out[i].Alert.Severity.Rank() < out[j].Alert.Severity.Rank()
	})
	return out
}

func enrich(a model.Alert, st model.AlertState, now time.Time, catalog *playbook.Catalog) Enriched {
	return Enriched{
		Alert:           a,
		State:           st,
		EffectiveStatus: st.EffectiveStatus(now),
		SLA:             sla.Calculate(a.SLADeadline, a.CreatedAt, now),
		Recommended:     catalog.Recommended(a.Type),
	}
}

func statusRank(s model.Status) int {
	switch s {
	case model.StatusOpen:
		return 0
	case model.StatusAcknowledged, model.StatusInProgress:
		return 1
	case model.StatusSnoozed:
		return 2
	default:
		return 3
	}
}
