package model

import "time"

// Severity ranks how urgent an alert is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank orders severities from most (0) to least urgent. Unknown values sort last.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	default:
		return 4
	}
}

// Category groups alerts by the kind of customer signal they carry.
type Category string

const (
	CategoryRisk           Category = "risk"
	CategoryOpportunity    Category = "opportunity"
	CategoryActionRequired Category = "action_required"
	CategoryInformational  Category = "informational"
)

// Alert is a record as received from the alert feed. The engine never mutates it.
type Alert struct {
	ID          string     `json:"id" yaml:"id"`
	Type        string     `json:"type" yaml:"type"`
	Severity    Severity   `json:"severity" yaml:"severity"`
	Category    Category   `json:"category" yaml:"category"`
	AccountID   string     `json:"account_id" yaml:"account_id"`
	Title       string     `json:"title,omitempty" yaml:"title,omitempty"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
	SLADeadline *time.Time `json:"sla_deadline,omitempty" yaml:"sla_deadline,omitempty"`
	ARRAtRisk   *float64   `json:"arr_at_risk,omitempty" yaml:"arr_at_risk,omitempty"`
}

// Actor identifies who performed an operation.
type Actor struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// IsZero reports whether the actor carries no identity.
func (a Actor) IsZero() bool {
	return a.ID == ""
}
