// Package sla derives service-level urgency from an alert's deadline.
// Results depend on the evaluation instant and are never cached.
package sla

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Status classifies how close an alert is to its SLA deadline.
type Status string

const (
	StatusOnTrack  Status = "on_track"
	StatusAtRisk   Status = "at_risk"
	StatusBreached Status = "breached"
	StatusNone     Status = "none"
)

// AtRiskPercent is the remaining-window share at or below which an alert is at risk.
const AtRiskPercent = 25.0

// Info is the derived SLA view of one alert at one instant.
type Info struct {
	Status           Status  `json:"status"`
	Text             string  `json:"text"`
	HoursRemaining   float64 `json:"hours_remaining"`
	PercentRemaining float64 `json:"percent_remaining"`
}

// MarshalJSON encodes an infinite HoursRemaining as null, which JSON
// cannot otherwise represent.
func (i Info) MarshalJSON() ([]byte, error) {
	type wire struct {
		Status           Status   `json:"status"`
		Text             string   `json:"text"`
		HoursRemaining   *float64 `json:"hours_remaining"`
		PercentRemaining float64  `json:"percent_remaining"`
	}
	w := wire{Status: i.Status, Text: i.Text, PercentRemaining: i.PercentRemaining}
	if !math.IsInf(i.HoursRemaining, 0) && !math.IsNaN(i.HoursRemaining) {
		h := i.HoursRemaining
		w.HoursRemaining = &h
	}
	return json.Marshal(w)
}

// Overdue reports whether the deadline has passed.
func (i Info) Overdue() bool {
	return i.Status == StatusBreached
}

// Calculate evaluates the SLA window [createdAt, deadline] at now.
// A nil deadline yields StatusNone with infinite hours remaining.
func Calculate(deadline *time.Time, createdAt, now time.Time) Info {
	if deadline == nil {
		return Info{
			Status:           StatusNone,
			Text:             "No SLA",
			HoursRemaining:   math.Inf(1),
			PercentRemaining: 100,
		}
	}

	total := deadline.Sub(createdAt)
	remaining := deadline.Sub(now)

	var percent float64
	if total > 0 {
		percent = float64(remaining) / float64(total) * 100
	}
	percent = clamp(percent, 0, 100)

	status := StatusOnTrack
	switch {
	case remaining <= 0:
		status = StatusBreached
	case percent <= AtRiskPercent:
		status = StatusAtRisk
	}

	return Info{
		Status:           status,
		Text:             FormatRemaining(remaining),
		HoursRemaining:   remaining.Hours(),
		PercentRemaining: percent,
	}
}

// Now is Calculate evaluated at the current wall-clock time.
func Now(deadline *time.Time, createdAt time.Time) Info {
	return Calculate(deadline, createdAt, time.Now())
}

// FormatRemaining renders a signed duration as "2d 4h", "8h 0m", "45m" or,
// when not positive, "3d overdue" / "5h overdue".
func FormatRemaining(d time.Duration) string {
	if d <= 0 {
		over := -d
		if over >= 24*time.Hour {
			return fmt.Sprintf("%dd overdue", int(over/(24*time.Hour)))
		}
		return fmt.Sprintf("%dh overdue", int(over/time.Hour))
	}

	days := int(d / (24 * time.Hour))
	hours := int(d % (24 * time.Hour) / time.Hour)
	minutes := int(d % time.Hour / time.Minute)

	switch {
	case d >= 24*time.Hour:
		return fmt.Sprintf("%dd %dh", days, hours)
	case d >= time.Hour:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// Urgency orders infos for triage: breached first, then by least time left.
// Lower values are more urgent.
func (i Info) Urgency() float64 {
	if i.Status == StatusNone {
		return math.Inf(1)
	}
	return i.HoursRemaining
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
