package sla

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

var base = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := base.Add(d)
	return &t
}

func TestNoDeadline(t *testing.T) {
	info := Calculate(nil, base, base.Add(time.Hour))
	if info.Status != StatusNone {
		t.Errorf("expected none, got %s", info.Status)
	}
	if !math.IsInf(info.HoursRemaining, 1) {
		t.Errorf("expected +Inf hours, got %v", info.HoursRemaining)
	}
	if info.PercentRemaining != 100 {
		t.Errorf("expected 100%%, got %v", info.PercentRemaining)
	}
	if info.Text != "No SLA" {
		t.Errorf("expected 'No SLA', got %q", info.Text)
	}
}

func TestAtRiskWithFortyEightHourWindow(t *testing.T) {
	info := Calculate(at(48*time.Hour), base, base.Add(40*time.Hour))
	if info.Status != StatusAtRisk {
		t.Errorf("expected at_risk, got %s", info.Status)
	}
	if math.Abs(info.PercentRemaining-16.6667) > 0.01 {
		t.Errorf("expected ~16.7%%, got %v", info.PercentRemaining)
	}
	if info.Text != "8h 0m" {
		t.Errorf("expected '8h 0m', got %q", info.Text)
	}
	if info.HoursRemaining != 8 {
		t.Errorf("expected 8 hours, got %v", info.HoursRemaining)
	}
}

func TestAtRiskWithTwentyFourHourWindow(t *testing.T) {
	info := Calculate(at(24*time.Hour), base, base.Add(20*time.Hour))
	if info.Status != StatusAtRisk {
		t.Errorf("expected at_risk, got %s", info.Status)
	}
	if info.Text != "4h 0m" {
		t.Errorf("expected '4h 0m', got %q", info.Text)
	}
}

func TestOnTrack(t *testing.T) {
	info := Calculate(at(72*time.Hour), base, base.Add(2*time.Hour))
	if info.Status != StatusOnTrack {
		t.Errorf("expected on_track, got %s", info.Status)
	}
	if info.Text != "2d 22h" {
		t.Errorf("expected '2d 22h', got %q", info.Text)
	}
}

func TestBreachedForPastDeadlines(t *testing.T) {
	deadline := at(10 * time.Hour)
	for _, after := range []time.Duration{0, time.Minute, 3 * time.Hour, 50 * time.Hour} {
		info := Calculate(deadline, base, deadline.Add(after))
		if info.Status != StatusBreached {
			t.Errorf("+%s: expected breached, got %s", after, info.Status)
		}
		if info.HoursRemaining > 0 {
			t.Errorf("+%s: expected hours <= 0, got %v", after, info.HoursRemaining)
		}
		if info.PercentRemaining != 0 {
			t.Errorf("+%s: expected 0%%, got %v", after, info.PercentRemaining)
		}
	}
}

func TestPercentClampedWhenEvaluatedBeforeCreation(t *testing.T) {
	info := Calculate(at(10*time.Hour), base, base.Add(-5*time.Hour))
	if info.PercentRemaining != 100 {
		t.Errorf("expected clamp to 100, got %v", info.PercentRemaining)
	}
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{45 * time.Minute, "45m"},
		{59*time.Minute + 59*time.Second, "59m"},
		{time.Hour, "1h 0m"},
		{5*time.Hour + 30*time.Minute, "5h 30m"},
		{24 * time.Hour, "1d 0h"},
		{51 * time.Hour, "2d 3h"},
		{0, "0h overdue"},
		{-3 * time.Hour, "3h overdue"},
		{-23*time.Hour - 59*time.Minute, "23h overdue"},
		{-24 * time.Hour, "1d overdue"},
		{-80 * time.Hour, "3d overdue"},
	}
	for _, tt := range tests {
		if got := FormatRemaining(tt.d); got != tt.want {
			t.Errorf("FormatRemaining(%s) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestUrgencyOrdersBreachedFirst(t *testing.T) {
	breached := Calculate(at(time.Hour), base, base.Add(5*time.Hour))
	soon := Calculate(at(10*time.Hour), base, base.Add(5*time.Hour))
	none := Calculate(nil, base, base)
	if !(breached.Urgency() < soon.Urgency() && soon.Urgency() < none.Urgency()) {
		t.Errorf("unexpected ordering: %v %v %v", breached.Urgency(), soon.Urgency(), none.Urgency())
	}
}

func TestMarshalNoDeadline(t *testing.T) {
	data, err := json.Marshal(Calculate(nil, base, base))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"status":"none","text":"No SLA","hours_remaining":null,"percent_remaining":100}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestOverdue(t *testing.T) {
	if !Calculate(at(time.Hour), base, base.Add(3*time.Hour)).Overdue() {
		t.Error("expected breached info to be overdue")
	}
	if Calculate(at(48*time.Hour), base, base.Add(40*time.Hour)).Overdue() {
		t.Error("at_risk info must not be overdue")
	}
	if Calculate(nil, base, base).Overdue() {
		t.Error("info without deadline must not be overdue")
	}
}

func TestNowUsesWallClock(t *testing.T) {
	created := time.Now().Add(-time.Hour)
	past := time.Now().Add(-time.Minute)
	if info := Now(&past, created); info.Status != StatusBreached {
		t.Errorf("expected breached for past deadline, got %s", info.Status)
	}
	future := time.Now().Add(100 * time.Hour)
	if info := Now(&future, created); info.Status != StatusOnTrack {
		t.Errorf("expected on_track for distant deadline, got %s", info.Status)
	}
}
