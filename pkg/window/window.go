package window

import (
	"time"

	"github.com/gridcal/gridcal/pkg/timeutil"
)

// DaysVisible is the fixed span of the visible grid.
const DaysVisible = 7

// Policy controls how the window anchor relates to "today".
type Policy struct {
	// StartToday anchors the window at today's local midnight. When false
	// the window starts at the most recent FirstDay weekday.
	StartToday bool
	// FirstDay is the weekday the window starts on (0 = Sunday). Any
	// integer is accepted and normalized modulo 7.
	FirstDay int
}

func (p Policy) normalizedFirstDay() int {
	return ((p.FirstDay % 7) + 7) % 7
}

// Window is the visible 7-day span.
type Window struct {
	Anchor     time.Time
	WeekOffset int
}

// ComputeAnchor returns the local-midnight start date of the visible
// window for the given policy, shifted by weekOffset whole weeks.
func ComputeAnchor(today time.Time, policy Policy, weekOffset int) time.Time {
	base := timeutil.StartOfDay(today)
	if !policy.StartToday {
		back := (int(base.Weekday()) + 7 - policy.normalizedFirstDay()) % 7
		base = timeutil.AddDays(base, -back)
	}
	return timeutil.AddDays(base, weekOffset*DaysVisible)
}

// New builds the window for today under the given policy and offset.
func New(today time.Time, policy Policy, weekOffset int) Window {
	return Window{
		Anchor:     ComputeAnchor(today, policy, weekOffset),
		WeekOffset: weekOffset,
	}
}

// DayStart returns local midnight of visible day i (0-based).
func (w Window) DayStart(i int) time.Time {
	return timeutil.AddDays(w.Anchor, i)
}

// End returns the exclusive end of the window.
func (w Window) End() time.Time {
	return timeutil.AddDays(w.Anchor, DaysVisible)
}

// Days lists the midnight of every visible day in order.
func (w Window) Days() []time.Time {
	days := make([]time.Time, DaysVisible)
	for i := range days {
		days[i] = w.DayStart(i)
	}
	return days
}

// Contains reports whether t falls inside the visible span.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Anchor) && t.Before(w.End())
}
