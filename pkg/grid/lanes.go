package grid

import (
	"sort"
	"time"

	"github.com/gridcal/gridcal/pkg/event"
	"github.com/gridcal/gridcal/pkg/timeutil"
)

// assignLanes places one day's timed events into non-overlapping lanes
// using greedy interval coloring: sort by offset ascending (longer events
// first on ties, so they claim a lane before shorter ones sharing the
// start), then put each event into the first lane whose last end time is
// at or before the event's offset.
func assignLanes(events []event.Event, dayStart time.Time) []PlacedEvent {
	placed := make([]PlacedEvent, 0, len(events))
	for _, ev := range events {
		offset, duration := clampToDay(ev, dayStart)
		placed = append(placed, PlacedEvent{
			Event:           ev,
			OffsetMinutes:   offset,
			DurationMinutes: duration,
		})
	}

	sort.SliceStable(placed, func(i, j int) bool {
		if placed[i].OffsetMinutes != placed[j].OffsetMinutes {
			return placed[i].OffsetMinutes < placed[j].OffsetMinutes
		}
		return placed[i].DurationMinutes > placed[j].DurationMinutes
	})

	var laneEnds []float64
	for i := range placed {
		ev := &placed[i]
		lane := -1
		for l, end := range laneEnds {
			if ev.OffsetMinutes >= end {
				lane = l
				break
			}
		}
		if lane < 0 {
			laneEnds = append(laneEnds, 0)
			lane = len(laneEnds) - 1
		}
		laneEnds[lane] = ev.OffsetMinutes + ev.DurationMinutes
		ev.Lane = lane
	}

	laneCount := len(laneEnds)
	if laneCount < 1 {
		laneCount = 1
	}
	for i := range placed {
		placed[i].LaneCount = laneCount
	}
	return placed
}

// clampToDay maps an event onto the day's minute range: offset in
// [0, 1440), duration at least one minute, offset+duration at most 1440.
func clampToDay(ev event.Event, dayStart time.Time) (offset, duration float64) {
	offset = timeutil.Clamp(timeutil.MinutesIntoDay(ev.Start, dayStart), 0, timeutil.MinutesPerDay-1)
	bottom := timeutil.MinutesIntoDay(ev.End, dayStart)
	if bottom < offset+1 {
		bottom = offset + 1
	}
	if bottom > timeutil.MinutesPerDay {
		bottom = timeutil.MinutesPerDay
	}
	return offset, bottom - offset
}
