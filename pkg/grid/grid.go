package grid

import (
	"time"

	"github.com/gridcal/gridcal/pkg/event"
	"github.com/gridcal/gridcal/pkg/timeutil"
	"github.com/gridcal/gridcal/pkg/window"
)

// PlacedEvent is a timed event resolved to a visual lane within one day.
// Offset and duration are clamped to the day's [0, 1440) minute range.
type PlacedEvent struct {
	Event           event.Event
	OffsetMinutes   float64
	DurationMinutes float64
	Lane            int
	// LaneCount is shared by every placement in the day so horizontal
	// space can be divided evenly.
	LaneCount int
}

// DayBucket holds one visible day's events, rebuilt wholesale per fetch.
type DayBucket struct {
	Date         time.Time
	AllDayEvents []event.Event
	TimedLayouts []PlacedEvent
}

// Bucket partitions events across the window's 7 days and lays out each
// day's timed events into non-overlapping lanes. All-day events keep
// source-fetch order; showAllDay=false drops them entirely.
func Bucket(events []event.Event, w window.Window, showAllDay bool) []DayBucket {
	buckets := make([]DayBucket, window.DaysVisible)

	for d := 0; d < window.DaysVisible; d++ {
		dayStart := w.DayStart(d)
		dayEnd := timeutil.AddDays(dayStart, 1)

		bucket := DayBucket{
			Date:         dayStart,
			AllDayEvents: []event.Event{},
		}
		var timed []event.Event

		for _, ev := range events {
			if !belongsToDay(ev, dayStart, dayEnd) {
				continue
			}
			if ev.AllDay {
				if showAllDay {
					bucket.AllDayEvents = append(bucket.AllDayEvents, ev)
				}
			} else {
				timed = append(timed, ev)
			}
		}

		bucket.TimedLayouts = assignLanes(timed, dayStart)
		buckets[d] = bucket
	}

	return buckets
}

// belongsToDay applies half-open interval membership. An all-day event's
// effective end is pulled back one millisecond so an exclusive date-only
// end does not bleed into the following day.
func belongsToDay(ev event.Event, dayStart, dayEnd time.Time) bool {
	end := ev.End
	if ev.AllDay {
		end = end.Add(-time.Millisecond)
	}
	return end.After(dayStart) && ev.Start.Before(dayEnd)
}
