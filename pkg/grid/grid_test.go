package grid

import (
	"testing"
	"time"

	"github.com/gridcal/gridcal/pkg/event"
	"github.com/gridcal/gridcal/pkg/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var anchor = time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC) // Monday

func testWindow() window.Window {
	return window.Window{Anchor: anchor}
}

func timedEvent(title string, start, end time.Time) event.Event {
	return event.Event{Start: start, End: end, Title: title}
}

func allDayEvent(title string, start, end time.Time) event.Event {
	return event.Event{Start: start, End: end, Title: title, AllDay: true}
}

func TestBucketExactDaySpan(t *testing.T) {
	// An event spanning exactly [day3 00:00, day4 00:00) belongs to day 3
	// only, never day 4.
	day3 := anchor.AddDate(0, 0, 3)
	day4 := anchor.AddDate(0, 0, 4)

	t.Run("timed", func(t *testing.T) {
		buckets := Bucket([]event.Event{timedEvent("span", day3, day4)}, testWindow(), true)
		assert.Len(t, buckets[3].TimedLayouts, 1)
		assert.Empty(t, buckets[4].TimedLayouts)
	})

	t.Run("all-day with exclusive end", func(t *testing.T) {
		buckets := Bucket([]event.Event{allDayEvent("span", day3, day4)}, testWindow(), true)
		assert.Len(t, buckets[3].AllDayEvents, 1)
		assert.Empty(t, buckets[4].AllDayEvents)
	})
}

func TestBucketMultiDayAllDay(t *testing.T) {
	// Two-day all-day event (exclusive end) lands in exactly two buckets.
	ev := allDayEvent("trip", anchor.AddDate(0, 0, 1), anchor.AddDate(0, 0, 3))
	buckets := Bucket([]event.Event{ev}, testWindow(), true)

	assert.Empty(t, buckets[0].AllDayEvents)
	assert.Len(t, buckets[1].AllDayEvents, 1)
	assert.Len(t, buckets[2].AllDayEvents, 1)
	assert.Empty(t, buckets[3].AllDayEvents)
}

func TestBucketShowAllDayDisabled(t *testing.T) {
	ev := allDayEvent("hidden", anchor, anchor.AddDate(0, 0, 1))
	buckets := Bucket([]event.Event{ev}, testWindow(), false)

	for _, b := range buckets {
		assert.Empty(t, b.AllDayEvents)
	}
}

func TestBucketPreservesAllDayOrder(t *testing.T) {
	first := allDayEvent("first", anchor, anchor.AddDate(0, 0, 1))
	second := allDayEvent("second", anchor, anchor.AddDate(0, 0, 1))

	buckets := Bucket([]event.Event{first, second}, testWindow(), true)
	require.Len(t, buckets[0].AllDayEvents, 2)
	assert.Equal(t, "first", buckets[0].AllDayEvents[0].Title)
	assert.Equal(t, "second", buckets[0].AllDayEvents[1].Title)
}

func TestBucketCrossDayTimedEventIsClamped(t *testing.T) {
	// 23:00 Monday to 01:00 Tuesday shows in both days, clamped to each
	// day's minute range.
	ev := timedEvent("overnight", anchor.Add(23*time.Hour), anchor.Add(25*time.Hour))
	buckets := Bucket([]event.Event{ev}, testWindow(), true)

	require.Len(t, buckets[0].TimedLayouts, 1)
	mon := buckets[0].TimedLayouts[0]
	assert.Equal(t, 1380.0, mon.OffsetMinutes)
	assert.Equal(t, 60.0, mon.DurationMinutes)

	require.Len(t, buckets[1].TimedLayouts, 1)
	tue := buckets[1].TimedLayouts[0]
	assert.Equal(t, 0.0, tue.OffsetMinutes)
	assert.Equal(t, 60.0, tue.DurationMinutes)
}

func TestBucketOutsideWindowExcluded(t *testing.T) {
	before := timedEvent("before", anchor.Add(-2*time.Hour), anchor.Add(-time.Hour))
	after := timedEvent("after", anchor.AddDate(0, 0, 7), anchor.AddDate(0, 0, 7).Add(time.Hour))

	buckets := Bucket([]event.Event{before, after}, testWindow(), true)
	for _, b := range buckets {
		assert.Empty(t, b.TimedLayouts)
		assert.Empty(t, b.AllDayEvents)
	}
}
