package google

import (
	"testing"

	"github.com/stretchr/testify/assert"
	gcal "google.golang.org/api/calendar/v3"
)

func TestRawFromGoogleEvent(t *testing.T) {
	t.Run("timed event keeps dateTime boundaries", func(t *testing.T) {
		raw := rawFromGoogleEvent(&gcal.Event{
			Summary:  "Standup",
			Location: "Meet",
			Start:    &gcal.EventDateTime{DateTime: "2025-06-18T09:00:00+02:00"},
			End:      &gcal.EventDateTime{DateTime: "2025-06-18T09:15:00+02:00"},
		})

		assert.Equal(t, "Standup", raw["summary"])
		assert.Equal(t, "Meet", raw["location"])
		assert.Equal(t, map[string]any{"dateTime": "2025-06-18T09:00:00+02:00"}, raw["start"])
		assert.Equal(t, map[string]any{"dateTime": "2025-06-18T09:15:00+02:00"}, raw["end"])
	})

	t.Run("all-day event keeps date boundaries", func(t *testing.T) {
		raw := rawFromGoogleEvent(&gcal.Event{
			Summary: "Vacation",
			Start:   &gcal.EventDateTime{Date: "2025-06-19"},
			End:     &gcal.EventDateTime{Date: "2025-06-21"},
		})

		assert.Equal(t, map[string]any{"date": "2025-06-19"}, raw["start"])
		assert.Equal(t, map[string]any{"date": "2025-06-21"}, raw["end"])
	})

	t.Run("missing boundaries stay absent", func(t *testing.T) {
		raw := rawFromGoogleEvent(&gcal.Event{Summary: "Broken"})
		_, hasStart := raw["start"]
		_, hasEnd := raw["end"]
		assert.False(t, hasStart)
		assert.False(t, hasEnd)
	})
}
