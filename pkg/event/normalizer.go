package event

import (
	"strings"
	"time"

	"github.com/gridcal/gridcal/pkg/source"
)

// Layouts a source may use for event boundaries. Date-only values mark
// the boundary as carrying no time-of-day component.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

const dateOnlyLayout = "2006-01-02"

// Normalize converts one raw record into the canonical Event. It is a
// total function: unparsable or missing temporal fields fall back to now
// so a single malformed record can never halt a refresh cycle. An event
// is all-day iff neither boundary carried a time component.
func Normalize(raw source.RawEvent, src source.Source, now time.Time) Event {
	startVal, startHasTime := boundary(raw, "start")
	endVal, endHasTime := boundary(raw, "end")

	start, startParsedTime := parseInstant(startVal, now)
	end, endParsedTime := parseInstant(endVal, now)

	hasTime := startHasTime || endHasTime || startParsedTime || endParsedTime
	if end.Before(start) {
		end = start
	}

	color := src.Color
	if strings.TrimSpace(color) == "" {
		color = DefaultColor
	}

	return Event{
		Start:       start,
		End:         end,
		AllDay:      !hasTime,
		Title:       stringField(raw, "summary", PlaceholderTitle),
		Location:    stringField(raw, "location", ""),
		Description: stringField(raw, "description", ""),
		Color:       color,
		SourceID:    src.ID,
		SourceName:  src.DisplayName(),
	}
}

// boundary resolves a start/end field that may be a nested object with
// "dateTime"/"date" members or a plain string. The second result is true
// when the record explicitly used a dateTime member.
func boundary(raw source.RawEvent, field string) (string, bool) {
	switch v := raw[field].(type) {
	case map[string]any:
		if s, ok := v["dateTime"].(string); ok && s != "" {
			return s, true
		}
		if s, ok := v["date"].(string); ok && s != "" {
			return s, false
		}
		return "", false
	case string:
		return v, false
	default:
		return "", false
	}
}

// parseInstant parses a boundary string. The second result is true when
// the parsed value carried a time-of-day component.
func parseInstant(s string, now time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t, true
		}
	}
	if t, err := time.ParseInLocation(dateOnlyLayout, s, now.Location()); err == nil {
		return t, false
	}
	// Unparsable: fall back to now, keeping the "T" marker as the
	// time-of-day signal the value claimed to carry.
	return now, strings.Contains(s, "T")
}

func stringField(raw source.RawEvent, field, fallback string) string {
	if s, ok := raw[field].(string); ok && s != "" {
		return s
	}
	return fallback
}
