package weather

import (
	"context"
	"strconv"
	"time"

	"github.com/gridcal/gridcal/pkg/timeutil"
)

// Granularity selects the forecast resolution requested from a provider.
type Granularity string

const (
	Daily  Granularity = "daily"
	Hourly Granularity = "hourly"
)

// DefaultCondition stands in for a day without any condition label.
const DefaultCondition = "-"

// RawForecastItem is one forecast record as the provider returned it.
// Providers disagree on field names; the synonym lookups below are the
// only place that variance is handled.
type RawForecastItem map[string]any

// ForecastDay is the canonical per-day forecast.
type ForecastDay struct {
	High                     *float64
	Low                      *float64
	Condition                string
	PrecipitationProbability *float64
}

// Client is the provider boundary for forecasts. Forecast requests a
// daily or hourly series; StaticForecast reads whatever forecast array
// the entity's last known attributes carry (tier 3).
type Client interface {
	Forecast(ctx context.Context, entityID string, granularity Granularity) ([]RawForecastItem, error)
	StaticForecast(ctx context.Context, entityID string) ([]RawForecastItem, error)
	TemperatureUnit(ctx context.Context, entityID string) (string, error)
}

// itemTime resolves a forecast item's timestamp across the field synonyms
// providers use. Unix-second fields are supported; anything unusable
// falls back to now.
func itemTime(item RawForecastItem, now time.Time) time.Time {
	for _, field := range []string{"datetime", "date", "time"} {
		s, ok := item[field].(string)
		if !ok || s == "" {
			continue
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
				return t
			}
		}
	}
	for _, field := range []string{"dt", "timestamp"} {
		if n, ok := numValue(item[field]); ok {
			return time.Unix(int64(n), 0).In(now.Location())
		}
	}
	return now
}

// numField returns the first numeric value among the given synonyms.
func numField(item RawForecastItem, fields ...string) *float64 {
	for _, f := range fields {
		if n, ok := numValue(item[f]); ok {
			return &n
		}
	}
	return nil
}

func numValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func conditionField(item RawForecastItem) string {
	for _, f := range []string{"condition", "condition_description", "symbol", "state"} {
		if s, ok := item[f].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

var (
	highFields   = []string{"temperature", "temperature_high", "temp"}
	lowFields    = []string{"templow", "temperature_low"}
	precipFields = []string{"precipitation_probability", "precipitation_chance"}
)

// normalizeItems converts a daily-granularity series into the canonical
// per-day mapping. Later items for the same day replace earlier ones.
func normalizeItems(items []RawForecastItem, now time.Time) map[string]ForecastDay {
	out := make(map[string]ForecastDay, len(items))
	for _, item := range items {
		key := timeutil.DayKey(itemTime(item, now))
		cond := conditionField(item)
		if cond == "" {
			cond = DefaultCondition
		}
		out[key] = ForecastDay{
			High:                     numField(item, highFields...),
			Low:                      numField(item, lowFields...),
			Condition:                cond,
			PrecipitationProbability: numField(item, precipFields...),
		}
	}
	return out
}
