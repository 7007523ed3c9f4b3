package weather

import (
	"context"
	"sort"
	"time"

	"github.com/gridcal/gridcal/pkg/timeutil"
	log "github.com/sirupsen/logrus"
)

// Tier names the fallback stage that produced a forecast.
type Tier string

const (
	TierDaily      Tier = "daily"
	TierHourly     Tier = "hourly-aggregated"
	TierAttributes Tier = "attributes"
	TierNone       Tier = "none"
)

// Resolver fetches and normalizes a forecast for one entity with a
// three-tier fallback: daily series, hourly series aggregated to daily,
// then the entity's static attribute forecast. Every tier failure is
// swallowed; an exhausted chain yields an empty mapping, never an error,
// because forecast absence must not block the event grid.
type Resolver struct {
	client Client
	clock  timeutil.Clock
}

func NewResolver(client Client, clock timeutil.Clock) *Resolver {
	return &Resolver{client: client, clock: clock}
}

// Fetch returns the per-day forecast mapping and the tier that served it.
func (r *Resolver) Fetch(ctx context.Context, entityID string, daysWanted int) (map[string]ForecastDay, Tier) {
	now := r.clock.Now()

	daily, err := r.client.Forecast(ctx, entityID, Daily)
	if err != nil {
		log.Debugf("daily forecast for %s failed: %v", entityID, err)
	} else if len(daily) > 0 {
		return normalizeItems(daily, now), TierDaily
	}

	hourly, err := r.client.Forecast(ctx, entityID, Hourly)
	if err != nil {
		log.Debugf("hourly forecast for %s failed: %v", entityID, err)
	} else if len(hourly) > 0 {
		return normalizeItems(aggregateHourly(hourly, daysWanted, now), now), TierHourly
	}

	static, err := r.client.StaticForecast(ctx, entityID)
	if err != nil {
		log.Debugf("attribute forecast for %s failed: %v", entityID, err)
	} else if len(static) > 0 {
		return normalizeItems(static, now), TierAttributes
	}

	return map[string]ForecastDay{}, TierNone
}

// TemperatureUnit returns the entity's display unit, defaulting to "°".
func (r *Resolver) TemperatureUnit(ctx context.Context, entityID string) string {
	unit, err := r.client.TemperatureUnit(ctx, entityID)
	if err != nil || unit == "" {
		return "°"
	}
	return unit
}

// aggregateHourly groups hourly samples into synthetic daily items: high
// is the max observed temperature, low the min, condition the mode of the
// day's labels (ties broken by first appearance), precipitation the max.
// Days before today are dropped; days are emitted in ascending order up
// to daysWanted.
func aggregateHourly(hourly []RawForecastItem, daysWanted int, now time.Time) []RawForecastItem {
	todayKey := timeutil.DayKey(now)
	byDay := map[string][]RawForecastItem{}
	for _, item := range hourly {
		key := timeutil.DayKey(itemTime(item, now))
		if key < todayKey {
			continue
		}
		byDay[key] = append(byDay[key], item)
	}

	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]RawForecastItem, 0, len(keys))
	for _, key := range keys {
		samples := byDay[key]

		var hi, lo, pp *float64
		var conds []string
		for _, s := range samples {
			if t := numField(s, highFields...); t != nil {
				if hi == nil || *t > *hi {
					hi = t
				}
				if lo == nil || *t < *lo {
					lo = t
				}
			}
			if c := conditionField(s); c != "" {
				conds = append(conds, c)
			}
			if p := numField(s, precipFields...); p != nil {
				if pp == nil || *p > *pp {
					pp = p
				}
			}
		}

		item := RawForecastItem{
			"datetime":  key + "T12:00:00",
			"condition": mode(conds),
		}
		if hi != nil {
			item["temperature"] = *hi
		}
		if lo != nil {
			item["templow"] = *lo
		}
		if pp != nil {
			item["precipitation_probability"] = *pp
		}
		out = append(out, item)

		if len(out) >= daysWanted {
			break
		}
	}
	return out
}

// mode returns the most frequent value; ties go to the value seen first.
func mode(values []string) string {
	if len(values) == 0 {
		return ""
	}
	counts := map[string]int{}
	order := map[string]int{}
	for i, v := range values {
		if _, seen := counts[v]; !seen {
			order[v] = i
		}
		counts[v]++
	}
	best := values[0]
	for v, n := range counts {
		if n > counts[best] || (n == counts[best] && order[v] < order[best]) {
			best = v
		}
	}
	return best
}
