package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const MinutesPerDay = 1440

// StartOfDay returns t truncated to local midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddDays shifts t by the given number of calendar days, preserving the
// local clock time across DST transitions.
func AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

// DayKey formats t as the canonical "YYYY-MM-DD" date key used for
// per-day forecast and bucket lookups.
func DayKey(t time.Time) string {
	return StartOfDay(t).Format("2006-01-02")
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// MinutesIntoDay returns the number of minutes between dayStart and t.
// The result may be negative or exceed MinutesPerDay; callers clamp.
func MinutesIntoDay(t, dayStart time.Time) float64 {
	return t.Sub(dayStart).Minutes()
}

// Clamp limits n to the inclusive range [lo, hi].
func Clamp(n, lo, hi float64) float64 {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// ClampInt limits n to the inclusive range [lo, hi].
func ClampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// ParseClock parses an "HH:MM:SS" wall-clock string into minutes from
// midnight. Seconds contribute fractionally.
func ParseClock(s string) (float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid clock time %q: expected HH:MM:SS", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		if len(p) != 2 {
			return 0, fmt.Errorf("invalid clock time %q: expected HH:MM:SS", s)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
		}
		nums[i] = n
	}
	if nums[0] > 23 || nums[1] > 59 || nums[2] > 59 {
		return 0, fmt.Errorf("invalid clock time %q: out of range", s)
	}
	return float64(nums[0])*60 + float64(nums[1]) + float64(nums[2])/60, nil
}
