package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/dailies/internal/constants"
)

// DayKey returns the canonical YYYY-MM-DD key for t in the process local
// timezone. Every per-day record is addressed through this function; keys
// must never be derived from the UTC date.
func DayKey(t time.Time) string {
	return DayKeyIn(t, time.Local)
}

// DayKeyIn returns the YYYY-MM-DD key for t's calendar date in loc.
func DayKeyIn(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(constants.DateFormat)
}

// ParseDayKey parses a YYYY-MM-DD key and returns midnight of that day in loc.
func ParseDayKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(constants.DateFormat, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", key)
	}
	return t, nil
}

// ResolveDay returns the day key for a user-supplied date, or today's key when
// the input is empty.
func ResolveDay(input string, loc *time.Location) (string, error) {
	if input == "" {
		return DayKeyIn(time.Now(), loc), nil
	}
	t, err := ParseDayKey(input, loc)
	if err != nil {
		return "", err
	}
	return DayKeyIn(t, loc), nil
}

// StartOfDay returns local midnight of t's calendar date in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DayRange returns the day keys from start to end inclusive, oldest first.
func DayRange(start, end time.Time, loc *time.Location) []string {
	start = StartOfDay(start, loc)
	end = StartOfDay(end, loc)
	var keys []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		keys = append(keys, DayKeyIn(d, loc))
	}
	return keys
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == constants.DefaultTimezone {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}
