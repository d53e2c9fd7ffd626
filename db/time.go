package db

import (
	"time"

	"github.com/pkg/errors"
)

// TimeLayout is the stored form of every timestamp: fixed width, UTC,
// millisecond precision, so text ordering matches time ordering.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Now returns the current time at storage precision
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// FormatTime renders t in the stored layout
func FormatTime(t time.Time) string {
	return t.UTC().Truncate(time.Millisecond).Format(TimeLayout)
}

// ParseTime parses a stored or imported ISO-8601 timestamp
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid timestamp %q", s)
	}
	return t.UTC(), nil
}
