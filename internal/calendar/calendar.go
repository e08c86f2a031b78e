package calendar

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the YYYY-MM-DD form used for project dates.
const DateLayout = "2006-01-02"

const day = 24 * time.Hour

// DayOffsetToDate returns the calendar date offset whole days after start.
func DayOffsetToDate(offset int, start time.Time) time.Time {
	return start.AddDate(0, 0, offset)
}

// DateToDayOffset returns the number of days from start to date, rounded up:
// a date partway through a day counts as the next whole day.
func DateToDayOffset(date, start time.Time) int {
	elapsed := date.Sub(start)
	days := elapsed / day
	if elapsed%day > 0 {
		days++
	}
	return int(days)
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysBetween is the signed number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a) / day)
}
