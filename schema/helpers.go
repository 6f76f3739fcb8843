package schema

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for labels and input records.
const DateLayout = time.DateOnly

// WeekNumber returns the week-of-year used for bucketing:
// ceil((daysSinceJan1 + weekday(Jan 1) + 1) / 7), with Sunday as weekday 0.
// This is not ISO-8601 numbering; late December can land in week 53 and
// weeks roll over on Sunday. Everything is evaluated in UTC.
func WeekNumber(t time.Time) int {
	t = t.UTC()
	startOfYear := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	days := (t.UnixMilli() - startOfYear.UnixMilli()) / OneDayMillis
	offset := int64(startOfYear.Weekday())
	return int((days + offset + 1 + 6) / 7)
}

// WeekKey returns the bucket identity "{year}-W{week:02d}" for a timestamp.
func WeekKey(ts int64) string {
	t := time.UnixMilli(ts).UTC()
	return fmt.Sprintf("%d-W%02d", t.Year(), WeekNumber(t))
}

// FormatDate renders a timestamp as YYYY-MM-DD.
func FormatDate(ts int64) string {
	return time.UnixMilli(ts).UTC().Format(DateLayout)
}

// FormatWeek renders a timestamp as "W{week}".
func FormatWeek(ts int64) string {
	return fmt.Sprintf("W%d", WeekNumber(time.UnixMilli(ts)))
}

// TickFormatter picks the axis label function for a granularity.
func TickFormatter(g Granularity) func(int64) string {
	if g == WeekGranularity {
		return FormatWeek
	}
	return FormatDate
}

// FormatPercent renders a rate the way axis ticks show it.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.0f%%", v)
}

// ParseDate parses YYYY-MM-DD (or a full RFC3339 timestamp) into UTC epoch milliseconds.
func ParseDate(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.UnixMilli(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, fmt.Errorf("invalid date '%s'. expected YYYY-MM-DD", s)
	}
	return t.UTC().UnixMilli(), nil
}
