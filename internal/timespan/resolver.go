// Package timespan resolves calendar-relative window selectors against a
// concrete instant.
package timespan

import (
	"time"

	"github.com/goaltrack/goaltrack/internal/models"
)

// Resolve maps a selector to the concrete [start, end) interval it names
// relative to now. It is total over every valid selector and deterministic
// given now; callers inject the clock.
//
//   - SpanToday: midnight of now's date through midnight of the next day.
//   - SpanThisWeek: ISO-8601 Monday of now's week through now.
//   - SpanThisMonth: first of now's month through now.
//   - SpanThisMorning: midnight through noon of now's date.
//   - SpanThisAfternoon: noon of now's date through now.
//   - A weekday: the most recent past (or current) occurrence of that
//     weekday, full day.
//
// An unknown selector resolves like SpanToday; selector validity is checked
// where rules are authored, not here.
func Resolve(span models.TimeSpan, now time.Time) (start, end time.Time) {
	midnight := startOfDay(now)

	if day, ok := span.Weekday(); ok {
		start = previousWeekday(now, day)
		return start, start.AddDate(0, 0, 1)
	}

	switch span {
	case models.SpanThisWeek:
		return startOfISOWeek(now), now
	case models.SpanThisMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), now
	case models.SpanThisMorning:
		return midnight, noonOfDay(now)
	case models.SpanThisAfternoon:
		return noonOfDay(now), now
	default:
		return midnight, midnight.AddDate(0, 0, 1)
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func noonOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, t.Location())
}

// startOfISOWeek returns midnight of the Monday of t's week, with Sunday
// counted as the last day of the week per ISO-8601.
func startOfISOWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return startOfDay(t).AddDate(0, 0, -(weekday - 1))
}

// previousWeekday returns midnight of the most recent occurrence of day at
// or before t. When t falls on day, t's own date is returned.
func previousWeekday(t time.Time, day time.Weekday) time.Time {
	back := (int(t.Weekday()) - int(day) + 7) % 7
	return startOfDay(t).AddDate(0, 0, -back)
}
