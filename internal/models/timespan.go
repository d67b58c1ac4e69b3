package models

import "time"

// TimeSpan is a calendar-relative window selector. It carries no absolute
// instants; internal/timespan resolves it against an injected "now".
type TimeSpan string

const (
	SpanToday         TimeSpan = "today"
	SpanThisWeek      TimeSpan = "week"
	SpanThisMonth     TimeSpan = "month"
	SpanThisMorning   TimeSpan = "morning"
	SpanThisAfternoon TimeSpan = "afternoon"
	SpanMonday        TimeSpan = "monday"
	SpanTuesday       TimeSpan = "tuesday"
	SpanWednesday     TimeSpan = "wednesday"
	SpanThursday      TimeSpan = "thursday"
	SpanFriday        TimeSpan = "friday"
	SpanSaturday      TimeSpan = "saturday"
	SpanSunday        TimeSpan = "sunday"
)

var spanWeekdays = map[TimeSpan]time.Weekday{
	SpanMonday:    time.Monday,
	SpanTuesday:   time.Tuesday,
	SpanWednesday: time.Wednesday,
	SpanThursday:  time.Thursday,
	SpanFriday:    time.Friday,
	SpanSaturday:  time.Saturday,
	SpanSunday:    time.Sunday,
}

// Weekday returns the weekday a weekday selector names, and false for the
// calendar selectors (today, week, month, morning, afternoon).
func (ts TimeSpan) Weekday() (time.Weekday, bool) {
	day, ok := spanWeekdays[ts]
	return day, ok
}

// IsValid reports whether ts is a known selector.
func (ts TimeSpan) IsValid() bool {
	switch ts {
	case SpanToday, SpanThisWeek, SpanThisMonth, SpanThisMorning, SpanThisAfternoon:
		return true
	}
	_, ok := spanWeekdays[ts]
	return ok
}

// ParseTimeSpan returns the selector matching s, or false if s is unknown.
func ParseTimeSpan(s string) (TimeSpan, bool) {
	ts := TimeSpan(s)
	return ts, ts.IsValid()
}
