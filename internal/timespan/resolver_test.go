package timespan

import (
	"testing"
	"time"

	"github.com/goaltrack/goaltrack/internal/models"
)

// Wednesday, 2025-03-12 15:30 UTC.
var wednesday = time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		span      models.TimeSpan
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "today is a full day",
			span:      models.SpanToday,
			now:       wednesday,
			wantStart: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "week starts on ISO monday",
			span:      models.SpanThisWeek,
			now:       wednesday,
			wantStart: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			wantEnd:   wednesday,
		},
		{
			name:      "week on a sunday reaches back to monday",
			span:      models.SpanThisWeek,
			now:       time.Date(2025, 3, 16, 9, 0, 0, 0, time.UTC),
			wantStart: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 3, 16, 9, 0, 0, 0, time.UTC),
		},
		{
			name:      "month starts on the first",
			span:      models.SpanThisMonth,
			now:       wednesday,
			wantStart: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   wednesday,
		},
		{
			name:      "morning is midnight to noon",
			span:      models.SpanThisMorning,
			now:       wednesday,
			wantStart: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC),
		},
		{
			name:      "afternoon is noon to now",
			span:      models.SpanThisAfternoon,
			now:       wednesday,
			wantStart: time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC),
			wantEnd:   wednesday,
		},
		{
			name:      "friday resolves to the most recent past friday",
			span:      models.SpanFriday,
			now:       wednesday,
			wantStart: time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "same weekday resolves to today",
			span:      models.SpanWednesday,
			now:       wednesday,
			wantStart: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "sunday weekday handles the week wrap",
			span:      models.SpanSunday,
			now:       wednesday,
			wantStart: time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := Resolve(tt.span, tt.now)
			if !start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", start, tt.wantStart)
			}
			if !end.Equal(tt.wantEnd) {
				t.Errorf("end = %v, want %v", end, tt.wantEnd)
			}
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	for _, span := range []models.TimeSpan{models.SpanToday, models.SpanThisWeek, models.SpanFriday} {
		s1, e1 := Resolve(span, wednesday)
		s2, e2 := Resolve(span, wednesday)
		if !s1.Equal(s2) || !e1.Equal(e2) {
			t.Errorf("Resolve(%q) is not deterministic: (%v, %v) vs (%v, %v)", span, s1, e1, s2, e2)
		}
	}
}
