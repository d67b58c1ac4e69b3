package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ActivitySnapshot is one persisted stretch of categorized activity. The
// tracker extends the End of the open snapshot while the focused category
// stays the same and inserts a new row on every change.
type ActivitySnapshot struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Category    string         `gorm:"not null;index" json:"category"`
	AppName     string         `gorm:"not null" json:"app_name"`
	WindowTitle string         `gorm:"not null" json:"window_title"`
	Start       time.Time      `gorm:"column:start_time;not null;index" json:"start"`
	End         time.Time      `gorm:"column:end_time;not null;index" json:"end"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// ActivityContext is the in-memory unit aggregation works on: one
// contiguous stretch of a single category. Immutable once read from the
// store; the merge pass builds new values instead of mutating fetched ones.
type ActivityContext struct {
	Category Category  `json:"category"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// Duration returns the length of the stretch.
func (a ActivityContext) Duration() time.Duration {
	return a.End.Sub(a.Start)
}

// Context converts a stored snapshot into its aggregation form.
func (s *ActivitySnapshot) Context() ActivityContext {
	return ActivityContext{
		Category: Category(s.Category),
		Start:    s.Start,
		End:      s.End,
	}
}

// CategorySummary is the aggregation result for one category over one
// resolved window: total time spent, number of entries into the category,
// and the merged records backing those numbers.
type CategorySummary struct {
	Category  Category          `json:"category"`
	TimeSpent time.Duration     `json:"time_spent"`
	Switches  int               `json:"switches"`
	Records   []ActivityContext `json:"records,omitempty"`
}

// Hours returns the total time spent projected to hours, the unit
// GoalTimeSpentOn thresholds are authored in.
func (s *CategorySummary) Hours() float64 {
	return s.TimeSpent.Hours()
}

func (s *CategorySummary) String() string {
	return fmt.Sprintf("%s: %.2fh over %d records, %d switches",
		s.Category.DisplayName(), s.Hours(), len(s.Records), s.Switches)
}
