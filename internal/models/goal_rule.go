package models

import (
	"time"

	"gorm.io/gorm"
)

// GoalRule is the persisted form of a user-defined goal rule. The runtime
// rule (internal/rules) is built from this row when a session loads; progress
// is never written back, only the goal definition is stored.
type GoalRule struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Title      string         `gorm:"not null" json:"title"`
	Kind       string         `gorm:"not null" json:"kind"`
	Category   string         `gorm:"not null;index" json:"category"`
	TimeSpan   string         `gorm:"not null" json:"time_span"`
	Comparator string         `gorm:"not null" json:"comparator"`
	Threshold  float64        `gorm:"not null" json:"threshold"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// Goal converts the stored row into the immutable goal condition.
func (r *GoalRule) Goal() ComparisonGoal {
	return ComparisonGoal{
		Kind:       GoalKind(r.Kind),
		Category:   Category(r.Category),
		TimeSpan:   TimeSpan(r.TimeSpan),
		Comparator: Comparator(r.Comparator),
		Threshold:  r.Threshold,
	}
}
