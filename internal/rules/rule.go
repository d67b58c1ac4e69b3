// Package rules holds the runtime form of user-defined goal rules and their
// evaluation against aggregated activity summaries.
package rules

import (
	"fmt"
	"time"

	"github.com/goaltrack/goaltrack/internal/models"
)

// ProgressStatus is the displayable outcome of a rule's last evaluation.
type ProgressStatus string

const (
	StatusNotEvaluated ProgressStatus = "not_evaluated"
	StatusMet          ProgressStatus = "met"
	StatusNotMet       ProgressStatus = "not_met"
	StatusError        ProgressStatus = "error"
)

// Progress is the mutable result block of a rule, rewritten on every
// checking pass. Everything else on a rule is immutable per instance.
type Progress struct {
	Success          bool           `json:"success"`
	ObservedTime     time.Duration  `json:"observed_time"`
	ObservedSwitches int            `json:"observed_switches"`
	Status           ProgressStatus `json:"status"`
}

// Rule is one loaded goal rule. The predicate is compiled lazily on first
// evaluation and reused across passes; the goal is treated as immutable per
// rule instance so recompilation is never needed.
type Rule struct {
	ID    uint                  `json:"id"`
	Title string                `json:"title"`
	Goal  models.ComparisonGoal `json:"goal"`

	Progress Progress `json:"progress"`

	predicate Predicate
}

// FromStored builds the runtime rule for a persisted row.
func FromStored(row *models.GoalRule) *Rule {
	return &Rule{
		ID:       row.ID,
		Title:    row.Title,
		Goal:     row.Goal(),
		Progress: Progress{Status: StatusNotEvaluated},
	}
}

func (r *Rule) String() string {
	return fmt.Sprintf("%s: %s(%s) over %s %s %g",
		r.Title, r.Goal.Kind, r.Goal.Category, r.Goal.TimeSpan,
		r.Goal.Comparator, r.Goal.Threshold)
}
