package rules

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/goaltrack/goaltrack/internal/models"
)

// ErrInvalidGoalKind marks a rule whose goal kind is not part of the
// enumeration, i.e. a corrupt or future-incompatible stored rule.
var ErrInvalidGoalKind = errors.New("invalid goal kind")

// Predicate is a compiled goal condition, evaluated against one category
// summary.
type Predicate func(summary *models.CategorySummary) bool

// Compile builds the executable predicate for a goal. Compilation is pure:
// the returned closure extracts the metric named by the goal kind, projects
// it to the threshold's unit, and applies the comparator. The only failure
// is an unrecognized goal kind.
func Compile(goal models.ComparisonGoal) (Predicate, error) {
	switch goal.Kind {
	case models.GoalTimeSpentOn:
		return func(summary *models.CategorySummary) bool {
			return goal.Comparator.Compare(summary.Hours(), goal.Threshold)
		}, nil
	case models.GoalNumberOfSwitchesTo:
		return func(summary *models.CategorySummary) bool {
			return goal.Comparator.Compare(float64(summary.Switches), goal.Threshold)
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidGoalKind, goal.Kind)
	}
}

// Evaluate runs the rule's predicate against the summary and rewrites the
// rule's progress. The predicate is compiled on first use and reused across
// passes. A nil summary or a failed compilation marks the progress as
// StatusError without touching other rules; evaluation never panics.
func (r *Rule) Evaluate(summary *models.CategorySummary) error {
	if summary == nil {
		r.Progress = Progress{Status: StatusError}
		return fmt.Errorf("rule %q: no summary for category %q", r.Title, r.Goal.Category)
	}

	if r.predicate == nil {
		predicate, err := Compile(r.Goal)
		if err != nil {
			r.Progress = Progress{Status: StatusError}
			return errors.Wrapf(err, "rule %q", r.Title)
		}
		r.predicate = predicate
	}

	success := r.predicate(summary)
	r.Progress = Progress{
		Success:          success,
		ObservedTime:     summary.TimeSpent,
		ObservedSwitches: summary.Switches,
		Status:           StatusNotMet,
	}
	if success {
		r.Progress.Status = StatusMet
	}
	return nil
}
