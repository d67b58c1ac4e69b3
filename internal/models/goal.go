package models

// GoalKind names the aggregated metric a goal compares against its threshold.
type GoalKind string

const (
	GoalTimeSpentOn        GoalKind = "time_spent_on"
	GoalNumberOfSwitchesTo GoalKind = "switches_to"
)

// IsValid reports whether k is a known goal kind.
func (k GoalKind) IsValid() bool {
	return k == GoalTimeSpentOn || k == GoalNumberOfSwitchesTo
}

// ParseGoalKind returns the goal kind matching s, or false if s is unknown.
func ParseGoalKind(s string) (GoalKind, bool) {
	k := GoalKind(s)
	return k, k.IsValid()
}

// Comparator is the relational operator of a goal condition.
type Comparator string

const (
	CompareLess      Comparator = "<"
	CompareLessEq    Comparator = "<="
	CompareEqual     Comparator = "="
	CompareGreaterEq Comparator = ">="
	CompareGreater   Comparator = ">"
)

// IsValid reports whether c is a known comparator.
func (c Comparator) IsValid() bool {
	switch c {
	case CompareLess, CompareLessEq, CompareEqual, CompareGreaterEq, CompareGreater:
		return true
	}
	return false
}

// ParseComparator returns the comparator matching s, or false if s is unknown.
func ParseComparator(s string) (Comparator, bool) {
	c := Comparator(s)
	return c, c.IsValid()
}

// Compare applies the operator with observed on the left and threshold on
// the right.
func (c Comparator) Compare(observed, threshold float64) bool {
	switch c {
	case CompareLess:
		return observed < threshold
	case CompareLessEq:
		return observed <= threshold
	case CompareEqual:
		return observed == threshold
	case CompareGreaterEq:
		return observed >= threshold
	case CompareGreater:
		return observed > threshold
	}
	return false
}

// ComparisonGoal is a user-authored goal condition: an aggregated metric for
// one category over one time span, compared against a threshold. Immutable
// once a checking pass starts; the compiled predicate of a rule closes over
// these fields.
//
// Threshold units follow the metric: hours for GoalTimeSpentOn, a plain
// count for GoalNumberOfSwitchesTo.
type ComparisonGoal struct {
	Kind       GoalKind   `json:"kind"`
	Category   Category   `json:"category"`
	TimeSpan   TimeSpan   `json:"time_span"`
	Comparator Comparator `json:"comparator"`
	Threshold  float64    `json:"threshold"`
}
