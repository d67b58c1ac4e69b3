package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goaltrack/goaltrack/internal/aggregate"
	"github.com/goaltrack/goaltrack/internal/models"
	"github.com/goaltrack/goaltrack/internal/notify"
	"github.com/goaltrack/goaltrack/internal/rules"
)

// Wednesday, 2025-03-12 15:30 UTC.
var now = time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC)

type countingStore struct {
	records []models.ActivityContext
	err     error
	calls   int
}

func (s *countingStore) FetchRange(start, end time.Time) ([]models.ActivityContext, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

type capturingPresenter struct {
	presented [][]*rules.Rule
}

func (p *capturingPresenter) Present(ruleSet []*rules.Rule) error {
	p.presented = append(p.presented, ruleSet)
	return nil
}

func devRecord(startHour, startMin, endHour, endMin int) models.ActivityContext {
	return models.ActivityContext{
		Category: models.CategoryDevelopment,
		Start:    time.Date(2025, 3, 12, startHour, startMin, 0, 0, time.UTC),
		End:      time.Date(2025, 3, 12, endHour, endMin, 0, 0, time.UTC),
	}
}

func newRule(title string, kind models.GoalKind, category models.Category, span models.TimeSpan, cmp models.Comparator, threshold float64) *rules.Rule {
	return &rules.Rule{
		Title: title,
		Goal: models.ComparisonGoal{
			Kind:       kind,
			Category:   category,
			TimeSpan:   span,
			Comparator: cmp,
			Threshold:  threshold,
		},
		Progress: rules.Progress{Status: rules.StatusNotEvaluated},
	}
}

func newEngine(store aggregate.ActivityStore, source NotificationSource, presenter *capturingPresenter) *Engine {
	aggregator := aggregate.NewAggregator(store, 5*time.Second)
	if presenter == nil {
		return New(aggregator, aggregate.NewCache(), source, nil)
	}
	return New(aggregator, aggregate.NewCache(), source, presenter)
}

func TestCheckAllEvaluatesEveryRule(t *testing.T) {
	store := &countingStore{records: []models.ActivityContext{
		devRecord(9, 0, 10, 15), // 75 minutes of development
	}}
	presenter := &capturingPresenter{}
	eng := newEngine(store, nil, presenter)

	ruleSet := []*rules.Rule{
		newRule("Deep work", models.GoalTimeSpentOn, models.CategoryDevelopment, models.SpanToday, models.CompareGreaterEq, 2),
		newRule("Stay focused", models.GoalNumberOfSwitchesTo, models.CategoryDevelopment, models.SpanToday, models.CompareLess, 5),
	}

	checked, err := eng.CheckAll(ruleSet, now)
	require.NoError(t, err)
	require.Len(t, checked, 2)

	// 75 minutes is short of the 2 hour goal.
	assert.Equal(t, rules.StatusNotMet, checked[0].Progress.Status)
	assert.Equal(t, 75*time.Minute, checked[0].Progress.ObservedTime)

	// One entry into development, well under 5.
	assert.Equal(t, rules.StatusMet, checked[1].Progress.Status)
	assert.Equal(t, 1, checked[1].Progress.ObservedSwitches)

	require.Len(t, presenter.presented, 1)
	assert.Equal(t, checked, presenter.presented[0])
}

func TestCheckAllAggregatesOncePerSpan(t *testing.T) {
	store := &countingStore{}
	eng := newEngine(store, nil, nil)

	ruleSet := []*rules.Rule{
		newRule("a", models.GoalTimeSpentOn, models.CategoryDevelopment, models.SpanToday, models.CompareGreater, 1),
		newRule("b", models.GoalNumberOfSwitchesTo, models.CategoryEmail, models.SpanToday, models.CompareLess, 5),
		newRule("c", models.GoalTimeSpentOn, models.CategoryEmail, models.SpanThisWeek, models.CompareLess, 4),
	}

	_, err := eng.CheckAll(ruleSet, now)
	require.NoError(t, err)

	assert.Equal(t, 2, store.calls, "two distinct spans means exactly two store reads")
}

func TestCheckAllReusesCacheAcrossPasses(t *testing.T) {
	store := &countingStore{}
	eng := newEngine(store, nil, nil)

	ruleSet := []*rules.Rule{
		newRule("a", models.GoalTimeSpentOn, models.CategoryDevelopment, models.SpanToday, models.CompareGreater, 1),
	}

	_, err := eng.CheckAll(ruleSet, now)
	require.NoError(t, err)
	_, err = eng.CheckAll(ruleSet, now)
	require.NoError(t, err)

	assert.Equal(t, 1, store.calls, "second pass in the same session must hit the cache")
}

func TestCheckAllIsolatesStoreFailure(t *testing.T) {
	store := &countingStore{err: assert.AnError}
	eng := newEngine(store, nil, nil)

	ruleSet := []*rules.Rule{
		newRule("a", models.GoalTimeSpentOn, models.CategoryDevelopment, models.SpanToday, models.CompareGreater, 1),
	}

	checked, err := eng.CheckAll(ruleSet, now)
	require.NoError(t, err, "store failures are reported through rule status, not errors")
	assert.Equal(t, rules.StatusError, checked[0].Progress.Status)
	assert.False(t, checked[0].Progress.Success)
}

func TestCheckAllIsolatesBadRule(t *testing.T) {
	store := &countingStore{records: []models.ActivityContext{devRecord(9, 0, 12, 0)}}
	eng := newEngine(store, nil, nil)

	ruleSet := []*rules.Rule{
		newRule("corrupt", "mood_swings", models.CategoryDevelopment, models.SpanToday, models.CompareGreater, 1),
		newRule("fine", models.GoalTimeSpentOn, models.CategoryDevelopment, models.SpanToday, models.CompareGreaterEq, 2),
	}

	checked, err := eng.CheckAll(ruleSet, now)
	require.NoError(t, err)

	assert.Equal(t, rules.StatusError, checked[0].Progress.Status)
	assert.Equal(t, rules.StatusMet, checked[1].Progress.Status, "3h of development meets the 2h goal")
}

func TestCheckAllAbortsOnMissingSummary(t *testing.T) {
	store := &countingStore{}
	eng := newEngine(store, nil, nil)

	ruleSet := []*rules.Rule{
		newRule("bogus", models.GoalTimeSpentOn, models.Category("not-a-category"), models.SpanToday, models.CompareGreater, 1),
	}

	_, err := eng.CheckAll(ruleSet, now)
	require.Error(t, err, "a missing category summary is an invariant violation")
}

func TestNeedsLiveTracking(t *testing.T) {
	assert.False(t, NeedsLiveTracking(nil))
	assert.True(t, NeedsLiveTracking([]*rules.Rule{
		newRule("a", models.GoalTimeSpentOn, models.CategoryDevelopment, models.SpanToday, models.CompareGreater, 1),
	}))
	assert.True(t, NeedsLiveTracking([]*rules.Rule{
		newRule("a", models.GoalNumberOfSwitchesTo, models.CategoryEmail, models.SpanToday, models.CompareLess, 5),
	}))
	assert.False(t, NeedsLiveTracking([]*rules.Rule{
		newRule("a", "mood_swings", models.CategoryEmail, models.SpanToday, models.CompareLess, 5),
	}))
}

func TestSessionSubscription(t *testing.T) {
	notifier := notify.New()
	eng := newEngine(&countingStore{}, notifier, nil)

	ruleSet := []*rules.Rule{
		newRule("a", models.GoalTimeSpentOn, models.CategoryDevelopment, models.SpanToday, models.CompareGreater, 1),
	}

	eng.StartSession(ruleSet)
	assert.True(t, notifier.Subscribed())

	eng.EndSession()
	assert.False(t, notifier.Subscribed())

	// Ending again without a subscription must be safe.
	eng.EndSession()
	assert.False(t, notifier.Subscribed())
}

func TestSessionWithoutLiveRulesDoesNotSubscribe(t *testing.T) {
	notifier := notify.New()
	eng := newEngine(&countingStore{}, notifier, nil)

	eng.StartSession(nil)
	assert.False(t, notifier.Subscribed())
}
