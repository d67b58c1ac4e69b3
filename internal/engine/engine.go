// Package engine orchestrates rule-checking passes: resolve and aggregate
// activity per referenced time span, evaluate every rule against it, and
// hand the batch to the presenter.
package engine

import (
	"fmt"
	"log"
	"time"

	"github.com/goaltrack/goaltrack/internal/aggregate"
	"github.com/goaltrack/goaltrack/internal/models"
	"github.com/goaltrack/goaltrack/internal/notify"
	"github.com/goaltrack/goaltrack/internal/present"
	"github.com/goaltrack/goaltrack/internal/rules"
)

// NotificationSource is the live snapshot stream the engine subscribes to
// when the active rule set asks for live tracking.
type NotificationSource interface {
	Subscribe(notify.Handler)
	Unsubscribe()
}

// Engine runs rule-checking passes over an injected aggregator and cache.
// One engine owns one cache; sessions on the same engine must not overlap.
type Engine struct {
	aggregator *aggregate.Aggregator
	cache      *aggregate.Cache
	source     NotificationSource
	presenter  present.Presenter
}

// New creates an engine. source and presenter may be nil when live snapshot
// handling or presentation is not wanted (tests, one-shot CLI checks).
func New(aggregator *aggregate.Aggregator, cache *aggregate.Cache, source NotificationSource, presenter present.Presenter) *Engine {
	return &Engine{
		aggregator: aggregator,
		cache:      cache,
		source:     source,
		presenter:  presenter,
	}
}

// NeedsLiveTracking reports whether any rule's goal kind asks for live
// snapshot events.
func NeedsLiveTracking(ruleSet []*rules.Rule) bool {
	for _, rule := range ruleSet {
		switch rule.Goal.Kind {
		case models.GoalTimeSpentOn, models.GoalNumberOfSwitchesTo:
			return true
		}
	}
	return false
}

// StartSession clears the cache and, when the rule set asks for it,
// subscribes to the live snapshot stream. Incoming snapshots are logged
// only; rule re-evaluation happens exclusively on explicit CheckAll calls.
func (e *Engine) StartSession(ruleSet []*rules.Rule) {
	e.cache.Invalidate()
	if e.source != nil && NeedsLiveTracking(ruleSet) {
		e.source.Subscribe(func(category models.Category, at time.Time) {
			log.Printf("New activity: %s at %s", category.DisplayName(), at.Format(time.RFC3339))
		})
	}
}

// EndSession unsubscribes from the snapshot stream and drops cached
// aggregations. Safe to call without a preceding StartSession.
func (e *Engine) EndSession() {
	if e.source != nil {
		e.source.Unsubscribe()
	}
	e.cache.Invalidate()
}

// CheckAll evaluates every rule against the activity recorded in its time
// span and rewrites each rule's progress in place. Store failures are
// isolated per time span and bad rules are isolated per rule; both surface
// as StatusError on the affected rules while the pass continues. A missing
// category summary is an invariant violation and aborts the pass.
//
// The returned slice is the input slice, handed back for presentation.
func (e *Engine) CheckAll(ruleSet []*rules.Rule, now time.Time) ([]*rules.Rule, error) {
	spans := distinctSpans(ruleSet)

	summariesBySpan := make(map[models.TimeSpan]map[models.Category]*models.CategorySummary, len(spans))
	failedSpans := make(map[models.TimeSpan]error)
	for _, span := range spans {
		summaries, err := e.cache.GetOrCompute(span, now, e.aggregator.Aggregate)
		if err != nil {
			log.Printf("Aggregation for span %q failed: %v", span, err)
			failedSpans[span] = err
			continue
		}
		summariesBySpan[span] = summaries
	}

	for _, rule := range ruleSet {
		if err, ok := failedSpans[rule.Goal.TimeSpan]; ok {
			rule.Progress = rules.Progress{Status: rules.StatusError}
			log.Printf("Rule %q skipped: %v", rule.Title, err)
			continue
		}

		summary, ok := summariesBySpan[rule.Goal.TimeSpan][rule.Goal.Category]
		if !ok {
			return ruleSet, fmt.Errorf("no summary for category %q in span %q",
				rule.Goal.Category, rule.Goal.TimeSpan)
		}

		if err := rule.Evaluate(summary); err != nil {
			log.Printf("Rule %q failed to evaluate: %v", rule.Title, err)
		}
	}

	if e.presenter != nil {
		if err := e.presenter.Present(ruleSet); err != nil {
			log.Printf("Failed to present rule results: %v", err)
		}
	}

	return ruleSet, nil
}

// distinctSpans returns the time spans referenced by the rule set, in order
// of first appearance.
func distinctSpans(ruleSet []*rules.Rule) []models.TimeSpan {
	seen := make(map[models.TimeSpan]bool)
	var spans []models.TimeSpan
	for _, rule := range ruleSet {
		if !seen[rule.Goal.TimeSpan] {
			seen[rule.Goal.TimeSpan] = true
			spans = append(spans, rule.Goal.TimeSpan)
		}
	}
	return spans
}
