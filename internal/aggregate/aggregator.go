// Package aggregate turns raw activity records into per-category summaries
// over a resolved time window, with per-selector memoization for the
// lifetime of one rule-checking session.
package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/goaltrack/goaltrack/internal/models"
)

// ActivityStore supplies raw activity records for an absolute interval.
// Records need not be pre-merged or pre-sorted.
type ActivityStore interface {
	FetchRange(start, end time.Time) ([]models.ActivityContext, error)
}

// Aggregator fetches raw activity records, absorbs rapid refocus noise, and
// produces one CategorySummary per category of the closed enumeration.
type Aggregator struct {
	store ActivityStore

	// minSwitchGap is the largest gap between two same-category records
	// that still counts as one continuous stretch rather than a switch.
	minSwitchGap time.Duration
}

// NewAggregator creates an aggregator over the given store.
func NewAggregator(store ActivityStore, minSwitchGap time.Duration) *Aggregator {
	return &Aggregator{store: store, minSwitchGap: minSwitchGap}
}

// Aggregate fetches all records intersecting [start, end) and summarizes
// them per category. Every category of the enumeration gets a summary, zero
// valued when nothing matched. A store failure is propagated as-is; no
// partial result is returned.
func (a *Aggregator) Aggregate(start, end time.Time) (map[models.Category]*models.CategorySummary, error) {
	records, err := a.store.FetchRange(start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch activity for [%s, %s): %w",
			start.Format(time.RFC3339), end.Format(time.RFC3339), err)
	}

	merged := mergeRecords(records, a.minSwitchGap)

	summaries := make(map[models.Category]*models.CategorySummary, len(models.AllCategories()))
	for _, category := range models.AllCategories() {
		summaries[category] = &models.CategorySummary{Category: category}
	}

	var prev models.Category
	for i, record := range merged {
		summary, ok := summaries[record.Category]
		if !ok {
			// Not part of the enumeration; stored by an older build.
			summary = &models.CategorySummary{Category: record.Category}
			summaries[record.Category] = summary
		}
		summary.TimeSpent += record.Duration()
		summary.Records = append(summary.Records, record)
		if i == 0 || record.Category != prev {
			summary.Switches++
		}
		prev = record.Category
	}

	return summaries, nil
}

// mergeRecords sorts records chronologically and collapses adjacent
// same-category records whose gap is below maxGap into one stretch spanning
// both. The gap itself is absorbed into the merged duration.
func mergeRecords(records []models.ActivityContext, maxGap time.Duration) []models.ActivityContext {
	if len(records) == 0 {
		return nil
	}

	sorted := make([]models.ActivityContext, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := sorted[:1]
	for _, record := range sorted[1:] {
		last := &merged[len(merged)-1]
		if record.Category == last.Category && record.Start.Sub(last.End) < maxGap {
			if record.End.After(last.End) {
				last.End = record.End
			}
			continue
		}
		merged = append(merged, record)
	}
	return merged
}
