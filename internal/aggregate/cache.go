package aggregate

import (
	"time"

	"github.com/goaltrack/goaltrack/internal/models"
	"github.com/goaltrack/goaltrack/internal/timespan"
)

// ComputeFunc produces the summaries for a resolved window; in production
// this is Aggregator.Aggregate.
type ComputeFunc func(start, end time.Time) (map[models.Category]*models.CategorySummary, error)

// Cache memoizes aggregation results per time-span selector for the
// lifetime of one rule-checking session. Within one pass at most one
// computation runs per distinct selector; Invalidate clears everything.
//
// Not safe for concurrent mutation. Each engine owns its own cache; a second
// concurrent session needs a second cache instance.
type Cache struct {
	entries map[models.TimeSpan]map[models.Category]*models.CategorySummary
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[models.TimeSpan]map[models.Category]*models.CategorySummary),
	}
}

// GetOrCompute returns the cached summaries for span, resolving the window
// against now and calling compute on a miss. Failed computations are not
// cached, so a later pass retries.
func (c *Cache) GetOrCompute(span models.TimeSpan, now time.Time, compute ComputeFunc) (map[models.Category]*models.CategorySummary, error) {
	if summaries, ok := c.entries[span]; ok {
		return summaries, nil
	}

	start, end := timespan.Resolve(span, now)
	summaries, err := compute(start, end)
	if err != nil {
		return nil, err
	}

	c.entries[span] = summaries
	return summaries, nil
}

// Invalidate drops every cached entry. Call between sessions or when the
// underlying activity data is known to have changed.
func (c *Cache) Invalidate() {
	c.entries = make(map[models.TimeSpan]map[models.Category]*models.CategorySummary)
}

// Len returns the number of cached selectors.
func (c *Cache) Len() int {
	return len(c.entries)
}
