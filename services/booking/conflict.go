package booking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"trimly/models"
)

// MergeIntervals sorts intervals by start and coalesces overlapping or
// adjacent ones, so downstream slot computation is a single linear sweep.
func MergeIntervals(intervals []models.Interval) []models.Interval {
	if len(intervals) == 0 {
		return nil
	}
	sorted := make([]models.Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := []models.Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !iv.Start.After(last.End) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// BusyIntervals materializes the merged busy set for one resource over
// [from, to): confirmed reservations, holds whose TTL has not lapsed, and
// time-off entries. Expired holds never appear; that is the lazy expiry read
// path, so no background sweep is needed for correctness.
func (e *DefaultEngine) BusyIntervals(ctx context.Context, tenantID, resourceID string, from, to time.Time) ([]models.Interval, error) {
	now := e.now()

	blocking, err := e.Reservations.ListBlocking(ctx, tenantID, resourceID, from, to, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	timeOff, err := e.Catalog.ListTimeOff(ctx, tenantID, resourceID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	intervals := make([]models.Interval, 0, len(blocking)+len(timeOff))
	for _, r := range blocking {
		intervals = append(intervals, models.Interval{Start: r.Start, End: r.End})
	}
	for _, off := range timeOff {
		intervals = append(intervals, models.Interval{Start: off.Start, End: off.End})
	}
	return MergeIntervals(intervals), nil
}

// overlapsAny checks a candidate against a merged, sorted busy list.
// Half-open semantics: touching endpoints do not conflict.
func overlapsAny(busy []models.Interval, candidate models.Interval) bool {
	for _, b := range busy {
		if !b.Start.Before(candidate.End) {
			break
		}
		if b.Overlaps(candidate) {
			return true
		}
	}
	return false
}
