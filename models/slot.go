package models

import "time"

// Slot is a candidate (resource, start, end) triple offered to a caller as
// bookable. The snapshot can go stale; correctness is enforced at hold time.
type Slot struct {
	ResourceID   string    `json:"resourceId"`
	ResourceName string    `json:"resourceName"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
}

// Interval is a half-open [Start, End) UTC time range.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether two half-open intervals intersect. Touching
// endpoints do not count as overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}
