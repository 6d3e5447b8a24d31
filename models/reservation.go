package models

import "time"

// Reservation statuses. HOLD is the only creation state; EXPIRED is normally
// reached lazily (an overdue hold simply stops blocking) and is written back
// opportunistically or by the archival worker.
const (
	StatusHold      = "HOLD"
	StatusConfirmed = "CONFIRMED"
	StatusExpired   = "EXPIRED"
	StatusCancelled = "CANCELLED"
	StatusCompleted = "COMPLETED"
)

// Customer is the contact captured on a reservation.
type Customer struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email,omitempty" json:"email,omitempty"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// Reservation occupies a single contiguous [Start, End) interval on one
// resource. End is always Start plus the snapshotted durations of the primary
// and optional secondary service.
type Reservation struct {
	ID                 string     `bson:"id" json:"id"`
	TenantID           string     `bson:"tenantId" json:"tenantId"`
	ResourceID         string     `bson:"resourceId" json:"resourceId"`
	PrimaryServiceID   string     `bson:"primaryServiceId" json:"primaryServiceId"`
	SecondaryServiceID string     `bson:"secondaryServiceId,omitempty" json:"secondaryServiceId,omitempty"`
	Start              time.Time  `bson:"start" json:"start"`
	End                time.Time  `bson:"end" json:"end"`
	DurationMinutes    int        `bson:"durationMinutes" json:"durationMinutes"`
	PriceCents         int        `bson:"priceCents" json:"priceCents"`
	DiscountCents      int        `bson:"discountCents,omitempty" json:"discountCents,omitempty"` // display/audit only, supplied by the promotion engine
	Currency           string     `bson:"currency,omitempty" json:"currency,omitempty"`
	Status             string     `bson:"status" json:"status"`
	HoldExpiresAt      *time.Time `bson:"holdExpiresAt,omitempty" json:"holdExpiresAt,omitempty"`
	Customer           Customer   `bson:"customer" json:"customer"`
	CreatedAt          time.Time  `bson:"created_at" json:"created_at"`
}

// Blocking reports whether the reservation blocks its interval at the given
// instant: CONFIRMED always does, a HOLD only while its TTL has not lapsed.
func (r *Reservation) Blocking(now time.Time) bool {
	switch r.Status {
	case StatusConfirmed:
		return true
	case StatusHold:
		return r.HoldExpiresAt != nil && !r.HoldExpiresAt.Before(now)
	}
	return false
}

// Terminal reports whether the reservation is in a final state.
func (r *Reservation) Terminal() bool {
	switch r.Status {
	case StatusExpired, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}
