package reservationRepo

import (
	"context"
	"errors"
	"time"

	"trimly/models"
)

var (
	// ErrNotFound is returned when no reservation matches the id within the
	// tenant. Wrong-tenant lookups report the same error by design of the
	// tenant-scoped filters.
	ErrNotFound = errors.New("reservation: not found")
	// ErrClaimConflict is returned when a slot claim loses the race against a
	// concurrent hold or confirmation for an overlapping interval.
	ErrClaimConflict = errors.New("reservation: slot already claimed")
	// ErrNoTransition is returned when a conditional status update matches no
	// document, i.e. the reservation is absent or not in a permitted state.
	ErrNoTransition = errors.New("reservation: no matching transition")
)

// ListFilter narrows reservation listings. Zero values mean "any".
type ListFilter struct {
	ResourceID string
	From       time.Time
	To         time.Time
	Statuses   []string
}

// ReservationRepository defines the data access methods used by the booking
// engine. Every method takes the owning tenant id; none may be called without one.
type ReservationRepository interface {
	// ClaimSlot atomically re-checks the reservation's interval against all
	// blocking reservations for the resource and inserts it with status HOLD.
	// Returns ErrClaimConflict when the interval is no longer free.
	ClaimSlot(ctx context.Context, res *models.Reservation, now time.Time) error
	// GetByID retrieves a reservation owned by the tenant.
	GetByID(ctx context.Context, tenantID, reservationID string) (*models.Reservation, error)
	// ListBlocking returns CONFIRMED reservations and unexpired holds
	// overlapping [from, to) for the resource, sorted by start.
	ListBlocking(ctx context.Context, tenantID, resourceID string, from, to, now time.Time) ([]models.Reservation, error)
	// List returns the tenant's reservations matching the filter, sorted by start.
	List(ctx context.Context, tenantID string, filter ListFilter) ([]models.Reservation, error)
	// ConfirmHold promotes a live hold to CONFIRMED and clears its expiry in a
	// single conditional update. Returns ErrNoTransition when the reservation
	// is absent, not a hold, or already past its TTL.
	ConfirmHold(ctx context.Context, tenantID, reservationID string, now time.Time) (*models.Reservation, error)
	// Transition moves a reservation from one of the given statuses to the
	// target status. Returns ErrNoTransition when no document matches.
	Transition(ctx context.Context, tenantID, reservationID string, from []string, to string) (*models.Reservation, error)
	// ArchiveExpiredHolds marks holds whose TTL lapsed before cutoff as
	// EXPIRED. Storage hygiene only; the read path already ignores them.
	ArchiveExpiredHolds(ctx context.Context, cutoff time.Time) (int64, error)
}
