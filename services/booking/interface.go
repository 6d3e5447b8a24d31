package booking

import (
	"context"
	"time"

	catalogRepo "trimly/database/repository/catalog"
	reservationRepo "trimly/database/repository/reservation"
	"trimly/models"
	"trimly/utils"

	"go.uber.org/zap"
)

// AvailabilityRequest asks for bookable slots for a service (or a
// primary+secondary combo) on one client-local calendar date.
type AvailabilityRequest struct {
	PrimaryServiceID   string
	SecondaryServiceID string // optional combo
	Date               string // "2006-01-02", client-local
	UTCOffsetMinutes   int    // minutes the client is ahead of UTC
}

// HoldRequest claims a slot tentatively. TTL zero means the tenant's (or
// platform's) default hold lifetime. UTCOffsetMinutes locates Start on the
// shop's local calendar so the working-window check uses the right weekday.
type HoldRequest struct {
	ResourceID         string
	PrimaryServiceID   string
	SecondaryServiceID string
	Start              time.Time
	UTCOffsetMinutes   int // minutes the shop's local time is ahead of UTC
	Customer           models.Customer
	DiscountCents      int // from the promotion engine; display/audit only
	TTL                time.Duration
}

// Engine is the slot availability and reservation lifecycle engine. Every
// operation takes the tenant id explicitly; there is no default tenant.
type Engine interface {
	GetAvailability(ctx context.Context, tenantID string, req AvailabilityRequest) ([]models.Slot, error)
	ResourceDay(ctx context.Context, tenantID, resourceID, date string, offsetMinutes int) ([]models.Interval, error)
	CreateHold(ctx context.Context, tenantID string, req HoldRequest) (*models.Reservation, error)
	Confirm(ctx context.Context, tenantID, reservationID string) (*models.Reservation, error)
	Cancel(ctx context.Context, tenantID, reservationID string) (*models.Reservation, error)
	Complete(ctx context.Context, tenantID, reservationID string) (*models.Reservation, error)
	ListReservations(ctx context.Context, tenantID string, filter reservationRepo.ListFilter) ([]models.Reservation, error)
}

// DefaultEngine implements Engine.
type DefaultEngine struct {
	Catalog      catalogRepo.CatalogRepository
	Reservations reservationRepo.ReservationRepository
	Clock        utils.Clock
	Logger       *zap.Logger

	// Platform defaults; tenants may override per shop.
	DefaultStepMinutes int
	DefaultHoldTTL     time.Duration
}

func (e *DefaultEngine) now() time.Time {
	if e.Clock == nil {
		return time.Now().UTC()
	}
	return e.Clock.Now()
}

func (e *DefaultEngine) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}
