package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	reservationRepo "trimly/database/repository/reservation"
	"trimly/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateHold claims [Start, Start+duration) tentatively. The free check runs
// inside the repository's claim transaction, so two concurrent holds for
// overlapping intervals on the same resource cannot both succeed.
func (e *DefaultEngine) CreateHold(ctx context.Context, tenantID string, req HoldRequest) (*models.Reservation, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenant id is required", ErrValidation)
	}
	if req.ResourceID == "" {
		return nil, fmt.Errorf("%w: resource id is required", ErrValidation)
	}
	if req.Start.IsZero() {
		return nil, fmt.Errorf("%w: start time is required", ErrValidation)
	}
	if req.Customer.Name == "" {
		return nil, fmt.Errorf("%w: customer name is required", ErrValidation)
	}

	tenant, err := e.Catalog.GetTenantByID(ctx, tenantID)
	if err != nil {
		return nil, mapCatalogErr(err)
	}
	resource, err := e.Catalog.GetResource(ctx, tenantID, req.ResourceID)
	if err != nil {
		return nil, mapCatalogErr(err)
	}
	if !resource.Active {
		return nil, fmt.Errorf("%w: resource %s is inactive", ErrValidation, resource.ID)
	}
	if !resource.Offers(req.PrimaryServiceID) {
		return nil, fmt.Errorf("%w: resource %s does not offer service %s", ErrValidation, resource.ID, req.PrimaryServiceID)
	}

	// Durations and prices are snapshotted now; later catalog edits do not
	// alter this reservation.
	duration, priceCents, currency, err := e.comboDuration(ctx, tenantID, req.PrimaryServiceID, req.SecondaryServiceID)
	if err != nil {
		return nil, err
	}

	// Re-check window fit with the same invariant availability applies: the
	// whole interval must sit inside the resource's working window for the
	// shop-local day. Callers are not required to have read availability.
	start := req.Start.UTC().Truncate(time.Minute)
	local := start.Add(time.Duration(req.UTCOffsetMinutes) * time.Minute)
	window, hasWindow := resource.WindowFor(local.Weekday())
	startMin := local.Hour()*60 + local.Minute()
	if !hasWindow || startMin < window.StartMin || startMin+duration > window.EndMin {
		return nil, fmt.Errorf("%w: interval [%s, +%dm) is outside resource %s's working window",
			ErrSlotUnavailable, start.Format(time.RFC3339), duration, resource.ID)
	}

	discount := req.DiscountCents
	if discount < 0 {
		return nil, fmt.Errorf("%w: negative discount", ErrValidation)
	}
	if discount > priceCents {
		discount = priceCents
	}

	ttl := req.TTL
	if ttl <= 0 {
		ttl = tenant.HoldTTL(e.DefaultHoldTTL)
	}

	now := e.now()
	expiresAt := now.Add(ttl)
	res := &models.Reservation{
		ID:                 uuid.New().String(),
		TenantID:           tenantID,
		ResourceID:         resource.ID,
		PrimaryServiceID:   req.PrimaryServiceID,
		SecondaryServiceID: req.SecondaryServiceID,
		Start:              start,
		End:                start.Add(time.Duration(duration) * time.Minute),
		DurationMinutes:    duration,
		PriceCents:         priceCents - discount,
		DiscountCents:      discount,
		Currency:           currency,
		Status:             models.StatusHold,
		HoldExpiresAt:      &expiresAt,
		Customer:           req.Customer,
		CreatedAt:          now,
	}

	if err := e.Reservations.ClaimSlot(ctx, res, now); err != nil {
		if errors.Is(err, reservationRepo.ErrClaimConflict) {
			return nil, fmt.Errorf("%w: interval [%s, %s) on resource %s",
				ErrSlotUnavailable, res.Start.Format(time.RFC3339), res.End.Format(time.RFC3339), resource.ID)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	e.logger().Info("hold created",
		zap.String("tenantID", tenantID),
		zap.String("reservationID", res.ID),
		zap.String("resourceID", resource.ID),
		zap.Time("start", res.Start),
		zap.Time("holdExpiresAt", expiresAt))
	return res, nil
}

// Confirm finalizes a live hold. Confirming anything other than a live hold
// fails: HoldExpired once the TTL lapsed, InvalidState otherwise (including a
// repeat confirm of an already-CONFIRMED reservation).
func (e *DefaultEngine) Confirm(ctx context.Context, tenantID, reservationID string) (*models.Reservation, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenant id is required", ErrValidation)
	}

	now := e.now()
	res, err := e.Reservations.ConfirmHold(ctx, tenantID, reservationID, now)
	if err == nil {
		e.logger().Info("reservation confirmed",
			zap.String("tenantID", tenantID),
			zap.String("reservationID", reservationID))
		return res, nil
	}
	if !errors.Is(err, reservationRepo.ErrNoTransition) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// The conditional update missed; load the row to report why.
	current, err := e.Reservations.GetByID(ctx, tenantID, reservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch current.Status {
	case models.StatusHold:
		// Still HOLD but past its TTL. Mark it EXPIRED so it stops showing up
		// anywhere; the busy-interval filter already ignores it either way.
		if _, err := e.Reservations.Transition(ctx, tenantID, reservationID,
			[]string{models.StatusHold}, models.StatusExpired); err != nil && !errors.Is(err, reservationRepo.ErrNoTransition) {
			e.logger().Warn("failed to mark lapsed hold expired",
				zap.String("reservationID", reservationID), zap.Error(err))
		}
		return nil, ErrHoldExpired
	case models.StatusExpired:
		return nil, ErrHoldExpired
	default:
		return nil, fmt.Errorf("%w: cannot confirm reservation in status %s", ErrInvalidState, current.Status)
	}
}

// Cancel moves a HOLD or CONFIRMED reservation to CANCELLED. Cancelling an
// already-terminal reservation returns its current state rather than an
// error; cancellation is user-triggered and safe to repeat.
func (e *DefaultEngine) Cancel(ctx context.Context, tenantID, reservationID string) (*models.Reservation, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenant id is required", ErrValidation)
	}

	res, err := e.Reservations.Transition(ctx, tenantID, reservationID,
		[]string{models.StatusHold, models.StatusConfirmed}, models.StatusCancelled)
	if err == nil {
		e.logger().Info("reservation cancelled",
			zap.String("tenantID", tenantID),
			zap.String("reservationID", reservationID))
		return res, nil
	}
	if !errors.Is(err, reservationRepo.ErrNoTransition) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	current, err := e.Reservations.GetByID(ctx, tenantID, reservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return current, nil
}

// Complete marks a CONFIRMED reservation COMPLETED once its interval has
// passed. Used by the ride vertical to recognize delivery; cheap and useful
// for salon analytics too.
func (e *DefaultEngine) Complete(ctx context.Context, tenantID, reservationID string) (*models.Reservation, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenant id is required", ErrValidation)
	}

	current, err := e.Reservations.GetByID(ctx, tenantID, reservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if current.Status != models.StatusConfirmed {
		return nil, fmt.Errorf("%w: cannot complete reservation in status %s", ErrInvalidState, current.Status)
	}
	if current.End.After(e.now()) {
		return nil, fmt.Errorf("%w: reservation has not ended yet", ErrInvalidState)
	}

	res, err := e.Reservations.Transition(ctx, tenantID, reservationID,
		[]string{models.StatusConfirmed}, models.StatusCompleted)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrNoTransition) {
			return nil, fmt.Errorf("%w: reservation changed state concurrently", ErrInvalidState)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	e.logger().Info("reservation completed",
		zap.String("tenantID", tenantID),
		zap.String("reservationID", reservationID))
	return res, nil
}

// ListReservations returns the tenant's reservations matching the filter.
func (e *DefaultEngine) ListReservations(ctx context.Context, tenantID string, filter reservationRepo.ListFilter) ([]models.Reservation, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenant id is required", ErrValidation)
	}
	reservations, err := e.Reservations.List(ctx, tenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return reservations, nil
}
