package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	catalogRepo "trimly/database/repository/catalog"
	"trimly/models"

	"go.uber.org/zap"
)

// comboDuration resolves the primary (and optional secondary) service and
// returns the total required minutes plus the summed price.
func (e *DefaultEngine) comboDuration(ctx context.Context, tenantID, primaryID, secondaryID string) (minutes, priceCents int, currency string, err error) {
	if primaryID == "" {
		return 0, 0, "", fmt.Errorf("%w: primary service id is required", ErrValidation)
	}
	primary, err := e.Catalog.GetService(ctx, tenantID, primaryID)
	if err != nil {
		return 0, 0, "", mapCatalogErr(err)
	}
	minutes = primary.DurationMinutes
	priceCents = primary.PriceCents
	currency = primary.Currency

	if secondaryID != "" {
		secondary, err := e.Catalog.GetService(ctx, tenantID, secondaryID)
		if err != nil {
			return 0, 0, "", mapCatalogErr(err)
		}
		minutes += secondary.DurationMinutes
		priceCents += secondary.PriceCents
	}
	if minutes <= 0 {
		return 0, 0, "", fmt.Errorf("%w: non-positive total duration", ErrValidation)
	}
	return minutes, priceCents, currency, nil
}

// GetAvailability computes the bookable slots for a service or service pair
// across all eligible resources of the tenant on one client-local date.
// Purely a read; the result is a snapshot that may go stale before the caller
// acts on it. Correctness is enforced again at hold time.
func (e *DefaultEngine) GetAvailability(ctx context.Context, tenantID string, req AvailabilityRequest) ([]models.Slot, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenant id is required", ErrValidation)
	}
	tenant, err := e.Catalog.GetTenantByID(ctx, tenantID)
	if err != nil {
		return nil, mapCatalogErr(err)
	}

	duration, _, _, err := e.comboDuration(ctx, tenantID, req.PrimaryServiceID, req.SecondaryServiceID)
	if err != nil {
		return nil, err
	}

	dayStart, dayEnd, err := DayWindowUTC(req.Date, req.UTCOffsetMinutes)
	if err != nil {
		return nil, err
	}
	weekday, err := LocalWeekday(req.Date)
	if err != nil {
		return nil, err
	}
	step := tenant.StepMinutes(e.DefaultStepMinutes)

	resources, err := e.Catalog.ListActiveResources(ctx, tenantID, req.PrimaryServiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var slots []models.Slot
	for _, resource := range resources {
		window, ok := resource.WindowFor(weekday)
		if !ok || window.EndMin <= window.StartMin {
			continue
		}

		starts, err := CandidateStarts(req.Date, req.UTCOffsetMinutes, step, window.StartMin, window.EndMin)
		if err != nil {
			return nil, err
		}
		busy, err := e.BusyIntervals(ctx, tenantID, resource.ID, dayStart, dayEnd)
		if err != nil {
			return nil, err
		}

		for i, start := range starts {
			// The full interval must fit inside the working window.
			if window.StartMin+i*step+duration > window.EndMin {
				break
			}
			candidate := models.Interval{
				Start: start,
				End:   start.Add(time.Duration(duration) * time.Minute),
			}
			if overlapsAny(busy, candidate) {
				continue
			}
			slots = append(slots, models.Slot{
				ResourceID:   resource.ID,
				ResourceName: resource.Name,
				Start:        candidate.Start,
				End:          candidate.End,
			})
		}
	}

	// Group by start time for display; resources sharing a start sit together.
	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].Start.Equal(slots[j].Start) {
			return slots[i].Start.Before(slots[j].Start)
		}
		return slots[i].ResourceName < slots[j].ResourceName
	})

	e.logger().Debug("computed availability",
		zap.String("tenantID", tenantID),
		zap.String("date", req.Date),
		zap.Int("slots", len(slots)))
	return slots, nil
}

// ResourceDay returns the merged busy view for one resource on one local
// date, for provider-facing calendars.
func (e *DefaultEngine) ResourceDay(ctx context.Context, tenantID, resourceID, date string, offsetMinutes int) ([]models.Interval, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenant id is required", ErrValidation)
	}
	if _, err := e.Catalog.GetResource(ctx, tenantID, resourceID); err != nil {
		return nil, mapCatalogErr(err)
	}
	dayStart, dayEnd, err := DayWindowUTC(date, offsetMinutes)
	if err != nil {
		return nil, err
	}
	return e.BusyIntervals(ctx, tenantID, resourceID, dayStart, dayEnd)
}

func mapCatalogErr(err error) error {
	if errors.Is(err, catalogRepo.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
