package booking

import (
	"context"
	"sync"
	"time"

	catalogRepo "trimly/database/repository/catalog"
	reservationRepo "trimly/database/repository/reservation"
	"trimly/models"
)

// adjustableClock lets tests move time forward between calls.
type adjustableClock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock(t time.Time) *adjustableClock {
	return &adjustableClock{now: t.UTC()}
}

func (c *adjustableClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *adjustableClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeCatalog is an in-memory CatalogRepository.
type fakeCatalog struct {
	tenants   []*models.Tenant
	services  []*models.Service
	resources []models.Resource
	timeOff   []models.TimeOff
}

func (f *fakeCatalog) GetTenantByID(_ context.Context, tenantID string) (*models.Tenant, error) {
	for _, t := range f.tenants {
		if t.ID == tenantID {
			return t, nil
		}
	}
	return nil, catalogRepo.ErrNotFound
}

func (f *fakeCatalog) GetTenantByAPIKey(_ context.Context, apiKey string) (*models.Tenant, error) {
	for _, t := range f.tenants {
		if t.APIKey == apiKey && t.Active {
			return t, nil
		}
	}
	return nil, catalogRepo.ErrNotFound
}

func (f *fakeCatalog) GetTenantBySlug(_ context.Context, slug string) (*models.Tenant, error) {
	for _, t := range f.tenants {
		if t.Slug == slug && t.Active {
			return t, nil
		}
	}
	return nil, catalogRepo.ErrNotFound
}

func (f *fakeCatalog) GetService(_ context.Context, tenantID, serviceID string) (*models.Service, error) {
	for _, s := range f.services {
		if s.ID == serviceID && s.TenantID == tenantID && s.Active {
			return s, nil
		}
	}
	return nil, catalogRepo.ErrNotFound
}

func (f *fakeCatalog) GetResource(_ context.Context, tenantID, resourceID string) (*models.Resource, error) {
	for i := range f.resources {
		if f.resources[i].ID == resourceID && f.resources[i].TenantID == tenantID {
			r := f.resources[i]
			return &r, nil
		}
	}
	return nil, catalogRepo.ErrNotFound
}

func (f *fakeCatalog) ListActiveResources(_ context.Context, tenantID, serviceID string) ([]models.Resource, error) {
	var out []models.Resource
	for _, r := range f.resources {
		if r.TenantID == tenantID && r.Active && r.Offers(serviceID) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeCatalog) ListTimeOff(_ context.Context, tenantID, resourceID string, from, to time.Time) ([]models.TimeOff, error) {
	var out []models.TimeOff
	for _, off := range f.timeOff {
		if off.TenantID == tenantID && off.ResourceID == resourceID &&
			off.Start.Before(to) && off.End.After(from) {
			out = append(out, off)
		}
	}
	return out, nil
}

// fakeReservations is an in-memory ReservationRepository. Its mutex plays the
// role of the claim transaction: checks and inserts are serialized. The
// catalog reference stands in for the time_off collection the real claim
// transaction consults.
type fakeReservations struct {
	mu           sync.Mutex
	reservations []*models.Reservation
	catalog      *fakeCatalog
}

func (f *fakeReservations) ClaimSlot(_ context.Context, res *models.Reservation, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	candidate := models.Interval{Start: res.Start, End: res.End}
	for _, r := range f.reservations {
		if r.TenantID != res.TenantID || r.ResourceID != res.ResourceID {
			continue
		}
		if r.Blocking(now) && candidate.Overlaps(models.Interval{Start: r.Start, End: r.End}) {
			return reservationRepo.ErrClaimConflict
		}
	}
	if f.catalog != nil {
		for _, off := range f.catalog.timeOff {
			if off.TenantID == res.TenantID && off.ResourceID == res.ResourceID &&
				candidate.Overlaps(models.Interval{Start: off.Start, End: off.End}) {
				return reservationRepo.ErrClaimConflict
			}
		}
	}
	stored := *res
	f.reservations = append(f.reservations, &stored)
	return nil
}

func (f *fakeReservations) GetByID(_ context.Context, tenantID, reservationID string) (*models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reservations {
		if r.ID == reservationID && r.TenantID == tenantID {
			out := *r
			return &out, nil
		}
	}
	return nil, reservationRepo.ErrNotFound
}

func (f *fakeReservations) ListBlocking(_ context.Context, tenantID, resourceID string, from, to, now time.Time) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	window := models.Interval{Start: from, End: to}
	var out []models.Reservation
	for _, r := range f.reservations {
		if r.TenantID == tenantID && r.ResourceID == resourceID &&
			r.Blocking(now) && window.Overlaps(models.Interval{Start: r.Start, End: r.End}) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReservations) List(_ context.Context, tenantID string, filter reservationRepo.ListFilter) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reservation
	for _, r := range f.reservations {
		if r.TenantID != tenantID {
			continue
		}
		if filter.ResourceID != "" && r.ResourceID != filter.ResourceID {
			continue
		}
		if !filter.From.IsZero() && !filter.To.IsZero() {
			window := models.Interval{Start: filter.From, End: filter.To}
			if !window.Overlaps(models.Interval{Start: r.Start, End: r.End}) {
				continue
			}
		}
		if len(filter.Statuses) > 0 {
			match := false
			for _, s := range filter.Statuses {
				if r.Status == s {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeReservations) ConfirmHold(_ context.Context, tenantID, reservationID string, now time.Time) (*models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reservations {
		if r.ID != reservationID || r.TenantID != tenantID {
			continue
		}
		if r.Status != models.StatusHold || r.HoldExpiresAt == nil || r.HoldExpiresAt.Before(now) {
			return nil, reservationRepo.ErrNoTransition
		}
		r.Status = models.StatusConfirmed
		r.HoldExpiresAt = nil
		out := *r
		return &out, nil
	}
	return nil, reservationRepo.ErrNoTransition
}

func (f *fakeReservations) Transition(_ context.Context, tenantID, reservationID string, from []string, to string) (*models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reservations {
		if r.ID != reservationID || r.TenantID != tenantID {
			continue
		}
		for _, s := range from {
			if r.Status == s {
				r.Status = to
				out := *r
				return &out, nil
			}
		}
		return nil, reservationRepo.ErrNoTransition
	}
	return nil, reservationRepo.ErrNoTransition
}

func (f *fakeReservations) ArchiveExpiredHolds(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var archived int64
	for _, r := range f.reservations {
		if r.Status == models.StatusHold && r.HoldExpiresAt != nil && r.HoldExpiresAt.Before(cutoff) {
			r.Status = models.StatusExpired
			archived++
		}
	}
	return archived, nil
}
