package booking

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"trimly/models"
)

// testDate is a Monday.
const testDate = "2025-01-06"

var testNow = time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)

func newTestEngine(stepMinutes int) (*DefaultEngine, *fakeCatalog, *fakeReservations, *adjustableClock) {
	catalog := &fakeCatalog{
		tenants: []*models.Tenant{
			{ID: "shop-a", Slug: "shop-a", APIKey: "key-a", Name: "Shop A", SlotStepMinutes: stepMinutes, HoldTTLSeconds: 300, Active: true},
			{ID: "shop-b", Slug: "shop-b", APIKey: "key-b", Name: "Shop B", SlotStepMinutes: stepMinutes, HoldTTLSeconds: 300, Active: true},
		},
		services: []*models.Service{
			{ID: "svc-cut", TenantID: "shop-a", Name: "Haircut", DurationMinutes: 30, PriceCents: 3000, Currency: "USD", Active: true},
			{ID: "svc-beard", TenantID: "shop-a", Name: "Beard Trim", DurationMinutes: 15, PriceCents: 1500, Currency: "USD", Active: true},
			{ID: "svc-cut", TenantID: "shop-b", Name: "Haircut", DurationMinutes: 30, PriceCents: 2500, Currency: "USD", Active: true},
		},
		resources: []models.Resource{
			{
				ID: "res-1", TenantID: "shop-a", Name: "Ana", Active: true,
				ServiceIDs: []string{"svc-cut", "svc-beard"},
				Hours:      []models.DayWindow{{Weekday: time.Monday, StartMin: 9 * 60, EndMin: 17 * 60}},
			},
			{
				ID: "res-1", TenantID: "shop-b", Name: "Bo", Active: true,
				ServiceIDs: []string{"svc-cut"},
				Hours:      []models.DayWindow{{Weekday: time.Monday, StartMin: 9 * 60, EndMin: 17 * 60}},
			},
		},
	}
	reservations := &fakeReservations{catalog: catalog}
	clock := newClock(testNow)
	engine := &DefaultEngine{
		Catalog:            catalog,
		Reservations:       reservations,
		Clock:              clock,
		DefaultStepMinutes: 30,
		DefaultHoldTTL:     5 * time.Minute,
	}
	return engine, catalog, reservations, clock
}

func confirmedAt(tenantID, resourceID string, start, end time.Time) *models.Reservation {
	return &models.Reservation{
		ID: "seed-" + start.Format("150405"), TenantID: tenantID, ResourceID: resourceID,
		PrimaryServiceID: "svc-cut", Start: start, End: end,
		Status: models.StatusConfirmed, CreatedAt: start.Add(-time.Hour),
	}
}

func slotStarts(slots []models.Slot) map[string]bool {
	out := make(map[string]bool, len(slots))
	for _, s := range slots {
		out[s.Start.Format("15:04")] = true
	}
	return out
}

func TestGetAvailability(t *testing.T) {
	req := AvailabilityRequest{PrimaryServiceID: "svc-cut", Date: testDate}

	t.Run("overlap boundary at thirty minute steps", func(t *testing.T) {
		engine, _, reservations, _ := newTestEngine(30)
		reservations.reservations = append(reservations.reservations,
			confirmedAt("shop-a", "res-1", at(10, 0), at(10, 30)))

		slots, err := engine.GetAvailability(context.Background(), "shop-a", req)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		starts := slotStarts(slots)
		if starts["10:00"] {
			t.Fatalf("10:00 should be excluded by the confirmed reservation")
		}
		if !starts["09:30"] {
			t.Fatalf("09:30 ends exactly at the busy boundary and should be offered")
		}
		if !starts["10:30"] {
			t.Fatalf("10:30 starts exactly at the busy boundary and should be offered")
		}
		if !starts["16:30"] {
			t.Fatalf("16:30 fits exactly to the end of the working window and should be offered")
		}
		if len(slots) != 15 {
			t.Fatalf("expected 15 slots (16 candidates minus one busy), got %d", len(slots))
		}
	})

	t.Run("overlap boundary at fifteen minute steps", func(t *testing.T) {
		engine, _, reservations, _ := newTestEngine(15)
		reservations.reservations = append(reservations.reservations,
			confirmedAt("shop-a", "res-1", at(10, 0), at(10, 30)))

		slots, err := engine.GetAvailability(context.Background(), "shop-a", req)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		starts := slotStarts(slots)
		if starts["09:45"] {
			t.Fatalf("09:45 would end at 10:15 inside the busy interval and must be excluded")
		}
		if starts["10:15"] {
			t.Fatalf("10:15 overlaps the busy interval and must be excluded")
		}
		if !starts["09:30"] || !starts["10:30"] {
			t.Fatalf("boundary-touching candidates should be offered, got %v", starts)
		}
	})

	t.Run("combo occupies one contiguous interval", func(t *testing.T) {
		engine, _, reservations, _ := newTestEngine(30)
		reservations.reservations = append(reservations.reservations,
			confirmedAt("shop-a", "res-1", at(10, 0), at(10, 30)))

		comboReq := req
		comboReq.SecondaryServiceID = "svc-beard"
		slots, err := engine.GetAvailability(context.Background(), "shop-a", comboReq)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		for _, s := range slots {
			if s.End.Sub(s.Start) != 45*time.Minute {
				t.Fatalf("expected 45-minute combo slots, got %v", s.End.Sub(s.Start))
			}
		}
		starts := slotStarts(slots)
		if starts["09:30"] {
			t.Fatalf("09:30 combo would end at 10:15 inside the busy interval")
		}
		if starts["16:30"] {
			t.Fatalf("16:30 combo would end at 17:15 past the working window")
		}
		if !starts["16:00"] {
			t.Fatalf("16:00 combo ends at 16:45 and should be offered")
		}
	})

	t.Run("read is idempotent", func(t *testing.T) {
		engine, _, reservations, _ := newTestEngine(30)
		reservations.reservations = append(reservations.reservations,
			confirmedAt("shop-a", "res-1", at(10, 0), at(10, 30)))

		first, err := engine.GetAvailability(context.Background(), "shop-a", req)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		second, err := engine.GetAvailability(context.Background(), "shop-a", req)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("two reads with no intervening writes must match")
		}
	})

	t.Run("live hold blocks, expired hold does not", func(t *testing.T) {
		engine, _, reservations, _ := newTestEngine(30)
		live := testNow.Add(4 * time.Minute)
		lapsed := testNow.Add(-time.Minute)
		reservations.reservations = append(reservations.reservations,
			&models.Reservation{
				ID: "hold-live", TenantID: "shop-a", ResourceID: "res-1",
				PrimaryServiceID: "svc-cut", Start: at(11, 0), End: at(11, 30),
				Status: models.StatusHold, HoldExpiresAt: &live,
			},
			&models.Reservation{
				ID: "hold-lapsed", TenantID: "shop-a", ResourceID: "res-1",
				PrimaryServiceID: "svc-cut", Start: at(12, 0), End: at(12, 30),
				Status: models.StatusHold, HoldExpiresAt: &lapsed,
			},
		)

		slots, err := engine.GetAvailability(context.Background(), "shop-a", req)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		starts := slotStarts(slots)
		if starts["11:00"] {
			t.Fatalf("a live hold must block its slot")
		}
		if !starts["12:00"] {
			t.Fatalf("an expired hold must stop blocking without any writer action")
		}
	})

	t.Run("time off overrides the working window", func(t *testing.T) {
		engine, catalog, _, _ := newTestEngine(30)
		catalog.timeOff = append(catalog.timeOff, models.TimeOff{
			ID: "off-1", TenantID: "shop-a", ResourceID: "res-1",
			Start: at(14, 0), End: at(15, 0),
		})

		slots, err := engine.GetAvailability(context.Background(), "shop-a", req)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		starts := slotStarts(slots)
		if starts["14:00"] || starts["14:30"] {
			t.Fatalf("time off must exclude candidates inside it")
		}
		if !starts["15:00"] {
			t.Fatalf("15:00 starts at the time-off boundary and should be offered")
		}
	})

	t.Run("tenant isolation with colliding resource ids", func(t *testing.T) {
		engine, _, reservations, _ := newTestEngine(30)
		reservations.reservations = append(reservations.reservations,
			confirmedAt("shop-b", "res-1", at(10, 0), at(10, 30)))

		slots, err := engine.GetAvailability(context.Background(), "shop-a", req)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !slotStarts(slots)["10:00"] {
			t.Fatalf("another shop's reservation on a colliding resource id must not block this shop")
		}
	})

	t.Run("resource off that day yields no slots", func(t *testing.T) {
		engine, _, _, _ := newTestEngine(30)
		sundayReq := req
		sundayReq.Date = "2025-01-05"
		slots, err := engine.GetAvailability(context.Background(), "shop-a", sundayReq)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(slots) != 0 {
			t.Fatalf("expected no slots on a day without a working window, got %d", len(slots))
		}
	})

	t.Run("unknown service", func(t *testing.T) {
		engine, _, _, _ := newTestEngine(30)
		badReq := req
		badReq.PrimaryServiceID = "svc-missing"
		if _, err := engine.GetAvailability(context.Background(), "shop-a", badReq); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("unknown tenant", func(t *testing.T) {
		engine, _, _, _ := newTestEngine(30)
		if _, err := engine.GetAvailability(context.Background(), "shop-z", req); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("missing tenant id rejected", func(t *testing.T) {
		engine, _, _, _ := newTestEngine(30)
		if _, err := engine.GetAvailability(context.Background(), "", req); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})
}

func TestResourceDay(t *testing.T) {
	engine, catalog, reservations, _ := newTestEngine(30)
	reservations.reservations = append(reservations.reservations,
		confirmedAt("shop-a", "res-1", at(10, 0), at(10, 30)),
		confirmedAt("shop-a", "res-1", at(10, 30), at(11, 0)),
	)
	catalog.timeOff = append(catalog.timeOff, models.TimeOff{
		ID: "off-1", TenantID: "shop-a", ResourceID: "res-1",
		Start: at(14, 0), End: at(15, 0),
	})

	busy, err := engine.ResourceDay(context.Background(), "shop-a", "res-1", testDate, 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(busy) != 2 {
		t.Fatalf("expected 2 merged busy intervals, got %d", len(busy))
	}
	if !busy[0].Start.Equal(at(10, 0)) || !busy[0].End.Equal(at(11, 0)) {
		t.Fatalf("adjacent reservations should merge, got %+v", busy[0])
	}

	if _, err := engine.ResourceDay(context.Background(), "shop-a", "res-missing", testDate, 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown resource, got %v", err)
	}
}
