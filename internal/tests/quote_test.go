package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"wanderwise/internal/domain"
	"wanderwise/internal/service"
)

// ──────────────────────────────────────────────
// 1. PRICE QUOTE CALCULATION
// ──────────────────────────────────────────────

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestQuote_SoloTravelerFlexibleDates(t *testing.T) {
	t.Parallel()

	quoteService := service.NewQuoteService(NewMockTripRepository())

	trip := &domain.Trip{GroupSize: 1}

	quote, err := quoteService.Quote(trip, domain.TierStandard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if quote.Total != 2500 {
		t.Errorf("expected total 2500, got %d", quote.Total)
	}
	if quote.PerPersonSurcharge != 0 || quote.DurationSurcharge != 0 || quote.DestinationSurcharge != 0 {
		t.Errorf("expected no surcharges for a solo flexible trip, got %+v", quote)
	}
}

func TestQuote_GroupMultiDestination(t *testing.T) {
	t.Parallel()

	quoteService := service.NewQuoteService(NewMockTripRepository())

	// 6 travelers, 12 days, 3 destinations.
	trip := &domain.Trip{
		GroupSize:    6,
		StartDate:    day("2026-06-01"),
		EndDate:      day("2026-06-13"),
		Destinations: []string{"Lisbon", "Porto", "Madrid"},
	}

	quote, err := quoteService.Quote(trip, domain.TierStandard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Extras: 4 at 300 + 1 at 100 = 1300.
	if quote.PerPersonSurcharge != 1300 {
		t.Errorf("expected per-person surcharge 1300, got %d", quote.PerPersonSurcharge)
	}
	// Two full five-day blocks in 12 days.
	if quote.DurationSurcharge != 400 {
		t.Errorf("expected duration surcharge 400, got %d", quote.DurationSurcharge)
	}
	// Two destinations beyond the first.
	if quote.DestinationSurcharge != 1500 {
		t.Errorf("expected destination surcharge 1500, got %d", quote.DestinationSurcharge)
	}
	if quote.Total != 5700 {
		t.Errorf("expected total 5700, got %d", quote.Total)
	}
}

func TestQuote_ExecutiveIgnoresTripAttributes(t *testing.T) {
	t.Parallel()

	quoteService := service.NewQuoteService(NewMockTripRepository())

	trip := &domain.Trip{
		GroupSize:    14,
		StartDate:    day("2026-06-01"),
		EndDate:      day("2026-07-20"),
		Destinations: []string{"Tokyo", "Kyoto", "Osaka", "Sapporo"},
	}

	quote, err := quoteService.Quote(trip, domain.TierExecutive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if quote.Total != 50000 {
		t.Errorf("expected executive total 50000, got %d", quote.Total)
	}
	if quote.PerPersonSurcharge != 0 || quote.DurationSurcharge != 0 || quote.DestinationSurcharge != 0 {
		t.Errorf("expected executive quote with no surcharges, got %+v", quote)
	}
}

func TestQuote_UnknownTierRejected(t *testing.T) {
	t.Parallel()

	quoteService := service.NewQuoteService(NewMockTripRepository())

	_, err := quoteService.Quote(&domain.Trip{GroupSize: 1}, domain.TierID("platinum"))
	if !errors.Is(err, service.ErrInvalidTier) {
		t.Errorf("expected ErrInvalidTier, got %v", err)
	}
}

func TestQuote_DurationSurchargeStepsAtFiveDayBlocks(t *testing.T) {
	t.Parallel()

	quoteService := service.NewQuoteService(NewMockTripRepository())

	totalForDays := func(days int) int64 {
		trip := &domain.Trip{
			GroupSize: 1,
			StartDate: day("2026-03-01"),
			EndDate:   day("2026-03-01").AddDate(0, 0, days),
		}
		quote, err := quoteService.Quote(trip, domain.TierStandard)
		if err != nil {
			t.Fatalf("unexpected error for %d days: %v", days, err)
		}
		return quote.Total
	}

	// Days 5 through 9 all sit in the first block.
	base := totalForDays(5)
	for days := 6; days <= 9; days++ {
		if got := totalForDays(days); got != base {
			t.Errorf("expected %d-day total to match 5-day total %d, got %d", days, base, got)
		}
	}

	// Day 10 starts the second block.
	if got := totalForDays(10); got != base+200 {
		t.Errorf("expected 10-day total %d, got %d", base+200, got)
	}

	// Under five days there is no duration surcharge at all.
	if got := totalForDays(4); got != 2500 {
		t.Errorf("expected 4-day total 2500, got %d", got)
	}
}

func TestQuote_GroupSizeNeverLowersTotal(t *testing.T) {
	t.Parallel()

	quoteService := service.NewQuoteService(NewMockTripRepository())

	previous := int64(0)
	for size := 1; size <= 20; size++ {
		quote, err := quoteService.Quote(&domain.Trip{GroupSize: size}, domain.TierStandard)
		if err != nil {
			t.Fatalf("unexpected error for group size %d: %v", size, err)
		}
		if quote.Total < previous {
			t.Errorf("total dropped from %d to %d at group size %d", previous, quote.Total, size)
		}
		if quote.Total < quote.BasePrice {
			t.Errorf("total %d below base price %d at group size %d", quote.Total, quote.BasePrice, size)
		}
		previous = quote.Total
	}
}

func TestQuote_DeterministicForIdenticalInput(t *testing.T) {
	t.Parallel()

	quoteService := service.NewQuoteService(NewMockTripRepository())

	trip := &domain.Trip{
		GroupSize:    3,
		StartDate:    day("2026-05-10"),
		EndDate:      day("2026-05-17"),
		Destinations: []string{"Rome", "Florence"},
	}

	first, err := quoteService.Quote(trip, domain.TierStandard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := quoteService.Quote(trip, domain.TierStandard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if *first != *second {
		t.Errorf("identical inputs produced different quotes: %+v vs %+v", first, second)
	}
}

func TestQuote_PartialDayRoundsUp(t *testing.T) {
	t.Parallel()

	// 4 days and 6 hours counts as 5 days, which triggers the first block.
	start := day("2026-03-01")
	trip := &domain.Trip{
		GroupSize: 1,
		StartDate: start,
		EndDate:   start.Add(4*24*time.Hour + 6*time.Hour),
	}

	if got := trip.DurationDays(); got != 5 {
		t.Fatalf("expected duration 5 days, got %d", got)
	}

	quoteService := service.NewQuoteService(NewMockTripRepository())
	quote, err := quoteService.Quote(trip, domain.TierStandard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.DurationSurcharge != 200 {
		t.Errorf("expected duration surcharge 200, got %d", quote.DurationSurcharge)
	}
}

func TestQuoteTrip_AdvancesDraftToQuoted(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	tripRepo.AddTrip(&domain.Trip{
		ID:        "trip-1",
		OwnerID:   "user-1",
		GroupSize: 2,
		Status:    domain.TripStatusDraft,
	})

	quoteService := service.NewQuoteService(tripRepo)
	user := domain.User{ID: "user-1", Email: "user@example.com"}

	quote, err := quoteService.QuoteTrip(context.Background(), user, "trip-1", domain.TierStandard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Total != 2800 {
		t.Errorf("expected total 2800 for a pair, got %d", quote.Total)
	}

	if tripRepo.GetTrip("trip-1").Status != domain.TripStatusQuoted {
		t.Errorf("expected trip to advance to QUOTED, got %s", tripRepo.GetTrip("trip-1").Status)
	}

	// A second quote leaves the status alone.
	if _, err := quoteService.QuoteTrip(context.Background(), user, "trip-1", domain.TierStandard); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tripRepo.UpdateStatusCallCount != 1 {
		t.Errorf("expected one status update, got %d", tripRepo.UpdateStatusCallCount)
	}
}

func TestQuoteTrip_ForeignTripForbidden(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	tripRepo.AddTrip(&domain.Trip{
		ID:        "trip-1",
		OwnerID:   "owner-1",
		GroupSize: 2,
		Status:    domain.TripStatusDraft,
	})

	quoteService := service.NewQuoteService(tripRepo)

	_, err := quoteService.QuoteTrip(context.Background(), domain.User{ID: "intruder"}, "trip-1", domain.TierStandard)
	if !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}
