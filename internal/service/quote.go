package service

import (
	"context"

	"wanderwise/internal/domain"
	"wanderwise/internal/repository"
)

// Pricing constants, all in minor currency units. Surcharge math is exact in
// minor units; only the final sum is rounded, to a whole currency unit, so no
// rounding error compounds across components.
const (
	minorUnitsPerUnit = 100

	// Each traveler beyond the first costs 3 units, stepping down to 1 unit
	// once the group passes five people.
	perPersonEarlySurcharge = 3 * minorUnitsPerUnit
	perPersonLateSurcharge  = 1 * minorUnitsPerUnit
	perPersonEarlyCap       = 4 // travelers 2 through 5

	// Flat 2 units per full five-day block, not prorated.
	durationBlockDays      = 5
	perDurationBlockCharge = 2 * minorUnitsPerUnit

	// 7.5 units per destination beyond the first.
	perExtraDestinationSurcharge = 750
)

// tierCatalog is the static service-tier catalog, loaded once per process.
var tierCatalog = []domain.ServiceTier{
	{
		ID:        domain.TierStandard,
		Name:      "Standard",
		BasePrice: 25 * minorUnitsPerUnit,
		Features: []string{
			"AI-generated day-by-day itinerary",
			"Local recommendations with booking links",
			"Weather and seasonal event lookups",
			"PDF and calendar export",
		},
	},
	{
		ID:        domain.TierExecutive,
		Name:      "Executive",
		BasePrice: 500 * minorUnitsPerUnit,
		Features: []string{
			"Everything in Standard",
			"Human travel consultant review",
			"Priority rebooking support",
			"Starting price; final quote by consultation",
		},
	},
}

// QuoteService computes price quotes from trip attributes and the static
// tier catalog.
type QuoteService struct {
	tripRepo repository.TripRepository
}

// NewQuoteService creates a new QuoteService.
func NewQuoteService(tripRepo repository.TripRepository) *QuoteService {
	return &QuoteService{tripRepo: tripRepo}
}

// Tiers returns the static tier catalog.
func (s *QuoteService) Tiers() []domain.ServiceTier {
	return tierCatalog
}

// TierByID looks up a catalog entry.
func (s *QuoteService) TierByID(id domain.TierID) (*domain.ServiceTier, error) {
	for i := range tierCatalog {
		if tierCatalog[i].ID == id {
			return &tierCatalog[i], nil
		}
	}
	return nil, ErrInvalidTier
}

// Quote computes the price breakdown for the given trip attributes under a
// tier. Pure: no I/O, identical inputs always produce an identical quote.
func (s *QuoteService) Quote(trip *domain.Trip, tierID domain.TierID) (*domain.PriceQuote, error) {
	tier, err := s.TierByID(tierID)
	if err != nil {
		return nil, err
	}

	// The executive tier is a starting price for a human-mediated
	// consultation: every surcharge collapses and the base price stands.
	if tier.ID == domain.TierExecutive {
		return &domain.PriceQuote{
			TierID:    tier.ID,
			BasePrice: tier.BasePrice,
			Total:     tier.BasePrice,
		}, nil
	}

	quote := &domain.PriceQuote{
		TierID:               tier.ID,
		BasePrice:            tier.BasePrice,
		PerPersonSurcharge:   perPersonSurcharge(trip.GroupSize),
		DurationSurcharge:    durationSurcharge(trip.DurationDays()),
		DestinationSurcharge: destinationSurcharge(trip.DestinationCount()),
	}

	sum := quote.BasePrice + quote.PerPersonSurcharge + quote.DurationSurcharge + quote.DestinationSurcharge
	quote.Total = roundToWholeUnit(sum)

	return quote, nil
}

// QuoteTrip computes a quote for a stored trip and advances a draft trip to
// QUOTED. The quote itself is derived, never persisted.
func (s *QuoteService) QuoteTrip(ctx context.Context, user domain.User, tripID string, tierID domain.TierID) (*domain.PriceQuote, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if trip.OwnerID != user.ID {
		return nil, ErrForbidden
	}

	quote, err := s.Quote(trip, tierID)
	if err != nil {
		return nil, err
	}

	if trip.Status == domain.TripStatusDraft {
		if err := s.tripRepo.UpdateStatus(ctx, trip.ID, domain.TripStatusQuoted); err != nil {
			return nil, err
		}
	}

	return quote, nil
}

// perPersonSurcharge prices travelers beyond the first: the next four cost
// 3 units each, every traveler after the fifth costs 1 unit.
func perPersonSurcharge(groupSize int) int64 {
	extras := groupSize - 1
	if extras <= 0 {
		return 0
	}

	early := extras
	if early > perPersonEarlyCap {
		early = perPersonEarlyCap
	}
	late := extras - early

	return int64(early)*perPersonEarlySurcharge + int64(late)*perPersonLateSurcharge
}

// durationSurcharge adds a flat increment per full five-day block.
func durationSurcharge(durationDays int) int64 {
	if durationDays < durationBlockDays {
		return 0
	}
	return int64(durationDays/durationBlockDays) * perDurationBlockCharge
}

// destinationSurcharge prices each destination beyond the first.
func destinationSurcharge(destinationCount int) int64 {
	if destinationCount <= 1 {
		return 0
	}
	return int64(destinationCount-1) * perExtraDestinationSurcharge
}

// roundToWholeUnit rounds a minor-unit amount half-up to the nearest whole
// currency unit. Applied to the final sum only.
func roundToWholeUnit(minor int64) int64 {
	return (minor + minorUnitsPerUnit/2) / minorUnitsPerUnit * minorUnitsPerUnit
}
