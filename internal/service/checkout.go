package service

import (
	"context"
	"fmt"

	"wanderwise/internal/billing"
	"wanderwise/internal/domain"
	"wanderwise/internal/repository"
)

// CheckoutService creates hosted, redirect-based one-time-payment sessions.
// It never marks anything paid: settlement confirmation happens out-of-band
// using the metadata embedded in the session.
type CheckoutService struct {
	subscriberRepo repository.SubscriberRepository
	tripRepo       repository.TripRepository
	processor      billing.Processor
	successURL     string
	cancelURL      string
}

// NewCheckoutService creates a new CheckoutService. successURL and cancelURL
// are the redirect bases; the trip id is appended so the client can resume
// the right flow.
func NewCheckoutService(
	subscriberRepo repository.SubscriberRepository,
	tripRepo repository.TripRepository,
	processor billing.Processor,
	successURL, cancelURL string,
) *CheckoutService {
	return &CheckoutService{
		subscriberRepo: subscriberRepo,
		tripRepo:       tripRepo,
		processor:      processor,
		successURL:     successURL,
		cancelURL:      cancelURL,
	}
}

// CreateSessionRequest contains the parameters for a hosted checkout session.
type CreateSessionRequest struct {
	TripID   string
	Amount   int64 // minor currency units
	TierName string
}

// CreateSession creates a single-use hosted payment session for the quoted
// amount and returns its redirect URL. The trip moves to CHECKOUT_PENDING;
// it stays there until the processor-side confirmation flips it out-of-band
// or the session lapses unredeemed.
func (s *CheckoutService) CreateSession(ctx context.Context, user domain.User, req CreateSessionRequest) (string, error) {
	if req.TripID == "" {
		return "", ErrInvalidTripID
	}
	if req.Amount <= 0 {
		return "", ErrInvalidAmount
	}

	trip, err := s.tripRepo.GetByID(ctx, req.TripID)
	if err != nil {
		return "", err
	}
	if trip.OwnerID != user.ID {
		return "", ErrForbidden
	}

	// Reuse the stored billing customer when one exists so the processor
	// does not mint a duplicate record for the same user.
	record, err := s.subscriberRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return "", err
	}
	customerID := ""
	if record != nil {
		customerID = record.CustomerID
	}

	tierName := req.TierName
	if tierName == "" {
		tierName = string(domain.TierStandard)
	}

	url, err := s.processor.CreateCheckoutSession(ctx, billing.CheckoutParams{
		CustomerID:    customerID,
		CustomerEmail: user.Email,
		Name:          fmt.Sprintf("Trip itinerary (%s)", tierName),
		Description:   fmt.Sprintf("One-time itinerary generation for trip %s", req.TripID),
		Amount:        req.Amount,
		SuccessURL:    fmt.Sprintf("%s?trip_id=%s&checkout=success", s.successURL, req.TripID),
		CancelURL:     fmt.Sprintf("%s?trip_id=%s&checkout=cancelled", s.cancelURL, req.TripID),
		Metadata: map[string]string{
			"trip_id": req.TripID,
			"tier":    tierName,
			"user_id": user.ID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProcessorUnavailable, err)
	}

	if err := s.tripRepo.UpdateStatus(ctx, req.TripID, domain.TripStatusCheckoutPending); err != nil {
		return "", err
	}

	return url, nil
}
