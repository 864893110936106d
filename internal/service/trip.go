package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"wanderwise/internal/domain"
	"wanderwise/internal/repository"
)

// TripService handles trip creation and retrieval. Once a settlement is
// confirmed, trip status changes belong to the ledger, not this service.
type TripService struct {
	tripRepo repository.TripRepository
}

// NewTripService creates a new TripService.
func NewTripService(tripRepo repository.TripRepository) *TripService {
	return &TripService{tripRepo: tripRepo}
}

// CreateTripRequest contains the attributes the planning wizard produces.
type CreateTripRequest struct {
	GroupSize    int
	StartDate    time.Time
	EndDate      time.Time
	Destinations []string
}

// CreateTrip persists a new draft trip owned by the user.
func (s *TripService) CreateTrip(ctx context.Context, user domain.User, req CreateTripRequest) (*domain.Trip, error) {
	if req.GroupSize < 1 {
		return nil, ErrInvalidGroupSize
	}
	if !req.StartDate.IsZero() && !req.EndDate.IsZero() && req.EndDate.Before(req.StartDate) {
		return nil, ErrInvalidDates
	}

	trip := &domain.Trip{
		ID:           uuid.New().String(),
		OwnerID:      user.ID,
		GroupSize:    req.GroupSize,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Destinations: req.Destinations,
		Status:       domain.TripStatusDraft,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, err
	}

	return trip, nil
}

// GetTrip retrieves a trip, enforcing ownership.
func (s *TripService) GetTrip(ctx context.Context, user domain.User, tripID string) (*domain.Trip, error) {
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

	return trip, nil
}

// GetTrips retrieves the caller's trips, newest first.
func (s *TripService) GetTrips(ctx context.Context, user domain.User) ([]*domain.Trip, error) {
	return s.tripRepo.GetAllByOwner(ctx, user.ID)
}
