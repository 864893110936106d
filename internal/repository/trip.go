package repository

import (
	"context"

	"wanderwise/internal/domain"
)

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// Create persists a new trip.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// GetAllByOwner retrieves the trips belonging to a user.
	GetAllByOwner(ctx context.Context, ownerID string) ([]*domain.Trip, error)

	// UpdateStatus updates the cached status projection of a trip.
	UpdateStatus(ctx context.Context, id string, status domain.TripStatus) error

	// MarkPaid sets the trip to PAID and records the settled amount.
	MarkPaid(ctx context.Context, id string, pricePaid int64) error
}
