package repository

import (
	"context"

	"wanderwise/internal/domain"
)

// PaymentAttemptRepository defines the persistence operations for the
// append-only trip payment ledger. There are no update or delete operations.
type PaymentAttemptRepository interface {
	// Append persists a new settlement attempt.
	Append(ctx context.Context, attempt *domain.PaymentAttempt) error

	// LatestByTripID retrieves the most recent attempt for a trip.
	// Returns nil if the trip has no attempts.
	LatestByTripID(ctx context.Context, tripID string) (*domain.PaymentAttempt, error)

	// GetAllByTripID retrieves every attempt for a trip, newest first.
	GetAllByTripID(ctx context.Context, tripID string) ([]*domain.PaymentAttempt, error)

	// CountByTripID returns how many attempts exist for a trip. Used to
	// derive the attempt epoch of the processor idempotency key.
	CountByTripID(ctx context.Context, tripID string) (int, error)
}
