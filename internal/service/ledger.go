package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"wanderwise/internal/domain"
	"wanderwise/internal/repository"
)

// LedgerService is the single source of truth for whether a trip has been
// paid. Attempts are append-only; the trip's status field is a derived,
// rebuildable projection of the latest attempt and is only ever written
// after its attempt row exists.
type LedgerService struct {
	attemptRepo repository.PaymentAttemptRepository
	tripRepo    repository.TripRepository
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(attemptRepo repository.PaymentAttemptRepository, tripRepo repository.TripRepository) *LedgerService {
	return &LedgerService{
		attemptRepo: attemptRepo,
		tripRepo:    tripRepo,
	}
}

// Record appends a settlement attempt and projects the outcome onto the
// trip's cached status. The append happens first: a projection can never
// exist without its ledger row.
func (s *LedgerService) Record(ctx context.Context, tripID string, amount int64, chargeID string, status domain.AttemptStatus) (*domain.PaymentAttempt, error) {
	attempt := &domain.PaymentAttempt{
		ID:        uuid.New().String(),
		TripID:    tripID,
		Amount:    amount,
		ChargeID:  chargeID,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.attemptRepo.Append(ctx, attempt); err != nil {
		return nil, err
	}

	if err := s.project(ctx, attempt); err != nil {
		// The ledger row is in place, so the truth is durable. The stale
		// projection is logged and rebuildable via RebuildProjection.
		log.Printf("ledger: projection update failed for trip %s (attempt %s): %v", tripID, attempt.ID, err)
		return attempt, err
	}

	return attempt, nil
}

// LatestStatus returns the most recent attempt for a trip, or nil when the
// trip has no attempts.
func (s *LedgerService) LatestStatus(ctx context.Context, tripID string) (*domain.PaymentAttempt, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}
	return s.attemptRepo.LatestByTripID(ctx, tripID)
}

// Attempts returns every attempt for a trip, newest first.
func (s *LedgerService) Attempts(ctx context.Context, tripID string) ([]*domain.PaymentAttempt, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}
	return s.attemptRepo.GetAllByTripID(ctx, tripID)
}

// AttemptCount returns the number of attempts recorded for a trip. The count
// is the attempt epoch used to build processor idempotency keys.
func (s *LedgerService) AttemptCount(ctx context.Context, tripID string) (int, error) {
	return s.attemptRepo.CountByTripID(ctx, tripID)
}

// RebuildProjection recomputes a trip's cached status from its latest ledger
// entry, repairing any drift between the two.
func (s *LedgerService) RebuildProjection(ctx context.Context, tripID string) error {
	latest, err := s.attemptRepo.LatestByTripID(ctx, tripID)
	if err != nil {
		return err
	}
	if latest == nil {
		return nil
	}
	return s.project(ctx, latest)
}

func (s *LedgerService) project(ctx context.Context, attempt *domain.PaymentAttempt) error {
	switch attempt.Status {
	case domain.AttemptStatusSucceeded:
		return s.tripRepo.MarkPaid(ctx, attempt.TripID, attempt.Amount)
	case domain.AttemptStatusFailed:
		return s.tripRepo.UpdateStatus(ctx, attempt.TripID, domain.TripStatusPaymentFailed)
	default:
		// REQUIRES_ACTION settles neither way; the trip keeps its status
		// until a terminal attempt lands.
		return nil
	}
}
