package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"wanderwise/internal/billing"
	"wanderwise/internal/domain"
	"wanderwise/internal/repository"
)

// ChargeService settles a quoted trip by charging the user's stored payment
// method off-session, with no further user interaction. Used when the user
// has pre-authorized charges and the app triggers billing on itinerary
// generation instead of redirecting to a hosted page.
type ChargeService struct {
	subscriberRepo repository.SubscriberRepository
	tripRepo       repository.TripRepository
	ledger         *LedgerService
	processor      billing.Processor
	notifier       *NotificationService
}

// NewChargeService creates a new ChargeService.
func NewChargeService(
	subscriberRepo repository.SubscriberRepository,
	tripRepo repository.TripRepository,
	ledger *LedgerService,
	processor billing.Processor,
	notifier *NotificationService,
) *ChargeService {
	return &ChargeService{
		subscriberRepo: subscriberRepo,
		tripRepo:       tripRepo,
		ledger:         ledger,
		processor:      processor,
		notifier:       notifier,
	}
}

// ChargeRequest contains the parameters for an off-session charge.
type ChargeRequest struct {
	TripID string
	Amount int64 // minor currency units
}

// Charge runs the off-session settlement sequence: resolve the stored payment
// method, invoke the processor, append the outcome to the ledger, then let
// the ledger project the trip status. Declines are recorded and surfaced as
// ErrChargeDeclined without any automatic retry; off-session retries risk
// duplicate holds and stay a manual re-trigger by the user.
func (s *ChargeService) Charge(ctx context.Context, user domain.User, req ChargeRequest) (*domain.PaymentAttempt, error) {
	if req.TripID == "" {
		return nil, ErrInvalidTripID
	}
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	// Fail fast before any processor traffic when no method is on file.
	record, err := s.subscriberRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if !record.HasDefaultMethod() {
		return nil, ErrNoPaymentMethod
	}

	trip, err := s.tripRepo.GetByID(ctx, req.TripID)
	if err != nil {
		return nil, err
	}
	if trip.OwnerID != user.ID {
		return nil, ErrForbidden
	}

	// The idempotency key is trip id + amount + attempt epoch: a duplicated
	// request (double-click, network retry) reuses the first outcome, while
	// a deliberate re-trigger after a recorded failure gets a fresh key.
	epoch, err := s.ledger.AttemptCount(ctx, req.TripID)
	if err != nil {
		return nil, err
	}
	idempotencyKey := fmt.Sprintf("trip-charge:%s:%d:%d", req.TripID, req.Amount, epoch)

	result, err := s.processor.CreateOffSessionCharge(ctx, billing.ChargeParams{
		CustomerID:      record.CustomerID,
		PaymentMethodID: record.PaymentMethodID,
		Amount:          req.Amount,
		Metadata: map[string]string{
			"trip_id": req.TripID,
			"user_id": user.ID,
		},
		IdempotencyKey: idempotencyKey,
	})

	switch {
	case err == nil:
		// Fall through to recording below.
	case errors.Is(err, billing.ErrDeclined):
		attempt, recordErr := s.recordOutcome(ctx, req, result, domain.AttemptStatusFailed)
		if recordErr != nil {
			return nil, recordErr
		}
		s.notifyOutcome(ctx, user, attempt)
		return attempt, fmt.Errorf("%w: %v", ErrChargeDeclined, err)
	default:
		// No local record: nothing is known to have been charged, and a
		// retried request will reuse the same idempotency key.
		return nil, fmt.Errorf("%w: %v", ErrProcessorUnavailable, err)
	}

	attempt, err := s.recordOutcome(ctx, req, result, attemptStatus(result.Status))
	if err != nil {
		return nil, err
	}
	s.notifyOutcome(ctx, user, attempt)

	return attempt, nil
}

// recordOutcome appends the attempt to the ledger. A store failure after a
// successful processor charge is the one inconsistent state this pipeline
// accepts: it is logged as a reconciliation gap, never masked.
func (s *ChargeService) recordOutcome(ctx context.Context, req ChargeRequest, result *billing.ChargeResult, status domain.AttemptStatus) (*domain.PaymentAttempt, error) {
	chargeID := ""
	if result != nil {
		chargeID = result.ChargeID
	}

	attempt, err := s.ledger.Record(ctx, req.TripID, req.Amount, chargeID, status)
	if err != nil {
		if attempt == nil {
			log.Printf("RECONCILIATION GAP: charge %s (trip %s, amount %d, status %s) has no ledger row: %v",
				chargeID, req.TripID, req.Amount, status, err)
			return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
		}
		// Ledger row landed, only the projection is stale. Surface the
		// attempt; RebuildProjection can repair the trip later.
		return attempt, nil
	}

	return attempt, nil
}

func (s *ChargeService) notifyOutcome(ctx context.Context, user domain.User, attempt *domain.PaymentAttempt) {
	if s.notifier == nil || attempt == nil {
		return
	}
	switch attempt.Status {
	case domain.AttemptStatusSucceeded:
		_ = s.notifier.NotifyPaymentSucceeded(ctx, attempt, user.ID)
	case domain.AttemptStatusFailed:
		_ = s.notifier.NotifyPaymentFailed(ctx, attempt, user.ID)
	}
}

func attemptStatus(status billing.ChargeStatus) domain.AttemptStatus {
	switch status {
	case billing.ChargeStatusSucceeded:
		return domain.AttemptStatusSucceeded
	case billing.ChargeStatusRequiresAction:
		return domain.AttemptStatusRequiresAction
	default:
		return domain.AttemptStatusFailed
	}
}
