package tests

import (
	"context"
	"fmt"
	"testing"

	"wanderwise/internal/domain"
	"wanderwise/internal/service"
)

// ──────────────────────────────────────────────
// 4. PAYMENT LEDGER AND STATUS PROJECTION
// ──────────────────────────────────────────────

func TestLedger_AttemptsAccumulateNewestFirst(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", OwnerID: "user-1", Status: domain.TripStatusQuoted})
	attemptRepo := NewMockPaymentAttemptRepository()
	ledger := service.NewLedgerService(attemptRepo, tripRepo)

	ctx := context.Background()

	if _, err := ledger.Record(ctx, "trip-1", 2800, "pi_failed_1", domain.AttemptStatusFailed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ledger.Record(ctx, "trip-1", 2800, "pi_failed_2", domain.AttemptStatusFailed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ledger.Record(ctx, "trip-1", 2800, "ch_1", domain.AttemptStatusSucceeded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	attempts, err := ledger.Attempts(ctx, "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(attempts) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(attempts))
	}
	if attempts[0].ChargeID != "ch_1" {
		t.Errorf("expected newest attempt first, got %s", attempts[0].ChargeID)
	}

	count, err := ledger.AttemptCount(ctx, "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Errorf("expected attempt count 3, got %d", count)
	}
}

func TestLedger_LatestStatusReflectsLastOutcome(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", OwnerID: "user-1", Status: domain.TripStatusQuoted})
	attemptRepo := NewMockPaymentAttemptRepository()
	ledger := service.NewLedgerService(attemptRepo, tripRepo)

	ctx := context.Background()

	latest, err := ledger.LatestStatus(ctx, "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest != nil {
		t.Errorf("expected no attempts yet, got %+v", latest)
	}

	if _, err := ledger.Record(ctx, "trip-1", 2800, "pi_failed", domain.AttemptStatusFailed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ledger.Record(ctx, "trip-1", 2800, "ch_1", domain.AttemptStatusSucceeded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	latest, err = ledger.LatestStatus(ctx, "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest == nil || latest.Status != domain.AttemptStatusSucceeded {
		t.Errorf("expected latest attempt SUCCEEDED, got %+v", latest)
	}
}

func TestLedger_ProjectionFollowsAttemptStatus(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", OwnerID: "user-1", Status: domain.TripStatusQuoted})
	attemptRepo := NewMockPaymentAttemptRepository()
	ledger := service.NewLedgerService(attemptRepo, tripRepo)

	ctx := context.Background()

	if _, err := ledger.Record(ctx, "trip-1", 2800, "pi_failed", domain.AttemptStatusFailed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tripRepo.GetTrip("trip-1").Status != domain.TripStatusPaymentFailed {
		t.Errorf("expected PAYMENT_FAILED, got %s", tripRepo.GetTrip("trip-1").Status)
	}

	if _, err := ledger.Record(ctx, "trip-1", 2800, "ch_1", domain.AttemptStatusSucceeded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	trip := tripRepo.GetTrip("trip-1")
	if trip.Status != domain.TripStatusPaid {
		t.Errorf("expected PAID, got %s", trip.Status)
	}
	if trip.PricePaid != 2800 {
		t.Errorf("expected price paid 2800, got %d", trip.PricePaid)
	}
}

func TestLedger_RequiresActionLeavesStatusUntouched(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", OwnerID: "user-1", Status: domain.TripStatusQuoted})
	attemptRepo := NewMockPaymentAttemptRepository()
	ledger := service.NewLedgerService(attemptRepo, tripRepo)

	if _, err := ledger.Record(context.Background(), "trip-1", 2800, "pi_sca", domain.AttemptStatusRequiresAction); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tripRepo.GetTrip("trip-1").Status != domain.TripStatusQuoted {
		t.Errorf("expected status unchanged, got %s", tripRepo.GetTrip("trip-1").Status)
	}
	if attemptRepo.CountAttempts() != 1 {
		t.Errorf("expected the attempt recorded, got %d rows", attemptRepo.CountAttempts())
	}
}

func TestLedger_RecordSurvivesProjectionFailure(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", OwnerID: "user-1", Status: domain.TripStatusQuoted})
	tripRepo.MarkPaidError = fmt.Errorf("connection reset")
	attemptRepo := NewMockPaymentAttemptRepository()
	ledger := service.NewLedgerService(attemptRepo, tripRepo)

	attempt, err := ledger.Record(context.Background(), "trip-1", 2800, "ch_1", domain.AttemptStatusSucceeded)
	if err == nil {
		t.Fatal("expected projection error to surface")
	}
	if attempt == nil {
		t.Fatal("expected the attempt despite the stale projection")
	}
	if attemptRepo.CountAttempts() != 1 {
		t.Fatalf("expected the ledger row in place, got %d", attemptRepo.CountAttempts())
	}

	// Repair the drift once the store recovers.
	tripRepo.MarkPaidError = nil
	if err := ledger.RebuildProjection(context.Background(), "trip-1"); err != nil {
		t.Fatalf("unexpected rebuild error: %v", err)
	}
	if tripRepo.GetTrip("trip-1").Status != domain.TripStatusPaid {
		t.Errorf("expected rebuilt projection PAID, got %s", tripRepo.GetTrip("trip-1").Status)
	}
}

func TestLedger_RebuildNoopWithoutAttempts(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", OwnerID: "user-1", Status: domain.TripStatusDraft})
	ledger := service.NewLedgerService(NewMockPaymentAttemptRepository(), tripRepo)

	if err := ledger.RebuildProjection(context.Background(), "trip-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tripRepo.GetTrip("trip-1").Status != domain.TripStatusDraft {
		t.Errorf("expected status untouched, got %s", tripRepo.GetTrip("trip-1").Status)
	}
}
