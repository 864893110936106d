package tests

import (
	"context"
	"errors"
	"strings"
	"testing"

	"wanderwise/internal/billing"
	"wanderwise/internal/domain"
	"wanderwise/internal/service"
)

// ──────────────────────────────────────────────
// 5. HOSTED CHECKOUT SESSION CREATION
// ──────────────────────────────────────────────

func newCheckoutFixture() (*MockSubscriberRepository, *MockTripRepository, *MockProcessor, *service.CheckoutService) {
	subscriberRepo := NewMockSubscriberRepository()
	tripRepo := NewMockTripRepository()
	processor := NewMockProcessor()
	checkoutService := service.NewCheckoutService(
		subscriberRepo, tripRepo, processor,
		"https://app.example.com/checkout/success",
		"https://app.example.com/checkout/cancel",
	)
	return subscriberRepo, tripRepo, processor, checkoutService
}

func TestCheckout_SessionCarriesTripMetadata(t *testing.T) {
	t.Parallel()

	_, tripRepo, processor, checkoutService := newCheckoutFixture()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", OwnerID: "user-1", Status: domain.TripStatusQuoted})

	user := domain.User{ID: "user-1", Email: "user@example.com"}

	url, err := checkoutService.CreateSession(context.Background(), user, service.CreateSessionRequest{
		TripID:   "trip-1",
		Amount:   5700,
		TierName: "standard",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != processor.CheckoutURL {
		t.Errorf("expected session url %s, got %s", processor.CheckoutURL, url)
	}

	params := processor.LastCheckoutParams
	if params.Amount != 5700 {
		t.Errorf("expected amount 5700, got %d", params.Amount)
	}
	if params.Metadata["trip_id"] != "trip-1" || params.Metadata["user_id"] != "user-1" || params.Metadata["tier"] != "standard" {
		t.Errorf("unexpected metadata %+v", params.Metadata)
	}
	if !strings.Contains(params.SuccessURL, "trip_id=trip-1") || !strings.Contains(params.CancelURL, "trip_id=trip-1") {
		t.Errorf("expected trip id in redirect urls, got %s / %s", params.SuccessURL, params.CancelURL)
	}
}

func TestCheckout_ReusesStoredCustomer(t *testing.T) {
	t.Parallel()

	subscriberRepo, tripRepo, processor, checkoutService := newCheckoutFixture()
	subscriberRepo.AddRecord(&domain.PaymentMethodRecord{
		UserID:     "user-1",
		Email:      "user@example.com",
		CustomerID: "cus_existing",
	})
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", OwnerID: "user-1", Status: domain.TripStatusQuoted})

	user := domain.User{ID: "user-1", Email: "user@example.com"}

	if _, err := checkoutService.CreateSession(context.Background(), user, service.CreateSessionRequest{
		TripID: "trip-1",
		Amount: 2500,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if processor.LastCheckoutParams.CustomerID != "cus_existing" {
		t.Errorf("expected stored customer cus_existing, got %q", processor.LastCheckoutParams.CustomerID)
	}
}

func TestCheckout_FallsBackToEmailWithoutCustomer(t *testing.T) {
	t.Parallel()

	_, tripRepo, processor, checkoutService := newCheckoutFixture()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", OwnerID: "user-1", Status: domain.TripStatusQuoted})

	user := domain.User{ID: "user-1", Email: "user@example.com"}

	if _, err := checkoutService.CreateSession(context.Background(), user, service.CreateSessionRequest{
		TripID: "trip-1",
		Amount: 2500,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if processor.LastCheckoutParams.CustomerID != "" {
		t.Errorf("expected no customer id, got %q", processor.LastCheckoutParams.CustomerID)
	}
	if processor.LastCheckoutParams.CustomerEmail != "user@example.com" {
		t.Errorf("expected customer email, got %q", processor.LastCheckoutParams.CustomerEmail)
	}
}

func TestCheckout_MarksTripCheckoutPendingNeverPaid(t *testing.T) {
	t.Parallel()

	_, tripRepo, _, checkoutService := newCheckoutFixture()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", OwnerID: "user-1", Status: domain.TripStatusQuoted})

	user := domain.User{ID: "user-1", Email: "user@example.com"}

	if _, err := checkoutService.CreateSession(context.Background(), user, service.CreateSessionRequest{
		TripID: "trip-1",
		Amount: 2500,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	trip := tripRepo.GetTrip("trip-1")
	if trip.Status != domain.TripStatusCheckoutPending {
		t.Errorf("expected CHECKOUT_PENDING, got %s", trip.Status)
	}

	// Session creation alone never settles anything.
	if tripRepo.MarkPaidCallCount != 0 {
		t.Errorf("expected no paid transition, got %d", tripRepo.MarkPaidCallCount)
	}
	if trip.PricePaid != 0 {
		t.Errorf("expected no recorded payment, got %d", trip.PricePaid)
	}
}

func TestCheckout_ProcessorOutageLeavesStatusUntouched(t *testing.T) {
	t.Parallel()

	_, tripRepo, processor, checkoutService := newCheckoutFixture()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", OwnerID: "user-1", Status: domain.TripStatusQuoted})
	processor.CheckoutError = billing.ErrUnavailable

	_, err := checkoutService.CreateSession(context.Background(), domain.User{ID: "user-1"}, service.CreateSessionRequest{
		TripID: "trip-1",
		Amount: 2500,
	})
	if !errors.Is(err, service.ErrProcessorUnavailable) {
		t.Fatalf("expected ErrProcessorUnavailable, got %v", err)
	}
	if tripRepo.GetTrip("trip-1").Status != domain.TripStatusQuoted {
		t.Errorf("expected status unchanged, got %s", tripRepo.GetTrip("trip-1").Status)
	}
}

func TestCheckout_Validation(t *testing.T) {
	t.Parallel()

	_, tripRepo, _, checkoutService := newCheckoutFixture()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", OwnerID: "owner-1", Status: domain.TripStatusQuoted})

	testCases := []struct {
		name    string
		user    domain.User
		req     service.CreateSessionRequest
		wantErr error
	}{
		{
			name:    "missing trip id",
			user:    domain.User{ID: "owner-1"},
			req:     service.CreateSessionRequest{Amount: 2500},
			wantErr: service.ErrInvalidTripID,
		},
		{
			name:    "zero amount",
			user:    domain.User{ID: "owner-1"},
			req:     service.CreateSessionRequest{TripID: "trip-1"},
			wantErr: service.ErrInvalidAmount,
		},
		{
			name:    "foreign trip",
			user:    domain.User{ID: "intruder"},
			req:     service.CreateSessionRequest{TripID: "trip-1", Amount: 2500},
			wantErr: service.ErrForbidden,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := checkoutService.CreateSession(context.Background(), tc.user, tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}
