package tests

import (
	"context"
	"errors"
	"sync"
	"testing"

	"wanderwise/internal/billing"
	"wanderwise/internal/domain"
	"wanderwise/internal/service"
)

// ──────────────────────────────────────────────
// 2. CUSTOMER AND PAYMENT METHOD LIFECYCLE
// ──────────────────────────────────────────────

func TestEnsureCustomer_CreatesProcessorCustomerOnce(t *testing.T) {
	t.Parallel()

	subscriberRepo := NewMockSubscriberRepository()
	processor := NewMockProcessor()
	pmService := service.NewPaymentMethodService(subscriberRepo, processor, nil)

	user := domain.User{ID: "user-1", Email: "user@example.com"}

	first, err := pmService.EnsureCustomer(context.Background(), user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := pmService.EnsureCustomer(context.Background(), user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != second {
		t.Errorf("expected stable customer id, got %s then %s", first, second)
	}
	if processor.CreateCustomerCallCount != 1 {
		t.Errorf("expected one processor customer creation, got %d", processor.CreateCustomerCallCount)
	}
	if subscriberRepo.CountRecords() != 1 {
		t.Errorf("expected one subscriber record, got %d", subscriberRepo.CountRecords())
	}
}

func TestEnsureCustomer_ConcurrentFirstCallsConverge(t *testing.T) {
	t.Parallel()

	subscriberRepo := NewMockSubscriberRepository()
	processor := NewMockProcessor()
	pmService := service.NewPaymentMethodService(subscriberRepo, processor, nil)

	user := domain.User{ID: "user-1", Email: "user@example.com"}

	const callers = 8
	ids := make([]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = pmService.EnsureCustomer(context.Background(), user)
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: unexpected error: %v", i, errs[i])
		}
		if ids[i] != ids[0] {
			t.Errorf("caller %d got customer id %s, caller 0 got %s", i, ids[i], ids[0])
		}
	}

	// No matter how many processor customers the race minted, the store
	// holds exactly one and every caller saw that one.
	if subscriberRepo.CountRecords() != 1 {
		t.Errorf("expected one subscriber record, got %d", subscriberRepo.CountRecords())
	}
}

func TestAttach_RequiresExistingCustomer(t *testing.T) {
	t.Parallel()

	subscriberRepo := NewMockSubscriberRepository()
	processor := NewMockProcessor()
	pmService := service.NewPaymentMethodService(subscriberRepo, processor, nil)

	_, err := pmService.Attach(context.Background(), domain.User{ID: "user-1"}, "pm_tok_1")
	if !errors.Is(err, service.ErrNoCustomer) {
		t.Errorf("expected ErrNoCustomer, got %v", err)
	}
	if processor.AttachCallCount != 0 {
		t.Errorf("expected no processor attach, got %d", processor.AttachCallCount)
	}
}

func TestAttach_ReplacesPreviousDefault(t *testing.T) {
	t.Parallel()

	subscriberRepo := NewMockSubscriberRepository()
	subscriberRepo.AddRecord(&domain.PaymentMethodRecord{
		UserID:     "user-1",
		Email:      "user@example.com",
		CustomerID: "cus_1",
	})
	processor := NewMockProcessor()
	cache := NewMockPaymentMethodCache()
	pmService := service.NewPaymentMethodService(subscriberRepo, processor, cache)

	user := domain.User{ID: "user-1", Email: "user@example.com"}

	if _, err := pmService.Attach(context.Background(), user, "pm_first"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	processor.RetrieveCard = &billing.Card{Brand: "mastercard", Last4: "4444", ExpMonth: 1, ExpYear: 2031}
	record, err := pmService.Attach(context.Background(), user, "pm_second")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.PaymentMethodID != "pm_second" {
		t.Errorf("expected default pm_second, got %s", record.PaymentMethodID)
	}
	if record.CardBrand != "mastercard" || record.CardLast4 != "4444" {
		t.Errorf("expected new card details, got %s %s", record.CardBrand, record.CardLast4)
	}

	// Still a single record per user, and still a single customer.
	if subscriberRepo.CountRecords() != 1 {
		t.Errorf("expected one subscriber record, got %d", subscriberRepo.CountRecords())
	}
	stored := subscriberRepo.GetRecord("user-1")
	if stored.PaymentMethodID != "pm_second" {
		t.Errorf("expected stored default pm_second, got %s", stored.PaymentMethodID)
	}
	if cache.InvalidateCallCount != 2 {
		t.Errorf("expected cache invalidation per attach, got %d", cache.InvalidateCallCount)
	}
}

func TestAttach_RejectedTokenLeavesStoreUntouched(t *testing.T) {
	t.Parallel()

	subscriberRepo := NewMockSubscriberRepository()
	subscriberRepo.AddRecord(&domain.PaymentMethodRecord{
		UserID:     "user-1",
		CustomerID: "cus_1",
	})
	processor := NewMockProcessor()
	processor.AttachError = billing.ErrRejected
	pmService := service.NewPaymentMethodService(subscriberRepo, processor, nil)

	_, err := pmService.Attach(context.Background(), domain.User{ID: "user-1"}, "pm_expired")
	if !errors.Is(err, service.ErrAttachRejected) {
		t.Errorf("expected ErrAttachRejected, got %v", err)
	}

	if subscriberRepo.GetRecord("user-1").PaymentMethodID != "" {
		t.Error("expected no stored payment method after a rejected attach")
	}
	if subscriberRepo.SetDefaultCallCount != 0 {
		t.Errorf("expected no store write, got %d", subscriberRepo.SetDefaultCallCount)
	}
}

func TestAttach_ProcessorOutageSurfacedAsUnavailable(t *testing.T) {
	t.Parallel()

	subscriberRepo := NewMockSubscriberRepository()
	subscriberRepo.AddRecord(&domain.PaymentMethodRecord{
		UserID:     "user-1",
		CustomerID: "cus_1",
	})
	processor := NewMockProcessor()
	processor.AttachError = billing.ErrUnavailable
	pmService := service.NewPaymentMethodService(subscriberRepo, processor, nil)

	_, err := pmService.Attach(context.Background(), domain.User{ID: "user-1"}, "pm_tok_1")
	if !errors.Is(err, service.ErrProcessorUnavailable) {
		t.Errorf("expected ErrProcessorUnavailable, got %v", err)
	}
}

func TestGet_NilWhenNoDefaultMethod(t *testing.T) {
	t.Parallel()

	subscriberRepo := NewMockSubscriberRepository()
	pmService := service.NewPaymentMethodService(subscriberRepo, NewMockProcessor(), nil)

	user := domain.User{ID: "user-1"}

	// No record at all.
	record, err := pmService.Get(context.Background(), user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record != nil {
		t.Errorf("expected nil record, got %+v", record)
	}

	// Customer exists but no method attached yet.
	subscriberRepo.AddRecord(&domain.PaymentMethodRecord{UserID: "user-1", CustomerID: "cus_1"})
	record, err = pmService.Get(context.Background(), user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record != nil {
		t.Errorf("expected nil record without a default method, got %+v", record)
	}
}

func TestGet_CachesStoredMethod(t *testing.T) {
	t.Parallel()

	subscriberRepo := NewMockSubscriberRepository()
	subscriberRepo.AddRecord(&domain.PaymentMethodRecord{
		UserID:          "user-1",
		CustomerID:      "cus_1",
		PaymentMethodID: "pm_1",
		CardBrand:       "visa",
		CardLast4:       "4242",
	})
	cache := NewMockPaymentMethodCache()
	pmService := service.NewPaymentMethodService(subscriberRepo, NewMockProcessor(), cache)

	record, err := pmService.Get(context.Background(), domain.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record == nil || record.PaymentMethodID != "pm_1" {
		t.Fatalf("expected stored method pm_1, got %+v", record)
	}

	cached, err := cache.Get(context.Background(), "user-1")
	if err != nil || cached == nil {
		t.Fatalf("expected cache to hold the record, got %+v (%v)", cached, err)
	}
}
