package tests

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"wanderwise/internal/billing"
	"wanderwise/internal/domain"
	"wanderwise/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK SUBSCRIBER REPOSITORY
// ──────────────────────────────────────────────

// MockSubscriberRepository is a mock implementation of SubscriberRepository.
type MockSubscriberRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.PaymentMethodRecord

	// Counters for verification
	CreateIfAbsentCallCount int32
	SetDefaultCallCount     int32

	// Error injection
	GetError        error
	CreateError     error
	SetDefaultError error
}

// NewMockSubscriberRepository creates a new mock subscriber repository.
func NewMockSubscriberRepository() *MockSubscriberRepository {
	return &MockSubscriberRepository{
		records: make(map[string]*domain.PaymentMethodRecord),
	}
}

// AddRecord seeds a subscriber record.
func (m *MockSubscriberRepository) AddRecord(record *domain.PaymentMethodRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.UserID] = record
}

func (m *MockSubscriberRepository) GetByUserID(ctx context.Context, userID string) (*domain.PaymentMethodRecord, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[userID]
	if !ok {
		return nil, nil
	}
	clone := *record
	return &clone, nil
}

func (m *MockSubscriberRepository) CreateIfAbsent(ctx context.Context, userID, email, customerID string) (*domain.PaymentMethodRecord, bool, error) {
	atomic.AddInt32(&m.CreateIfAbsentCallCount, 1)
	if m.CreateError != nil {
		return nil, false, m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.records[userID]; ok {
		clone := *existing
		return &clone, false, nil
	}
	record := &domain.PaymentMethodRecord{
		UserID:     userID,
		Email:      email,
		CustomerID: customerID,
	}
	m.records[userID] = record
	clone := *record
	return &clone, true, nil
}

func (m *MockSubscriberRepository) SetDefaultPaymentMethod(ctx context.Context, userID, paymentMethodID, brand, last4 string, expMonth, expYear int64) error {
	atomic.AddInt32(&m.SetDefaultCallCount, 1)
	if m.SetDefaultError != nil {
		return m.SetDefaultError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[userID]
	if !ok {
		return repository.ErrNotFound
	}
	record.PaymentMethodID = paymentMethodID
	record.CardBrand = brand
	record.CardLast4 = last4
	record.CardExpMonth = expMonth
	record.CardExpYear = expYear
	return nil
}

// GetRecord returns the stored record for test assertions.
func (m *MockSubscriberRepository) GetRecord(userID string) *domain.PaymentMethodRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.records[userID]
}

// CountRecords returns how many subscriber rows exist.
func (m *MockSubscriberRepository) CountRecords() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of TripRepository.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip

	// Counters for verification
	UpdateStatusCallCount int32
	MarkPaidCallCount     int32

	// Error injection
	CreateError       error
	UpdateStatusError error
	MarkPaidError     error
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{
		trips: make(map[string]*domain.Trip),
	}
}

// AddTrip seeds a trip.
func (m *MockTripRepository) AddTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *trip
	return &clone, nil
}

func (m *MockTripRepository) GetAllByOwner(ctx context.Context, ownerID string) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var trips []*domain.Trip
	for _, trip := range m.trips {
		if trip.OwnerID == ownerID {
			clone := *trip
			trips = append(trips, &clone)
		}
	}
	return trips, nil
}

func (m *MockTripRepository) UpdateStatus(ctx context.Context, id string, status domain.TripStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	trip, ok := m.trips[id]
	if !ok {
		return repository.ErrNotFound
	}
	trip.Status = status
	return nil
}

func (m *MockTripRepository) MarkPaid(ctx context.Context, id string, pricePaid int64) error {
	atomic.AddInt32(&m.MarkPaidCallCount, 1)
	if m.MarkPaidError != nil {
		return m.MarkPaidError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	trip, ok := m.trips[id]
	if !ok {
		return repository.ErrNotFound
	}
	trip.Status = domain.TripStatusPaid
	trip.PricePaid = pricePaid
	return nil
}

// GetTrip returns the stored trip for test assertions.
func (m *MockTripRepository) GetTrip(id string) *domain.Trip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trips[id]
}

// ──────────────────────────────────────────────
// MOCK PAYMENT ATTEMPT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentAttemptRepository is an in-memory append-only ledger.
type MockPaymentAttemptRepository struct {
	mu       sync.RWMutex
	attempts []*domain.PaymentAttempt

	// Error injection
	AppendError error
}

// NewMockPaymentAttemptRepository creates a new mock attempt repository.
func NewMockPaymentAttemptRepository() *MockPaymentAttemptRepository {
	return &MockPaymentAttemptRepository{}
}

func (m *MockPaymentAttemptRepository) Append(ctx context.Context, attempt *domain.PaymentAttempt) error {
	if m.AppendError != nil {
		return m.AppendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *attempt
	m.attempts = append(m.attempts, &clone)
	return nil
}

func (m *MockPaymentAttemptRepository) LatestByTripID(ctx context.Context, tripID string) (*domain.PaymentAttempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.attempts) - 1; i >= 0; i-- {
		if m.attempts[i].TripID == tripID {
			clone := *m.attempts[i]
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *MockPaymentAttemptRepository) GetAllByTripID(ctx context.Context, tripID string) ([]*domain.PaymentAttempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.PaymentAttempt
	for i := len(m.attempts) - 1; i >= 0; i-- {
		if m.attempts[i].TripID == tripID {
			clone := *m.attempts[i]
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (m *MockPaymentAttemptRepository) CountByTripID(ctx context.Context, tripID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, attempt := range m.attempts {
		if attempt.TripID == tripID {
			count++
		}
	}
	return count, nil
}

// CountAttempts returns the total ledger size for test assertions.
func (m *MockPaymentAttemptRepository) CountAttempts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.attempts)
}

// ──────────────────────────────────────────────
// MOCK BILLING PROCESSOR
// ──────────────────────────────────────────────

// MockProcessor is a mock implementation of billing.Processor.
type MockProcessor struct {
	mu sync.Mutex

	// Counters for verification
	CreateCustomerCallCount int32
	AttachCallCount         int32
	SetDefaultCallCount     int32
	ChargeCallCount         int32
	CheckoutCallCount       int32

	// Captured inputs
	LastChargeParams   billing.ChargeParams
	LastCheckoutParams billing.CheckoutParams

	// Configurable behavior
	CreateCustomerError error
	AttachError         error
	RetrieveCard        *billing.Card
	RetrieveError       error
	ChargeResult        *billing.ChargeResult
	ChargeError         error
	CheckoutURL         string
	CheckoutError       error

	customerSeq int32
}

// NewMockProcessor creates a mock processor that succeeds by default.
func NewMockProcessor() *MockProcessor {
	return &MockProcessor{
		RetrieveCard: &billing.Card{Brand: "visa", Last4: "4242", ExpMonth: 12, ExpYear: 2030},
		ChargeResult: &billing.ChargeResult{ChargeID: "ch_1", Status: billing.ChargeStatusSucceeded},
		CheckoutURL:  "https://checkout.example.com/session/cs_1",
	}
}

func (m *MockProcessor) CreateCustomer(ctx context.Context, email string, metadata map[string]string) (string, error) {
	atomic.AddInt32(&m.CreateCustomerCallCount, 1)
	if m.CreateCustomerError != nil {
		return "", m.CreateCustomerError
	}
	seq := atomic.AddInt32(&m.customerSeq, 1)
	return fmt.Sprintf("cus_%d", seq), nil
}

func (m *MockProcessor) AttachPaymentMethod(ctx context.Context, token, customerID string) error {
	atomic.AddInt32(&m.AttachCallCount, 1)
	return m.AttachError
}

func (m *MockProcessor) SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error {
	atomic.AddInt32(&m.SetDefaultCallCount, 1)
	return nil
}

func (m *MockProcessor) RetrievePaymentMethod(ctx context.Context, paymentMethodID string) (*billing.Card, error) {
	if m.RetrieveError != nil {
		return nil, m.RetrieveError
	}
	card := *m.RetrieveCard
	return &card, nil
}

func (m *MockProcessor) CreateCheckoutSession(ctx context.Context, params billing.CheckoutParams) (string, error) {
	atomic.AddInt32(&m.CheckoutCallCount, 1)
	m.mu.Lock()
	m.LastCheckoutParams = params
	m.mu.Unlock()
	if m.CheckoutError != nil {
		return "", m.CheckoutError
	}
	return m.CheckoutURL, nil
}

func (m *MockProcessor) CreateOffSessionCharge(ctx context.Context, params billing.ChargeParams) (*billing.ChargeResult, error) {
	atomic.AddInt32(&m.ChargeCallCount, 1)
	m.mu.Lock()
	m.LastChargeParams = params
	m.mu.Unlock()
	if m.ChargeError != nil {
		if m.ChargeResult != nil {
			result := *m.ChargeResult
			return &result, m.ChargeError
		}
		return nil, m.ChargeError
	}
	result := *m.ChargeResult
	return &result, nil
}

// Ensure MockProcessor implements billing.Processor.
var _ billing.Processor = (*MockProcessor)(nil)

// ──────────────────────────────────────────────
// MOCK PAYMENT METHOD CACHE
// ──────────────────────────────────────────────

// MockPaymentMethodCache is an in-memory payment-method cache.
type MockPaymentMethodCache struct {
	mu      sync.RWMutex
	entries map[string]*domain.PaymentMethodRecord

	// Counters for verification
	InvalidateCallCount int32
}

// NewMockPaymentMethodCache creates a new in-memory cache.
func NewMockPaymentMethodCache() *MockPaymentMethodCache {
	return &MockPaymentMethodCache{
		entries: make(map[string]*domain.PaymentMethodRecord),
	}
}

func (m *MockPaymentMethodCache) Get(ctx context.Context, userID string) (*domain.PaymentMethodRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.entries[userID]
	if !ok {
		return nil, nil
	}
	clone := *record
	return &clone, nil
}

func (m *MockPaymentMethodCache) Set(ctx context.Context, record *domain.PaymentMethodRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *record
	m.entries[record.UserID] = &clone
	return nil
}

func (m *MockPaymentMethodCache) Invalidate(ctx context.Context, userID string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, userID)
	return nil
}
