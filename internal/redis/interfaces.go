package redis

import (
	"context"

	"wanderwise/internal/domain"
)

// PaymentMethodCacheInterface abstracts the payment-method cache so services
// can be tested with in-memory fakes.
type PaymentMethodCacheInterface interface {
	Get(ctx context.Context, userID string) (*domain.PaymentMethodRecord, error)
	Set(ctx context.Context, record *domain.PaymentMethodRecord) error
	Invalidate(ctx context.Context, userID string) error
}

// Ensure implementations satisfy the interface.
var _ PaymentMethodCacheInterface = (*PaymentMethodCache)(nil)
