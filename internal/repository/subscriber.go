package repository

import (
	"context"

	"wanderwise/internal/domain"
)

// SubscriberRepository defines the persistence operations for the mapping
// between application users and billing-processor customers.
type SubscriberRepository interface {
	// GetByUserID retrieves the billing record for a user.
	// Returns nil if the user has no record yet.
	GetByUserID(ctx context.Context, userID string) (*domain.PaymentMethodRecord, error)

	// CreateIfAbsent inserts a new subscriber row keyed by user id. When a
	// row already exists (including one inserted by a concurrent request)
	// the existing record is returned unchanged and created is false. This
	// is the insert-or-return-existing guard against duplicate customers.
	CreateIfAbsent(ctx context.Context, userID, email, customerID string) (record *domain.PaymentMethodRecord, created bool, err error)

	// SetDefaultPaymentMethod overwrites the stored default payment method
	// and its card display fields. Prior methods are not retained.
	SetDefaultPaymentMethod(ctx context.Context, userID, paymentMethodID, brand, last4 string, expMonth, expYear int64) error
}
