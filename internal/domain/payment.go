package domain

import "time"

// AttemptStatus represents the outcome of a settlement attempt.
type AttemptStatus string

const (
	AttemptStatusSucceeded      AttemptStatus = "SUCCEEDED"
	AttemptStatusFailed         AttemptStatus = "FAILED"
	AttemptStatusRequiresAction AttemptStatus = "REQUIRES_ACTION"
)

// PaymentAttempt is one row in the trip payment ledger. The ledger is
// append-only: a trip may accumulate failed attempts before one succeeds,
// and no attempt is ever updated or deleted.
type PaymentAttempt struct {
	ID        string
	TripID    string
	Amount    int64 // minor currency units
	ChargeID  string
	Status    AttemptStatus
	CreatedAt time.Time
}

// PaymentMethodRecord links an application user to a billing-processor
// customer and their default payment method. One per user, replaced (never
// duplicated) when a new method is attached.
type PaymentMethodRecord struct {
	UserID          string
	Email           string
	CustomerID      string
	PaymentMethodID string
	CardBrand       string
	CardLast4       string
	CardExpMonth    int64
	CardExpYear     int64
}

// HasDefaultMethod reports whether a default payment method is on file.
func (r *PaymentMethodRecord) HasDefaultMethod() bool {
	return r != nil && r.PaymentMethodID != ""
}
