// Package billing wraps the billing processor behind an interface so the
// settlement services can be tested with mocks.
package billing

import (
	"context"
	"errors"
)

var (
	// ErrRejected is returned when the processor refuses a payment-method
	// token (expired card, bad token, etc.).
	ErrRejected = errors.New("payment method rejected by processor")

	// ErrDeclined is returned when the processor declines a charge.
	ErrDeclined = errors.New("charge declined by processor")

	// ErrUnavailable is returned when the processor cannot be reached or
	// does not answer within its request timeout.
	ErrUnavailable = errors.New("billing processor unavailable")
)

// ChargeStatus is the processor-reported outcome of a charge.
type ChargeStatus string

const (
	ChargeStatusSucceeded      ChargeStatus = "succeeded"
	ChargeStatusFailed         ChargeStatus = "failed"
	ChargeStatusRequiresAction ChargeStatus = "requires_action"
)

// Card holds the display fields of a stored payment method.
type Card struct {
	Brand    string
	Last4    string
	ExpMonth int64
	ExpYear  int64
}

// CheckoutParams describes a hosted, single-use, one-time-payment session.
// CustomerID takes precedence over CustomerEmail when both are set.
type CheckoutParams struct {
	CustomerID    string
	CustomerEmail string
	Name          string
	Description   string
	Amount        int64 // minor currency units
	Currency      string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// ChargeParams describes an immediate, confirmed, off-session charge against
// a stored payment method. IdempotencyKey makes a duplicated request reuse
// the outcome of the first instead of billing twice.
type ChargeParams struct {
	CustomerID      string
	PaymentMethodID string
	Amount          int64 // minor currency units
	Currency        string
	Metadata        map[string]string
	IdempotencyKey  string
}

// ChargeResult is the processor's answer to an off-session charge.
type ChargeResult struct {
	ChargeID string
	Status   ChargeStatus
}

// Processor is the boundary with the billing processor.
type Processor interface {
	// CreateCustomer creates a processor-side customer record and returns its id.
	CreateCustomer(ctx context.Context, email string, metadata map[string]string) (string, error)

	// AttachPaymentMethod attaches a tokenized payment method to a customer.
	AttachPaymentMethod(ctx context.Context, token, customerID string) error

	// SetDefaultPaymentMethod marks a payment method as the customer default.
	SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error

	// RetrievePaymentMethod returns the display fields of a payment method.
	RetrievePaymentMethod(ctx context.Context, paymentMethodID string) (*Card, error)

	// CreateCheckoutSession creates a hosted one-time-payment session and
	// returns its redirect URL.
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (string, error)

	// CreateOffSessionCharge requests an immediate confirmed charge with no
	// further customer interaction. Declines are reported via ErrDeclined
	// with the failed result attached when the processor supplies one.
	CreateOffSessionCharge(ctx context.Context, params ChargeParams) (*ChargeResult, error)
}
