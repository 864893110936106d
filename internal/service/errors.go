package service

import "errors"

var (
	// ErrInvalidTier is returned when a quote names an unknown service tier.
	ErrInvalidTier = errors.New("unknown service tier")

	// ErrInvalidTripID is returned when trip ID is empty.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrInvalidAmount is returned when an amount is not a positive number
	// of currency minor units.
	ErrInvalidAmount = errors.New("amount must be a positive number of minor units")

	// ErrInvalidGroupSize is returned when group size is below one.
	ErrInvalidGroupSize = errors.New("group size must be at least 1")

	// ErrInvalidDates is returned when the trip end date precedes the start date.
	ErrInvalidDates = errors.New("end date must not precede start date")

	// ErrForbidden is returned when a user operates on a trip they do not own.
	ErrForbidden = errors.New("trip belongs to another user")

	// ErrNoCustomer is returned when a billing operation requires a customer
	// record that was never created.
	ErrNoCustomer = errors.New("no billing customer on file")

	// ErrNoPaymentMethod is returned when an off-session charge is requested
	// for a user without a stored payment method.
	ErrNoPaymentMethod = errors.New("no payment method on file: add a payment method first")

	// ErrAttachRejected is returned when the processor refuses a payment-method token.
	ErrAttachRejected = errors.New("payment method rejected")

	// ErrChargeDeclined is returned when the processor declines a charge.
	// The trip is marked PAYMENT_FAILED and no automatic retry is made.
	ErrChargeDeclined = errors.New("charge declined")

	// ErrProcessorUnavailable is returned when the billing processor cannot
	// be reached. The whole request may be retried; the idempotency key
	// guarantees a retry cannot double-charge.
	ErrProcessorUnavailable = errors.New("billing processor unavailable")

	// ErrPersistenceFailure is returned when the store write fails after a
	// successful processor charge. The charge exists processor-side with no
	// local record: a reconciliation gap that is logged, never masked.
	ErrPersistenceFailure = errors.New("payment record write failed")
)
