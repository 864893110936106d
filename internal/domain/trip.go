package domain

import "time"

// TripStatus represents the current status of a trip.
type TripStatus string

const (
	TripStatusDraft           TripStatus = "DRAFT"
	TripStatusQuoted          TripStatus = "QUOTED"
	TripStatusCheckoutPending TripStatus = "CHECKOUT_PENDING"
	TripStatusPaid            TripStatus = "PAID"
	TripStatusPaymentFailed   TripStatus = "PAYMENT_FAILED"
)

// Trip represents a travel-planning request.
// Status is a cached projection of the payment ledger: the ledger stays the
// source of truth for whether a trip has been paid.
type Trip struct {
	ID           string
	OwnerID      string
	GroupSize    int
	StartDate    time.Time // zero value = flexible dates
	EndDate      time.Time
	Destinations []string // empty = single implicit destination
	Status       TripStatus
	PricePaid    int64 // minor currency units, set when the trip becomes PAID
	CreatedAt    time.Time
}

// DurationDays returns the trip length in whole days, rounding partial days
// up. Trips without both dates default to a single day.
func (t *Trip) DurationDays() int {
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return 1
	}
	hours := t.EndDate.Sub(t.StartDate).Hours()
	days := int(hours / 24)
	if float64(days*24) < hours {
		days++
	}
	if days < 1 {
		return 1
	}
	return days
}

// DestinationCount returns the effective number of destinations.
// An empty list counts as one implicit destination.
func (t *Trip) DestinationCount() int {
	if len(t.Destinations) == 0 {
		return 1
	}
	return len(t.Destinations)
}
