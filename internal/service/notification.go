package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"wanderwise/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationPaymentSucceeded NotificationType = "PAYMENT_SUCCEEDED"
	NotificationPaymentFailed    NotificationType = "PAYMENT_FAILED"
	NotificationTripPaid         NotificationType = "TRIP_PAID"
)

// Notification represents a notification to be sent.
type Notification struct {
	ID          string
	Type        NotificationType
	RecipientID string
	Title       string
	Message     string
	CreatedAt   time.Time
}

// NotificationService handles notification delivery. Delivery is log-only
// here; a push/email client would slot in behind send.
type NotificationService struct{}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyPaymentSucceeded informs the user their trip payment went through.
func (s *NotificationService) NotifyPaymentSucceeded(ctx context.Context, attempt *domain.PaymentAttempt, userID string) error {
	return s.send(Notification{
		ID:          uuid.New().String(),
		Type:        NotificationPaymentSucceeded,
		RecipientID: userID,
		Title:       "Payment confirmed",
		Message:     fmt.Sprintf("Your trip %s is paid; itinerary generation is underway.", attempt.TripID),
		CreatedAt:   time.Now().UTC(),
	})
}

// NotifyPaymentFailed informs the user a charge was declined and asks them to
// update their payment method. The pipeline does not retry on its own.
func (s *NotificationService) NotifyPaymentFailed(ctx context.Context, attempt *domain.PaymentAttempt, userID string) error {
	return s.send(Notification{
		ID:          uuid.New().String(),
		Type:        NotificationPaymentFailed,
		RecipientID: userID,
		Title:       "Payment failed",
		Message:     fmt.Sprintf("The charge for trip %s was declined. Update your payment method and try again.", attempt.TripID),
		CreatedAt:   time.Now().UTC(),
	})
}

func (s *NotificationService) send(n Notification) error {
	log.Printf("notification [%s] to %s: %s: %s", n.Type, n.RecipientID, n.Title, n.Message)
	return nil
}
