package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"wanderwise/internal/billing"
	"wanderwise/internal/domain"
	"wanderwise/internal/redis"
	"wanderwise/internal/repository"
)

// PaymentMethodService owns the lifecycle of a user's billing customer and
// default payment method. There is never more than one customer per user and
// never more than one stored method: a new attach replaces the old default.
type PaymentMethodService struct {
	subscriberRepo repository.SubscriberRepository
	processor      billing.Processor
	cache          redis.PaymentMethodCacheInterface
}

// NewPaymentMethodService creates a new PaymentMethodService.
func NewPaymentMethodService(
	subscriberRepo repository.SubscriberRepository,
	processor billing.Processor,
	cache redis.PaymentMethodCacheInterface,
) *PaymentMethodService {
	return &PaymentMethodService{
		subscriberRepo: subscriberRepo,
		processor:      processor,
		cache:          cache,
	}
}

// EnsureCustomer returns the billing customer id for the user, creating the
// processor-side customer and the local mapping on first call. Safe under
// concurrent first-time calls: the store-level insert-or-return-existing is
// the convergence point, so two racing requests settle on one customer id.
func (s *PaymentMethodService) EnsureCustomer(ctx context.Context, user domain.User) (string, error) {
	existing, err := s.subscriberRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.CustomerID, nil
	}

	customerID, err := s.processor.CreateCustomer(ctx, user.Email, map[string]string{
		"user_id": user.ID,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProcessorUnavailable, err)
	}

	record, created, err := s.subscriberRepo.CreateIfAbsent(ctx, user.ID, user.Email, customerID)
	if err != nil {
		return "", err
	}
	if !created {
		// A concurrent request won the insert. The customer created above is
		// left unreferenced processor-side; the stored id stays authoritative.
		log.Printf("ensure customer: user %s already mapped to %s, discarding %s", user.ID, record.CustomerID, customerID)
	}

	return record.CustomerID, nil
}

// Attach attaches a tokenized payment method to the user's customer, makes it
// the default, and stores its display fields. The previous default is
// overwritten; no history of prior methods is kept.
func (s *PaymentMethodService) Attach(ctx context.Context, user domain.User, token string) (*domain.PaymentMethodRecord, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing payment method token", ErrAttachRejected)
	}

	record, err := s.subscriberRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrNoCustomer
	}

	if err := s.processor.AttachPaymentMethod(ctx, token, record.CustomerID); err != nil {
		return nil, translateProcessorError(err, ErrAttachRejected)
	}

	if err := s.processor.SetDefaultPaymentMethod(ctx, record.CustomerID, token); err != nil {
		return nil, translateProcessorError(err, ErrAttachRejected)
	}

	card, err := s.processor.RetrievePaymentMethod(ctx, token)
	if err != nil {
		return nil, translateProcessorError(err, ErrAttachRejected)
	}

	if err := s.subscriberRepo.SetDefaultPaymentMethod(ctx, user.ID, token, card.Brand, card.Last4, card.ExpMonth, card.ExpYear); err != nil {
		return nil, err
	}

	record.PaymentMethodID = token
	record.CardBrand = card.Brand
	record.CardLast4 = card.Last4
	record.CardExpMonth = card.ExpMonth
	record.CardExpYear = card.ExpYear

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, user.ID)
	}

	return record, nil
}

// Get returns the user's stored payment method, or nil (not an error) when
// the user has no customer record yet or no default method is set.
func (s *PaymentMethodService) Get(ctx context.Context, user domain.User) (*domain.PaymentMethodRecord, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, user.ID); err == nil && cached != nil {
			return cached, nil
		}
	}

	record, err := s.subscriberRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if !record.HasDefaultMethod() {
		return nil, nil
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, record)
	}

	return record, nil
}

// translateProcessorError maps billing-boundary errors to taxonomy errors,
// keeping the processor's short diagnostic within the message.
func translateProcessorError(err, rejected error) error {
	switch {
	case errors.Is(err, billing.ErrRejected):
		return fmt.Errorf("%w: %v", rejected, err)
	case errors.Is(err, billing.ErrDeclined):
		return fmt.Errorf("%w: %v", ErrChargeDeclined, err)
	default:
		return fmt.Errorf("%w: %v", ErrProcessorUnavailable, err)
	}
}
