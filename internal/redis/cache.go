package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"wanderwise/internal/domain"
)

// PaymentMethodCacheTTL bounds staleness of the display fields; the cache is
// also invalidated explicitly on every attach.
const PaymentMethodCacheTTL = 5 * time.Minute

const paymentMethodCachePrefix = "cache:paymentmethod:"

// cachedPaymentMethod is the stored representation of a payment method record.
type cachedPaymentMethod struct {
	UserID          string `json:"user_id"`
	Email           string `json:"email"`
	CustomerID      string `json:"customer_id"`
	PaymentMethodID string `json:"payment_method_id"`
	CardBrand       string `json:"card_brand"`
	CardLast4       string `json:"card_last4"`
	CardExpMonth    int64  `json:"card_exp_month"`
	CardExpYear     int64  `json:"card_exp_year"`
}

// PaymentMethodCache caches payment-method display fields in Redis so the
// get-payment-method endpoint does not hit the database on every render.
type PaymentMethodCache struct {
	client *redis.Client
}

// NewPaymentMethodCache creates a new PaymentMethodCache.
func NewPaymentMethodCache(client *redis.Client) *PaymentMethodCache {
	return &PaymentMethodCache{client: client}
}

// Get retrieves a cached record. Returns nil on a cache miss.
func (c *PaymentMethodCache) Get(ctx context.Context, userID string) (*domain.PaymentMethodRecord, error) {
	data, err := c.client.Get(ctx, paymentMethodCachePrefix+userID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var cached cachedPaymentMethod
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}

	return &domain.PaymentMethodRecord{
		UserID:          cached.UserID,
		Email:           cached.Email,
		CustomerID:      cached.CustomerID,
		PaymentMethodID: cached.PaymentMethodID,
		CardBrand:       cached.CardBrand,
		CardLast4:       cached.CardLast4,
		CardExpMonth:    cached.CardExpMonth,
		CardExpYear:     cached.CardExpYear,
	}, nil
}

// Set stores a record.
func (c *PaymentMethodCache) Set(ctx context.Context, record *domain.PaymentMethodRecord) error {
	data, err := json.Marshal(cachedPaymentMethod{
		UserID:          record.UserID,
		Email:           record.Email,
		CustomerID:      record.CustomerID,
		PaymentMethodID: record.PaymentMethodID,
		CardBrand:       record.CardBrand,
		CardLast4:       record.CardLast4,
		CardExpMonth:    record.CardExpMonth,
		CardExpYear:     record.CardExpYear,
	})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, paymentMethodCachePrefix+record.UserID, data, PaymentMethodCacheTTL).Err()
}

// Invalidate removes a user's cached record.
func (c *PaymentMethodCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, paymentMethodCachePrefix+userID).Err()
}
