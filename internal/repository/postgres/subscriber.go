package postgres

import (
	"context"
	"database/sql"
	"errors"

	"wanderwise/internal/domain"
	"wanderwise/internal/repository"
)

// SubscriberRepository is a PostgreSQL implementation of
// repository.SubscriberRepository.
type SubscriberRepository struct {
	q Querier
}

// NewSubscriberRepository creates a new PostgreSQL subscriber repository.
func NewSubscriberRepository(db *sql.DB) *SubscriberRepository {
	return &SubscriberRepository{q: db}
}

// NewSubscriberRepositoryWithTx creates a subscriber repository using a transaction.
func NewSubscriberRepositoryWithTx(tx *sql.Tx) *SubscriberRepository {
	return &SubscriberRepository{q: tx}
}

const subscriberColumns = `
	user_id, email, billing_customer_id,
	COALESCE(default_payment_method_id, ''),
	COALESCE(card_brand, ''), COALESCE(card_last4, ''),
	COALESCE(card_exp_month, 0), COALESCE(card_exp_year, 0)
`

// GetByUserID retrieves the billing record for a user.
// Returns nil if the user has no record yet.
func (r *SubscriberRepository) GetByUserID(ctx context.Context, userID string) (*domain.PaymentMethodRecord, error) {
	query := `SELECT ` + subscriberColumns + ` FROM subscribers WHERE user_id = $1`

	record, err := scanSubscriber(r.q.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

// CreateIfAbsent inserts a subscriber row keyed by user id, returning the
// existing row untouched when one is already there. The unique constraint on
// user_id is the only guard needed against concurrent first-time calls.
func (r *SubscriberRepository) CreateIfAbsent(ctx context.Context, userID, email, customerID string) (*domain.PaymentMethodRecord, bool, error) {
	insert := `
		INSERT INTO subscribers (user_id, email, billing_customer_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING ` + subscriberColumns

	record, err := scanSubscriber(r.q.QueryRowContext(ctx, insert, userID, email, customerID))
	if err == nil {
		return record, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}

	// Conflict: another request won the insert. Return its row.
	existing, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, repository.ErrNotFound
	}
	return existing, false, nil
}

// SetDefaultPaymentMethod overwrites the stored default payment method and
// its card display fields.
func (r *SubscriberRepository) SetDefaultPaymentMethod(ctx context.Context, userID, paymentMethodID, brand, last4 string, expMonth, expYear int64) error {
	query := `
		UPDATE subscribers
		SET default_payment_method_id = $1, card_brand = $2, card_last4 = $3,
		    card_exp_month = $4, card_exp_year = $5
		WHERE user_id = $6
	`

	result, err := r.q.ExecContext(ctx, query, paymentMethodID, brand, last4, expMonth, expYear, userID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func scanSubscriber(row *sql.Row) (*domain.PaymentMethodRecord, error) {
	var record domain.PaymentMethodRecord
	err := row.Scan(
		&record.UserID,
		&record.Email,
		&record.CustomerID,
		&record.PaymentMethodID,
		&record.CardBrand,
		&record.CardLast4,
		&record.CardExpMonth,
		&record.CardExpYear,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Ensure SubscriberRepository implements repository.SubscriberRepository.
var _ repository.SubscriberRepository = (*SubscriberRepository)(nil)
