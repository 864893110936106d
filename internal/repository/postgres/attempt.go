package postgres

import (
	"context"
	"database/sql"
	"errors"

	"wanderwise/internal/domain"
	"wanderwise/internal/repository"
)

// PaymentAttemptRepository is a PostgreSQL implementation of
// repository.PaymentAttemptRepository. The trip_payments table is append-only.
type PaymentAttemptRepository struct {
	q Querier
}

// NewPaymentAttemptRepository creates a new PostgreSQL payment attempt repository.
func NewPaymentAttemptRepository(db *sql.DB) *PaymentAttemptRepository {
	return &PaymentAttemptRepository{q: db}
}

// NewPaymentAttemptRepositoryWithTx creates a payment attempt repository using a transaction.
func NewPaymentAttemptRepositoryWithTx(tx *sql.Tx) *PaymentAttemptRepository {
	return &PaymentAttemptRepository{q: tx}
}

// Append persists a new settlement attempt.
func (r *PaymentAttemptRepository) Append(ctx context.Context, attempt *domain.PaymentAttempt) error {
	query := `
		INSERT INTO trip_payments (id, trip_id, amount, charge_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		attempt.ID,
		attempt.TripID,
		attempt.Amount,
		attempt.ChargeID,
		attempt.Status,
		attempt.CreatedAt,
	)

	return err
}

// LatestByTripID retrieves the most recent attempt for a trip.
// Returns nil if the trip has no attempts.
func (r *PaymentAttemptRepository) LatestByTripID(ctx context.Context, tripID string) (*domain.PaymentAttempt, error) {
	query := `
		SELECT id, trip_id, amount, charge_id, status, created_at
		FROM trip_payments WHERE trip_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var attempt domain.PaymentAttempt
	err := r.q.QueryRowContext(ctx, query, tripID).Scan(
		&attempt.ID,
		&attempt.TripID,
		&attempt.Amount,
		&attempt.ChargeID,
		&attempt.Status,
		&attempt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &attempt, nil
}

// GetAllByTripID retrieves every attempt for a trip, newest first.
func (r *PaymentAttemptRepository) GetAllByTripID(ctx context.Context, tripID string) ([]*domain.PaymentAttempt, error) {
	query := `
		SELECT id, trip_id, amount, charge_id, status, created_at
		FROM trip_payments WHERE trip_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.q.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []*domain.PaymentAttempt
	for rows.Next() {
		var attempt domain.PaymentAttempt
		if err := rows.Scan(
			&attempt.ID,
			&attempt.TripID,
			&attempt.Amount,
			&attempt.ChargeID,
			&attempt.Status,
			&attempt.CreatedAt,
		); err != nil {
			return nil, err
		}
		attempts = append(attempts, &attempt)
	}

	return attempts, rows.Err()
}

// CountByTripID returns how many attempts exist for a trip.
func (r *PaymentAttemptRepository) CountByTripID(ctx context.Context, tripID string) (int, error) {
	query := `SELECT COUNT(*) FROM trip_payments WHERE trip_id = $1`

	var count int
	if err := r.q.QueryRowContext(ctx, query, tripID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure PaymentAttemptRepository implements repository.PaymentAttemptRepository.
var _ repository.PaymentAttemptRepository = (*PaymentAttemptRepository)(nil)
