package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"wanderwise/internal/domain"
	"wanderwise/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// NewTripRepositoryWithTx creates a trip repository using a transaction.
func NewTripRepositoryWithTx(tx *sql.Tx) *TripRepository {
	return &TripRepository{q: tx}
}

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (id, owner_id, group_size, start_date, end_date, destinations, status, price_paid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	var startDate, endDate sql.NullTime
	if !trip.StartDate.IsZero() {
		startDate = sql.NullTime{Time: trip.StartDate, Valid: true}
	}
	if !trip.EndDate.IsZero() {
		endDate = sql.NullTime{Time: trip.EndDate, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		trip.ID,
		trip.OwnerID,
		trip.GroupSize,
		startDate,
		endDate,
		pq.Array(trip.Destinations),
		trip.Status,
		trip.PricePaid,
		trip.CreatedAt,
	)

	return err
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `
		SELECT id, owner_id, group_size, start_date, end_date, destinations, status, price_paid, created_at
		FROM trips WHERE id = $1
	`

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return trip, nil
}

// GetAllByOwner retrieves the trips belonging to a user, newest first.
func (r *TripRepository) GetAllByOwner(ctx context.Context, ownerID string) ([]*domain.Trip, error) {
	query := `
		SELECT id, owner_id, group_size, start_date, end_date, destinations, status, price_paid, created_at
		FROM trips WHERE owner_id = $1 ORDER BY created_at DESC LIMIT 100
	`

	rows, err := r.q.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

// UpdateStatus updates the cached status projection of a trip.
func (r *TripRepository) UpdateStatus(ctx context.Context, id string, status domain.TripStatus) error {
	query := `UPDATE trips SET status = $1 WHERE id = $2`
	return r.exec(ctx, query, status, id)
}

// MarkPaid sets the trip to PAID and records the settled amount.
func (r *TripRepository) MarkPaid(ctx context.Context, id string, pricePaid int64) error {
	query := `UPDATE trips SET status = $1, price_paid = $2 WHERE id = $3`
	return r.exec(ctx, query, domain.TripStatusPaid, pricePaid, id)
}

func (r *TripRepository) exec(ctx context.Context, query string, args ...any) error {
	result, err := r.q.ExecContext(ctx, query, args...)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*domain.Trip, error) {
	var trip domain.Trip
	var startDate, endDate sql.NullTime
	var destinations pq.StringArray

	err := row.Scan(
		&trip.ID,
		&trip.OwnerID,
		&trip.GroupSize,
		&startDate,
		&endDate,
		&destinations,
		&trip.Status,
		&trip.PricePaid,
		&trip.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if startDate.Valid {
		trip.StartDate = startDate.Time
	}
	if endDate.Valid {
		trip.EndDate = endDate.Time
	}
	trip.Destinations = []string(destinations)

	return &trip, nil
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
