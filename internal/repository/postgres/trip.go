package postgres

import (
	"context"
	"database/sql"

	"taxiye/internal/domain"
	"taxiye/internal/repository"
)

// TripRepository implements repository.TripRepository using PostgreSQL.
type TripRepository struct {
	db *sql.DB
}

// NewTripRepository creates a new TripRepository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{db: db}
}

const tripColumns = `id, rider_id, pickup, dropoff, vehicle_type, driver_name, fare, discount, coupon_code, payment_method, started_at, completed_at`

// Create persists a completed trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `INSERT INTO trips (` + tripColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.ExecContext(ctx, query,
		trip.ID, trip.RiderID, trip.Pickup, trip.Dropoff, trip.VehicleType,
		trip.DriverName, trip.Fare, trip.Discount, trip.CouponCode,
		trip.PaymentMethod, trip.StartedAt, trip.CompletedAt)
	return err
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	var trip domain.Trip
	err := row.Scan(&trip.ID, &trip.RiderID, &trip.Pickup, &trip.Dropoff, &trip.VehicleType,
		&trip.DriverName, &trip.Fare, &trip.Discount, &trip.CouponCode,
		&trip.PaymentMethod, &trip.StartedAt, &trip.CompletedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

// ListByRider retrieves a rider's trips, newest first.
func (r *TripRepository) ListByRider(ctx context.Context, riderID string, limit int) ([]*domain.Trip, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + tripColumns + ` FROM trips
		WHERE rider_id = $1 ORDER BY completed_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, riderID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		var trip domain.Trip
		if err := rows.Scan(&trip.ID, &trip.RiderID, &trip.Pickup, &trip.Dropoff, &trip.VehicleType,
			&trip.DriverName, &trip.Fare, &trip.Discount, &trip.CouponCode,
			&trip.PaymentMethod, &trip.StartedAt, &trip.CompletedAt); err != nil {
			return nil, err
		}
		trips = append(trips, &trip)
	}
	return trips, rows.Err()
}
