package postgres

import (
	"context"
	"database/sql"

	"taxiye/internal/domain"
	"taxiye/internal/repository"
)

// AddressRepository implements repository.AddressRepository using PostgreSQL.
type AddressRepository struct {
	db *sql.DB
}

// NewAddressRepository creates a new AddressRepository.
func NewAddressRepository(db *sql.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

// Create adds a new saved address.
func (r *AddressRepository) Create(ctx context.Context, addr *domain.SavedAddress) error {
	query := `INSERT INTO saved_addresses (id, user_id, label, address, lat, lng, geocoded, place_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		addr.ID, addr.UserID, addr.Label, addr.Address, addr.Lat, addr.Lng, addr.Geocoded, addr.PlaceID)
	return err
}

// GetByID retrieves a saved address by ID.
func (r *AddressRepository) GetByID(ctx context.Context, id string) (*domain.SavedAddress, error) {
	query := `SELECT id, user_id, label, address, lat, lng, geocoded, place_id, created_at
		FROM saved_addresses WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	var addr domain.SavedAddress
	err := row.Scan(&addr.ID, &addr.UserID, &addr.Label, &addr.Address,
		&addr.Lat, &addr.Lng, &addr.Geocoded, &addr.PlaceID, &addr.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

// ListByUser retrieves all saved addresses for a rider, newest first.
func (r *AddressRepository) ListByUser(ctx context.Context, userID string) ([]*domain.SavedAddress, error) {
	query := `SELECT id, user_id, label, address, lat, lng, geocoded, place_id, created_at
		FROM saved_addresses WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addrs []*domain.SavedAddress
	for rows.Next() {
		var addr domain.SavedAddress
		if err := rows.Scan(&addr.ID, &addr.UserID, &addr.Label, &addr.Address,
			&addr.Lat, &addr.Lng, &addr.Geocoded, &addr.PlaceID, &addr.CreatedAt); err != nil {
			return nil, err
		}
		addrs = append(addrs, &addr)
	}
	return addrs, rows.Err()
}

// Delete removes a saved address owned by the given rider.
func (r *AddressRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM saved_addresses WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}
