package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"taxiye/internal/domain"
	"taxiye/internal/repository"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, phone, email, photo_url, referral_code, referred_by, default_payment_method, created_at`

// Create adds a new rider account.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, name, phone, email, photo_url, referral_code, referred_by, default_payment_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Phone, user.Email, user.PhotoURL,
		user.ReferralCode, user.ReferredBy, user.DefaultPaymentMethod)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return repository.ErrDuplicate
	}
	return err
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// GetByPhone retrieves a user by canonical phone number.
func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, phone))
}

// GetByReferralCode retrieves the user owning a referral code.
func (r *UserRepository) GetByReferralCode(ctx context.Context, code string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE referral_code = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, code))
}

// Update updates profile fields of an existing user.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `UPDATE users
		SET name = $2, phone = $3, email = $4, photo_url = $5, default_payment_method = $6
		WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Phone, user.Email, user.PhotoURL, user.DefaultPaymentMethod)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return repository.ErrDuplicate
		}
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

func (r *UserRepository) scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Name, &user.Phone, &user.Email, &user.PhotoURL,
		&user.ReferralCode, &user.ReferredBy, &user.DefaultPaymentMethod, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
