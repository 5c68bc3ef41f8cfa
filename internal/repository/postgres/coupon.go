package postgres

import (
	"context"
	"database/sql"

	"taxiye/internal/domain"
	"taxiye/internal/repository"
)

// CouponRepository implements repository.CouponRepository using PostgreSQL.
type CouponRepository struct {
	db *sql.DB
}

// NewCouponRepository creates a new CouponRepository.
func NewCouponRepository(db *sql.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

// Create persists a new coupon.
func (r *CouponRepository) Create(ctx context.Context, coupon *domain.Coupon) error {
	query := `INSERT INTO coupons (code, percent_off, max_uses, uses, expires_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query,
		coupon.Code, coupon.PercentOff, coupon.MaxUses, coupon.Uses, coupon.ExpiresAt)
	return err
}

// GetByCode retrieves a coupon by its code.
func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	query := `SELECT code, percent_off, max_uses, uses, expires_at, created_at
		FROM coupons WHERE code = $1`
	row := r.db.QueryRowContext(ctx, query, code)

	var coupon domain.Coupon
	err := row.Scan(&coupon.Code, &coupon.PercentOff, &coupon.MaxUses,
		&coupon.Uses, &coupon.ExpiresAt, &coupon.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// IncrementUses atomically records one redemption of the coupon, refusing
// to exceed max_uses.
func (r *CouponRepository) IncrementUses(ctx context.Context, code string) error {
	query := `UPDATE coupons SET uses = uses + 1
		WHERE code = $1 AND (max_uses = 0 OR uses < max_uses)`
	result, err := r.db.ExecContext(ctx, query, code)
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
