package repository

import (
	"context"

	"taxiye/internal/domain"
)

// CouponRepository defines the persistence operations for discount coupons.
type CouponRepository interface {
	// Create persists a new coupon.
	Create(ctx context.Context, coupon *domain.Coupon) error

	// GetByCode retrieves a coupon by its code.
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)

	// IncrementUses atomically records one redemption of the coupon.
	IncrementUses(ctx context.Context, code string) error
}
