package service

import (
	"context"
	"time"

	"taxiye/internal/domain"
	"taxiye/internal/repository"
)

// CouponService validates and redeems discount coupons and referral codes.
type CouponService struct {
	couponRepo repository.CouponRepository
	userRepo   repository.UserRepository
}

// NewCouponService creates a new CouponService.
func NewCouponService(couponRepo repository.CouponRepository, userRepo repository.UserRepository) *CouponService {
	return &CouponService{couponRepo: couponRepo, userRepo: userRepo}
}

// Lookup retrieves a usable coupon. Unknown, expired and exhausted codes
// are validation errors.
func (s *CouponService) Lookup(ctx context.Context, code string) (*domain.Coupon, error) {
	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !coupon.Usable(time.Now()) {
		return nil, ErrCouponNotUsable
	}
	return coupon, nil
}

// Redeem applies a coupon to a fare, records the use and returns the
// discounted fare and the deducted amount.
func (s *CouponService) Redeem(ctx context.Context, code string, fare float64) (discounted, deducted float64, err error) {
	coupon, err := s.Lookup(ctx, code)
	if err != nil {
		return fare, 0, err
	}

	if err := s.couponRepo.IncrementUses(ctx, code); err != nil {
		// Lost the race on the last remaining use.
		if err == repository.ErrNotFound {
			return fare, 0, ErrCouponNotUsable
		}
		return fare, 0, err
	}

	discounted, deducted = coupon.Apply(fare)
	return discounted, deducted, nil
}

// ValidateReferral checks a referral code and returns its owner. Riders
// cannot refer themselves.
func (s *CouponService) ValidateReferral(ctx context.Context, code, applicantID string) (*domain.User, error) {
	owner, err := s.userRepo.GetByReferralCode(ctx, code)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrReferralCodeUnknown
		}
		return nil, err
	}
	if owner.ID == applicantID {
		return nil, ErrSelfReferral
	}
	return owner, nil
}
