package domain

import "time"

// Coupon is a percent-off discount code with bounded uses and an expiry.
type Coupon struct {
	Code       string
	PercentOff int
	MaxUses    int
	Uses       int
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// Usable reports whether the coupon can still be applied at the given time.
func (c *Coupon) Usable(now time.Time) bool {
	if c.MaxUses > 0 && c.Uses >= c.MaxUses {
		return false
	}
	return now.Before(c.ExpiresAt)
}

// Apply returns the fare after the discount and the amount deducted.
func (c *Coupon) Apply(fare float64) (discounted, deducted float64) {
	deducted = fare * float64(c.PercentOff) / 100
	return fare - deducted, deducted
}
