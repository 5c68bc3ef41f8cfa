package domain

import "time"

// Trip is a completed ride recorded for the rider's history.
type Trip struct {
	ID            string
	RiderID       string
	Pickup        string
	Dropoff       string
	VehicleType   VehicleType
	DriverName    string
	Fare          float64
	Discount      float64 // amount deducted by a coupon, if any
	CouponCode    string
	PaymentMethod PaymentMethod
	StartedAt     time.Time
	CompletedAt   time.Time
}
