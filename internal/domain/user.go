package domain

import "time"

// User represents a rider account.
type User struct {
	ID                   string
	Name                 string
	Phone                string // canonical +251 form
	Email                string
	PhotoURL             string
	ReferralCode         string
	ReferredBy           string // referral code entered at sign-up, if any
	DefaultPaymentMethod PaymentMethod
	CreatedAt            time.Time
}
