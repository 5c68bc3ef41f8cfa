package service

import "errors"

var (
	// ErrInvalidRiderID is returned when the rider ID is empty.
	ErrInvalidRiderID = errors.New("invalid rider id")

	// ErrInvalidName is returned when a name is empty.
	ErrInvalidName = errors.New("name is required")

	// ErrInvalidPhone is returned when a phone number does not normalize to
	// a valid Ethiopian mobile number.
	ErrInvalidPhone = errors.New("invalid phone number")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrInvalidVehicleType is returned for an unknown service class.
	ErrInvalidVehicleType = errors.New("invalid vehicle type")

	// ErrInvalidPaymentMethod is returned when a payment method is unknown.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrInvalidAmount is returned when a monetary amount is not positive.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidAddress is returned when an address label or text is empty.
	ErrInvalidAddress = errors.New("label and address are required")

	// ErrNoActiveRide is returned when no ride session is live for the rider.
	ErrNoActiveRide = errors.New("no active ride")

	// ErrVerificationRequired is returned when a phone change is attempted
	// without a completed verification.
	ErrVerificationRequired = errors.New("phone verification required")

	// ErrNoPendingVerification is returned when a code is submitted but no
	// verification flow is open for the rider.
	ErrNoPendingVerification = errors.New("no pending verification")

	// ErrTooManyAttempts is returned when the rate limiter rejects a code
	// dispatch.
	ErrTooManyAttempts = errors.New("too many attempts, try again later")

	// ErrCouponNotUsable is returned for expired or exhausted coupons.
	ErrCouponNotUsable = errors.New("coupon expired or exhausted")

	// ErrReferralCodeUnknown is returned when a referral code matches no user.
	ErrReferralCodeUnknown = errors.New("unknown referral code")

	// ErrSelfReferral is returned when a rider applies their own referral code.
	ErrSelfReferral = errors.New("cannot use your own referral code")
)
