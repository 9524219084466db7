package coupon

import "errors"

var (
	// ErrInvalidCoupon covers unknown, expired and below-minimum coupons.
	// Callers surface it as "invalid coupon code".
	ErrInvalidCoupon = errors.New("invalid coupon code")

	ErrCouponNotFound = errors.New("coupon not found")
	ErrCodeTaken      = errors.New("coupon code already exists")

	// -- Validation --
	ErrInvalidCode         = errors.New("coupon code must be 1-64 characters")
	ErrInvalidDiscountType = errors.New("discount type must be fixed or percentage")
	ErrInvalidValue        = errors.New("coupon value must be positive and percentages at most 100")
	ErrInvalidMinCartValue = errors.New("minimum cart value must not be negative")
	ErrInvalidExpiryDate   = errors.New("expiry date must be YYYY-MM-DD")

	PgUniqueViolation = "23505"
)
