package model

import "errors"

var (
	ErrCouponNotFound       = errors.New("coupon not found")
	ErrCouponInactive       = errors.New("coupon is not active")
	ErrCouponNotStarted     = errors.New("coupon is not yet valid")
	ErrCouponExpired        = errors.New("coupon has expired")
	ErrCouponMinOrderNotMet = errors.New("order subtotal below coupon minimum")
	ErrCouponUsageLimit     = errors.New("coupon usage limit reached")
	ErrCouponUserLimit      = errors.New("coupon already used the maximum number of times")
	ErrCouponCodeExists     = errors.New("coupon code already exists")
	ErrInvalidDiscountType  = errors.New("invalid discount type")
	ErrInvalidDiscountValue = errors.New("invalid discount value")
)
