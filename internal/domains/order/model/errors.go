package model

import "errors"

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrStoreOrderNotFound      = errors.New("store order not found")
	ErrCartEmpty               = errors.New("cart is empty")
	ErrProductUnavailable      = errors.New("product is no longer available")
	ErrInvalidStatusTransition = errors.New("invalid store order status transition")
	ErrStoreOrderNotPaid       = errors.New("store order must be paid first")
	ErrInvalidDeliveryCode     = errors.New("invalid delivery code")
	ErrInvalidDeliveryFee      = errors.New("delivery fee must not be negative")
	ErrNotStoreOrder           = errors.New("store order does not belong to this store")
)
