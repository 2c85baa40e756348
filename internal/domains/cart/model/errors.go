package model

import "errors"

var (
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrCartEmpty        = errors.New("cart is empty")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
)
