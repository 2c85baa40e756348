package model

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrProductInactive   = errors.New("product is not available")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrStoreNotFound     = errors.New("store not found")
	ErrStoreExists       = errors.New("seller already owns a store")
	ErrSKUExists         = errors.New("sku already exists in store")
	ErrInvalidPrice      = errors.New("price must be positive")
)
