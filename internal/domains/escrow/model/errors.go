package model

import "errors"

var (
	ErrEscrowNotFound      = errors.New("escrow transaction not found")
	ErrEscrowAlreadyExists = errors.New("escrow transaction already exists for store order")
	ErrEscrowNotLocked     = errors.New("escrow transaction is not locked")
	ErrInvalidEscrowAmount = errors.New("escrow amount must be positive")
)
