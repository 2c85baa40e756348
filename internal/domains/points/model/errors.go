package model

import "errors"

var (
	ErrInsufficientPoints  = errors.New("insufficient points balance")
	ErrInvalidPointsAmount = errors.New("points amount must be positive")
	ErrNoRedemptionRule    = errors.New("no active redemption rule configured")
	ErrBelowMinRedemption  = errors.New("points below the minimum redemption amount")
	ErrRuleNotFound        = errors.New("point rule not found")
	ErrRuleTypeActive      = errors.New("an active rule of this type already exists")
	ErrTransactionNotFound = errors.New("point transaction not found")
)
