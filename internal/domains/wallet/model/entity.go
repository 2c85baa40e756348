package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet is the single per-user balance record. Sellers accumulate
// settled order money in ShoppingBalance; buyers accumulate
// LoyaltyPoints. Wallets are created lazily on first use.
type Wallet struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	UserID          uuid.UUID       `json:"user_id" db:"user_id"`
	ShoppingBalance decimal.Decimal `json:"shopping_balance" db:"shopping_balance"`
	RewardBalance   decimal.Decimal `json:"reward_balance" db:"reward_balance"`
	ReferralBalance decimal.Decimal `json:"referral_balance" db:"referral_balance"`
	LoyaltyPoints   decimal.Decimal `json:"loyalty_points" db:"loyalty_points"`
	AdCredit        decimal.Decimal `json:"ad_credit" db:"ad_credit"`
	Version         int             `json:"version" db:"version"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

type TransactionType string

const (
	TransactionOrderPayment TransactionType = "order_payment"
	TransactionRefund       TransactionType = "refund"
	TransactionWithdrawal   TransactionType = "withdrawal"
	TransactionAdjustment   TransactionType = "adjustment"
)

func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionOrderPayment, TransactionRefund, TransactionWithdrawal, TransactionAdjustment:
		return true
	}
	return false
}

type TransactionStatus string

const (
	TransactionSuccess TransactionStatus = "success"
	TransactionPending TransactionStatus = "pending"
	TransactionFailed  TransactionStatus = "failed"
)

// Transaction is the audit row for every shopping-balance movement.
type Transaction struct {
	ID            uuid.UUID         `json:"id" db:"id"`
	WalletID      uuid.UUID         `json:"wallet_id" db:"wallet_id"`
	Type          TransactionType   `json:"type" db:"type"`
	Amount        decimal.Decimal   `json:"amount" db:"amount"`
	Status        TransactionStatus `json:"status" db:"status"`
	ReferenceType string            `json:"reference_type" db:"reference_type"`
	ReferenceID   *uuid.UUID        `json:"reference_id,omitempty" db:"reference_id"`
	Description   string            `json:"description" db:"description"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
}

func NewWallet(userID uuid.UUID) *Wallet {
	return &Wallet{
		ID:              uuid.New(),
		UserID:          userID,
		ShoppingBalance: decimal.Zero,
		RewardBalance:   decimal.Zero,
		ReferralBalance: decimal.Zero,
		LoyaltyPoints:   decimal.Zero,
		AdCredit:        decimal.Zero,
		Version:         1,
	}
}
