package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EscrowStatus string

const (
	EscrowLocked   EscrowStatus = "locked"
	EscrowReleased EscrowStatus = "released"
	EscrowRefunded EscrowStatus = "refunded"
)

func (s EscrowStatus) IsValid() bool {
	switch s {
	case EscrowLocked, EscrowReleased, EscrowRefunded:
		return true
	}
	return false
}

// escrowTransitions defines the allowed status changes. Terminal
// states have no outgoing transitions.
var escrowTransitions = map[EscrowStatus][]EscrowStatus{
	EscrowLocked:   {EscrowReleased, EscrowRefunded},
	EscrowReleased: {},
	EscrowRefunded: {},
}

func (s EscrowStatus) CanTransitionTo(target EscrowStatus) bool {
	for _, allowed := range escrowTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// EscrowTransaction holds a buyer's payment for one store order until
// delivery is confirmed. Exactly one escrow row exists per store order.
type EscrowTransaction struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	StoreOrderID uuid.UUID       `json:"store_order_id" db:"store_order_id"`
	StoreID      uuid.UUID       `json:"store_id" db:"store_id"`
	SellerID     uuid.UUID       `json:"seller_id" db:"seller_id"`
	BuyerID      uuid.UUID       `json:"buyer_id" db:"buyer_id"`
	Amount       decimal.Decimal `json:"amount" db:"amount"`
	PlatformFee  decimal.Decimal `json:"platform_fee" db:"platform_fee"`
	NetAmount    decimal.Decimal `json:"net_amount" db:"net_amount"`
	Status       EscrowStatus    `json:"status" db:"status"`
	LockedAt     time.Time       `json:"locked_at" db:"locked_at"`
	ReleasedAt   *time.Time      `json:"released_at,omitempty" db:"released_at"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}
