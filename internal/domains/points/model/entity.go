package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PointRuleType identifies what a rule pays points for. At most one
// rule per type is active at a time.
type PointRuleType string

const (
	RulePurchase   PointRuleType = "purchase"
	RuleReferral   PointRuleType = "referral"
	RuleReview     PointRuleType = "review"
	RuleSignup     PointRuleType = "signup"
	RuleRedemption PointRuleType = "redemption"
)

func (t PointRuleType) IsValid() bool {
	switch t {
	case RulePurchase, RuleReferral, RuleReview, RuleSignup, RuleRedemption:
		return true
	}
	return false
}

// PointRule configures earning and redemption. Purchase rules use Rate
// (points per currency unit) with an optional minimum spend and
// per-order cap. Referral, review and signup rules pay FixedPoints.
// The redemption rule uses Rate to convert points back into currency
// (discount = points / rate) with a minimum points threshold and a
// per-order discount cap.
type PointRule struct {
	ID                    uuid.UUID        `json:"id" db:"id"`
	Type                  PointRuleType    `json:"type" db:"type"`
	Rate                  decimal.Decimal  `json:"rate" db:"rate"`
	FixedPoints           decimal.Decimal  `json:"fixed_points" db:"fixed_points"`
	MinPurchaseAmount     *decimal.Decimal `json:"min_purchase_amount,omitempty" db:"min_purchase_amount"`
	MaxPointsPerOrder     *decimal.Decimal `json:"max_points_per_order,omitempty" db:"max_points_per_order"`
	MinPointsToRedeem     *decimal.Decimal `json:"min_points_to_redeem,omitempty" db:"min_points_to_redeem"`
	MaxRedemptionPerOrder *decimal.Decimal `json:"max_redemption_per_order,omitempty" db:"max_redemption_per_order"`
	ExpiryDays            int              `json:"expiry_days" db:"expiry_days"`
	IsActive              bool             `json:"is_active" db:"is_active"`
	CreatedAt             time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at" db:"updated_at"`
}

// PurchasePoints returns the points a purchase rule grants for an
// items total, after the minimum-spend check and the per-order cap.
// Fractional points round down to two decimal places.
func (r *PointRule) PurchasePoints(itemsTotal decimal.Decimal) decimal.Decimal {
	if r.MinPurchaseAmount != nil && itemsTotal.LessThan(*r.MinPurchaseAmount) {
		return decimal.Zero
	}

	points := itemsTotal.Mul(r.Rate).RoundFloor(2)
	if r.MaxPointsPerOrder != nil && points.GreaterThan(*r.MaxPointsPerOrder) {
		points = *r.MaxPointsPerOrder
	}

	return points
}

type PointTransactionType string

const (
	PointsEarn       PointTransactionType = "earn"
	PointsRedeem     PointTransactionType = "redeem"
	PointsExpire     PointTransactionType = "expire"
	PointsAdjustment PointTransactionType = "adjustment"
)

func (t PointTransactionType) IsValid() bool {
	switch t {
	case PointsEarn, PointsRedeem, PointsExpire, PointsAdjustment:
		return true
	}
	return false
}

// PointTransaction is one immutable ledger entry. Points carries the
// signed delta applied to the wallet's loyalty balance; BalanceAfter
// snapshots the balance at write time. Earn entries from purchase
// rules carry an expiry timestamp.
type PointTransaction struct {
	ID            uuid.UUID            `json:"id" db:"id"`
	WalletID      uuid.UUID            `json:"wallet_id" db:"wallet_id"`
	Type          PointTransactionType `json:"type" db:"type"`
	Source        PointRuleType        `json:"source" db:"source"`
	Points        decimal.Decimal      `json:"points" db:"points"`
	BalanceAfter  decimal.Decimal      `json:"balance_after" db:"balance_after"`
	ReferenceType string               `json:"reference_type" db:"reference_type"`
	ReferenceID   *uuid.UUID           `json:"reference_id,omitempty" db:"reference_id"`
	Description   string               `json:"description" db:"description"`
	ExpiresAt     *time.Time           `json:"expires_at,omitempty" db:"expires_at"`
	Expired       bool                 `json:"expired" db:"expired"`
	CreatedAt     time.Time            `json:"created_at" db:"created_at"`
}

// RedemptionResult reports what a redemption actually consumed after
// clamping.
type RedemptionResult struct {
	WalletID       uuid.UUID       `json:"wallet_id"`
	PointsUsed     decimal.Decimal `json:"points_used"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	NewBalance     decimal.Decimal `json:"new_balance"`
	TransactionID  uuid.UUID       `json:"transaction_id"`
}
