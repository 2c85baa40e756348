package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

func (d DiscountType) IsValid() bool {
	return d == DiscountPercentage || d == DiscountFixed
}

// Coupon is a platform-wide discount code applied at checkout to the
// order subtotal, before any points redemption.
type Coupon struct {
	ID             uuid.UUID        `json:"id" db:"id"`
	Code           string           `json:"code" db:"code"`
	DiscountType   DiscountType     `json:"discount_type" db:"discount_type"`
	DiscountValue  decimal.Decimal  `json:"discount_value" db:"discount_value"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount,omitempty" db:"min_order_amount"`
	UsageLimit     *int             `json:"usage_limit,omitempty" db:"usage_limit"`
	PerUserLimit   *int             `json:"per_user_limit,omitempty" db:"per_user_limit"`
	UsageCount     int              `json:"usage_count" db:"usage_count"`
	IsActive       bool             `json:"is_active" db:"is_active"`
	StartsAt       *time.Time       `json:"starts_at,omitempty" db:"starts_at"`
	ExpiresAt      *time.Time       `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at" db:"updated_at"`
}

// CouponUsage records one redemption of a coupon by a user.
type CouponUsage struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	CouponID  uuid.UUID       `json:"coupon_id" db:"coupon_id"`
	UserID    uuid.UUID       `json:"user_id" db:"user_id"`
	OrderID   uuid.UUID       `json:"order_id" db:"order_id"`
	Discount  decimal.Decimal `json:"discount" db:"discount"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// IsStarted reports whether the coupon's start window has opened.
func (c *Coupon) IsStarted(now time.Time) bool {
	return c.StartsAt == nil || !now.Before(*c.StartsAt)
}

// IsExpired reports whether the coupon's validity window has closed.
func (c *Coupon) IsExpired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// CalculateDiscount returns the discount amount for a subtotal.
// Percentage discounts round half-up to cents; fixed discounts never
// exceed the subtotal.
func (c *Coupon) CalculateDiscount(subtotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal

	switch c.DiscountType {
	case DiscountPercentage:
		discount = subtotal.Mul(c.DiscountValue).Div(decimal.NewFromInt(100)).Round(2)
	case DiscountFixed:
		discount = c.DiscountValue
	default:
		return decimal.Zero
	}

	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	return discount
}
