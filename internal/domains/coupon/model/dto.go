package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

type CreateCouponRequest struct {
	Code           string           `json:"code"`
	DiscountType   DiscountType     `json:"discount_type"`
	DiscountValue  decimal.Decimal  `json:"discount_value"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount,omitempty"`
	UsageLimit     *int             `json:"usage_limit,omitempty"`
	PerUserLimit   *int             `json:"per_user_limit,omitempty"`
	StartsAt       *time.Time       `json:"starts_at,omitempty"`
	ExpiresAt      *time.Time       `json:"expires_at,omitempty"`
}

func (r CreateCouponRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required, validation.Length(3, 32)),
		validation.Field(&r.DiscountType, validation.Required, validation.In(DiscountPercentage, DiscountFixed)),
		validation.Field(&r.DiscountValue, validation.Required, validation.By(validatePositiveDecimal)),
		validation.Field(&r.UsageLimit, validation.Min(1)),
		validation.Field(&r.PerUserLimit, validation.Min(1)),
	)
}

type UpdateCouponRequest struct {
	IsActive  *bool      `json:"is_active,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func validatePositiveDecimal(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok {
		return ErrInvalidDiscountValue
	}
	if !d.IsPositive() {
		return ErrInvalidDiscountValue
	}
	return nil
}
