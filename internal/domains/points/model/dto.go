package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

type CreatePointRuleRequest struct {
	Type                  PointRuleType    `json:"type"`
	Rate                  decimal.Decimal  `json:"rate"`
	FixedPoints           decimal.Decimal  `json:"fixed_points"`
	MinPurchaseAmount     *decimal.Decimal `json:"min_purchase_amount,omitempty"`
	MaxPointsPerOrder     *decimal.Decimal `json:"max_points_per_order,omitempty"`
	MinPointsToRedeem     *decimal.Decimal `json:"min_points_to_redeem,omitempty"`
	MaxRedemptionPerOrder *decimal.Decimal `json:"max_redemption_per_order,omitempty"`
	ExpiryDays            int              `json:"expiry_days"`
	IsActive              bool             `json:"is_active"`
}

func (r CreatePointRuleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.Required, validation.By(validateRuleType)),
		validation.Field(&r.Rate, validation.By(validateNonNegativePoints)),
		validation.Field(&r.FixedPoints, validation.By(validateNonNegativePoints)),
		validation.Field(&r.ExpiryDays, validation.Min(0)),
	)
}

type UpdatePointRuleRequest struct {
	Rate                  *decimal.Decimal `json:"rate,omitempty"`
	FixedPoints           *decimal.Decimal `json:"fixed_points,omitempty"`
	MinPurchaseAmount     *decimal.Decimal `json:"min_purchase_amount,omitempty"`
	MaxPointsPerOrder     *decimal.Decimal `json:"max_points_per_order,omitempty"`
	MinPointsToRedeem     *decimal.Decimal `json:"min_points_to_redeem,omitempty"`
	MaxRedemptionPerOrder *decimal.Decimal `json:"max_redemption_per_order,omitempty"`
	ExpiryDays            *int             `json:"expiry_days,omitempty"`
	IsActive              *bool            `json:"is_active,omitempty"`
}

func validateRuleType(value interface{}) error {
	t, ok := value.(PointRuleType)
	if !ok || !t.IsValid() {
		return validation.NewError("validation_rule_type", "invalid point rule type")
	}
	return nil
}

func validateNonNegativePoints(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok {
		return validation.NewError("validation_points", "must be a decimal amount")
	}
	if d.IsNegative() {
		return validation.NewError("validation_points", "must not be negative")
	}
	return nil
}
