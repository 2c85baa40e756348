package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

type PlaceOrderRequest struct {
	AddressID      string          `json:"address_id"`
	PaymentMethod  string          `json:"payment_method"`
	CouponCode     string          `json:"coupon_code,omitempty"`
	PointsToRedeem decimal.Decimal `json:"points_to_redeem,omitempty"`
}

func (r PlaceOrderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AddressID, validation.Required, is.UUIDv4),
		validation.Field(&r.PaymentMethod, validation.In("card", "bank_transfer", "wallet")),
		validation.Field(&r.PointsToRedeem, validation.By(validateNonNegativeDecimal)),
	)
}

type AcceptStoreOrderRequest struct {
	DeliveryFee           decimal.Decimal `json:"delivery_fee"`
	EstimatedDeliveryDate *time.Time      `json:"estimated_delivery_date,omitempty"`
	DeliveryMethod        string          `json:"delivery_method,omitempty"`
	Notes                 string          `json:"notes,omitempty"`
}

func (r AcceptStoreOrderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DeliveryFee, validation.By(validateNonNegativeDecimal)),
		validation.Field(&r.Notes, validation.Length(0, 500)),
	)
}

type RejectStoreOrderRequest struct {
	Reason string `json:"reason"`
}

func (r RejectStoreOrderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Reason, validation.Required, validation.Length(3, 500)),
	)
}

type ConfirmDeliveryRequest struct {
	DeliveryCode string `json:"delivery_code"`
}

func (r ConfirmDeliveryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DeliveryCode, validation.Required, validation.Length(4, 12)),
	)
}

func validateNonNegativeDecimal(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok {
		return errors.New("must be a decimal amount")
	}
	if d.IsNegative() {
		return errors.New("must not be negative")
	}
	return nil
}
