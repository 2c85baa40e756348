package model

import (
	"encoding/json"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AddItemRequest struct {
	ProductID         uuid.UUID       `json:"product_id"`
	Quantity          int             `json:"quantity"`
	LensConfiguration json.RawMessage `json:"lens_configuration,omitempty"`
	Prescription      json.RawMessage `json:"prescription,omitempty"`
}

func (r AddItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProductID, validation.Required, validation.By(validateUUID)),
		validation.Field(&r.Quantity, validation.Required, validation.Min(1), validation.Max(50)),
	)
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (r UpdateQuantityRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Quantity, validation.Required, validation.Min(1), validation.Max(50)),
	)
}

// CartView is the buyer-facing cart representation.
type CartView struct {
	Lines      []CartLine      `json:"lines"`
	ItemsTotal decimal.Decimal `json:"items_total"`
}

func validateUUID(value interface{}) error {
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return validation.NewError("validation_uuid", "invalid id")
	}
	return nil
}
