package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

type CreateStoreRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r CreateStoreRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 120)),
		validation.Field(&r.Description, validation.Length(0, 2000)),
	)
}

type CreateProductRequest struct {
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Category    Category        `json:"category"`
	Variant     string          `json:"variant"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"image_url"`
}

func (r CreateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.SKU, validation.Required, validation.Length(1, 64)),
		validation.Field(&r.Category, validation.Required, validation.By(validateCategory)),
		validation.Field(&r.Price, validation.Required, validation.By(validatePositivePrice)),
		validation.Field(&r.Stock, validation.Min(0)),
	)
}

type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Variant     *string          `json:"variant,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	ImageURL    *string          `json:"image_url,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
}

func validateCategory(value interface{}) error {
	c, ok := value.(Category)
	if !ok || !c.IsValid() {
		return validation.NewError("validation_category", "invalid product category")
	}
	return nil
}

func validatePositivePrice(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok || !d.IsPositive() {
		return validation.NewError("validation_price", "price must be positive")
	}
	return nil
}
