package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is one line in a buyer's cart. Lens configuration and the
// prescription are free-form JSON captured by the storefront and
// snapshotted onto the order item at checkout.
type CartItem struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	UserID            uuid.UUID       `json:"user_id" db:"user_id"`
	ProductID         uuid.UUID       `json:"product_id" db:"product_id"`
	Quantity          int             `json:"quantity" db:"quantity"`
	LensConfiguration json.RawMessage `json:"lens_configuration,omitempty" db:"lens_configuration"`
	Prescription      json.RawMessage `json:"prescription,omitempty" db:"prescription"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}

// CartLine is a cart item joined with the catalog data checkout needs.
type CartLine struct {
	CartItem
	ProductName   string          `json:"product_name" db:"product_name"`
	SKU           string          `json:"sku" db:"sku"`
	Variant       string          `json:"variant" db:"variant"`
	ImageURL      string          `json:"image_url" db:"image_url"`
	UnitPrice     decimal.Decimal `json:"unit_price" db:"unit_price"`
	Stock         int             `json:"stock" db:"stock"`
	ProductActive bool            `json:"product_active" db:"product_active"`
	StoreID       uuid.UUID       `json:"store_id" db:"store_id"`
	StoreName     string          `json:"store_name" db:"store_name"`
}

// LineTotal is unit price times quantity.
func (l *CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
