package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store is a seller's shop front. One seller account owns one store.
type Store struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OwnerID     uuid.UUID `json:"owner_id" db:"owner_id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type Category string

const (
	CategoryFrames        Category = "frames"
	CategorySunglasses    Category = "sunglasses"
	CategoryLenses        Category = "lenses"
	CategoryContactLenses Category = "contact_lenses"
	CategoryAccessories   Category = "accessories"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryFrames, CategorySunglasses, CategoryLenses, CategoryContactLenses, CategoryAccessories:
		return true
	}
	return false
}

// Product is one sellable catalog entry. Variant holds the display
// label for color/size combinations; lens options are configured per
// cart line, not here.
type Product struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	StoreID     uuid.UUID       `json:"store_id" db:"store_id"`
	Name        string          `json:"name" db:"name"`
	Slug        string          `json:"slug" db:"slug"`
	SKU         string          `json:"sku" db:"sku"`
	Category    Category        `json:"category" db:"category"`
	Variant     string          `json:"variant" db:"variant"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Stock       int             `json:"stock" db:"stock"`
	ImageURL    string          `json:"image_url" db:"image_url"`
	IsActive    bool            `json:"is_active" db:"is_active"`
	Version     int             `json:"version" db:"version"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}
