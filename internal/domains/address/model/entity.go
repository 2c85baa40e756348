package model

import (
	"time"

	"github.com/google/uuid"
)

// Address is a buyer delivery address. Exactly one address per user
// may be the default.
type Address struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	RecipientName string    `json:"recipient_name" db:"recipient_name"`
	Phone         string    `json:"phone" db:"phone"`
	Line1         string    `json:"line1" db:"line1"`
	Line2         string    `json:"line2" db:"line2"`
	City          string    `json:"city" db:"city"`
	PostalCode    string    `json:"postal_code" db:"postal_code"`
	Country       string    `json:"country" db:"country"`
	IsDefault     bool      `json:"is_default" db:"is_default"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
