package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type CreateAddressRequest struct {
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	Line1         string `json:"line1"`
	Line2         string `json:"line2"`
	City          string `json:"city"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
	IsDefault     bool   `json:"is_default"`
}

func (r CreateAddressRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RecipientName, validation.Required, validation.Length(2, 120)),
		validation.Field(&r.Phone, validation.Required, validation.Length(6, 20)),
		validation.Field(&r.Line1, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.City, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.PostalCode, validation.Required, validation.Length(2, 16)),
		validation.Field(&r.Country, validation.Required, validation.Length(2, 56)),
	)
}

type UpdateAddressRequest struct {
	RecipientName *string `json:"recipient_name,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Line1         *string `json:"line1,omitempty"`
	Line2         *string `json:"line2,omitempty"`
	City          *string `json:"city,omitempty"`
	PostalCode    *string `json:"postal_code,omitempty"`
	Country       *string `json:"country,omitempty"`
}
