package repository

import (
	"context"

	"github.com/google/uuid"

	"opticsmarket-backend/internal/domains/address/model"
)

type AddressRepository interface {
	Create(ctx context.Context, address *model.Address) error
	GetByID(ctx context.Context, addressID uuid.UUID) (*model.Address, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Address, error)
	Update(ctx context.Context, address *model.Address) error
	Delete(ctx context.Context, userID, addressID uuid.UUID) error

	// SetDefault clears the previous default and marks the given
	// address inside one transaction.
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) error
}
