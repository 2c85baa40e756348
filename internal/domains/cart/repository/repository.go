package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"opticsmarket-backend/internal/domains/cart/model"
)

type CartRepository interface {
	// UpsertItem adds the product to the cart or bumps the quantity of
	// the matching line.
	UpsertItem(ctx context.Context, item *model.CartItem) error
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error

	ListLinesByUser(ctx context.Context, userID uuid.UUID) ([]model.CartLine, error)

	// ListLinesByUserWithTx is the checkout read; the caller locks the
	// product rows separately before mutating stock.
	ListLinesByUserWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) ([]model.CartLine, error)
	ClearByUserWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error
}
