package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"opticsmarket-backend/internal/domains/product/model"
)

type ProductRepository interface {
	CreateStore(ctx context.Context, store *model.Store) error
	GetStoreByID(ctx context.Context, storeID uuid.UUID) (*model.Store, error)
	GetStoreByOwnerID(ctx context.Context, ownerID uuid.UUID) (*model.Store, error)
	GetStoresByIDs(ctx context.Context, storeIDs []uuid.UUID) (map[uuid.UUID]model.Store, error)

	CreateProduct(ctx context.Context, product *model.Product) error
	UpdateProduct(ctx context.Context, product *model.Product) error
	GetProductByID(ctx context.Context, productID uuid.UUID) (*model.Product, error)
	ListProductsByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]model.Product, error)

	// GetProductByIDForUpdateWithTx locks the product row so stock
	// checks and decrements cannot race across checkouts.
	GetProductByIDForUpdateWithTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID) (*model.Product, error)

	// DecrementStockWithTx guards against oversell at the database
	// level; it fails when the remaining stock is below quantity.
	DecrementStockWithTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int) error

	RestockWithTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int) error
}
