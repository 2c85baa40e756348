package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"opticsmarket-backend/internal/domains/product/model"
)

type postgresProductRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &postgresProductRepository{
		pool: pool,
	}
}

// =====================================================
// STORES
// =====================================================

const storeColumns = `id, owner_id, name, slug, description, is_active, created_at, updated_at`

func scanStore(row pgx.Row) (*model.Store, error) {
	store := &model.Store{}
	err := row.Scan(
		&store.ID,
		&store.OwnerID,
		&store.Name,
		&store.Slug,
		&store.Description,
		&store.IsActive,
		&store.CreatedAt,
		&store.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func (r *postgresProductRepository) CreateStore(ctx context.Context, store *model.Store) error {
	query := `
		INSERT INTO stores (id, owner_id, name, slug, description, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		store.ID,
		store.OwnerID,
		store.Name,
		store.Slug,
		store.Description,
		store.IsActive,
	).Scan(&store.CreatedAt, &store.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrStoreExists
		}
		return fmt.Errorf("failed to create store: %w", err)
	}

	return nil
}

func (r *postgresProductRepository) GetStoreByID(ctx context.Context, storeID uuid.UUID) (*model.Store, error) {
	query := fmt.Sprintf(`SELECT %s FROM stores WHERE id = $1`, storeColumns)

	store, err := scanStore(r.pool.QueryRow(ctx, query, storeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to get store: %w", err)
	}

	return store, nil
}

func (r *postgresProductRepository) GetStoreByOwnerID(ctx context.Context, ownerID uuid.UUID) (*model.Store, error) {
	query := fmt.Sprintf(`SELECT %s FROM stores WHERE owner_id = $1`, storeColumns)

	store, err := scanStore(r.pool.QueryRow(ctx, query, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to get store by owner: %w", err)
	}

	return store, nil
}

func (r *postgresProductRepository) GetStoresByIDs(ctx context.Context, storeIDs []uuid.UUID) (map[uuid.UUID]model.Store, error) {
	if len(storeIDs) == 0 {
		return map[uuid.UUID]model.Store{}, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM stores WHERE id = ANY($1)`, storeColumns)

	rows, err := r.pool.Query(ctx, query, storeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get stores: %w", err)
	}
	defer rows.Close()

	stores := make(map[uuid.UUID]model.Store, len(storeIDs))
	for rows.Next() {
		store, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}
		stores[store.ID] = *store
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stores: %w", err)
	}

	return stores, nil
}

// =====================================================
// PRODUCTS
// =====================================================

const productColumns = `
	id, store_id, name, slug, sku, category, variant, description,
	price, stock, image_url, is_active, version, created_at, updated_at
`

func scanProduct(row pgx.Row) (*model.Product, error) {
	product := &model.Product{}
	err := row.Scan(
		&product.ID,
		&product.StoreID,
		&product.Name,
		&product.Slug,
		&product.SKU,
		&product.Category,
		&product.Variant,
		&product.Description,
		&product.Price,
		&product.Stock,
		&product.ImageURL,
		&product.IsActive,
		&product.Version,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *postgresProductRepository) CreateProduct(ctx context.Context, product *model.Product) error {
	query := `
		INSERT INTO products (
			id, store_id, name, slug, sku, category, variant, description,
			price, stock, image_url, is_active, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		product.ID,
		product.StoreID,
		product.Name,
		product.Slug,
		product.SKU,
		product.Category,
		product.Variant,
		product.Description,
		product.Price,
		product.Stock,
		product.ImageURL,
		product.IsActive,
		product.Version,
	).Scan(&product.CreatedAt, &product.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrSKUExists
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

func (r *postgresProductRepository) UpdateProduct(ctx context.Context, product *model.Product) error {
	query := `
		UPDATE products
		SET name = $1, slug = $2, category = $3, variant = $4, description = $5,
		    price = $6, stock = $7, image_url = $8, is_active = $9,
		    version = version + 1, updated_at = NOW()
		WHERE id = $10 AND version = $11
	`

	tag, err := r.pool.Exec(ctx, query,
		product.Name,
		product.Slug,
		product.Category,
		product.Variant,
		product.Description,
		product.Price,
		product.Stock,
		product.ImageURL,
		product.IsActive,
		product.ID,
		product.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	product.Version++
	return nil
}

func (r *postgresProductRepository) GetProductByID(ctx context.Context, productID uuid.UUID) (*model.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	product, err := scanProduct(r.pool.QueryRow(ctx, query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

func (r *postgresProductRepository) ListProductsByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]model.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE store_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, productColumns)

	rows, err := r.pool.Query(ctx, query, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}

func (r *postgresProductRepository) GetProductByIDForUpdateWithTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID) (*model.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1 FOR UPDATE`, productColumns)

	product, err := scanProduct(tx.QueryRow(ctx, query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to lock product: %w", err)
	}

	return product, nil
}

func (r *postgresProductRepository) DecrementStockWithTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int) error {
	query := `
		UPDATE products
		SET stock = stock - $1, version = version + 1, updated_at = NOW()
		WHERE id = $2 AND stock >= $1
	`

	tag, err := tx.Exec(ctx, query, quantity, productID)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrInsufficientStock
	}

	return nil
}

func (r *postgresProductRepository) RestockWithTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int) error {
	query := `
		UPDATE products
		SET stock = stock + $1, version = version + 1, updated_at = NOW()
		WHERE id = $2
	`

	tag, err := tx.Exec(ctx, query, quantity, productID)
	if err != nil {
		return fmt.Errorf("failed to restock product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	return nil
}
