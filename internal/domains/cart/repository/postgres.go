package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"opticsmarket-backend/internal/domains/cart/model"
)

type postgresCartRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCartRepository(pool *pgxpool.Pool) CartRepository {
	return &postgresCartRepository{
		pool: pool,
	}
}

func (r *postgresCartRepository) UpsertItem(ctx context.Context, item *model.CartItem) error {
	query := `
		INSERT INTO cart_items (id, user_id, product_id, quantity, lens_configuration, prescription)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity,
		              lens_configuration = EXCLUDED.lens_configuration,
		              prescription = EXCLUDED.prescription,
		              updated_at = NOW()
		RETURNING id, quantity, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		item.ID,
		item.UserID,
		item.ProductID,
		item.Quantity,
		item.LensConfiguration,
		item.Prescription,
	).Scan(&item.ID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert cart item: %w", err)
	}

	return nil
}

func (r *postgresCartRepository) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	query := `
		UPDATE cart_items
		SET quantity = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
	`

	tag, err := r.pool.Exec(ctx, query, quantity, itemID, userID)
	if err != nil {
		return fmt.Errorf("failed to update cart quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCartItemNotFound
	}

	return nil
}

func (r *postgresCartRepository) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	query := `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`

	tag, err := r.pool.Exec(ctx, query, itemID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCartItemNotFound
	}

	return nil
}

const cartLineQuery = `
	SELECT
		ci.id, ci.user_id, ci.product_id, ci.quantity,
		ci.lens_configuration, ci.prescription, ci.created_at, ci.updated_at,
		p.name, p.sku, p.variant, p.image_url, p.price, p.stock, p.is_active,
		s.id, s.name
	FROM cart_items ci
	JOIN products p ON p.id = ci.product_id
	JOIN stores s ON s.id = p.store_id
	WHERE ci.user_id = $1
	ORDER BY ci.created_at ASC
`

func (r *postgresCartRepository) ListLinesByUser(ctx context.Context, userID uuid.UUID) ([]model.CartLine, error) {
	rows, err := r.pool.Query(ctx, cartLineQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart lines: %w", err)
	}
	defer rows.Close()

	return collectCartLines(rows)
}

func (r *postgresCartRepository) ListLinesByUserWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) ([]model.CartLine, error) {
	rows, err := tx.Query(ctx, cartLineQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart lines with tx: %w", err)
	}
	defer rows.Close()

	return collectCartLines(rows)
}

func (r *postgresCartRepository) ClearByUserWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	query := `DELETE FROM cart_items WHERE user_id = $1`

	if _, err := tx.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}

func collectCartLines(rows pgx.Rows) ([]model.CartLine, error) {
	var lines []model.CartLine
	for rows.Next() {
		var l model.CartLine
		if err := rows.Scan(
			&l.ID,
			&l.UserID,
			&l.ProductID,
			&l.Quantity,
			&l.LensConfiguration,
			&l.Prescription,
			&l.CreatedAt,
			&l.UpdatedAt,
			&l.ProductName,
			&l.SKU,
			&l.Variant,
			&l.ImageURL,
			&l.UnitPrice,
			&l.Stock,
			&l.ProductActive,
			&l.StoreID,
			&l.StoreName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cart lines: %w", err)
	}

	return lines, nil
}
