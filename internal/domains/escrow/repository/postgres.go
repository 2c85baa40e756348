package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"opticsmarket-backend/internal/domains/escrow/model"
)

type postgresEscrowRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresEscrowRepository(pool *pgxpool.Pool) EscrowRepository {
	return &postgresEscrowRepository{
		pool: pool,
	}
}

const escrowColumns = `
	id, store_order_id, store_id, seller_id, buyer_id, amount, platform_fee, net_amount,
	status, locked_at, released_at, created_at, updated_at
`

func scanEscrow(row pgx.Row) (*model.EscrowTransaction, error) {
	escrow := &model.EscrowTransaction{}
	err := row.Scan(
		&escrow.ID,
		&escrow.StoreOrderID,
		&escrow.StoreID,
		&escrow.SellerID,
		&escrow.BuyerID,
		&escrow.Amount,
		&escrow.PlatformFee,
		&escrow.NetAmount,
		&escrow.Status,
		&escrow.LockedAt,
		&escrow.ReleasedAt,
		&escrow.CreatedAt,
		&escrow.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return escrow, nil
}

func (r *postgresEscrowRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, escrow *model.EscrowTransaction) error {
	query := `
		INSERT INTO escrow_transactions (
			id, store_order_id, store_id, seller_id, buyer_id, amount, platform_fee, net_amount,
			status, locked_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		escrow.ID,
		escrow.StoreOrderID,
		escrow.StoreID,
		escrow.SellerID,
		escrow.BuyerID,
		escrow.Amount,
		escrow.PlatformFee,
		escrow.NetAmount,
		escrow.Status,
		escrow.LockedAt,
	).Scan(&escrow.CreatedAt, &escrow.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrEscrowAlreadyExists
		}
		return fmt.Errorf("failed to create escrow transaction: %w", err)
	}

	return nil
}

func (r *postgresEscrowRepository) GetByStoreOrderID(ctx context.Context, storeOrderID uuid.UUID) (*model.EscrowTransaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM escrow_transactions WHERE store_order_id = $1`, escrowColumns)

	escrow, err := scanEscrow(r.pool.QueryRow(ctx, query, storeOrderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrEscrowNotFound
		}
		return nil, fmt.Errorf("failed to get escrow transaction: %w", err)
	}

	return escrow, nil
}

func (r *postgresEscrowRepository) GetByStoreOrderIDForUpdateWithTx(ctx context.Context, tx pgx.Tx, storeOrderID uuid.UUID) (*model.EscrowTransaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM escrow_transactions WHERE store_order_id = $1 FOR UPDATE`, escrowColumns)

	escrow, err := scanEscrow(tx.QueryRow(ctx, query, storeOrderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrEscrowNotFound
		}
		return nil, fmt.Errorf("failed to lock escrow transaction: %w", err)
	}

	return escrow, nil
}

func (r *postgresEscrowRepository) UpdateStatusWithTx(ctx context.Context, tx pgx.Tx, escrowID uuid.UUID, status model.EscrowStatus) error {
	// released_at only marks releases; refunds leave it NULL.
	query := `
		UPDATE escrow_transactions
		SET status = $1,
		    released_at = CASE WHEN $1 = 'released' THEN NOW() ELSE released_at END,
		    updated_at = NOW()
		WHERE id = $2 AND status = 'locked'
	`

	tag, err := tx.Exec(ctx, query, status, escrowID)
	if err != nil {
		return fmt.Errorf("failed to update escrow status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrEscrowNotLocked
	}

	return nil
}

func (r *postgresEscrowRepository) SumLockedByStore(ctx context.Context, storeID uuid.UUID) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(net_amount), 0)
		FROM escrow_transactions
		WHERE store_id = $1 AND status = 'locked'
	`

	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, storeID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum locked escrow: %w", err)
	}

	return total, nil
}

func (r *postgresEscrowRepository) SumLockedByBuyer(ctx context.Context, buyerID uuid.UUID) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM escrow_transactions
		WHERE buyer_id = $1 AND status = 'locked'
	`

	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, buyerID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum locked escrow for buyer: %w", err)
	}

	return total, nil
}

func (r *postgresEscrowRepository) ListByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]model.EscrowTransaction, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM escrow_transactions
		WHERE store_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, escrowColumns)

	rows, err := r.pool.Query(ctx, query, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list escrow transactions: %w", err)
	}
	defer rows.Close()

	var escrows []model.EscrowTransaction
	for rows.Next() {
		escrow, err := scanEscrow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan escrow transaction: %w", err)
		}
		escrows = append(escrows, *escrow)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate escrow transactions: %w", err)
	}

	return escrows, nil
}
