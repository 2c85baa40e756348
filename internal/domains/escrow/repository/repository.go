package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"opticsmarket-backend/internal/domains/escrow/model"
)

type EscrowRepository interface {
	CreateWithTx(ctx context.Context, tx pgx.Tx, escrow *model.EscrowTransaction) error

	GetByStoreOrderID(ctx context.Context, storeOrderID uuid.UUID) (*model.EscrowTransaction, error)

	// GetByStoreOrderIDForUpdateWithTx locks the escrow row so release
	// and refund cannot race.
	GetByStoreOrderIDForUpdateWithTx(ctx context.Context, tx pgx.Tx, storeOrderID uuid.UUID) (*model.EscrowTransaction, error)

	// UpdateStatusWithTx flips the status only when the row is still
	// locked, so a second release is a no-op at the database level too.
	UpdateStatusWithTx(ctx context.Context, tx pgx.Tx, escrowID uuid.UUID, status model.EscrowStatus) error

	// SumLockedByStore returns the total currently held in escrow for
	// a store.
	SumLockedByStore(ctx context.Context, storeID uuid.UUID) (decimal.Decimal, error)

	// SumLockedByBuyer returns the buyer's money currently locked in
	// escrow across all of their store orders.
	SumLockedByBuyer(ctx context.Context, buyerID uuid.UUID) (decimal.Decimal, error)

	ListByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]model.EscrowTransaction, error)
}
