package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"opticsmarket-backend/internal/domains/wallet/model"
)

// WalletRepository persists per-user wallets, their shopping-balance
// audit log, and the loyalty-points column shared with the points
// ledger. Balance mutations require the caller to hold the row lock.
type WalletRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Wallet, error)
	Create(ctx context.Context, wallet *model.Wallet) error

	GetByUserIDForUpdateWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*model.Wallet, error)
	GetByIDForUpdateWithTx(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) (*model.Wallet, error)
	CreateWithTx(ctx context.Context, tx pgx.Tx, wallet *model.Wallet) error

	// CreditShoppingBalanceWithTx applies the transaction amount to the
	// shopping balance and appends the audit row.
	CreditShoppingBalanceWithTx(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, transaction *model.Transaction) error

	// AdjustLoyaltyPointsWithTx applies a signed delta to the
	// loyalty-points column. The points ledger row is written by the
	// points repository in the same transaction.
	AdjustLoyaltyPointsWithTx(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, delta decimal.Decimal) error

	ListTransactions(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]model.Transaction, error)
}
