package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"opticsmarket-backend/internal/domains/points/model"
)

// PointsRepository persists point rules and the loyalty ledger. The
// wallet loyalty balance itself lives in the wallet repository; ledger
// writes and balance adjustments share one transaction.
type PointsRepository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
	CommitTx(ctx context.Context, tx pgx.Tx) error
	RollbackTx(ctx context.Context, tx pgx.Tx) error

	GetActiveRuleByType(ctx context.Context, ruleType model.PointRuleType) (*model.PointRule, error)
	GetRuleByID(ctx context.Context, id uuid.UUID) (*model.PointRule, error)
	ListRules(ctx context.Context) ([]model.PointRule, error)
	CreateRule(ctx context.Context, rule *model.PointRule) error
	UpdateRule(ctx context.Context, rule *model.PointRule) error

	InsertTransactionWithTx(ctx context.Context, tx pgx.Tx, transaction *model.PointTransaction) error

	// AttachOrderReferenceWithTx back-fills the newest unreferenced
	// redeem entry of the wallet with an order reference.
	AttachOrderReferenceWithTx(ctx context.Context, tx pgx.Tx, walletID, orderID uuid.UUID) error

	ListTransactions(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]model.PointTransaction, error)

	// SumExpiredUnprocessedEarns totals earn entries already past their
	// expiry but not yet swept by the expiry job.
	SumExpiredUnprocessedEarns(ctx context.Context, walletID uuid.UUID, now time.Time) (decimal.Decimal, error)

	ListDueEarnTransactions(ctx context.Context, now time.Time, limit int) ([]model.PointTransaction, error)
	MarkTransactionExpiredWithTx(ctx context.Context, tx pgx.Tx, transactionID uuid.UUID) error
}
