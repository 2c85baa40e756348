package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"opticsmarket-backend/internal/domains/points/model"
)

type postgresPointsRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPointsRepository(pool *pgxpool.Pool) PointsRepository {
	return &postgresPointsRepository{
		pool: pool,
	}
}

// =====================================================
// TRANSACTION MANAGEMENT
// =====================================================

func (r *postgresPointsRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

func (r *postgresPointsRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	return tx.Commit(ctx)
}

func (r *postgresPointsRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	return tx.Rollback(ctx)
}

// =====================================================
// POINT RULES
// =====================================================

const ruleColumns = `
	id, type, rate, fixed_points, min_purchase_amount, max_points_per_order,
	min_points_to_redeem, max_redemption_per_order, expiry_days, is_active,
	created_at, updated_at
`

func scanRule(row pgx.Row) (*model.PointRule, error) {
	rule := &model.PointRule{}
	err := row.Scan(
		&rule.ID,
		&rule.Type,
		&rule.Rate,
		&rule.FixedPoints,
		&rule.MinPurchaseAmount,
		&rule.MaxPointsPerOrder,
		&rule.MinPointsToRedeem,
		&rule.MaxRedemptionPerOrder,
		&rule.ExpiryDays,
		&rule.IsActive,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rule, nil
}

func (r *postgresPointsRepository) GetActiveRuleByType(ctx context.Context, ruleType model.PointRuleType) (*model.PointRule, error) {
	query := fmt.Sprintf(`SELECT %s FROM point_rules WHERE type = $1 AND is_active = TRUE`, ruleColumns)

	rule, err := scanRule(r.pool.QueryRow(ctx, query, ruleType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrRuleNotFound
		}
		return nil, fmt.Errorf("failed to get active point rule: %w", err)
	}

	return rule, nil
}

func (r *postgresPointsRepository) GetRuleByID(ctx context.Context, id uuid.UUID) (*model.PointRule, error) {
	query := fmt.Sprintf(`SELECT %s FROM point_rules WHERE id = $1`, ruleColumns)

	rule, err := scanRule(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrRuleNotFound
		}
		return nil, fmt.Errorf("failed to get point rule: %w", err)
	}

	return rule, nil
}

func (r *postgresPointsRepository) ListRules(ctx context.Context) ([]model.PointRule, error) {
	query := fmt.Sprintf(`SELECT %s FROM point_rules ORDER BY type, created_at DESC`, ruleColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list point rules: %w", err)
	}
	defer rows.Close()

	var rules []model.PointRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan point rule: %w", err)
		}
		rules = append(rules, *rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate point rules: %w", err)
	}

	return rules, nil
}

func (r *postgresPointsRepository) CreateRule(ctx context.Context, rule *model.PointRule) error {
	query := `
		INSERT INTO point_rules (
			id, type, rate, fixed_points, min_purchase_amount, max_points_per_order,
			min_points_to_redeem, max_redemption_per_order, expiry_days, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		rule.ID,
		rule.Type,
		rule.Rate,
		rule.FixedPoints,
		rule.MinPurchaseAmount,
		rule.MaxPointsPerOrder,
		rule.MinPointsToRedeem,
		rule.MaxRedemptionPerOrder,
		rule.ExpiryDays,
		rule.IsActive,
	).Scan(&rule.CreatedAt, &rule.UpdatedAt)

	if err != nil {
		// Partial unique index on (type) WHERE is_active.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrRuleTypeActive
		}
		return fmt.Errorf("failed to create point rule: %w", err)
	}

	return nil
}

func (r *postgresPointsRepository) UpdateRule(ctx context.Context, rule *model.PointRule) error {
	query := `
		UPDATE point_rules
		SET rate = $1, fixed_points = $2, min_purchase_amount = $3, max_points_per_order = $4,
		    min_points_to_redeem = $5, max_redemption_per_order = $6, expiry_days = $7,
		    is_active = $8, updated_at = NOW()
		WHERE id = $9
	`

	tag, err := r.pool.Exec(ctx, query,
		rule.Rate,
		rule.FixedPoints,
		rule.MinPurchaseAmount,
		rule.MaxPointsPerOrder,
		rule.MinPointsToRedeem,
		rule.MaxRedemptionPerOrder,
		rule.ExpiryDays,
		rule.IsActive,
		rule.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrRuleTypeActive
		}
		return fmt.Errorf("failed to update point rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrRuleNotFound
	}

	return nil
}

// =====================================================
// LEDGER
// =====================================================

const transactionColumns = `
	id, wallet_id, type, source, points, balance_after, reference_type,
	reference_id, description, expires_at, expired, created_at
`

func (r *postgresPointsRepository) InsertTransactionWithTx(ctx context.Context, tx pgx.Tx, transaction *model.PointTransaction) error {
	query := `
		INSERT INTO point_transactions (
			id, wallet_id, type, source, points, balance_after, reference_type,
			reference_id, description, expires_at, expired
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`

	err := tx.QueryRow(ctx, query,
		transaction.ID,
		transaction.WalletID,
		transaction.Type,
		transaction.Source,
		transaction.Points,
		transaction.BalanceAfter,
		transaction.ReferenceType,
		transaction.ReferenceID,
		transaction.Description,
		transaction.ExpiresAt,
		transaction.Expired,
	).Scan(&transaction.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert point transaction: %w", err)
	}

	return nil
}

func (r *postgresPointsRepository) AttachOrderReferenceWithTx(ctx context.Context, tx pgx.Tx, walletID, orderID uuid.UUID) error {
	query := `
		UPDATE point_transactions
		SET reference_type = 'order', reference_id = $1
		WHERE id = (
			SELECT id FROM point_transactions
			WHERE wallet_id = $2 AND type = 'redeem' AND reference_id IS NULL
			ORDER BY created_at DESC
			LIMIT 1
		)
	`

	tag, err := tx.Exec(ctx, query, orderID, walletID)
	if err != nil {
		return fmt.Errorf("failed to attach order reference: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTransactionNotFound
	}

	return nil
}

func (r *postgresPointsRepository) ListTransactions(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]model.PointTransaction, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM point_transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, transactionColumns)

	rows, err := r.pool.Query(ctx, query, walletID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list point transactions: %w", err)
	}
	defer rows.Close()

	return collectPointTransactions(rows)
}

func (r *postgresPointsRepository) SumExpiredUnprocessedEarns(ctx context.Context, walletID uuid.UUID, now time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(points), 0)
		FROM point_transactions
		WHERE wallet_id = $1 AND type = 'earn' AND expired = FALSE
		  AND expires_at IS NOT NULL AND expires_at < $2
	`

	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, walletID, now).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum expired earns: %w", err)
	}

	return total, nil
}

func (r *postgresPointsRepository) ListDueEarnTransactions(ctx context.Context, now time.Time, limit int) ([]model.PointTransaction, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM point_transactions
		WHERE type = 'earn' AND expired = FALSE AND expires_at IS NOT NULL AND expires_at < $1
		ORDER BY expires_at ASC
		LIMIT $2
	`, transactionColumns)

	rows, err := r.pool.Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list due earn transactions: %w", err)
	}
	defer rows.Close()

	return collectPointTransactions(rows)
}

func (r *postgresPointsRepository) MarkTransactionExpiredWithTx(ctx context.Context, tx pgx.Tx, transactionID uuid.UUID) error {
	query := `UPDATE point_transactions SET expired = TRUE WHERE id = $1 AND expired = FALSE`

	tag, err := tx.Exec(ctx, query, transactionID)
	if err != nil {
		return fmt.Errorf("failed to mark point transaction expired: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTransactionNotFound
	}

	return nil
}

func collectPointTransactions(rows pgx.Rows) ([]model.PointTransaction, error) {
	var transactions []model.PointTransaction
	for rows.Next() {
		var t model.PointTransaction
		if err := rows.Scan(
			&t.ID,
			&t.WalletID,
			&t.Type,
			&t.Source,
			&t.Points,
			&t.BalanceAfter,
			&t.ReferenceType,
			&t.ReferenceID,
			&t.Description,
			&t.ExpiresAt,
			&t.Expired,
			&t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan point transaction: %w", err)
		}
		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate point transactions: %w", err)
	}

	return transactions, nil
}
