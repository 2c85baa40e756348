package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"opticsmarket-backend/internal/domains/wallet/model"
)

type postgresWalletRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresWalletRepository(pool *pgxpool.Pool) WalletRepository {
	return &postgresWalletRepository{
		pool: pool,
	}
}

const walletColumns = `
	id, user_id, shopping_balance, reward_balance, referral_balance,
	loyalty_points, ad_credit, version, created_at, updated_at
`

func scanWallet(row pgx.Row) (*model.Wallet, error) {
	wallet := &model.Wallet{}
	err := row.Scan(
		&wallet.ID,
		&wallet.UserID,
		&wallet.ShoppingBalance,
		&wallet.RewardBalance,
		&wallet.ReferralBalance,
		&wallet.LoyaltyPoints,
		&wallet.AdCredit,
		&wallet.Version,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

func (r *postgresWalletRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Wallet, error) {
	query := fmt.Sprintf(`SELECT %s FROM wallets WHERE user_id = $1`, walletColumns)

	wallet, err := scanWallet(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	return wallet, nil
}

func (r *postgresWalletRepository) Create(ctx context.Context, wallet *model.Wallet) error {
	return r.create(ctx, r.pool, wallet)
}

func (r *postgresWalletRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, wallet *model.Wallet) error {
	return r.create(ctx, tx, wallet)
}

type execQueryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *postgresWalletRepository) create(ctx context.Context, q execQueryRower, wallet *model.Wallet) error {
	query := `
		INSERT INTO wallets (
			id, user_id, shopping_balance, reward_balance, referral_balance,
			loyalty_points, ad_credit, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		wallet.ID,
		wallet.UserID,
		wallet.ShoppingBalance,
		wallet.RewardBalance,
		wallet.ReferralBalance,
		wallet.LoyaltyPoints,
		wallet.AdCredit,
		wallet.Version,
	).Scan(&wallet.CreatedAt, &wallet.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}

	return nil
}

func (r *postgresWalletRepository) GetByUserIDForUpdateWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*model.Wallet, error) {
	query := fmt.Sprintf(`SELECT %s FROM wallets WHERE user_id = $1 FOR UPDATE`, walletColumns)

	wallet, err := scanWallet(tx.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}

	return wallet, nil
}

func (r *postgresWalletRepository) GetByIDForUpdateWithTx(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) (*model.Wallet, error) {
	query := fmt.Sprintf(`SELECT %s FROM wallets WHERE id = $1 FOR UPDATE`, walletColumns)

	wallet, err := scanWallet(tx.QueryRow(ctx, query, walletID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}

	return wallet, nil
}

func (r *postgresWalletRepository) CreditShoppingBalanceWithTx(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, transaction *model.Transaction) error {
	updateQuery := `
		UPDATE wallets
		SET shopping_balance = shopping_balance + $1, version = version + 1, updated_at = NOW()
		WHERE id = $2
	`

	tag, err := tx.Exec(ctx, updateQuery, transaction.Amount, walletID)
	if err != nil {
		return fmt.Errorf("failed to credit shopping balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrWalletNotFound
	}

	insertQuery := `
		INSERT INTO wallet_transactions (
			id, wallet_id, type, amount, status, reference_type, reference_id, description
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	transaction.WalletID = walletID
	err = tx.QueryRow(ctx, insertQuery,
		transaction.ID,
		transaction.WalletID,
		transaction.Type,
		transaction.Amount,
		transaction.Status,
		transaction.ReferenceType,
		transaction.ReferenceID,
		transaction.Description,
	).Scan(&transaction.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to record wallet transaction: %w", err)
	}

	return nil
}

func (r *postgresWalletRepository) AdjustLoyaltyPointsWithTx(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, delta decimal.Decimal) error {
	query := `
		UPDATE wallets
		SET loyalty_points = loyalty_points + $1, version = version + 1, updated_at = NOW()
		WHERE id = $2
	`

	tag, err := tx.Exec(ctx, query, delta, walletID)
	if err != nil {
		return fmt.Errorf("failed to adjust loyalty points: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrWalletNotFound
	}

	return nil
}

func (r *postgresWalletRepository) ListTransactions(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]model.Transaction, error) {
	query := `
		SELECT id, wallet_id, type, amount, status, reference_type, reference_id, description, created_at
		FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, walletID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet transactions: %w", err)
	}
	defer rows.Close()

	var transactions []model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(
			&t.ID,
			&t.WalletID,
			&t.Type,
			&t.Amount,
			&t.Status,
			&t.ReferenceType,
			&t.ReferenceID,
			&t.Description,
			&t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan wallet transaction: %w", err)
		}
		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wallet transactions: %w", err)
	}

	return transactions, nil
}
