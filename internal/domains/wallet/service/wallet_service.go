package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"opticsmarket-backend/internal/domains/wallet/model"
	"opticsmarket-backend/internal/domains/wallet/repository"
	"opticsmarket-backend/pkg/logger"
)

type WalletService interface {
	// GetWallet returns the user's wallet, creating an empty one on
	// first access.
	GetWallet(ctx context.Context, userID uuid.UUID) (*model.Wallet, error)

	// LockWalletWithTx returns the user's wallet with its row locked
	// for the duration of tx, creating it first when the user has no
	// wallet yet.
	LockWalletWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*model.Wallet, error)

	// CreditShoppingBalanceWithTx adds amount to an already locked
	// wallet's shopping balance and records the audit row.
	CreditShoppingBalanceWithTx(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, amount decimal.Decimal, txType model.TransactionType, referenceType string, referenceID *uuid.UUID, description string) error

	ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Transaction, error)
}

type walletService struct {
	walletRepo repository.WalletRepository
}

func NewWalletService(walletRepo repository.WalletRepository) WalletService {
	return &walletService{
		walletRepo: walletRepo,
	}
}

func (s *walletService) GetWallet(ctx context.Context, userID uuid.UUID) (*model.Wallet, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if err != model.ErrWalletNotFound {
		return nil, err
	}

	wallet = model.NewWallet(userID)
	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		return nil, err
	}

	logger.Info("Created wallet", map[string]interface{}{
		"user_id":   userID,
		"wallet_id": wallet.ID,
	})

	return wallet, nil
}

func (s *walletService) LockWalletWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*model.Wallet, error) {
	wallet, err := s.walletRepo.GetByUserIDForUpdateWithTx(ctx, tx, userID)
	if err == nil {
		return wallet, nil
	}
	if err != model.ErrWalletNotFound {
		return nil, err
	}

	// First movement for this user. A concurrent creator conflicts on
	// the unique user_id, so one of the two transactions retries and
	// then sees the row.
	wallet = model.NewWallet(userID)
	if err := s.walletRepo.CreateWithTx(ctx, tx, wallet); err != nil {
		return nil, err
	}

	return wallet, nil
}

func (s *walletService) CreditShoppingBalanceWithTx(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, amount decimal.Decimal, txType model.TransactionType, referenceType string, referenceID *uuid.UUID, description string) error {
	if !amount.IsPositive() {
		return model.ErrInvalidAmount
	}

	transaction := &model.Transaction{
		ID:            uuid.New(),
		Type:          txType,
		Amount:        amount,
		Status:        model.TransactionSuccess,
		ReferenceType: referenceType,
		ReferenceID:   referenceID,
		Description:   description,
	}

	return s.walletRepo.CreditShoppingBalanceWithTx(ctx, tx, walletID, transaction)
}

func (s *walletService) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Transaction, error) {
	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.walletRepo.ListTransactions(ctx, wallet.ID, limit, offset)
}
