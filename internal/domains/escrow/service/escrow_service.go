package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"opticsmarket-backend/internal/domains/escrow/model"
	"opticsmarket-backend/internal/domains/escrow/repository"
	pointsService "opticsmarket-backend/internal/domains/points/service"
	walletModel "opticsmarket-backend/internal/domains/wallet/model"
	walletService "opticsmarket-backend/internal/domains/wallet/service"
	"opticsmarket-backend/pkg/logger"
)

type EscrowService interface {
	// LockFundsWithTx creates the escrow row for a paid store order
	// inside the payment transaction. The platform fee is carved out
	// up front so the net amount is fixed at lock time. A second lock
	// for the same store order returns ErrEscrowAlreadyExists.
	LockFundsWithTx(ctx context.Context, tx pgx.Tx, storeOrderID, storeID, sellerID, buyerID uuid.UUID, amount decimal.Decimal) (*model.EscrowTransaction, error)

	// ReleaseWithTx settles a locked escrow: credits the seller's
	// wallet with the net amount and awards purchase points to the
	// buyer. Point award failures are logged and swallowed; the
	// settlement itself must not be lost over a loyalty hiccup.
	// Releasing twice returns ErrEscrowNotLocked.
	ReleaseWithTx(ctx context.Context, tx pgx.Tx, storeOrderID uuid.UUID) (*model.EscrowTransaction, error)

	// RefundWithTx marks a locked escrow refunded without crediting
	// the seller.
	RefundWithTx(ctx context.Context, tx pgx.Tx, storeOrderID uuid.UUID) (*model.EscrowTransaction, error)

	GetByStoreOrderID(ctx context.Context, storeOrderID uuid.UUID) (*model.EscrowTransaction, error)
	GetLockedBalanceForBuyer(ctx context.Context, buyerID uuid.UUID) (decimal.Decimal, error)
	GetLockedBalanceForStore(ctx context.Context, storeID uuid.UUID) (decimal.Decimal, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]model.EscrowTransaction, error)
}

type escrowService struct {
	escrowRepo      repository.EscrowRepository
	walletService   walletService.WalletService
	pointsService   pointsService.PointsService
	platformFeeRate decimal.Decimal
}

func NewEscrowService(
	escrowRepo repository.EscrowRepository,
	walletSvc walletService.WalletService,
	pointsSvc pointsService.PointsService,
	platformFeeRate decimal.Decimal,
) EscrowService {
	return &escrowService{
		escrowRepo:      escrowRepo,
		walletService:   walletSvc,
		pointsService:   pointsSvc,
		platformFeeRate: platformFeeRate,
	}
}

func (s *escrowService) LockFundsWithTx(ctx context.Context, tx pgx.Tx, storeOrderID, storeID, sellerID, buyerID uuid.UUID, amount decimal.Decimal) (*model.EscrowTransaction, error) {
	if !amount.IsPositive() {
		return nil, model.ErrInvalidEscrowAmount
	}

	fee := amount.Mul(s.platformFeeRate).Round(2)
	escrow := &model.EscrowTransaction{
		ID:           uuid.New(),
		StoreOrderID: storeOrderID,
		StoreID:      storeID,
		SellerID:     sellerID,
		BuyerID:      buyerID,
		Amount:       amount,
		PlatformFee:  fee,
		NetAmount:    amount.Sub(fee),
		Status:       model.EscrowLocked,
		LockedAt:     time.Now(),
	}

	if err := s.escrowRepo.CreateWithTx(ctx, tx, escrow); err != nil {
		return nil, err
	}

	logger.Info("Escrow locked", map[string]interface{}{
		"store_order_id": storeOrderID,
		"store_id":       storeID,
		"amount":         escrow.Amount.String(),
		"net_amount":     escrow.NetAmount.String(),
	})

	return escrow, nil
}

func (s *escrowService) ReleaseWithTx(ctx context.Context, tx pgx.Tx, storeOrderID uuid.UUID) (*model.EscrowTransaction, error) {
	escrow, err := s.escrowRepo.GetByStoreOrderIDForUpdateWithTx(ctx, tx, storeOrderID)
	if err != nil {
		return nil, err
	}

	if !escrow.Status.CanTransitionTo(model.EscrowReleased) {
		return nil, model.ErrEscrowNotLocked
	}

	if err := s.escrowRepo.UpdateStatusWithTx(ctx, tx, escrow.ID, model.EscrowReleased); err != nil {
		return nil, err
	}

	wallet, err := s.walletService.LockWalletWithTx(ctx, tx, escrow.SellerID)
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Escrow release for store order %s", escrow.StoreOrderID)
	err = s.walletService.CreditShoppingBalanceWithTx(ctx, tx, wallet.ID, escrow.NetAmount,
		walletModel.TransactionOrderPayment, "store_order", &escrow.StoreOrderID, description)
	if err != nil {
		return nil, err
	}

	// Points are earned on the gross amount the buyer paid. The award
	// runs inside a savepoint so a failure rolls back only the loyalty
	// write, never the settlement.
	if err := s.awardPoints(ctx, tx, escrow); err != nil {
		logger.Warn("Failed to award points on escrow release", map[string]interface{}{
			"store_order_id": escrow.StoreOrderID,
			"buyer_id":       escrow.BuyerID,
			"error":          err.Error(),
		})
	}

	now := time.Now()
	escrow.Status = model.EscrowReleased
	escrow.ReleasedAt = &now

	logger.Info("Escrow released", map[string]interface{}{
		"store_order_id": escrow.StoreOrderID,
		"store_id":       escrow.StoreID,
		"net_amount":     escrow.NetAmount.String(),
	})

	return escrow, nil
}

// awardPoints earns purchase points inside a savepoint on the release
// transaction. pgx turns a nested Begin into SAVEPOINT/RELEASE.
func (s *escrowService) awardPoints(ctx context.Context, tx pgx.Tx, escrow *model.EscrowTransaction) error {
	sub, err := tx.Begin(ctx)
	if err != nil {
		return err
	}

	if _, err := s.pointsService.EarnFromPurchaseWithTx(ctx, sub, escrow.BuyerID, escrow.StoreOrderID, escrow.Amount); err != nil {
		_ = sub.Rollback(ctx)
		return err
	}

	return sub.Commit(ctx)
}

func (s *escrowService) RefundWithTx(ctx context.Context, tx pgx.Tx, storeOrderID uuid.UUID) (*model.EscrowTransaction, error) {
	escrow, err := s.escrowRepo.GetByStoreOrderIDForUpdateWithTx(ctx, tx, storeOrderID)
	if err != nil {
		return nil, err
	}

	if !escrow.Status.CanTransitionTo(model.EscrowRefunded) {
		return nil, model.ErrEscrowNotLocked
	}

	if err := s.escrowRepo.UpdateStatusWithTx(ctx, tx, escrow.ID, model.EscrowRefunded); err != nil {
		return nil, err
	}

	escrow.Status = model.EscrowRefunded

	logger.Info("Escrow refunded", map[string]interface{}{
		"store_order_id": escrow.StoreOrderID,
		"store_id":       escrow.StoreID,
		"amount":         escrow.Amount.String(),
	})

	return escrow, nil
}

func (s *escrowService) GetByStoreOrderID(ctx context.Context, storeOrderID uuid.UUID) (*model.EscrowTransaction, error) {
	return s.escrowRepo.GetByStoreOrderID(ctx, storeOrderID)
}

func (s *escrowService) GetLockedBalanceForBuyer(ctx context.Context, buyerID uuid.UUID) (decimal.Decimal, error) {
	return s.escrowRepo.SumLockedByBuyer(ctx, buyerID)
}

func (s *escrowService) GetLockedBalanceForStore(ctx context.Context, storeID uuid.UUID) (decimal.Decimal, error) {
	return s.escrowRepo.SumLockedByStore(ctx, storeID)
}

func (s *escrowService) ListByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]model.EscrowTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.escrowRepo.ListByStore(ctx, storeID, limit, offset)
}
