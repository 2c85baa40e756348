package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opticsmarket-backend/internal/domains/escrow/model"
	pointsModel "opticsmarket-backend/internal/domains/points/model"
	walletModel "opticsmarket-backend/internal/domains/wallet/model"
	walletService "opticsmarket-backend/internal/domains/wallet/service"
)

// fakeTx supports the nested Begin used for the points savepoint.
type fakeTx struct {
	pgx.Tx
	rolledBack *bool
}

func (t fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t fakeTx) Commit(ctx context.Context) error          { return nil }

func (t fakeTx) Rollback(ctx context.Context) error {
	if t.rolledBack != nil {
		*t.rolledBack = true
	}
	return nil
}

type fakeEscrowRepo struct {
	escrows map[uuid.UUID]*model.EscrowTransaction // by store order ID
}

func newFakeEscrowRepo() *fakeEscrowRepo {
	return &fakeEscrowRepo{escrows: make(map[uuid.UUID]*model.EscrowTransaction)}
}

func (r *fakeEscrowRepo) CreateWithTx(ctx context.Context, tx pgx.Tx, escrow *model.EscrowTransaction) error {
	if _, ok := r.escrows[escrow.StoreOrderID]; ok {
		return model.ErrEscrowAlreadyExists
	}
	copied := *escrow
	r.escrows[escrow.StoreOrderID] = &copied
	return nil
}

func (r *fakeEscrowRepo) GetByStoreOrderID(ctx context.Context, storeOrderID uuid.UUID) (*model.EscrowTransaction, error) {
	escrow, ok := r.escrows[storeOrderID]
	if !ok {
		return nil, model.ErrEscrowNotFound
	}
	copied := *escrow
	return &copied, nil
}

func (r *fakeEscrowRepo) GetByStoreOrderIDForUpdateWithTx(ctx context.Context, tx pgx.Tx, storeOrderID uuid.UUID) (*model.EscrowTransaction, error) {
	return r.GetByStoreOrderID(ctx, storeOrderID)
}

func (r *fakeEscrowRepo) UpdateStatusWithTx(ctx context.Context, tx pgx.Tx, escrowID uuid.UUID, status model.EscrowStatus) error {
	for _, escrow := range r.escrows {
		if escrow.ID == escrowID {
			escrow.Status = status
			if status == model.EscrowReleased {
				now := time.Now()
				escrow.ReleasedAt = &now
			}
			return nil
		}
	}
	return model.ErrEscrowNotFound
}

func (r *fakeEscrowRepo) SumLockedByStore(ctx context.Context, storeID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, escrow := range r.escrows {
		if escrow.StoreID == storeID && escrow.Status == model.EscrowLocked {
			total = total.Add(escrow.Amount)
		}
	}
	return total, nil
}

func (r *fakeEscrowRepo) SumLockedByBuyer(ctx context.Context, buyerID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, escrow := range r.escrows {
		if escrow.BuyerID == buyerID && escrow.Status == model.EscrowLocked {
			total = total.Add(escrow.Amount)
		}
	}
	return total, nil
}

func (r *fakeEscrowRepo) ListByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]model.EscrowTransaction, error) {
	var out []model.EscrowTransaction
	for _, escrow := range r.escrows {
		if escrow.StoreID == storeID {
			out = append(out, *escrow)
		}
	}
	return out, nil
}

type fakeWalletRepo struct {
	wallets map[uuid.UUID]*walletModel.Wallet // by user ID
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{wallets: make(map[uuid.UUID]*walletModel.Wallet)}
}

func (r *fakeWalletRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*walletModel.Wallet, error) {
	wallet, ok := r.wallets[userID]
	if !ok {
		return nil, walletModel.ErrWalletNotFound
	}
	return wallet, nil
}

func (r *fakeWalletRepo) Create(ctx context.Context, wallet *walletModel.Wallet) error {
	r.wallets[wallet.UserID] = wallet
	return nil
}

func (r *fakeWalletRepo) GetByUserIDForUpdateWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*walletModel.Wallet, error) {
	return r.GetByUserID(ctx, userID)
}

func (r *fakeWalletRepo) GetByIDForUpdateWithTx(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) (*walletModel.Wallet, error) {
	for _, wallet := range r.wallets {
		if wallet.ID == walletID {
			return wallet, nil
		}
	}
	return nil, walletModel.ErrWalletNotFound
}

func (r *fakeWalletRepo) CreateWithTx(ctx context.Context, tx pgx.Tx, wallet *walletModel.Wallet) error {
	return r.Create(ctx, wallet)
}

func (r *fakeWalletRepo) CreditShoppingBalanceWithTx(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, transaction *walletModel.Transaction) error {
	for _, wallet := range r.wallets {
		if wallet.ID == walletID {
			wallet.ShoppingBalance = wallet.ShoppingBalance.Add(transaction.Amount)
			return nil
		}
	}
	return walletModel.ErrWalletNotFound
}

func (r *fakeWalletRepo) AdjustLoyaltyPointsWithTx(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, delta decimal.Decimal) error {
	for _, wallet := range r.wallets {
		if wallet.ID == walletID {
			wallet.LoyaltyPoints = wallet.LoyaltyPoints.Add(delta)
			return nil
		}
	}
	return walletModel.ErrWalletNotFound
}

func (r *fakeWalletRepo) ListTransactions(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]walletModel.Transaction, error) {
	return nil, nil
}

// stubPointsService records purchase earns and can be forced to fail.
type stubPointsService struct {
	earnErr     error
	earnedFor   []uuid.UUID
	earnedBasis []decimal.Decimal
}

func (s *stubPointsService) GetBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (s *stubPointsService) GetAvailablePoints(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (s *stubPointsService) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]pointsModel.PointTransaction, error) {
	return nil, nil
}

func (s *stubPointsService) EarnFromPurchaseWithTx(ctx context.Context, tx pgx.Tx, userID, orderID uuid.UUID, itemsTotal decimal.Decimal) (decimal.Decimal, error) {
	if s.earnErr != nil {
		return decimal.Zero, s.earnErr
	}
	s.earnedFor = append(s.earnedFor, userID)
	s.earnedBasis = append(s.earnedBasis, itemsTotal)
	return decimal.NewFromInt(1), nil
}

func (s *stubPointsService) EarnFromReferral(ctx context.Context, userID, referredUserID uuid.UUID) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (s *stubPointsService) EarnFromReview(ctx context.Context, userID, reviewID uuid.UUID) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (s *stubPointsService) EarnSignupBonus(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (s *stubPointsService) RedeemPointsWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, requestedPoints, maxDiscount decimal.Decimal) (*pointsModel.RedemptionResult, error) {
	return nil, pointsModel.ErrNoRedemptionRule
}

func (s *stubPointsService) AttachOrderReferenceWithTx(ctx context.Context, tx pgx.Tx, walletID, orderID uuid.UUID) error {
	return nil
}

func (s *stubPointsService) ExpireDuePoints(ctx context.Context, batchSize int) (int, error) {
	return 0, nil
}

func (s *stubPointsService) CreateRule(ctx context.Context, rule *pointsModel.PointRule) error {
	return nil
}

func (s *stubPointsService) UpdateRule(ctx context.Context, id uuid.UUID, req pointsModel.UpdatePointRuleRequest) (*pointsModel.PointRule, error) {
	return nil, pointsModel.ErrRuleNotFound
}

func (s *stubPointsService) ListRules(ctx context.Context) ([]pointsModel.PointRule, error) {
	return nil, nil
}

type escrowFixture struct {
	escrowRepo *fakeEscrowRepo
	walletRepo *fakeWalletRepo
	points     *stubPointsService
	svc        EscrowService
}

func newEscrowFixture(feeRate string) *escrowFixture {
	escrowRepo := newFakeEscrowRepo()
	walletRepo := newFakeWalletRepo()
	points := &stubPointsService{}
	walletSvc := walletService.NewWalletService(walletRepo)
	return &escrowFixture{
		escrowRepo: escrowRepo,
		walletRepo: walletRepo,
		points:     points,
		svc:        NewEscrowService(escrowRepo, walletSvc, points, decimal.RequireFromString(feeRate)),
	}
}

func TestLockFundsCarvesOutPlatformFee(t *testing.T) {
	f := newEscrowFixture("0.1")
	storeOrderID := uuid.New()

	escrow, err := f.svc.LockFundsWithTx(context.Background(), fakeTx{}, storeOrderID, uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, model.EscrowLocked, escrow.Status)
	assert.Equal(t, "100", escrow.Amount.String())
	assert.Equal(t, "10", escrow.PlatformFee.String())
	assert.Equal(t, "90", escrow.NetAmount.String())
	assert.False(t, escrow.LockedAt.IsZero())
}

func TestLockFundsRejectsNonPositiveAmount(t *testing.T) {
	f := newEscrowFixture("0.1")

	_, err := f.svc.LockFundsWithTx(context.Background(), fakeTx{}, uuid.New(), uuid.New(), uuid.New(), uuid.New(), decimal.Zero)
	assert.ErrorIs(t, err, model.ErrInvalidEscrowAmount)
}

func TestLockFundsIsExactlyOncePerStoreOrder(t *testing.T) {
	f := newEscrowFixture("0")
	storeOrderID := uuid.New()

	_, err := f.svc.LockFundsWithTx(context.Background(), fakeTx{}, storeOrderID, uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(50))
	require.NoError(t, err)

	_, err = f.svc.LockFundsWithTx(context.Background(), fakeTx{}, storeOrderID, uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(50))
	assert.ErrorIs(t, err, model.ErrEscrowAlreadyExists)
}

func TestReleaseCreditsSellerNetAndAwardsPoints(t *testing.T) {
	f := newEscrowFixture("0.1")
	storeOrderID := uuid.New()
	sellerID := uuid.New()
	buyerID := uuid.New()

	_, err := f.svc.LockFundsWithTx(context.Background(), fakeTx{}, storeOrderID, uuid.New(), sellerID, buyerID, decimal.NewFromInt(200))
	require.NoError(t, err)

	escrow, err := f.svc.ReleaseWithTx(context.Background(), fakeTx{}, storeOrderID)
	require.NoError(t, err)
	assert.Equal(t, model.EscrowReleased, escrow.Status)
	require.NotNil(t, escrow.ReleasedAt)

	// Seller wallet was created lazily and credited with the net.
	wallet := f.walletRepo.wallets[sellerID]
	require.NotNil(t, wallet)
	assert.Equal(t, "180", wallet.ShoppingBalance.String())

	// Buyer earned points on the gross amount.
	require.Len(t, f.points.earnedFor, 1)
	assert.Equal(t, buyerID, f.points.earnedFor[0])
	assert.Equal(t, "200", f.points.earnedBasis[0].String())
}

func TestReleaseIsExactlyOnce(t *testing.T) {
	f := newEscrowFixture("0")
	storeOrderID := uuid.New()
	sellerID := uuid.New()

	_, err := f.svc.LockFundsWithTx(context.Background(), fakeTx{}, storeOrderID, uuid.New(), sellerID, uuid.New(), decimal.NewFromInt(80))
	require.NoError(t, err)

	_, err = f.svc.ReleaseWithTx(context.Background(), fakeTx{}, storeOrderID)
	require.NoError(t, err)

	_, err = f.svc.ReleaseWithTx(context.Background(), fakeTx{}, storeOrderID)
	assert.ErrorIs(t, err, model.ErrEscrowNotLocked)

	// The seller was credited exactly once.
	assert.Equal(t, "80", f.walletRepo.wallets[sellerID].ShoppingBalance.String())
}

func TestReleaseSurvivesPointAwardFailure(t *testing.T) {
	f := newEscrowFixture("0")
	f.points.earnErr = errors.New("loyalty outage")
	storeOrderID := uuid.New()
	sellerID := uuid.New()

	_, err := f.svc.LockFundsWithTx(context.Background(), fakeTx{}, storeOrderID, uuid.New(), sellerID, uuid.New(), decimal.NewFromInt(60))
	require.NoError(t, err)

	rolledBack := false
	escrow, err := f.svc.ReleaseWithTx(context.Background(), fakeTx{rolledBack: &rolledBack}, storeOrderID)
	require.NoError(t, err)
	assert.Equal(t, model.EscrowReleased, escrow.Status)
	assert.Equal(t, "60", f.walletRepo.wallets[sellerID].ShoppingBalance.String())

	// Only the savepoint was rolled back.
	assert.True(t, rolledBack)
}

func TestRefundDoesNotCreditSeller(t *testing.T) {
	f := newEscrowFixture("0")
	storeOrderID := uuid.New()
	sellerID := uuid.New()

	_, err := f.svc.LockFundsWithTx(context.Background(), fakeTx{}, storeOrderID, uuid.New(), sellerID, uuid.New(), decimal.NewFromInt(70))
	require.NoError(t, err)

	escrow, err := f.svc.RefundWithTx(context.Background(), fakeTx{}, storeOrderID)
	require.NoError(t, err)
	assert.Equal(t, model.EscrowRefunded, escrow.Status)
	assert.NotContains(t, f.walletRepo.wallets, sellerID)

	// Only releases carry a release timestamp.
	assert.Nil(t, escrow.ReleasedAt)
	assert.Nil(t, f.escrowRepo.escrows[storeOrderID].ReleasedAt)

	// A refunded escrow can no longer be released.
	_, err = f.svc.ReleaseWithTx(context.Background(), fakeTx{}, storeOrderID)
	assert.ErrorIs(t, err, model.ErrEscrowNotLocked)
}

func TestLockedBalanceSums(t *testing.T) {
	f := newEscrowFixture("0")
	storeID := uuid.New()
	buyerID := uuid.New()

	first := uuid.New()
	_, err := f.svc.LockFundsWithTx(context.Background(), fakeTx{}, first, storeID, uuid.New(), buyerID, decimal.NewFromInt(30))
	require.NoError(t, err)
	_, err = f.svc.LockFundsWithTx(context.Background(), fakeTx{}, uuid.New(), storeID, uuid.New(), buyerID, decimal.NewFromInt(20))
	require.NoError(t, err)

	total, err := f.svc.GetLockedBalanceForStore(context.Background(), storeID)
	require.NoError(t, err)
	assert.Equal(t, "50", total.String())

	// Releasing one escrow drops it out of both sums.
	_, err = f.svc.ReleaseWithTx(context.Background(), fakeTx{}, first)
	require.NoError(t, err)

	total, err = f.svc.GetLockedBalanceForBuyer(context.Background(), buyerID)
	require.NoError(t, err)
	assert.Equal(t, "20", total.String())
}
