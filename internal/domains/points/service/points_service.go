package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"opticsmarket-backend/internal/domains/points/model"
	"opticsmarket-backend/internal/domains/points/repository"
	walletModel "opticsmarket-backend/internal/domains/wallet/model"
	walletRepo "opticsmarket-backend/internal/domains/wallet/repository"
	"opticsmarket-backend/pkg/cache"
	"opticsmarket-backend/pkg/logger"
)

const (
	ruleCacheKeyPrefix = "points:rule:"
	ruleCacheTTL       = 5 * time.Minute
)

type PointsService interface {
	// GetBalance returns the user's loyalty balance, creating the
	// wallet lazily. Never errors for a valid user without a wallet.
	GetBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)

	// GetAvailablePoints subtracts earn entries that are past expiry
	// but not yet swept, floored at zero. Kept in one place because the
	// subtraction is a known accounting approximation.
	GetAvailablePoints(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)

	ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.PointTransaction, error)

	// EarnFromPurchaseWithTx grants purchase points inside the caller's
	// transaction. A missing purchase rule or a spend below the rule's
	// threshold is a silent no-op.
	EarnFromPurchaseWithTx(ctx context.Context, tx pgx.Tx, userID, orderID uuid.UUID, itemsTotal decimal.Decimal) (decimal.Decimal, error)

	EarnFromReferral(ctx context.Context, userID, referredUserID uuid.UUID) (decimal.Decimal, error)
	EarnFromReview(ctx context.Context, userID, reviewID uuid.UUID) (decimal.Decimal, error)
	EarnSignupBonus(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)

	// RedeemPointsWithTx spends points inside the checkout transaction.
	// The redemption rule is required. The discount is clamped by the
	// rule's per-order cap and by maxDiscount, with the points spent
	// recomputed from the clamped discount.
	RedeemPointsWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, requestedPoints, maxDiscount decimal.Decimal) (*model.RedemptionResult, error)

	// AttachOrderReferenceWithTx links the wallet's newest unreferenced
	// redemption to an order. Callers treat failures as best-effort.
	AttachOrderReferenceWithTx(ctx context.Context, tx pgx.Tx, walletID, orderID uuid.UUID) error

	// ExpireDuePoints sweeps due earn entries from the worker, each in
	// its own transaction. Deductions are clamped to the current
	// balance since redemptions are not attributed to earn lots.
	ExpireDuePoints(ctx context.Context, batchSize int) (int, error)

	CreateRule(ctx context.Context, rule *model.PointRule) error
	UpdateRule(ctx context.Context, id uuid.UUID, req model.UpdatePointRuleRequest) (*model.PointRule, error)
	ListRules(ctx context.Context) ([]model.PointRule, error)
}

type pointsService struct {
	pointsRepo repository.PointsRepository
	walletRepo walletRepo.WalletRepository
	cache      cache.Cache
}

func NewPointsService(pointsRepo repository.PointsRepository, walletRepository walletRepo.WalletRepository, c cache.Cache) PointsService {
	return &pointsService{
		pointsRepo: pointsRepo,
		walletRepo: walletRepository,
		cache:      c,
	}
}

// =====================================================
// BALANCE
// =====================================================

func (s *pointsService) GetBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	wallet, err := s.getOrCreateWallet(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return wallet.LoyaltyPoints, nil
}

func (s *pointsService) GetAvailablePoints(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	wallet, err := s.getOrCreateWallet(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	expired, err := s.pointsRepo.SumExpiredUnprocessedEarns(ctx, wallet.ID, time.Now())
	if err != nil {
		return decimal.Zero, err
	}

	available := wallet.LoyaltyPoints.Sub(expired)
	if available.IsNegative() {
		available = decimal.Zero
	}

	return available, nil
}

func (s *pointsService) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.PointTransaction, error) {
	wallet, err := s.getOrCreateWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.pointsRepo.ListTransactions(ctx, wallet.ID, limit, offset)
}

// =====================================================
// EARNING
// =====================================================

func (s *pointsService) EarnFromPurchaseWithTx(ctx context.Context, tx pgx.Tx, userID, orderID uuid.UUID, itemsTotal decimal.Decimal) (decimal.Decimal, error) {
	rule, err := s.getActiveRule(ctx, model.RulePurchase)
	if err != nil {
		if err == model.ErrRuleNotFound {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}

	points := rule.PurchasePoints(itemsTotal)
	if !points.IsPositive() {
		return decimal.Zero, nil
	}

	wallet, err := s.lockOrCreateWalletWithTx(ctx, tx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	entry := &model.PointTransaction{
		ID:            uuid.New(),
		WalletID:      wallet.ID,
		Type:          model.PointsEarn,
		Source:        model.RulePurchase,
		Points:        points,
		BalanceAfter:  wallet.LoyaltyPoints.Add(points),
		ReferenceType: "store_order",
		ReferenceID:   &orderID,
		Description:   "Points earned from purchase",
	}
	if rule.ExpiryDays > 0 {
		expiresAt := time.Now().AddDate(0, 0, rule.ExpiryDays)
		entry.ExpiresAt = &expiresAt
	}

	if err := s.applyEntryWithTx(ctx, tx, entry); err != nil {
		return decimal.Zero, err
	}

	logger.Info("Points earned from purchase", map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
		"points":   points.String(),
	})

	return points, nil
}

func (s *pointsService) EarnFromReferral(ctx context.Context, userID, referredUserID uuid.UUID) (decimal.Decimal, error) {
	return s.earnFixed(ctx, userID, model.RuleReferral, "user", &referredUserID, "Referral bonus")
}

func (s *pointsService) EarnFromReview(ctx context.Context, userID, reviewID uuid.UUID) (decimal.Decimal, error) {
	return s.earnFixed(ctx, userID, model.RuleReview, "review", &reviewID, "Review bonus")
}

func (s *pointsService) EarnSignupBonus(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	return s.earnFixed(ctx, userID, model.RuleSignup, "user", nil, "Signup bonus")
}

// earnFixed handles the fixed-amount rule types in their own
// transaction. A missing rule is a silent no-op.
func (s *pointsService) earnFixed(ctx context.Context, userID uuid.UUID, ruleType model.PointRuleType, refType string, refID *uuid.UUID, description string) (decimal.Decimal, error) {
	rule, err := s.getActiveRule(ctx, ruleType)
	if err != nil {
		if err == model.ErrRuleNotFound {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}

	if !rule.FixedPoints.IsPositive() {
		return decimal.Zero, nil
	}

	tx, err := s.pointsRepo.BeginTx(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	defer func() {
		_ = s.pointsRepo.RollbackTx(ctx, tx)
	}()

	wallet, err := s.lockOrCreateWalletWithTx(ctx, tx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	entry := &model.PointTransaction{
		ID:            uuid.New(),
		WalletID:      wallet.ID,
		Type:          model.PointsEarn,
		Source:        ruleType,
		Points:        rule.FixedPoints,
		BalanceAfter:  wallet.LoyaltyPoints.Add(rule.FixedPoints),
		ReferenceType: refType,
		ReferenceID:   refID,
		Description:   description,
	}
	if rule.ExpiryDays > 0 {
		expiresAt := time.Now().AddDate(0, 0, rule.ExpiryDays)
		entry.ExpiresAt = &expiresAt
	}

	if err := s.applyEntryWithTx(ctx, tx, entry); err != nil {
		return decimal.Zero, err
	}

	if err := s.pointsRepo.CommitTx(ctx, tx); err != nil {
		return decimal.Zero, err
	}

	return rule.FixedPoints, nil
}

// =====================================================
// REDEMPTION
// =====================================================

func (s *pointsService) RedeemPointsWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, requestedPoints, maxDiscount decimal.Decimal) (*model.RedemptionResult, error) {
	if !requestedPoints.IsPositive() {
		return nil, model.ErrInvalidPointsAmount
	}

	rule, err := s.getActiveRule(ctx, model.RuleRedemption)
	if err != nil {
		if err == model.ErrRuleNotFound {
			return nil, model.ErrNoRedemptionRule
		}
		return nil, err
	}

	if rule.MinPointsToRedeem != nil && requestedPoints.LessThan(*rule.MinPointsToRedeem) {
		return nil, model.ErrBelowMinRedemption
	}

	wallet, err := s.lockOrCreateWalletWithTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	// The balance must cover the full request, not just the clamped
	// spend. Asking for more points than the wallet holds fails even
	// when a per-order cap would have shrunk the charge under the
	// balance.
	if wallet.LoyaltyPoints.LessThan(requestedPoints) {
		return nil, model.ErrInsufficientPoints
	}

	discount := requestedPoints.DivRound(rule.Rate, 2)
	if rule.MaxRedemptionPerOrder != nil && discount.GreaterThan(*rule.MaxRedemptionPerOrder) {
		discount = *rule.MaxRedemptionPerOrder
	}
	if discount.GreaterThan(maxDiscount) {
		discount = maxDiscount
	}

	// Clamping changes the discount, so recompute the points actually
	// spent instead of charging for discount the buyer never got.
	points := discount.Mul(rule.Rate).Round(2)
	if !points.IsPositive() {
		return &model.RedemptionResult{
			PointsUsed:     decimal.Zero,
			DiscountAmount: decimal.Zero,
		}, nil
	}

	newBalance := wallet.LoyaltyPoints.Sub(points)
	entry := &model.PointTransaction{
		ID:            uuid.New(),
		WalletID:      wallet.ID,
		Type:          model.PointsRedeem,
		Source:        model.RuleRedemption,
		Points:        points.Neg(),
		BalanceAfter:  newBalance,
		ReferenceType: "order",
		Description:   "Points redeemed at checkout",
	}

	if err := s.applyEntryWithTx(ctx, tx, entry); err != nil {
		return nil, err
	}

	return &model.RedemptionResult{
		WalletID:       wallet.ID,
		PointsUsed:     points,
		DiscountAmount: discount,
		NewBalance:     newBalance,
		TransactionID:  entry.ID,
	}, nil
}

func (s *pointsService) AttachOrderReferenceWithTx(ctx context.Context, tx pgx.Tx, walletID, orderID uuid.UUID) error {
	return s.pointsRepo.AttachOrderReferenceWithTx(ctx, tx, walletID, orderID)
}

// =====================================================
// EXPIRY
// =====================================================

func (s *pointsService) ExpireDuePoints(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}

	due, err := s.pointsRepo.ListDueEarnTransactions(ctx, time.Now(), batchSize)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, entry := range due {
		if err := s.expireOne(ctx, entry); err != nil {
			logger.Error("Failed to expire point transaction", err)
			continue
		}
		expired++
	}

	return expired, nil
}

func (s *pointsService) expireOne(ctx context.Context, entry model.PointTransaction) error {
	tx, err := s.pointsRepo.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = s.pointsRepo.RollbackTx(ctx, tx)
	}()

	wallet, err := s.walletRepo.GetByIDForUpdateWithTx(ctx, tx, entry.WalletID)
	if err != nil {
		return err
	}

	if err := s.pointsRepo.MarkTransactionExpiredWithTx(ctx, tx, entry.ID); err != nil {
		return err
	}

	toExpire := entry.Points
	if wallet.LoyaltyPoints.LessThan(toExpire) {
		toExpire = wallet.LoyaltyPoints
	}

	if toExpire.IsPositive() {
		expiry := &model.PointTransaction{
			ID:           uuid.New(),
			WalletID:     wallet.ID,
			Type:         model.PointsExpire,
			Source:       entry.Source,
			Points:       toExpire.Neg(),
			BalanceAfter: wallet.LoyaltyPoints.Sub(toExpire),
			Description:  "Points expired",
		}
		if err := s.applyEntryWithTx(ctx, tx, expiry); err != nil {
			return err
		}
	}

	return s.pointsRepo.CommitTx(ctx, tx)
}

// =====================================================
// RULES
// =====================================================

func (s *pointsService) CreateRule(ctx context.Context, rule *model.PointRule) error {
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	if err := s.pointsRepo.CreateRule(ctx, rule); err != nil {
		return err
	}
	s.invalidateRuleCache(ctx, rule.Type)
	return nil
}

func (s *pointsService) UpdateRule(ctx context.Context, id uuid.UUID, req model.UpdatePointRuleRequest) (*model.PointRule, error) {
	rule, err := s.pointsRepo.GetRuleByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Rate != nil {
		rule.Rate = *req.Rate
	}
	if req.FixedPoints != nil {
		rule.FixedPoints = *req.FixedPoints
	}
	if req.MinPurchaseAmount != nil {
		rule.MinPurchaseAmount = req.MinPurchaseAmount
	}
	if req.MaxPointsPerOrder != nil {
		rule.MaxPointsPerOrder = req.MaxPointsPerOrder
	}
	if req.MinPointsToRedeem != nil {
		rule.MinPointsToRedeem = req.MinPointsToRedeem
	}
	if req.MaxRedemptionPerOrder != nil {
		rule.MaxRedemptionPerOrder = req.MaxRedemptionPerOrder
	}
	if req.ExpiryDays != nil {
		rule.ExpiryDays = *req.ExpiryDays
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	if err := s.pointsRepo.UpdateRule(ctx, rule); err != nil {
		return nil, err
	}
	s.invalidateRuleCache(ctx, rule.Type)
	return rule, nil
}

func (s *pointsService) ListRules(ctx context.Context) ([]model.PointRule, error) {
	return s.pointsRepo.ListRules(ctx)
}

// getActiveRule reads through the cache. Cache failures fall back to
// the database and are logged at debug level only.
func (s *pointsService) getActiveRule(ctx context.Context, ruleType model.PointRuleType) (*model.PointRule, error) {
	key := ruleCacheKeyPrefix + string(ruleType)

	if s.cache != nil {
		var cached model.PointRule
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			logger.Debug("Point rule cache read failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		} else if found {
			return &cached, nil
		}
	}

	rule, err := s.pointsRepo.GetActiveRuleByType(ctx, ruleType)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, rule, ruleCacheTTL); err != nil {
			logger.Debug("Point rule cache write failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}

	return rule, nil
}

func (s *pointsService) invalidateRuleCache(ctx context.Context, ruleType model.PointRuleType) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, ruleCacheKeyPrefix+string(ruleType)); err != nil {
		logger.Debug("Point rule cache invalidation failed", map[string]interface{}{
			"type":  string(ruleType),
			"error": err.Error(),
		})
	}
}

// =====================================================
// HELPERS
// =====================================================

func (s *pointsService) getOrCreateWallet(ctx context.Context, userID uuid.UUID) (*walletModel.Wallet, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if err != walletModel.ErrWalletNotFound {
		return nil, err
	}

	wallet = walletModel.NewWallet(userID)
	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		return nil, err
	}

	return wallet, nil
}

func (s *pointsService) lockOrCreateWalletWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*walletModel.Wallet, error) {
	wallet, err := s.walletRepo.GetByUserIDForUpdateWithTx(ctx, tx, userID)
	if err == nil {
		return wallet, nil
	}
	if err != walletModel.ErrWalletNotFound {
		return nil, err
	}

	wallet = walletModel.NewWallet(userID)
	if err := s.walletRepo.CreateWithTx(ctx, tx, wallet); err != nil {
		return nil, err
	}

	return wallet, nil
}

// applyEntryWithTx writes the ledger row and applies its delta to the
// wallet's loyalty balance in the same transaction.
func (s *pointsService) applyEntryWithTx(ctx context.Context, tx pgx.Tx, entry *model.PointTransaction) error {
	if err := s.walletRepo.AdjustLoyaltyPointsWithTx(ctx, tx, entry.WalletID, entry.Points); err != nil {
		return fmt.Errorf("adjust loyalty points: %w", err)
	}
	if err := s.pointsRepo.InsertTransactionWithTx(ctx, tx, entry); err != nil {
		return fmt.Errorf("insert point transaction: %w", err)
	}
	return nil
}
