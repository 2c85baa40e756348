package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"opticsmarket-backend/internal/domains/coupon/model"
	"opticsmarket-backend/internal/domains/coupon/repository"
	"opticsmarket-backend/pkg/logger"
)

type CouponService interface {
	// ValidateForCheckoutWithTx locks the coupon row, runs the ordered
	// eligibility checks, and returns the coupon with the discount it
	// grants on subtotal. The first failing check aborts validation.
	ValidateForCheckoutWithTx(ctx context.Context, tx pgx.Tx, code string, userID uuid.UUID, subtotal decimal.Decimal) (*model.Coupon, decimal.Decimal, error)

	// RedeemWithTx records a usage and bumps the counter. Runs inside
	// the checkout transaction, after the coupon row was locked.
	RedeemWithTx(ctx context.Context, tx pgx.Tx, coupon *model.Coupon, userID, orderID uuid.UUID, discount decimal.Decimal) error

	CreateCoupon(ctx context.Context, req model.CreateCouponRequest) (*model.Coupon, error)
	GetCoupon(ctx context.Context, code string) (*model.Coupon, error)
	ListCoupons(ctx context.Context, limit, offset int) ([]model.Coupon, error)
	UpdateCoupon(ctx context.Context, id uuid.UUID, req model.UpdateCouponRequest) (*model.Coupon, error)
}

type couponService struct {
	couponRepo repository.CouponRepository
}

func NewCouponService(couponRepo repository.CouponRepository) CouponService {
	return &couponService{
		couponRepo: couponRepo,
	}
}

func (s *couponService) ValidateForCheckoutWithTx(ctx context.Context, tx pgx.Tx, code string, userID uuid.UUID, subtotal decimal.Decimal) (*model.Coupon, decimal.Decimal, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	coupon, err := s.couponRepo.GetByCodeForUpdateWithTx(ctx, tx, code)
	if err != nil {
		return nil, decimal.Zero, err
	}

	now := time.Now()

	if !coupon.IsActive {
		return nil, decimal.Zero, model.ErrCouponInactive
	}
	if !coupon.IsStarted(now) {
		return nil, decimal.Zero, model.ErrCouponNotStarted
	}
	if coupon.IsExpired(now) {
		return nil, decimal.Zero, model.ErrCouponExpired
	}
	if coupon.MinOrderAmount != nil && subtotal.LessThan(*coupon.MinOrderAmount) {
		return nil, decimal.Zero, model.ErrCouponMinOrderNotMet
	}
	if coupon.UsageLimit != nil && coupon.UsageCount >= *coupon.UsageLimit {
		return nil, decimal.Zero, model.ErrCouponUsageLimit
	}
	if coupon.PerUserLimit != nil {
		used, err := s.couponRepo.CountUsagesByUserWithTx(ctx, tx, coupon.ID, userID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if used >= *coupon.PerUserLimit {
			return nil, decimal.Zero, model.ErrCouponUserLimit
		}
	}

	discount := coupon.CalculateDiscount(subtotal)

	return coupon, discount, nil
}

func (s *couponService) RedeemWithTx(ctx context.Context, tx pgx.Tx, coupon *model.Coupon, userID, orderID uuid.UUID, discount decimal.Decimal) error {
	usage := &model.CouponUsage{
		ID:       uuid.New(),
		CouponID: coupon.ID,
		UserID:   userID,
		OrderID:  orderID,
		Discount: discount,
	}

	if err := s.couponRepo.RecordUsageWithTx(ctx, tx, usage); err != nil {
		return err
	}

	logger.Info("Coupon redeemed", map[string]interface{}{
		"coupon_code": coupon.Code,
		"user_id":     userID,
		"order_id":    orderID,
		"discount":    discount.String(),
	})

	return nil
}

func (s *couponService) CreateCoupon(ctx context.Context, req model.CreateCouponRequest) (*model.Coupon, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.DiscountType == model.DiscountPercentage && req.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		return nil, model.ErrInvalidDiscountValue
	}

	coupon := &model.Coupon{
		ID:             uuid.New(),
		Code:           strings.ToUpper(strings.TrimSpace(req.Code)),
		DiscountType:   req.DiscountType,
		DiscountValue:  req.DiscountValue,
		MinOrderAmount: req.MinOrderAmount,
		UsageLimit:     req.UsageLimit,
		PerUserLimit:   req.PerUserLimit,
		IsActive:       true,
		StartsAt:       req.StartsAt,
		ExpiresAt:      req.ExpiresAt,
	}

	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		return nil, err
	}

	return coupon, nil
}

func (s *couponService) GetCoupon(ctx context.Context, code string) (*model.Coupon, error) {
	return s.couponRepo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
}

func (s *couponService) ListCoupons(ctx context.Context, limit, offset int) ([]model.Coupon, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.couponRepo.List(ctx, limit, offset)
}

func (s *couponService) UpdateCoupon(ctx context.Context, id uuid.UUID, req model.UpdateCouponRequest) (*model.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}
	if req.ExpiresAt != nil {
		coupon.ExpiresAt = req.ExpiresAt
	}

	if err := s.couponRepo.Update(ctx, coupon); err != nil {
		return nil, err
	}

	return coupon, nil
}
