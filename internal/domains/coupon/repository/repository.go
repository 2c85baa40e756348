package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"opticsmarket-backend/internal/domains/coupon/model"
)

type CouponRepository interface {
	Create(ctx context.Context, coupon *model.Coupon) error
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error)
	List(ctx context.Context, limit, offset int) ([]model.Coupon, error)
	Update(ctx context.Context, coupon *model.Coupon) error

	// GetByCodeForUpdateWithTx locks the coupon row so concurrent
	// checkouts cannot both pass the usage limit check.
	GetByCodeForUpdateWithTx(ctx context.Context, tx pgx.Tx, code string) (*model.Coupon, error)
	CountUsagesByUserWithTx(ctx context.Context, tx pgx.Tx, couponID, userID uuid.UUID) (int, error)
	RecordUsageWithTx(ctx context.Context, tx pgx.Tx, usage *model.CouponUsage) error
}
