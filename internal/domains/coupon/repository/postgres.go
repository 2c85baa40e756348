package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"opticsmarket-backend/internal/domains/coupon/model"
)

type postgresCouponRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCouponRepository(pool *pgxpool.Pool) CouponRepository {
	return &postgresCouponRepository{
		pool: pool,
	}
}

const couponColumns = `
	id, code, discount_type, discount_value, min_order_amount,
	usage_limit, per_user_limit, usage_count, is_active,
	starts_at, expires_at, created_at, updated_at
`

func scanCoupon(row pgx.Row) (*model.Coupon, error) {
	coupon := &model.Coupon{}
	err := row.Scan(
		&coupon.ID,
		&coupon.Code,
		&coupon.DiscountType,
		&coupon.DiscountValue,
		&coupon.MinOrderAmount,
		&coupon.UsageLimit,
		&coupon.PerUserLimit,
		&coupon.UsageCount,
		&coupon.IsActive,
		&coupon.StartsAt,
		&coupon.ExpiresAt,
		&coupon.CreatedAt,
		&coupon.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return coupon, nil
}

func (r *postgresCouponRepository) Create(ctx context.Context, coupon *model.Coupon) error {
	query := `
		INSERT INTO coupons (
			id, code, discount_type, discount_value, min_order_amount,
			usage_limit, per_user_limit, usage_count, is_active, starts_at, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		coupon.ID,
		coupon.Code,
		coupon.DiscountType,
		coupon.DiscountValue,
		coupon.MinOrderAmount,
		coupon.UsageLimit,
		coupon.PerUserLimit,
		coupon.UsageCount,
		coupon.IsActive,
		coupon.StartsAt,
		coupon.ExpiresAt,
	).Scan(&coupon.CreatedAt, &coupon.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrCouponCodeExists
		}
		return fmt.Errorf("failed to create coupon: %w", err)
	}

	return nil
}

func (r *postgresCouponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := fmt.Sprintf(`SELECT %s FROM coupons WHERE code = $1`, couponColumns)

	coupon, err := scanCoupon(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get coupon by code: %w", err)
	}

	return coupon, nil
}

func (r *postgresCouponRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	query := fmt.Sprintf(`SELECT %s FROM coupons WHERE id = $1`, couponColumns)

	coupon, err := scanCoupon(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}

	return coupon, nil
}

func (r *postgresCouponRepository) List(ctx context.Context, limit, offset int) ([]model.Coupon, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM coupons
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, couponColumns)

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	defer rows.Close()

	var coupons []model.Coupon
	for rows.Next() {
		coupon, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan coupon: %w", err)
		}
		coupons = append(coupons, *coupon)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate coupons: %w", err)
	}

	return coupons, nil
}

func (r *postgresCouponRepository) Update(ctx context.Context, coupon *model.Coupon) error {
	query := `
		UPDATE coupons
		SET is_active = $1, expires_at = $2, updated_at = NOW()
		WHERE id = $3
	`

	tag, err := r.pool.Exec(ctx, query, coupon.IsActive, coupon.ExpiresAt, coupon.ID)
	if err != nil {
		return fmt.Errorf("failed to update coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCouponNotFound
	}

	return nil
}

func (r *postgresCouponRepository) GetByCodeForUpdateWithTx(ctx context.Context, tx pgx.Tx, code string) (*model.Coupon, error) {
	query := fmt.Sprintf(`SELECT %s FROM coupons WHERE code = $1 FOR UPDATE`, couponColumns)

	coupon, err := scanCoupon(tx.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to lock coupon: %w", err)
	}

	return coupon, nil
}

func (r *postgresCouponRepository) CountUsagesByUserWithTx(ctx context.Context, tx pgx.Tx, couponID, userID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM coupon_usages WHERE coupon_id = $1 AND user_id = $2`

	var count int
	if err := tx.QueryRow(ctx, query, couponID, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count coupon usages: %w", err)
	}

	return count, nil
}

func (r *postgresCouponRepository) RecordUsageWithTx(ctx context.Context, tx pgx.Tx, usage *model.CouponUsage) error {
	insertQuery := `
		INSERT INTO coupon_usages (id, coupon_id, user_id, order_id, discount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := tx.QueryRow(ctx, insertQuery,
		usage.ID,
		usage.CouponID,
		usage.UserID,
		usage.OrderID,
		usage.Discount,
	).Scan(&usage.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to record coupon usage: %w", err)
	}

	updateQuery := `
		UPDATE coupons
		SET usage_count = usage_count + 1, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := tx.Exec(ctx, updateQuery, usage.CouponID); err != nil {
		return fmt.Errorf("failed to increment coupon usage count: %w", err)
	}

	return nil
}
