package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"opticsmarket-backend/internal/domains/order/model"
)

type postgresOrderRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &postgresOrderRepository{
		pool: pool,
	}
}

func (r *postgresOrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

func (r *postgresOrderRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	return tx.Commit(ctx)
}

func (r *postgresOrderRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	return tx.Rollback(ctx)
}

// =====================================================
// ORDERS
// =====================================================

const orderColumns = `
	id, buyer_id, order_number, address_id, payment_method, payment_status,
	items_total, shipping_total, discount_total, grand_total, metadata,
	created_at, updated_at
`

func scanOrder(row pgx.Row) (*model.Order, error) {
	order := &model.Order{}
	err := row.Scan(
		&order.ID,
		&order.BuyerID,
		&order.OrderNumber,
		&order.AddressID,
		&order.PaymentMethod,
		&order.PaymentStatus,
		&order.ItemsTotal,
		&order.ShippingTotal,
		&order.DiscountTotal,
		&order.GrandTotal,
		&order.Metadata,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *postgresOrderRepository) CreateOrderWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (
			id, buyer_id, order_number, address_id, payment_method, payment_status,
			items_total, shipping_total, discount_total, grand_total, metadata
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		order.ID,
		order.BuyerID,
		order.OrderNumber,
		order.AddressID,
		order.PaymentMethod,
		order.PaymentStatus,
		order.ItemsTotal,
		order.ShippingTotal,
		order.DiscountTotal,
		order.GrandTotal,
		order.Metadata,
	).Scan(&order.CreatedAt, &order.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

func (r *postgresOrderRepository) UpdateOrderTotalsWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		UPDATE orders
		SET items_total = $1, shipping_total = $2, discount_total = $3,
		    grand_total = $4, metadata = $5, updated_at = NOW()
		WHERE id = $6
	`

	tag, err := tx.Exec(ctx, query,
		order.ItemsTotal,
		order.ShippingTotal,
		order.DiscountTotal,
		order.GrandTotal,
		order.Metadata,
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update order totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}

	return nil
}

func (r *postgresOrderRepository) UpdateOrderPaymentStatusWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, status model.PaymentStatus) error {
	query := `
		UPDATE orders
		SET payment_status = $1, updated_at = NOW()
		WHERE id = $2
	`

	tag, err := tx.Exec(ctx, query, status, orderID)
	if err != nil {
		return fmt.Errorf("failed to update order payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}

	return nil
}

func (r *postgresOrderRepository) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)

	order, err := scanOrder(r.pool.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return order, nil
}

func (r *postgresOrderRepository) GetOrderByIDWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (*model.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)

	order, err := scanOrder(tx.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return order, nil
}

func (r *postgresOrderRepository) GetOrderByIDForUpdateWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (*model.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1 FOR UPDATE`, orderColumns)

	order, err := scanOrder(tx.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}

	return order, nil
}

func (r *postgresOrderRepository) ListOrdersByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]model.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE buyer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, orderColumns)

	rows, err := r.pool.Query(ctx, query, buyerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	return orders, nil
}

// =====================================================
// STORE ORDERS
// =====================================================

const storeOrderColumns = `
	id, order_id, store_id, status, subtotal, delivery_fee, total,
	delivery_code, delivery_method, estimated_delivery_date, notes,
	rejection_reason, accepted_at, paid_at, out_for_delivery_at,
	delivered_at, created_at, updated_at
`

func scanStoreOrder(row pgx.Row) (*model.StoreOrder, error) {
	so := &model.StoreOrder{}
	err := row.Scan(
		&so.ID,
		&so.OrderID,
		&so.StoreID,
		&so.Status,
		&so.Subtotal,
		&so.DeliveryFee,
		&so.Total,
		&so.DeliveryCode,
		&so.DeliveryMethod,
		&so.EstimatedDeliveryDate,
		&so.Notes,
		&so.RejectionReason,
		&so.AcceptedAt,
		&so.PaidAt,
		&so.OutForDeliveryAt,
		&so.DeliveredAt,
		&so.CreatedAt,
		&so.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return so, nil
}

func (r *postgresOrderRepository) CreateStoreOrderWithTx(ctx context.Context, tx pgx.Tx, storeOrder *model.StoreOrder) error {
	query := `
		INSERT INTO store_orders (
			id, order_id, store_id, status, subtotal, delivery_fee, total,
			delivery_code, delivery_method, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		storeOrder.ID,
		storeOrder.OrderID,
		storeOrder.StoreID,
		storeOrder.Status,
		storeOrder.Subtotal,
		storeOrder.DeliveryFee,
		storeOrder.Total,
		storeOrder.DeliveryCode,
		storeOrder.DeliveryMethod,
		storeOrder.Notes,
	).Scan(&storeOrder.CreatedAt, &storeOrder.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create store order: %w", err)
	}

	return nil
}

func (r *postgresOrderRepository) GetStoreOrderByIDForUpdateWithTx(ctx context.Context, tx pgx.Tx, storeOrderID uuid.UUID) (*model.StoreOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM store_orders WHERE id = $1 FOR UPDATE`, storeOrderColumns)

	so, err := scanStoreOrder(tx.QueryRow(ctx, query, storeOrderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrStoreOrderNotFound
		}
		return nil, fmt.Errorf("failed to lock store order: %w", err)
	}

	return so, nil
}

func (r *postgresOrderRepository) UpdateStoreOrderWithTx(ctx context.Context, tx pgx.Tx, storeOrder *model.StoreOrder) error {
	query := `
		UPDATE store_orders
		SET status = $1, delivery_fee = $2, total = $3, delivery_method = $4,
		    estimated_delivery_date = $5, notes = $6, rejection_reason = $7,
		    accepted_at = $8, paid_at = $9, out_for_delivery_at = $10,
		    delivered_at = $11, updated_at = NOW()
		WHERE id = $12
	`

	tag, err := tx.Exec(ctx, query,
		storeOrder.Status,
		storeOrder.DeliveryFee,
		storeOrder.Total,
		storeOrder.DeliveryMethod,
		storeOrder.EstimatedDeliveryDate,
		storeOrder.Notes,
		storeOrder.RejectionReason,
		storeOrder.AcceptedAt,
		storeOrder.PaidAt,
		storeOrder.OutForDeliveryAt,
		storeOrder.DeliveredAt,
		storeOrder.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update store order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrStoreOrderNotFound
	}

	return nil
}

func (r *postgresOrderRepository) CountSiblingsAwaitingPaymentWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*) FROM store_orders
		WHERE order_id = $1 AND status IN ('pending', 'accepted')
	`

	var count int
	if err := tx.QueryRow(ctx, query, orderID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unpaid store orders: %w", err)
	}

	return count, nil
}

func (r *postgresOrderRepository) GetStoreOrderByID(ctx context.Context, storeOrderID uuid.UUID) (*model.StoreOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM store_orders WHERE id = $1`, storeOrderColumns)

	so, err := scanStoreOrder(r.pool.QueryRow(ctx, query, storeOrderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrStoreOrderNotFound
		}
		return nil, fmt.Errorf("failed to get store order: %w", err)
	}

	return so, nil
}

func (r *postgresOrderRepository) ListStoreOrdersByOrder(ctx context.Context, orderID uuid.UUID) ([]model.StoreOrder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM store_orders
		WHERE order_id = $1
		ORDER BY created_at ASC
	`, storeOrderColumns)

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list store orders: %w", err)
	}
	defer rows.Close()

	return collectStoreOrders(rows)
}

func (r *postgresOrderRepository) ListStoreOrdersByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]model.StoreOrder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM store_orders
		WHERE store_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, storeOrderColumns)

	rows, err := r.pool.Query(ctx, query, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list store orders: %w", err)
	}
	defer rows.Close()

	return collectStoreOrders(rows)
}

func collectStoreOrders(rows pgx.Rows) ([]model.StoreOrder, error) {
	var storeOrders []model.StoreOrder
	for rows.Next() {
		so, err := scanStoreOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan store order: %w", err)
		}
		storeOrders = append(storeOrders, *so)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate store orders: %w", err)
	}

	return storeOrders, nil
}

// =====================================================
// ORDER ITEMS
// =====================================================

const orderItemColumns = `
	id, store_order_id, product_id, product_name, sku, variant, image_url,
	unit_price, quantity, line_total, lens_configuration, prescription,
	created_at
`

func (r *postgresOrderRepository) CreateOrderItemsWithTx(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	query := `
		INSERT INTO order_items (
			id, store_order_id, product_id, product_name, sku, variant,
			image_url, unit_price, quantity, line_total, lens_configuration,
			prescription
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query,
			item.ID,
			item.StoreOrderID,
			item.ProductID,
			item.ProductName,
			item.SKU,
			item.Variant,
			item.ImageURL,
			item.UnitPrice,
			item.Quantity,
			item.LineTotal,
			item.LensConfiguration,
			item.Prescription,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for range items {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	return nil
}

func (r *postgresOrderRepository) ListItemsByStoreOrder(ctx context.Context, storeOrderID uuid.UUID) ([]model.OrderItem, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM order_items
		WHERE store_order_id = $1
		ORDER BY created_at ASC
	`, orderItemColumns)

	rows, err := r.pool.Query(ctx, query, storeOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		item := model.OrderItem{}
		err := rows.Scan(
			&item.ID,
			&item.StoreOrderID,
			&item.ProductID,
			&item.ProductName,
			&item.SKU,
			&item.Variant,
			&item.ImageURL,
			&item.UnitPrice,
			&item.Quantity,
			&item.LineTotal,
			&item.LensConfiguration,
			&item.Prescription,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order items: %w", err)
	}

	return items, nil
}
