package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"opticsmarket-backend/internal/domains/order/model"
)

// OrderRepository persists orders, store orders and item snapshots.
// Checkout and every status transition run inside a transaction owned
// by the service, so mutations are exposed as WithTx variants.
type OrderRepository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
	CommitTx(ctx context.Context, tx pgx.Tx) error
	RollbackTx(ctx context.Context, tx pgx.Tx) error

	CreateOrderWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error
	UpdateOrderTotalsWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error
	UpdateOrderPaymentStatusWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, status model.PaymentStatus) error

	CreateStoreOrderWithTx(ctx context.Context, tx pgx.Tx, storeOrder *model.StoreOrder) error
	CreateOrderItemsWithTx(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetStoreOrderByIDForUpdateWithTx locks the store order row so
	// concurrent transitions against the same store order serialize.
	GetStoreOrderByIDForUpdateWithTx(ctx context.Context, tx pgx.Tx, storeOrderID uuid.UUID) (*model.StoreOrder, error)
	UpdateStoreOrderWithTx(ctx context.Context, tx pgx.Tx, storeOrder *model.StoreOrder) error

	// CountSiblingsAwaitingPaymentWithTx counts sibling store orders
	// still in a pre-payment state. Zero means the parent order is
	// fully paid. Rejected siblings do not block settlement.
	CountSiblingsAwaitingPaymentWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (int, error)

	GetOrderByID(ctx context.Context, orderID uuid.UUID) (*model.Order, error)
	GetOrderByIDWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (*model.Order, error)

	// GetOrderByIDForUpdateWithTx locks the parent order row. Payment
	// callbacks take this lock before counting siblings so two final
	// siblings paying at once serialize and the second one sees the
	// first one's update.
	GetOrderByIDForUpdateWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (*model.Order, error)
	GetStoreOrderByID(ctx context.Context, storeOrderID uuid.UUID) (*model.StoreOrder, error)
	ListStoreOrdersByOrder(ctx context.Context, orderID uuid.UUID) ([]model.StoreOrder, error)
	ListItemsByStoreOrder(ctx context.Context, storeOrderID uuid.UUID) ([]model.OrderItem, error)

	ListOrdersByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]model.Order, error)
	ListStoreOrdersByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]model.StoreOrder, error)
}
