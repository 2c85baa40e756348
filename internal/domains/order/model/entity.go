package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// PARENT ORDER
// =====================================================

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// OrderMetadata records the discounts applied at checkout. Stored as
// JSONB on the order row.
type OrderMetadata struct {
	CouponID       *uuid.UUID      `json:"coupon_id,omitempty"`
	CouponCode     string          `json:"coupon_code,omitempty"`
	PointsRedeemed decimal.Decimal `json:"points_redeemed"`
	PointsDiscount decimal.Decimal `json:"points_discount"`
}

// Order is the buyer-facing parent. Money lives here as totals only;
// the per-store breakdown is on the StoreOrder rows.
type Order struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	BuyerID       uuid.UUID       `json:"buyer_id" db:"buyer_id"`
	OrderNumber   string          `json:"order_number" db:"order_number"`
	AddressID     uuid.UUID       `json:"address_id" db:"address_id"`
	PaymentMethod string          `json:"payment_method" db:"payment_method"`
	PaymentStatus PaymentStatus   `json:"payment_status" db:"payment_status"`
	ItemsTotal    decimal.Decimal `json:"items_total" db:"items_total"`
	ShippingTotal decimal.Decimal `json:"shipping_total" db:"shipping_total"`
	DiscountTotal decimal.Decimal `json:"discount_total" db:"discount_total"`
	GrandTotal    decimal.Decimal `json:"grand_total" db:"grand_total"`
	Metadata      OrderMetadata   `json:"metadata" db:"metadata"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// =====================================================
// STORE ORDER STATE MACHINE
// =====================================================

type StoreOrderStatus string

const (
	StoreOrderPending        StoreOrderStatus = "pending"
	StoreOrderAccepted       StoreOrderStatus = "accepted"
	StoreOrderPaid           StoreOrderStatus = "paid"
	StoreOrderOutForDelivery StoreOrderStatus = "out_for_delivery"
	StoreOrderDelivered      StoreOrderStatus = "delivered"
	StoreOrderRejected       StoreOrderStatus = "rejected"
)

// storeOrderTransitions is the one-directional lifecycle. Delivered and
// rejected are terminal; rejection is only possible before payment.
var storeOrderTransitions = map[StoreOrderStatus][]StoreOrderStatus{
	StoreOrderPending:        {StoreOrderAccepted, StoreOrderRejected},
	StoreOrderAccepted:       {StoreOrderPaid, StoreOrderRejected},
	StoreOrderPaid:           {StoreOrderOutForDelivery},
	StoreOrderOutForDelivery: {StoreOrderDelivered},
	StoreOrderDelivered:      {},
	StoreOrderRejected:       {},
}

func (s StoreOrderStatus) CanTransitionTo(next StoreOrderStatus) bool {
	for _, allowed := range storeOrderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// StoreOrder is the seller-facing slice of an order. The delivery code
// is the OTP handed to the buyer over email and is never exposed on the
// seller API.
type StoreOrder struct {
	ID                    uuid.UUID        `json:"id" db:"id"`
	OrderID               uuid.UUID        `json:"order_id" db:"order_id"`
	StoreID               uuid.UUID        `json:"store_id" db:"store_id"`
	Status                StoreOrderStatus `json:"status" db:"status"`
	Subtotal              decimal.Decimal  `json:"subtotal" db:"subtotal"`
	DeliveryFee           decimal.Decimal  `json:"delivery_fee" db:"delivery_fee"`
	Total                 decimal.Decimal  `json:"total" db:"total"`
	DeliveryCode          string           `json:"-" db:"delivery_code"`
	DeliveryMethod        string           `json:"delivery_method,omitempty" db:"delivery_method"`
	EstimatedDeliveryDate *time.Time       `json:"estimated_delivery_date,omitempty" db:"estimated_delivery_date"`
	Notes                 string           `json:"notes,omitempty" db:"notes"`
	RejectionReason       string           `json:"rejection_reason,omitempty" db:"rejection_reason"`
	AcceptedAt            *time.Time       `json:"accepted_at,omitempty" db:"accepted_at"`
	PaidAt                *time.Time       `json:"paid_at,omitempty" db:"paid_at"`
	OutForDeliveryAt      *time.Time       `json:"out_for_delivery_at,omitempty" db:"out_for_delivery_at"`
	DeliveredAt           *time.Time       `json:"delivered_at,omitempty" db:"delivered_at"`
	CreatedAt             time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at" db:"updated_at"`
}

// OrderItem is an immutable snapshot of the product at checkout time,
// including the per-item lens configuration and prescription the buyer
// attached in the cart.
type OrderItem struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	StoreOrderID      uuid.UUID       `json:"store_order_id" db:"store_order_id"`
	ProductID         uuid.UUID       `json:"product_id" db:"product_id"`
	ProductName       string          `json:"product_name" db:"product_name"`
	SKU               string          `json:"sku" db:"sku"`
	Variant           string          `json:"variant" db:"variant"`
	ImageURL          string          `json:"image_url" db:"image_url"`
	UnitPrice         decimal.Decimal `json:"unit_price" db:"unit_price"`
	Quantity          int             `json:"quantity" db:"quantity"`
	LineTotal         decimal.Decimal `json:"line_total" db:"line_total"`
	LensConfiguration json.RawMessage `json:"lens_configuration,omitempty" db:"lens_configuration"`
	Prescription      json.RawMessage `json:"prescription,omitempty" db:"prescription"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
}

// StoreOrderDetail pairs a store order with its item snapshots and the
// store name for display.
type StoreOrderDetail struct {
	StoreOrder
	StoreName string      `json:"store_name"`
	Items     []OrderItem `json:"items"`
}

// OrderDetail is the eager-loaded checkout result and detail view.
type OrderDetail struct {
	Order       Order              `json:"order"`
	StoreOrders []StoreOrderDetail `json:"store_orders"`
}
