package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	addressService "opticsmarket-backend/internal/domains/address/service"
	cartModel "opticsmarket-backend/internal/domains/cart/model"
	cartRepo "opticsmarket-backend/internal/domains/cart/repository"
	couponModel "opticsmarket-backend/internal/domains/coupon/model"
	couponService "opticsmarket-backend/internal/domains/coupon/service"
	escrowModel "opticsmarket-backend/internal/domains/escrow/model"
	escrowService "opticsmarket-backend/internal/domains/escrow/service"
	"opticsmarket-backend/internal/domains/order/model"
	"opticsmarket-backend/internal/domains/order/repository"
	pointsModel "opticsmarket-backend/internal/domains/points/model"
	pointsService "opticsmarket-backend/internal/domains/points/service"
	productRepo "opticsmarket-backend/internal/domains/product/repository"
	userRepo "opticsmarket-backend/internal/domains/user/repository"
	"opticsmarket-backend/internal/shared"
	"opticsmarket-backend/internal/shared/utils"
	"opticsmarket-backend/pkg/logger"
)

// =====================================================
// ORDER SERVICE
// =====================================================

type OrderService interface {
	// PlaceOrder runs the whole checkout in one transaction: split the
	// cart by store, apply coupon and points discounts, snapshot the
	// items, clear the cart. Notification tasks go out after commit.
	PlaceOrder(ctx context.Context, buyerID uuid.UUID, req model.PlaceOrderRequest) (*model.OrderDetail, error)

	GetOrder(ctx context.Context, buyerID, orderID uuid.UUID) (*model.OrderDetail, error)
	ListOrders(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]model.Order, error)

	AcceptStoreOrder(ctx context.Context, sellerID, storeOrderID uuid.UUID, req model.AcceptStoreOrderRequest) (*model.StoreOrder, error)
	RejectStoreOrder(ctx context.Context, sellerID, storeOrderID uuid.UUID, reason string) (*model.StoreOrder, error)

	// PayStoreOrder is driven by the payment provider callback on the
	// buyer's behalf. It locks the buyer's funds in escrow and
	// re-evaluates the parent order's payment status. Callers other
	// than the order's buyer see the store order as missing.
	PayStoreOrder(ctx context.Context, buyerID, storeOrderID uuid.UUID) (*model.StoreOrder, error)

	MarkOutForDelivery(ctx context.Context, sellerID, storeOrderID uuid.UUID) (*model.StoreOrder, error)

	// ConfirmDelivery verifies the buyer's delivery code and settles
	// the escrow in the same transaction. Settlement failures roll the
	// confirmation back.
	ConfirmDelivery(ctx context.Context, sellerID, storeOrderID uuid.UUID, deliveryCode string) (*model.StoreOrder, error)

	GetStoreOrderForSeller(ctx context.Context, sellerID, storeOrderID uuid.UUID) (*model.StoreOrderDetail, error)
	ListStoreOrdersForSeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]model.StoreOrder, error)
}

type orderService struct {
	orderRepo          repository.OrderRepository
	cartRepo           cartRepo.CartRepository
	productRepo        productRepo.ProductRepository
	userRepo           userRepo.UserRepository
	addressService     addressService.AddressService
	couponService      couponService.CouponService
	pointsService      pointsService.PointsService
	escrowService      escrowService.EscrowService
	asynq              *asynq.Client
	deliveryCodeLength int
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepository cartRepo.CartRepository,
	productRepository productRepo.ProductRepository,
	userRepository userRepo.UserRepository,
	addressSvc addressService.AddressService,
	couponSvc couponService.CouponService,
	pointsSvc pointsService.PointsService,
	escrowSvc escrowService.EscrowService,
	asynqClient *asynq.Client,
	deliveryCodeLength int,
) OrderService {
	return &orderService{
		orderRepo:          orderRepo,
		cartRepo:           cartRepository,
		productRepo:        productRepository,
		userRepo:           userRepository,
		addressService:     addressSvc,
		couponService:      couponSvc,
		pointsService:      pointsSvc,
		escrowService:      escrowSvc,
		asynq:              asynqClient,
		deliveryCodeLength: deliveryCodeLength,
	}
}

// =====================================================
// CHECKOUT
// =====================================================

func (s *orderService) PlaceOrder(ctx context.Context, buyerID uuid.UUID, req model.PlaceOrderRequest) (*model.OrderDetail, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	addressID, err := uuid.Parse(req.AddressID)
	if err != nil {
		return nil, fmt.Errorf("invalid address id: %w", err)
	}

	address, err := s.addressService.Resolve(ctx, buyerID, addressID)
	if err != nil {
		return nil, err
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.orderRepo.RollbackTx(ctx, tx)

	// Step 1: load the cart and group by store.
	lines, err := s.cartRepo.ListLinesByUserWithTx(ctx, tx, buyerID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, model.ErrCartEmpty
	}

	// Products are locked in id order so concurrent checkouts cannot
	// deadlock against each other, then stock is claimed up front.
	if err := s.claimStockWithTx(ctx, tx, lines); err != nil {
		return nil, err
	}

	groups, storeIDs := groupLinesByStore(lines)

	// Step 2 and 3: parent order shell plus the pre-discount total.
	itemsTotal := decimal.Zero
	for _, line := range lines {
		itemsTotal = itemsTotal.Add(line.LineTotal())
	}

	order := &model.Order{
		ID:            uuid.New(),
		BuyerID:       buyerID,
		OrderNumber:   utils.GenerateOrderNumber(),
		AddressID:     address.ID,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: model.PaymentStatusPending,
		ItemsTotal:    decimal.Zero,
		ShippingTotal: decimal.Zero,
		DiscountTotal: decimal.Zero,
		GrandTotal:    decimal.Zero,
	}
	if err := s.orderRepo.CreateOrderWithTx(ctx, tx, order); err != nil {
		return nil, err
	}

	// Step 4: coupon. A rejected coupon aborts checkout with the
	// coupon's own message.
	var coupon *couponModel.Coupon
	couponDiscount := decimal.Zero
	if req.CouponCode != "" {
		coupon, couponDiscount, err = s.couponService.ValidateForCheckoutWithTx(ctx, tx, req.CouponCode, buyerID, itemsTotal)
		if err != nil {
			return nil, err
		}
	}

	// Step 5: points. The discount cannot exceed what remains after
	// the coupon; the redemption rolls back with everything else on
	// later failure.
	var redemption *pointsModel.RedemptionResult
	if req.PointsToRedeem.IsPositive() {
		maxDiscount := itemsTotal.Sub(couponDiscount)
		if maxDiscount.IsNegative() {
			maxDiscount = decimal.Zero
		}
		redemption, err = s.pointsService.RedeemPointsWithTx(ctx, tx, buyerID, req.PointsToRedeem, maxDiscount)
		if err != nil {
			return nil, err
		}
	}

	// Step 6: one store order per store, each with its own delivery
	// code, plus denormalized item snapshots.
	details := make([]model.StoreOrderDetail, 0, len(groups))
	for _, storeID := range storeIDs {
		group := groups[storeID]

		subtotal := decimal.Zero
		for _, line := range group {
			subtotal = subtotal.Add(line.LineTotal())
		}

		storeOrder := &model.StoreOrder{
			ID:           uuid.New(),
			OrderID:      order.ID,
			StoreID:      storeID,
			Status:       model.StoreOrderPending,
			Subtotal:     subtotal,
			DeliveryFee:  decimal.Zero,
			Total:        subtotal,
			DeliveryCode: utils.GenerateDeliveryCode(s.deliveryCodeLength),
		}
		if err := s.orderRepo.CreateStoreOrderWithTx(ctx, tx, storeOrder); err != nil {
			return nil, err
		}

		items := buildOrderItems(storeOrder.ID, group)
		if err := s.orderRepo.CreateOrderItemsWithTx(ctx, tx, items); err != nil {
			return nil, err
		}

		details = append(details, model.StoreOrderDetail{
			StoreOrder: *storeOrder,
			StoreName:  group[0].StoreName,
			Items:      items,
		})
	}

	// Step 7 and 8: final totals and discount metadata.
	pointsDiscount := decimal.Zero
	pointsUsed := decimal.Zero
	if redemption != nil {
		pointsDiscount = redemption.DiscountAmount
		pointsUsed = redemption.PointsUsed
	}

	grandTotal := itemsTotal.Sub(couponDiscount).Sub(pointsDiscount)
	if grandTotal.IsNegative() {
		grandTotal = decimal.Zero
	}

	order.ItemsTotal = itemsTotal
	order.DiscountTotal = couponDiscount.Add(pointsDiscount)
	order.GrandTotal = grandTotal
	order.Metadata = model.OrderMetadata{
		CouponCode:     req.CouponCode,
		PointsRedeemed: pointsUsed,
		PointsDiscount: pointsDiscount,
	}
	if coupon != nil {
		order.Metadata.CouponID = &coupon.ID
		order.Metadata.CouponCode = coupon.Code
	}
	if err := s.orderRepo.UpdateOrderTotalsWithTx(ctx, tx, order); err != nil {
		return nil, err
	}

	// Step 9: coupon usage audit row.
	if coupon != nil {
		if err := s.couponService.RedeemWithTx(ctx, tx, coupon, buyerID, order.ID, couponDiscount); err != nil {
			return nil, err
		}
	}

	// Step 10: back-fill the redemption's order reference. The ledger
	// row already exists, so a failed linkage must not abort checkout.
	if redemption != nil && redemption.PointsUsed.IsPositive() {
		if err := s.pointsService.AttachOrderReferenceWithTx(ctx, tx, redemption.WalletID, order.ID); err != nil {
			logger.Warn("failed to link redemption to order", map[string]interface{}{
				"order_id": order.ID.String(),
				"error":    err.Error(),
			})
		}
	}

	// Step 11: clear the cart inside the same transaction.
	if err := s.cartRepo.ClearByUserWithTx(ctx, tx, buyerID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.CommitTx(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.notifyOrderPlaced(ctx, order, details)

	return &model.OrderDetail{Order: *order, StoreOrders: details}, nil
}

func (s *orderService) claimStockWithTx(ctx context.Context, tx pgx.Tx, lines []cartModel.CartLine) error {
	sorted := make([]cartModel.CartLine, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ProductID.String() < sorted[j].ProductID.String()
	})

	for _, line := range sorted {
		product, err := s.productRepo.GetProductByIDForUpdateWithTx(ctx, tx, line.ProductID)
		if err != nil {
			return err
		}
		if !product.IsActive {
			return model.ErrProductUnavailable
		}
		if err := s.productRepo.DecrementStockWithTx(ctx, tx, line.ProductID, line.Quantity); err != nil {
			return err
		}
	}

	return nil
}

// groupLinesByStore buckets cart lines by store, keeping the stores in
// first-seen order so store order creation is deterministic.
func groupLinesByStore(lines []cartModel.CartLine) (map[uuid.UUID][]cartModel.CartLine, []uuid.UUID) {
	groups := make(map[uuid.UUID][]cartModel.CartLine)
	var storeIDs []uuid.UUID
	for _, line := range lines {
		if _, seen := groups[line.StoreID]; !seen {
			storeIDs = append(storeIDs, line.StoreID)
		}
		groups[line.StoreID] = append(groups[line.StoreID], line)
	}
	return groups, storeIDs
}

func buildOrderItems(storeOrderID uuid.UUID, lines []cartModel.CartLine) []model.OrderItem {
	items := make([]model.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, model.OrderItem{
			ID:                uuid.New(),
			StoreOrderID:      storeOrderID,
			ProductID:         line.ProductID,
			ProductName:       line.ProductName,
			SKU:               line.SKU,
			Variant:           line.Variant,
			ImageURL:          line.ImageURL,
			UnitPrice:         line.UnitPrice,
			Quantity:          line.Quantity,
			LineTotal:         line.LineTotal(),
			LensConfiguration: line.LensConfiguration,
			Prescription:      line.Prescription,
		})
	}
	return items
}

// =====================================================
// STORE ORDER TRANSITIONS
// =====================================================

func (s *orderService) AcceptStoreOrder(ctx context.Context, sellerID, storeOrderID uuid.UUID, req model.AcceptStoreOrderRequest) (*model.StoreOrder, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.DeliveryFee.IsNegative() {
		return nil, model.ErrInvalidDeliveryFee
	}

	storeOrder, err := s.transitionStoreOrder(ctx, sellerID, storeOrderID, model.StoreOrderAccepted, func(so *model.StoreOrder) error {
		now := time.Now()
		so.DeliveryFee = req.DeliveryFee
		so.Total = so.Subtotal.Add(req.DeliveryFee)
		so.DeliveryMethod = req.DeliveryMethod
		so.EstimatedDeliveryDate = req.EstimatedDeliveryDate
		so.Notes = req.Notes
		so.AcceptedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyStoreOrderEvent(ctx, shared.EventStoreOrderAccepted, storeOrder, "")
	return storeOrder, nil
}

func (s *orderService) RejectStoreOrder(ctx context.Context, sellerID, storeOrderID uuid.UUID, reason string) (*model.StoreOrder, error) {
	store, err := s.productRepo.GetStoreByOwnerID(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	items, err := s.orderRepo.ListItemsByStoreOrder(ctx, storeOrderID)
	if err != nil {
		return nil, err
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.orderRepo.RollbackTx(ctx, tx)

	storeOrder, err := s.orderRepo.GetStoreOrderByIDForUpdateWithTx(ctx, tx, storeOrderID)
	if err != nil {
		return nil, err
	}
	if storeOrder.StoreID != store.ID {
		return nil, model.ErrNotStoreOrder
	}
	if !storeOrder.Status.CanTransitionTo(model.StoreOrderRejected) {
		return nil, model.ErrInvalidStatusTransition
	}

	storeOrder.Status = model.StoreOrderRejected
	storeOrder.RejectionReason = reason
	if err := s.orderRepo.UpdateStoreOrderWithTx(ctx, tx, storeOrder); err != nil {
		return nil, err
	}

	// Rejection frees the claimed stock in the same transaction; no
	// escrow exists yet, so no wallet compensation is needed.
	for _, item := range items {
		if err := s.productRepo.RestockWithTx(ctx, tx, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.CommitTx(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.notifyStoreOrderEvent(ctx, shared.EventStoreOrderRejected, storeOrder, reason)
	return storeOrder, nil
}

func (s *orderService) PayStoreOrder(ctx context.Context, buyerID, storeOrderID uuid.UUID) (*model.StoreOrder, error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.orderRepo.RollbackTx(ctx, tx)

	storeOrder, err := s.orderRepo.GetStoreOrderByIDForUpdateWithTx(ctx, tx, storeOrderID)
	if err != nil {
		return nil, err
	}

	// The parent row lock serializes concurrent sibling payments, so
	// the sibling count below always sees the latest committed state.
	order, err := s.orderRepo.GetOrderByIDForUpdateWithTx(ctx, tx, storeOrder.OrderID)
	if err != nil {
		return nil, err
	}

	// Only the order's buyer can pay for it. Foreign callers read the
	// same as a missing store order, before any state is revealed.
	if order.BuyerID != buyerID {
		return nil, model.ErrStoreOrderNotFound
	}

	if !storeOrder.Status.CanTransitionTo(model.StoreOrderPaid) {
		return nil, model.ErrInvalidStatusTransition
	}

	store, err := s.productRepo.GetStoreByID(ctx, storeOrder.StoreID)
	if err != nil {
		return nil, err
	}

	// Funds go straight into escrow; duplicate payment callbacks fail
	// on the unique escrow per store order.
	if _, err := s.escrowService.LockFundsWithTx(ctx, tx, storeOrder.ID, store.ID, store.OwnerID, order.BuyerID, storeOrder.Total); err != nil {
		return nil, err
	}

	now := time.Now()
	storeOrder.Status = model.StoreOrderPaid
	storeOrder.PaidAt = &now
	if err := s.orderRepo.UpdateStoreOrderWithTx(ctx, tx, storeOrder); err != nil {
		return nil, err
	}

	// Parent payment status is recomputed from the siblings each time
	// rather than cached.
	awaiting, err := s.orderRepo.CountSiblingsAwaitingPaymentWithTx(ctx, tx, storeOrder.OrderID)
	if err != nil {
		return nil, err
	}
	if awaiting == 0 && order.PaymentStatus != model.PaymentStatusPaid {
		if err := s.orderRepo.UpdateOrderPaymentStatusWithTx(ctx, tx, order.ID, model.PaymentStatusPaid); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.CommitTx(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.notifyStoreOrderEvent(ctx, shared.EventStoreOrderPaid, storeOrder, "")
	return storeOrder, nil
}

func (s *orderService) MarkOutForDelivery(ctx context.Context, sellerID, storeOrderID uuid.UUID) (*model.StoreOrder, error) {
	storeOrder, err := s.transitionStoreOrder(ctx, sellerID, storeOrderID, model.StoreOrderOutForDelivery, func(so *model.StoreOrder) error {
		now := time.Now()
		so.OutForDeliveryAt = &now
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrInvalidStatusTransition) {
			return nil, model.ErrStoreOrderNotPaid
		}
		return nil, err
	}

	s.notifyStoreOrderEvent(ctx, shared.EventStoreOrderOutForDelivery, storeOrder, "")
	return storeOrder, nil
}

func (s *orderService) ConfirmDelivery(ctx context.Context, sellerID, storeOrderID uuid.UUID, deliveryCode string) (*model.StoreOrder, error) {
	store, err := s.productRepo.GetStoreByOwnerID(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.orderRepo.RollbackTx(ctx, tx)

	storeOrder, err := s.orderRepo.GetStoreOrderByIDForUpdateWithTx(ctx, tx, storeOrderID)
	if err != nil {
		return nil, err
	}
	if storeOrder.StoreID != store.ID {
		return nil, model.ErrNotStoreOrder
	}
	if !storeOrder.Status.CanTransitionTo(model.StoreOrderDelivered) {
		return nil, model.ErrInvalidStatusTransition
	}

	// Exact string match, no normalization. A wrong code leaves the
	// store order untouched.
	if deliveryCode != storeOrder.DeliveryCode {
		return nil, model.ErrInvalidDeliveryCode
	}

	now := time.Now()
	storeOrder.Status = model.StoreOrderDelivered
	storeOrder.DeliveredAt = &now
	if err := s.orderRepo.UpdateStoreOrderWithTx(ctx, tx, storeOrder); err != nil {
		return nil, err
	}

	// Settlement runs inside the confirmation transaction. If the
	// escrow release fails, the delivery is not confirmed.
	if _, err := s.escrowService.ReleaseWithTx(ctx, tx, storeOrder.ID); err != nil {
		if !errors.Is(err, escrowModel.ErrEscrowNotFound) {
			return nil, err
		}
		// No escrow means the funds were settled out of band; the
		// buyer still earns purchase points.
		order, err := s.orderRepo.GetOrderByIDWithTx(ctx, tx, storeOrder.OrderID)
		if err != nil {
			return nil, err
		}
		if _, err := s.pointsService.EarnFromPurchaseWithTx(ctx, tx, order.BuyerID, storeOrder.ID, storeOrder.Subtotal); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.CommitTx(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.notifyStoreOrderEvent(ctx, shared.EventStoreOrderDelivered, storeOrder, "")
	return storeOrder, nil
}

// transitionStoreOrder locks the store order, checks ownership and the
// status transition, applies mutate and persists the row, all in one
// transaction.
func (s *orderService) transitionStoreOrder(
	ctx context.Context,
	sellerID, storeOrderID uuid.UUID,
	next model.StoreOrderStatus,
	mutate func(so *model.StoreOrder) error,
) (*model.StoreOrder, error) {
	store, err := s.productRepo.GetStoreByOwnerID(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.orderRepo.RollbackTx(ctx, tx)

	storeOrder, err := s.orderRepo.GetStoreOrderByIDForUpdateWithTx(ctx, tx, storeOrderID)
	if err != nil {
		return nil, err
	}
	if storeOrder.StoreID != store.ID {
		return nil, model.ErrNotStoreOrder
	}
	if !storeOrder.Status.CanTransitionTo(next) {
		return nil, model.ErrInvalidStatusTransition
	}

	storeOrder.Status = next
	if err := mutate(storeOrder); err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateStoreOrderWithTx(ctx, tx, storeOrder); err != nil {
		return nil, err
	}

	if err := s.orderRepo.CommitTx(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return storeOrder, nil
}

// =====================================================
// QUERIES
// =====================================================

func (s *orderService) GetOrder(ctx context.Context, buyerID, orderID uuid.UUID) (*model.OrderDetail, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != buyerID {
		return nil, model.ErrOrderNotFound
	}

	storeOrders, err := s.orderRepo.ListStoreOrdersByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	storeIDs := make([]uuid.UUID, 0, len(storeOrders))
	for _, so := range storeOrders {
		storeIDs = append(storeIDs, so.StoreID)
	}
	stores, err := s.productRepo.GetStoresByIDs(ctx, storeIDs)
	if err != nil {
		return nil, err
	}

	details := make([]model.StoreOrderDetail, 0, len(storeOrders))
	for _, so := range storeOrders {
		items, err := s.orderRepo.ListItemsByStoreOrder(ctx, so.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, model.StoreOrderDetail{
			StoreOrder: so,
			StoreName:  stores[so.StoreID].Name,
			Items:      items,
		})
	}

	return &model.OrderDetail{Order: *order, StoreOrders: details}, nil
}

func (s *orderService) ListOrders(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]model.Order, error) {
	return s.orderRepo.ListOrdersByBuyer(ctx, buyerID, limit, offset)
}

func (s *orderService) GetStoreOrderForSeller(ctx context.Context, sellerID, storeOrderID uuid.UUID) (*model.StoreOrderDetail, error) {
	store, err := s.productRepo.GetStoreByOwnerID(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	storeOrder, err := s.orderRepo.GetStoreOrderByID(ctx, storeOrderID)
	if err != nil {
		return nil, err
	}
	if storeOrder.StoreID != store.ID {
		return nil, model.ErrStoreOrderNotFound
	}

	items, err := s.orderRepo.ListItemsByStoreOrder(ctx, storeOrderID)
	if err != nil {
		return nil, err
	}

	return &model.StoreOrderDetail{
		StoreOrder: *storeOrder,
		StoreName:  store.Name,
		Items:      items,
	}, nil
}

func (s *orderService) ListStoreOrdersForSeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]model.StoreOrder, error) {
	store, err := s.productRepo.GetStoreByOwnerID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	return s.orderRepo.ListStoreOrdersByStore(ctx, store.ID, limit, offset)
}

// =====================================================
// NOTIFICATIONS (POST-COMMIT)
// =====================================================

func (s *orderService) notifyOrderPlaced(ctx context.Context, order *model.Order, details []model.StoreOrderDetail) {
	if s.asynq == nil {
		return
	}

	buyer, err := s.userRepo.GetByID(ctx, order.BuyerID)
	if err != nil {
		logger.Error("failed to load buyer for order notification", err)
		return
	}

	for _, detail := range details {
		payload := shared.OrderPlacedEmailPayload{
			OrderNumber:  order.OrderNumber,
			StoreOrderID: detail.ID.String(),
			StoreName:    detail.StoreName,
			UserEmail:    buyer.Email,
			UserName:     buyer.FullName,
			Total:        detail.Total.StringFixed(2),
			DeliveryCode: detail.DeliveryCode,
		}
		task, err := shared.NewTask(shared.TypeSendOrderPlacedEmail, payload)
		if err != nil {
			logger.Error("failed to build order placed task", err)
			continue
		}
		if _, err := s.asynq.Enqueue(task, asynq.Queue(shared.QueueEmail), asynq.MaxRetry(3)); err != nil {
			logger.Error("failed to enqueue order placed task", err)
		}
	}
}

func (s *orderService) notifyStoreOrderEvent(ctx context.Context, event shared.StoreOrderEvent, storeOrder *model.StoreOrder, reason string) {
	if s.asynq == nil {
		return
	}

	order, err := s.orderRepo.GetOrderByID(ctx, storeOrder.OrderID)
	if err != nil {
		logger.Error("failed to load order for notification", err)
		return
	}
	buyer, err := s.userRepo.GetByID(ctx, order.BuyerID)
	if err != nil {
		logger.Error("failed to load buyer for notification", err)
		return
	}

	storeName := ""
	if store, err := s.productRepo.GetStoreByID(ctx, storeOrder.StoreID); err == nil {
		storeName = store.Name
	}

	payload := shared.StoreOrderEventEmailPayload{
		Event:        event,
		OrderNumber:  order.OrderNumber,
		StoreOrderID: storeOrder.ID.String(),
		StoreName:    storeName,
		UserEmail:    buyer.Email,
		UserName:     buyer.FullName,
		Total:        storeOrder.Total.StringFixed(2),
		Reason:       reason,
	}
	task, err := shared.NewTask(shared.TypeSendStoreOrderEventEmail, payload)
	if err != nil {
		logger.Error("failed to build store order event task", err)
		return
	}
	if _, err := s.asynq.Enqueue(task, asynq.Queue(shared.QueueEmail), asynq.MaxRetry(3)); err != nil {
		logger.Error("failed to enqueue store order event task", err)
	}
}
