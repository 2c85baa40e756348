package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	cartModel "opticsmarket-backend/internal/domains/cart/model"
	couponModel "opticsmarket-backend/internal/domains/coupon/model"
	escrowModel "opticsmarket-backend/internal/domains/escrow/model"
	"opticsmarket-backend/internal/domains/order/model"
	"opticsmarket-backend/internal/domains/order/service"
	pointsModel "opticsmarket-backend/internal/domains/points/model"
	productModel "opticsmarket-backend/internal/domains/product/model"
	"opticsmarket-backend/internal/shared/middleware"
	"opticsmarket-backend/internal/shared/response"
)

// =====================================================
// ORDER HANDLER
// =====================================================

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// RegisterRoutes registers buyer checkout routes, the seller
// fulfilment routes and the payment callback.
func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup, auth, seller gin.HandlerFunc) {
	orders := router.Group("/orders", auth)
	{
		orders.POST("", h.PlaceOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
	}

	sellerOrders := router.Group("/seller/orders", auth, seller)
	{
		sellerOrders.GET("", h.ListStoreOrders)
		sellerOrders.GET("/:id", h.GetStoreOrder)
		sellerOrders.POST("/:id/accept", h.AcceptStoreOrder)
		sellerOrders.POST("/:id/reject", h.RejectStoreOrder)
		sellerOrders.POST("/:id/out-for-delivery", h.MarkOutForDelivery)
		sellerOrders.POST("/:id/confirm-delivery", h.ConfirmDelivery)
	}

	// Payment provider callback. Authenticated buyers can also trigger
	// it directly when paying from their wallet.
	router.POST("/payments/store-orders/:id", auth, h.PayStoreOrder)
}

// PlaceOrder creates an order from the caller's cart.
// POST /v1/orders
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	detail, err := h.orderService.PlaceOrder(c.Request.Context(), userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, detail)
}

// GetOrder returns one of the caller's orders with store orders and
// item snapshots eager-loaded.
// GET /v1/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	detail, err := h.orderService.GetOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, detail)
}

// ListOrders returns the caller's orders, newest first.
// GET /v1/orders?page=1&limit=20
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	page, limit := pagination(c)
	orders, err := h.orderService.ListOrders(c.Request.Context(), userID, limit, (page-1)*limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, orders, &response.Meta{Page: page, Limit: limit})
}

// =====================================================
// SELLER FULFILMENT
// =====================================================

// AcceptStoreOrder sets the delivery fee and moves the store order to
// accepted.
// POST /v1/seller/orders/:id/accept
func (h *OrderHandler) AcceptStoreOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	storeOrderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid store order id")
		return
	}

	var req model.AcceptStoreOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	storeOrder, err := h.orderService.AcceptStoreOrder(c.Request.Context(), userID, storeOrderID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, storeOrder)
}

// RejectStoreOrder declines a store order before payment.
// POST /v1/seller/orders/:id/reject
func (h *OrderHandler) RejectStoreOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	storeOrderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid store order id")
		return
	}

	var req model.RejectStoreOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}

	storeOrder, err := h.orderService.RejectStoreOrder(c.Request.Context(), userID, storeOrderID, req.Reason)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, storeOrder)
}

// PayStoreOrder records a successful payment and locks the funds in
// escrow.
// POST /v1/payments/store-orders/:id
func (h *OrderHandler) PayStoreOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	storeOrderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid store order id")
		return
	}

	storeOrder, err := h.orderService.PayStoreOrder(c.Request.Context(), userID, storeOrderID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, storeOrder)
}

// MarkOutForDelivery moves a paid store order out for delivery.
// POST /v1/seller/orders/:id/out-for-delivery
func (h *OrderHandler) MarkOutForDelivery(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	storeOrderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid store order id")
		return
	}

	storeOrder, err := h.orderService.MarkOutForDelivery(c.Request.Context(), userID, storeOrderID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, storeOrder)
}

// ConfirmDelivery checks the buyer's delivery code and settles the
// escrow.
// POST /v1/seller/orders/:id/confirm-delivery
func (h *OrderHandler) ConfirmDelivery(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	storeOrderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid store order id")
		return
	}

	var req model.ConfirmDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}

	storeOrder, err := h.orderService.ConfirmDelivery(c.Request.Context(), userID, storeOrderID, req.DeliveryCode)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, storeOrder)
}

// GetStoreOrder returns one store order of the seller's store.
// GET /v1/seller/orders/:id
func (h *OrderHandler) GetStoreOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	storeOrderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid store order id")
		return
	}

	detail, err := h.orderService.GetStoreOrderForSeller(c.Request.Context(), userID, storeOrderID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, detail)
}

// ListStoreOrders returns the seller's store orders, newest first.
// GET /v1/seller/orders?page=1&limit=20
func (h *OrderHandler) ListStoreOrders(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	page, limit := pagination(c)
	storeOrders, err := h.orderService.ListStoreOrdersForSeller(c.Request.Context(), userID, limit, (page-1)*limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, storeOrders, &response.Meta{Page: page, Limit: limit})
}

// =====================================================
// ERROR MAPPING
// =====================================================

func (h *OrderHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrOrderNotFound),
		errors.Is(err, model.ErrStoreOrderNotFound),
		errors.Is(err, productModel.ErrStoreNotFound),
		errors.Is(err, productModel.ErrProductNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, model.ErrCartEmpty),
		errors.Is(err, cartModel.ErrCartEmpty),
		errors.Is(err, model.ErrInvalidDeliveryFee):
		response.BadRequest(c, err.Error())
	case errors.Is(err, model.ErrNotStoreOrder):
		response.Forbidden(c, err.Error())
	case errors.Is(err, model.ErrInvalidStatusTransition),
		errors.Is(err, model.ErrStoreOrderNotPaid),
		errors.Is(err, escrowModel.ErrEscrowAlreadyExists),
		errors.Is(err, escrowModel.ErrEscrowNotLocked):
		response.Conflict(c, err.Error())
	case errors.Is(err, model.ErrInvalidDeliveryCode):
		response.ErrorResponse(c, http.StatusUnprocessableEntity, "INVALID_DELIVERY_CODE", err.Error())
	case errors.Is(err, model.ErrProductUnavailable),
		errors.Is(err, productModel.ErrInsufficientStock):
		response.Conflict(c, err.Error())
	case errors.Is(err, couponModel.ErrCouponNotFound),
		errors.Is(err, couponModel.ErrCouponInactive),
		errors.Is(err, couponModel.ErrCouponNotStarted),
		errors.Is(err, couponModel.ErrCouponExpired),
		errors.Is(err, couponModel.ErrCouponMinOrderNotMet),
		errors.Is(err, couponModel.ErrCouponUsageLimit),
		errors.Is(err, couponModel.ErrCouponUserLimit):
		response.UnprocessableEntity(c, err.Error())
	case errors.Is(err, pointsModel.ErrInsufficientPoints),
		errors.Is(err, pointsModel.ErrNoRedemptionRule),
		errors.Is(err, pointsModel.ErrBelowMinRedemption):
		response.UnprocessableEntity(c, err.Error())
	default:
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			response.UnprocessableEntity(c, err.Error())
			return
		}
		response.InternalServerError(c, "something went wrong")
	}
}

func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
