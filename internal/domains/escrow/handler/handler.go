package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"opticsmarket-backend/internal/domains/escrow/model"
	"opticsmarket-backend/internal/domains/escrow/service"
	productRepo "opticsmarket-backend/internal/domains/product/repository"
	"opticsmarket-backend/internal/shared/middleware"
	"opticsmarket-backend/internal/shared/response"
)

// EscrowHandler exposes read-only settlement views. Escrow mutations
// only happen inside the payment and delivery flows.
type EscrowHandler struct {
	escrowService service.EscrowService
	productRepo   productRepo.ProductRepository
}

func NewEscrowHandler(escrowService service.EscrowService, products productRepo.ProductRepository) *EscrowHandler {
	return &EscrowHandler{
		escrowService: escrowService,
		productRepo:   products,
	}
}

func (h *EscrowHandler) RegisterRoutes(router *gin.RouterGroup, auth, seller gin.HandlerFunc) {
	escrows := router.Group("/seller/escrows", auth, seller)
	{
		escrows.GET("", h.ListEscrows)
		escrows.GET("/balance", h.GetLockedBalance)
	}

	router.GET("/seller/store-orders/:id/escrow", auth, seller, h.GetEscrow)
}

// GET /v1/seller/escrows?page=1&limit=20
func (h *EscrowHandler) ListEscrows(c *gin.Context) {
	store, ok := h.resolveStore(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	escrows, err := h.escrowService.ListByStore(c.Request.Context(), store, limit, (page-1)*limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, escrows, &response.Meta{Page: page, Limit: limit})
}

// GetLockedBalance reports the net amount still locked for the store.
// GET /v1/seller/escrows/balance
func (h *EscrowHandler) GetLockedBalance(c *gin.Context) {
	store, ok := h.resolveStore(c)
	if !ok {
		return
	}

	balance, err := h.escrowService.GetLockedBalanceForStore(c.Request.Context(), store)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"locked_balance": balance})
}

// GET /v1/seller/store-orders/:id/escrow
func (h *EscrowHandler) GetEscrow(c *gin.Context) {
	store, ok := h.resolveStore(c)
	if !ok {
		return
	}

	storeOrderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid store order id")
		return
	}

	escrow, err := h.escrowService.GetByStoreOrderID(c.Request.Context(), storeOrderID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if escrow.StoreID != store {
		response.NotFound(c, model.ErrEscrowNotFound.Error())
		return
	}

	response.Success(c, http.StatusOK, escrow)
}

func (h *EscrowHandler) resolveStore(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return uuid.Nil, false
	}

	store, err := h.productRepo.GetStoreByOwnerID(c.Request.Context(), userID)
	if err != nil {
		response.NotFound(c, "store not found")
		return uuid.Nil, false
	}

	return store.ID, true
}

func (h *EscrowHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrEscrowNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, model.ErrEscrowAlreadyExists),
		errors.Is(err, model.ErrEscrowNotLocked):
		response.Conflict(c, err.Error())
	default:
		response.InternalServerError(c, "something went wrong")
	}
}
