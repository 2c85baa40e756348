package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	escrowService "opticsmarket-backend/internal/domains/escrow/service"
	"opticsmarket-backend/internal/domains/wallet/model"
	"opticsmarket-backend/internal/domains/wallet/service"
	"opticsmarket-backend/internal/shared/middleware"
	"opticsmarket-backend/internal/shared/response"
)

type WalletHandler struct {
	walletService service.WalletService
	escrowService escrowService.EscrowService
}

func NewWalletHandler(walletService service.WalletService, escrowSvc escrowService.EscrowService) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		escrowService: escrowSvc,
	}
}

func (h *WalletHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	wallet := router.Group("/wallet", auth)
	{
		wallet.GET("", h.GetWallet)
		wallet.GET("/transactions", h.ListTransactions)
		wallet.GET("/locked-balance", h.GetLockedBalance)
	}
}

// GET /v1/wallet
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	wallet, err := h.walletService.GetWallet(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, wallet)
}

// GET /v1/wallet/transactions?page=1&limit=20
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
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

	transactions, err := h.walletService.ListTransactions(c.Request.Context(), userID, limit, (page-1)*limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, transactions, &response.Meta{Page: page, Limit: limit})
}

// GetLockedBalance reports the buyer's funds currently held in escrow.
// GET /v1/wallet/locked-balance
func (h *WalletHandler) GetLockedBalance(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	balance, err := h.escrowService.GetLockedBalanceForBuyer(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"locked_balance": balance})
}

func (h *WalletHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrWalletNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, model.ErrInsufficientBalance),
		errors.Is(err, model.ErrInvalidAmount):
		response.UnprocessableEntity(c, err.Error())
	default:
		response.InternalServerError(c, "something went wrong")
	}
}
