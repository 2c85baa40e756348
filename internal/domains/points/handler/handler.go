package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"opticsmarket-backend/internal/domains/points/model"
	"opticsmarket-backend/internal/domains/points/service"
	"opticsmarket-backend/internal/shared/middleware"
	"opticsmarket-backend/internal/shared/response"
)

type PointsHandler struct {
	pointsService service.PointsService
}

func NewPointsHandler(pointsService service.PointsService) *PointsHandler {
	return &PointsHandler{
		pointsService: pointsService,
	}
}

func (h *PointsHandler) RegisterRoutes(router *gin.RouterGroup, auth, admin gin.HandlerFunc) {
	points := router.Group("/points", auth)
	{
		points.GET("/balance", h.GetBalance)
		points.GET("/available", h.GetAvailablePoints)
		points.GET("/transactions", h.ListTransactions)
	}

	adminRules := router.Group("/admin/point-rules", auth, admin)
	{
		adminRules.GET("", h.ListRules)
		adminRules.POST("", h.CreateRule)
		adminRules.PATCH("/:id", h.UpdateRule)
	}
}

// GET /v1/points/balance
func (h *PointsHandler) GetBalance(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	balance, err := h.pointsService.GetBalance(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"balance": balance})
}

// GetAvailablePoints subtracts expired-but-unswept earnings from the
// balance.
// GET /v1/points/available
func (h *PointsHandler) GetAvailablePoints(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	available, err := h.pointsService.GetAvailablePoints(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"available": available})
}

// GET /v1/points/transactions?page=1&limit=20
func (h *PointsHandler) ListTransactions(c *gin.Context) {
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

	transactions, err := h.pointsService.ListTransactions(c.Request.Context(), userID, limit, (page-1)*limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, transactions, &response.Meta{Page: page, Limit: limit})
}

// =====================================================
// ADMIN RULE CRUD
// =====================================================

// GET /v1/admin/point-rules
func (h *PointsHandler) ListRules(c *gin.Context) {
	rules, err := h.pointsService.ListRules(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, rules)
}

// POST /v1/admin/point-rules
func (h *PointsHandler) CreateRule(c *gin.Context) {
	var req model.CreatePointRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}

	rule := &model.PointRule{
		Type:                  req.Type,
		Rate:                  req.Rate,
		FixedPoints:           req.FixedPoints,
		MinPurchaseAmount:     req.MinPurchaseAmount,
		MaxPointsPerOrder:     req.MaxPointsPerOrder,
		MinPointsToRedeem:     req.MinPointsToRedeem,
		MaxRedemptionPerOrder: req.MaxRedemptionPerOrder,
		ExpiryDays:            req.ExpiryDays,
		IsActive:              req.IsActive,
	}
	if err := h.pointsService.CreateRule(c.Request.Context(), rule); err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, rule)
}

// PATCH /v1/admin/point-rules/:id
func (h *PointsHandler) UpdateRule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid rule id")
		return
	}

	var req model.UpdatePointRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	rule, err := h.pointsService.UpdateRule(c.Request.Context(), id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, rule)
}

func (h *PointsHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrRuleNotFound),
		errors.Is(err, model.ErrTransactionNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, model.ErrRuleTypeActive):
		response.Conflict(c, err.Error())
	case errors.Is(err, model.ErrInsufficientPoints),
		errors.Is(err, model.ErrBelowMinRedemption),
		errors.Is(err, model.ErrNoRedemptionRule),
		errors.Is(err, model.ErrInvalidPointsAmount):
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
