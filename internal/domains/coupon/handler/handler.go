package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"opticsmarket-backend/internal/domains/coupon/model"
	"opticsmarket-backend/internal/domains/coupon/service"
	"opticsmarket-backend/internal/shared/response"
)

type CouponHandler struct {
	couponService service.CouponService
}

func NewCouponHandler(couponService service.CouponService) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
	}
}

func (h *CouponHandler) RegisterRoutes(router *gin.RouterGroup, auth, admin gin.HandlerFunc) {
	adminRoutes := router.Group("/admin/coupons", auth, admin)
	{
		adminRoutes.POST("", h.CreateCoupon)
		adminRoutes.GET("", h.ListCoupons)
		adminRoutes.PATCH("/:id", h.UpdateCoupon)
	}

	router.GET("/coupons/:code", auth, h.GetCoupon)
}

// POST /v1/admin/coupons
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var req model.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	coupon, err := h.couponService.CreateCoupon(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, coupon)
}

// GetCoupon lets a buyer look a code up before checkout.
// GET /v1/coupons/:code
func (h *CouponHandler) GetCoupon(c *gin.Context) {
	coupon, err := h.couponService.GetCoupon(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, coupon)
}

// GET /v1/admin/coupons?page=1&limit=20
func (h *CouponHandler) ListCoupons(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	coupons, err := h.couponService.ListCoupons(c.Request.Context(), limit, (page-1)*limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, coupons, &response.Meta{Page: page, Limit: limit})
}

// PATCH /v1/admin/coupons/:id
func (h *CouponHandler) UpdateCoupon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid coupon id")
		return
	}

	var req model.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	coupon, err := h.couponService.UpdateCoupon(c.Request.Context(), id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, coupon)
}

func (h *CouponHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrCouponNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, model.ErrCouponCodeExists):
		response.Conflict(c, err.Error())
	case errors.Is(err, model.ErrInvalidDiscountType),
		errors.Is(err, model.ErrInvalidDiscountValue):
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
