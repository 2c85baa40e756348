package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"opticsmarket-backend/internal/domains/cart/model"
	"opticsmarket-backend/internal/domains/cart/service"
	productModel "opticsmarket-backend/internal/domains/product/model"
	"opticsmarket-backend/internal/shared/middleware"
	"opticsmarket-backend/internal/shared/response"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	cart := router.Group("/cart", auth)
	{
		cart.GET("", h.GetCart)
		cart.POST("/items", h.AddItem)
		cart.PATCH("/items/:id", h.UpdateQuantity)
		cart.DELETE("/items/:id", h.RemoveItem)
	}
}

// GET /v1/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	cart, err := h.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, cart)
}

// POST /v1/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	item, err := h.cartService.AddItem(c.Request.Context(), userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, item)
}

// PATCH /v1/cart/items/:id
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid cart item id")
		return
	}

	var req model.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}

	if err := h.cartService.UpdateQuantity(c.Request.Context(), userID, itemID, req.Quantity); err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

// DELETE /v1/cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid cart item id")
		return
	}

	if err := h.cartService.RemoveItem(c.Request.Context(), userID, itemID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"removed": true})
}

func (h *CartHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrCartItemNotFound),
		errors.Is(err, productModel.ErrProductNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, model.ErrInvalidQuantity),
		errors.Is(err, productModel.ErrProductInactive),
		errors.Is(err, productModel.ErrInsufficientStock):
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
