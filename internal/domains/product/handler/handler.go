package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"opticsmarket-backend/internal/domains/product/model"
	"opticsmarket-backend/internal/domains/product/service"
	"opticsmarket-backend/internal/shared/middleware"
	"opticsmarket-backend/internal/shared/response"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup, auth, seller gin.HandlerFunc) {
	router.GET("/stores/:id", h.GetStore)
	router.GET("/stores/:id/products", h.ListStoreProducts)
	router.GET("/products/:id", h.GetProduct)

	sellerRoutes := router.Group("/seller", auth, seller)
	{
		sellerRoutes.POST("/stores", h.CreateStore)
		sellerRoutes.GET("/stores/me", h.GetMyStore)
		sellerRoutes.POST("/products", h.CreateProduct)
		sellerRoutes.PATCH("/products/:id", h.UpdateProduct)
	}
}

// POST /v1/seller/stores
func (h *ProductHandler) CreateStore(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	store, err := h.productService.CreateStore(c.Request.Context(), userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, store)
}

// GET /v1/seller/stores/me
func (h *ProductHandler) GetMyStore(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	store, err := h.productService.GetStoreByOwner(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, store)
}

// GET /v1/stores/:id
func (h *ProductHandler) GetStore(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	store, err := h.productService.GetStore(c.Request.Context(), storeID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, store)
}

// POST /v1/seller/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, product)
}

// PATCH /v1/seller/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return
	}

	var req model.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), userID, productID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, product)
}

// GET /v1/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), productID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, product)
}

// GET /v1/stores/:id/products?page=1&limit=20
func (h *ProductHandler) ListStoreProducts(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
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

	products, err := h.productService.ListStoreProducts(c.Request.Context(), storeID, limit, (page-1)*limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, products, &response.Meta{Page: page, Limit: limit})
}

func (h *ProductHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrProductNotFound),
		errors.Is(err, model.ErrStoreNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, model.ErrStoreExists),
		errors.Is(err, model.ErrSKUExists):
		response.Conflict(c, err.Error())
	case errors.Is(err, model.ErrInvalidPrice):
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
