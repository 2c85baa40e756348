package service

import (
	"context"

	"github.com/google/uuid"

	"opticsmarket-backend/internal/domains/product/model"
	"opticsmarket-backend/internal/domains/product/repository"
	"opticsmarket-backend/internal/shared/utils"
)

type ProductService interface {
	CreateStore(ctx context.Context, ownerID uuid.UUID, req model.CreateStoreRequest) (*model.Store, error)
	GetStore(ctx context.Context, storeID uuid.UUID) (*model.Store, error)
	GetStoreByOwner(ctx context.Context, ownerID uuid.UUID) (*model.Store, error)

	CreateProduct(ctx context.Context, ownerID uuid.UUID, req model.CreateProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, ownerID, productID uuid.UUID, req model.UpdateProductRequest) (*model.Product, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*model.Product, error)
	ListStoreProducts(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]model.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{
		productRepo: productRepo,
	}
}

func (s *productService) CreateStore(ctx context.Context, ownerID uuid.UUID, req model.CreateStoreRequest) (*model.Store, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	store := &model.Store{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        req.Name,
		Slug:        utils.GenerateSlug(req.Name),
		Description: req.Description,
		IsActive:    true,
	}

	if err := s.productRepo.CreateStore(ctx, store); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *productService) GetStore(ctx context.Context, storeID uuid.UUID) (*model.Store, error) {
	return s.productRepo.GetStoreByID(ctx, storeID)
}

func (s *productService) GetStoreByOwner(ctx context.Context, ownerID uuid.UUID) (*model.Store, error) {
	return s.productRepo.GetStoreByOwnerID(ctx, ownerID)
}

func (s *productService) CreateProduct(ctx context.Context, ownerID uuid.UUID, req model.CreateProductRequest) (*model.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	store, err := s.productRepo.GetStoreByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		ID:          uuid.New(),
		StoreID:     store.ID,
		Name:        req.Name,
		Slug:        utils.GenerateSlug(req.Name),
		SKU:         req.SKU,
		Category:    req.Category,
		Variant:     req.Variant,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		IsActive:    true,
		Version:     1,
	}

	if err := s.productRepo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, ownerID, productID uuid.UUID, req model.UpdateProductRequest) (*model.Product, error) {
	store, err := s.productRepo.GetStoreByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.StoreID != store.ID {
		return nil, model.ErrProductNotFound
	}

	if req.Name != nil {
		product.Name = *req.Name
		product.Slug = utils.GenerateSlug(*req.Name)
	}
	if req.Variant != nil {
		product.Variant = *req.Variant
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			return nil, model.ErrInvalidPrice
		}
		product.Price = *req.Price
	}
	if req.Stock != nil && *req.Stock >= 0 {
		product.Stock = *req.Stock
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.productRepo.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, productID uuid.UUID) (*model.Product, error) {
	return s.productRepo.GetProductByID(ctx, productID)
}

func (s *productService) ListStoreProducts(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]model.Product, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.productRepo.ListProductsByStore(ctx, storeID, limit, offset)
}
