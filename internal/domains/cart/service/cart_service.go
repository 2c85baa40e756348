package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"opticsmarket-backend/internal/domains/cart/model"
	"opticsmarket-backend/internal/domains/cart/repository"
	productModel "opticsmarket-backend/internal/domains/product/model"
	productRepo "opticsmarket-backend/internal/domains/product/repository"
)

type CartService interface {
	AddItem(ctx context.Context, userID uuid.UUID, req model.AddItemRequest) (*model.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
	GetCart(ctx context.Context, userID uuid.UUID) (*model.CartView, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo productRepo.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, products productRepo.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: products,
	}
}

func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req model.AddItemRequest) (*model.CartItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, productModel.ErrProductInactive
	}
	if product.Stock < req.Quantity {
		return nil, productModel.ErrInsufficientStock
	}

	item := &model.CartItem{
		ID:                uuid.New(),
		UserID:            userID,
		ProductID:         req.ProductID,
		Quantity:          req.Quantity,
		LensConfiguration: req.LensConfiguration,
		Prescription:      req.Prescription,
	}

	if err := s.cartRepo.UpsertItem(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return model.ErrInvalidQuantity
	}
	return s.cartRepo.UpdateQuantity(ctx, userID, itemID, quantity)
}

func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	return s.cartRepo.RemoveItem(ctx, userID, itemID)
}

func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*model.CartView, error) {
	lines, err := s.cartRepo.ListLinesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	itemsTotal := decimal.Zero
	for i := range lines {
		itemsTotal = itemsTotal.Add(lines[i].LineTotal())
	}

	return &model.CartView{
		Lines:      lines,
		ItemsTotal: itemsTotal,
	}, nil
}
