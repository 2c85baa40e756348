package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opticsmarket-backend/internal/domains/cart/model"
	productModel "opticsmarket-backend/internal/domains/product/model"
)

type fakeCartRepo struct {
	items map[uuid.UUID]*model.CartItem
	// catalog lets ListLinesByUser join against product data.
	catalog map[uuid.UUID]*productModel.Product
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{
		items:   make(map[uuid.UUID]*model.CartItem),
		catalog: make(map[uuid.UUID]*productModel.Product),
	}
}

func (r *fakeCartRepo) UpsertItem(ctx context.Context, item *model.CartItem) error {
	for _, existing := range r.items {
		if existing.UserID == item.UserID && existing.ProductID == item.ProductID {
			existing.Quantity += item.Quantity
			*item = *existing
			return nil
		}
	}
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeCartRepo) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	item, ok := r.items[itemID]
	if !ok || item.UserID != userID {
		return model.ErrCartItemNotFound
	}
	item.Quantity = quantity
	return nil
}

func (r *fakeCartRepo) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	item, ok := r.items[itemID]
	if !ok || item.UserID != userID {
		return model.ErrCartItemNotFound
	}
	delete(r.items, itemID)
	return nil
}

func (r *fakeCartRepo) ListLinesByUser(ctx context.Context, userID uuid.UUID) ([]model.CartLine, error) {
	var out []model.CartLine
	for _, item := range r.items {
		if item.UserID != userID {
			continue
		}
		product := r.catalog[item.ProductID]
		out = append(out, model.CartLine{
			CartItem:      *item,
			ProductName:   product.Name,
			SKU:           product.SKU,
			UnitPrice:     product.Price,
			Stock:         product.Stock,
			ProductActive: product.IsActive,
			StoreID:       product.StoreID,
		})
	}
	return out, nil
}

func (r *fakeCartRepo) ListLinesByUserWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) ([]model.CartLine, error) {
	return r.ListLinesByUser(ctx, userID)
}

func (r *fakeCartRepo) ClearByUserWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	for id, item := range r.items {
		if item.UserID == userID {
			delete(r.items, id)
		}
	}
	return nil
}

type fakeProductCatalog struct {
	products map[uuid.UUID]*productModel.Product
}

func (r *fakeProductCatalog) CreateStore(ctx context.Context, store *productModel.Store) error {
	return nil
}

func (r *fakeProductCatalog) GetStoreByID(ctx context.Context, storeID uuid.UUID) (*productModel.Store, error) {
	return nil, productModel.ErrStoreNotFound
}

func (r *fakeProductCatalog) GetStoreByOwnerID(ctx context.Context, ownerID uuid.UUID) (*productModel.Store, error) {
	return nil, productModel.ErrStoreNotFound
}

func (r *fakeProductCatalog) GetStoresByIDs(ctx context.Context, storeIDs []uuid.UUID) (map[uuid.UUID]productModel.Store, error) {
	return nil, nil
}

func (r *fakeProductCatalog) CreateProduct(ctx context.Context, product *productModel.Product) error {
	return nil
}

func (r *fakeProductCatalog) UpdateProduct(ctx context.Context, product *productModel.Product) error {
	return nil
}

func (r *fakeProductCatalog) GetProductByID(ctx context.Context, productID uuid.UUID) (*productModel.Product, error) {
	product, ok := r.products[productID]
	if !ok {
		return nil, productModel.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (r *fakeProductCatalog) ListProductsByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]productModel.Product, error) {
	return nil, nil
}

func (r *fakeProductCatalog) GetProductByIDForUpdateWithTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID) (*productModel.Product, error) {
	return r.GetProductByID(ctx, productID)
}

func (r *fakeProductCatalog) DecrementStockWithTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int) error {
	return nil
}

func (r *fakeProductCatalog) RestockWithTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int) error {
	return nil
}

type cartFixture struct {
	carts    *fakeCartRepo
	products *fakeProductCatalog
	svc      CartService
	userID   uuid.UUID
}

func newCartFixture() *cartFixture {
	carts := newFakeCartRepo()
	products := &fakeProductCatalog{products: make(map[uuid.UUID]*productModel.Product)}
	carts.catalog = products.products
	return &cartFixture{
		carts:    carts,
		products: products,
		svc:      NewCartService(carts, products),
		userID:   uuid.New(),
	}
}

func (f *cartFixture) seedProduct(price string, stock int) uuid.UUID {
	productID := uuid.New()
	f.products.products[productID] = &productModel.Product{
		ID:       productID,
		StoreID:  uuid.New(),
		Name:     "Round Frame",
		SKU:      "RF-01",
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
	}
	return productID
}

func TestAddItemHappyPath(t *testing.T) {
	f := newCartFixture()
	productID := f.seedProduct("49.90", 5)

	item, err := f.svc.AddItem(context.Background(), f.userID, model.AddItemRequest{
		ProductID: productID,
		Quantity:  2,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, f.userID, item.UserID)
}

func TestAddItemMergesExistingLine(t *testing.T) {
	f := newCartFixture()
	productID := f.seedProduct("10", 20)

	_, err := f.svc.AddItem(context.Background(), f.userID, model.AddItemRequest{ProductID: productID, Quantity: 2})
	require.NoError(t, err)
	merged, err := f.svc.AddItem(context.Background(), f.userID, model.AddItemRequest{ProductID: productID, Quantity: 3})
	require.NoError(t, err)

	assert.Equal(t, 5, merged.Quantity)
	assert.Len(t, f.carts.items, 1)
}

func TestAddItemRejectsInactiveProduct(t *testing.T) {
	f := newCartFixture()
	productID := f.seedProduct("10", 5)
	f.products.products[productID].IsActive = false

	_, err := f.svc.AddItem(context.Background(), f.userID, model.AddItemRequest{ProductID: productID, Quantity: 1})
	assert.ErrorIs(t, err, productModel.ErrProductInactive)
}

func TestAddItemRejectsOverstockQuantity(t *testing.T) {
	f := newCartFixture()
	productID := f.seedProduct("10", 2)

	_, err := f.svc.AddItem(context.Background(), f.userID, model.AddItemRequest{ProductID: productID, Quantity: 3})
	assert.ErrorIs(t, err, productModel.ErrInsufficientStock)
}

func TestAddItemValidatesQuantityBounds(t *testing.T) {
	f := newCartFixture()
	productID := f.seedProduct("10", 100)

	_, err := f.svc.AddItem(context.Background(), f.userID, model.AddItemRequest{ProductID: productID, Quantity: 51})
	assert.Error(t, err)
}

func TestUpdateQuantityRejectsNonPositive(t *testing.T) {
	f := newCartFixture()

	err := f.svc.UpdateQuantity(context.Background(), f.userID, uuid.New(), 0)
	assert.ErrorIs(t, err, model.ErrInvalidQuantity)
}

func TestRemoveItemRequiresOwnership(t *testing.T) {
	f := newCartFixture()
	productID := f.seedProduct("10", 5)
	item, err := f.svc.AddItem(context.Background(), f.userID, model.AddItemRequest{ProductID: productID, Quantity: 1})
	require.NoError(t, err)

	err = f.svc.RemoveItem(context.Background(), uuid.New(), item.ID)
	assert.ErrorIs(t, err, model.ErrCartItemNotFound)

	require.NoError(t, f.svc.RemoveItem(context.Background(), f.userID, item.ID))
}

func TestGetCartSumsLineTotals(t *testing.T) {
	f := newCartFixture()
	frame := f.seedProduct("100.50", 5)
	lens := f.seedProduct("25", 5)

	_, err := f.svc.AddItem(context.Background(), f.userID, model.AddItemRequest{ProductID: frame, Quantity: 1})
	require.NoError(t, err)
	_, err = f.svc.AddItem(context.Background(), f.userID, model.AddItemRequest{ProductID: lens, Quantity: 2})
	require.NoError(t, err)

	view, err := f.svc.GetCart(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Len(t, view.Lines, 2)
	assert.Equal(t, "150.5", view.ItemsTotal.String())
}

func TestGetCartEmpty(t *testing.T) {
	f := newCartFixture()

	view, err := f.svc.GetCart(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.True(t, view.ItemsTotal.IsZero())
}
