package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	addressModel "opticsmarket-backend/internal/domains/address/model"
	cartModel "opticsmarket-backend/internal/domains/cart/model"
	couponModel "opticsmarket-backend/internal/domains/coupon/model"
	escrowModel "opticsmarket-backend/internal/domains/escrow/model"
	"opticsmarket-backend/internal/domains/order/model"
	pointsModel "opticsmarket-backend/internal/domains/points/model"
	productModel "opticsmarket-backend/internal/domains/product/model"
	userModel "opticsmarket-backend/internal/domains/user/model"
)

type fakeTx struct {
	pgx.Tx
}

// =====================================================
// IN-MEMORY WORLD
//
// All fakes share one world. The order repository owns the
// transaction, so BeginTx snapshots the whole world and RollbackTx
// restores it unless CommitTx ran. That mirrors how an aborted
// checkout leaves stock and cart untouched.
// =====================================================

type world struct {
	orders      map[uuid.UUID]*model.Order
	storeOrders map[uuid.UUID]*model.StoreOrder
	items       map[uuid.UUID][]model.OrderItem // by store order ID
	products    map[uuid.UUID]*productModel.Product
	stores      map[uuid.UUID]*productModel.Store
	cartLines   map[uuid.UUID][]cartModel.CartLine // by user ID
	users       map[uuid.UUID]*userModel.User
}

func newWorld() *world {
	return &world{
		orders:      make(map[uuid.UUID]*model.Order),
		storeOrders: make(map[uuid.UUID]*model.StoreOrder),
		items:       make(map[uuid.UUID][]model.OrderItem),
		products:    make(map[uuid.UUID]*productModel.Product),
		stores:      make(map[uuid.UUID]*productModel.Store),
		cartLines:   make(map[uuid.UUID][]cartModel.CartLine),
		users:       make(map[uuid.UUID]*userModel.User),
	}
}

func (w *world) clone() *world {
	out := newWorld()
	for id, order := range w.orders {
		copied := *order
		out.orders[id] = &copied
	}
	for id, so := range w.storeOrders {
		copied := *so
		out.storeOrders[id] = &copied
	}
	for id, items := range w.items {
		out.items[id] = append([]model.OrderItem(nil), items...)
	}
	for id, product := range w.products {
		copied := *product
		out.products[id] = &copied
	}
	for id, store := range w.stores {
		copied := *store
		out.stores[id] = &copied
	}
	for id, lines := range w.cartLines {
		out.cartLines[id] = append([]cartModel.CartLine(nil), lines...)
	}
	for id, user := range w.users {
		copied := *user
		out.users[id] = &copied
	}
	return out
}

// =====================================================
// REPOSITORY FAKES
// =====================================================

type fakeOrderRepo struct {
	w         *world
	snap      *world
	committed bool
	// parentLocks counts FOR UPDATE fetches of the parent order row.
	parentLocks int
}

func (r *fakeOrderRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	r.snap = r.w.clone()
	r.committed = false
	return fakeTx{}, nil
}

func (r *fakeOrderRepo) CommitTx(ctx context.Context, tx pgx.Tx) error {
	r.committed = true
	r.snap = nil
	return nil
}

func (r *fakeOrderRepo) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	if !r.committed && r.snap != nil {
		*r.w = *r.snap
	}
	r.snap = nil
	return nil
}

func (r *fakeOrderRepo) CreateOrderWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	copied := *order
	r.w.orders[order.ID] = &copied
	return nil
}

func (r *fakeOrderRepo) UpdateOrderTotalsWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	stored, ok := r.w.orders[order.ID]
	if !ok {
		return model.ErrOrderNotFound
	}
	stored.ItemsTotal = order.ItemsTotal
	stored.ShippingTotal = order.ShippingTotal
	stored.DiscountTotal = order.DiscountTotal
	stored.GrandTotal = order.GrandTotal
	stored.Metadata = order.Metadata
	return nil
}

func (r *fakeOrderRepo) UpdateOrderPaymentStatusWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, status model.PaymentStatus) error {
	stored, ok := r.w.orders[orderID]
	if !ok {
		return model.ErrOrderNotFound
	}
	stored.PaymentStatus = status
	return nil
}

func (r *fakeOrderRepo) CreateStoreOrderWithTx(ctx context.Context, tx pgx.Tx, storeOrder *model.StoreOrder) error {
	copied := *storeOrder
	r.w.storeOrders[storeOrder.ID] = &copied
	return nil
}

func (r *fakeOrderRepo) CreateOrderItemsWithTx(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	for _, item := range items {
		r.w.items[item.StoreOrderID] = append(r.w.items[item.StoreOrderID], item)
	}
	return nil
}

func (r *fakeOrderRepo) GetStoreOrderByIDForUpdateWithTx(ctx context.Context, tx pgx.Tx, storeOrderID uuid.UUID) (*model.StoreOrder, error) {
	stored, ok := r.w.storeOrders[storeOrderID]
	if !ok {
		return nil, model.ErrStoreOrderNotFound
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeOrderRepo) UpdateStoreOrderWithTx(ctx context.Context, tx pgx.Tx, storeOrder *model.StoreOrder) error {
	if _, ok := r.w.storeOrders[storeOrder.ID]; !ok {
		return model.ErrStoreOrderNotFound
	}
	copied := *storeOrder
	r.w.storeOrders[storeOrder.ID] = &copied
	return nil
}

func (r *fakeOrderRepo) CountSiblingsAwaitingPaymentWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (int, error) {
	count := 0
	for _, so := range r.w.storeOrders {
		if so.OrderID == orderID &&
			(so.Status == model.StoreOrderPending || so.Status == model.StoreOrderAccepted) {
			count++
		}
	}
	return count, nil
}

func (r *fakeOrderRepo) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	stored, ok := r.w.orders[orderID]
	if !ok {
		return nil, model.ErrOrderNotFound
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeOrderRepo) GetOrderByIDWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (*model.Order, error) {
	return r.GetOrderByID(ctx, orderID)
}

func (r *fakeOrderRepo) GetOrderByIDForUpdateWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (*model.Order, error) {
	r.parentLocks++
	return r.GetOrderByID(ctx, orderID)
}

func (r *fakeOrderRepo) GetStoreOrderByID(ctx context.Context, storeOrderID uuid.UUID) (*model.StoreOrder, error) {
	stored, ok := r.w.storeOrders[storeOrderID]
	if !ok {
		return nil, model.ErrStoreOrderNotFound
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeOrderRepo) ListStoreOrdersByOrder(ctx context.Context, orderID uuid.UUID) ([]model.StoreOrder, error) {
	var out []model.StoreOrder
	for _, so := range r.w.storeOrders {
		if so.OrderID == orderID {
			out = append(out, *so)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ListItemsByStoreOrder(ctx context.Context, storeOrderID uuid.UUID) ([]model.OrderItem, error) {
	return append([]model.OrderItem(nil), r.w.items[storeOrderID]...), nil
}

func (r *fakeOrderRepo) ListOrdersByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]model.Order, error) {
	var out []model.Order
	for _, order := range r.w.orders {
		if order.BuyerID == buyerID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ListStoreOrdersByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]model.StoreOrder, error) {
	var out []model.StoreOrder
	for _, so := range r.w.storeOrders {
		if so.StoreID == storeID {
			out = append(out, *so)
		}
	}
	return out, nil
}

type fakeCartRepo struct {
	w *world
}

func (r *fakeCartRepo) UpsertItem(ctx context.Context, item *cartModel.CartItem) error { return nil }

func (r *fakeCartRepo) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	return nil
}

func (r *fakeCartRepo) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error { return nil }

func (r *fakeCartRepo) ListLinesByUser(ctx context.Context, userID uuid.UUID) ([]cartModel.CartLine, error) {
	return append([]cartModel.CartLine(nil), r.w.cartLines[userID]...), nil
}

func (r *fakeCartRepo) ListLinesByUserWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) ([]cartModel.CartLine, error) {
	return r.ListLinesByUser(ctx, userID)
}

func (r *fakeCartRepo) ClearByUserWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	delete(r.w.cartLines, userID)
	return nil
}

type fakeProductRepo struct {
	w *world
}

func (r *fakeProductRepo) CreateStore(ctx context.Context, store *productModel.Store) error {
	copied := *store
	r.w.stores[store.ID] = &copied
	return nil
}

func (r *fakeProductRepo) GetStoreByID(ctx context.Context, storeID uuid.UUID) (*productModel.Store, error) {
	store, ok := r.w.stores[storeID]
	if !ok {
		return nil, productModel.ErrStoreNotFound
	}
	copied := *store
	return &copied, nil
}

func (r *fakeProductRepo) GetStoreByOwnerID(ctx context.Context, ownerID uuid.UUID) (*productModel.Store, error) {
	for _, store := range r.w.stores {
		if store.OwnerID == ownerID {
			copied := *store
			return &copied, nil
		}
	}
	return nil, productModel.ErrStoreNotFound
}

func (r *fakeProductRepo) GetStoresByIDs(ctx context.Context, storeIDs []uuid.UUID) (map[uuid.UUID]productModel.Store, error) {
	out := make(map[uuid.UUID]productModel.Store, len(storeIDs))
	for _, id := range storeIDs {
		if store, ok := r.w.stores[id]; ok {
			out[id] = *store
		}
	}
	return out, nil
}

func (r *fakeProductRepo) CreateProduct(ctx context.Context, product *productModel.Product) error {
	copied := *product
	r.w.products[product.ID] = &copied
	return nil
}

func (r *fakeProductRepo) UpdateProduct(ctx context.Context, product *productModel.Product) error {
	copied := *product
	r.w.products[product.ID] = &copied
	return nil
}

func (r *fakeProductRepo) GetProductByID(ctx context.Context, productID uuid.UUID) (*productModel.Product, error) {
	product, ok := r.w.products[productID]
	if !ok {
		return nil, productModel.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (r *fakeProductRepo) ListProductsByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]productModel.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) GetProductByIDForUpdateWithTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID) (*productModel.Product, error) {
	return r.GetProductByID(ctx, productID)
}

func (r *fakeProductRepo) DecrementStockWithTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int) error {
	product, ok := r.w.products[productID]
	if !ok {
		return productModel.ErrProductNotFound
	}
	if product.Stock < quantity {
		return productModel.ErrInsufficientStock
	}
	product.Stock -= quantity
	return nil
}

func (r *fakeProductRepo) RestockWithTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int) error {
	product, ok := r.w.products[productID]
	if !ok {
		return productModel.ErrProductNotFound
	}
	product.Stock += quantity
	return nil
}

type fakeUserRepo struct {
	w *world
}

func (r *fakeUserRepo) Create(ctx context.Context, user *userModel.User) error {
	copied := *user
	r.w.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*userModel.User, error) {
	for _, user := range r.w.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, userModel.ErrUserNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*userModel.User, error) {
	user, ok := r.w.users[id]
	if !ok {
		return nil, userModel.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *userModel.User) error {
	copied := *user
	r.w.users[user.ID] = &copied
	return nil
}

// =====================================================
// SERVICE STUBS
// =====================================================

type stubAddressService struct {
	addresses map[uuid.UUID]*addressModel.Address // by address ID
}

func (s *stubAddressService) CreateAddress(ctx context.Context, userID uuid.UUID, req addressModel.CreateAddressRequest) (*addressModel.Address, error) {
	return nil, nil
}

func (s *stubAddressService) UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, req addressModel.UpdateAddressRequest) (*addressModel.Address, error) {
	return nil, nil
}

func (s *stubAddressService) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	return nil
}

func (s *stubAddressService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]addressModel.Address, error) {
	return nil, nil
}

func (s *stubAddressService) SetDefault(ctx context.Context, userID, addressID uuid.UUID) error {
	return nil
}

func (s *stubAddressService) Resolve(ctx context.Context, userID, addressID uuid.UUID) (*addressModel.Address, error) {
	address, ok := s.addresses[addressID]
	if !ok || address.UserID != userID {
		return nil, addressModel.ErrAddressNotFound
	}
	return address, nil
}

type redeemedCoupon struct {
	orderID  uuid.UUID
	discount decimal.Decimal
}

type stubCouponService struct {
	coupon       *couponModel.Coupon
	discount     decimal.Decimal
	validateErr  error
	seenSubtotal decimal.Decimal
	redeemed     []redeemedCoupon
}

func (s *stubCouponService) ValidateForCheckoutWithTx(ctx context.Context, tx pgx.Tx, code string, userID uuid.UUID, subtotal decimal.Decimal) (*couponModel.Coupon, decimal.Decimal, error) {
	s.seenSubtotal = subtotal
	if s.validateErr != nil {
		return nil, decimal.Zero, s.validateErr
	}
	return s.coupon, s.discount, nil
}

func (s *stubCouponService) RedeemWithTx(ctx context.Context, tx pgx.Tx, coupon *couponModel.Coupon, userID, orderID uuid.UUID, discount decimal.Decimal) error {
	s.redeemed = append(s.redeemed, redeemedCoupon{orderID: orderID, discount: discount})
	return nil
}

func (s *stubCouponService) CreateCoupon(ctx context.Context, req couponModel.CreateCouponRequest) (*couponModel.Coupon, error) {
	return nil, nil
}

func (s *stubCouponService) GetCoupon(ctx context.Context, code string) (*couponModel.Coupon, error) {
	return nil, couponModel.ErrCouponNotFound
}

func (s *stubCouponService) ListCoupons(ctx context.Context, limit, offset int) ([]couponModel.Coupon, error) {
	return nil, nil
}

func (s *stubCouponService) UpdateCoupon(ctx context.Context, id uuid.UUID, req couponModel.UpdateCouponRequest) (*couponModel.Coupon, error) {
	return nil, couponModel.ErrCouponNotFound
}

type earnCall struct {
	orderID uuid.UUID
	basis   decimal.Decimal
}

type stubPointsService struct {
	redeemResult    *pointsModel.RedemptionResult
	redeemErr       error
	seenRequested   decimal.Decimal
	seenMaxDiscount decimal.Decimal
	earns           []earnCall
	attached        []uuid.UUID
}

func (s *stubPointsService) GetBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (s *stubPointsService) GetAvailablePoints(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (s *stubPointsService) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]pointsModel.PointTransaction, error) {
	return nil, nil
}

func (s *stubPointsService) EarnFromPurchaseWithTx(ctx context.Context, tx pgx.Tx, userID, orderID uuid.UUID, itemsTotal decimal.Decimal) (decimal.Decimal, error) {
	s.earns = append(s.earns, earnCall{orderID: orderID, basis: itemsTotal})
	return decimal.Zero, nil
}

func (s *stubPointsService) EarnFromReferral(ctx context.Context, userID, referredUserID uuid.UUID) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (s *stubPointsService) EarnFromReview(ctx context.Context, userID, reviewID uuid.UUID) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (s *stubPointsService) EarnSignupBonus(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (s *stubPointsService) RedeemPointsWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, requestedPoints, maxDiscount decimal.Decimal) (*pointsModel.RedemptionResult, error) {
	s.seenRequested = requestedPoints
	s.seenMaxDiscount = maxDiscount
	if s.redeemErr != nil {
		return nil, s.redeemErr
	}
	return s.redeemResult, nil
}

func (s *stubPointsService) AttachOrderReferenceWithTx(ctx context.Context, tx pgx.Tx, walletID, orderID uuid.UUID) error {
	s.attached = append(s.attached, orderID)
	return nil
}

func (s *stubPointsService) ExpireDuePoints(ctx context.Context, batchSize int) (int, error) {
	return 0, nil
}

func (s *stubPointsService) CreateRule(ctx context.Context, rule *pointsModel.PointRule) error {
	return nil
}

func (s *stubPointsService) UpdateRule(ctx context.Context, id uuid.UUID, req pointsModel.UpdatePointRuleRequest) (*pointsModel.PointRule, error) {
	return nil, pointsModel.ErrRuleNotFound
}

func (s *stubPointsService) ListRules(ctx context.Context) ([]pointsModel.PointRule, error) {
	return nil, nil
}

type lockCall struct {
	storeOrderID uuid.UUID
	storeID      uuid.UUID
	sellerID     uuid.UUID
	buyerID      uuid.UUID
	amount       decimal.Decimal
}

type stubEscrowService struct {
	locks      []lockCall
	lockErr    error
	released   []uuid.UUID
	releaseErr error
}

func (s *stubEscrowService) LockFundsWithTx(ctx context.Context, tx pgx.Tx, storeOrderID, storeID, sellerID, buyerID uuid.UUID, amount decimal.Decimal) (*escrowModel.EscrowTransaction, error) {
	if s.lockErr != nil {
		return nil, s.lockErr
	}
	s.locks = append(s.locks, lockCall{
		storeOrderID: storeOrderID,
		storeID:      storeID,
		sellerID:     sellerID,
		buyerID:      buyerID,
		amount:       amount,
	})
	return &escrowModel.EscrowTransaction{StoreOrderID: storeOrderID, Amount: amount}, nil
}

func (s *stubEscrowService) ReleaseWithTx(ctx context.Context, tx pgx.Tx, storeOrderID uuid.UUID) (*escrowModel.EscrowTransaction, error) {
	if s.releaseErr != nil {
		return nil, s.releaseErr
	}
	s.released = append(s.released, storeOrderID)
	return &escrowModel.EscrowTransaction{StoreOrderID: storeOrderID}, nil
}

func (s *stubEscrowService) RefundWithTx(ctx context.Context, tx pgx.Tx, storeOrderID uuid.UUID) (*escrowModel.EscrowTransaction, error) {
	return nil, escrowModel.ErrEscrowNotFound
}

func (s *stubEscrowService) GetByStoreOrderID(ctx context.Context, storeOrderID uuid.UUID) (*escrowModel.EscrowTransaction, error) {
	return nil, escrowModel.ErrEscrowNotFound
}

func (s *stubEscrowService) GetLockedBalanceForBuyer(ctx context.Context, buyerID uuid.UUID) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (s *stubEscrowService) GetLockedBalanceForStore(ctx context.Context, storeID uuid.UUID) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (s *stubEscrowService) ListByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]escrowModel.EscrowTransaction, error) {
	return nil, nil
}

// =====================================================
// FIXTURE
// =====================================================

type orderFixture struct {
	w       *world
	orders  *fakeOrderRepo
	coupons *stubCouponService
	points  *stubPointsService
	escrow  *stubEscrowService
	addrs   *stubAddressService
	svc     OrderService

	buyerID   uuid.UUID
	addressID uuid.UUID
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	w := newWorld()
	orders := &fakeOrderRepo{w: w}
	coupons := &stubCouponService{}
	points := &stubPointsService{}
	escrow := &stubEscrowService{}
	addrs := &stubAddressService{addresses: make(map[uuid.UUID]*addressModel.Address)}

	buyerID := uuid.New()
	w.users[buyerID] = &userModel.User{
		ID:       buyerID,
		Email:    "buyer@example.com",
		FullName: "Test Buyer",
		Role:     userModel.RoleBuyer,
		IsActive: true,
	}

	addressID := uuid.New()
	addrs.addresses[addressID] = &addressModel.Address{
		ID:     addressID,
		UserID: buyerID,
		City:   "Hanoi",
	}

	svc := NewOrderService(
		orders,
		&fakeCartRepo{w: w},
		&fakeProductRepo{w: w},
		&fakeUserRepo{w: w},
		addrs,
		coupons,
		points,
		escrow,
		nil,
		6,
	)

	return &orderFixture{
		w:         w,
		orders:    orders,
		coupons:   coupons,
		points:    points,
		escrow:    escrow,
		addrs:     addrs,
		svc:       svc,
		buyerID:   buyerID,
		addressID: addressID,
	}
}

// addStore seeds a seller with a store and returns both IDs.
func (f *orderFixture) addStore(name string) (sellerID, storeID uuid.UUID) {
	sellerID = uuid.New()
	storeID = uuid.New()
	f.w.users[sellerID] = &userModel.User{
		ID:       sellerID,
		Email:    name + "@example.com",
		FullName: name,
		Role:     userModel.RoleSeller,
		IsActive: true,
	}
	f.w.stores[storeID] = &productModel.Store{
		ID:       storeID,
		OwnerID:  sellerID,
		Name:     name,
		IsActive: true,
	}
	return sellerID, storeID
}

func (f *orderFixture) addProduct(storeID uuid.UUID, price string, stock int) uuid.UUID {
	productID := uuid.New()
	f.w.products[productID] = &productModel.Product{
		ID:       productID,
		StoreID:  storeID,
		Name:     "Aviator Frame",
		SKU:      "SKU-" + productID.String()[:8],
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
	}
	return productID
}

func (f *orderFixture) addCartLine(productID uuid.UUID, quantity int) {
	product := f.w.products[productID]
	store := f.w.stores[product.StoreID]
	line := cartModel.CartLine{
		CartItem: cartModel.CartItem{
			ID:        uuid.New(),
			UserID:    f.buyerID,
			ProductID: productID,
			Quantity:  quantity,
		},
		ProductName:   product.Name,
		SKU:           product.SKU,
		UnitPrice:     product.Price,
		Stock:         product.Stock,
		ProductActive: product.IsActive,
		StoreID:       product.StoreID,
		StoreName:     store.Name,
	}
	f.w.cartLines[f.buyerID] = append(f.w.cartLines[f.buyerID], line)
}

func (f *orderFixture) placeOrder(t *testing.T, req model.PlaceOrderRequest) *model.OrderDetail {
	t.Helper()
	if req.AddressID == "" {
		req.AddressID = f.addressID.String()
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "card"
	}
	detail, err := f.svc.PlaceOrder(context.Background(), f.buyerID, req)
	require.NoError(t, err)
	return detail
}

// placePaidStoreOrder walks one store order to the paid state and
// returns it along with the seller who owns it.
func (f *orderFixture) placePaidStoreOrder(t *testing.T) (uuid.UUID, *model.StoreOrder) {
	t.Helper()
	sellerID, storeID := f.addStore("Optica")
	productID := f.addProduct(storeID, "100", 10)
	f.addCartLine(productID, 1)

	detail := f.placeOrder(t, model.PlaceOrderRequest{})
	storeOrderID := detail.StoreOrders[0].ID

	_, err := f.svc.AcceptStoreOrder(context.Background(), sellerID, storeOrderID, model.AcceptStoreOrderRequest{
		DeliveryFee: decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	paid, err := f.svc.PayStoreOrder(context.Background(), f.buyerID, storeOrderID)
	require.NoError(t, err)
	return sellerID, paid
}

// =====================================================
// CHECKOUT TESTS
// =====================================================

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.PlaceOrder(context.Background(), f.buyerID, model.PlaceOrderRequest{
		AddressID:     f.addressID.String(),
		PaymentMethod: "card",
	})
	assert.ErrorIs(t, err, model.ErrCartEmpty)
	assert.Empty(t, f.w.orders)
}

func TestPlaceOrderRejectsForeignAddress(t *testing.T) {
	f := newOrderFixture(t)
	_, storeID := f.addStore("Optica")
	f.addCartLine(f.addProduct(storeID, "50", 5), 1)

	otherAddress := uuid.New()
	f.addrs.addresses[otherAddress] = &addressModel.Address{ID: otherAddress, UserID: uuid.New()}

	_, err := f.svc.PlaceOrder(context.Background(), f.buyerID, model.PlaceOrderRequest{
		AddressID:     otherAddress.String(),
		PaymentMethod: "card",
	})
	assert.ErrorIs(t, err, addressModel.ErrAddressNotFound)
}

func TestPlaceOrderSplitsByStore(t *testing.T) {
	f := newOrderFixture(t)
	_, firstStore := f.addStore("Optica One")
	_, secondStore := f.addStore("Optica Two")

	frame := f.addProduct(firstStore, "120.50", 10)
	lens := f.addProduct(firstStore, "30", 10)
	case1 := f.addProduct(secondStore, "15.25", 10)

	f.addCartLine(frame, 1)
	f.addCartLine(lens, 2)
	f.addCartLine(case1, 4)

	detail := f.placeOrder(t, model.PlaceOrderRequest{})

	// 120.50 + 60 + 61 = 241.50, undiscounted.
	assert.Equal(t, "241.5", detail.Order.ItemsTotal.String())
	assert.Equal(t, "241.5", detail.Order.GrandTotal.String())
	assert.True(t, detail.Order.DiscountTotal.IsZero())
	assert.Equal(t, model.PaymentStatusPending, detail.Order.PaymentStatus)
	assert.NotEmpty(t, detail.Order.OrderNumber)

	require.Len(t, detail.StoreOrders, 2)
	first := detail.StoreOrders[0]
	second := detail.StoreOrders[1]

	// Stores come out in first-seen cart order.
	assert.Equal(t, firstStore, first.StoreID)
	assert.Equal(t, "180.5", first.Subtotal.String())
	assert.Len(t, first.Items, 2)
	assert.Equal(t, secondStore, second.StoreID)
	assert.Equal(t, "61", second.Subtotal.String())
	assert.Len(t, second.Items, 1)

	// Every store order gets its own delivery code.
	assert.Len(t, first.DeliveryCode, 6)
	assert.Len(t, second.DeliveryCode, 6)
	assert.NotEqual(t, first.DeliveryCode, second.DeliveryCode)
	assert.Equal(t, model.StoreOrderPending, first.Status)

	// Stock was claimed and the cart cleared.
	assert.Equal(t, 9, f.w.products[frame].Stock)
	assert.Equal(t, 8, f.w.products[lens].Stock)
	assert.Equal(t, 6, f.w.products[case1].Stock)
	assert.Empty(t, f.w.cartLines[f.buyerID])
}

func TestPlaceOrderItemSnapshots(t *testing.T) {
	f := newOrderFixture(t)
	_, storeID := f.addStore("Optica")
	productID := f.addProduct(storeID, "75", 10)
	f.addCartLine(productID, 2)

	detail := f.placeOrder(t, model.PlaceOrderRequest{})

	require.Len(t, detail.StoreOrders, 1)
	require.Len(t, detail.StoreOrders[0].Items, 1)
	item := detail.StoreOrders[0].Items[0]
	assert.Equal(t, productID, item.ProductID)
	assert.Equal(t, "Aviator Frame", item.ProductName)
	assert.Equal(t, "75", item.UnitPrice.String())
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, "150", item.LineTotal.String())
}

func TestPlaceOrderInsufficientStockRollsBack(t *testing.T) {
	f := newOrderFixture(t)
	_, storeID := f.addStore("Optica")
	plenty := f.addProduct(storeID, "10", 10)
	scarce := f.addProduct(storeID, "20", 1)
	f.addCartLine(plenty, 2)
	f.addCartLine(scarce, 3)

	_, err := f.svc.PlaceOrder(context.Background(), f.buyerID, model.PlaceOrderRequest{
		AddressID:     f.addressID.String(),
		PaymentMethod: "card",
	})
	assert.ErrorIs(t, err, productModel.ErrInsufficientStock)

	// Nothing stuck: no order, claimed stock restored, cart intact.
	assert.Empty(t, f.w.orders)
	assert.Equal(t, 10, f.w.products[plenty].Stock)
	assert.Equal(t, 1, f.w.products[scarce].Stock)
	assert.Len(t, f.w.cartLines[f.buyerID], 2)
}

func TestPlaceOrderInactiveProduct(t *testing.T) {
	f := newOrderFixture(t)
	_, storeID := f.addStore("Optica")
	productID := f.addProduct(storeID, "10", 10)
	f.addCartLine(productID, 1)
	f.w.products[productID].IsActive = false

	_, err := f.svc.PlaceOrder(context.Background(), f.buyerID, model.PlaceOrderRequest{
		AddressID:     f.addressID.String(),
		PaymentMethod: "card",
	})
	assert.ErrorIs(t, err, model.ErrProductUnavailable)
	assert.Empty(t, f.w.orders)
}

func TestPlaceOrderAppliesCoupon(t *testing.T) {
	f := newOrderFixture(t)
	_, storeID := f.addStore("Optica")
	f.addCartLine(f.addProduct(storeID, "100", 10), 1)

	couponID := uuid.New()
	f.coupons.coupon = &couponModel.Coupon{ID: couponID, Code: "SAVE10"}
	f.coupons.discount = decimal.NewFromInt(10)

	detail := f.placeOrder(t, model.PlaceOrderRequest{CouponCode: "save10"})

	assert.Equal(t, "100", f.coupons.seenSubtotal.String())
	assert.Equal(t, "10", detail.Order.DiscountTotal.String())
	assert.Equal(t, "90", detail.Order.GrandTotal.String())
	require.NotNil(t, detail.Order.Metadata.CouponID)
	assert.Equal(t, couponID, *detail.Order.Metadata.CouponID)
	assert.Equal(t, "SAVE10", detail.Order.Metadata.CouponCode)

	// The usage audit row was recorded against this order.
	require.Len(t, f.coupons.redeemed, 1)
	assert.Equal(t, detail.Order.ID, f.coupons.redeemed[0].orderID)
	assert.Equal(t, "10", f.coupons.redeemed[0].discount.String())

	// Store order totals stay undiscounted; discounts are order-level.
	assert.Equal(t, "100", detail.StoreOrders[0].Subtotal.String())
}

func TestPlaceOrderCouponRejectionAborts(t *testing.T) {
	f := newOrderFixture(t)
	_, storeID := f.addStore("Optica")
	productID := f.addProduct(storeID, "100", 10)
	f.addCartLine(productID, 1)
	f.coupons.validateErr = couponModel.ErrCouponExpired

	_, err := f.svc.PlaceOrder(context.Background(), f.buyerID, model.PlaceOrderRequest{
		AddressID:     f.addressID.String(),
		PaymentMethod: "card",
		CouponCode:    "DEAD",
	})
	assert.ErrorIs(t, err, couponModel.ErrCouponExpired)

	// The whole checkout rolled back.
	assert.Empty(t, f.w.orders)
	assert.Equal(t, 10, f.w.products[productID].Stock)
	assert.Len(t, f.w.cartLines[f.buyerID], 1)
}

func TestPlaceOrderRedeemsPointsAfterCoupon(t *testing.T) {
	f := newOrderFixture(t)
	_, storeID := f.addStore("Optica")
	f.addCartLine(f.addProduct(storeID, "100", 10), 1)

	f.coupons.coupon = &couponModel.Coupon{ID: uuid.New(), Code: "SAVE30"}
	f.coupons.discount = decimal.NewFromInt(30)

	walletID := uuid.New()
	f.points.redeemResult = &pointsModel.RedemptionResult{
		WalletID:       walletID,
		PointsUsed:     decimal.NewFromInt(200),
		DiscountAmount: decimal.NewFromInt(20),
	}

	detail := f.placeOrder(t, model.PlaceOrderRequest{
		CouponCode:     "SAVE30",
		PointsToRedeem: decimal.NewFromInt(500),
	})

	// The points discount ceiling is what remains after the coupon.
	assert.Equal(t, "500", f.points.seenRequested.String())
	assert.Equal(t, "70", f.points.seenMaxDiscount.String())

	assert.Equal(t, "50", detail.Order.DiscountTotal.String())
	assert.Equal(t, "50", detail.Order.GrandTotal.String())
	assert.Equal(t, "200", detail.Order.Metadata.PointsRedeemed.String())
	assert.Equal(t, "20", detail.Order.Metadata.PointsDiscount.String())

	// The redemption ledger entry was linked back to the order.
	require.Len(t, f.points.attached, 1)
	assert.Equal(t, detail.Order.ID, f.points.attached[0])
}

func TestPlaceOrderInsufficientPointsAborts(t *testing.T) {
	f := newOrderFixture(t)
	_, storeID := f.addStore("Optica")
	productID := f.addProduct(storeID, "100", 10)
	f.addCartLine(productID, 1)
	f.points.redeemErr = pointsModel.ErrInsufficientPoints

	_, err := f.svc.PlaceOrder(context.Background(), f.buyerID, model.PlaceOrderRequest{
		AddressID:      f.addressID.String(),
		PaymentMethod:  "card",
		PointsToRedeem: decimal.NewFromInt(999),
	})
	assert.ErrorIs(t, err, pointsModel.ErrInsufficientPoints)
	assert.Empty(t, f.w.orders)
	assert.Equal(t, 10, f.w.products[productID].Stock)
}

// =====================================================
// TRANSITION TESTS
// =====================================================

func TestAcceptStoreOrderSetsFeeAndTotal(t *testing.T) {
	f := newOrderFixture(t)
	sellerID, storeID := f.addStore("Optica")
	f.addCartLine(f.addProduct(storeID, "100", 10), 1)
	detail := f.placeOrder(t, model.PlaceOrderRequest{})
	storeOrderID := detail.StoreOrders[0].ID

	accepted, err := f.svc.AcceptStoreOrder(context.Background(), sellerID, storeOrderID, model.AcceptStoreOrderRequest{
		DeliveryFee:    decimal.RequireFromString("7.5"),
		DeliveryMethod: "courier",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StoreOrderAccepted, accepted.Status)
	assert.Equal(t, "7.5", accepted.DeliveryFee.String())
	assert.Equal(t, "107.5", accepted.Total.String())
	assert.Equal(t, "courier", accepted.DeliveryMethod)
	require.NotNil(t, accepted.AcceptedAt)
}

func TestAcceptStoreOrderWrongSeller(t *testing.T) {
	f := newOrderFixture(t)
	_, storeID := f.addStore("Optica")
	intruderID, _ := f.addStore("Rival")
	f.addCartLine(f.addProduct(storeID, "100", 10), 1)
	detail := f.placeOrder(t, model.PlaceOrderRequest{})

	_, err := f.svc.AcceptStoreOrder(context.Background(), intruderID, detail.StoreOrders[0].ID, model.AcceptStoreOrderRequest{
		DeliveryFee: decimal.Zero,
	})
	assert.ErrorIs(t, err, model.ErrNotStoreOrder)

	// The store order is untouched.
	assert.Equal(t, model.StoreOrderPending, f.w.storeOrders[detail.StoreOrders[0].ID].Status)
}

func TestRejectStoreOrderRestocks(t *testing.T) {
	f := newOrderFixture(t)
	sellerID, storeID := f.addStore("Optica")
	productID := f.addProduct(storeID, "100", 10)
	f.addCartLine(productID, 3)
	detail := f.placeOrder(t, model.PlaceOrderRequest{})
	require.Equal(t, 7, f.w.products[productID].Stock)

	rejected, err := f.svc.RejectStoreOrder(context.Background(), sellerID, detail.StoreOrders[0].ID, "out of frames")
	require.NoError(t, err)
	assert.Equal(t, model.StoreOrderRejected, rejected.Status)
	assert.Equal(t, "out of frames", rejected.RejectionReason)
	assert.Equal(t, 10, f.w.products[productID].Stock)
}

func TestRejectAfterPaymentNotAllowed(t *testing.T) {
	f := newOrderFixture(t)
	sellerID, paid := f.placePaidStoreOrder(t)

	_, err := f.svc.RejectStoreOrder(context.Background(), sellerID, paid.ID, "changed my mind")
	assert.ErrorIs(t, err, model.ErrInvalidStatusTransition)
}

func TestPayStoreOrderLocksEscrow(t *testing.T) {
	f := newOrderFixture(t)
	sellerID, storeID := f.addStore("Optica")
	f.addCartLine(f.addProduct(storeID, "100", 10), 1)
	detail := f.placeOrder(t, model.PlaceOrderRequest{})
	storeOrderID := detail.StoreOrders[0].ID

	_, err := f.svc.AcceptStoreOrder(context.Background(), sellerID, storeOrderID, model.AcceptStoreOrderRequest{
		DeliveryFee: decimal.NewFromInt(8),
	})
	require.NoError(t, err)

	paid, err := f.svc.PayStoreOrder(context.Background(), f.buyerID, storeOrderID)
	require.NoError(t, err)
	assert.Equal(t, model.StoreOrderPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)

	// Escrow holds the accepted total including the delivery fee.
	require.Len(t, f.escrow.locks, 1)
	lock := f.escrow.locks[0]
	assert.Equal(t, storeOrderID, lock.storeOrderID)
	assert.Equal(t, storeID, lock.storeID)
	assert.Equal(t, sellerID, lock.sellerID)
	assert.Equal(t, f.buyerID, lock.buyerID)
	assert.Equal(t, "108", lock.amount.String())
}

func TestPayBeforeAcceptNotAllowed(t *testing.T) {
	f := newOrderFixture(t)
	_, storeID := f.addStore("Optica")
	f.addCartLine(f.addProduct(storeID, "100", 10), 1)
	detail := f.placeOrder(t, model.PlaceOrderRequest{})

	_, err := f.svc.PayStoreOrder(context.Background(), f.buyerID, detail.StoreOrders[0].ID)
	assert.ErrorIs(t, err, model.ErrInvalidStatusTransition)
	assert.Empty(t, f.escrow.locks)
}

func TestPayStoreOrderByOtherUserNotFound(t *testing.T) {
	f := newOrderFixture(t)
	sellerID, storeID := f.addStore("Optica")
	f.addCartLine(f.addProduct(storeID, "100", 10), 1)
	detail := f.placeOrder(t, model.PlaceOrderRequest{})
	storeOrderID := detail.StoreOrders[0].ID

	_, err := f.svc.AcceptStoreOrder(context.Background(), sellerID, storeOrderID, model.AcceptStoreOrderRequest{
		DeliveryFee: decimal.Zero,
	})
	require.NoError(t, err)

	// Someone else's order reads as missing, without revealing its state.
	_, err = f.svc.PayStoreOrder(context.Background(), uuid.New(), storeOrderID)
	assert.ErrorIs(t, err, model.ErrStoreOrderNotFound)
	assert.Empty(t, f.escrow.locks)
	assert.Equal(t, model.StoreOrderAccepted, f.w.storeOrders[storeOrderID].Status)
}

func TestParentPaymentStatusFollowsSiblings(t *testing.T) {
	f := newOrderFixture(t)
	firstSeller, firstStore := f.addStore("Optica One")
	secondSeller, secondStore := f.addStore("Optica Two")
	f.addCartLine(f.addProduct(firstStore, "50", 10), 1)
	f.addCartLine(f.addProduct(secondStore, "60", 10), 1)
	detail := f.placeOrder(t, model.PlaceOrderRequest{})
	firstID := detail.StoreOrders[0].ID
	secondID := detail.StoreOrders[1].ID

	accept := func(sellerID, storeOrderID uuid.UUID) {
		_, err := f.svc.AcceptStoreOrder(context.Background(), sellerID, storeOrderID, model.AcceptStoreOrderRequest{
			DeliveryFee: decimal.Zero,
		})
		require.NoError(t, err)
	}
	accept(firstSeller, firstID)
	accept(secondSeller, secondID)

	_, err := f.svc.PayStoreOrder(context.Background(), f.buyerID, firstID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, f.w.orders[detail.Order.ID].PaymentStatus)

	_, err = f.svc.PayStoreOrder(context.Background(), f.buyerID, secondID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, f.w.orders[detail.Order.ID].PaymentStatus)

	// Each payment took the parent row lock before counting siblings,
	// so two final siblings paying at once serialize instead of both
	// missing the flip.
	assert.Equal(t, 2, f.orders.parentLocks)
}

func TestRejectedSiblingDoesNotBlockSettlement(t *testing.T) {
	f := newOrderFixture(t)
	firstSeller, firstStore := f.addStore("Optica One")
	secondSeller, secondStore := f.addStore("Optica Two")
	f.addCartLine(f.addProduct(firstStore, "50", 10), 1)
	f.addCartLine(f.addProduct(secondStore, "60", 10), 1)
	detail := f.placeOrder(t, model.PlaceOrderRequest{})
	firstID := detail.StoreOrders[0].ID
	secondID := detail.StoreOrders[1].ID

	_, err := f.svc.RejectStoreOrder(context.Background(), secondSeller, secondID, "cannot fulfil")
	require.NoError(t, err)

	_, err = f.svc.AcceptStoreOrder(context.Background(), firstSeller, firstID, model.AcceptStoreOrderRequest{
		DeliveryFee: decimal.Zero,
	})
	require.NoError(t, err)

	_, err = f.svc.PayStoreOrder(context.Background(), f.buyerID, firstID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, f.w.orders[detail.Order.ID].PaymentStatus)
}

func TestMarkOutForDeliveryRequiresPayment(t *testing.T) {
	f := newOrderFixture(t)
	sellerID, storeID := f.addStore("Optica")
	f.addCartLine(f.addProduct(storeID, "100", 10), 1)
	detail := f.placeOrder(t, model.PlaceOrderRequest{})
	storeOrderID := detail.StoreOrders[0].ID

	_, err := f.svc.AcceptStoreOrder(context.Background(), sellerID, storeOrderID, model.AcceptStoreOrderRequest{
		DeliveryFee: decimal.Zero,
	})
	require.NoError(t, err)

	_, err = f.svc.MarkOutForDelivery(context.Background(), sellerID, storeOrderID)
	assert.ErrorIs(t, err, model.ErrStoreOrderNotPaid)
}

// =====================================================
// DELIVERY CONFIRMATION TESTS
// =====================================================

func TestConfirmDeliveryHappyPath(t *testing.T) {
	f := newOrderFixture(t)
	sellerID, paid := f.placePaidStoreOrder(t)

	_, err := f.svc.MarkOutForDelivery(context.Background(), sellerID, paid.ID)
	require.NoError(t, err)

	code := f.w.storeOrders[paid.ID].DeliveryCode
	delivered, err := f.svc.ConfirmDelivery(context.Background(), sellerID, paid.ID, code)
	require.NoError(t, err)
	assert.Equal(t, model.StoreOrderDelivered, delivered.Status)
	require.NotNil(t, delivered.DeliveredAt)

	// Settlement went through escrow, not the direct fallback.
	require.Len(t, f.escrow.released, 1)
	assert.Equal(t, paid.ID, f.escrow.released[0])
	assert.Empty(t, f.points.earns)
}

func TestConfirmDeliveryWrongCode(t *testing.T) {
	f := newOrderFixture(t)
	sellerID, paid := f.placePaidStoreOrder(t)

	_, err := f.svc.MarkOutForDelivery(context.Background(), sellerID, paid.ID)
	require.NoError(t, err)

	_, err = f.svc.ConfirmDelivery(context.Background(), sellerID, paid.ID, "000000")
	assert.ErrorIs(t, err, model.ErrInvalidDeliveryCode)

	// Wrong code leaves the store order and escrow alone.
	assert.Equal(t, model.StoreOrderOutForDelivery, f.w.storeOrders[paid.ID].Status)
	assert.Empty(t, f.escrow.released)
}

func TestConfirmDeliveryBeforeDispatchNotAllowed(t *testing.T) {
	f := newOrderFixture(t)
	sellerID, paid := f.placePaidStoreOrder(t)

	code := f.w.storeOrders[paid.ID].DeliveryCode
	_, err := f.svc.ConfirmDelivery(context.Background(), sellerID, paid.ID, code)
	assert.ErrorIs(t, err, model.ErrInvalidStatusTransition)
}

func TestConfirmDeliveryFallsBackWithoutEscrow(t *testing.T) {
	f := newOrderFixture(t)
	sellerID, paid := f.placePaidStoreOrder(t)

	_, err := f.svc.MarkOutForDelivery(context.Background(), sellerID, paid.ID)
	require.NoError(t, err)

	f.escrow.releaseErr = escrowModel.ErrEscrowNotFound
	code := f.w.storeOrders[paid.ID].DeliveryCode
	delivered, err := f.svc.ConfirmDelivery(context.Background(), sellerID, paid.ID, code)
	require.NoError(t, err)
	assert.Equal(t, model.StoreOrderDelivered, delivered.Status)

	// Without an escrow row the buyer still earns on the subtotal.
	require.Len(t, f.points.earns, 1)
	assert.Equal(t, paid.ID, f.points.earns[0].orderID)
	assert.Equal(t, "100", f.points.earns[0].basis.String())
}

func TestConfirmDeliveryReleaseFailureRollsBack(t *testing.T) {
	f := newOrderFixture(t)
	sellerID, paid := f.placePaidStoreOrder(t)

	_, err := f.svc.MarkOutForDelivery(context.Background(), sellerID, paid.ID)
	require.NoError(t, err)

	f.escrow.releaseErr = escrowModel.ErrEscrowNotLocked
	code := f.w.storeOrders[paid.ID].DeliveryCode
	_, err = f.svc.ConfirmDelivery(context.Background(), sellerID, paid.ID, code)
	assert.ErrorIs(t, err, escrowModel.ErrEscrowNotLocked)

	// The confirmation rolled back with the failed settlement.
	assert.Equal(t, model.StoreOrderOutForDelivery, f.w.storeOrders[paid.ID].Status)
}

// =====================================================
// QUERY TESTS
// =====================================================

func TestGetOrderHidesForeignOrders(t *testing.T) {
	f := newOrderFixture(t)
	_, storeID := f.addStore("Optica")
	f.addCartLine(f.addProduct(storeID, "100", 10), 1)
	detail := f.placeOrder(t, model.PlaceOrderRequest{})

	fetched, err := f.svc.GetOrder(context.Background(), f.buyerID, detail.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, detail.Order.ID, fetched.Order.ID)
	require.Len(t, fetched.StoreOrders, 1)
	assert.Equal(t, "Optica", fetched.StoreOrders[0].StoreName)

	_, err = f.svc.GetOrder(context.Background(), uuid.New(), detail.Order.ID)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestGetStoreOrderForSellerOwnership(t *testing.T) {
	f := newOrderFixture(t)
	sellerID, storeID := f.addStore("Optica")
	intruderID, _ := f.addStore("Rival")
	f.addCartLine(f.addProduct(storeID, "100", 10), 1)
	detail := f.placeOrder(t, model.PlaceOrderRequest{})
	storeOrderID := detail.StoreOrders[0].ID

	owned, err := f.svc.GetStoreOrderForSeller(context.Background(), sellerID, storeOrderID)
	require.NoError(t, err)
	assert.Equal(t, storeOrderID, owned.ID)
	assert.Len(t, owned.Items, 1)

	_, err = f.svc.GetStoreOrderForSeller(context.Background(), intruderID, storeOrderID)
	assert.ErrorIs(t, err, model.ErrStoreOrderNotFound)
}
