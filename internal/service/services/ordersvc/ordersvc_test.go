package ordersvc

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kashan660/sellaap-orders/internal/dal/interfaces/iorderitemrepo"
	"github.com/kashan660/sellaap-orders/internal/dal/interfaces/iorderrepo"
	"github.com/kashan660/sellaap-orders/internal/service/models/catalogitem"
	"github.com/kashan660/sellaap-orders/internal/service/models/currency"
	"github.com/kashan660/sellaap-orders/internal/service/models/order"
	"github.com/kashan660/sellaap-orders/internal/service/models/orderitem"
	"github.com/kashan660/sellaap-orders/internal/service/models/paymentmethod"
)

// mockCatalogRepo implements icatalogrepo.Repository for testing
type mockCatalogRepo struct {
	items      map[int64]catalogitem.CatalogItem
	err        error
	lookups    int
	lookupArgs [][]int64
}

func (m *mockCatalogRepo) GetByIDs(_ context.Context, ids []int64) ([]catalogitem.CatalogItem, error) {
	m.lookups++
	m.lookupArgs = append(m.lookupArgs, ids)
	if m.err != nil {
		return nil, m.err
	}

	var result []catalogitem.CatalogItem
	for _, id := range ids {
		if item, ok := m.items[id]; ok {
			result = append(result, item)
		}
	}

	return result, nil
}

func (m *mockCatalogRepo) List(_ context.Context, _, _ int) ([]catalogitem.CatalogItem, error) {
	return nil, m.err
}

// mockOrderRepo implements iorderrepo.Repository for testing
type mockOrderRepo struct {
	nextID    int64
	inserted  []order.Order
	queryResp []order.Order
	insertErr error
	queryErr  error
	updateErr error
}

func (m *mockOrderRepo) Insert(_ context.Context, o order.Order) (*order.Order, error) {
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	m.nextID++
	o.ID = m.nextID
	m.inserted = append(m.inserted, o)

	return &o, nil
}

func (m *mockOrderRepo) Query(_ context.Context, _ *order.QueryOrdersModel) ([]order.Order, error) {
	return m.queryResp, m.queryErr
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id int64, status order.Status) (*order.Order, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}

	return &order.Order{ID: id, Status: status}, nil
}

// mockOrderItemRepo implements iorderitemrepo.Repository for testing
type mockOrderItemRepo struct {
	inserted  []orderitem.OrderItem
	queryResp []orderitem.OrderItem
	insertErr error
}

func (m *mockOrderItemRepo) BulkInsert(_ context.Context, items []orderitem.OrderItem) ([]orderitem.OrderItem, error) {
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	for i := range items {
		items[i].ID = int64(i + 1)
	}
	m.inserted = append(m.inserted, items...)

	return items, nil
}

func (m *mockOrderItemRepo) Query(_ context.Context, _ *orderitem.QueryOrderItemsModel) ([]orderitem.OrderItem, error) {
	return m.queryResp, nil
}

// mockUOW implements the unitOfWork interface for testing
type mockUOW struct {
	orderRepo     *mockOrderRepo
	orderItemRepo *mockOrderItemRepo
	begins        int
	commits       int
	rollbacks     int
	beginErr      error
	commitErr     error
}

func (m *mockUOW) Begin(_ context.Context) error {
	m.begins++

	return m.beginErr
}

func (m *mockUOW) Commit(_ context.Context) error {
	m.commits++

	return m.commitErr
}

func (m *mockUOW) Rollback(_ context.Context) error {
	m.rollbacks++

	return nil
}

func (m *mockUOW) OrderRepository() iorderrepo.Repository         { return m.orderRepo }
func (m *mockUOW) OrderItemRepository() iorderitemrepo.Repository { return m.orderItemRepo }

// mockAuditRepo implements iauditrepo.IAuditorRepository for testing
type mockAuditRepo struct {
	logged []order.Order
	err    error
}

func (m *mockAuditRepo) LogOrderCreated(_ context.Context, o order.Order) error {
	m.logged = append(m.logged, o)

	return m.err
}

func usd(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testCatalog() *mockCatalogRepo {
	return &mockCatalogRepo{
		items: map[int64]catalogitem.CatalogItem{
			1: {ID: 1, Title: "Starter subscription", Url: "/products/starter", PriceCents: 999, Currency: currency.CurrencyUSD},
			2: {ID: 2, Title: "Gift card 25", Url: "/products/gift-25", PriceCents: 2500, Currency: currency.CurrencyUSD},
		},
	}
}

func newTestService(catalog *mockCatalogRepo, work *mockUOW, auditRepo *mockAuditRepo) *OrderService {
	opts := []option{
		WithCatalogRepository(catalog),
		WithUnitOfWorkFactory(func() unitOfWork { return work }),
		WithLimits(DefaultLimits()),
	}
	if auditRepo != nil {
		opts = append(opts, WithAuditRepository(auditRepo))
	}

	return MustNewOrderService(opts...)
}

func validRequest() order.SubmitRequest {
	return order.SubmitRequest{
		CustomerID: 7,
		Items: []order.LineRequest{
			{ProductID: 1, Quantity: 2, DeclaredPrice: usd("9.99")},
		},
		DeclaredTotal: usd("19.98"),
		PaymentMethod: "paypal",
	}
}

func TestSubmitOrder_Success(t *testing.T) {
	catalog := testCatalog()
	work := &mockUOW{orderRepo: &mockOrderRepo{}, orderItemRepo: &mockOrderItemRepo{}}
	auditRepo := &mockAuditRepo{}
	svc := newTestService(catalog, work, auditRepo)

	submitted, err := svc.SubmitOrder(context.Background(), validRequest())

	require.NoError(t, err)
	require.NotNil(t, submitted)
	assert.Equal(t, int64(1), submitted.ID)
	assert.Equal(t, order.StatusPending, submitted.Status)
	assert.Equal(t, paymentmethod.MethodPaypal, submitted.PaymentMethod)
	assert.Equal(t, currency.CurrencyUSD, submitted.TotalPriceCurrency)
	assert.Equal(t, int64(1998), submitted.TotalPriceCents)
	require.Len(t, submitted.OrderItems, 1)
	assert.Equal(t, int64(999), submitted.OrderItems[0].PriceCents)
	assert.Equal(t, "Starter subscription", submitted.OrderItems[0].ProductTitle)
	assert.Equal(t, 1, work.commits)
	assert.Zero(t, work.rollbacks)
	require.Len(t, auditRepo.logged, 1)
	assert.Equal(t, submitted.ID, auditRepo.logged[0].ID)
}

func TestSubmitOrder_TotalIsRecomputedNotDeclared(t *testing.T) {
	catalog := testCatalog()
	work := &mockUOW{orderRepo: &mockOrderRepo{}, orderItemRepo: &mockOrderItemRepo{}}
	svc := newTestService(catalog, work, nil)

	// Declared values drift inside the tolerance band; the persisted
	// amounts must still come from the catalog.
	req := order.SubmitRequest{
		CustomerID: 7,
		Items: []order.LineRequest{
			{ProductID: 1, Quantity: 2, DeclaredPrice: usd("9.90")},
		},
		DeclaredTotal: usd("19.80"),
		PaymentMethod: "paypal",
	}

	submitted, err := svc.SubmitOrder(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, int64(1998), submitted.TotalPriceCents)
	assert.Equal(t, int64(999), submitted.OrderItems[0].PriceCents)
}

func TestSubmitOrder_NotAuthenticated(t *testing.T) {
	catalog := testCatalog()
	work := &mockUOW{orderRepo: &mockOrderRepo{}, orderItemRepo: &mockOrderItemRepo{}}
	svc := newTestService(catalog, work, nil)

	req := validRequest()
	req.CustomerID = 0

	_, err := svc.SubmitOrder(context.Background(), req)

	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Zero(t, work.begins)
}

func TestSubmitOrder_EmptyCart(t *testing.T) {
	catalog := testCatalog()
	work := &mockUOW{orderRepo: &mockOrderRepo{}, orderItemRepo: &mockOrderItemRepo{}}
	svc := newTestService(catalog, work, nil)

	req := validRequest()
	req.Items = nil

	_, err := svc.SubmitOrder(context.Background(), req)

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, work.begins)
}

func TestSubmitOrder_InvalidTotal(t *testing.T) {
	catalog := testCatalog()
	work := &mockUOW{orderRepo: &mockOrderRepo{}, orderItemRepo: &mockOrderItemRepo{}}
	svc := newTestService(catalog, work, nil)

	for _, total := range []string{"0", "-5.00", "2000000.00"} {
		req := validRequest()
		req.DeclaredTotal = usd(total)

		_, err := svc.SubmitOrder(context.Background(), req)

		assert.ErrorIs(t, err, ErrInvalidTotal, "total %s", total)
	}
	assert.Zero(t, work.begins)
}

func TestSubmitOrder_InvalidPaymentMethod(t *testing.T) {
	catalog := testCatalog()
	work := &mockUOW{orderRepo: &mockOrderRepo{}, orderItemRepo: &mockOrderItemRepo{}}
	svc := newTestService(catalog, work, nil)

	req := validRequest()
	req.PaymentMethod = "cash"

	_, err := svc.SubmitOrder(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
	assert.Zero(t, catalog.lookups)
	assert.Zero(t, work.begins)
}

func TestSubmitOrder_PaymentMethodCaseInsensitive(t *testing.T) {
	catalog := testCatalog()
	work := &mockUOW{orderRepo: &mockOrderRepo{}, orderItemRepo: &mockOrderItemRepo{}}
	svc := newTestService(catalog, work, nil)

	req := validRequest()
	req.PaymentMethod = "PayPal"

	submitted, err := svc.SubmitOrder(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, paymentmethod.MethodPaypal, submitted.PaymentMethod)
}

func TestSubmitOrder_InvalidItemData(t *testing.T) {
	catalog := testCatalog()
	work := &mockUOW{orderRepo: &mockOrderRepo{}, orderItemRepo: &mockOrderItemRepo{}}
	svc := newTestService(catalog, work, nil)

	req := validRequest()
	req.Items[0].ProductID = 0

	_, err := svc.SubmitOrder(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidItemData)
	assert.Zero(t, catalog.lookups)
}

func TestSubmitOrder_InvalidQuantity_BeforeCatalogLookup(t *testing.T) {
	catalog := testCatalog()
	work := &mockUOW{orderRepo: &mockOrderRepo{}, orderItemRepo: &mockOrderItemRepo{}}
	svc := newTestService(catalog, work, nil)

	for _, qty := range []int{0, -1, 1001} {
		req := validRequest()
		req.Items[0].Quantity = qty

		_, err := svc.SubmitOrder(context.Background(), req)

		assert.ErrorIs(t, err, ErrInvalidQuantity, "quantity %d", qty)
	}
	assert.Zero(t, catalog.lookups)
	assert.Zero(t, work.begins)
}

func TestSubmitOrder_InvalidPrice_BeforeCatalogLookup(t *testing.T) {
	catalog := testCatalog()
	work := &mockUOW{orderRepo: &mockOrderRepo{}, orderItemRepo: &mockOrderItemRepo{}}
	svc := newTestService(catalog, work, nil)

	for _, price := range []string{"0", "-9.99", "20000.00"} {
		req := validRequest()
		req.Items[0].DeclaredPrice = usd(price)

		_, err := svc.SubmitOrder(context.Background(), req)

		assert.ErrorIs(t, err, ErrInvalidPrice, "price %s", price)
	}
	assert.Zero(t, catalog.lookups)
}

func TestSubmitOrder_ItemNotFound(t *testing.T) {
	catalog := testCatalog()
	work := &mockUOW{orderRepo: &mockOrderRepo{}, orderItemRepo: &mockOrderItemRepo{}}
	svc := newTestService(catalog, work, nil)

	req := validRequest()
	req.Items = append(req.Items, order.LineRequest{
		ProductID: 99, Quantity: 1, DeclaredPrice: usd("1.00"),
	})
	req.DeclaredTotal = usd("20.98")

	_, err := svc.SubmitOrder(context.Background(), req)

	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.Zero(t, work.begins)
}

func TestSubmitOrder_PriceMismatch_EvenWhenTotalConsistent(t *testing.T) {
	catalog := testCatalog()
	work := &mockUOW{orderRepo: &mockOrderRepo{}, orderItemRepo: &mockOrderItemRepo{}}
	svc := newTestService(catalog, work, nil)

	// Declared total matches the declared (tampered) prices, but each
	// line still has to match the catalog.
	req := order.SubmitRequest{
		CustomerID: 7,
		Items: []order.LineRequest{
			{ProductID: 1, Quantity: 2, DeclaredPrice: usd("5.00")},
		},
		DeclaredTotal: usd("10.00"),
		PaymentMethod: "paypal",
	}

	_, err := svc.SubmitOrder(context.Background(), req)

	assert.ErrorIs(t, err, ErrPriceMismatch)
	assert.Zero(t, work.begins)
}

func TestSubmitOrder_ToleranceBoundary(t *testing.T) {
	catalog := &mockCatalogRepo{
		items: map[int64]catalogitem.CatalogItem{
			3: {ID: 3, Title: "Round product", PriceCents: 10000, Currency: currency.CurrencyUSD},
		},
	}
	work := &mockUOW{orderRepo: &mockOrderRepo{}, orderItemRepo: &mockOrderItemRepo{}}
	svc := newTestService(catalog, work, nil)

	// Exactly 1% off the 100.00 catalog price is still accepted.
	req := order.SubmitRequest{
		CustomerID:    7,
		Items:         []order.LineRequest{{ProductID: 3, Quantity: 1, DeclaredPrice: usd("101.00")}},
		DeclaredTotal: usd("101.00"),
		PaymentMethod: "wise",
	}
	_, err := svc.SubmitOrder(context.Background(), req)
	require.NoError(t, err)

	// A cent past the band is rejected.
	req.Items[0].DeclaredPrice = usd("101.01")
	req.DeclaredTotal = usd("101.01")
	_, err = svc.SubmitOrder(context.Background(), req)
	assert.ErrorIs(t, err, ErrPriceMismatch)
}

func TestSubmitOrder_TotalMismatch(t *testing.T) {
	catalog := testCatalog()
	work := &mockUOW{orderRepo: &mockOrderRepo{}, orderItemRepo: &mockOrderItemRepo{}}
	svc := newTestService(catalog, work, nil)

	req := validRequest()
	req.DeclaredTotal = usd("25.00")

	_, err := svc.SubmitOrder(context.Background(), req)

	assert.ErrorIs(t, err, ErrTotalMismatch)
	assert.Zero(t, work.begins)
}

func TestSubmitOrder_CatalogLookupDeduplicates(t *testing.T) {
	catalog := testCatalog()
	work := &mockUOW{orderRepo: &mockOrderRepo{}, orderItemRepo: &mockOrderItemRepo{}}
	svc := newTestService(catalog, work, nil)

	req := order.SubmitRequest{
		CustomerID: 7,
		Items: []order.LineRequest{
			{ProductID: 1, Quantity: 1, DeclaredPrice: usd("9.99")},
			{ProductID: 1, Quantity: 1, DeclaredPrice: usd("9.99")},
		},
		DeclaredTotal: usd("19.98"),
		PaymentMethod: "paypal",
	}

	submitted, err := svc.SubmitOrder(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, catalog.lookupArgs, 1)
	assert.Equal(t, []int64{1}, catalog.lookupArgs[0])
	// Lines are not merged; both persist.
	assert.Len(t, submitted.OrderItems, 2)
}

func TestSubmitOrder_CatalogError(t *testing.T) {
	catalog := &mockCatalogRepo{err: errors.New("connection refused")}
	work := &mockUOW{orderRepo: &mockOrderRepo{}, orderItemRepo: &mockOrderItemRepo{}}
	svc := newTestService(catalog, work, nil)

	_, err := svc.SubmitOrder(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrPersistence)
	assert.Zero(t, work.begins)
}

func TestSubmitOrder_PersistenceFailure_RollsBack(t *testing.T) {
	catalog := testCatalog()
	work := &mockUOW{
		orderRepo:     &mockOrderRepo{insertErr: errors.New("write conflict")},
		orderItemRepo: &mockOrderItemRepo{},
	}
	svc := newTestService(catalog, work, nil)

	_, err := svc.SubmitOrder(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrPersistence)
	assert.Equal(t, 1, work.begins)
	assert.Equal(t, 1, work.rollbacks)
	assert.Zero(t, work.commits)
}

func TestSubmitOrder_ItemInsertFailure_RollsBack(t *testing.T) {
	catalog := testCatalog()
	work := &mockUOW{
		orderRepo:     &mockOrderRepo{},
		orderItemRepo: &mockOrderItemRepo{insertErr: errors.New("constraint violation")},
	}
	svc := newTestService(catalog, work, nil)

	_, err := svc.SubmitOrder(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrPersistence)
	assert.Equal(t, 1, work.rollbacks)
	assert.Zero(t, work.commits)
}

func TestSubmitOrder_NoDeduplicationAcrossCalls(t *testing.T) {
	catalog := testCatalog()
	work := &mockUOW{orderRepo: &mockOrderRepo{}, orderItemRepo: &mockOrderItemRepo{}}
	svc := newTestService(catalog, work, nil)

	first, err := svc.SubmitOrder(context.Background(), validRequest())
	require.NoError(t, err)
	second, err := svc.SubmitOrder(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, work.orderRepo.inserted, 2)
}

func TestSubmitOrder_AuditFailureDoesNotFailSubmission(t *testing.T) {
	catalog := testCatalog()
	work := &mockUOW{orderRepo: &mockOrderRepo{}, orderItemRepo: &mockOrderItemRepo{}}
	auditRepo := &mockAuditRepo{err: errors.New("broker unavailable")}
	svc := newTestService(catalog, work, auditRepo)

	submitted, err := svc.SubmitOrder(context.Background(), validRequest())

	require.NoError(t, err)
	assert.NotNil(t, submitted)
	assert.Equal(t, 1, work.commits)
}

func TestGetOrders_AttachesItems(t *testing.T) {
	catalog := testCatalog()
	work := &mockUOW{
		orderRepo: &mockOrderRepo{queryResp: []order.Order{
			{ID: 5, CustomerID: 7, Status: order.StatusPending},
		}},
		orderItemRepo: &mockOrderItemRepo{queryResp: []orderitem.OrderItem{
			{ID: 1, OrderID: 5, ProductID: 1, Quantity: 2},
		}},
	}
	svc := newTestService(catalog, work, nil)

	orders, err := svc.GetOrders(context.Background(), order.QueryOrdersModel{Ids: []int64{5}})

	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].OrderItems, 1)
	assert.Equal(t, int64(5), orders[0].OrderItems[0].OrderID)
}

func TestUpdateOrderStatus_PendingToCompleted(t *testing.T) {
	catalog := testCatalog()
	work := &mockUOW{
		orderRepo: &mockOrderRepo{queryResp: []order.Order{
			{ID: 5, Status: order.StatusPending},
		}},
		orderItemRepo: &mockOrderItemRepo{},
	}
	svc := newTestService(catalog, work, nil)

	updated, err := svc.UpdateOrderStatus(context.Background(), 5, order.StatusCompleted)

	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, updated.Status)
}

func TestUpdateOrderStatus_RejectsIllegalTransitions(t *testing.T) {
	catalog := testCatalog()
	work := &mockUOW{
		orderRepo: &mockOrderRepo{queryResp: []order.Order{
			{ID: 5, Status: order.StatusCancelled},
		}},
		orderItemRepo: &mockOrderItemRepo{},
	}
	svc := newTestService(catalog, work, nil)

	_, err := svc.UpdateOrderStatus(context.Background(), 5, order.StatusCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.UpdateOrderStatus(context.Background(), 5, order.StatusPending)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateOrderStatus_NotFound(t *testing.T) {
	catalog := testCatalog()
	work := &mockUOW{orderRepo: &mockOrderRepo{}, orderItemRepo: &mockOrderItemRepo{}}
	svc := newTestService(catalog, work, nil)

	_, err := svc.UpdateOrderStatus(context.Background(), 404, order.StatusCancelled)

	assert.ErrorIs(t, err, ErrOrderNotFound)
}
