package ordersvc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"

	"github.com/kashan660/sellaap-orders/internal/dal/interfaces/iauditrepo"
	"github.com/kashan660/sellaap-orders/internal/dal/interfaces/icatalogrepo"
	"github.com/kashan660/sellaap-orders/internal/dal/interfaces/iorderitemrepo"
	"github.com/kashan660/sellaap-orders/internal/dal/interfaces/iorderrepo"
	"github.com/kashan660/sellaap-orders/internal/dal/postgres"
	"github.com/kashan660/sellaap-orders/internal/dal/uow"
	"github.com/kashan660/sellaap-orders/internal/service/models/catalogitem"
	"github.com/kashan660/sellaap-orders/internal/service/models/currency"
	"github.com/kashan660/sellaap-orders/internal/service/models/order"
	"github.com/kashan660/sellaap-orders/internal/service/models/orderitem"
	"github.com/kashan660/sellaap-orders/internal/service/models/paymentmethod"
)

// OrderService owns the order intake path: it re-derives authoritative
// prices from the catalog, rejects tampered or malformed submissions, and
// persists one order with its line items per accepted submission.
//
// Two identical submissions produce two distinct orders; no deduplication
// happens at this layer.
type OrderService struct {
	catalogRepo icatalogrepo.Repository
	auditRepo   iauditrepo.IAuditorRepository
	limits      Limits
	uowFactory  func() unitOfWork
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorderrepo.Repository
	OrderItemRepository() iorderitemrepo.Repository
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{
		limits: DefaultLimits(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.uowFactory == nil {
		panic("ordersvc: no unit of work configured")
	}
	if s.catalogRepo == nil {
		panic("ordersvc: no catalog repository configured")
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.uowFactory = func() unitOfWork {
			return uow.NewUnitOfWork(pgClient)
		}
	}
}

// WithUnitOfWorkFactory overrides the unit of work construction.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *OrderService) {
		s.uowFactory = factory
	}
}

// WithCatalogRepository sets the read-only catalog lookup collaborator.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCatalogRepository(repo icatalogrepo.Repository) option {
	return func(s *OrderService) {
		s.catalogRepo = repo
	}
}

// WithAuditRepository sets the order event publisher.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithAuditRepository(repo iauditrepo.IAuditorRepository) option {
	return func(s *OrderService) {
		s.auditRepo = repo
	}
}

// WithLimits sets the intake ceilings and tolerance.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithLimits(limits Limits) option {
	return func(s *OrderService) {
		s.limits = limits
	}
}

// SubmitOrder validates an untrusted submission and persists the derived
// order. Preconditions are checked in a fixed sequence and the first
// violation wins; no write happens on any rejection path. The persisted
// total is always the server-recomputed sum, never the declared one.
func (s *OrderService) SubmitOrder(
	ctx context.Context,
	req order.SubmitRequest,
) (*order.Order, error) {
	ctx, span := otel.Tracer("orders-svc").Start(ctx, "OrderService.SubmitOrder")
	defer span.End()

	method, catalog, err := s.validate(ctx, &req)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	totalCents := int64(0)
	items := make([]orderitem.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		item := catalog[line.ProductID]
		totalCents += item.PriceCents * int64(line.Quantity)
		items = append(items, orderitem.OrderItem{
			ProductID:     item.ID,
			Quantity:      line.Quantity,
			ProductTitle:  item.Title,
			ProductUrl:    item.Url,
			PriceCents:    item.PriceCents,
			PriceCurrency: currency.CurrencyUSD,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	persisted, err := s.persist(ctx, order.Order{
		CustomerID:         req.CustomerID,
		Status:             order.StatusPending,
		PaymentMethod:      method,
		TotalPriceCents:    totalCents,
		TotalPriceCurrency: currency.CurrencyUSD,
		CreatedAt:          now,
		UpdatedAt:          now,
		OrderItems:         items,
	})
	if err != nil {
		return nil, err
	}

	if s.auditRepo != nil {
		if err := s.auditRepo.LogOrderCreated(ctx, *persisted); err != nil {
			// The order is already committed; audit delivery has its own
			// retry path and must not fail the submission.
			slog.Error("Failed to emit order created event", "order_id", persisted.ID, "error", err)
		}
	}

	return persisted, nil
}

// validate runs the precondition sequence and resolves the catalog. It
// performs no writes.
func (s *OrderService) validate(
	ctx context.Context,
	req *order.SubmitRequest,
) (paymentmethod.Method, map[int64]catalogitem.CatalogItem, error) {
	if req.CustomerID <= 0 {
		return "", nil, ErrNotAuthenticated
	}

	if len(req.Items) == 0 {
		return "", nil, ErrEmptyCart
	}

	maxTotal := decimal.NewFromInt(s.limits.MaxTotalCents).Div(decimal.NewFromInt(100))
	if !req.DeclaredTotal.IsPositive() || req.DeclaredTotal.GreaterThan(maxTotal) {
		return "", nil, fmt.Errorf("%w: %s", ErrInvalidTotal, req.DeclaredTotal)
	}

	method, err := paymentmethod.Parse(req.PaymentMethod, s.limits.PaymentMethods)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, req.PaymentMethod)
	}

	maxPrice := decimal.NewFromInt(s.limits.MaxItemPriceCents).Div(decimal.NewFromInt(100))
	for i, line := range req.Items {
		if line.ProductID <= 0 {
			return "", nil, fmt.Errorf("line %d: %w", i, ErrInvalidItemData)
		}
		if line.Quantity <= 0 || line.Quantity > s.limits.MaxItemQuantity {
			return "", nil, fmt.Errorf("line %d: %w", i, ErrInvalidQuantity)
		}
		if !line.DeclaredPrice.IsPositive() || line.DeclaredPrice.GreaterThan(maxPrice) {
			return "", nil, fmt.Errorf("line %d: %w", i, ErrInvalidPrice)
		}
	}

	catalog, err := s.resolveCatalog(ctx, req.Items)
	if err != nil {
		return "", nil, err
	}

	recomputedCents := int64(0)
	for i, line := range req.Items {
		item := catalog[line.ProductID]
		if !withinTolerance(line.DeclaredPrice, item.Price(), s.limits.ToleranceBps) {
			return "", nil, fmt.Errorf(
				"line %d: %w: declared %s, catalog %s",
				i, ErrPriceMismatch, line.DeclaredPrice, item.Price(),
			)
		}
		recomputedCents += item.PriceCents * int64(line.Quantity)
	}

	recomputed := decimal.NewFromInt(recomputedCents).Div(decimal.NewFromInt(100))
	if !withinTolerance(req.DeclaredTotal, recomputed, s.limits.ToleranceBps) {
		return "", nil, fmt.Errorf(
			"%w: declared %s, recomputed %s",
			ErrTotalMismatch, req.DeclaredTotal, recomputed,
		)
	}

	return method, catalog, nil
}

// resolveCatalog looks up every distinct product referenced by the
// submission. One unresolved id rejects the whole order.
func (s *OrderService) resolveCatalog(
	ctx context.Context,
	lines []order.LineRequest,
) (map[int64]catalogitem.CatalogItem, error) {
	seen := make(map[int64]struct{}, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}

	items, err := s.catalogRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: catalog lookup: %v", ErrPersistence, err)
	}

	catalog := make(map[int64]catalogitem.CatalogItem, len(items))
	for _, item := range items {
		catalog[item.ID] = item
	}

	for _, id := range ids {
		if _, ok := catalog[id]; !ok {
			return nil, fmt.Errorf("%w: product %d", ErrItemNotFound, id)
		}
	}

	return catalog, nil
}

// persist writes the order and its items in one transaction.
func (s *OrderService) persist(ctx context.Context, o order.Order) (*order.Order, error) {
	work := s.uowFactory()

	if err := work.Begin(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	inserted, err := work.OrderRepository().Insert(ctx, o)
	if err != nil {
		_ = work.Rollback(ctx)

		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	items := make([]orderitem.OrderItem, len(o.OrderItems))
	copy(items, o.OrderItems)
	for i := range items {
		items[i].OrderID = inserted.ID
	}

	items, err = work.OrderItemRepository().BulkInsert(ctx, items)
	if err != nil {
		_ = work.Rollback(ctx)

		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := work.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	inserted.OrderItems = items

	return inserted, nil
}

// withinTolerance reports whether declared is within toleranceBps of the
// authoritative amount. The band is relative to the authoritative value,
// absorbing display rounding without permitting tampering.
func withinTolerance(declared, authoritative decimal.Decimal, toleranceBps int64) bool {
	limit := authoritative.
		Mul(decimal.NewFromInt(toleranceBps)).
		Div(decimal.NewFromInt(10_000))

	return declared.Sub(authoritative).Abs().LessThanOrEqual(limit)
}

// GetOrders retrieves orders with their items based on filter.
func (s *OrderService) GetOrders(
	ctx context.Context,
	filter order.QueryOrdersModel,
) ([]order.Order, error) {
	work := s.uowFactory()

	orders, err := work.OrderRepository().Query(ctx, &filter)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	itemFilter := &orderitem.QueryOrderItemsModel{}
	for _, o := range orders {
		itemFilter.OrderIds = append(itemFilter.OrderIds, o.ID)
	}
	items, err := work.OrderItemRepository().Query(ctx, itemFilter)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		for _, item := range items {
			if item.OrderID == orders[i].ID {
				orders[i].OrderItems = append(orders[i].OrderItems, item)
			}
		}
	}

	return orders, nil
}

// UpdateOrderStatus performs the administrative transition from PENDING
// to COMPLETED or CANCELLED. Every other transition is rejected.
func (s *OrderService) UpdateOrderStatus(
	ctx context.Context,
	orderID int64,
	status order.Status,
) (*order.Order, error) {
	if status != order.StatusCompleted && status != order.StatusCancelled {
		return nil, fmt.Errorf("%w: to %s", ErrInvalidTransition, status)
	}

	work := s.uowFactory()

	current, err := work.OrderRepository().Query(ctx, &order.QueryOrdersModel{Ids: []int64{orderID}})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if len(current) == 0 {
		return nil, fmt.Errorf("%w: id %d", ErrOrderNotFound, orderID)
	}

	if current[0].Status != order.StatusPending {
		return nil, fmt.Errorf(
			"%w: from %s to %s",
			ErrInvalidTransition, current[0].Status, status,
		)
	}

	updated, err := work.OrderRepository().UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return updated, nil
}
