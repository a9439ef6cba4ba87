package services

import (
	"context"
	"strings"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra"
	"storefront-service/internal/metrics"
	"storefront-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const unavailableItemName = "item unavailable"

// Dispatcher receives order lifecycle events after they are persisted.
// Implementations must be best-effort and must not block the caller.
type Dispatcher interface {
	OrderCreated(order *domain.Order)
	PaymentConfirmed(order *domain.Order)
	StatusChanged(order *domain.Order)
}

type OrderService struct {
	repo       repository.OrderRepository
	catalog    infra.CatalogClient
	dispatcher Dispatcher
	metrics    *metrics.StoreMetrics
	logger     *zap.Logger
	now        func() time.Time
}

func NewOrderService(repo repository.OrderRepository, catalog infra.CatalogClient, dispatcher Dispatcher, m *metrics.StoreMetrics, logger *zap.Logger) *OrderService {
	return &OrderService{
		repo:       repo,
		catalog:    catalog,
		dispatcher: dispatcher,
		metrics:    m,
		logger:     logger,
		now:        time.Now,
	}
}

type CreateOrderInput struct {
	Lines          []CartLine
	PaymentMethod  domain.PaymentMethod
	Address        string
	MapCoordinates string
	MapAddress     string
	Currency       string
}

// CreateOrder snapshots prices, persists the order and fires notifications.
// The user's email and name are denormalized onto the order so it survives
// later profile changes. Notification delivery never affects the result.
func (s *OrderService) CreateOrder(ctx context.Context, user *domain.User, in CreateOrderInput) (*domain.Order, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrEmptyCart
	}
	if strings.TrimSpace(in.Address) == "" {
		return nil, domain.ErrMissingAddress
	}

	items, total, err := BuildSnapshot(ctx, s.catalog, in.Lines)
	if err != nil {
		return nil, err
	}

	number, err := s.nextOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	currency := in.Currency
	if currency == "" {
		currency = "AMD"
	}

	now := s.now().UTC()
	order := &domain.Order{
		ID:             uuid.NewString(),
		OrderNumber:    number,
		UserID:         user.ID,
		UserEmail:      user.Email,
		UserName:       user.Name,
		Items:          items,
		Total:          total,
		PaymentMethod:  in.PaymentMethod,
		Address:        in.Address,
		MapCoordinates: in.MapCoordinates,
		MapAddress:     in.MapAddress,
		Currency:       currency,
		CreatedAt:      now,
	}
	order.PushStatus(domain.InitialStatus(in.PaymentMethod), now, "order created")

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.metrics.IncOrdersCreated(string(in.PaymentMethod))
	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("payment_method", string(order.PaymentMethod)),
		zap.Int64("total", order.Total))

	go s.dispatcher.OrderCreated(order)

	return order, nil
}

// ConfirmPayment is the single user-initiated transition: awaiting_payment →
// pending, by the order's owner only.
func (s *OrderService) ConfirmPayment(ctx context.Context, orderID string, acting *domain.User) (*domain.Order, error) {
	updated, err := s.repo.UpdateOrder(ctx, orderID, func(o *domain.Order) error {
		if o.UserID != acting.ID {
			return domain.ErrForbidden
		}
		if o.Status != domain.StatusAwaitingPayment {
			return domain.ErrInvalidTransition
		}
		now := s.now().UTC()
		o.PaymentConfirmedAt = &now
		o.PushStatus(domain.StatusPending, now, "payment confirmed by user")
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment confirmed",
		zap.String("order_id", updated.ID),
		zap.String("order_number", updated.OrderNumber))

	go s.dispatcher.PaymentConfirmed(updated)

	return updated, nil
}

// SetStatus is the admin override: any enumerated status, from any current
// status. Leaving done or cancelled is allowed on purpose, operational
// flexibility wins over strict terminality here.
func (s *OrderService) SetStatus(ctx context.Context, orderID string, status domain.OrderStatus, comment string) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	updated, err := s.repo.UpdateOrder(ctx, orderID, func(o *domain.Order) error {
		entryComment := comment
		if entryComment == "" {
			entryComment = "status changed from " + string(o.Status) + " to " + string(status)
		}
		o.PushStatus(status, s.now().UTC(), entryComment)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order status set",
		zap.String("order_id", updated.ID),
		zap.String("status", string(updated.Status)))

	go s.dispatcher.StatusChanged(updated)

	return updated, nil
}

// GetOrder returns the order with item names re-resolved against the current
// catalog. Owner and admins only.
func (s *OrderService) GetOrder(ctx context.Context, orderID string, acting *domain.User) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	if order.UserID != acting.ID && !acting.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.withResolvedItems(ctx, order), nil
}

func (s *OrderService) ListOrders(ctx context.Context, user *domain.User) ([]domain.Order, error) {
	orders, err := s.repo.FindByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.resolveAll(ctx, orders), nil
}

func (s *OrderService) ListAllOrders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	if status != "" && !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	orders, err := s.repo.FindAll(ctx, status)
	if err != nil {
		return nil, err
	}
	return s.resolveAll(ctx, orders), nil
}

// ArchiveOrder is terminal: the order leaves the active store, keeps its
// place in the money totals, and is never mutated again.
func (s *OrderService) ArchiveOrder(ctx context.Context, orderID string) error {
	if err := s.repo.Archive(ctx, orderID); err != nil {
		return err
	}
	s.logger.Info("order archived", zap.String("order_id", orderID))
	return nil
}

func (s *OrderService) ListArchived(ctx context.Context) ([]domain.Order, error) {
	return s.repo.FindArchived(ctx)
}

// withResolvedItems swaps each item's display name for the product's current
// one; a deleted product renders as unavailable. Prices stay snapshotted. A
// catalog error keeps the snapshot name rather than failing the read.
func (s *OrderService) withResolvedItems(ctx context.Context, order *domain.Order) *domain.Order {
	out := *order
	out.Items = make([]domain.OrderItem, len(order.Items))
	for i, item := range order.Items {
		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		switch {
		case err == nil && product != nil:
			item.Name = product.Name
		case err == nil:
			item.Name = unavailableItemName
		}
		out.Items[i] = item
	}
	return &out
}

func (s *OrderService) resolveAll(ctx context.Context, orders []domain.Order) []domain.Order {
	out := make([]domain.Order, len(orders))
	for i := range orders {
		out[i] = *s.withResolvedItems(ctx, &orders[i])
	}
	return out
}
