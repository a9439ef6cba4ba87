package notify

import (
	"context"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra"
	"storefront-service/internal/infra/rabbitmq"
	"storefront-service/internal/infra/telegram"
	"storefront-service/internal/metrics"
	"storefront-service/internal/repository"

	"go.uber.org/zap"
)

// Dispatcher fans order events out to the live channels, the Telegram bot
// and the AMQP event stream. Every channel is best-effort: failures are
// logged and counted, never returned, so persistence is never coupled to
// delivery.
type Dispatcher struct {
	hub       *Hub
	users     infra.UserDirectory
	repo      repository.OrderRepository
	telegram  telegram.Sender
	publisher rabbitmq.PublisherInterface
	metrics   *metrics.StoreMetrics
	logger    *zap.Logger
	timeout   time.Duration
}

func NewDispatcher(hub *Hub, users infra.UserDirectory, repo repository.OrderRepository, m *metrics.StoreMetrics, logger *zap.Logger, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		hub:     hub,
		users:   users,
		repo:    repo,
		metrics: m,
		logger:  logger,
		timeout: timeout,
	}
}

func (d *Dispatcher) SetTelegramSender(sender telegram.Sender) {
	d.telegram = sender
}

func (d *Dispatcher) SetPublisher(publisher rabbitmq.PublisherInterface) {
	d.publisher = publisher
}

// OrderCreated notifies after a new order is persisted. Cash orders go
// straight to the admin channels; card orders stay silent there until the
// payment is confirmed. Telegram fires exactly once per order.
func (d *Dispatcher) OrderCreated(order *domain.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if order.PaymentMethod == domain.PaymentCash {
		d.broadcastToAdmins(ctx, domain.EventNewOrder, order)
	}
	d.publish(ctx, domain.RouteOrderCreated, order)
	d.sendTelegramNewOrder(ctx, order)
}

func (d *Dispatcher) PaymentConfirmed(order *domain.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	d.broadcastToAdmins(ctx, domain.EventPaymentConfirmed, order)
	d.publish(ctx, domain.RoutePaymentConfirmed, order)
}

// StatusChanged pushes the updated order to its owner if connected. No
// durable queue of missed events: a disconnected client re-fetches on
// reconnect.
func (d *Dispatcher) StatusChanged(order *domain.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	d.hub.Send(order.UserID, Event{Name: domain.EventOrderUpdated, Data: order})
	d.publish(ctx, domain.RouteStatusChanged, order)

	if d.telegram == nil {
		return
	}
	if err := d.telegram.SendStatusUpdate(ctx, order); err != nil {
		d.metrics.IncNotifyFailure("telegram")
		d.logger.Warn("telegram status update failed",
			zap.String("order_id", order.ID),
			zap.Error(err))
	}
}

func (d *Dispatcher) broadcastToAdmins(ctx context.Context, event string, order *domain.Order) {
	admins, err := d.users.ListAdmins(ctx)
	if err != nil {
		d.metrics.IncNotifyFailure("sse")
		d.logger.Warn("admin list unavailable, skipping broadcast",
			zap.String("event", event),
			zap.Error(err))
		return
	}
	for _, admin := range admins {
		d.hub.Send(admin.ID, Event{Name: event, Data: order})
	}
}

func (d *Dispatcher) publish(ctx context.Context, routingKey string, order *domain.Order) {
	if d.publisher == nil {
		return
	}
	if err := d.publisher.Publish(ctx, routingKey, order); err != nil {
		d.metrics.IncNotifyFailure("amqp")
		d.logger.Warn("event publish failed",
			zap.String("routing_key", routingKey),
			zap.String("order_id", order.ID),
			zap.Error(err))
	}
}

func (d *Dispatcher) sendTelegramNewOrder(ctx context.Context, order *domain.Order) {
	if d.telegram == nil || order.TelegramNotified {
		return
	}
	if err := d.telegram.SendNewOrder(ctx, order); err != nil {
		d.metrics.IncNotifyFailure("telegram")
		d.logger.Warn("telegram new-order message failed",
			zap.String("order_id", order.ID),
			zap.Error(err))
		return
	}

	// Persist the sent flag so a retried create cannot send twice. The flag
	// is written through the store only: the order pointer passed in is
	// shared with the HTTP response and must not be mutated here.
	_, err := d.repo.UpdateOrder(ctx, order.ID, func(o *domain.Order) error {
		o.TelegramNotified = true
		return nil
	})
	if err != nil {
		d.logger.Warn("could not persist telegram-notified flag",
			zap.String("order_id", order.ID),
			zap.Error(err))
	}
}
