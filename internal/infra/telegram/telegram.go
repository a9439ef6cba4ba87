package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront-service/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the outbound operational-alert channel. Delivery is always
// best-effort; callers must not let a send failure affect order state.
type Sender interface {
	SendNewOrder(ctx context.Context, order *domain.Order) error
	SendStatusUpdate(ctx context.Context, order *domain.Order) error
}

var _ Sender = (*Bot)(nil)

type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect telegram bot: %w", err)
	}
	return &Bot{api: api, chatID: chatID}, nil
}

func (b *Bot) SendNewOrder(_ context.Context, order *domain.Order) error {
	return b.send(formatNewOrder(order))
}

func (b *Bot) SendStatusUpdate(_ context.Context, order *domain.Order) error {
	return b.send(formatStatusUpdate(order))
}

func (b *Bot) send(text string) error {
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.DisableWebPagePreview = true
	_, err := b.api.Send(msg)
	return err
}

var statusLabels = map[domain.OrderStatus]string{
	domain.StatusAwaitingPayment: "awaiting payment",
	domain.StatusPending:         "pending",
	domain.StatusPaid:            "paid",
	domain.StatusProcessing:      "processing",
	domain.StatusShipping:        "shipping",
	domain.StatusDelivered:       "delivered",
	domain.StatusDone:            "done",
	domain.StatusCancelled:       "cancelled",
}

func formatNewOrder(order *domain.Order) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "New order %s\n\n", order.OrderNumber)
	fmt.Fprintf(&sb, "Customer: %s\n", valueOrDash(order.UserEmail))
	fmt.Fprintf(&sb, "Payment: %s\n", order.PaymentMethod)
	fmt.Fprintf(&sb, "Status: %s\n\n", statusLabel(order.Status))
	fmt.Fprintf(&sb, "Address: %s\n", valueOrDash(order.Address))
	fmt.Fprintf(&sb, "Map: %s\n\n", mapLink(order.MapCoordinates))
	fmt.Fprintf(&sb, "Items:\n%s\n\n", formatItems(order.Items))
	fmt.Fprintf(&sb, "Total: %d %s\n", order.Total, order.Currency)
	fmt.Fprintf(&sb, "%s", order.CreatedAt.Format(time.RFC1123))
	return sb.String()
}

func formatStatusUpdate(order *domain.Order) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Order status updated\n\n")
	fmt.Fprintf(&sb, "Customer: %s\n", valueOrDash(order.UserEmail))
	fmt.Fprintf(&sb, "Order: %s\n", order.OrderNumber)
	fmt.Fprintf(&sb, "New status: %s\n\n", statusLabel(order.Status))
	fmt.Fprintf(&sb, "Address: %s\n", valueOrDash(order.Address))
	fmt.Fprintf(&sb, "%s", time.Now().Format(time.RFC1123))
	return sb.String()
}

func formatItems(items []domain.OrderItem) string {
	if len(items) == 0 {
		return "—"
	}
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = fmt.Sprintf("• %s × %d", it.Name, it.Quantity)
	}
	return strings.Join(lines, "\n")
}

// mapLink builds a map URL from "lat,lon" coordinates. The map service
// expects lon,lat order in the ll parameter.
func mapLink(coords string) string {
	parts := strings.SplitN(coords, ",", 2)
	if len(parts) != 2 {
		return "—"
	}
	lat := strings.TrimSpace(parts[0])
	lon := strings.TrimSpace(parts[1])
	return fmt.Sprintf("https://yandex.ru/maps/?ll=%s,%s&z=16", lon, lat)
}

func statusLabel(s domain.OrderStatus) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

func valueOrDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
