package domain

import "time"

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

type OrderStatus string

const (
	StatusAwaitingPayment OrderStatus = "awaiting_payment"
	StatusPending         OrderStatus = "pending"
	StatusPaid            OrderStatus = "paid"
	StatusProcessing      OrderStatus = "processing"
	StatusShipping        OrderStatus = "shipping"
	StatusDelivered       OrderStatus = "delivered"
	StatusDone            OrderStatus = "done"
	StatusCancelled       OrderStatus = "cancelled"
)

var allStatuses = map[OrderStatus]struct{}{
	StatusAwaitingPayment: {},
	StatusPending:         {},
	StatusPaid:            {},
	StatusProcessing:      {},
	StatusShipping:        {},
	StatusDelivered:       {},
	StatusDone:            {},
	StatusCancelled:       {},
}

func (s OrderStatus) Valid() bool {
	_, ok := allStatuses[s]
	return ok
}

// InitialStatus is determined by the payment method: a card order is not
// actionable until the customer confirms the transfer.
func InitialStatus(method PaymentMethod) OrderStatus {
	if method == PaymentCard {
		return StatusAwaitingPayment
	}
	return StatusPending
}

type OrderItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
}

func (i OrderItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

type StatusEntry struct {
	Status    OrderStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	Comment   string      `json:"comment,omitempty"`
}

type Order struct {
	ID                 string        `json:"id" gorm:"primaryKey;size:36"`
	OrderNumber        string        `json:"orderNumber" gorm:"size:16;index"`
	UserID             string        `json:"userId" gorm:"size:36;index"`
	UserEmail          string        `json:"userEmail"`
	UserName           string        `json:"userName"`
	Items              []OrderItem   `json:"items" gorm:"serializer:json"`
	Total              int64         `json:"total"`
	PaymentMethod      PaymentMethod `json:"paymentMethod" gorm:"size:8"`
	Status             OrderStatus   `json:"status" gorm:"size:20;index"`
	StatusHistory      []StatusEntry `json:"statusHistory" gorm:"serializer:json"`
	Address            string        `json:"address"`
	MapCoordinates     string        `json:"mapCoordinates,omitempty"`
	MapAddress         string        `json:"mapAddress,omitempty"`
	Currency           string        `json:"currency" gorm:"size:8"`
	CreatedAt          time.Time     `json:"createdAt"`
	PaymentConfirmedAt *time.Time    `json:"paymentConfirmedAt,omitempty"`
	TelegramNotified   bool          `json:"telegramNotified"`
	DeletedAt          *time.Time    `json:"deletedAt,omitempty"`
}

// PushStatus sets the current status and appends the matching history entry.
// Every status change goes through here so the history stays chronological
// and its last entry always equals the current status.
func (o *Order) PushStatus(status OrderStatus, at time.Time, comment string) {
	o.Status = status
	o.StatusHistory = append(o.StatusHistory, StatusEntry{
		Status:    status,
		Timestamp: at,
		Comment:   comment,
	})
}
