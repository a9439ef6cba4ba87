package domain

// Live-channel event names pushed over SSE.
const (
	EventConnected        = "connected"
	EventNewOrder         = "new_order"
	EventOrderUpdated     = "order_updated"
	EventPaymentConfirmed = "payment_confirmed"
)

// Routing keys for the outbound event stream.
const (
	RouteOrderCreated     = "order.created"
	RoutePaymentConfirmed = "order.payment_confirmed"
	RouteStatusChanged    = "order.status_changed"
)
