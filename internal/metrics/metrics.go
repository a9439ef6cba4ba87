package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type StoreMetrics struct {
	OrdersCreated  *prometheus.CounterVec
	NotifyFailures *prometheus.CounterVec
}

func New(service string) *StoreMetrics {
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: service,
		Name:      "orders_created_total",
		Help:      "Total number of orders created.",
	}, []string{"payment_method"})
	notifyFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: service,
		Name:      "notification_failures_total",
		Help:      "Total number of failed notification deliveries.",
	}, []string{"channel"})

	prometheus.MustRegister(ordersCreated, notifyFailures)
	return &StoreMetrics{OrdersCreated: ordersCreated, NotifyFailures: notifyFailures}
}

// Increment helpers tolerate a nil receiver.

func (m *StoreMetrics) IncOrdersCreated(paymentMethod string) {
	if m == nil {
		return
	}
	m.OrdersCreated.WithLabelValues(paymentMethod).Inc()
}

func (m *StoreMetrics) IncNotifyFailure(channel string) {
	if m == nil {
		return
	}
	m.NotifyFailures.WithLabelValues(channel).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
