package services

import (
	"context"
	"time"

	"storefront-service/internal/domain"
)

type Stats struct {
	TotalToday   int64                      `json:"totalToday"`
	TotalMonth   int64                      `json:"totalMonth"`
	TotalAll     int64                      `json:"totalAll"`
	OrdersCount  int                        `json:"ordersCount"`
	StatusCounts map[domain.OrderStatus]int `json:"statusCounts"`
}

// countedStatuses gate card orders out of the money totals until the
// payment-confirmation step has moved them along. Cash orders count
// regardless, nothing gates them financially.
var countedStatuses = map[domain.OrderStatus]struct{}{
	domain.StatusPending:    {},
	domain.StatusProcessing: {},
	domain.StatusShipping:   {},
	domain.StatusDelivered:  {},
}

// Stats aggregates money totals over the active store AND the archive, so
// archiving an order never erases it from historical revenue. The status
// histogram covers the active store only: the histogram is a live
// operational view, the totals are accounting.
func (s *OrderService) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	active, err := s.repo.FindAll(ctx, "")
	if err != nil {
		return nil, err
	}
	archived, err := s.repo.FindArchived(ctx)
	if err != nil {
		return nil, err
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	out := &Stats{
		OrdersCount:  len(active),
		StatusCounts: make(map[domain.OrderStatus]int),
	}
	for _, o := range active {
		out.StatusCounts[o.Status]++
	}

	for _, o := range append(append([]domain.Order{}, active...), archived...) {
		if !countedOrder(&o) {
			continue
		}
		out.TotalAll += o.Total
		if !o.CreatedAt.Before(startOfMonth) {
			out.TotalMonth += o.Total
		}
		if !o.CreatedAt.Before(startOfDay) {
			out.TotalToday += o.Total
		}
	}
	return out, nil
}

func countedOrder(o *domain.Order) bool {
	if o.PaymentMethod == domain.PaymentCash {
		return true
	}
	_, ok := countedStatuses[o.Status]
	return ok
}
