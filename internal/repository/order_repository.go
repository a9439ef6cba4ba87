package repository

import (
	"context"

	"storefront-service/internal/domain"
)

// OrderRepository is the persistence boundary for active and archived orders.
//
// Find methods return (nil, nil) when the order does not exist. UpdateOrder
// runs the mutator against a locked copy of the row so concurrent transitions
// on the same order id serialize instead of losing updates; a mutator error
// aborts the update without persisting anything.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByUser(ctx context.Context, userID string) ([]domain.Order, error)
	FindAll(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	UpdateOrder(ctx context.Context, id string, mutate func(*domain.Order) error) (*domain.Order, error)

	// Archive moves the order from the active store to the archive in one
	// transaction, stamping DeletedAt. Archived orders are never mutated.
	Archive(ctx context.Context, id string) error
	FindArchived(ctx context.Context) ([]domain.Order, error)

	OrderNumberExists(ctx context.Context, number string) (bool, error)
}
