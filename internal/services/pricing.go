package services

import (
	"context"
	"fmt"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra"
)

type CartLine struct {
	ProductID string
	Quantity  int
}

// BuildSnapshot resolves every cart line against the catalog and captures the
// product's current name and price. The snapshot is taken exactly once, at
// order-creation time; later catalog changes never touch an existing order.
// Any unresolved product fails the whole call, never a partial snapshot.
func BuildSnapshot(ctx context.Context, catalog infra.CatalogClient, lines []CartLine) ([]domain.OrderItem, int64, error) {
	if len(lines) == 0 {
		return nil, 0, domain.ErrEmptyCart
	}

	items := make([]domain.OrderItem, 0, len(lines))
	var total int64
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, 0, fmt.Errorf("%w: product %s", domain.ErrInvalidQuantity, line.ProductID)
		}
		product, err := catalog.GetProduct(ctx, line.ProductID)
		if err != nil {
			return nil, 0, err
		}
		if product == nil {
			return nil, 0, fmt.Errorf("%w: %s", domain.ErrProductNotFound, line.ProductID)
		}
		item := domain.OrderItem{
			ProductID: line.ProductID,
			Name:      product.Name,
			Quantity:  line.Quantity,
			Price:     product.Price,
		}
		items = append(items, item)
		total += item.Subtotal()
	}
	return items, total, nil
}
