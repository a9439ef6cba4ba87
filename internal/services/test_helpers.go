package services

import (
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra"
)

const (
	testUserID    = "user-1"
	testAdminID   = "admin-1"
	testOrderID   = "order-1"
	testProductID = "prod-1"
)

func testUser() *domain.User {
	return &domain.User{ID: testUserID, Email: "buyer@example.com", Name: "Buyer", Role: domain.RoleUser}
}

func testAdmin() *domain.User {
	return &domain.User{ID: testAdminID, Email: "admin@example.com", Name: "Admin", Role: domain.RoleAdmin}
}

func testProduct(id, name string, price int64) *infra.ProductInfo {
	return &infra.ProductInfo{ID: id, Name: name, Price: price, Category: "face"}
}

func testOrder(status domain.OrderStatus, method domain.PaymentMethod, total int64, createdAt time.Time) *domain.Order {
	o := &domain.Order{
		ID:            testOrderID,
		OrderNumber:   "AB250614-0317",
		UserID:        testUserID,
		UserEmail:     "buyer@example.com",
		PaymentMethod: method,
		Total:         total,
		Address:       "Yerevan, Mashtots 1",
		Currency:      "AMD",
		CreatedAt:     createdAt,
		Items: []domain.OrderItem{
			{ProductID: testProductID, Name: "Face cream", Quantity: 2, Price: total / 2},
		},
	}
	o.PushStatus(status, createdAt, "order created")
	return o
}
