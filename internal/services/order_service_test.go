package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newTestService(repo *mocks.MockOrderRepository, catalog *mocks.MockCatalogClient, dispatcher *mocks.MockDispatcher) *OrderService {
	return NewOrderService(repo, catalog, dispatcher, nil, zap.NewNop())
}

func TestOrderService_CreateOrder(t *testing.T) {
	baseInput := CreateOrderInput{
		Lines:         []CartLine{{ProductID: testProductID, Quantity: 2}},
		PaymentMethod: domain.PaymentCash,
		Address:       "Yerevan, Mashtots 1",
	}

	tests := []struct {
		name           string
		input          CreateOrderInput
		setupMocks     func(*mocks.MockOrderRepository, *mocks.MockCatalogClient, *mocks.MockDispatcher)
		expectedError  error
		expectedStatus domain.OrderStatus
		expectedTotal  int64
	}{
		{
			name:  "cash order starts pending",
			input: baseInput,
			setupMocks: func(repo *mocks.MockOrderRepository, catalog *mocks.MockCatalogClient, dispatcher *mocks.MockDispatcher) {
				catalog.On("GetProduct", mock.Anything, testProductID).Return(testProduct(testProductID, "Face cream", 15000), nil)
				repo.On("OrderNumberExists", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
				repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)
				dispatcher.On("OrderCreated", mock.AnythingOfType("*domain.Order")).Maybe()
			},
			expectedStatus: domain.StatusPending,
			expectedTotal:  30000,
		},
		{
			name: "card order starts awaiting payment",
			input: CreateOrderInput{
				Lines:         []CartLine{{ProductID: testProductID, Quantity: 2}},
				PaymentMethod: domain.PaymentCard,
				Address:       "Yerevan, Mashtots 1",
			},
			setupMocks: func(repo *mocks.MockOrderRepository, catalog *mocks.MockCatalogClient, dispatcher *mocks.MockDispatcher) {
				catalog.On("GetProduct", mock.Anything, testProductID).Return(testProduct(testProductID, "Face cream", 15000), nil)
				repo.On("OrderNumberExists", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
				repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)
				dispatcher.On("OrderCreated", mock.AnythingOfType("*domain.Order")).Maybe()
			},
			expectedStatus: domain.StatusAwaitingPayment,
			expectedTotal:  30000,
		},
		{
			name: "empty cart",
			input: CreateOrderInput{
				PaymentMethod: domain.PaymentCash,
				Address:       "Yerevan, Mashtots 1",
			},
			setupMocks:    func(*mocks.MockOrderRepository, *mocks.MockCatalogClient, *mocks.MockDispatcher) {},
			expectedError: domain.ErrEmptyCart,
		},
		{
			name: "missing address",
			input: CreateOrderInput{
				Lines:         []CartLine{{ProductID: testProductID, Quantity: 1}},
				PaymentMethod: domain.PaymentCash,
				Address:       "   ",
			},
			setupMocks:    func(*mocks.MockOrderRepository, *mocks.MockCatalogClient, *mocks.MockDispatcher) {},
			expectedError: domain.ErrMissingAddress,
		},
		{
			name:  "unknown product fails atomically",
			input: baseInput,
			setupMocks: func(repo *mocks.MockOrderRepository, catalog *mocks.MockCatalogClient, dispatcher *mocks.MockDispatcher) {
				catalog.On("GetProduct", mock.Anything, testProductID).Return(nil, nil)
			},
			expectedError: domain.ErrProductNotFound,
		},
		{
			name:  "repository failure",
			input: baseInput,
			setupMocks: func(repo *mocks.MockOrderRepository, catalog *mocks.MockCatalogClient, dispatcher *mocks.MockDispatcher) {
				catalog.On("GetProduct", mock.Anything, testProductID).Return(testProduct(testProductID, "Face cream", 15000), nil)
				repo.On("OrderNumberExists", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
				repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(errors.New("database error"))
			},
			expectedError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockOrderRepository)
			catalog := new(mocks.MockCatalogClient)
			dispatcher := new(mocks.MockDispatcher)
			tt.setupMocks(repo, catalog, dispatcher)

			service := newTestService(repo, catalog, dispatcher)
			order, err := service.CreateOrder(context.Background(), testUser(), tt.input)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Nil(t, order)
				if errors.Is(tt.expectedError, domain.ErrEmptyCart) ||
					errors.Is(tt.expectedError, domain.ErrMissingAddress) ||
					errors.Is(tt.expectedError, domain.ErrProductNotFound) {
					assert.ErrorIs(t, err, tt.expectedError)
					repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				}
				return
			}

			assert.NoError(t, err)
			assert.NotNil(t, order)
			assert.Equal(t, tt.expectedStatus, order.Status)
			assert.Equal(t, tt.expectedTotal, order.Total)
			assert.Len(t, order.StatusHistory, 1)
			assert.Equal(t, order.Status, order.StatusHistory[0].Status)
			assert.Equal(t, testUserID, order.UserID)
			assert.Equal(t, "buyer@example.com", order.UserEmail)
			assert.Equal(t, "AMD", order.Currency)
			assert.Nil(t, order.PaymentConfirmedAt)
			assert.Equal(t, int64(15000), order.Items[0].Price)
			assert.Equal(t, "Face cream", order.Items[0].Name)
			assert.WithinDuration(t, time.Now(), order.CreatedAt, time.Second)

			time.Sleep(50 * time.Millisecond)
			repo.AssertExpectations(t)
			catalog.AssertExpectations(t)
			dispatcher.AssertExpectations(t)
		})
	}
}

func TestOrderService_CreateOrder_RepositoryFailureSkipsDispatch(t *testing.T) {
	repo := new(mocks.MockOrderRepository)
	catalog := new(mocks.MockCatalogClient)
	dispatcher := new(mocks.MockDispatcher)

	catalog.On("GetProduct", mock.Anything, testProductID).Return(testProduct(testProductID, "Face cream", 15000), nil)
	repo.On("OrderNumberExists", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(errors.New("database error"))

	service := newTestService(repo, catalog, dispatcher)
	order, err := service.CreateOrder(context.Background(), testUser(), CreateOrderInput{
		Lines:         []CartLine{{ProductID: testProductID, Quantity: 2}},
		PaymentMethod: domain.PaymentCash,
		Address:       "Yerevan, Mashtots 1",
	})

	assert.Error(t, err)
	assert.Nil(t, order)
	time.Sleep(50 * time.Millisecond)
	dispatcher.AssertNotCalled(t, "OrderCreated", mock.Anything)
}

func TestOrderService_ConfirmPayment(t *testing.T) {
	tests := []struct {
		name          string
		acting        *domain.User
		seed          func() *domain.Order
		expectedError error
	}{
		{
			name:   "owner confirms from awaiting_payment",
			acting: testUser(),
			seed: func() *domain.Order {
				return testOrder(domain.StatusAwaitingPayment, domain.PaymentCard, 30000, time.Now().UTC())
			},
		},
		{
			name:   "not the owner",
			acting: &domain.User{ID: "stranger", Role: domain.RoleUser},
			seed: func() *domain.Order {
				return testOrder(domain.StatusAwaitingPayment, domain.PaymentCard, 30000, time.Now().UTC())
			},
			expectedError: domain.ErrForbidden,
		},
		{
			name:   "already processed",
			acting: testUser(),
			seed: func() *domain.Order {
				return testOrder(domain.StatusPending, domain.PaymentCard, 30000, time.Now().UTC())
			},
			expectedError: domain.ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockOrderRepository)
			catalog := new(mocks.MockCatalogClient)
			dispatcher := new(mocks.MockDispatcher)

			seeded := tt.seed()
			repo.On("UpdateOrder", mock.Anything, testOrderID).Return(seeded, nil)
			dispatcher.On("PaymentConfirmed", mock.AnythingOfType("*domain.Order")).Maybe()

			service := newTestService(repo, catalog, dispatcher)
			order, err := service.ConfirmPayment(context.Background(), testOrderID, tt.acting)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, order)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, domain.StatusPending, order.Status)
			assert.NotNil(t, order.PaymentConfirmedAt)
			assert.Len(t, order.StatusHistory, 2)
			last := order.StatusHistory[len(order.StatusHistory)-1]
			assert.Equal(t, order.Status, last.Status)
			assert.Equal(t, "payment confirmed by user", last.Comment)

			time.Sleep(50 * time.Millisecond)
			dispatcher.AssertExpectations(t)
		})
	}
}

func TestOrderService_ConfirmPayment_SecondCallFails(t *testing.T) {
	repo := new(mocks.MockOrderRepository)
	catalog := new(mocks.MockCatalogClient)
	dispatcher := new(mocks.MockDispatcher)

	seeded := testOrder(domain.StatusAwaitingPayment, domain.PaymentCard, 30000, time.Now().UTC())
	repo.On("UpdateOrder", mock.Anything, testOrderID).Return(seeded, nil)
	dispatcher.On("PaymentConfirmed", mock.AnythingOfType("*domain.Order")).Maybe()

	service := newTestService(repo, catalog, dispatcher)

	first, err := service.ConfirmPayment(context.Background(), testOrderID, testUser())
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusPending, first.Status)

	second, err := service.ConfirmPayment(context.Background(), testOrderID, testUser())
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Nil(t, second)
}

func TestOrderService_ConfirmPayment_NotFound(t *testing.T) {
	repo := new(mocks.MockOrderRepository)
	catalog := new(mocks.MockCatalogClient)
	dispatcher := new(mocks.MockDispatcher)

	repo.On("UpdateOrder", mock.Anything, "missing").Return(nil, domain.ErrOrderNotFound)

	service := newTestService(repo, catalog, dispatcher)
	order, err := service.ConfirmPayment(context.Background(), "missing", testUser())

	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	assert.Nil(t, order)
}

func TestOrderService_SetStatus(t *testing.T) {
	tests := []struct {
		name            string
		status          domain.OrderStatus
		comment         string
		expectedComment string
	}{
		{
			name:            "auto-generated comment mentions both statuses",
			status:          domain.StatusShipping,
			expectedComment: "status changed from pending to shipping",
		},
		{
			name:            "custom comment is kept",
			status:          domain.StatusCancelled,
			comment:         "customer asked to cancel",
			expectedComment: "customer asked to cancel",
		},
		{
			name:            "leaving a terminal status is allowed",
			status:          domain.StatusProcessing,
			expectedComment: "status changed from pending to processing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockOrderRepository)
			catalog := new(mocks.MockCatalogClient)
			dispatcher := new(mocks.MockDispatcher)

			seeded := testOrder(domain.StatusPending, domain.PaymentCash, 30000, time.Now().UTC())
			repo.On("UpdateOrder", mock.Anything, testOrderID).Return(seeded, nil)
			dispatcher.On("StatusChanged", mock.AnythingOfType("*domain.Order")).Maybe()

			service := newTestService(repo, catalog, dispatcher)
			order, err := service.SetStatus(context.Background(), testOrderID, tt.status, tt.comment)

			assert.NoError(t, err)
			assert.Equal(t, tt.status, order.Status)
			assert.Len(t, order.StatusHistory, 2)
			last := order.StatusHistory[len(order.StatusHistory)-1]
			assert.Equal(t, order.Status, last.Status)
			assert.Equal(t, tt.expectedComment, last.Comment)

			time.Sleep(50 * time.Millisecond)
			dispatcher.AssertExpectations(t)
		})
	}
}

func TestOrderService_SetStatus_UnknownStatus(t *testing.T) {
	repo := new(mocks.MockOrderRepository)
	catalog := new(mocks.MockCatalogClient)
	dispatcher := new(mocks.MockDispatcher)

	service := newTestService(repo, catalog, dispatcher)
	order, err := service.SetStatus(context.Background(), testOrderID, "teleported", "")

	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	assert.Nil(t, order)
	repo.AssertNotCalled(t, "UpdateOrder", mock.Anything, mock.Anything)
}

func TestOrderService_GetOrder(t *testing.T) {
	tests := []struct {
		name          string
		acting        *domain.User
		expectedError error
	}{
		{name: "owner can read", acting: testUser()},
		{name: "admin can read", acting: testAdmin()},
		{name: "stranger is rejected", acting: &domain.User{ID: "stranger", Role: domain.RoleUser}, expectedError: domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockOrderRepository)
			catalog := new(mocks.MockCatalogClient)
			dispatcher := new(mocks.MockDispatcher)

			seeded := testOrder(domain.StatusPending, domain.PaymentCash, 30000, time.Now().UTC())
			repo.On("FindByID", mock.Anything, testOrderID).Return(seeded, nil)
			catalog.On("GetProduct", mock.Anything, testProductID).Return(testProduct(testProductID, "Face cream deluxe", 99999), nil).Maybe()

			service := newTestService(repo, catalog, dispatcher)
			order, err := service.GetOrder(context.Background(), testOrderID, tt.acting)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, order)
				return
			}

			assert.NoError(t, err)
			// Display name follows the catalog, the price stays snapshotted.
			assert.Equal(t, "Face cream deluxe", order.Items[0].Name)
			assert.Equal(t, int64(15000), order.Items[0].Price)
		})
	}
}

func TestOrderService_GetOrder_DeletedProduct(t *testing.T) {
	repo := new(mocks.MockOrderRepository)
	catalog := new(mocks.MockCatalogClient)
	dispatcher := new(mocks.MockDispatcher)

	seeded := testOrder(domain.StatusPending, domain.PaymentCash, 30000, time.Now().UTC())
	repo.On("FindByID", mock.Anything, testOrderID).Return(seeded, nil)
	catalog.On("GetProduct", mock.Anything, testProductID).Return(nil, nil)

	service := newTestService(repo, catalog, dispatcher)
	order, err := service.GetOrder(context.Background(), testOrderID, testUser())

	assert.NoError(t, err)
	assert.Equal(t, unavailableItemName, order.Items[0].Name)
	assert.Equal(t, int64(15000), order.Items[0].Price)
	// The stored order keeps its snapshot name untouched.
	assert.Equal(t, "Face cream", seeded.Items[0].Name)
}

func TestOrderService_GetOrder_CatalogErrorKeepsSnapshotName(t *testing.T) {
	repo := new(mocks.MockOrderRepository)
	catalog := new(mocks.MockCatalogClient)
	dispatcher := new(mocks.MockDispatcher)

	seeded := testOrder(domain.StatusPending, domain.PaymentCash, 30000, time.Now().UTC())
	repo.On("FindByID", mock.Anything, testOrderID).Return(seeded, nil)
	catalog.On("GetProduct", mock.Anything, testProductID).Return(nil, errors.New("catalog down"))

	service := newTestService(repo, catalog, dispatcher)
	order, err := service.GetOrder(context.Background(), testOrderID, testUser())

	assert.NoError(t, err)
	assert.Equal(t, "Face cream", order.Items[0].Name)
}

func TestOrderService_GetOrder_NotFound(t *testing.T) {
	repo := new(mocks.MockOrderRepository)
	catalog := new(mocks.MockCatalogClient)
	dispatcher := new(mocks.MockDispatcher)

	repo.On("FindByID", mock.Anything, "missing").Return(nil, nil)

	service := newTestService(repo, catalog, dispatcher)
	order, err := service.GetOrder(context.Background(), "missing", testUser())

	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	assert.Nil(t, order)
}

func TestOrderService_ArchiveOrder(t *testing.T) {
	repo := new(mocks.MockOrderRepository)
	catalog := new(mocks.MockCatalogClient)
	dispatcher := new(mocks.MockDispatcher)

	repo.On("Archive", mock.Anything, testOrderID).Return(nil)
	repo.On("Archive", mock.Anything, "missing").Return(domain.ErrOrderNotFound)

	service := newTestService(repo, catalog, dispatcher)

	assert.NoError(t, service.ArchiveOrder(context.Background(), testOrderID))
	assert.ErrorIs(t, service.ArchiveOrder(context.Background(), "missing"), domain.ErrOrderNotFound)
}

func TestOrderService_Stats(t *testing.T) {
	repo := new(mocks.MockOrderRepository)
	catalog := new(mocks.MockCatalogClient)
	dispatcher := new(mocks.MockDispatcher)

	now := time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)
	today := now.Add(-2 * time.Hour)
	earlierThisMonth := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)

	active := []domain.Order{
		{Status: domain.StatusPending, PaymentMethod: domain.PaymentCash, Total: 30000, CreatedAt: today},
		{Status: domain.StatusAwaitingPayment, PaymentMethod: domain.PaymentCard, Total: 25000, CreatedAt: today},
		{Status: domain.StatusPending, PaymentMethod: domain.PaymentCard, Total: 20000, CreatedAt: earlierThisMonth},
		{Status: domain.StatusPending, PaymentMethod: domain.PaymentCash, Total: 10000, CreatedAt: lastMonth},
	}
	archived := []domain.Order{
		{Status: domain.StatusDone, PaymentMethod: domain.PaymentCash, Total: 5000, CreatedAt: today},
	}

	repo.On("FindAll", mock.Anything, domain.OrderStatus("")).Return(active, nil)
	repo.On("FindArchived", mock.Anything).Return(archived, nil)

	service := newTestService(repo, catalog, dispatcher)
	stats, err := service.Stats(context.Background(), now)

	assert.NoError(t, err)
	// Awaiting-payment card order is excluded from every money total.
	assert.Equal(t, int64(35000), stats.TotalToday)
	assert.Equal(t, int64(55000), stats.TotalMonth)
	assert.Equal(t, int64(65000), stats.TotalAll)
	// Histogram and count cover the active store only.
	assert.Equal(t, 4, stats.OrdersCount)
	assert.Equal(t, 3, stats.StatusCounts[domain.StatusPending])
	assert.Equal(t, 1, stats.StatusCounts[domain.StatusAwaitingPayment])
	assert.Zero(t, stats.StatusCounts[domain.StatusDone])
}

func TestOrderService_NextOrderNumber(t *testing.T) {
	t.Run("retries on collision", func(t *testing.T) {
		repo := new(mocks.MockOrderRepository)
		repo.On("OrderNumberExists", mock.Anything, mock.AnythingOfType("string")).Return(true, nil).Twice()
		repo.On("OrderNumberExists", mock.Anything, mock.AnythingOfType("string")).Return(false, nil).Once()

		service := newTestService(repo, new(mocks.MockCatalogClient), new(mocks.MockDispatcher))
		number, err := service.nextOrderNumber(context.Background())

		assert.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^AB\d{6}-\d{4}$`), number)
		repo.AssertNumberOfCalls(t, "OrderNumberExists", 3)
	})

	t.Run("falls back to uuid suffix when space is exhausted", func(t *testing.T) {
		repo := new(mocks.MockOrderRepository)
		repo.On("OrderNumberExists", mock.Anything, mock.AnythingOfType("string")).Return(true, nil)

		service := newTestService(repo, new(mocks.MockCatalogClient), new(mocks.MockDispatcher))
		number, err := service.nextOrderNumber(context.Background())

		assert.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^AB\d{6}-[0-9a-f]{8}$`), number)
	})
}

func TestGenerateOrderNumber_Format(t *testing.T) {
	at := time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 20; i++ {
		number := generateOrderNumber(at)
		assert.Regexp(t, regexp.MustCompile(`^AB250614-\d{4}$`), number)
	}
}
