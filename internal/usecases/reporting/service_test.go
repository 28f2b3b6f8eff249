package reporting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/repository/mocks"
	"github.com/selimsoyah/nexus-analytics-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestService_CustomerInsights(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCustomerRepo := mocks.NewMockCustomerRepository(ctrl)
	mockAnalyticsRepo := mocks.NewMockAnalyticsRepository(ctrl)

	service := &Service{
		customerRepo:  mockCustomerRepo,
		analyticsRepo: mockAnalyticsRepo,
	}

	lastOrder := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	customer := &domain.Customer{
		ID:                "cust-1",
		Platform:          domain.PlatformWooCommerce,
		Email:             "jane@example.com",
		FirstName:         "Jane",
		LastName:          "Doe",
		TotalSpent:        decimal.RequireFromString("350.50"),
		OrdersCount:       2,
		AverageOrderValue: decimal.RequireFromString("175.25"),
		LastOrderDate:     &lastOrder,
	}

	orders := []*domain.InsightOrder{
		{
			OrderID:     "ord-2",
			OrderDate:   lastOrder,
			TotalAmount: 200.50,
			Status:      domain.OrderStatusDelivered,
			Products: []*domain.InsightProduct{
				{Name: "Widget", Quantity: 2, UnitPrice: 100.25, LineTotal: 200.50},
			},
		},
		{
			OrderID:     "ord-1",
			OrderDate:   lastOrder.AddDate(0, -2, 0),
			TotalAmount: 150,
			Status:      domain.OrderStatusDelivered,
		},
	}

	mockCustomerRepo.EXPECT().GetCustomerByID("cust-1").Return(customer, nil)
	mockAnalyticsRepo.EXPECT().CustomerOrders("cust-1").Return(orders, nil)

	insights, err := service.CustomerInsights("cust-1")
	require.NoError(t, err)

	assert.Equal(t, "cust-1", insights.CustomerID)
	assert.Equal(t, "Jane Doe", insights.Name)
	assert.Equal(t, "jane@example.com", insights.Email)
	assert.Equal(t, domain.PlatformWooCommerce, insights.Platform)
	assert.InDelta(t, 350.50, insights.TotalSpent, 0.0001)
	assert.Equal(t, 2, insights.OrdersCount)
	assert.InDelta(t, 175.25, insights.AverageOrderValue, 0.0001)
	assert.Equal(t, &lastOrder, insights.LastOrderDate)
	assert.Equal(t, orders, insights.Orders)
}

func TestService_CustomerInsights_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCustomerRepo := mocks.NewMockCustomerRepository(ctrl)
	mockAnalyticsRepo := mocks.NewMockAnalyticsRepository(ctrl)

	service := &Service{
		customerRepo:  mockCustomerRepo,
		analyticsRepo: mockAnalyticsRepo,
	}

	mockCustomerRepo.EXPECT().GetCustomerByID("missing").Return(nil, nil)

	insights, err := service.CustomerInsights("missing")
	assert.ErrorIs(t, err, ErrCustomerNotFound)
	assert.Nil(t, insights)
}

func TestService_ProductPerformance_DerivedRates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCustomerRepo := mocks.NewMockCustomerRepository(ctrl)
	mockAnalyticsRepo := mocks.NewMockAnalyticsRepository(ctrl)

	service := &Service{
		customerRepo:  mockCustomerRepo,
		analyticsRepo: mockAnalyticsRepo,
	}

	filters := &domain.InsightFilters{Platform: domain.PlatformShopify, Limit: 50}

	performances := []*domain.ProductPerformance{
		{
			Name:            "Discounted",
			ListPrice:       100,
			AvgSellingPrice: 80,
			TimesPurchased:  10,
			UniqueCustomers: 6,
		},
		{
			// No list price and no buyers, derived rates stay unset
			Name:            "Sparse",
			AvgSellingPrice: 40,
		},
	}

	mockAnalyticsRepo.EXPECT().ProductPerformance(filters).Return(performances, nil)

	results, err := service.ProductPerformance(filters)
	require.NoError(t, err)
	require.Len(t, results, 2)

	discounted := results[0]
	require.NotNil(t, discounted.DiscountRatePct)
	assert.InDelta(t, 20.0, *discounted.DiscountRatePct, 0.0001)
	require.NotNil(t, discounted.RepeatPurchaseRatePct)
	assert.InDelta(t, 40.0, *discounted.RepeatPurchaseRatePct, 0.0001)

	sparse := results[1]
	assert.Nil(t, sparse.DiscountRatePct)
	assert.Nil(t, sparse.RepeatPurchaseRatePct)
}

func TestService_Overview(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCustomerRepo := mocks.NewMockCustomerRepository(ctrl)
	mockAnalyticsRepo := mocks.NewMockAnalyticsRepository(ctrl)

	service := &Service{
		customerRepo:  mockCustomerRepo,
		analyticsRepo: mockAnalyticsRepo,
	}

	overviews := []*domain.PlatformOverview{
		{Platform: domain.PlatformWooCommerce, TotalCustomers: 120, TotalRevenue: 45000},
		{Platform: domain.PlatformShopify, TotalCustomers: 80, TotalRevenue: 62000},
	}

	mockAnalyticsRepo.EXPECT().PlatformOverviews().Return(overviews, nil)

	got, err := service.Overview()
	require.NoError(t, err)
	assert.Equal(t, overviews, got)
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		customer *domain.Customer
		expected string
	}{
		{
			name:     "full name wins",
			customer: &domain.Customer{FullName: "Jane Q. Doe", FirstName: "Jane", LastName: "Doe"},
			expected: "Jane Q. Doe",
		},
		{
			name:     "first and last joined",
			customer: &domain.Customer{FirstName: "Jane", LastName: "Doe"},
			expected: "Jane Doe",
		},
		{
			name:     "first only",
			customer: &domain.Customer{FirstName: "Jane"},
			expected: "Jane",
		},
		{
			name:     "falls back to email",
			customer: &domain.Customer{Email: "jane@example.com"},
			expected: "jane@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, displayName(tt.customer))
		})
	}
}
