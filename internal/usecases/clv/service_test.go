package clv

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/repository/mocks"
	"github.com/selimsoyah/nexus-analytics-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestService_CustomerCLV(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCustomerRepo := mocks.NewMockCustomerRepository(ctrl)
	mockAnalyticsRepo := mocks.NewMockAnalyticsRepository(ctrl)

	service := &Service{
		customerRepo:  mockCustomerRepo,
		analyticsRepo: mockAnalyticsRepo,
	}

	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	lastOrder := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	customer := &domain.Customer{
		ID:                "cust-1",
		Platform:          domain.PlatformShopify,
		TotalSpent:        decimal.RequireFromString("600.00"),
		OrdersCount:       3,
		LastOrderDate:     &lastOrder,
		PlatformCreatedAt: &createdAt,
	}

	stats := []domain.OrderStat{
		{OrderDate: createdAt, TotalAmount: 100},
		{OrderDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), TotalAmount: 200},
		{OrderDate: lastOrder, TotalAmount: 300},
	}

	mockCustomerRepo.EXPECT().GetCustomerByID("cust-1").Return(customer, nil)
	mockAnalyticsRepo.EXPECT().CustomerOrderStats("cust-1").Return(stats, nil)

	metrics, err := service.CustomerCLV("cust-1")
	require.NoError(t, err)

	assert.Equal(t, "cust-1", metrics.CustomerID)
	assert.Equal(t, domain.PlatformShopify, metrics.Platform)
	assert.Equal(t, 200.0, metrics.AvgOrderValue)
	assert.Equal(t, 365, metrics.CustomerLifespanDays)

	// Frequency annualizes over the 365 day span, then the lifespan factor
	// cancels it back out: 200 x (3 x 365.25/365) x (365/365.25) = 600
	assert.InDelta(t, 600.0, metrics.TraditionalCLV, 0.0001)

	// cv of {100, 200, 300} is sqrt(20000/3)/200
	cv := math.Sqrt(20000.0/3.0) / 200.0
	uncertainty := math.Min(0.5+cv, 2.0)
	assert.InDelta(t, 600.0*(1-uncertainty*0.3), metrics.ConfidenceIntervalLow, 0.0001)
	assert.InDelta(t, 600.0*(1+uncertainty*0.3), metrics.ConfidenceIntervalHigh, 0.0001)

	// Last order is far in the past, so recency risk saturates:
	// 1.0*0.7 + (0.8 - 3*0.05)*0.3
	assert.InDelta(t, 0.895, metrics.RiskScore, 0.0001)
	assert.Equal(t, "high", metrics.RiskLevel)
	assert.Equal(t, domain.CLVSegmentAtRisk, metrics.Segment)

	assert.Equal(t, 3, metrics.TotalOrders)
	assert.InDelta(t, 600.0, metrics.TotalSpent, 0.0001)
}

func TestService_CustomerCLV_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCustomerRepo := mocks.NewMockCustomerRepository(ctrl)
	mockAnalyticsRepo := mocks.NewMockAnalyticsRepository(ctrl)

	service := &Service{
		customerRepo:  mockCustomerRepo,
		analyticsRepo: mockAnalyticsRepo,
	}

	mockCustomerRepo.EXPECT().GetCustomerByID("missing").Return(nil, nil)

	metrics, err := service.CustomerCLV("missing")
	assert.ErrorIs(t, err, ErrCustomerNotFound)
	assert.Nil(t, metrics)
}

func TestService_CustomerCLV_NoOrderHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCustomerRepo := mocks.NewMockCustomerRepository(ctrl)
	mockAnalyticsRepo := mocks.NewMockAnalyticsRepository(ctrl)

	service := &Service{
		customerRepo:  mockCustomerRepo,
		analyticsRepo: mockAnalyticsRepo,
	}

	mockCustomerRepo.EXPECT().
		GetCustomerByID("cust-1").
		Return(&domain.Customer{ID: "cust-1"}, nil)
	mockAnalyticsRepo.EXPECT().
		CustomerOrderStats("cust-1").
		Return([]domain.OrderStat{}, nil)

	metrics, err := service.CustomerCLV("cust-1")
	assert.ErrorIs(t, err, ErrNoOrderHistory)
	assert.Nil(t, metrics)
}

func TestService_BulkCLV_SkipsCustomersWithoutOrders(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCustomerRepo := mocks.NewMockCustomerRepository(ctrl)
	mockAnalyticsRepo := mocks.NewMockAnalyticsRepository(ctrl)

	service := &Service{
		customerRepo:  mockCustomerRepo,
		analyticsRepo: mockAnalyticsRepo,
	}

	lastOrder := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	customers := []*domain.Customer{
		{ID: "cust-1", OrdersCount: 2, LastOrderDate: &lastOrder},
		{ID: "cust-2", OrdersCount: 0},
	}

	mockCustomerRepo.EXPECT().
		ListCustomers(&domain.InsightFilters{Platform: domain.PlatformWooCommerce, Limit: 10}).
		Return(customers, nil)

	mockAnalyticsRepo.EXPECT().
		CustomerOrderStats("cust-1").
		Return([]domain.OrderStat{
			{OrderDate: lastOrder.AddDate(0, -1, 0), TotalAmount: 50},
			{OrderDate: lastOrder, TotalAmount: 70},
		}, nil)

	results, err := service.BulkCLV(domain.PlatformWooCommerce, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "cust-1", results[0].CustomerID)
}

func TestService_PlatformSummaries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCustomerRepo := mocks.NewMockCustomerRepository(ctrl)
	mockAnalyticsRepo := mocks.NewMockAnalyticsRepository(ctrl)

	service := &Service{
		customerRepo:  mockCustomerRepo,
		analyticsRepo: mockAnalyticsRepo,
	}

	mockAnalyticsRepo.EXPECT().
		PlatformCLVSummaries().
		Return([]*domain.PlatformCLVSummary{
			{
				Platform:                domain.PlatformShopify,
				AvgOrderValue:           100,
				AvgOrders:               4,
				AvgCustomerLifespanDays: 365.25,
			},
			{
				// Lifespan below the floor clamps to 0.1 years
				Platform:                domain.PlatformWooCommerce,
				AvgOrderValue:           50,
				AvgOrders:               1,
				AvgCustomerLifespanDays: 2,
			},
		}, nil)

	summaries, err := service.PlatformSummaries()
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.InDelta(t, 400.0, summaries[0].EstimatedAvgCLV, 0.0001)
	assert.InDelta(t, 500.0, summaries[1].EstimatedAvgCLV, 0.0001)
}

func TestMedianOrderValue(t *testing.T) {
	assert.Zero(t, medianOrderValue(nil))
	assert.Equal(t, 200.0, medianOrderValue([]float64{300, 100, 200}))
	assert.Equal(t, 150.0, medianOrderValue([]float64{100, 200, 50, 5000}))
}

func TestPurchaseFrequencyPerYear(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	single := []domain.OrderStat{{OrderDate: start, TotalAmount: 10}}
	assert.Equal(t, 1.0, purchaseFrequencyPerYear(single))

	sameDay := []domain.OrderStat{
		{OrderDate: start},
		{OrderDate: start},
	}
	assert.Equal(t, 1.0, purchaseFrequencyPerYear(sameDay))

	spread := []domain.OrderStat{
		{OrderDate: start},
		{OrderDate: start.AddDate(0, 6, 0)},
		{OrderDate: start.Add(time.Duration(365.25*24) * time.Hour)},
	}
	assert.InDelta(t, 3.0, purchaseFrequencyPerYear(spread), 0.0001)
}

func TestConfidenceInterval_SingleOrder(t *testing.T) {
	low, high := confidenceInterval([]float64{100}, 400)
	assert.Equal(t, 200.0, low)
	assert.Equal(t, 600.0, high)
}

func TestConfidenceInterval_StableOrders(t *testing.T) {
	// Zero volatility leaves only the base uncertainty of 0.5
	low, high := confidenceInterval([]float64{100, 100, 100}, 1000)
	assert.InDelta(t, 850.0, low, 0.0001)
	assert.InDelta(t, 1150.0, high, 0.0001)
}

func TestRiskLevel(t *testing.T) {
	assert.Equal(t, "high", riskLevel(0.7))
	assert.Equal(t, "medium", riskLevel(0.4))
	assert.Equal(t, "low", riskLevel(0.39))
}

func TestDetermineSegment(t *testing.T) {
	tests := []struct {
		name               string
		clv                float64
		totalOrders        int
		daysSinceLastOrder int
		expected           string
	}{
		{name: "vip", clv: 5000, totalOrders: 10, daysSinceLastOrder: 5, expected: domain.CLVSegmentVIP},
		{name: "high value", clv: 2000, totalOrders: 5, daysSinceLastOrder: 5, expected: domain.CLVSegmentHighValue},
		{name: "regular", clv: 500, totalOrders: 3, daysSinceLastOrder: 30, expected: domain.CLVSegmentRegular},
		{name: "regular gone quiet", clv: 500, totalOrders: 3, daysSinceLastOrder: 91, expected: domain.CLVSegmentAtRisk},
		{name: "single purchase", clv: 100, totalOrders: 1, daysSinceLastOrder: 10, expected: domain.CLVSegmentNew},
		{name: "low value", clv: 100, totalOrders: 2, daysSinceLastOrder: 10, expected: domain.CLVSegmentLowValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, determineSegment(tt.clv, tt.totalOrders, tt.daysSinceLastOrder))
		})
	}
}
