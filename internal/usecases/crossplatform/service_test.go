package crossplatform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/repository/mocks"
	"github.com/selimsoyah/nexus-analytics-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func flatSeries(start time.Time, days int, revenue float64, orders, customers int) []*domain.DailyRevenue {
	series := make([]*domain.DailyRevenue, days)
	for i := 0; i < days; i++ {
		series[i] = &domain.DailyRevenue{
			Date:      start.AddDate(0, 0, i),
			Revenue:   revenue,
			Orders:    orders,
			Customers: customers,
		}
	}
	return series
}

func TestService_PerformanceScores(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAnalyticsRepo := mocks.NewMockAnalyticsRepository(ctrl)
	service := &Service{analyticsRepo: mockAnalyticsRepo}

	// Scores read the products-free aggregate, never PlatformOverviews:
	// its products join inflates the revenue sum per platform
	mockAnalyticsRepo.EXPECT().
		PlatformPerformanceStats().
		Return([]*domain.PlatformPerformanceStat{
			{Platform: domain.PlatformWooCommerce, TotalRevenue: 50000, AvgOrderValue: 250},
			{
				Platform:         domain.PlatformShopify,
				TotalRevenue:     100000,
				AvgOrderValue:    500,
				AvgCustomerValue: 400,
				RetentionRate:    50,
			},
		}, nil)

	// Growth rate series: previous month 100/day, last week 150/day
	now := time.Now()
	growthSeries := func() []*domain.DailyRevenue {
		series := flatSeries(now.AddDate(0, 0, -45), 5, 100, 1, 1)
		return append(series, flatSeries(now.AddDate(0, 0, -6), 5, 150, 1, 1)...)
	}

	mockAnalyticsRepo.EXPECT().
		DailyRevenueSeries(domain.PlatformWooCommerce, 60).
		Return(growthSeries(), nil)
	mockAnalyticsRepo.EXPECT().
		DailyRevenueSeries(domain.PlatformShopify, 60).
		Return(growthSeries(), nil)

	performances, err := service.PerformanceScores()
	require.NoError(t, err)
	require.Len(t, performances, 2)

	// Ranked best first
	best := performances[0]
	assert.Equal(t, domain.PlatformShopify, best.Platform)

	// revenue 100k/500k*30 + aov 500/1000*20 + clv 400/5000*25
	// + retention 50/100*15 + share capped at 10
	assert.InDelta(t, 400.0, best.AvgCLV, 0.0001)
	assert.InDelta(t, 6.0+10.0+2.0+7.5+10.0, best.PerformanceScore, 0.0001)
	assert.InDelta(t, 50.0, best.GrowthRatePct, 0.0001)

	second := performances[1]
	assert.Equal(t, domain.PlatformWooCommerce, second.Platform)
	assert.Zero(t, second.AvgCLV)
	assert.InDelta(t, 3.0+5.0+0.0+0.0+(100.0/3.0/50.0*10.0), second.PerformanceScore, 0.0001)
}

func TestService_Predictions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAnalyticsRepo := mocks.NewMockAnalyticsRepository(ctrl)
	service := &Service{analyticsRepo: mockAnalyticsRepo}

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// First week at 100/day, second week at 200/day
	growing := append(
		flatSeries(start, 7, 100, 2, 1),
		flatSeries(start.AddDate(0, 0, 7), 7, 200, 2, 1)...,
	)

	mockAnalyticsRepo.EXPECT().
		DailyRevenueSeries(domain.PlatformWooCommerce, 90).
		Return(growing, nil)
	mockAnalyticsRepo.EXPECT().
		DailyRevenueSeries(domain.PlatformShopify, 90).
		Return(flatSeries(start, 3, 100, 1, 1), nil)
	mockAnalyticsRepo.EXPECT().
		DailyRevenueSeries(domain.PlatformGenericCSV, 90).
		Return(nil, nil)

	predictions, err := service.Predictions(10)
	require.NoError(t, err)
	require.Len(t, predictions, 3)

	woo := predictions[0]
	assert.Equal(t, domain.PlatformWooCommerce, woo.Platform)
	assert.InDelta(t, 2000.0, woo.PredictedRevenue30d, 0.0001)
	assert.InDelta(t, 18000.0, woo.PredictedRevenue90d, 0.0001)
	assert.Equal(t, 20, woo.PredictedOrders30d)
	assert.Equal(t, 10, woo.PredictedCustomers30d)
	assert.Equal(t, "growing", woo.GrowthTrend)
	assert.InDelta(t, 14.0/30.0, woo.ConfidenceScore, 0.0001)

	// Half at 100 and half at 200 puts the variance above the daily average
	assert.Equal(t, "high", woo.RiskLevel)

	// Short histories degrade gracefully
	for _, prediction := range predictions[1:] {
		assert.Equal(t, "insufficient_data", prediction.GrowthTrend)
		assert.Equal(t, "unknown", prediction.RiskLevel)
		assert.Zero(t, prediction.PredictedRevenue30d)
	}
}

func TestService_Anomalies(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAnalyticsRepo := mocks.NewMockAnalyticsRepository(ctrl)
	service := &Service{analyticsRepo: mockAnalyticsRepo}

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	spikeDate := start.AddDate(0, 0, 9)

	// Nine quiet days and one 10x spike: z = 810/270 = 3.0
	spiky := flatSeries(start, 9, 100, 1, 1)
	spiky = append(spiky, &domain.DailyRevenue{Date: spikeDate, Revenue: 1000, Orders: 1, Customers: 1})

	mockAnalyticsRepo.EXPECT().
		DailyRevenueSeries(domain.PlatformWooCommerce, 30).
		Return(spiky, nil)
	// Constant revenue has zero deviation and is skipped
	mockAnalyticsRepo.EXPECT().
		DailyRevenueSeries(domain.PlatformShopify, 30).
		Return(flatSeries(start, 10, 100, 1, 1), nil)
	mockAnalyticsRepo.EXPECT().
		DailyRevenueSeries(domain.PlatformGenericCSV, 30).
		Return(nil, nil)

	report, err := service.Anomalies(0)
	require.NoError(t, err)

	assert.Equal(t, 30, report.WindowDays)
	assert.Equal(t, 2.0, report.Threshold)

	require.Len(t, report.Anomalies, 1)
	anomaly := report.Anomalies[0]
	assert.Equal(t, domain.PlatformWooCommerce, anomaly.Platform)
	assert.Equal(t, spikeDate, anomaly.Date)
	assert.Equal(t, 1000.0, anomaly.Revenue)
	assert.Equal(t, 3.0, anomaly.ZScore)
	assert.Equal(t, "spike", anomaly.Kind)
}

func TestService_Anomalies_Drop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAnalyticsRepo := mocks.NewMockAnalyticsRepository(ctrl)
	service := &Service{analyticsRepo: mockAnalyticsRepo}

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// Mirror image of the spike case
	dippy := flatSeries(start, 9, 1000, 1, 1)
	dippy = append(dippy, &domain.DailyRevenue{Date: start.AddDate(0, 0, 9), Revenue: 100, Orders: 1, Customers: 1})

	mockAnalyticsRepo.EXPECT().
		DailyRevenueSeries(domain.PlatformWooCommerce, 14).
		Return(dippy, nil)
	mockAnalyticsRepo.EXPECT().
		DailyRevenueSeries(domain.PlatformShopify, 14).
		Return(nil, nil)
	mockAnalyticsRepo.EXPECT().
		DailyRevenueSeries(domain.PlatformGenericCSV, 14).
		Return(nil, nil)

	report, err := service.Anomalies(14)
	require.NoError(t, err)

	require.Len(t, report.Anomalies, 1)
	assert.Equal(t, "drop", report.Anomalies[0].Kind)
	assert.Equal(t, -3.0, report.Anomalies[0].ZScore)
}

func TestRecommendations(t *testing.T) {
	performances := []*domain.PlatformPerformance{
		{Platform: domain.PlatformShopify, PerformanceScore: 60, GrowthRatePct: 12, RetentionRate: 45},
		{Platform: domain.PlatformWooCommerce, PerformanceScore: 20, GrowthRatePct: -8, RetentionRate: 10},
	}

	recommendations := Recommendations(performances)
	require.Len(t, recommendations, 3)
	assert.Contains(t, recommendations[0], "shopify")
	assert.Contains(t, recommendations[1], "woocommerce")
	assert.Contains(t, recommendations[1], "shrinking")
	assert.Contains(t, recommendations[2], "retention")

	assert.Empty(t, Recommendations(nil))
}

func TestPerformanceScore_CapsComponents(t *testing.T) {
	// Every component past its cap yields the maximum 100
	assert.Equal(t, 100.0, performanceScore(1e7, 5000, 50000, 500, 100))
	assert.Zero(t, performanceScore(0, 0, 0, 0, 0))
}

func TestTailAndHeadAvg(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	series := append(
		flatSeries(start, 5, 100, 1, 1),
		flatSeries(start.AddDate(0, 0, 5), 5, 200, 1, 1)...,
	)

	revenue := func(p *domain.DailyRevenue) float64 { return p.Revenue }

	assert.InDelta(t, 200.0, tailAvg(series, 5, revenue), 0.0001)
	assert.InDelta(t, 100.0, headAvg(series, 5, revenue), 0.0001)
	assert.InDelta(t, 150.0, tailAvg(series, 20, revenue), 0.0001)
	assert.Zero(t, tailAvg(nil, 7, revenue))
}
