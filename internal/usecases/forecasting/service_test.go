package forecasting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/repository/mocks"
	"github.com/selimsoyah/nexus-analytics-api/internal/config"
	"github.com/selimsoyah/nexus-analytics-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func forecastConfig() config.Forecast {
	return config.Forecast{
		LookbackDays:   90,
		DefaultPeriods: 30,
		MaxPeriods:     90,
	}
}

// linearSeries builds sinceDays of daily revenue growing by step per day
func linearSeries(start time.Time, days int, base, step float64) []*domain.DailyRevenue {
	series := make([]*domain.DailyRevenue, days)
	for i := 0; i < days; i++ {
		series[i] = &domain.DailyRevenue{
			Date:    start.AddDate(0, 0, i),
			Revenue: base + step*float64(i),
			Orders:  2,
		}
	}
	return series
}

func TestService_RevenueForecast(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAnalyticsRepo := mocks.NewMockAnalyticsRepository(ctrl)
	service := &Service{analyticsRepo: mockAnalyticsRepo, cfg: forecastConfig()}

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	series := linearSeries(start, 10, 100, 10) // 100, 110, ..., 190

	mockAnalyticsRepo.EXPECT().
		DailyRevenueSeries(domain.PlatformShopify, 90).
		Return(series, nil)

	report, err := service.RevenueForecast(domain.PlatformShopify, 5)
	require.NoError(t, err)

	assert.Equal(t, 5, report.ForecastPeriods)
	assert.Equal(t, 10, report.HistoricalDays)
	assert.InDelta(t, 10.0, report.TrendSlope, 0.0001)
	assert.InDelta(t, 160.0, report.RecentDailyAvg, 0.0001) // mean of last 7 days

	require.Len(t, report.Points, 5)

	// Day one: trend projects 200, blended 0.7*200 + 0.3*160
	first := report.Points[0]
	assert.Equal(t, start.AddDate(0, 0, 10), first.Date)
	assert.InDelta(t, 188.0, first.Value, 0.0001)
	assert.Less(t, first.LowerCI, first.Value)
	assert.Greater(t, first.UpperCI, first.Value)

	// Rising series keeps rising
	assert.Greater(t, report.Points[4].Value, report.Points[0].Value)
	assert.NotEmpty(t, report.Recommendation)
}

func TestService_RevenueForecast_InsufficientData(t *testing.T) {
	tests := []struct {
		name   string
		series []*domain.DailyRevenue
	}{
		{
			name:   "single day",
			series: linearSeries(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 1, 100, 0),
		},
		{
			name: "too few orders",
			series: []*domain.DailyRevenue{
				{Date: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Revenue: 100, Orders: 1},
				{Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), Revenue: 120, Orders: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockAnalyticsRepo := mocks.NewMockAnalyticsRepository(ctrl)
			service := &Service{analyticsRepo: mockAnalyticsRepo, cfg: forecastConfig()}

			mockAnalyticsRepo.EXPECT().
				DailyRevenueSeries(domain.Platform(""), 90).
				Return(tt.series, nil)

			report, err := service.RevenueForecast("", 7)
			assert.ErrorIs(t, err, ErrInsufficientData)
			assert.Nil(t, report)
		})
	}
}

func TestService_RevenueForecast_ClampsPeriods(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAnalyticsRepo := mocks.NewMockAnalyticsRepository(ctrl)
	service := &Service{analyticsRepo: mockAnalyticsRepo, cfg: forecastConfig()}

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	mockAnalyticsRepo.EXPECT().
		DailyRevenueSeries(domain.Platform(""), 90).
		Return(linearSeries(start, 10, 100, 0), nil).
		Times(2)

	report, err := service.RevenueForecast("", 0)
	require.NoError(t, err)
	assert.Equal(t, 30, report.ForecastPeriods)

	report, err = service.RevenueForecast("", 500)
	require.NoError(t, err)
	assert.Equal(t, 90, report.ForecastPeriods)
}

func TestService_RevenueTrends(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAnalyticsRepo := mocks.NewMockAnalyticsRepository(ctrl)
	service := &Service{analyticsRepo: mockAnalyticsRepo, cfg: forecastConfig()}

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	periods := make([]*domain.TrendPeriod, 6)
	for i := range periods {
		periods[i] = &domain.TrendPeriod{
			PeriodStart:  start.AddDate(0, i, 0),
			TotalRevenue: 100 + 20*float64(i), // 100..200
			OrderCount:   10,
		}
	}

	mockAnalyticsRepo.EXPECT().
		TrendPeriods("monthly", domain.Platform(""), 90).
		Return(periods, nil)

	analysis, err := service.RevenueTrends("monthly", "")
	require.NoError(t, err)

	assert.Equal(t, "monthly", analysis.Period)
	assert.Equal(t, 6, analysis.TotalPeriods)
	// Last three (160, 180, 200) vs first three (100, 120, 140)
	assert.InDelta(t, 50.0, analysis.GrowthRatePct, 0.0001)
	assert.Equal(t, "increasing", analysis.TrendDirection)
	assert.InDelta(t, 900.0, analysis.TotalRevenue, 0.0001)
	assert.InDelta(t, 150.0, analysis.AvgPeriodRevenue, 0.0001)
}

func TestService_RevenueTrends_ShortHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAnalyticsRepo := mocks.NewMockAnalyticsRepository(ctrl)
	service := &Service{analyticsRepo: mockAnalyticsRepo, cfg: forecastConfig()}

	mockAnalyticsRepo.EXPECT().
		TrendPeriods("weekly", domain.Platform(""), 90).
		Return([]*domain.TrendPeriod{
			{TotalRevenue: 100},
			{TotalRevenue: 120},
		}, nil)

	analysis, err := service.RevenueTrends("weekly", "")
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.Nil(t, analysis)
}

func TestService_RevenueTrends_DirectionNeedsFivePeriods(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAnalyticsRepo := mocks.NewMockAnalyticsRepository(ctrl)
	service := &Service{analyticsRepo: mockAnalyticsRepo, cfg: forecastConfig()}

	mockAnalyticsRepo.EXPECT().
		TrendPeriods("weekly", domain.Platform(""), 90).
		Return([]*domain.TrendPeriod{
			{TotalRevenue: 100},
			{TotalRevenue: 150},
			{TotalRevenue: 200},
		}, nil)

	analysis, err := service.RevenueTrends("weekly", "")
	require.NoError(t, err)
	assert.Equal(t, "insufficient_data", analysis.TrendDirection)
}

func TestService_Seasonality(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAnalyticsRepo := mocks.NewMockAnalyticsRepository(ctrl)
	service := &Service{analyticsRepo: mockAnalyticsRepo, cfg: forecastConfig()}

	// 98 days starting on a Monday, Saturdays carry double revenue
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Monday, start.Weekday())

	series := make([]*domain.DailyRevenue, 98)
	for i := range series {
		date := start.AddDate(0, 0, i)
		revenue := 100.0
		if date.Weekday() == time.Saturday {
			revenue = 200.0
		}
		series[i] = &domain.DailyRevenue{Date: date, Revenue: revenue, Orders: 1}
	}

	mockAnalyticsRepo.EXPECT().
		DailyRevenueSeries(domain.Platform(""), 365).
		Return(series, nil)

	report, err := service.Seasonality("")
	require.NoError(t, err)

	assert.Len(t, report.Weekdays, 7)
	assert.Equal(t, "Saturday", report.PeakDay)
	assert.NotEqual(t, "Saturday", report.TroughDay)
}

func TestService_Seasonality_ShortHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAnalyticsRepo := mocks.NewMockAnalyticsRepository(ctrl)
	service := &Service{analyticsRepo: mockAnalyticsRepo, cfg: forecastConfig()}

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	mockAnalyticsRepo.EXPECT().
		DailyRevenueSeries(domain.Platform(""), 365).
		Return(linearSeries(start, 30, 100, 0), nil)

	report, err := service.Seasonality("")
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.Nil(t, report)
}

func TestService_Scenarios(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAnalyticsRepo := mocks.NewMockAnalyticsRepository(ctrl)
	service := &Service{analyticsRepo: mockAnalyticsRepo, cfg: forecastConfig()}

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	mockAnalyticsRepo.EXPECT().
		DailyRevenueSeries(domain.Platform(""), 90).
		Return(linearSeries(start, 14, 100, 0), nil)

	report, err := service.Scenarios("", 30, nil)
	require.NoError(t, err)

	require.Len(t, report.Scenarios, len(defaultScenarios))

	baseline := report.Scenarios[0]
	assert.Equal(t, "baseline", baseline.Name)
	assert.InDelta(t, report.Baseline, baseline.TotalRevenue, 0.0001)

	growth := report.Scenarios[1]
	assert.Equal(t, "growth", growth.Name)
	assert.Greater(t, growth.TotalRevenue, baseline.TotalRevenue)

	decline := report.Scenarios[3]
	assert.Equal(t, "decline", decline.Name)
	assert.Less(t, decline.TotalRevenue, baseline.TotalRevenue)
}

func TestLinearFit(t *testing.T) {
	slope, intercept := linearFit([]float64{100, 110, 120, 130})
	assert.InDelta(t, 10.0, slope, 0.0001)
	assert.InDelta(t, 100.0, intercept, 0.0001)

	slope, intercept = linearFit([]float64{50})
	assert.Zero(t, slope)
	assert.Equal(t, 50.0, intercept)
}

func TestMovingAverage(t *testing.T) {
	values := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	assert.InDelta(t, 70.0, movingAverage(values, 7), 0.0001)
	assert.InDelta(t, 55.0, movingAverage(values, 20), 0.0001)
	assert.Zero(t, movingAverage(nil, 7))
}

func TestIndexCorrelation(t *testing.T) {
	assert.InDelta(t, 1.0, indexCorrelation([]float64{1, 2, 3, 4, 5}), 0.0001)
	assert.InDelta(t, -1.0, indexCorrelation([]float64{5, 4, 3, 2, 1}), 0.0001)
	assert.Zero(t, indexCorrelation([]float64{3, 3, 3, 3}))
}