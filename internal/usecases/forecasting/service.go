package forecasting

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/repository"
	"github.com/selimsoyah/nexus-analytics-api/internal/config"
	"github.com/selimsoyah/nexus-analytics-api/internal/domain"
	"github.com/selimsoyah/nexus-analytics-api/pkg/utils"
)

var ErrInsufficientData = errors.New("insufficient revenue history for forecasting")

// Default what-if adjustments: flat, +5%, +10%, -5%
var defaultScenarios = []float64{0.0, 0.05, 0.10, -0.05}

// Forecaster projects revenue from the daily series: a least-squares trend
// blended with a 7-day moving average
type Forecaster interface {
	RevenueForecast(platform domain.Platform, periods int) (*domain.ForecastReport, error)
	RevenueTrends(period string, platform domain.Platform) (*domain.TrendAnalysis, error)
	Seasonality(platform domain.Platform) (*domain.SeasonalityReport, error)
	Scenarios(platform domain.Platform, periods int, adjustments []float64) (*domain.ScenarioReport, error)
}

type Service struct {
	analyticsRepo repository.AnalyticsRepository
	cfg           config.Forecast
}

func NewService(analyticsRepo repository.AnalyticsRepository, cfg config.Forecast) Forecaster {
	return &Service{
		analyticsRepo: analyticsRepo,
		cfg:           cfg,
	}
}

func (s *Service) RevenueForecast(platform domain.Platform, periods int) (*domain.ForecastReport, error) {
	periods = s.clampPeriods(periods)

	series, err := s.analyticsRepo.DailyRevenueSeries(platform, s.cfg.LookbackDays)
	if err != nil {
		return nil, errors.Wrap(err, "loading daily revenue")
	}

	totalOrders := 0
	for _, point := range series {
		totalOrders += point.Orders
	}

	if len(series) < 2 || totalOrders < 3 {
		return nil, ErrInsufficientData
	}

	revenues := make([]float64, len(series))
	for i, point := range series {
		revenues[i] = point.Revenue
	}

	slope, intercept := linearFit(revenues)
	recentAvg := movingAverage(revenues, 7)
	std := stdDev(revenues)

	lastDate := series[len(series)-1].Date
	points := make([]domain.ForecastPoint, 0, periods)
	total := 0.0

	for i := 0; i < periods; i++ {
		trendValue := slope*float64(len(revenues)+i) + intercept
		value := 0.7*trendValue + 0.3*recentAvg

		// Never project below a tenth of recent performance
		if floor := recentAvg * 0.1; value < floor {
			value = floor
		}

		lower := value - 1.96*std*0.3
		if lower < 0 {
			lower = 0
		}

		points = append(points, domain.ForecastPoint{
			Date:    lastDate.AddDate(0, 0, i+1),
			Value:   value,
			LowerCI: lower,
			UpperCI: value + 1.96*std*0.3,
		})
		total += value
	}

	avgDaily := mean(revenues)

	return &domain.ForecastReport{
		Points:          points,
		ForecastPeriods: periods,
		HistoricalDays:  len(series),
		TrendSlope:      slope,
		RecentDailyAvg:  recentAvg,
		TotalForecast:   total,
		Recommendation:  recommendation(slope, avgDaily),
		GeneratedAt:     time.Now(),
	}, nil
}

func (s *Service) RevenueTrends(period string, platform domain.Platform) (*domain.TrendAnalysis, error) {
	periods, err := s.analyticsRepo.TrendPeriods(period, platform, s.cfg.LookbackDays)
	if err != nil {
		return nil, errors.Wrap(err, "loading trend periods")
	}

	if len(periods) < 3 {
		return nil, ErrInsufficientData
	}

	revenues := make([]float64, len(periods))
	totalRevenue := 0.0
	for i, p := range periods {
		revenues[i] = p.TotalRevenue
		totalRevenue += p.TotalRevenue
	}

	// Growth: last three periods against the first three
	window := 3
	if len(revenues) < window {
		window = len(revenues)
	}
	previousAvg := mean(revenues[:window])
	recentAvg := mean(revenues[len(revenues)-window:])

	growthRate := 0.0
	if previousAvg > 0 {
		growthRate = (recentAvg - previousAvg) / previousAvg * 100
	}

	volatility := 0.0
	if avg := mean(revenues); avg > 0 {
		volatility = stdDev(revenues) / avg
	}

	direction := "insufficient_data"
	if len(revenues) >= 5 {
		corr := indexCorrelation(revenues)
		switch {
		case corr > 0.1:
			direction = "increasing"
		case corr < -0.1:
			direction = "decreasing"
		default:
			direction = "stable"
		}
	}

	out := make([]domain.TrendPeriod, len(periods))
	for i, p := range periods {
		out[i] = *p
	}

	return &domain.TrendAnalysis{
		Period:           period,
		Periods:          out,
		GrowthRatePct:    utils.RoundWithTwoDecimalPlace(growthRate),
		Volatility:       round3(volatility),
		TrendDirection:   direction,
		TotalPeriods:     len(periods),
		TotalRevenue:     totalRevenue,
		AvgPeriodRevenue: totalRevenue / float64(len(periods)),
	}, nil
}

// Seasonality breaks the last year of daily revenue down by weekday. Needs at
// least 90 days of history.
func (s *Service) Seasonality(platform domain.Platform) (*domain.SeasonalityReport, error) {
	series, err := s.analyticsRepo.DailyRevenueSeries(platform, 365)
	if err != nil {
		return nil, errors.Wrap(err, "loading daily revenue")
	}

	if len(series) < 90 {
		return nil, ErrInsufficientData
	}

	sums := make([]float64, 7)
	counts := make([]int, 7)
	total := 0.0
	for _, point := range series {
		day := int(point.Date.Weekday())
		sums[day] += point.Revenue
		counts[day]++
		total += point.Revenue
	}

	weekdays := make([]domain.WeekdayRevenue, 0, 7)
	peak, trough := "", ""
	peakAvg, troughAvg := -1.0, math.MaxFloat64

	for day := 0; day < 7; day++ {
		if counts[day] == 0 {
			continue
		}

		avg := sums[day] / float64(counts[day])
		name := time.Weekday(day).String()

		share := 0.0
		if total > 0 {
			share = sums[day] / total
		}

		weekdays = append(weekdays, domain.WeekdayRevenue{
			Weekday:    name,
			AvgRevenue: avg,
			Share:      round3(share),
		})

		if avg > peakAvg {
			peakAvg, peak = avg, name
		}
		if avg < troughAvg {
			troughAvg, trough = avg, name
		}
	}

	return &domain.SeasonalityReport{
		Weekdays:    weekdays,
		PeakDay:     peak,
		TroughDay:   trough,
		GeneratedAt: time.Now(),
	}, nil
}

// Scenarios applies compound growth adjustments to the base forecast,
// compounding monthly over the horizon.
func (s *Service) Scenarios(platform domain.Platform, periods int, adjustments []float64) (*domain.ScenarioReport, error) {
	if len(adjustments) == 0 {
		adjustments = defaultScenarios
	}

	base, err := s.RevenueForecast(platform, periods)
	if err != nil {
		return nil, err
	}

	scenarios := make([]domain.Scenario, 0, len(adjustments))
	for _, adjustment := range adjustments {
		total := 0.0
		for i, point := range base.Points {
			growthFactor := math.Pow(1+adjustment, float64(i)/30.0)
			total += point.Value * growthFactor
		}

		scenarios = append(scenarios, domain.Scenario{
			Name:         scenarioName(adjustment),
			Adjustment:   adjustment,
			TotalRevenue: total,
			DailyAverage: total / float64(len(base.Points)),
		})
	}

	return &domain.ScenarioReport{
		Baseline:    base.TotalForecast,
		Periods:     base.ForecastPeriods,
		Scenarios:   scenarios,
		GeneratedAt: time.Now(),
	}, nil
}

func (s *Service) clampPeriods(periods int) int {
	if periods <= 0 {
		periods = s.cfg.DefaultPeriods
	}
	if s.cfg.MaxPeriods > 0 && periods > s.cfg.MaxPeriods {
		periods = s.cfg.MaxPeriods
	}
	return periods
}

func scenarioName(adjustment float64) string {
	switch {
	case adjustment > 0:
		return "growth"
	case adjustment < 0:
		return "decline"
	default:
		return "baseline"
	}
}

func recommendation(slope, avgDaily float64) string {
	switch {
	case slope > avgDaily*0.01:
		return "Revenue is trending upward. Maintain current strategies and consider scaling successful campaigns."
	case slope < -avgDaily*0.01:
		return "Revenue is declining. Review recent changes and consider promotional campaigns."
	default:
		return "Revenue is stable. Look for growth opportunities through new products or markets."
	}
}

// linearFit returns the least-squares slope and intercept for the series
// indexed 0..n-1
func linearFit(values []float64) (slope, intercept float64) {
	n := float64(len(values))
	if n == 0 {
		return 0, 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}

	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

func movingAverage(values []float64, window int) float64 {
	if len(values) == 0 {
		return 0
	}
	if window > len(values) {
		window = len(values)
	}
	return mean(values[len(values)-window:])
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	variance := 0.0
	for _, v := range values {
		variance += (v - m) * (v - m)
	}
	return math.Sqrt(variance / float64(len(values)))
}

// indexCorrelation is the Pearson correlation between the series and its
// index, a cheap monotonicity measure
func indexCorrelation(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}

	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}

	meanX := mean(xs)
	meanY := mean(values)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := values[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	if varX == 0 || varY == 0 {
		return 0
	}

	return cov / math.Sqrt(varX*varY)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
