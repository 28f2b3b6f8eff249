package crossplatform

import (
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/repository"
	"github.com/selimsoyah/nexus-analytics-api/internal/domain"
	"github.com/selimsoyah/nexus-analytics-api/pkg/utils"
)

// Analyzer compares the connected platforms: composite performance scores,
// trend predictions and revenue anomaly detection
type Analyzer interface {
	Overview() ([]*domain.PlatformOverview, error)
	PerformanceScores() ([]*domain.PlatformPerformance, error)
	Predictions(daysAhead int) ([]*domain.PlatformPrediction, error)
	Anomalies(windowDays int) (*domain.AnomalyReport, error)
}

type Service struct {
	analyticsRepo repository.AnalyticsRepository
}

func NewService(analyticsRepo repository.AnalyticsRepository) Analyzer {
	return &Service{
		analyticsRepo: analyticsRepo,
	}
}

func (s *Service) Overview() ([]*domain.PlatformOverview, error) {
	return s.analyticsRepo.PlatformOverviews()
}

// PerformanceScores blends revenue, order value, lifetime value (average
// customer spend), retention and market share into a 0-100 composite, ranked
// best first. It reads the products-free aggregate, not the overview: the
// overview's product counts come from a join that would inflate revenue.
func (s *Service) PerformanceScores() ([]*domain.PlatformPerformance, error) {
	stats, err := s.analyticsRepo.PlatformPerformanceStats()
	if err != nil {
		return nil, errors.Wrap(err, "loading platform performance stats")
	}

	totalRevenue := 0.0
	for _, stat := range stats {
		totalRevenue += stat.TotalRevenue
	}

	performances := make([]*domain.PlatformPerformance, 0, len(stats))
	for _, stat := range stats {
		marketShare := 0.0
		if totalRevenue > 0 {
			marketShare = stat.TotalRevenue / totalRevenue * 100
		}

		growthRate, err := s.growthRate(stat.Platform)
		if err != nil {
			return nil, err
		}

		performances = append(performances, &domain.PlatformPerformance{
			Platform:         stat.Platform,
			TotalRevenue:     stat.TotalRevenue,
			AvgOrderValue:    stat.AvgOrderValue,
			AvgCLV:           stat.AvgCustomerValue,
			RetentionRate:    stat.RetentionRate,
			MarketSharePct:   marketShare,
			GrowthRatePct:    growthRate,
			PerformanceScore: performanceScore(stat.TotalRevenue, stat.AvgOrderValue, stat.AvgCustomerValue, stat.RetentionRate, marketShare),
		})
	}

	// Best platform first
	for i := 0; i < len(performances); i++ {
		for j := i + 1; j < len(performances); j++ {
			if performances[j].PerformanceScore > performances[i].PerformanceScore {
				performances[i], performances[j] = performances[j], performances[i]
			}
		}
	}

	return performances, nil
}

// Predictions projects each platform forward from its recent 7-day averages.
func (s *Service) Predictions(daysAhead int) ([]*domain.PlatformPrediction, error) {
	if daysAhead <= 0 {
		daysAhead = 30
	}

	predictions := make([]*domain.PlatformPrediction, 0, len(domain.KnownPlatforms))

	for _, platform := range domain.KnownPlatforms {
		series, err := s.analyticsRepo.DailyRevenueSeries(platform, 90)
		if err != nil {
			return nil, errors.Wrap(err, "loading daily revenue")
		}

		if len(series) < 7 {
			predictions = append(predictions, &domain.PlatformPrediction{
				Platform:    platform,
				GrowthTrend: "insufficient_data",
				RiskLevel:   "unknown",
			})
			continue
		}

		recentRevenue := tailAvg(series, 7, func(p *domain.DailyRevenue) float64 { return p.Revenue })
		recentOrders := tailAvg(series, 7, func(p *domain.DailyRevenue) float64 { return float64(p.Orders) })
		recentCustomers := tailAvg(series, 7, func(p *domain.DailyRevenue) float64 { return float64(p.Customers) })

		growthTrend := "stable"
		confidence := 0.5
		if len(series) >= 14 {
			olderRevenue := headAvg(series, 7, func(p *domain.DailyRevenue) float64 { return p.Revenue })
			if recentRevenue > olderRevenue {
				growthTrend = "growing"
			} else {
				growthTrend = "declining"
			}
			confidence = math.Min(0.85, float64(len(series))/30.0)
		}

		variance := revenueVariance(series)
		riskLevel := "low"
		if variance > recentRevenue {
			riskLevel = "high"
		} else if variance > recentRevenue*0.5 {
			riskLevel = "medium"
		}

		predictions = append(predictions, &domain.PlatformPrediction{
			Platform:              platform,
			PredictedRevenue30d:   recentRevenue * float64(daysAhead),
			PredictedRevenue90d:   recentRevenue * 90,
			PredictedCustomers30d: int(recentCustomers * float64(daysAhead)),
			PredictedOrders30d:    int(recentOrders * float64(daysAhead)),
			ConfidenceScore:       confidence,
			GrowthTrend:           growthTrend,
			RiskLevel:             riskLevel,
		})
	}

	return predictions, nil
}

// Anomalies flags days where revenue sits more than two standard deviations
// from the platform mean.
func (s *Service) Anomalies(windowDays int) (*domain.AnomalyReport, error) {
	if windowDays <= 0 {
		windowDays = 30
	}

	const threshold = 2.0

	anomalies := make([]domain.PlatformAnomaly, 0)

	for _, platform := range domain.KnownPlatforms {
		series, err := s.analyticsRepo.DailyRevenueSeries(platform, windowDays)
		if err != nil {
			return nil, errors.Wrap(err, "loading daily revenue")
		}

		if len(series) < 7 {
			continue
		}

		meanVal, stdVal := revenueMeanStd(series)
		if stdVal == 0 {
			continue
		}

		for _, point := range series {
			z := (point.Revenue - meanVal) / stdVal
			if math.Abs(z) < threshold {
				continue
			}

			kind := "spike"
			if z < 0 {
				kind = "drop"
			}

			anomalies = append(anomalies, domain.PlatformAnomaly{
				Platform: platform,
				Date:     point.Date,
				Revenue:  point.Revenue,
				ZScore:   utils.RoundWithTwoDecimalPlace(z),
				Kind:     kind,
			})
		}
	}

	return &domain.AnomalyReport{
		Anomalies:   anomalies,
		WindowDays:  windowDays,
		Threshold:   threshold,
		GeneratedAt: time.Now(),
	}, nil
}

// Recommendations derives action items from the ranked performance scores
func Recommendations(performances []*domain.PlatformPerformance) []string {
	recommendations := make([]string, 0, len(performances)+1)
	if len(performances) == 0 {
		return recommendations
	}

	best := performances[0]
	recommendations = append(recommendations, fmt.Sprintf(
		"%s is the strongest platform, prioritize inventory and marketing spend there", best.Platform))

	for _, performance := range performances {
		if performance.GrowthRatePct < 0 {
			recommendations = append(recommendations, fmt.Sprintf(
				"%s revenue is shrinking, review pricing and active campaigns", performance.Platform))
		}
		if performance.RetentionRate > 0 && performance.RetentionRate < 20 {
			recommendations = append(recommendations, fmt.Sprintf(
				"%s retention is low, consider win-back campaigns", performance.Platform))
		}
	}

	return recommendations
}

// growthRate compares the last 30 days of revenue against the 30 before
func (s *Service) growthRate(platform domain.Platform) (float64, error) {
	series, err := s.analyticsRepo.DailyRevenueSeries(platform, 60)
	if err != nil {
		return 0, errors.Wrap(err, "loading daily revenue")
	}

	cutoff := time.Now().AddDate(0, 0, -30)

	var recent, previous float64
	for _, point := range series {
		if point.Date.After(cutoff) {
			recent += point.Revenue
		} else {
			previous += point.Revenue
		}
	}

	if previous <= 0 {
		return 0, nil
	}

	return (recent - previous) / previous * 100, nil
}

// performanceScore caps each component and weights them: revenue 30%, order
// value 20%, lifetime value 25%, retention 15%, market share 10%.
func performanceScore(revenue, aov, clvValue, retention, marketShare float64) float64 {
	revenueScore := math.Min(revenue/500000, 1.0) * 30
	aovScore := math.Min(aov/1000, 1.0) * 20
	clvScore := math.Min(clvValue/5000, 1.0) * 25
	retentionScore := math.Min(retention/100, 1.0) * 15
	marketScore := math.Min(marketShare/50, 1.0) * 10

	return revenueScore + aovScore + clvScore + retentionScore + marketScore
}

func tailAvg(series []*domain.DailyRevenue, n int, metric func(*domain.DailyRevenue) float64) float64 {
	if len(series) < n {
		n = len(series)
	}
	if n == 0 {
		return 0
	}

	sum := 0.0
	for _, point := range series[len(series)-n:] {
		sum += metric(point)
	}
	return sum / float64(n)
}

func headAvg(series []*domain.DailyRevenue, n int, metric func(*domain.DailyRevenue) float64) float64 {
	if len(series) < n {
		n = len(series)
	}
	if n == 0 {
		return 0
	}

	sum := 0.0
	for _, point := range series[:n] {
		sum += metric(point)
	}
	return sum / float64(n)
}

func revenueMeanStd(series []*domain.DailyRevenue) (float64, float64) {
	if len(series) == 0 {
		return 0, 0
	}

	mean := 0.0
	for _, point := range series {
		mean += point.Revenue
	}
	mean /= float64(len(series))

	variance := 0.0
	for _, point := range series {
		variance += (point.Revenue - mean) * (point.Revenue - mean)
	}
	variance /= float64(len(series))

	return mean, math.Sqrt(variance)
}

func revenueVariance(series []*domain.DailyRevenue) float64 {
	_, std := revenueMeanStd(series)
	return std * std
}
