package clv

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/repository"
	"github.com/selimsoyah/nexus-analytics-api/internal/domain"
	"github.com/selimsoyah/nexus-analytics-api/pkg/log"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrNoOrderHistory   = errors.New("customer has no order history")
)

const daysPerYear = 365.25

// Calculator computes customer lifetime value with the traditional formula:
// CLV = average order value x purchase frequency x lifespan in years.
type Calculator interface {
	CustomerCLV(customerID string) (*domain.CLVMetrics, error)
	BulkCLV(platform domain.Platform, limit int) ([]*domain.CLVMetrics, error)
	PlatformSummaries() ([]*domain.PlatformCLVSummary, error)
}

type Service struct {
	customerRepo  repository.CustomerRepository
	analyticsRepo repository.AnalyticsRepository
}

func NewService(
	customerRepo repository.CustomerRepository,
	analyticsRepo repository.AnalyticsRepository,
) Calculator {
	return &Service{
		customerRepo:  customerRepo,
		analyticsRepo: analyticsRepo,
	}
}

func (s *Service) CustomerCLV(customerID string) (*domain.CLVMetrics, error) {
	customer, err := s.customerRepo.GetCustomerByID(customerID)
	if err != nil {
		return nil, errors.Wrap(err, "loading customer")
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}

	stats, err := s.analyticsRepo.CustomerOrderStats(customerID)
	if err != nil {
		return nil, errors.Wrap(err, "loading order history")
	}
	if len(stats) == 0 {
		return nil, ErrNoOrderHistory
	}

	return s.calculate(customer, stats), nil
}

// BulkCLV computes CLV for the top spenders on a platform. Customers without
// order history are skipped.
func (s *Service) BulkCLV(platform domain.Platform, limit int) ([]*domain.CLVMetrics, error) {
	if limit <= 0 {
		limit = 1000
	}

	customers, err := s.customerRepo.ListCustomers(&domain.InsightFilters{
		Platform: platform,
		Limit:    limit,
	})
	if err != nil {
		return nil, errors.Wrap(err, "listing customers")
	}

	results := make([]*domain.CLVMetrics, 0, len(customers))
	for _, customer := range customers {
		if customer.OrdersCount == 0 {
			continue
		}

		stats, err := s.analyticsRepo.CustomerOrderStats(customer.ID)
		if err != nil {
			log.L.WithError(err).WithField("user_id", customer.ID).Warn("Skipping customer in bulk CLV")
			continue
		}
		if len(stats) == 0 {
			continue
		}

		results = append(results, s.calculate(customer, stats))
	}

	return results, nil
}

func (s *Service) PlatformSummaries() ([]*domain.PlatformCLVSummary, error) {
	summaries, err := s.analyticsRepo.PlatformCLVSummaries()
	if err != nil {
		return nil, errors.Wrap(err, "loading platform clv summaries")
	}

	for _, summary := range summaries {
		lifespanYears := summary.AvgCustomerLifespanDays / daysPerYear
		if lifespanYears < 0.1 {
			lifespanYears = 0.1
		}
		summary.EstimatedAvgCLV = summary.AvgOrderValue * (summary.AvgOrders / lifespanYears)
	}

	return summaries, nil
}

func (s *Service) calculate(customer *domain.Customer, stats []domain.OrderStat) *domain.CLVMetrics {
	amounts := make([]float64, len(stats))
	for i, stat := range stats {
		amounts[i] = stat.TotalAmount
	}

	avgOrderValue := medianOrderValue(amounts)
	purchaseFrequency := purchaseFrequencyPerYear(stats)
	lifespanDays := customerLifespanDays(customer, stats)

	traditionalCLV := avgOrderValue * purchaseFrequency * (float64(lifespanDays) / daysPerYear)

	confidenceLow, confidenceHigh := confidenceInterval(amounts, traditionalCLV)

	daysSinceLastOrder := 0
	var lastOrderDate *time.Time
	if customer.LastOrderDate != nil {
		lastOrderDate = customer.LastOrderDate
		daysSinceLastOrder = int(time.Since(*customer.LastOrderDate).Hours() / 24)
	}

	totalSpent, _ := customer.TotalSpent.Float64()

	riskScore := churnRisk(daysSinceLastOrder, customer.OrdersCount)

	return &domain.CLVMetrics{
		CustomerID:             customer.ID,
		Platform:               customer.Platform,
		AvgOrderValue:          avgOrderValue,
		PurchaseFrequency:      purchaseFrequency,
		CustomerLifespanDays:   lifespanDays,
		PredictedLifespanDays:  lifespanDays,
		TraditionalCLV:         traditionalCLV,
		ConfidenceIntervalLow:  confidenceLow,
		ConfidenceIntervalHigh: confidenceHigh,
		RiskScore:              riskScore,
		RiskLevel:              riskLevel(riskScore),
		Segment:                determineSegment(traditionalCLV, customer.OrdersCount, daysSinceLastOrder),
		LastOrderDate:          lastOrderDate,
		TotalOrders:            customer.OrdersCount,
		TotalSpent:             totalSpent,
		DaysSinceLastOrder:     daysSinceLastOrder,
	}
}

// medianOrderValue uses the median rather than the mean so a single outsized
// order does not inflate the projection
func medianOrderValue(amounts []float64) float64 {
	if len(amounts) == 0 {
		return 0
	}

	sorted := make([]float64, len(amounts))
	copy(sorted, amounts)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] < sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// purchaseFrequencyPerYear annualizes the order count over the span between
// first and last order. Single-purchase customers are assumed annual.
func purchaseFrequencyPerYear(stats []domain.OrderStat) float64 {
	if len(stats) <= 1 {
		return 1.0
	}

	first := stats[0].OrderDate
	last := stats[0].OrderDate
	for _, stat := range stats[1:] {
		if stat.OrderDate.Before(first) {
			first = stat.OrderDate
		}
		if stat.OrderDate.After(last) {
			last = stat.OrderDate
		}
	}

	lifespanDays := last.Sub(first).Hours() / 24
	if lifespanDays == 0 {
		return 1.0
	}

	return float64(len(stats)) / (lifespanDays / daysPerYear)
}

func customerLifespanDays(customer *domain.Customer, stats []domain.OrderStat) int {
	if customer.PlatformCreatedAt != nil && customer.LastOrderDate != nil {
		lifespan := int(customer.LastOrderDate.Sub(*customer.PlatformCreatedAt).Hours() / 24)
		if lifespan < 1 {
			return 1
		}
		return lifespan
	}

	if len(stats) > 1 {
		span := int(stats[len(stats)-1].OrderDate.Sub(stats[0].OrderDate).Hours() / 24)
		if span < 1 {
			return 1
		}
		return span
	}

	// New customers default to a one year horizon
	return 365
}

// confidenceInterval widens with order value volatility. Uncertainty is
// capped at 200%.
func confidenceInterval(amounts []float64, baseCLV float64) (float64, float64) {
	if len(amounts) < 2 {
		return baseCLV * 0.5, baseCLV * 1.5
	}

	mean := 0.0
	for _, a := range amounts {
		mean += a
	}
	mean /= float64(len(amounts))

	volatility := 1.0
	if mean > 0 {
		variance := 0.0
		for _, a := range amounts {
			variance += (a - mean) * (a - mean)
		}
		variance /= float64(len(amounts))
		volatility = math.Sqrt(variance) / mean
	}

	uncertainty := math.Min(0.5+volatility, 2.0)

	return baseCLV * (1 - uncertainty*0.3), baseCLV * (1 + uncertainty*0.3)
}

// churnRisk weights recency at 70% and order count at 30%. 180 days without
// an order counts as full recency risk.
func churnRisk(daysSinceLastOrder, totalOrders int) float64 {
	recencyRisk := math.Min(float64(daysSinceLastOrder)/180.0, 1.0)
	frequencyRisk := math.Max(0.8-float64(totalOrders)*0.05, 0.1)

	return math.Min(recencyRisk*0.7+frequencyRisk*0.3, 1.0)
}

func riskLevel(riskScore float64) string {
	switch {
	case riskScore >= 0.7:
		return "high"
	case riskScore >= 0.4:
		return "medium"
	default:
		return "low"
	}
}

func determineSegment(clvValue float64, totalOrders, daysSinceLastOrder int) string {
	switch {
	case clvValue >= 5000:
		return domain.CLVSegmentVIP
	case clvValue >= 2000:
		return domain.CLVSegmentHighValue
	case clvValue >= 500:
		if daysSinceLastOrder > 90 {
			return domain.CLVSegmentAtRisk
		}
		return domain.CLVSegmentRegular
	case totalOrders == 1:
		return domain.CLVSegmentNew
	default:
		return domain.CLVSegmentLowValue
	}
}
