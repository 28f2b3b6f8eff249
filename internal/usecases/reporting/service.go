package reporting

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/repository"
	"github.com/selimsoyah/nexus-analytics-api/internal/domain"
)

var ErrCustomerNotFound = errors.New("customer not found")

// Reporter assembles the dashboard views: customer purchase histories,
// product sales reports and the platform overview
type Reporter interface {
	CustomerInsights(customerID string) (*domain.CustomerInsights, error)
	ProductPerformance(filters *domain.InsightFilters) ([]*domain.ProductPerformance, error)
	Overview() ([]*domain.PlatformOverview, error)
}

type Service struct {
	customerRepo  repository.CustomerRepository
	analyticsRepo repository.AnalyticsRepository
}

func NewService(
	customerRepo repository.CustomerRepository,
	analyticsRepo repository.AnalyticsRepository,
) Reporter {
	return &Service{
		customerRepo:  customerRepo,
		analyticsRepo: analyticsRepo,
	}
}

func (s *Service) CustomerInsights(customerID string) (*domain.CustomerInsights, error) {
	customer, err := s.customerRepo.GetCustomerByID(customerID)
	if err != nil {
		return nil, errors.Wrap(err, "loading customer")
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}

	orders, err := s.analyticsRepo.CustomerOrders(customerID)
	if err != nil {
		return nil, errors.Wrap(err, "loading purchase history")
	}

	totalSpent, _ := customer.TotalSpent.Float64()
	avgOrderValue, _ := customer.AverageOrderValue.Float64()

	return &domain.CustomerInsights{
		CustomerID:        customer.ID,
		Name:              displayName(customer),
		Email:             customer.Email,
		Platform:          customer.Platform,
		TotalSpent:        totalSpent,
		OrdersCount:       customer.OrdersCount,
		AverageOrderValue: avgOrderValue,
		LastOrderDate:     customer.LastOrderDate,
		Orders:            orders,
	}, nil
}

func (s *Service) ProductPerformance(filters *domain.InsightFilters) ([]*domain.ProductPerformance, error) {
	performances, err := s.analyticsRepo.ProductPerformance(filters)
	if err != nil {
		return nil, errors.Wrap(err, "loading product performance")
	}

	for _, perf := range performances {
		if perf.ListPrice > 0 && perf.AvgSellingPrice > 0 {
			discount := (perf.ListPrice - perf.AvgSellingPrice) / perf.ListPrice * 100
			perf.DiscountRatePct = &discount
		}

		if perf.UniqueCustomers > 0 && perf.TimesPurchased > 0 {
			repeatRate := float64(perf.TimesPurchased-perf.UniqueCustomers) / float64(perf.TimesPurchased) * 100
			perf.RepeatPurchaseRatePct = &repeatRate
		}
	}

	return performances, nil
}

func (s *Service) Overview() ([]*domain.PlatformOverview, error) {
	return s.analyticsRepo.PlatformOverviews()
}

func displayName(customer *domain.Customer) string {
	if customer.FullName != "" {
		return customer.FullName
	}

	name := strings.TrimSpace(customer.FirstName + " " + customer.LastName)
	if name == "" {
		return customer.Email
	}
	return name
}
