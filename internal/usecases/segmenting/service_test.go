package segmenting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/repository/mocks"
	"github.com/selimsoyah/nexus-analytics-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestService_RefreshSegments(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCustomerRepo := mocks.NewMockCustomerRepository(ctrl)
	mockSegmentRepo := mocks.NewMockSegmentRepository(ctrl)

	service := &Service{
		customerRepo: mockCustomerRepo,
		segmentRepo:  mockSegmentRepo,
	}

	firstOrder := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	lastOrder := time.Date(2025, 7, 28, 0, 0, 0, 0, time.UTC)

	inputs := []*domain.RFMInput{
		{
			CustomerID: "cust-1", ExternalID: "101", Platform: domain.PlatformShopify,
			RecencyDays: 5, Frequency: 10, Monetary: 5000, AvgOrderValue: 500,
			FirstOrderAt: &firstOrder, LastOrderAt: &lastOrder,
		},
		{
			CustomerID: "cust-2", ExternalID: "102", Platform: domain.PlatformShopify,
			RecencyDays: 20, Frequency: 5, Monetary: 2000, AvgOrderValue: 400,
			FirstOrderAt: &firstOrder, LastOrderAt: &lastOrder,
		},
		{
			CustomerID: "cust-3", ExternalID: "103", Platform: domain.PlatformWooCommerce,
			RecencyDays: 60, Frequency: 3, Monetary: 900, AvgOrderValue: 300,
			FirstOrderAt: &firstOrder, LastOrderAt: &lastOrder,
		},
		{
			CustomerID: "cust-4", ExternalID: "104", Platform: domain.PlatformWooCommerce,
			RecencyDays: 120, Frequency: 2, Monetary: 400, AvgOrderValue: 200,
			FirstOrderAt: &firstOrder, LastOrderAt: &lastOrder,
		},
		{
			CustomerID: "cust-5", ExternalID: "105", Platform: domain.PlatformWooCommerce,
			RecencyDays: 300, Frequency: 1, Monetary: 100, AvgOrderValue: 100,
		},
	}

	var saved []*domain.SegmentProfile

	mockCustomerRepo.EXPECT().
		ListRFMInputs(domain.Platform("")).
		Return(inputs, nil)

	mockSegmentRepo.EXPECT().
		SaveOrUpdate(gomock.Any()).
		DoAndReturn(func(profiles []*domain.SegmentProfile) error {
			saved = profiles
			return nil
		})

	count, err := service.RefreshSegments("")
	require.NoError(t, err)
	assert.Equal(t, 5, count)
	require.Len(t, saved, 5)

	byCustomer := make(map[string]*domain.SegmentProfile, len(saved))
	for _, profile := range saved {
		byCustomer[profile.CustomerID] = profile
	}

	best := byCustomer["cust-1"]
	assert.Equal(t, "555", best.RFMScore)
	assert.Equal(t, domain.SegmentChampions, best.Segment)
	assert.Equal(t, 5, best.SegmentPriority)
	assert.InDelta(t, 1.0, best.SegmentConfidence, 0.0001)
	assert.InDelta(t, 5.0/300.0*0.5, best.ChurnRiskScore, 0.0001)
	assert.NotEmpty(t, best.RecommendedActions)

	assert.Equal(t, domain.SegmentChampions, byCustomer["cust-2"].Segment)
	assert.Equal(t, domain.SegmentLoyalCustomers, byCustomer["cust-3"].Segment)
	assert.Equal(t, domain.SegmentAtRisk, byCustomer["cust-4"].Segment)

	worst := byCustomer["cust-5"]
	assert.Equal(t, "111", worst.RFMScore)
	assert.Equal(t, domain.SegmentHibernating, worst.Segment)
	// recency 300/300, frequency 1-1/10, monetary 1-100/5000
	assert.InDelta(t, 0.5+0.9*0.3+0.98*0.2, worst.ChurnRiskScore, 0.0001)
}

func TestService_RefreshSegments_NoCustomers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCustomerRepo := mocks.NewMockCustomerRepository(ctrl)
	mockSegmentRepo := mocks.NewMockSegmentRepository(ctrl)

	service := &Service{
		customerRepo: mockCustomerRepo,
		segmentRepo:  mockSegmentRepo,
	}

	mockCustomerRepo.EXPECT().
		ListRFMInputs(domain.PlatformShopify).
		Return([]*domain.RFMInput{}, nil)

	count, err := service.RefreshSegments(domain.PlatformShopify)
	assert.ErrorIs(t, err, ErrNoCustomerData)
	assert.Zero(t, count)
}

func TestAssignSegment(t *testing.T) {
	tests := []struct {
		name     string
		r, f, m  int
		expected string
	}{
		{name: "top scores across the board", r: 5, f: 5, m: 5, expected: domain.SegmentChampions},
		{name: "champions lower bound", r: 4, f: 4, m: 4, expected: domain.SegmentChampions},
		{name: "frequent mid spender", r: 3, f: 3, m: 3, expected: domain.SegmentLoyalCustomers},
		{name: "big spender gone quiet", r: 2, f: 5, m: 5, expected: domain.SegmentLoyalCustomers},
		{name: "big spender gone for good", r: 1, f: 1, m: 4, expected: domain.SegmentCannotLoseThem},
		{name: "moderate spender fading", r: 2, f: 2, m: 2, expected: domain.SegmentAtRisk},
		{name: "recent first order", r: 5, f: 1, m: 1, expected: domain.SegmentNewCustomers},
		{name: "warming up", r: 3, f: 2, m: 2, expected: domain.SegmentPotentialLoyalists},
		{name: "recent low engagement", r: 3, f: 1, m: 2, expected: domain.SegmentPromising},
		{name: "inactive low value", r: 1, f: 1, m: 1, expected: domain.SegmentHibernating},
		{name: "no monetary signal", r: 1, f: 1, m: 0, expected: domain.SegmentLost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, assignSegment(tt.r, tt.f, tt.m))
		})
	}
}

func TestQuintileScores(t *testing.T) {
	inputs := []*domain.RFMInput{
		{Monetary: 100},
		{Monetary: 500},
		{Monetary: 200},
		{Monetary: 900},
		{Monetary: 300},
	}

	metric := func(in *domain.RFMInput) float64 { return in.Monetary }

	scores := quintileScores(inputs, metric, false)
	assert.Equal(t, []int{1, 4, 2, 5, 3}, scores)

	reversed := quintileScores(inputs, metric, true)
	assert.Equal(t, []int{5, 2, 4, 1, 3}, reversed)
}

func TestQuintileScores_TiesKeepInputOrder(t *testing.T) {
	inputs := []*domain.RFMInput{
		{Frequency: 1},
		{Frequency: 1},
		{Frequency: 1},
		{Frequency: 1},
		{Frequency: 1},
	}

	scores := quintileScores(inputs, func(in *domain.RFMInput) float64 {
		return float64(in.Frequency)
	}, false)

	assert.Equal(t, []int{1, 2, 3, 4, 5}, scores)
}

func TestSegmentConfidence(t *testing.T) {
	// Perfectly consistent scores with no history bonuses
	assert.InDelta(t, 1.0, segmentConfidence(3, 3, 3, 0, 1), 0.0001)

	// Spread scores lower the confidence
	spread := segmentConfidence(5, 1, 3, 0, 1)
	assert.Less(t, spread, 0.5)

	// History bonuses cap at 1.0
	assert.InDelta(t, 1.0, segmentConfidence(4, 4, 4, 60, 5), 0.0001)
}

func TestChurnRisk_Bounds(t *testing.T) {
	in := &domain.RFMInput{RecencyDays: 400, Frequency: 1, Monetary: 10}

	risk := churnRisk(in, 400, 1, 10)
	assert.InDelta(t, 0.5, risk, 0.0001)

	// Zero maxima leave each component at zero instead of dividing by zero
	assert.Zero(t, churnRisk(&domain.RFMInput{}, 0, 0, 0))
}
