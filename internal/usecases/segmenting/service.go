package segmenting

import (
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/repository"
	"github.com/selimsoyah/nexus-analytics-api/internal/domain"
	"github.com/selimsoyah/nexus-analytics-api/pkg/log"
)

var ErrNoCustomerData = errors.New("no customer data available for segmentation")

// Segmenter runs RFM analysis over the customer base and persists the
// resulting segment profiles
type Segmenter interface {
	RefreshSegments(platform domain.Platform) (int, error)
	GetSegmentProfiles(segment string, platform domain.Platform, limit int) ([]*domain.SegmentProfile, error)
	GetSegmentSummary(platform domain.Platform) ([]*domain.SegmentSummary, error)
	GetCustomerProfile(customerID string) (*domain.SegmentProfile, error)
	GetSegmentDetails() ([]*domain.SegmentDetail, error)
}

type Service struct {
	customerRepo repository.CustomerRepository
	segmentRepo  repository.SegmentRepository
}

func NewService(
	customerRepo repository.CustomerRepository,
	segmentRepo repository.SegmentRepository,
) Segmenter {
	return &Service{
		customerRepo: customerRepo,
		segmentRepo:  segmentRepo,
	}
}

// segmentMeta carries the playbook for each segment
type segmentMeta struct {
	Priority int
	Actions  []string
}

var segmentCatalog = map[string]segmentMeta{
	domain.SegmentChampions: {
		Priority: 5,
		Actions: []string{
			"Reward them for loyalty",
			"Ask for reviews and referrals",
			"Offer new products first",
			"Provide VIP customer service",
		},
	},
	domain.SegmentLoyalCustomers: {
		Priority: 4,
		Actions: []string{
			"Recommend other products",
			"Send personalized offers",
			"Maintain regular engagement",
			"Thank them for loyalty",
		},
	},
	domain.SegmentPotentialLoyalists: {
		Priority: 3,
		Actions: []string{
			"Offer membership or loyalty program",
			"Recommend popular products",
			"Send educational content",
			"Create targeted campaigns",
		},
	},
	domain.SegmentNewCustomers: {
		Priority: 3,
		Actions: []string{
			"Provide onboarding support",
			"Send welcome series",
			"Offer first-time buyer incentives",
			"Focus on customer education",
		},
	},
	domain.SegmentPromising: {
		Priority: 2,
		Actions: []string{
			"Create awareness campaigns",
			"Offer free shipping",
			"Provide product recommendations",
			"Send engaging content",
		},
	},
	domain.SegmentNeedAttention: {
		Priority: 4,
		Actions: []string{
			"Make limited time offers",
			"Recommend based on past purchases",
			"Reactivate with special deals",
			"Send personalized messages",
		},
	},
	domain.SegmentAboutToSleep: {
		Priority: 3,
		Actions: []string{
			"Share valuable resources",
			"Recommend popular products",
			"Win back campaign with discount",
			"Send engaging content",
		},
	},
	domain.SegmentAtRisk: {
		Priority: 4,
		Actions: []string{
			"Send personalized reactivation emails",
			"Offer renewal discount",
			"Share helpful resources",
			"Provide excellent customer service",
		},
	},
	domain.SegmentCannotLoseThem: {
		Priority: 5,
		Actions: []string{
			"Win them back with renewals or newer products",
			"Provide exclusive offers",
			"Reach out personally",
			"Offer VIP customer service",
		},
	},
	domain.SegmentHibernating: {
		Priority: 1,
		Actions: []string{
			"Create awareness with blog articles",
			"Very low-cost reactivation attempts",
			"Remove from expensive campaigns",
		},
	},
	domain.SegmentLost: {
		Priority: 1,
		Actions: []string{
			"Remove from email lists",
			"No marketing spend",
			"Archive customer data",
		},
	},
}

// RefreshSegments recomputes RFM profiles for every customer with at least
// one order and stores them. Returns the number of profiles written.
func (s *Service) RefreshSegments(platform domain.Platform) (int, error) {
	inputs, err := s.customerRepo.ListRFMInputs(platform)
	if err != nil {
		return 0, errors.Wrap(err, "loading rfm inputs")
	}

	if len(inputs) == 0 {
		return 0, ErrNoCustomerData
	}

	recencyScores := quintileScores(inputs, func(in *domain.RFMInput) float64 {
		return float64(in.RecencyDays)
	}, true)
	frequencyScores := quintileScores(inputs, func(in *domain.RFMInput) float64 {
		return float64(in.Frequency)
	}, false)
	monetaryScores := quintileScores(inputs, func(in *domain.RFMInput) float64 {
		return in.Monetary
	}, false)

	maxRecency, maxFrequency, maxMonetary := cohortMaxima(inputs)

	now := time.Now()
	profiles := make([]*domain.SegmentProfile, 0, len(inputs))

	for i, in := range inputs {
		r := recencyScores[i]
		f := frequencyScores[i]
		m := monetaryScores[i]

		segment := assignSegment(r, f, m)
		meta := segmentCatalog[segment]

		lifespanDays := 0
		if in.FirstOrderAt != nil && in.LastOrderAt != nil {
			lifespanDays = int(in.LastOrderAt.Sub(*in.FirstOrderAt).Hours() / 24)
		}

		profiles = append(profiles, &domain.SegmentProfile{
			CustomerID:         in.CustomerID,
			ExternalID:         in.ExternalID,
			Platform:           in.Platform,
			Email:              in.Email,
			RecencyScore:       r,
			FrequencyScore:     f,
			MonetaryScore:      m,
			RFMScore:           rfmScoreString(r, f, m),
			RecencyDays:        in.RecencyDays,
			FrequencyCount:     in.Frequency,
			MonetaryValue:      in.Monetary,
			Segment:            segment,
			SegmentPriority:    meta.Priority,
			ChurnRiskScore:     churnRisk(in, maxRecency, maxFrequency, maxMonetary),
			SegmentConfidence:  segmentConfidence(r, f, m, lifespanDays, in.Frequency),
			AvgOrderValue:      in.AvgOrderValue,
			RecommendedActions: meta.Actions,
			CalculatedAt:       now,
		})
	}

	if err := s.segmentRepo.SaveOrUpdate(profiles); err != nil {
		return 0, errors.Wrap(err, "saving segment profiles")
	}

	log.L.WithFields(log.Fields{
		"profiles": len(profiles),
		"platform": string(platform),
	}).Info("Segment profiles refreshed")

	return len(profiles), nil
}

func (s *Service) GetSegmentProfiles(segment string, platform domain.Platform, limit int) ([]*domain.SegmentProfile, error) {
	return s.segmentRepo.ListProfiles(segment, platform, limit)
}

func (s *Service) GetSegmentSummary(platform domain.Platform) ([]*domain.SegmentSummary, error) {
	return s.segmentRepo.ListSummaries(platform)
}

func (s *Service) GetCustomerProfile(customerID string) (*domain.SegmentProfile, error) {
	return s.segmentRepo.GetProfileByCustomerID(customerID)
}

func (s *Service) GetSegmentDetails() ([]*domain.SegmentDetail, error) {
	return s.segmentRepo.ListSegmentDetails()
}

// quintileScores ranks customers by the given metric and splits them into
// five equal buckets. Scores run 1-5; reversed metrics (recency) give the
// lowest raw values the highest score.
func quintileScores(inputs []*domain.RFMInput, metric func(*domain.RFMInput) float64, reversed bool) []int {
	n := len(inputs)

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	// Stable sort keeps ties in input order, mirroring a first-come rank
	sort.SliceStable(order, func(a, b int) bool {
		return metric(inputs[order[a]]) < metric(inputs[order[b]])
	})

	scores := make([]int, n)
	for rank, idx := range order {
		bucket := (rank * 5) / n // 0..4
		if reversed {
			scores[idx] = 5 - bucket
		} else {
			scores[idx] = bucket + 1
		}
	}

	return scores
}

func rfmScoreString(r, f, m int) string {
	digits := []byte{byte('0' + r), byte('0' + f), byte('0' + m)}
	return string(digits)
}

// assignSegment maps an RFM score triple onto a named segment. Rule order
// matters: earlier rules win.
func assignSegment(r, f, m int) string {
	switch {
	case r >= 4 && f >= 4 && m >= 4:
		return domain.SegmentChampions
	case f >= 3 && m >= 3 && r >= 2:
		return domain.SegmentLoyalCustomers
	case m >= 4 && r <= 2:
		return domain.SegmentCannotLoseThem
	case m >= 2 && r <= 2 && f <= 2:
		return domain.SegmentAtRisk
	case r >= 4 && f <= 2:
		return domain.SegmentNewCustomers
	case r >= 3 && f >= 2 && m >= 2:
		return domain.SegmentPotentialLoyalists
	case r >= 2 && f >= 2 && m >= 2:
		return domain.SegmentNeedAttention
	case r >= 3 && f <= 2 && m <= 2:
		return domain.SegmentPromising
	case r <= 2 && f >= 2 && m >= 2:
		return domain.SegmentAboutToSleep
	case r <= 2 && f <= 2 && m >= 1:
		return domain.SegmentHibernating
	default:
		return domain.SegmentLost
	}
}

func cohortMaxima(inputs []*domain.RFMInput) (maxRecency, maxFrequency, maxMonetary float64) {
	for _, in := range inputs {
		if float64(in.RecencyDays) > maxRecency {
			maxRecency = float64(in.RecencyDays)
		}
		if float64(in.Frequency) > maxFrequency {
			maxFrequency = float64(in.Frequency)
		}
		if in.Monetary > maxMonetary {
			maxMonetary = in.Monetary
		}
	}
	return
}

// churnRisk blends recency, frequency and monetary risk normalized against
// the cohort maxima. Weights: 50% recency, 30% frequency, 20% monetary.
func churnRisk(in *domain.RFMInput, maxRecency, maxFrequency, maxMonetary float64) float64 {
	var recencyRisk, frequencyRisk, monetaryRisk float64

	if maxRecency > 0 {
		recencyRisk = float64(in.RecencyDays) / maxRecency
	}
	if maxFrequency > 0 {
		frequencyRisk = 1 - float64(in.Frequency)/maxFrequency
	}
	if maxMonetary > 0 {
		monetaryRisk = 1 - in.Monetary/maxMonetary
	}

	risk := recencyRisk*0.5 + frequencyRisk*0.3 + monetaryRisk*0.2

	if risk < 0 {
		return 0
	}
	if risk > 1 {
		return 1
	}
	return risk
}

// segmentConfidence grows with score consistency and data volume. Consistent
// RFM scores mean the customer sits squarely inside its segment.
func segmentConfidence(r, f, m, lifespanDays, frequency int) float64 {
	mean := float64(r+f+m) / 3.0
	variance := ((float64(r)-mean)*(float64(r)-mean) +
		(float64(f)-mean)*(float64(f)-mean) +
		(float64(m)-mean)*(float64(m)-mean)) / 3.0

	confidence := 1.0 - variance/4.0

	if lifespanDays > 30 {
		confidence *= 1.1
	}
	if frequency >= 3 {
		confidence *= 1.1
	}

	if confidence > 1.0 {
		return 1.0
	}
	if confidence < 0 {
		return 0
	}
	return confidence
}
