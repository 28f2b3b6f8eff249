package domain

import "time"

// RFM segment names, ordered roughly by value to the business
const (
	SegmentChampions          = "Champions"
	SegmentLoyalCustomers     = "Loyal Customers"
	SegmentCannotLoseThem     = "Cannot Lose Them"
	SegmentAtRisk             = "At Risk"
	SegmentNewCustomers       = "New Customers"
	SegmentPotentialLoyalists = "Potential Loyalists"
	SegmentNeedAttention      = "Need Attention"
	SegmentPromising          = "Promising"
	SegmentAboutToSleep       = "About to Sleep"
	SegmentHibernating        = "Hibernating"
	SegmentLost               = "Lost"
	SegmentUnknown            = "Unknown"
)

// RFMInput is the raw recency/frequency/monetary triple for one customer,
// computed from the orders table before scoring
type RFMInput struct {
	CustomerID    string
	ExternalID    string
	Platform      Platform
	Email         string
	RecencyDays   int
	Frequency     int
	Monetary      float64
	AvgOrderValue float64
	FirstOrderAt  *time.Time
	LastOrderAt   *time.Time
}

// SegmentProfile is the scored segmentation result stored per customer
type SegmentProfile struct {
	ID         string   `json:"id,omitempty"`
	CustomerID string   `json:"customer_id"`
	ExternalID string   `json:"external_id"`
	Platform   Platform `json:"platform"`
	Email      string   `json:"email,omitempty"`

	RecencyScore   int    `json:"recency_score"`
	FrequencyScore int    `json:"frequency_score"`
	MonetaryScore  int    `json:"monetary_score"`
	RFMScore       string `json:"rfm_score"`

	RecencyDays    int     `json:"recency_days"`
	FrequencyCount int     `json:"frequency_count"`
	MonetaryValue  float64 `json:"monetary_value"`

	Segment           string  `json:"segment"`
	SegmentPriority   int     `json:"segment_priority"`
	ChurnRiskScore    float64 `json:"churn_risk_score"`
	SegmentConfidence float64 `json:"segment_confidence"`

	AvgOrderValue float64 `json:"avg_order_value"`

	RecommendedActions []string `json:"recommended_actions,omitempty"`

	CalculatedAt time.Time `json:"calculated_at"`
}

// SegmentSummary aggregates one segment for the dashboard
type SegmentSummary struct {
	Segment         string   `json:"segment"`
	Platform        Platform `json:"platform,omitempty"`
	CustomerCount   int      `json:"customer_count"`
	AvgTotalSpent   float64  `json:"avg_total_spent"`
	AvgOrderCount   float64  `json:"avg_order_count"`
	AvgOrderValue   float64  `json:"avg_order_value"`
	AvgChurnRisk    float64  `json:"avg_churn_risk"`
	SegmentPriority int      `json:"segment_priority"`
}
