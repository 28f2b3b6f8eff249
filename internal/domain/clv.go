package domain

import "time"

// CLV segment thresholds use the traditional formula value, not RFM scores
const (
	CLVSegmentVIP       = "VIP"
	CLVSegmentHighValue = "High Value"
	CLVSegmentRegular   = "Regular"
	CLVSegmentAtRisk    = "At Risk"
	CLVSegmentNew       = "New Customer"
	CLVSegmentLowValue  = "Low Value"
)

// CLVMetrics is the full lifetime-value calculation for one customer.
// TraditionalCLV = avg order value x purchase frequency x lifespan in years.
type CLVMetrics struct {
	CustomerID string   `json:"customer_id"`
	Platform   Platform `json:"platform"`

	AvgOrderValue         float64 `json:"avg_order_value"`
	PurchaseFrequency     float64 `json:"purchase_frequency"`
	CustomerLifespanDays  int     `json:"customer_lifespan_days"`
	PredictedLifespanDays int     `json:"predicted_lifespan_days"`

	TraditionalCLV         float64 `json:"traditional_clv"`
	ConfidenceIntervalLow  float64 `json:"confidence_interval_low"`
	ConfidenceIntervalHigh float64 `json:"confidence_interval_high"`

	RiskScore float64 `json:"risk_score"`
	RiskLevel string  `json:"risk_level"`
	Segment   string  `json:"segment"`

	LastOrderDate      *time.Time `json:"last_order_date,omitempty"`
	TotalOrders        int        `json:"total_orders"`
	TotalSpent         float64    `json:"total_spent"`
	DaysSinceLastOrder int        `json:"days_since_last_order"`
}

// PlatformCLVSummary is the per-platform CLV roll-up
type PlatformCLVSummary struct {
	Platform                Platform `json:"platform"`
	TotalCustomers          int      `json:"total_customers"`
	AvgTotalSpent           float64  `json:"avg_total_spent"`
	AvgOrders               float64  `json:"avg_orders"`
	AvgOrderValue           float64  `json:"avg_order_value"`
	EstimatedAvgCLV         float64  `json:"estimated_avg_clv"`
	AvgDaysSinceLastOrder   float64  `json:"avg_days_since_last_order"`
	AvgCustomerLifespanDays float64  `json:"avg_customer_lifespan_days"`
	AtRiskCustomers         int      `json:"at_risk_customers"`
	OneTimeCustomers        int      `json:"one_time_customers"`
	RetentionRate           float64  `json:"retention_rate"`
}
