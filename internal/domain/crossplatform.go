package domain

import "time"

// PlatformOverview is the headline per-platform roll-up for the dashboard
type PlatformOverview struct {
	Platform       Platform `json:"platform"`
	TotalCustomers int      `json:"customers"`
	TotalOrders    int      `json:"orders"`
	TotalProducts  int      `json:"products"`
	TotalRevenue   float64  `json:"revenue"`
	AvgOrderValue  float64  `json:"avg_order_value"`
}

// PlatformPerformanceStat is the aggregate feeding the performance score:
// customers against orders only, with no products join that would multiply
// the revenue sum by the platform's product count.
type PlatformPerformanceStat struct {
	Platform         Platform `json:"platform"`
	TotalCustomers   int      `json:"total_customers"`
	TotalOrders      int      `json:"total_orders"`
	TotalRevenue     float64  `json:"total_revenue"`
	AvgOrderValue    float64  `json:"avg_order_value"`
	AvgCustomerValue float64  `json:"avg_customer_value"`
	RetentionRate    float64  `json:"retention_rate"`
}

// PlatformPerformance scores a platform on weighted revenue, AOV, CLV,
// retention and market-share components
type PlatformPerformance struct {
	Platform         Platform `json:"platform"`
	TotalRevenue     float64  `json:"total_revenue"`
	AvgOrderValue    float64  `json:"avg_order_value"`
	AvgCLV           float64  `json:"avg_clv"`
	RetentionRate    float64  `json:"retention_rate"`
	MarketSharePct   float64  `json:"market_share_pct"`
	GrowthRatePct    float64  `json:"growth_rate_pct"`
	PerformanceScore float64  `json:"performance_score"`
}

type PlatformPrediction struct {
	Platform              Platform `json:"platform"`
	PredictedRevenue30d   float64  `json:"predicted_revenue_30d"`
	PredictedRevenue90d   float64  `json:"predicted_revenue_90d"`
	PredictedCustomers30d int      `json:"predicted_customers_30d"`
	PredictedOrders30d    int      `json:"predicted_orders_30d"`
	ConfidenceScore       float64  `json:"confidence_score"`
	GrowthTrend           string   `json:"growth_trend"`
	RiskLevel             string   `json:"risk_level"`
}

type PlatformAnomaly struct {
	Platform Platform  `json:"platform"`
	Date     time.Time `json:"date"`
	Revenue  float64   `json:"revenue"`
	ZScore   float64   `json:"z_score"`
	Kind     string    `json:"kind"` // spike or drop
}

type AnomalyReport struct {
	Anomalies   []PlatformAnomaly `json:"anomalies"`
	WindowDays  int               `json:"window_days"`
	Threshold   float64           `json:"threshold"`
	GeneratedAt time.Time         `json:"generated_at"`
}
