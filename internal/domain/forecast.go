package domain

import "time"

type ForecastPoint struct {
	Date     time.Time `json:"date"`
	Value    float64   `json:"value"`
	LowerCI  float64   `json:"lower_ci"`
	UpperCI  float64   `json:"upper_ci"`
}

// ForecastReport is the trend-plus-moving-average revenue projection
type ForecastReport struct {
	Points          []ForecastPoint `json:"points"`
	ForecastPeriods int             `json:"forecast_periods"`
	HistoricalDays  int             `json:"historical_days"`
	TrendSlope      float64         `json:"trend_slope"`
	RecentDailyAvg  float64         `json:"recent_daily_avg"`
	TotalForecast   float64         `json:"total_forecast"`
	Recommendation  string          `json:"recommendation"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

type TrendPeriod struct {
	PeriodStart   time.Time `json:"period_start"`
	TotalRevenue  float64   `json:"total_revenue"`
	OrderCount    int       `json:"order_count"`
	AvgOrderValue float64   `json:"avg_order_value"`
}

// TrendAnalysis summarizes growth and volatility over grouped periods
type TrendAnalysis struct {
	Period           string        `json:"period"`
	Periods          []TrendPeriod `json:"trend_data"`
	GrowthRatePct    float64       `json:"growth_rate_percent"`
	Volatility       float64       `json:"volatility"`
	TrendDirection   string        `json:"trend_direction"`
	TotalPeriods     int           `json:"total_periods"`
	TotalRevenue     float64       `json:"total_revenue"`
	AvgPeriodRevenue float64       `json:"avg_period_revenue"`
}

type WeekdayRevenue struct {
	Weekday    string  `json:"weekday"`
	AvgRevenue float64 `json:"avg_revenue"`
	Share      float64 `json:"share"`
}

type SeasonalityReport struct {
	Weekdays    []WeekdayRevenue `json:"weekdays"`
	PeakDay     string           `json:"peak_day"`
	TroughDay   string           `json:"trough_day"`
	GeneratedAt time.Time        `json:"generated_at"`
}

type Scenario struct {
	Name          string  `json:"name"`
	Adjustment    float64 `json:"adjustment"`
	TotalRevenue  float64 `json:"total_revenue"`
	DailyAverage  float64 `json:"daily_average"`
}

type ScenarioReport struct {
	Baseline    float64    `json:"baseline_total"`
	Periods     int        `json:"forecast_periods"`
	Scenarios   []Scenario `json:"scenarios"`
	GeneratedAt time.Time  `json:"generated_at"`
}
