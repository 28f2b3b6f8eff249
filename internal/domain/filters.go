package domain

import "time"

// InsightFilters narrows analytics queries. Nil/zero fields mean "all".
type InsightFilters struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Platform  Platform   `json:"platform,omitempty"`
	Category  string     `json:"category,omitempty"`
	Limit     int        `json:"limit,omitempty"`
}
