package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is the platform-agnostic customer record. Identity is the
// (platform, external_id) pair; ID is the internal warehouse key.
type Customer struct {
	ID         string   `json:"id"`
	ExternalID string   `json:"external_id"`
	Platform   Platform `json:"platform"`

	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	FullName  string  `json:"full_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`

	AddressLine1 *string `json:"address_line_1,omitempty"`
	AddressLine2 *string `json:"address_line_2,omitempty"`
	City         *string `json:"city,omitempty"`
	State        *string `json:"state,omitempty"`
	Country      *string `json:"country,omitempty"`
	PostalCode   *string `json:"postal_code,omitempty"`

	// Rollups recomputed from orders after every sync
	TotalSpent        decimal.Decimal `json:"total_spent"`
	OrdersCount       int             `json:"orders_count"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	LastOrderDate     *time.Time      `json:"last_order_date,omitempty"`

	IsActive          bool       `json:"is_active"`
	PlatformCreatedAt *time.Time `json:"platform_created_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
