package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID         string   `json:"id"`
	ExternalID string   `json:"external_id"`
	Platform   Platform `json:"platform"`

	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	SKU         *string `json:"sku,omitempty"`

	Price          decimal.Decimal  `json:"price"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price,omitempty"`

	Category    *string `json:"category,omitempty"`
	Brand       *string `json:"brand,omitempty"`
	Vendor      *string `json:"vendor,omitempty"`
	ProductType *string `json:"product_type,omitempty"`
	Tags        *string `json:"tags,omitempty"`

	InventoryQuantity int  `json:"inventory_quantity"`
	IsActive          bool `json:"is_active"`
	IsPublished       bool `json:"is_published"`

	PlatformCreatedAt *time.Time `json:"platform_created_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
