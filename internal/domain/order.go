package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses are normalized into a single vocabulary across platforms
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

type Order struct {
	ID         string   `json:"id"`
	ExternalID string   `json:"external_id"`
	Platform   Platform `json:"platform"`

	CustomerID         *string `json:"customer_id,omitempty"`
	CustomerExternalID *string `json:"customer_external_id,omitempty"`

	OrderNumber string    `json:"order_number"`
	OrderDate   time.Time `json:"order_date"`

	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	ShippingAmount decimal.Decimal `json:"shipping_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Currency       string          `json:"currency"`

	Status            OrderStatus `json:"status"`
	FulfillmentStatus *string     `json:"fulfillment_status,omitempty"`
	PaymentStatus     *string     `json:"payment_status,omitempty"`

	Email *string `json:"email,omitempty"`

	Items []*OrderItem `json:"items,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OrderItem struct {
	ID         string   `json:"id"`
	ExternalID string   `json:"external_id"`
	Platform   Platform `json:"platform"`

	OrderID           string  `json:"order_id"`
	OrderExternalID   string  `json:"order_external_id"`
	ProductID         *string `json:"product_id,omitempty"`
	ProductExternalID *string `json:"product_external_id,omitempty"`

	// Captured at time of purchase, the catalog may have moved on
	ProductName  string  `json:"product_name"`
	ProductSKU   *string `json:"product_sku,omitempty"`
	VariantTitle *string `json:"variant_title,omitempty"`

	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`

	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
}

// OrderStat is the minimal order projection used by the lifetime-value math
type OrderStat struct {
	OrderDate   time.Time `json:"order_date"`
	TotalAmount float64   `json:"total_amount"`
}

// DailyRevenue is one point of the per-day revenue series used by the
// forecasting and cross-platform engines
type DailyRevenue struct {
	Date      time.Time `json:"date"`
	Revenue   float64   `json:"revenue"`
	Orders    int       `json:"orders"`
	Customers int       `json:"customers"`
}
