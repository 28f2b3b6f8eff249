package domain

import "time"

// CustomerInsights is the customer detail view: profile plus full purchase
// history grouped by order
type CustomerInsights struct {
	CustomerID        string           `json:"customer_id"`
	Name              string           `json:"name"`
	Email             string           `json:"email"`
	Platform          Platform         `json:"platform"`
	TotalSpent        float64          `json:"total_spent"`
	OrdersCount       int              `json:"orders_count"`
	AverageOrderValue float64          `json:"average_order_value"`
	LastOrderDate     *time.Time       `json:"last_order_date,omitempty"`
	Orders            []*InsightOrder  `json:"orders"`
}

type InsightOrder struct {
	OrderID     string            `json:"order_id"`
	OrderDate   time.Time         `json:"order_date"`
	TotalAmount float64           `json:"total_amount"`
	Status      OrderStatus       `json:"status"`
	Products    []*InsightProduct `json:"products"`
}

type InsightProduct struct {
	Name      string  `json:"name"`
	Category  *string `json:"category,omitempty"`
	ListPrice float64 `json:"list_price"`
	SKU       *string `json:"sku,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

// ProductPerformance is the per-product sales report
type ProductPerformance struct {
	Name     string   `json:"name"`
	Category *string  `json:"category,omitempty"`
	SKU      *string  `json:"sku,omitempty"`
	Platform Platform `json:"platform"`

	ListPrice           float64    `json:"list_price"`
	TimesPurchased      int        `json:"times_purchased"`
	TotalUnitsSold      int        `json:"total_units_sold"`
	TotalRevenue        float64    `json:"total_revenue"`
	AvgSellingPrice     float64    `json:"avg_selling_price"`
	LowestSellingPrice  float64    `json:"lowest_selling_price"`
	HighestSellingPrice float64    `json:"highest_selling_price"`
	UniqueCustomers     int        `json:"unique_customers"`
	UniqueOrders        int        `json:"unique_orders"`
	FirstSaleDate       *time.Time `json:"first_sale_date,omitempty"`
	LastSaleDate        *time.Time `json:"last_sale_date,omitempty"`

	// Derived: discount vs list price, share of repeat purchases
	DiscountRatePct       *float64 `json:"discount_rate,omitempty"`
	RepeatPurchaseRatePct *float64 `json:"repeat_purchase_rate,omitempty"`
}

// SegmentDetail joins a segment with the behavior of the customers in it
type SegmentDetail struct {
	Segment       string   `json:"segment"`
	Platform      Platform `json:"platform"`
	CustomerCount int      `json:"customer_count"`
	AvgTotalSpent float64  `json:"avg_total_spent"`
	AvgOrderCount float64  `json:"avg_order_count"`
	AvgOrderValue float64  `json:"avg_order_value"`
	TopProducts   *string  `json:"top_products,omitempty"`
}
