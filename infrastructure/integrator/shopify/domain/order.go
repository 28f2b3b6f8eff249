package domain

// Order is the Shopify Admin REST order payload. Money comes over the wire
// as strings.
type Order struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	OrderNumber       int64      `json:"order_number"`
	Email             string     `json:"email"`
	Currency          string     `json:"currency"`
	CreatedAt         string     `json:"created_at"`
	CancelledAt       *string    `json:"cancelled_at"`
	SubtotalPrice     string     `json:"subtotal_price"`
	TotalTax          string     `json:"total_tax"`
	TotalDiscounts    string     `json:"total_discounts"`
	TotalPrice        string     `json:"total_price"`
	FinancialStatus   string     `json:"financial_status"`
	FulfillmentStatus *string    `json:"fulfillment_status"`
	Customer          *Customer  `json:"customer"`
	ShippingLines     []Shipping `json:"shipping_lines"`
	LineItems         []LineItem `json:"line_items"`
}

type Shipping struct {
	Price string `json:"price"`
}

type LineItem struct {
	ID            int64   `json:"id"`
	ProductID     *int64  `json:"product_id"`
	VariantID     *int64  `json:"variant_id"`
	Title         string  `json:"title"`
	VariantTitle  *string `json:"variant_title"`
	SKU           string  `json:"sku"`
	Quantity      int     `json:"quantity"`
	Price         string  `json:"price"`
	TotalDiscount string  `json:"total_discount"`
}
