package domain

// Order is the WooCommerce REST v3 order payload. Money comes over the wire
// as strings.
type Order struct {
	ID            int64      `json:"id"`
	Number        string     `json:"number"`
	Status        string     `json:"status"`
	Currency      string     `json:"currency"`
	DateCreated   string     `json:"date_created"`
	DiscountTotal string     `json:"discount_total"`
	ShippingTotal string     `json:"shipping_total"`
	TotalTax      string     `json:"total_tax"`
	Total         string     `json:"total"`
	CustomerID    int64      `json:"customer_id"`
	Billing       Address    `json:"billing"`
	LineItems     []LineItem `json:"line_items"`
}

type LineItem struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ProductID   int64  `json:"product_id"`
	VariationID int64  `json:"variation_id"`
	Quantity    int    `json:"quantity"`
	SKU         string `json:"sku"`
	Price       string `json:"price"`
	Subtotal    string `json:"subtotal"`
	Total       string `json:"total"`
	TotalTax    string `json:"total_tax"`
}
