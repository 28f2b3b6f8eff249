package domain

// Product is the WooCommerce REST v3 product payload
type Product struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	SKU           string     `json:"sku"`
	Price         string     `json:"price"`
	RegularPrice  string     `json:"regular_price"`
	SalePrice     string     `json:"sale_price"`
	Status        string     `json:"status"`
	StockQuantity *int       `json:"stock_quantity"`
	Categories    []Category `json:"categories"`
	Tags          []Category `json:"tags"`
	DateCreated   string     `json:"date_created"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
