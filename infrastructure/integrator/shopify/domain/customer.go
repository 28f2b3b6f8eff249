package domain

// Customer is the Shopify Admin REST customer payload
type Customer struct {
	ID          int64    `json:"id"`
	Email       string   `json:"email"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Phone       string   `json:"phone"`
	State       string   `json:"state"`
	TotalSpent  string   `json:"total_spent"`
	OrdersCount int      `json:"orders_count"`
	CreatedAt   string   `json:"created_at"`
	Address     *Address `json:"default_address"`
}

type Address struct {
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	City     string `json:"city"`
	Province string `json:"province"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
	Phone    string `json:"phone"`
}
