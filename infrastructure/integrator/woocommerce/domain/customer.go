package domain

// Customer is the WooCommerce REST v3 customer payload, trimmed to the
// fields the warehouse keeps
type Customer struct {
	ID          int64   `json:"id"`
	Email       string  `json:"email"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Username    string  `json:"username"`
	DateCreated string  `json:"date_created"`
	Billing     Address `json:"billing"`
}

type Address struct {
	Address1 string `json:"address_1"`
	Address2 string `json:"address_2"`
	City     string `json:"city"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}
