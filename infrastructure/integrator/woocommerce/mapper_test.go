package woocommerce

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	woodomain "github.com/selimsoyah/nexus-analytics-api/infrastructure/integrator/woocommerce/domain"
	"github.com/selimsoyah/nexus-analytics-api/internal/domain"
)

func TestMapCustomer(t *testing.T) {
	wooCustomer := woodomain.Customer{
		ID:          742,
		Email:       " Maria.Silva@Example.COM ",
		FirstName:   "Maria",
		LastName:    "Silva",
		DateCreated: "2023-05-12T09:30:00",
		Billing: woodomain.Address{
			Address1: "Rua das Flores 100",
			City:     "Sao Paulo",
			State:    "SP",
			Postcode: "01000-000",
			Country:  "BR",
			Phone:    "+55 11 99999-0000",
		},
	}

	customer := mapCustomer(wooCustomer)

	assert.Equal(t, "742", customer.ExternalID)
	assert.Equal(t, domain.PlatformWooCommerce, customer.Platform)
	assert.Equal(t, "maria.silva@example.com", customer.Email)
	assert.Equal(t, "Maria", customer.FirstName)
	assert.Equal(t, "Silva", customer.LastName)
	assert.True(t, customer.IsActive)

	require.NotNil(t, customer.AddressLine1)
	assert.Equal(t, "Rua das Flores 100", *customer.AddressLine1)
	require.NotNil(t, customer.City)
	assert.Equal(t, "Sao Paulo", *customer.City)
	require.NotNil(t, customer.PostalCode)
	assert.Equal(t, "01000-000", *customer.PostalCode)
	require.NotNil(t, customer.Phone)
	assert.Equal(t, "+55 11 99999-0000", *customer.Phone)

	require.NotNil(t, customer.PlatformCreatedAt)
	assert.Equal(t, 2023, customer.PlatformCreatedAt.Year())
	assert.Equal(t, 12, customer.PlatformCreatedAt.Day())
}

func TestMapCustomer_EmptyAddress(t *testing.T) {
	customer := mapCustomer(woodomain.Customer{ID: 1, Email: "a@b.com"})

	assert.Nil(t, customer.Phone)
	assert.Nil(t, customer.AddressLine1)
	assert.Nil(t, customer.City)
	assert.Nil(t, customer.PlatformCreatedAt)
}

func TestMapOrder(t *testing.T) {
	wooOrder := woodomain.Order{
		ID:            9001,
		Number:        "9001",
		Status:        "completed",
		Currency:      "USD",
		DateCreated:   "2024-02-20T14:05:00",
		DiscountTotal: "10.00",
		ShippingTotal: "5.00",
		TotalTax:      "8.50",
		Total:         "103.50",
		CustomerID:    742,
		Billing:       woodomain.Address{Email: "Maria.Silva@example.com"},
		LineItems: []woodomain.LineItem{
			{
				ID:        1,
				Name:      "Aviator Sunglasses",
				ProductID: 55,
				Quantity:  2,
				SKU:       "AVI-01",
				Price:     "50.00",
				Subtotal:  "100.00",
				Total:     "90.00",
				TotalTax:  "8.50",
			},
		},
	}

	order := mapOrder(wooOrder)

	assert.Equal(t, "9001", order.ExternalID)
	assert.Equal(t, domain.PlatformWooCommerce, order.Platform)
	assert.Equal(t, domain.OrderStatusDelivered, order.Status)
	assert.Equal(t, "USD", order.Currency)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("103.50")))
	assert.True(t, order.TaxAmount.Equal(decimal.RequireFromString("8.50")))
	assert.True(t, order.ShippingAmount.Equal(decimal.RequireFromString("5.00")))
	assert.True(t, order.DiscountAmount.Equal(decimal.RequireFromString("10.00")))

	// 103.50 - 8.50 - 5.00 + 10.00 = 100.00
	assert.True(t, order.Subtotal.Equal(decimal.RequireFromString("100.00")))

	require.NotNil(t, order.CustomerExternalID)
	assert.Equal(t, "742", *order.CustomerExternalID)
	require.NotNil(t, order.Email)
	assert.Equal(t, "maria.silva@example.com", *order.Email)

	require.Len(t, order.Items, 1)
	item := order.Items[0]
	assert.Equal(t, "9001", item.OrderExternalID)
	assert.Equal(t, "Aviator Sunglasses", item.ProductName)
	assert.Equal(t, 2, item.Quantity)
	require.NotNil(t, item.ProductExternalID)
	assert.Equal(t, "55", *item.ProductExternalID)
	// coupon discount on the line: 100.00 - 90.00
	assert.True(t, item.DiscountAmount.Equal(decimal.RequireFromString("10.00")))
}

func TestMapOrder_GuestCheckout(t *testing.T) {
	order := mapOrder(woodomain.Order{
		ID:         77,
		Status:     "processing",
		Total:      "25.00",
		CustomerID: 0,
	})

	assert.Nil(t, order.CustomerExternalID)
	assert.Equal(t, domain.OrderStatusProcessing, order.Status)
}

func TestMapOrderStatus(t *testing.T) {
	tests := []struct {
		wooStatus string
		expected  domain.OrderStatus
	}{
		{"pending", domain.OrderStatusPending},
		{"on-hold", domain.OrderStatusPending},
		{"processing", domain.OrderStatusProcessing},
		{"completed", domain.OrderStatusDelivered},
		{"cancelled", domain.OrderStatusCancelled},
		{"failed", domain.OrderStatusCancelled},
		{"refunded", domain.OrderStatusRefunded},
		{"some-plugin-status", domain.OrderStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.wooStatus, func(t *testing.T) {
			assert.Equal(t, tt.expected, mapOrderStatus(tt.wooStatus))
		})
	}
}

func TestMapProduct(t *testing.T) {
	stock := 12
	wooProduct := woodomain.Product{
		ID:            55,
		Name:          "Aviator Sunglasses",
		SKU:           "AVI-01",
		Price:         "45.00",
		RegularPrice:  "60.00",
		Status:        "publish",
		StockQuantity: &stock,
		Categories:    []woodomain.Category{{ID: 3, Name: "Sunglasses"}, {ID: 9, Name: "Summer"}},
		Tags:          []woodomain.Category{{ID: 1, Name: "bestseller"}, {ID: 2, Name: "uv400"}},
		DateCreated:   "2022-11-01T08:00:00",
	}

	product := mapProduct(wooProduct)

	assert.Equal(t, "55", product.ExternalID)
	assert.Equal(t, domain.PlatformWooCommerce, product.Platform)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("45.00")))
	assert.True(t, product.IsActive)
	assert.True(t, product.IsPublished)
	assert.Equal(t, 12, product.InventoryQuantity)

	require.NotNil(t, product.CompareAtPrice)
	assert.True(t, product.CompareAtPrice.Equal(decimal.RequireFromString("60.00")))

	require.NotNil(t, product.Category)
	assert.Equal(t, "Sunglasses", *product.Category)
	require.NotNil(t, product.Tags)
	assert.Equal(t, "bestseller,uv400", *product.Tags)
}

func TestMapProduct_Draft(t *testing.T) {
	product := mapProduct(woodomain.Product{ID: 3, Name: "Draft", Price: "", Status: "draft"})

	assert.False(t, product.IsActive)
	assert.False(t, product.IsPublished)
	assert.True(t, product.Price.IsZero())
	assert.Nil(t, product.CompareAtPrice)
}

func TestParseMoney(t *testing.T) {
	assert.True(t, parseMoney("").IsZero())
	assert.True(t, parseMoney("not-a-number").IsZero())
	assert.True(t, parseMoney("19.99").Equal(decimal.RequireFromString("19.99")))
}
