package shopify

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shopifydomain "github.com/selimsoyah/nexus-analytics-api/infrastructure/integrator/shopify/domain"
	"github.com/selimsoyah/nexus-analytics-api/internal/domain"
)

func TestMapCustomer(t *testing.T) {
	shopifyCustomer := shopifydomain.Customer{
		ID:        6100,
		Email:     " John.Doe@Example.COM ",
		FirstName: "John",
		LastName:  "Doe",
		State:     "enabled",
		CreatedAt: "2023-08-10T12:00:00-03:00",
		Address: &shopifydomain.Address{
			Address1: "500 Main St",
			City:     "Toronto",
			Province: "ON",
			Zip:      "M5V 2T6",
			Country:  "Canada",
			Phone:    "+1 416 555 0100",
		},
	}

	customer := mapCustomer(shopifyCustomer)

	assert.Equal(t, "6100", customer.ExternalID)
	assert.Equal(t, domain.PlatformShopify, customer.Platform)
	assert.Equal(t, "john.doe@example.com", customer.Email)
	assert.True(t, customer.IsActive)

	require.NotNil(t, customer.City)
	assert.Equal(t, "Toronto", *customer.City)
	require.NotNil(t, customer.State)
	assert.Equal(t, "ON", *customer.State)

	// address phone is the fallback when the customer record has none
	require.NotNil(t, customer.Phone)
	assert.Equal(t, "+1 416 555 0100", *customer.Phone)

	require.NotNil(t, customer.PlatformCreatedAt)
	assert.Equal(t, 2023, customer.PlatformCreatedAt.Year())
}

func TestMapCustomer_Disabled(t *testing.T) {
	customer := mapCustomer(shopifydomain.Customer{ID: 1, State: "disabled"})
	assert.False(t, customer.IsActive)
	assert.Nil(t, customer.Phone)
}

func TestMapOrder(t *testing.T) {
	fulfilled := "fulfilled"
	shopifyOrder := shopifydomain.Order{
		ID:                450001,
		Name:              "#1042",
		OrderNumber:       1042,
		Email:             "John.Doe@example.com",
		Currency:          "CAD",
		CreatedAt:         "2024-03-01T18:30:00Z",
		SubtotalPrice:     "120.00",
		TotalTax:          "15.60",
		TotalDiscounts:    "12.00",
		TotalPrice:        "133.60",
		FinancialStatus:   "paid",
		FulfillmentStatus: &fulfilled,
		Customer:          &shopifydomain.Customer{ID: 6100},
		ShippingLines:     []shopifydomain.Shipping{{Price: "10.00"}},
		LineItems: []shopifydomain.LineItem{
			{
				ID:            1,
				ProductID:     int64Ptr(88),
				Title:         "Round Frame Glasses",
				SKU:           "RND-02",
				Quantity:      3,
				Price:         "44.00",
				TotalDiscount: "12.00",
			},
		},
	}

	order := mapOrder(shopifyOrder)

	assert.Equal(t, "450001", order.ExternalID)
	assert.Equal(t, domain.PlatformShopify, order.Platform)
	assert.Equal(t, "1042", order.OrderNumber)
	assert.Equal(t, domain.OrderStatusDelivered, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("133.60")))
	assert.True(t, order.ShippingAmount.Equal(decimal.RequireFromString("10.00")))

	require.NotNil(t, order.CustomerExternalID)
	assert.Equal(t, "6100", *order.CustomerExternalID)
	require.NotNil(t, order.PaymentStatus)
	assert.Equal(t, "paid", *order.PaymentStatus)
	require.NotNil(t, order.Email)
	assert.Equal(t, "john.doe@example.com", *order.Email)

	require.Len(t, order.Items, 1)
	item := order.Items[0]
	assert.Equal(t, "450001", item.OrderExternalID)
	require.NotNil(t, item.ProductExternalID)
	assert.Equal(t, "88", *item.ProductExternalID)
	// 3 * 44.00 - 12.00
	assert.True(t, item.TotalPrice.Equal(decimal.RequireFromString("120.00")))
}

func TestMapOrderStatus(t *testing.T) {
	cancelled := "2024-01-01T00:00:00Z"
	partial := "partial"

	tests := []struct {
		name     string
		order    shopifydomain.Order
		expected domain.OrderStatus
	}{
		{
			name:     "cancelled_at wins over everything",
			order:    shopifydomain.Order{CancelledAt: &cancelled, FinancialStatus: "paid"},
			expected: domain.OrderStatusCancelled,
		},
		{
			name:     "refunded financial status",
			order:    shopifydomain.Order{FinancialStatus: "refunded"},
			expected: domain.OrderStatusRefunded,
		},
		{
			name:     "partially refunded",
			order:    shopifydomain.Order{FinancialStatus: "partially_refunded"},
			expected: domain.OrderStatusRefunded,
		},
		{
			name:     "voided",
			order:    shopifydomain.Order{FinancialStatus: "voided"},
			expected: domain.OrderStatusCancelled,
		},
		{
			name:     "partial fulfillment",
			order:    shopifydomain.Order{FinancialStatus: "paid", FulfillmentStatus: &partial},
			expected: domain.OrderStatusShipped,
		},
		{
			name:     "paid and unfulfilled",
			order:    shopifydomain.Order{FinancialStatus: "paid"},
			expected: domain.OrderStatusProcessing,
		},
		{
			name:     "pending payment",
			order:    shopifydomain.Order{FinancialStatus: "pending"},
			expected: domain.OrderStatusPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mapOrderStatus(tt.order))
		})
	}
}

func TestMapProduct(t *testing.T) {
	compareAt := "80.00"
	shopifyProduct := shopifydomain.Product{
		ID:          88,
		Title:       "Round Frame Glasses",
		BodyHTML:    "<p>Classic round frames</p>",
		Vendor:      "Acme Optics",
		ProductType: "Eyewear",
		Tags:        "round, classic",
		Status:      "active",
		CreatedAt:   "2022-06-15T10:00:00Z",
		Variants: []shopifydomain.Variant{
			{ID: 1, SKU: "RND-02", Price: "44.00", CompareAtPrice: &compareAt, InventoryQuantity: 7},
			{ID: 2, SKU: "RND-02-L", Price: "48.00", InventoryQuantity: 5},
		},
	}

	product := mapProduct(shopifyProduct)

	assert.Equal(t, "88", product.ExternalID)
	assert.Equal(t, domain.PlatformShopify, product.Platform)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("44.00")))
	assert.True(t, product.IsActive)

	require.NotNil(t, product.SKU)
	assert.Equal(t, "RND-02", *product.SKU)
	require.NotNil(t, product.Category)
	assert.Equal(t, "Eyewear", *product.Category)
	require.NotNil(t, product.Vendor)
	assert.Equal(t, "Acme Optics", *product.Vendor)
	require.NotNil(t, product.CompareAtPrice)
	assert.True(t, product.CompareAtPrice.Equal(decimal.RequireFromString("80.00")))

	// stock sums across variants
	assert.Equal(t, 12, product.InventoryQuantity)
}

func TestMapProduct_Archived(t *testing.T) {
	product := mapProduct(shopifydomain.Product{ID: 9, Title: "Old", Status: "archived"})

	assert.False(t, product.IsActive)
	assert.False(t, product.IsPublished)
	assert.True(t, product.Price.IsZero())
	assert.Equal(t, 0, product.InventoryQuantity)
}

func TestOrderNumber(t *testing.T) {
	assert.Equal(t, "1042", orderNumber(shopifydomain.Order{Name: "#1042"}))
	assert.Equal(t, "987", orderNumber(shopifydomain.Order{OrderNumber: 987}))
}

func int64Ptr(v int64) *int64 {
	return &v
}
