package woocommerce

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	woodomain "github.com/selimsoyah/nexus-analytics-api/infrastructure/integrator/woocommerce/domain"
	"github.com/selimsoyah/nexus-analytics-api/internal/domain"
)

// WooCommerce timestamps come without a zone suffix and are store-local
const wooDateLayout = "2006-01-02T15:04:05"

func mapCustomer(wooCustomer woodomain.Customer) *domain.Customer {
	customer := &domain.Customer{
		ExternalID: strconv.FormatInt(wooCustomer.ID, 10),
		Platform:   domain.PlatformWooCommerce,
		Email:      strings.ToLower(strings.TrimSpace(wooCustomer.Email)),
		FirstName:  wooCustomer.FirstName,
		LastName:   wooCustomer.LastName,
		IsActive:   true,
	}

	if wooCustomer.Billing.Phone != "" {
		customer.Phone = stringPtr(wooCustomer.Billing.Phone)
	}
	if wooCustomer.Billing.Address1 != "" {
		customer.AddressLine1 = stringPtr(wooCustomer.Billing.Address1)
	}
	if wooCustomer.Billing.Address2 != "" {
		customer.AddressLine2 = stringPtr(wooCustomer.Billing.Address2)
	}
	if wooCustomer.Billing.City != "" {
		customer.City = stringPtr(wooCustomer.Billing.City)
	}
	if wooCustomer.Billing.State != "" {
		customer.State = stringPtr(wooCustomer.Billing.State)
	}
	if wooCustomer.Billing.Country != "" {
		customer.Country = stringPtr(wooCustomer.Billing.Country)
	}
	if wooCustomer.Billing.Postcode != "" {
		customer.PostalCode = stringPtr(wooCustomer.Billing.Postcode)
	}

	if createdAt, err := parseWooDate(wooCustomer.DateCreated); err == nil {
		customer.PlatformCreatedAt = &createdAt
	}

	return customer
}

func mapOrder(wooOrder woodomain.Order) *domain.Order {
	externalID := strconv.FormatInt(wooOrder.ID, 10)

	order := &domain.Order{
		ExternalID:     externalID,
		Platform:       domain.PlatformWooCommerce,
		OrderNumber:    wooOrder.Number,
		Currency:       wooOrder.Currency,
		Status:         mapOrderStatus(wooOrder.Status),
		TaxAmount:      parseMoney(wooOrder.TotalTax),
		ShippingAmount: parseMoney(wooOrder.ShippingTotal),
		DiscountAmount: parseMoney(wooOrder.DiscountTotal),
		TotalAmount:    parseMoney(wooOrder.Total),
	}

	// Guest checkouts come through with customer_id 0
	if wooOrder.CustomerID > 0 {
		order.CustomerExternalID = stringPtr(strconv.FormatInt(wooOrder.CustomerID, 10))
	}

	if wooOrder.Billing.Email != "" {
		order.Email = stringPtr(strings.ToLower(strings.TrimSpace(wooOrder.Billing.Email)))
	}

	if orderDate, err := parseWooDate(wooOrder.DateCreated); err == nil {
		order.OrderDate = orderDate
	} else {
		order.OrderDate = time.Now().UTC()
	}

	order.Subtotal = order.TotalAmount.
		Sub(order.TaxAmount).
		Sub(order.ShippingAmount).
		Add(order.DiscountAmount)
	if order.Subtotal.IsNegative() {
		order.Subtotal = decimal.Zero
	}

	for _, lineItem := range wooOrder.LineItems {
		order.Items = append(order.Items, mapOrderItem(externalID, lineItem))
	}

	return order
}

func mapOrderItem(orderExternalID string, lineItem woodomain.LineItem) *domain.OrderItem {
	item := &domain.OrderItem{
		ExternalID:      strconv.FormatInt(lineItem.ID, 10),
		Platform:        domain.PlatformWooCommerce,
		OrderExternalID: orderExternalID,
		ProductName:     lineItem.Name,
		Quantity:        lineItem.Quantity,
		UnitPrice:       parseMoney(lineItem.Price),
		TotalPrice:      parseMoney(lineItem.Total),
		TaxAmount:       parseMoney(lineItem.TotalTax),
	}

	if lineItem.ProductID > 0 {
		item.ProductExternalID = stringPtr(strconv.FormatInt(lineItem.ProductID, 10))
	}
	if lineItem.SKU != "" {
		item.ProductSKU = stringPtr(lineItem.SKU)
	}

	// line discount = subtotal before coupons minus the charged total
	discount := parseMoney(lineItem.Subtotal).Sub(item.TotalPrice)
	if discount.IsPositive() {
		item.DiscountAmount = discount
	}

	return item
}

func mapProduct(wooProduct woodomain.Product) *domain.Product {
	product := &domain.Product{
		ExternalID:  strconv.FormatInt(wooProduct.ID, 10),
		Platform:    domain.PlatformWooCommerce,
		Name:        wooProduct.Name,
		Price:       parseMoney(wooProduct.Price),
		IsActive:    wooProduct.Status == "publish",
		IsPublished: wooProduct.Status == "publish",
	}

	if wooProduct.Description != "" {
		product.Description = stringPtr(wooProduct.Description)
	}
	if wooProduct.SKU != "" {
		product.SKU = stringPtr(wooProduct.SKU)
	}
	if wooProduct.StockQuantity != nil {
		product.InventoryQuantity = *wooProduct.StockQuantity
	}

	if wooProduct.RegularPrice != "" && wooProduct.RegularPrice != wooProduct.Price {
		regularPrice := parseMoney(wooProduct.RegularPrice)
		if regularPrice.IsPositive() {
			product.CompareAtPrice = &regularPrice
		}
	}

	if len(wooProduct.Categories) > 0 {
		product.Category = stringPtr(wooProduct.Categories[0].Name)
	}
	if len(wooProduct.Tags) > 0 {
		tagNames := make([]string, 0, len(wooProduct.Tags))
		for _, tag := range wooProduct.Tags {
			tagNames = append(tagNames, tag.Name)
		}
		product.Tags = stringPtr(strings.Join(tagNames, ","))
	}

	if createdAt, err := parseWooDate(wooProduct.DateCreated); err == nil {
		product.PlatformCreatedAt = &createdAt
	}

	return product
}

func mapOrderStatus(wooStatus string) domain.OrderStatus {
	switch wooStatus {
	case "pending", "on-hold":
		return domain.OrderStatusPending
	case "processing":
		return domain.OrderStatusProcessing
	case "completed":
		return domain.OrderStatusDelivered
	case "cancelled", "failed", "trash":
		return domain.OrderStatusCancelled
	case "refunded":
		return domain.OrderStatusRefunded
	default:
		return domain.OrderStatusPending
	}
}

func parseMoney(value string) decimal.Decimal {
	if value == "" {
		return decimal.Zero
	}

	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}

	return parsed
}

func parseWooDate(value string) (time.Time, error) {
	if parsed, err := time.Parse(wooDateLayout, value); err == nil {
		return parsed, nil
	}
	return time.Parse(time.RFC3339, value)
}

func stringPtr(value string) *string {
	return &value
}
