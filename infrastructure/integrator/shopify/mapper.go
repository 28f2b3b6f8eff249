package shopify

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	shopifydomain "github.com/selimsoyah/nexus-analytics-api/infrastructure/integrator/shopify/domain"
	"github.com/selimsoyah/nexus-analytics-api/internal/domain"
)

func mapCustomer(shopifyCustomer shopifydomain.Customer) *domain.Customer {
	customer := &domain.Customer{
		ExternalID: strconv.FormatInt(shopifyCustomer.ID, 10),
		Platform:   domain.PlatformShopify,
		Email:      strings.ToLower(strings.TrimSpace(shopifyCustomer.Email)),
		FirstName:  shopifyCustomer.FirstName,
		LastName:   shopifyCustomer.LastName,
		IsActive:   shopifyCustomer.State != "disabled",
	}

	if shopifyCustomer.Phone != "" {
		customer.Phone = stringPtr(shopifyCustomer.Phone)
	}

	if address := shopifyCustomer.Address; address != nil {
		if address.Address1 != "" {
			customer.AddressLine1 = stringPtr(address.Address1)
		}
		if address.Address2 != "" {
			customer.AddressLine2 = stringPtr(address.Address2)
		}
		if address.City != "" {
			customer.City = stringPtr(address.City)
		}
		if address.Province != "" {
			customer.State = stringPtr(address.Province)
		}
		if address.Country != "" {
			customer.Country = stringPtr(address.Country)
		}
		if address.Zip != "" {
			customer.PostalCode = stringPtr(address.Zip)
		}
		if customer.Phone == nil && address.Phone != "" {
			customer.Phone = stringPtr(address.Phone)
		}
	}

	if createdAt, err := time.Parse(time.RFC3339, shopifyCustomer.CreatedAt); err == nil {
		customer.PlatformCreatedAt = &createdAt
	}

	return customer
}

func mapOrder(shopifyOrder shopifydomain.Order) *domain.Order {
	externalID := strconv.FormatInt(shopifyOrder.ID, 10)

	order := &domain.Order{
		ExternalID:     externalID,
		Platform:       domain.PlatformShopify,
		OrderNumber:    orderNumber(shopifyOrder),
		Currency:       shopifyOrder.Currency,
		Status:         mapOrderStatus(shopifyOrder),
		Subtotal:       parseMoney(shopifyOrder.SubtotalPrice),
		TaxAmount:      parseMoney(shopifyOrder.TotalTax),
		DiscountAmount: parseMoney(shopifyOrder.TotalDiscounts),
		TotalAmount:    parseMoney(shopifyOrder.TotalPrice),
	}

	for _, shippingLine := range shopifyOrder.ShippingLines {
		order.ShippingAmount = order.ShippingAmount.Add(parseMoney(shippingLine.Price))
	}

	if shopifyOrder.FinancialStatus != "" {
		order.PaymentStatus = stringPtr(shopifyOrder.FinancialStatus)
	}
	if shopifyOrder.FulfillmentStatus != nil && *shopifyOrder.FulfillmentStatus != "" {
		order.FulfillmentStatus = shopifyOrder.FulfillmentStatus
	}

	if shopifyOrder.Customer != nil && shopifyOrder.Customer.ID > 0 {
		order.CustomerExternalID = stringPtr(strconv.FormatInt(shopifyOrder.Customer.ID, 10))
	}
	if shopifyOrder.Email != "" {
		order.Email = stringPtr(strings.ToLower(strings.TrimSpace(shopifyOrder.Email)))
	}

	if orderDate, err := time.Parse(time.RFC3339, shopifyOrder.CreatedAt); err == nil {
		order.OrderDate = orderDate
	} else {
		order.OrderDate = time.Now().UTC()
	}

	for _, lineItem := range shopifyOrder.LineItems {
		order.Items = append(order.Items, mapOrderItem(externalID, lineItem))
	}

	return order
}

func mapOrderItem(orderExternalID string, lineItem shopifydomain.LineItem) *domain.OrderItem {
	item := &domain.OrderItem{
		ExternalID:      strconv.FormatInt(lineItem.ID, 10),
		Platform:        domain.PlatformShopify,
		OrderExternalID: orderExternalID,
		ProductName:     lineItem.Title,
		Quantity:        lineItem.Quantity,
		UnitPrice:       parseMoney(lineItem.Price),
		DiscountAmount:  parseMoney(lineItem.TotalDiscount),
	}

	item.TotalPrice = item.UnitPrice.
		Mul(decimal.NewFromInt(int64(lineItem.Quantity))).
		Sub(item.DiscountAmount)
	if item.TotalPrice.IsNegative() {
		item.TotalPrice = decimal.Zero
	}

	if lineItem.ProductID != nil && *lineItem.ProductID > 0 {
		item.ProductExternalID = stringPtr(strconv.FormatInt(*lineItem.ProductID, 10))
	}
	if lineItem.SKU != "" {
		item.ProductSKU = stringPtr(lineItem.SKU)
	}
	if lineItem.VariantTitle != nil && *lineItem.VariantTitle != "" {
		item.VariantTitle = lineItem.VariantTitle
	}

	return item
}

func mapProduct(shopifyProduct shopifydomain.Product) *domain.Product {
	product := &domain.Product{
		ExternalID:  strconv.FormatInt(shopifyProduct.ID, 10),
		Platform:    domain.PlatformShopify,
		Name:        shopifyProduct.Title,
		IsActive:    shopifyProduct.Status == "active",
		IsPublished: shopifyProduct.Status == "active",
	}

	if shopifyProduct.BodyHTML != "" {
		product.Description = stringPtr(shopifyProduct.BodyHTML)
	}
	if shopifyProduct.Vendor != "" {
		product.Vendor = stringPtr(shopifyProduct.Vendor)
	}
	if shopifyProduct.ProductType != "" {
		product.ProductType = stringPtr(shopifyProduct.ProductType)
		product.Category = stringPtr(shopifyProduct.ProductType)
	}
	if shopifyProduct.Tags != "" {
		product.Tags = stringPtr(shopifyProduct.Tags)
	}

	// Shopify prices and stock live on variants; the first one is canonical
	if len(shopifyProduct.Variants) > 0 {
		variant := shopifyProduct.Variants[0]

		product.Price = parseMoney(variant.Price)
		if variant.SKU != "" {
			product.SKU = stringPtr(variant.SKU)
		}
		if variant.CompareAtPrice != nil && *variant.CompareAtPrice != "" {
			compareAt := parseMoney(*variant.CompareAtPrice)
			if compareAt.IsPositive() {
				product.CompareAtPrice = &compareAt
			}
		}

		for _, v := range shopifyProduct.Variants {
			product.InventoryQuantity += v.InventoryQuantity
		}
	}

	if createdAt, err := time.Parse(time.RFC3339, shopifyProduct.CreatedAt); err == nil {
		product.PlatformCreatedAt = &createdAt
	}

	return product
}

func mapOrderStatus(shopifyOrder shopifydomain.Order) domain.OrderStatus {
	if shopifyOrder.CancelledAt != nil && *shopifyOrder.CancelledAt != "" {
		return domain.OrderStatusCancelled
	}

	switch shopifyOrder.FinancialStatus {
	case "refunded", "partially_refunded":
		return domain.OrderStatusRefunded
	case "voided":
		return domain.OrderStatusCancelled
	}

	if shopifyOrder.FulfillmentStatus != nil {
		switch *shopifyOrder.FulfillmentStatus {
		case "fulfilled":
			return domain.OrderStatusDelivered
		case "partial":
			return domain.OrderStatusShipped
		}
	}

	if shopifyOrder.FinancialStatus == "paid" {
		return domain.OrderStatusProcessing
	}

	return domain.OrderStatusPending
}

func orderNumber(shopifyOrder shopifydomain.Order) string {
	if shopifyOrder.Name != "" {
		return strings.TrimPrefix(shopifyOrder.Name, "#")
	}
	return strconv.FormatInt(shopifyOrder.OrderNumber, 10)
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

func stringPtr(value string) *string {
	return &value
}
