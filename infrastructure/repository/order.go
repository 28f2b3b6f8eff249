package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	_ "github.com/lib/pq"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/database/postgres"
	"github.com/selimsoyah/nexus-analytics-api/internal/domain"
	"github.com/selimsoyah/nexus-analytics-api/pkg/utils"
)

const (
	ordersTable     = "orders"
	orderItemsTable = "order_items"
)

type OrderRepository interface {
	SaveOrUpdate(ctx context.Context, orders []*domain.Order) error
	ListCustomerIDsByExternalID(platform domain.Platform) (map[string]string, error)
}

type orderRepository struct {
	conn *postgres.Connection
}

func NewOrderRepository(conn *postgres.Connection) OrderRepository {
	return &orderRepository{
		conn: conn,
	}
}

// SaveOrUpdate upserts a batch of orders with their line items in a single
// transaction. Items are replaced wholesale per order, platforms resend the
// full line set on every update.
func (r *orderRepository) SaveOrUpdate(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for _, order := range orders {
			if order.ID == "" {
				id, err := utils.GenerateID()
				if err != nil {
					return fmt.Errorf("failed to generate order ID: %w", err)
				}
				order.ID = id
			}

			if err := r.upsertOrder(tx, order); err != nil {
				return err
			}

			if len(order.Items) == 0 {
				continue
			}

			if err := r.replaceOrderItems(tx, order); err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *orderRepository) upsertOrder(tx *sql.Tx, order *domain.Order) error {
	query := squirrel.StatementBuilder.
		Insert(ordersTable).
		Columns(
			"id", "external_id", "platform", "customer_id", "customer_external_id",
			"order_number", "order_date", "subtotal", "tax_amount", "shipping_amount",
			"discount_amount", "total_amount", "currency", "status",
			"fulfillment_status", "payment_status", "email",
		).
		Values(
			order.ID,
			order.ExternalID,
			order.Platform,
			order.CustomerID,
			order.CustomerExternalID,
			order.OrderNumber,
			order.OrderDate,
			order.Subtotal,
			order.TaxAmount,
			order.ShippingAmount,
			order.DiscountAmount,
			order.TotalAmount,
			order.Currency,
			order.Status,
			order.FulfillmentStatus,
			order.PaymentStatus,
			order.Email,
		).
		Suffix(`
			ON CONFLICT (platform, external_id) DO UPDATE SET
				customer_id = EXCLUDED.customer_id,
				customer_external_id = EXCLUDED.customer_external_id,
				order_date = EXCLUDED.order_date,
				subtotal = EXCLUDED.subtotal,
				tax_amount = EXCLUDED.tax_amount,
				shipping_amount = EXCLUDED.shipping_amount,
				discount_amount = EXCLUDED.discount_amount,
				total_amount = EXCLUDED.total_amount,
				status = EXCLUDED.status,
				fulfillment_status = EXCLUDED.fulfillment_status,
				payment_status = EXCLUDED.payment_status,
				email = EXCLUDED.email,
				updated_at = NOW()
			RETURNING id
		`).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	// The upsert may resolve to a pre-existing warehouse ID
	if err := tx.QueryRow(sqlQuery, args...).Scan(&order.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("failed to upsert order %s: %w", order.ExternalID, err)
	}

	return nil
}

func (r *orderRepository) replaceOrderItems(tx *sql.Tx, order *domain.Order) error {
	deleteSQL, deleteArgs, err := squirrel.
		Delete(orderItemsTable).
		Where(squirrel.Eq{"order_id": order.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(deleteSQL, deleteArgs...); err != nil {
		return fmt.Errorf("failed to clear order items: %w", err)
	}

	query := squirrel.StatementBuilder.
		Insert(orderItemsTable).
		Columns(
			"id", "external_id", "platform", "order_id", "order_external_id",
			"product_id", "product_external_id", "product_name", "product_sku",
			"variant_title", "quantity", "unit_price", "total_price",
			"discount_amount", "tax_amount",
		).
		PlaceholderFormat(squirrel.Dollar)

	for _, item := range order.Items {
		if item.ID == "" {
			id, err := utils.GenerateID()
			if err != nil {
				return fmt.Errorf("failed to generate order item ID: %w", err)
			}
			item.ID = id
		}

		query = query.Values(
			item.ID,
			item.ExternalID,
			item.Platform,
			order.ID,
			item.OrderExternalID,
			item.ProductID,
			item.ProductExternalID,
			item.ProductName,
			item.ProductSKU,
			item.VariantTitle,
			item.Quantity,
			item.UnitPrice,
			item.TotalPrice,
			item.DiscountAmount,
			item.TaxAmount,
		)
	}

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := tx.Exec(sqlQuery, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("failed to insert order items: %w", err)
	}

	return nil
}

// ListCustomerIDsByExternalID maps platform customer IDs to warehouse IDs so
// a batch of orders can be linked without a lookup per order.
func (r *orderRepository) ListCustomerIDsByExternalID(platform domain.Platform) (map[string]string, error) {
	customersSQL, customersArgs, err := squirrel.
		Select("id", "external_id").
		From(customersTable).
		Where(squirrel.Eq{"platform": platform}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(customersSQL, customersArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer rows.Close()

	idsByExternalID := make(map[string]string)
	for rows.Next() {
		var id, externalID string
		if err := rows.Scan(&id, &externalID); err != nil {
			return nil, err
		}
		idsByExternalID[externalID] = id
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return idsByExternalID, nil
}
