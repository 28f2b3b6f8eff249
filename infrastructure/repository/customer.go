package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	_ "github.com/lib/pq"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/database/postgres"
	"github.com/selimsoyah/nexus-analytics-api/internal/domain"
	"github.com/selimsoyah/nexus-analytics-api/pkg/utils"
)

const customersTable = "customers"

type CustomerRepository interface {
	GetCustomerByID(customerID string) (*domain.Customer, error)
	GetCustomerByExternalID(platform domain.Platform, externalID string) (*domain.Customer, error)
	ListCustomers(filters *domain.InsightFilters) ([]*domain.Customer, error)
	SaveOrUpdate(customers []*domain.Customer) error
	ListRFMInputs(platform domain.Platform) ([]*domain.RFMInput, error)
	RefreshRollups() error
}

type customerRepository struct {
	conn *postgres.Connection
}

func NewCustomerRepository(conn *postgres.Connection) CustomerRepository {
	return &customerRepository{
		conn: conn,
	}
}

func (r *customerRepository) GetCustomerByID(customerID string) (*domain.Customer, error) {
	return r.getCustomer(squirrel.Eq{"id": customerID})
}

func (r *customerRepository) GetCustomerByExternalID(platform domain.Platform, externalID string) (*domain.Customer, error) {
	return r.getCustomer(squirrel.Eq{"platform": platform, "external_id": externalID})
}

func (r *customerRepository) getCustomer(whereClause map[string]interface{}) (*domain.Customer, error) {
	customersSQL, customersArgs, err := squirrel.
		Select(customerColumns()...).
		From(customersTable).
		Where(whereClause).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	row := r.conn.QueryRow(customersSQL, customersArgs...)

	customer := &domain.Customer{}
	if err := scanCustomer(row.Scan, customer); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return customer, nil
}

func (r *customerRepository) ListCustomers(filters *domain.InsightFilters) ([]*domain.Customer, error) {
	queryBuilder := squirrel.
		Select(customerColumns()...).
		From(customersTable).
		OrderBy("total_spent DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filters != nil {
		if filters.Platform != "" {
			queryBuilder = queryBuilder.Where(squirrel.Eq{"platform": filters.Platform})
		}
		if filters.Limit > 0 {
			queryBuilder = queryBuilder.Limit(uint64(filters.Limit))
		}
	}

	customersSQL, customersArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(customersSQL, customersArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	customers := make([]*domain.Customer, 0)
	for rows.Next() {
		customer := &domain.Customer{}
		if err := scanCustomer(rows.Scan, customer); err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return customers, nil
}

// SaveOrUpdate upserts a batch of customers keyed by (platform, external_id).
// IDs are generated here for rows the platform has never sent before.
func (r *customerRepository) SaveOrUpdate(customers []*domain.Customer) error {
	if len(customers) == 0 {
		return nil
	}

	query := squirrel.StatementBuilder.
		Insert(customersTable).
		Columns(
			"id", "external_id", "platform", "email", "first_name", "last_name",
			"phone", "address_line1", "address_line2", "city", "state", "country",
			"postal_code", "total_spent", "orders_count", "average_order_value",
			"last_order_date", "is_active", "platform_created_at",
		).
		PlaceholderFormat(squirrel.Dollar)

	for _, customer := range customers {
		if customer.ID == "" {
			id, err := utils.GenerateID()
			if err != nil {
				return fmt.Errorf("failed to generate customer ID: %w", err)
			}
			customer.ID = id
		}

		query = query.Values(
			customer.ID,
			customer.ExternalID,
			customer.Platform,
			customer.Email,
			customer.FirstName,
			customer.LastName,
			customer.Phone,
			customer.AddressLine1,
			customer.AddressLine2,
			customer.City,
			customer.State,
			customer.Country,
			customer.PostalCode,
			customer.TotalSpent,
			customer.OrdersCount,
			customer.AverageOrderValue,
			customer.LastOrderDate,
			customer.IsActive,
			customer.PlatformCreatedAt,
		)
	}

	query = query.Suffix(`
			ON CONFLICT (platform, external_id) DO UPDATE SET
				email = EXCLUDED.email,
				first_name = EXCLUDED.first_name,
				last_name = EXCLUDED.last_name,
				phone = EXCLUDED.phone,
				address_line1 = EXCLUDED.address_line1,
				address_line2 = EXCLUDED.address_line2,
				city = EXCLUDED.city,
				state = EXCLUDED.state,
				country = EXCLUDED.country,
				postal_code = EXCLUDED.postal_code,
				total_spent = EXCLUDED.total_spent,
				orders_count = EXCLUDED.orders_count,
				average_order_value = EXCLUDED.average_order_value,
				last_order_date = EXCLUDED.last_order_date,
				is_active = EXCLUDED.is_active,
				updated_at = NOW()
		`)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	_, err = r.conn.Exec(sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}

// ListRFMInputs computes recency, frequency and monetary per customer straight
// from the orders table, excluding cancelled and refunded orders.
func (r *customerRepository) ListRFMInputs(platform domain.Platform) ([]*domain.RFMInput, error) {
	query := `
		SELECT
			c.id,
			c.external_id,
			c.platform,
			COALESCE(c.email, ''),
			EXTRACT(DAY FROM NOW() - MAX(o.order_date))::int AS recency_days,
			COUNT(o.id) AS frequency,
			COALESCE(SUM(o.total_amount), 0) AS monetary,
			COALESCE(AVG(o.total_amount), 0) AS avg_order_value,
			MIN(o.order_date) AS first_order_at,
			MAX(o.order_date) AS last_order_at
		FROM customers c
		JOIN orders o ON o.customer_id = c.id
		WHERE o.status NOT IN ('cancelled', 'refunded')
	`

	args := make([]interface{}, 0, 1)
	if platform != "" {
		query += " AND c.platform = $1"
		args = append(args, platform)
	}

	query += `
		GROUP BY c.id, c.external_id, c.platform, c.email
		HAVING COUNT(o.id) > 0
	`

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query rfm inputs: %w", err)
	}
	defer rows.Close()

	inputs := make([]*domain.RFMInput, 0)
	for rows.Next() {
		input := &domain.RFMInput{}
		if err := rows.Scan(
			&input.CustomerID,
			&input.ExternalID,
			&input.Platform,
			&input.Email,
			&input.RecencyDays,
			&input.Frequency,
			&input.Monetary,
			&input.AvgOrderValue,
			&input.FirstOrderAt,
			&input.LastOrderAt,
		); err != nil {
			return nil, err
		}
		inputs = append(inputs, input)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return inputs, nil
}

// RefreshRollups recomputes the denormalized spend counters from orders.
// Runs after every sync so the dashboard numbers never drift from the facts.
func (r *customerRepository) RefreshRollups() error {
	query := `
		UPDATE customers c SET
			total_spent = agg.total_spent,
			orders_count = agg.orders_count,
			average_order_value = agg.avg_order_value,
			last_order_date = agg.last_order_date,
			updated_at = NOW()
		FROM (
			SELECT
				customer_id,
				COALESCE(SUM(total_amount), 0) AS total_spent,
				COUNT(id) AS orders_count,
				COALESCE(AVG(total_amount), 0) AS avg_order_value,
				MAX(order_date) AS last_order_date
			FROM orders
			WHERE customer_id IS NOT NULL
			  AND status NOT IN ('cancelled', 'refunded')
			GROUP BY customer_id
		) agg
		WHERE c.id = agg.customer_id
	`

	_, err := r.conn.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to refresh customer rollups: %w", err)
	}

	return nil
}

func customerColumns() []string {
	return []string{
		"id", "external_id", "platform", "email", "first_name", "last_name",
		"phone", "address_line1", "address_line2", "city", "state", "country",
		"postal_code", "total_spent", "orders_count", "average_order_value",
		"last_order_date", "is_active", "platform_created_at",
		"created_at", "updated_at",
	}
}

func scanCustomer(scan func(dest ...interface{}) error, customer *domain.Customer) error {
	return scan(
		&customer.ID,
		&customer.ExternalID,
		&customer.Platform,
		&customer.Email,
		&customer.FirstName,
		&customer.LastName,
		&customer.Phone,
		&customer.AddressLine1,
		&customer.AddressLine2,
		&customer.City,
		&customer.State,
		&customer.Country,
		&customer.PostalCode,
		&customer.TotalSpent,
		&customer.OrdersCount,
		&customer.AverageOrderValue,
		&customer.LastOrderDate,
		&customer.IsActive,
		&customer.PlatformCreatedAt,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
}
