package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/database/postgres"
	"github.com/selimsoyah/nexus-analytics-api/internal/domain"
)

// AnalyticsRepository holds the read-side queries that feed the analytics
// engines. These are aggregate scans over orders and order_items, kept
// separate from the sync write path.
type AnalyticsRepository interface {
	DailyRevenueSeries(platform domain.Platform, sinceDays int) ([]*domain.DailyRevenue, error)
	PlatformOverviews() ([]*domain.PlatformOverview, error)
	PlatformPerformanceStats() ([]*domain.PlatformPerformanceStat, error)
	PlatformCLVSummaries() ([]*domain.PlatformCLVSummary, error)
	ProductPerformance(filters *domain.InsightFilters) ([]*domain.ProductPerformance, error)
	CustomerOrders(customerID string) ([]*domain.InsightOrder, error)
	CustomerOrderStats(customerID string) ([]domain.OrderStat, error)
	TrendPeriods(period string, platform domain.Platform, sinceDays int) ([]*domain.TrendPeriod, error)
}

type analyticsRepository struct {
	conn *postgres.Connection
}

func NewAnalyticsRepository(conn *postgres.Connection) AnalyticsRepository {
	return &analyticsRepository{
		conn: conn,
	}
}

const excludedStatuses = "('cancelled', 'refunded')"

func (r *analyticsRepository) DailyRevenueSeries(platform domain.Platform, sinceDays int) ([]*domain.DailyRevenue, error) {
	query := fmt.Sprintf(`
		SELECT
			DATE(order_date) AS day,
			COALESCE(SUM(total_amount), 0) AS revenue,
			COUNT(id) AS orders,
			COUNT(DISTINCT customer_id) AS customers
		FROM orders
		WHERE order_date >= NOW() - ($1 || ' days')::interval
		  AND status NOT IN %s
	`, excludedStatuses)

	args := []interface{}{sinceDays}
	if platform != "" {
		query += " AND platform = $2"
		args = append(args, platform)
	}

	query += `
		GROUP BY DATE(order_date)
		ORDER BY day ASC
	`

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query daily revenue: %w", err)
	}
	defer rows.Close()

	series := make([]*domain.DailyRevenue, 0)
	for rows.Next() {
		point := &domain.DailyRevenue{}
		if err := rows.Scan(&point.Date, &point.Revenue, &point.Orders, &point.Customers); err != nil {
			return nil, err
		}
		series = append(series, point)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return series, nil
}

func (r *analyticsRepository) PlatformOverviews() ([]*domain.PlatformOverview, error) {
	query := fmt.Sprintf(`
		SELECT
			c.platform,
			COUNT(DISTINCT c.id) AS customers,
			COUNT(DISTINCT o.id) AS orders,
			COUNT(DISTINCT p.id) AS products,
			COALESCE(SUM(o.total_amount), 0) AS revenue,
			COALESCE(AVG(o.total_amount), 0) AS avg_order_value
		FROM customers c
		LEFT JOIN orders o ON o.customer_id = c.id AND o.status NOT IN %s
		LEFT JOIN products p ON p.platform = c.platform
		GROUP BY c.platform
		ORDER BY revenue DESC
	`, excludedStatuses)

	rows, err := r.conn.Query(query)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query platform overviews: %w", err)
	}
	defer rows.Close()

	overviews := make([]*domain.PlatformOverview, 0)
	for rows.Next() {
		ov := &domain.PlatformOverview{}
		if err := rows.Scan(
			&ov.Platform,
			&ov.TotalCustomers,
			&ov.TotalOrders,
			&ov.TotalProducts,
			&ov.TotalRevenue,
			&ov.AvgOrderValue,
		); err != nil {
			return nil, err
		}
		overviews = append(overviews, ov)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return overviews, nil
}

// PlatformPerformanceStats feeds the cross-platform performance scores.
// Unlike the overview query it joins customers to orders only: the products
// join would repeat each order row once per product on the platform and
// inflate SUM(total_amount) accordingly.
func (r *analyticsRepository) PlatformPerformanceStats() ([]*domain.PlatformPerformanceStat, error) {
	query := `
		SELECT
			c.platform,
			COUNT(DISTINCT c.id) AS total_customers,
			COUNT(DISTINCT o.id) AS total_orders,
			COALESCE(SUM(o.total_amount), 0) AS total_revenue,
			COALESCE(AVG(o.total_amount), 0) AS avg_order_value,
			COALESCE(AVG(c.total_spent), 0) AS avg_customer_value,
			COALESCE(COUNT(DISTINCT CASE WHEN c.orders_count > 1 THEN c.id END) * 100.0 /
				NULLIF(COUNT(DISTINCT c.id), 0), 0) AS retention_rate
		FROM customers c
		LEFT JOIN orders o ON o.customer_id = c.id
		GROUP BY c.platform
		ORDER BY total_revenue DESC
	`

	rows, err := r.conn.Query(query)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query platform performance stats: %w", err)
	}
	defer rows.Close()

	stats := make([]*domain.PlatformPerformanceStat, 0)
	for rows.Next() {
		stat := &domain.PlatformPerformanceStat{}
		if err := rows.Scan(
			&stat.Platform,
			&stat.TotalCustomers,
			&stat.TotalOrders,
			&stat.TotalRevenue,
			&stat.AvgOrderValue,
			&stat.AvgCustomerValue,
			&stat.RetentionRate,
		); err != nil {
			return nil, err
		}
		stats = append(stats, stat)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *analyticsRepository) PlatformCLVSummaries() ([]*domain.PlatformCLVSummary, error) {
	query := `
		SELECT
			platform,
			COUNT(id) AS total_customers,
			COALESCE(AVG(total_spent), 0) AS avg_total_spent,
			COALESCE(AVG(orders_count), 0) AS avg_orders,
			COALESCE(AVG(NULLIF(average_order_value, 0)), 0) AS avg_order_value,
			COALESCE(AVG(EXTRACT(DAY FROM NOW() - last_order_date)), 0) AS avg_days_since_last_order,
			COALESCE(AVG(EXTRACT(DAY FROM last_order_date - platform_created_at)), 0) AS avg_lifespan_days,
			COUNT(id) FILTER (WHERE last_order_date < NOW() - INTERVAL '90 days') AS at_risk_customers,
			COUNT(id) FILTER (WHERE orders_count = 1) AS one_time_customers,
			COUNT(id) FILTER (WHERE orders_count > 1) AS repeat_customers
		FROM customers
		WHERE orders_count > 0
		GROUP BY platform
	`

	rows, err := r.conn.Query(query)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query clv summaries: %w", err)
	}
	defer rows.Close()

	summaries := make([]*domain.PlatformCLVSummary, 0)
	for rows.Next() {
		s := &domain.PlatformCLVSummary{}
		var repeatCustomers int
		if err := rows.Scan(
			&s.Platform,
			&s.TotalCustomers,
			&s.AvgTotalSpent,
			&s.AvgOrders,
			&s.AvgOrderValue,
			&s.AvgDaysSinceLastOrder,
			&s.AvgCustomerLifespanDays,
			&s.AtRiskCustomers,
			&s.OneTimeCustomers,
			&repeatCustomers,
		); err != nil {
			return nil, err
		}

		if s.TotalCustomers > 0 {
			s.RetentionRate = float64(repeatCustomers) / float64(s.TotalCustomers)
		}

		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}

func (r *analyticsRepository) ProductPerformance(filters *domain.InsightFilters) ([]*domain.ProductPerformance, error) {
	queryBuilder := squirrel.
		Select(
			"p.name",
			"p.category",
			"p.sku",
			"p.platform",
			"p.price",
			"COUNT(oi.id) AS times_purchased",
			"COALESCE(SUM(oi.quantity), 0) AS total_units_sold",
			"COALESCE(SUM(oi.total_price), 0) AS total_revenue",
			"COALESCE(AVG(oi.unit_price), 0) AS avg_selling_price",
			"COALESCE(MIN(oi.unit_price), 0) AS lowest_selling_price",
			"COALESCE(MAX(oi.unit_price), 0) AS highest_selling_price",
			"COUNT(DISTINCT o.customer_id) AS unique_customers",
			"COUNT(DISTINCT o.id) AS unique_orders",
			"MIN(o.order_date) AS first_sale_date",
			"MAX(o.order_date) AS last_sale_date",
		).
		From("products p").
		Join("order_items oi ON oi.product_id = p.id").
		Join("orders o ON o.id = oi.order_id").
		Where("o.status NOT IN ('cancelled', 'refunded')").
		GroupBy("p.id", "p.name", "p.category", "p.sku", "p.platform", "p.price").
		OrderBy("total_revenue DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filters != nil {
		if filters.Platform != "" {
			queryBuilder = queryBuilder.Where(squirrel.Eq{"p.platform": filters.Platform})
		}
		if filters.Category != "" {
			queryBuilder = queryBuilder.Where(squirrel.Eq{"p.category": filters.Category})
		}
		if filters.StartDate != nil {
			queryBuilder = queryBuilder.Where(squirrel.GtOrEq{"o.order_date": *filters.StartDate})
		}
		if filters.EndDate != nil {
			queryBuilder = queryBuilder.Where(squirrel.LtOrEq{"o.order_date": *filters.EndDate})
		}
		if filters.Limit > 0 {
			queryBuilder = queryBuilder.Limit(uint64(filters.Limit))
		}
	}

	performanceSQL, performanceArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(performanceSQL, performanceArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query product performance: %w", err)
	}
	defer rows.Close()

	performances := make([]*domain.ProductPerformance, 0)
	for rows.Next() {
		perf := &domain.ProductPerformance{}
		if err := rows.Scan(
			&perf.Name,
			&perf.Category,
			&perf.SKU,
			&perf.Platform,
			&perf.ListPrice,
			&perf.TimesPurchased,
			&perf.TotalUnitsSold,
			&perf.TotalRevenue,
			&perf.AvgSellingPrice,
			&perf.LowestSellingPrice,
			&perf.HighestSellingPrice,
			&perf.UniqueCustomers,
			&perf.UniqueOrders,
			&perf.FirstSaleDate,
			&perf.LastSaleDate,
		); err != nil {
			return nil, err
		}
		performances = append(performances, perf)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return performances, nil
}

// CustomerOrders loads a customer's full purchase history, order by order with
// the captured line items.
func (r *analyticsRepository) CustomerOrders(customerID string) ([]*domain.InsightOrder, error) {
	query := `
		SELECT
			o.id,
			o.order_date,
			o.total_amount,
			o.status,
			oi.product_name,
			p.category,
			COALESCE(p.price, 0),
			oi.product_sku,
			oi.quantity,
			oi.unit_price,
			oi.total_price
		FROM orders o
		LEFT JOIN order_items oi ON oi.order_id = o.id
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE o.customer_id = $1
		ORDER BY o.order_date DESC, o.id
	`

	rows, err := r.conn.Query(query, customerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query customer orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.InsightOrder, 0)
	var current *domain.InsightOrder

	for rows.Next() {
		var (
			orderID     string
			order       domain.InsightOrder
			productName sql.NullString
			product     domain.InsightProduct
		)

		if err := rows.Scan(
			&orderID,
			&order.OrderDate,
			&order.TotalAmount,
			&order.Status,
			&productName,
			&product.Category,
			&product.ListPrice,
			&product.SKU,
			&product.Quantity,
			&product.UnitPrice,
			&product.LineTotal,
		); err != nil {
			return nil, err
		}

		if current == nil || current.OrderID != orderID {
			order.OrderID = orderID
			order.Products = make([]*domain.InsightProduct, 0)
			current = &order
			orders = append(orders, current)
		}

		if productName.Valid {
			product.Name = productName.String
			current.Products = append(current.Products, &product)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// CustomerOrderStats returns the date and value of every countable order a
// customer placed, oldest first.
func (r *analyticsRepository) CustomerOrderStats(customerID string) ([]domain.OrderStat, error) {
	statsSQL, statsArgs, err := squirrel.
		Select("order_date", "total_amount").
		From("orders").
		Where(squirrel.Eq{"customer_id": customerID}).
		Where("status NOT IN ('cancelled', 'refunded')").
		OrderBy("order_date ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(statsSQL, statsArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query customer order stats: %w", err)
	}
	defer rows.Close()

	stats := make([]domain.OrderStat, 0)
	for rows.Next() {
		var stat domain.OrderStat
		if err := rows.Scan(&stat.OrderDate, &stat.TotalAmount); err != nil {
			return nil, err
		}
		stats = append(stats, stat)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

// TrendPeriods groups revenue into day, week, month or quarter buckets for
// the trend analyzer.
func (r *analyticsRepository) TrendPeriods(period string, platform domain.Platform, sinceDays int) ([]*domain.TrendPeriod, error) {
	var truncUnit string
	switch period {
	case "daily":
		truncUnit = "day"
	case "monthly":
		truncUnit = "month"
	case "quarterly":
		truncUnit = "quarter"
	default:
		truncUnit = "week"
	}

	query := fmt.Sprintf(`
		SELECT
			DATE_TRUNC('%s', order_date) AS period_start,
			COALESCE(SUM(total_amount), 0) AS total_revenue,
			COUNT(id) AS order_count,
			COALESCE(AVG(total_amount), 0) AS avg_order_value
		FROM orders
		WHERE order_date >= NOW() - ($1 || ' days')::interval
		  AND status NOT IN %s
	`, truncUnit, excludedStatuses)

	args := []interface{}{sinceDays}
	if platform != "" {
		query += " AND platform = $2"
		args = append(args, platform)
	}

	query += fmt.Sprintf(`
		GROUP BY DATE_TRUNC('%s', order_date)
		ORDER BY period_start ASC
	`, truncUnit)

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query trend periods: %w", err)
	}
	defer rows.Close()

	periods := make([]*domain.TrendPeriod, 0)
	for rows.Next() {
		p := &domain.TrendPeriod{}
		if err := rows.Scan(&p.PeriodStart, &p.TotalRevenue, &p.OrderCount, &p.AvgOrderValue); err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return periods, nil
}
