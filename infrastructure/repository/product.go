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

const productsTable = "products"

type ProductRepository interface {
	ListProducts(filters *domain.InsightFilters) ([]*domain.Product, error)
	SaveOrUpdate(products []*domain.Product) error
	ListProductIDsByExternalID(platform domain.Platform) (map[string]string, error)
}

type productRepository struct {
	conn *postgres.Connection
}

func NewProductRepository(conn *postgres.Connection) ProductRepository {
	return &productRepository{
		conn: conn,
	}
}

func (r *productRepository) ListProducts(filters *domain.InsightFilters) ([]*domain.Product, error) {
	queryBuilder := squirrel.
		Select(productColumns()...).
		From(productsTable).
		OrderBy("name ASC").
		PlaceholderFormat(squirrel.Dollar)

	if filters != nil {
		if filters.Platform != "" {
			queryBuilder = queryBuilder.Where(squirrel.Eq{"platform": filters.Platform})
		}
		if filters.Category != "" {
			queryBuilder = queryBuilder.Where(squirrel.Eq{"category": filters.Category})
		}
		if filters.Limit > 0 {
			queryBuilder = queryBuilder.Limit(uint64(filters.Limit))
		}
	}

	productsSQL, productsArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(productsSQL, productsArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	products := make([]*domain.Product, 0)
	for rows.Next() {
		product := &domain.Product{}
		if err := scanProduct(rows.Scan, product); err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepository) SaveOrUpdate(products []*domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	query := squirrel.StatementBuilder.
		Insert(productsTable).
		Columns(
			"id", "external_id", "platform", "name", "description", "sku", "price",
			"compare_at_price", "category", "brand", "vendor", "product_type", "tags",
			"inventory_quantity", "is_active", "is_published", "platform_created_at",
		).
		PlaceholderFormat(squirrel.Dollar)

	for _, product := range products {
		if product.ID == "" {
			id, err := utils.GenerateID()
			if err != nil {
				return fmt.Errorf("failed to generate product ID: %w", err)
			}
			product.ID = id
		}

		query = query.Values(
			product.ID,
			product.ExternalID,
			product.Platform,
			product.Name,
			product.Description,
			product.SKU,
			product.Price,
			product.CompareAtPrice,
			product.Category,
			product.Brand,
			product.Vendor,
			product.ProductType,
			product.Tags,
			product.InventoryQuantity,
			product.IsActive,
			product.IsPublished,
			product.PlatformCreatedAt,
		)
	}

	query = query.Suffix(`
			ON CONFLICT (platform, external_id) DO UPDATE SET
				name = EXCLUDED.name,
				description = EXCLUDED.description,
				sku = EXCLUDED.sku,
				price = EXCLUDED.price,
				compare_at_price = EXCLUDED.compare_at_price,
				category = EXCLUDED.category,
				brand = EXCLUDED.brand,
				vendor = EXCLUDED.vendor,
				product_type = EXCLUDED.product_type,
				tags = EXCLUDED.tags,
				inventory_quantity = EXCLUDED.inventory_quantity,
				is_active = EXCLUDED.is_active,
				is_published = EXCLUDED.is_published,
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

// ListProductIDsByExternalID maps platform product IDs to warehouse IDs so
// order items can be linked during a sync without a lookup per line.
func (r *productRepository) ListProductIDsByExternalID(platform domain.Platform) (map[string]string, error) {
	productsSQL, productsArgs, err := squirrel.
		Select("id", "external_id").
		From(productsTable).
		Where(squirrel.Eq{"platform": platform}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(productsSQL, productsArgs...)
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

func productColumns() []string {
	return []string{
		"id", "external_id", "platform", "name", "description", "sku", "price",
		"compare_at_price", "category", "brand", "vendor", "product_type", "tags",
		"inventory_quantity", "is_active", "is_published", "platform_created_at",
		"created_at", "updated_at",
	}
}

func scanProduct(scan func(dest ...interface{}) error, product *domain.Product) error {
	return scan(
		&product.ID,
		&product.ExternalID,
		&product.Platform,
		&product.Name,
		&product.Description,
		&product.SKU,
		&product.Price,
		&product.CompareAtPrice,
		&product.Category,
		&product.Brand,
		&product.Vendor,
		&product.ProductType,
		&product.Tags,
		&product.InventoryQuantity,
		&product.IsActive,
		&product.IsPublished,
		&product.PlatformCreatedAt,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
}
