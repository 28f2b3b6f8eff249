package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/database/postgres"
	"github.com/selimsoyah/nexus-analytics-api/internal/domain"
)

const storesTable = "stores"

type StoreRepository interface {
	GetStoreByID(storeID string) (*domain.Store, error)
	ListStores(availableStatus []domain.StoreStatus) ([]*domain.Store, error)
	ListStoresByPlatform(platform domain.Platform) ([]*domain.Store, error)
	SaveOrUpdate(store *domain.Store) error
	UpdateLastSyncedAt(storeID string, syncedAt time.Time) error
	UpdateAccessToken(storeID string, token string) error
}

type storeRepository struct {
	conn *postgres.Connection
}

func NewStoreRepository(conn *postgres.Connection) StoreRepository {
	return &storeRepository{
		conn: conn,
	}
}

func (r *storeRepository) GetStoreByID(storeID string) (*domain.Store, error) {
	return r.getStore(squirrel.Eq{"id": storeID})
}

func (r *storeRepository) getStore(whereClause map[string]interface{}) (*domain.Store, error) {
	storesSQL, storesArgs, err := squirrel.
		Select("id", "name", "platform", "base_url", "consumer_key", "consumer_secret", "access_token", "status", "last_synced_at", "created_at", "updated_at").
		From(storesTable).
		Where(whereClause).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	row := r.conn.QueryRow(storesSQL, storesArgs...)

	store, err := r.deserializeStore(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return store, nil
}

func (r *storeRepository) deserializeStore(row *sql.Row) (*domain.Store, error) {
	store := &domain.Store{}

	if err := row.Scan(
		&store.ID,
		&store.Name,
		&store.Platform,
		&store.BaseURL,
		&store.ConsumerKey,
		&store.ConsumerSecret,
		&store.AccessToken,
		&store.Status,
		&store.LastSyncedAt,
		&store.CreatedAt,
		&store.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return store, nil
}

func (r *storeRepository) ListStores(availableStatus []domain.StoreStatus) ([]*domain.Store, error) {
	queryBuilder := squirrel.
		Select("id", "name", "platform", "base_url", "consumer_key", "consumer_secret", "access_token", "status", "last_synced_at", "created_at", "updated_at").
		From(storesTable).
		OrderBy("name ASC").
		PlaceholderFormat(squirrel.Dollar)

	if len(availableStatus) > 0 {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"status": availableStatus})
	}

	storesSQL, storesArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	return r.queryStores(storesSQL, storesArgs)
}

func (r *storeRepository) ListStoresByPlatform(platform domain.Platform) ([]*domain.Store, error) {
	storesSQL, storesArgs, err := squirrel.
		Select("id", "name", "platform", "base_url", "consumer_key", "consumer_secret", "access_token", "status", "last_synced_at", "created_at", "updated_at").
		From(storesTable).
		Where(squirrel.Eq{"platform": platform, "status": domain.StoreStatusActive}).
		OrderBy("name ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	return r.queryStores(storesSQL, storesArgs)
}

func (r *storeRepository) queryStores(storesSQL string, storesArgs []interface{}) ([]*domain.Store, error) {
	rows, err := r.conn.Query(storesSQL, storesArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	stores := make([]*domain.Store, 0)

	for rows.Next() {
		store := &domain.Store{}
		if err := rows.Scan(
			&store.ID,
			&store.Name,
			&store.Platform,
			&store.BaseURL,
			&store.ConsumerKey,
			&store.ConsumerSecret,
			&store.AccessToken,
			&store.Status,
			&store.LastSyncedAt,
			&store.CreatedAt,
			&store.UpdatedAt,
		); err != nil {
			return nil, err
		}

		stores = append(stores, store)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stores, nil
}

func (r *storeRepository) SaveOrUpdate(store *domain.Store) error {
	query := squirrel.StatementBuilder.
		Insert(storesTable).
		Columns("id", "name", "platform", "base_url", "consumer_key", "consumer_secret", "access_token", "status").
		Values(
			store.ID,
			store.Name,
			store.Platform,
			store.BaseURL,
			store.ConsumerKey,
			store.ConsumerSecret,
			store.AccessToken,
			store.Status,
		).
		Suffix(`
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				base_url = EXCLUDED.base_url,
				consumer_key = COALESCE(EXCLUDED.consumer_key, stores.consumer_key),
				consumer_secret = COALESCE(EXCLUDED.consumer_secret, stores.consumer_secret),
				access_token = COALESCE(EXCLUDED.access_token, stores.access_token),
				status = EXCLUDED.status,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	_, err = r.conn.Exec(sqlQuery, args...)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}

func (r *storeRepository) UpdateLastSyncedAt(storeID string, syncedAt time.Time) error {
	sqlQuery, args, err := squirrel.
		Update(storesTable).
		Set("last_synced_at", syncedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": storeID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(sqlQuery, args...)
	return err
}

func (r *storeRepository) UpdateAccessToken(storeID string, token string) error {
	sqlQuery, args, err := squirrel.
		Update(storesTable).
		Set("access_token", token).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": storeID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(sqlQuery, args...)
	return err
}
