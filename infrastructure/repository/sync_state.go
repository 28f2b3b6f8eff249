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

const syncRunsTable = "sync_runs"

type SyncStateRepository interface {
	RecordRun(run *domain.SyncRun) error
	ListRuns(platform domain.Platform, limit int) ([]*domain.SyncRun, error)
	LatestRuns() ([]*domain.SyncRun, error)
}

type syncStateRepository struct {
	conn *postgres.Connection
}

func NewSyncStateRepository(conn *postgres.Connection) SyncStateRepository {
	return &syncStateRepository{
		conn: conn,
	}
}

// RecordRun inserts or updates one scheduler pass. The scheduler writes a row
// when a run starts and overwrites it with the counters when the run finishes,
// so an in-flight run is visible as a row without completed_at.
func (r *syncStateRepository) RecordRun(run *domain.SyncRun) error {
	if run.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return fmt.Errorf("failed to generate sync run ID: %w", err)
		}
		run.ID = id
	}

	sqlQuery, args, err := squirrel.StatementBuilder.
		Insert(syncRunsTable).
		Columns(
			"id", "platform", "started_at", "completed_at",
			"stores_total", "stores_synced",
			"customers_synced", "products_synced", "orders_synced",
			"error",
		).
		Values(
			run.ID,
			run.Platform,
			run.StartedAt,
			run.CompletedAt,
			run.StoresTotal,
			run.StoresSynced,
			run.CustomersSynced,
			run.ProductsSynced,
			run.OrdersSynced,
			run.Error,
		).
		Suffix(`
			ON CONFLICT (id) DO UPDATE SET
				completed_at = EXCLUDED.completed_at,
				stores_total = EXCLUDED.stores_total,
				stores_synced = EXCLUDED.stores_synced,
				customers_synced = EXCLUDED.customers_synced,
				products_synced = EXCLUDED.products_synced,
				orders_synced = EXCLUDED.orders_synced,
				error = EXCLUDED.error
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
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

func (r *syncStateRepository) ListRuns(platform domain.Platform, limit int) ([]*domain.SyncRun, error) {
	queryBuilder := squirrel.
		Select(
			"id", "platform", "started_at", "completed_at",
			"stores_total", "stores_synced",
			"customers_synced", "products_synced", "orders_synced",
			"error",
		).
		From(syncRunsTable).
		OrderBy("started_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if platform != "" {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"platform": platform})
	}
	if limit > 0 {
		queryBuilder = queryBuilder.Limit(uint64(limit))
	}

	runsSQL, runsArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	return r.queryRuns(runsSQL, runsArgs...)
}

// LatestRuns returns the most recent run per platform
func (r *syncStateRepository) LatestRuns() ([]*domain.SyncRun, error) {
	query := `
		SELECT DISTINCT ON (platform)
			id, platform, started_at, completed_at,
			stores_total, stores_synced,
			customers_synced, products_synced, orders_synced,
			error
		FROM sync_runs
		ORDER BY platform, started_at DESC
	`

	return r.queryRuns(query)
}

func (r *syncStateRepository) queryRuns(query string, args ...interface{}) ([]*domain.SyncRun, error) {
	rows, err := r.conn.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query sync runs: %w", err)
	}
	defer rows.Close()

	runs := make([]*domain.SyncRun, 0)
	for rows.Next() {
		run := &domain.SyncRun{}
		if err := rows.Scan(
			&run.ID,
			&run.Platform,
			&run.StartedAt,
			&run.CompletedAt,
			&run.StoresTotal,
			&run.StoresSynced,
			&run.CustomersSynced,
			&run.ProductsSynced,
			&run.OrdersSynced,
			&run.Error,
		); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}
