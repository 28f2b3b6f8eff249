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

const segmentProfilesTable = "customer_segments"

type SegmentRepository interface {
	SaveOrUpdate(profiles []*domain.SegmentProfile) error
	ListProfiles(segment string, platform domain.Platform, limit int) ([]*domain.SegmentProfile, error)
	GetProfileByCustomerID(customerID string) (*domain.SegmentProfile, error)
	ListSummaries(platform domain.Platform) ([]*domain.SegmentSummary, error)
	ListSegmentDetails() ([]*domain.SegmentDetail, error)
}

type segmentRepository struct {
	conn *postgres.Connection
}

func NewSegmentRepository(conn *postgres.Connection) SegmentRepository {
	return &segmentRepository{
		conn: conn,
	}
}

// SaveOrUpdate replaces the stored segmentation for each customer. A customer
// carries exactly one current profile, keyed by customer_id.
func (r *segmentRepository) SaveOrUpdate(profiles []*domain.SegmentProfile) error {
	if len(profiles) == 0 {
		return nil
	}

	query := squirrel.StatementBuilder.
		Insert(segmentProfilesTable).
		Columns(
			"id", "customer_id", "recency_score", "frequency_score", "monetary_score",
			"rfm_score", "recency_days", "frequency_count", "monetary_value",
			"segment", "segment_priority", "churn_risk_score", "segment_confidence",
			"avg_order_value", "recommended_actions", "calculated_at",
		).
		PlaceholderFormat(squirrel.Dollar)

	for _, profile := range profiles {
		if profile.ID == "" {
			id, err := utils.GenerateID()
			if err != nil {
				return fmt.Errorf("failed to generate segment ID: %w", err)
			}
			profile.ID = id
		}

		query = query.Values(
			profile.ID,
			profile.CustomerID,
			profile.RecencyScore,
			profile.FrequencyScore,
			profile.MonetaryScore,
			profile.RFMScore,
			profile.RecencyDays,
			profile.FrequencyCount,
			profile.MonetaryValue,
			profile.Segment,
			profile.SegmentPriority,
			profile.ChurnRiskScore,
			profile.SegmentConfidence,
			profile.AvgOrderValue,
			pq.Array(profile.RecommendedActions),
			profile.CalculatedAt,
		)
	}

	query = query.Suffix(`
			ON CONFLICT (customer_id) DO UPDATE SET
				recency_score = EXCLUDED.recency_score,
				frequency_score = EXCLUDED.frequency_score,
				monetary_score = EXCLUDED.monetary_score,
				rfm_score = EXCLUDED.rfm_score,
				recency_days = EXCLUDED.recency_days,
				frequency_count = EXCLUDED.frequency_count,
				monetary_value = EXCLUDED.monetary_value,
				segment = EXCLUDED.segment,
				segment_priority = EXCLUDED.segment_priority,
				churn_risk_score = EXCLUDED.churn_risk_score,
				segment_confidence = EXCLUDED.segment_confidence,
				avg_order_value = EXCLUDED.avg_order_value,
				recommended_actions = EXCLUDED.recommended_actions,
				calculated_at = EXCLUDED.calculated_at
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

func (r *segmentRepository) ListProfiles(segment string, platform domain.Platform, limit int) ([]*domain.SegmentProfile, error) {
	queryBuilder := squirrel.
		Select(
			"s.id", "s.customer_id", "c.external_id", "c.platform", "COALESCE(c.email, '')",
			"s.recency_score", "s.frequency_score", "s.monetary_score", "s.rfm_score",
			"s.recency_days", "s.frequency_count", "s.monetary_value",
			"s.segment", "s.segment_priority", "s.churn_risk_score", "s.segment_confidence",
			"s.avg_order_value", "s.recommended_actions", "s.calculated_at",
		).
		From(segmentProfilesTable + " s").
		Join("customers c ON c.id = s.customer_id").
		OrderBy("s.segment_priority ASC", "s.monetary_value DESC").
		PlaceholderFormat(squirrel.Dollar)

	if segment != "" {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"s.segment": segment})
	}
	if platform != "" {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"c.platform": platform})
	}
	if limit > 0 {
		queryBuilder = queryBuilder.Limit(uint64(limit))
	}

	profilesSQL, profilesArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(profilesSQL, profilesArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	profiles := make([]*domain.SegmentProfile, 0)
	for rows.Next() {
		profile := &domain.SegmentProfile{}
		if err := rows.Scan(
			&profile.ID,
			&profile.CustomerID,
			&profile.ExternalID,
			&profile.Platform,
			&profile.Email,
			&profile.RecencyScore,
			&profile.FrequencyScore,
			&profile.MonetaryScore,
			&profile.RFMScore,
			&profile.RecencyDays,
			&profile.FrequencyCount,
			&profile.MonetaryValue,
			&profile.Segment,
			&profile.SegmentPriority,
			&profile.ChurnRiskScore,
			&profile.SegmentConfidence,
			&profile.AvgOrderValue,
			pq.Array(&profile.RecommendedActions),
			&profile.CalculatedAt,
		); err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *segmentRepository) GetProfileByCustomerID(customerID string) (*domain.SegmentProfile, error) {
	profilesSQL, profilesArgs, err := squirrel.
		Select(
			"s.id", "s.customer_id", "c.external_id", "c.platform", "COALESCE(c.email, '')",
			"s.recency_score", "s.frequency_score", "s.monetary_score", "s.rfm_score",
			"s.recency_days", "s.frequency_count", "s.monetary_value",
			"s.segment", "s.segment_priority", "s.churn_risk_score", "s.segment_confidence",
			"s.avg_order_value", "s.recommended_actions", "s.calculated_at",
		).
		From(segmentProfilesTable + " s").
		Join("customers c ON c.id = s.customer_id").
		Where(squirrel.Eq{"s.customer_id": customerID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	profile := &domain.SegmentProfile{}
	err = r.conn.QueryRow(profilesSQL, profilesArgs...).Scan(
		&profile.ID,
		&profile.CustomerID,
		&profile.ExternalID,
		&profile.Platform,
		&profile.Email,
		&profile.RecencyScore,
		&profile.FrequencyScore,
		&profile.MonetaryScore,
		&profile.RFMScore,
		&profile.RecencyDays,
		&profile.FrequencyCount,
		&profile.MonetaryValue,
		&profile.Segment,
		&profile.SegmentPriority,
		&profile.ChurnRiskScore,
		&profile.SegmentConfidence,
		&profile.AvgOrderValue,
		pq.Array(&profile.RecommendedActions),
		&profile.CalculatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return profile, nil
}

func (r *segmentRepository) ListSummaries(platform domain.Platform) ([]*domain.SegmentSummary, error) {
	query := `
		SELECT
			s.segment,
			COUNT(s.id) AS customer_count,
			COALESCE(AVG(c.total_spent), 0) AS avg_total_spent,
			COALESCE(AVG(c.orders_count), 0) AS avg_order_count,
			COALESCE(AVG(s.avg_order_value), 0) AS avg_order_value,
			COALESCE(AVG(s.churn_risk_score), 0) AS avg_churn_risk,
			MIN(s.segment_priority) AS segment_priority
		FROM customer_segments s
		JOIN customers c ON c.id = s.customer_id
	`

	args := make([]interface{}, 0, 1)
	if platform != "" {
		query += " WHERE c.platform = $1"
		args = append(args, platform)
	}

	query += `
		GROUP BY s.segment
		ORDER BY segment_priority ASC
	`

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query segment summaries: %w", err)
	}
	defer rows.Close()

	summaries := make([]*domain.SegmentSummary, 0)
	for rows.Next() {
		summary := &domain.SegmentSummary{Platform: platform}
		if err := rows.Scan(
			&summary.Segment,
			&summary.CustomerCount,
			&summary.AvgTotalSpent,
			&summary.AvgOrderCount,
			&summary.AvgOrderValue,
			&summary.AvgChurnRisk,
			&summary.SegmentPriority,
		); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}

// ListSegmentDetails joins each segment with the top products its customers
// buy, split by platform.
func (r *segmentRepository) ListSegmentDetails() ([]*domain.SegmentDetail, error) {
	query := `
		SELECT
			s.segment,
			c.platform,
			COUNT(DISTINCT c.id) AS customer_count,
			COALESCE(AVG(c.total_spent), 0) AS avg_total_spent,
			COALESCE(AVG(c.orders_count), 0) AS avg_order_count,
			COALESCE(AVG(NULLIF(c.average_order_value, 0)), 0) AS avg_order_value,
			STRING_AGG(DISTINCT oi.product_name, ', ') AS top_products
		FROM customer_segments s
		JOIN customers c ON c.id = s.customer_id
		LEFT JOIN orders o ON o.customer_id = c.id AND o.status NOT IN ('cancelled', 'refunded')
		LEFT JOIN order_items oi ON oi.order_id = o.id
		GROUP BY s.segment, c.platform
		ORDER BY avg_total_spent DESC
	`

	rows, err := r.conn.Query(query)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query segment details: %w", err)
	}
	defer rows.Close()

	details := make([]*domain.SegmentDetail, 0)
	for rows.Next() {
		detail := &domain.SegmentDetail{}
		if err := rows.Scan(
			&detail.Segment,
			&detail.Platform,
			&detail.CustomerCount,
			&detail.AvgTotalSpent,
			&detail.AvgOrderCount,
			&detail.AvgOrderValue,
			&detail.TopProducts,
		); err != nil {
			return nil, err
		}
		details = append(details, detail)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return details, nil
}
