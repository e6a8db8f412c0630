package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"spesen/internal/domain"
	"spesen/internal/port"
)

type statsRepo struct {
	db *sqlx.DB
}

// NewStatsRepo creates a new PostgreSQL-backed StatsRepository.
func NewStatsRepo(db *sqlx.DB) port.StatsRepository {
	return &statsRepo{db: db}
}

const receiptStatsQuery = `SELECT
	COUNT(*) AS total_receipts,
	COUNT(CASE WHEN parsing_status = 'success' THEN 1 END) AS parsing_success,
	COUNT(CASE WHEN parsing_status = 'partial' THEN 1 END) AS parsing_partial,
	COUNT(CASE WHEN parsing_status = 'manual' THEN 1 END) AS parsing_manual,
	COUNT(CASE WHEN parsing_status = 'failed' THEN 1 END) AS parsing_failed,
	COUNT(CASE WHEN parsing_status IN ('manual', 'failed') AND NOT verified THEN 1 END) AS needs_review,
	COUNT(CASE WHEN verified THEN 1 END) AS verified,
	COALESCE(SUM(amount), 0) AS total_amount,
	COALESCE(SUM(CASE WHEN category = 'lodging' THEN amount END), 0) AS lodging_amount,
	COALESCE(SUM(CASE WHEN category = 'transport' THEN amount END), 0) AS transport_amount,
	COALESCE(SUM(CASE WHEN category = 'meals' THEN amount END), 0) AS meals_amount,
	COALESCE(SUM(CASE WHEN category = 'entertainment' THEN amount END), 0) AS entertainment_amount,
	COALESCE(SUM(CASE WHEN category = 'other' THEN amount END), 0) AS other_amount
FROM receipts`

func (r *statsRepo) Overview(ctx context.Context) (*domain.StatsOverview, error) {
	var stats domain.StatsOverview
	if err := r.db.GetContext(ctx, &stats, receiptStatsQuery); err != nil {
		return nil, fmt.Errorf("statsRepo.Overview receipts: %w", err)
	}

	var travelCount int
	if err := r.db.GetContext(ctx, &travelCount, "SELECT COUNT(*) FROM travels"); err != nil {
		return nil, fmt.Errorf("statsRepo.Overview travels: %w", err)
	}
	stats.TotalTravels = travelCount

	return &stats, nil
}
