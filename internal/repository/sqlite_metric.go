package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/okra/internal/db"
	"github.com/alexanderramin/okra/internal/domain"
)

// SQLiteSuccessMetricRepo implements SuccessMetricRepo using a SQLite database.
type SQLiteSuccessMetricRepo struct {
	db db.DBTX
}

// NewSQLiteSuccessMetricRepo creates a new SQLiteSuccessMetricRepo.
func NewSQLiteSuccessMetricRepo(db db.DBTX) *SQLiteSuccessMetricRepo {
	return &SQLiteSuccessMetricRepo{db: db}
}

const metricColumns = `id, initiative_id, title, ` + measureColumns + `, created_at, updated_at`

func (r *SQLiteSuccessMetricRepo) Create(ctx context.Context, m *domain.SuccessMetric) error {
	query := `INSERT INTO success_metrics (` + metricColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	args := []any{m.ID, m.InitiativeID, m.Title}
	args = append(args, measureArgs(&m.Measure)...)
	args = append(args, m.CreatedAt.Format(time.RFC3339), m.UpdatedAt.Format(time.RFC3339))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting success metric: %w", err)
	}
	return nil
}

func (r *SQLiteSuccessMetricRepo) GetByID(ctx context.Context, id string) (*domain.SuccessMetric, error) {
	query := `SELECT ` + metricColumns + ` FROM success_metrics WHERE id = ?`
	m, err := scanMetric(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound("success metric", err)
	}
	return m, nil
}

func (r *SQLiteSuccessMetricRepo) ListByInitiative(ctx context.Context, initiativeID string) ([]*domain.SuccessMetric, error) {
	query := `SELECT ` + metricColumns + ` FROM success_metrics WHERE initiative_id = ? ORDER BY created_at, rowid`
	rows, err := r.db.QueryContext(ctx, query, initiativeID)
	if err != nil {
		return nil, fmt.Errorf("listing success metrics: %w", err)
	}
	defer rows.Close()

	var out []*domain.SuccessMetric
	for rows.Next() {
		m, err := scanMetric(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning success metric row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating success metrics: %w", err)
	}
	return out, nil
}

func (r *SQLiteSuccessMetricRepo) Update(ctx context.Context, m *domain.SuccessMetric) error {
	query := `UPDATE success_metrics SET title = ?, metric_type = ?, unit = ?, base_value = ?,
		current_value = ?, target_value = ?, last_check_in_at = ?, updated_at = ?
		WHERE id = ?`
	args := []any{m.Title}
	args = append(args, measureArgs(&m.Measure)...)
	args = append(args, m.UpdatedAt.Format(time.RFC3339), m.ID)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating success metric: %w", err)
	}
	return requireAffected(res, "success metric")
}

func (r *SQLiteSuccessMetricRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM success_metrics WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting success metric: %w", err)
	}
	return requireAffected(res, "success metric")
}

func scanMetric(s scanner) (*domain.SuccessMetric, error) {
	var sm domain.SuccessMetric
	var m measureDest
	var createdAtStr, updatedAtStr string

	dest := []any{&sm.ID, &sm.InitiativeID, &sm.Title}
	dest = append(dest, m.targets()...)
	dest = append(dest, &createdAtStr, &updatedAtStr)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}

	sm.Measure = m.measure()
	var err error
	sm.CreatedAt, sm.UpdatedAt, err = parseTimestamps(createdAtStr, updatedAtStr)
	if err != nil {
		return nil, err
	}
	return &sm, nil
}
