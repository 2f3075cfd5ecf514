package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/okra/internal/db"
	"github.com/alexanderramin/okra/internal/domain"
)

// SQLiteKeyResultRepo implements KeyResultRepo using a SQLite database.
type SQLiteKeyResultRepo struct {
	db db.DBTX
}

// NewSQLiteKeyResultRepo creates a new SQLiteKeyResultRepo.
func NewSQLiteKeyResultRepo(db db.DBTX) *SQLiteKeyResultRepo {
	return &SQLiteKeyResultRepo{db: db}
}

const keyResultColumns = `id, objective_id, title, order_index, ` + measureColumns + `, created_at, updated_at`

func (r *SQLiteKeyResultRepo) Create(ctx context.Context, kr *domain.KeyResult) error {
	query := `INSERT INTO key_results (` + keyResultColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	args := []any{kr.ID, kr.ObjectiveID, kr.Title, kr.OrderIndex}
	args = append(args, measureArgs(&kr.Measure)...)
	args = append(args, kr.CreatedAt.Format(time.RFC3339), kr.UpdatedAt.Format(time.RFC3339))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting key result: %w", err)
	}
	return nil
}

func (r *SQLiteKeyResultRepo) GetByID(ctx context.Context, id string) (*domain.KeyResult, error) {
	query := `SELECT ` + keyResultColumns + ` FROM key_results WHERE id = ?`
	kr, err := scanKeyResult(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound("key result", err)
	}
	return kr, nil
}

func (r *SQLiteKeyResultRepo) List(ctx context.Context) ([]*domain.KeyResult, error) {
	query := `SELECT ` + keyResultColumns + ` FROM key_results ORDER BY objective_id, order_index, created_at`
	return r.query(ctx, "listing key results", query)
}

func (r *SQLiteKeyResultRepo) ListByObjective(ctx context.Context, objectiveID string) ([]*domain.KeyResult, error) {
	query := `SELECT ` + keyResultColumns + ` FROM key_results WHERE objective_id = ? ORDER BY order_index, created_at`
	return r.query(ctx, "listing key results by objective", query, objectiveID)
}

func (r *SQLiteKeyResultRepo) Update(ctx context.Context, kr *domain.KeyResult) error {
	query := `UPDATE key_results SET title = ?, order_index = ?, metric_type = ?, unit = ?, base_value = ?,
		current_value = ?, target_value = ?, last_check_in_at = ?, updated_at = ?
		WHERE id = ?`
	args := []any{kr.Title, kr.OrderIndex}
	args = append(args, measureArgs(&kr.Measure)...)
	args = append(args, kr.UpdatedAt.Format(time.RFC3339), kr.ID)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating key result: %w", err)
	}
	return requireAffected(res, "key result")
}

func (r *SQLiteKeyResultRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM key_results WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting key result: %w", err)
	}
	return requireAffected(res, "key result")
}

func (r *SQLiteKeyResultRepo) query(ctx context.Context, op, query string, args ...any) ([]*domain.KeyResult, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []*domain.KeyResult
	for rows.Next() {
		kr, err := scanKeyResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning key result row: %w", err)
		}
		out = append(out, kr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating key results: %w", err)
	}
	return out, nil
}

func scanKeyResult(s scanner) (*domain.KeyResult, error) {
	var kr domain.KeyResult
	var m measureDest
	var createdAtStr, updatedAtStr string

	dest := []any{&kr.ID, &kr.ObjectiveID, &kr.Title, &kr.OrderIndex}
	dest = append(dest, m.targets()...)
	dest = append(dest, &createdAtStr, &updatedAtStr)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}

	kr.Measure = m.measure()
	var err error
	kr.CreatedAt, kr.UpdatedAt, err = parseTimestamps(createdAtStr, updatedAtStr)
	if err != nil {
		return nil, err
	}
	return &kr, nil
}
