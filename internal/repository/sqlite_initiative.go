package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/okra/internal/db"
	"github.com/alexanderramin/okra/internal/domain"
)

// SQLiteInitiativeRepo implements InitiativeRepo using a SQLite database.
type SQLiteInitiativeRepo struct {
	db db.DBTX
}

// NewSQLiteInitiativeRepo creates a new SQLiteInitiativeRepo.
func NewSQLiteInitiativeRepo(db db.DBTX) *SQLiteInitiativeRepo {
	return &SQLiteInitiativeRepo{db: db}
}

const initiativeColumns = `id, key_result_id, title, description, status, due_date, created_at, updated_at`

func (r *SQLiteInitiativeRepo) Create(ctx context.Context, i *domain.Initiative) error {
	query := `INSERT INTO initiatives (` + initiativeColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		i.ID,
		i.KeyResultID,
		i.Title,
		i.Description,
		string(i.Status),
		nullableTimeToString(i.DueDate, dateLayout),
		i.CreatedAt.Format(time.RFC3339),
		i.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting initiative: %w", err)
	}
	return nil
}

func (r *SQLiteInitiativeRepo) GetByID(ctx context.Context, id string) (*domain.Initiative, error) {
	query := `SELECT ` + initiativeColumns + ` FROM initiatives WHERE id = ?`
	i, err := scanInitiative(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound("initiative", err)
	}
	return i, nil
}

func (r *SQLiteInitiativeRepo) ListByKeyResult(ctx context.Context, keyResultID string) ([]*domain.Initiative, error) {
	query := `SELECT ` + initiativeColumns + ` FROM initiatives WHERE key_result_id = ? ORDER BY created_at, rowid`
	rows, err := r.db.QueryContext(ctx, query, keyResultID)
	if err != nil {
		return nil, fmt.Errorf("listing initiatives: %w", err)
	}
	defer rows.Close()

	var out []*domain.Initiative
	for rows.Next() {
		i, err := scanInitiative(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning initiative row: %w", err)
		}
		out = append(out, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating initiatives: %w", err)
	}
	return out, nil
}

func (r *SQLiteInitiativeRepo) Update(ctx context.Context, i *domain.Initiative) error {
	query := `UPDATE initiatives SET title = ?, description = ?, status = ?, due_date = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		i.Title,
		i.Description,
		string(i.Status),
		nullableTimeToString(i.DueDate, dateLayout),
		i.UpdatedAt.Format(time.RFC3339),
		i.ID,
	)
	if err != nil {
		return fmt.Errorf("updating initiative: %w", err)
	}
	return requireAffected(res, "initiative")
}

func (r *SQLiteInitiativeRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM initiatives WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting initiative: %w", err)
	}
	return requireAffected(res, "initiative")
}

func scanInitiative(s scanner) (*domain.Initiative, error) {
	var i domain.Initiative
	var statusStr, createdAtStr, updatedAtStr string
	var dueDateStr sql.NullString

	err := s.Scan(&i.ID, &i.KeyResultID, &i.Title, &i.Description, &statusStr, &dueDateStr, &createdAtStr, &updatedAtStr)
	if err != nil {
		return nil, err
	}
	i.Status = domain.InitiativeStatus(statusStr)
	i.DueDate = parseNullableTime(dueDateStr, dateLayout)
	i.CreatedAt, i.UpdatedAt, err = parseTimestamps(createdAtStr, updatedAtStr)
	if err != nil {
		return nil, err
	}
	return &i, nil
}
