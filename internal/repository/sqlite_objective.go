package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/okra/internal/db"
	"github.com/alexanderramin/okra/internal/domain"
)

// SQLiteObjectiveRepo implements ObjectiveRepo using a SQLite database.
type SQLiteObjectiveRepo struct {
	db db.DBTX
}

// NewSQLiteObjectiveRepo creates a new SQLiteObjectiveRepo.
func NewSQLiteObjectiveRepo(db db.DBTX) *SQLiteObjectiveRepo {
	return &SQLiteObjectiveRepo{db: db}
}

const objectiveColumns = `id, short_id, parent_id, title, description, owner, period, status,
	start_date, target_date, archived_at, created_at, updated_at`

func (r *SQLiteObjectiveRepo) Create(ctx context.Context, o *domain.Objective) error {
	query := `INSERT INTO objectives (` + objectiveColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		o.ID,
		o.ShortID,
		o.ParentID,
		o.Title,
		o.Description,
		o.Owner,
		o.Period,
		string(o.Status),
		o.StartDate.Format(dateLayout),
		nullableTimeToString(o.TargetDate, dateLayout),
		nullableTimeToString(o.ArchivedAt, time.RFC3339),
		o.CreatedAt.Format(time.RFC3339),
		o.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting objective: %w", err)
	}
	return nil
}

func (r *SQLiteObjectiveRepo) GetByID(ctx context.Context, id string) (*domain.Objective, error) {
	query := `SELECT ` + objectiveColumns + ` FROM objectives WHERE id = ?`
	o, err := scanObjective(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound("objective", err)
	}
	return o, nil
}

func (r *SQLiteObjectiveRepo) GetByShortID(ctx context.Context, shortID string) (*domain.Objective, error) {
	query := `SELECT ` + objectiveColumns + ` FROM objectives WHERE short_id != '' AND UPPER(short_id) = UPPER(?)`
	o, err := scanObjective(r.db.QueryRowContext(ctx, query, shortID))
	if err != nil {
		return nil, notFound("objective", err)
	}
	return o, nil
}

func (r *SQLiteObjectiveRepo) List(ctx context.Context, includeArchived bool) ([]*domain.Objective, error) {
	query := `SELECT ` + objectiveColumns + ` FROM objectives`
	if !includeArchived {
		query += ` WHERE archived_at IS NULL`
	}
	query += ` ORDER BY created_at, short_id`
	return r.query(ctx, "listing objectives", query)
}

func (r *SQLiteObjectiveRepo) ListChildren(ctx context.Context, parentID string) ([]*domain.Objective, error) {
	query := `SELECT ` + objectiveColumns + ` FROM objectives WHERE parent_id = ? ORDER BY created_at, short_id`
	return r.query(ctx, "listing child objectives", query, parentID)
}

func (r *SQLiteObjectiveRepo) Update(ctx context.Context, o *domain.Objective) error {
	query := `UPDATE objectives SET short_id = ?, parent_id = ?, title = ?, description = ?, owner = ?,
		period = ?, status = ?, start_date = ?, target_date = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		o.ShortID,
		o.ParentID,
		o.Title,
		o.Description,
		o.Owner,
		o.Period,
		string(o.Status),
		o.StartDate.Format(dateLayout),
		nullableTimeToString(o.TargetDate, dateLayout),
		o.UpdatedAt.Format(time.RFC3339),
		o.ID,
	)
	if err != nil {
		return fmt.Errorf("updating objective: %w", err)
	}
	return requireAffected(res, "objective")
}

func (r *SQLiteObjectiveRepo) Archive(ctx context.Context, id string) error {
	now := nowUTC()
	query := `UPDATE objectives SET status = 'archived', archived_at = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, now, now, id)
	if err != nil {
		return fmt.Errorf("archiving objective: %w", err)
	}
	return requireAffected(res, "objective")
}

func (r *SQLiteObjectiveRepo) Unarchive(ctx context.Context, id string) error {
	query := `UPDATE objectives SET status = 'active', archived_at = NULL, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("unarchiving objective: %w", err)
	}
	return requireAffected(res, "objective")
}

// Delete removes the objective. Child objectives and everything beneath
// them go with it via ON DELETE CASCADE.
func (r *SQLiteObjectiveRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM objectives WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting objective: %w", err)
	}
	return requireAffected(res, "objective")
}

func (r *SQLiteObjectiveRepo) query(ctx context.Context, op, query string, args ...any) ([]*domain.Objective, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var objectives []*domain.Objective
	for rows.Next() {
		o, err := scanObjective(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning objective row: %w", err)
		}
		objectives = append(objectives, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating objectives: %w", err)
	}
	return objectives, nil
}

func scanObjective(s scanner) (*domain.Objective, error) {
	var o domain.Objective
	var parentID, targetDateStr, archivedAtStr sql.NullString
	var statusStr, startDateStr, createdAtStr, updatedAtStr string

	err := s.Scan(
		&o.ID, &o.ShortID, &parentID, &o.Title, &o.Description, &o.Owner, &o.Period, &statusStr,
		&startDateStr, &targetDateStr, &archivedAtStr, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	o.Status = domain.ObjectiveStatus(statusStr)
	if parentID.Valid {
		o.ParentID = &parentID.String
	}

	var parseErr error
	o.StartDate, parseErr = time.Parse(dateLayout, startDateStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing start_date: %w", parseErr)
	}
	o.CreatedAt, o.UpdatedAt, parseErr = parseTimestamps(createdAtStr, updatedAtStr)
	if parseErr != nil {
		return nil, parseErr
	}
	o.TargetDate = parseNullableTime(targetDateStr, dateLayout)
	o.ArchivedAt = parseNullableTime(archivedAtStr, time.RFC3339)

	return &o, nil
}
