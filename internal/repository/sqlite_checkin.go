package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/okra/internal/db"
	"github.com/alexanderramin/okra/internal/domain"
)

// SQLiteCheckInRepo implements CheckInRepo using a SQLite database.
type SQLiteCheckInRepo struct {
	db db.DBTX
}

// NewSQLiteCheckInRepo creates a new SQLiteCheckInRepo.
func NewSQLiteCheckInRepo(db db.DBTX) *SQLiteCheckInRepo {
	return &SQLiteCheckInRepo{db: db}
}

const checkInColumns = `id, subject_kind, subject_id, previous_value, value, note, source, created_at`

func (r *SQLiteCheckInRepo) Create(ctx context.Context, c *domain.CheckIn) error {
	query := `INSERT INTO check_ins (` + checkInColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		string(c.SubjectKind),
		c.SubjectID,
		nullableFloat(c.PreviousValue),
		c.Value,
		c.Note,
		domain.CoalesceStr(c.Source, "cli"),
		c.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting check-in: %w", err)
	}
	return nil
}

func (r *SQLiteCheckInRepo) ListBySubject(ctx context.Context, kind domain.CheckInSubject, subjectID string, limit int) ([]*domain.CheckIn, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT ` + checkInColumns + ` FROM check_ins
		WHERE subject_kind = ? AND subject_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, string(kind), subjectID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing check-ins by subject: %w", err)
	}
	defer rows.Close()
	return scanCheckIns(rows)
}

func (r *SQLiteCheckInRepo) ListRecent(ctx context.Context, days int) ([]*domain.CheckIn, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days).Format(time.RFC3339)
	query := `SELECT ` + checkInColumns + ` FROM check_ins
		WHERE created_at >= ?
		ORDER BY created_at DESC, rowid DESC`
	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("listing recent check-ins: %w", err)
	}
	defer rows.Close()
	return scanCheckIns(rows)
}

func (r *SQLiteCheckInRepo) CountBySubject(ctx context.Context, kind domain.CheckInSubject, subjectID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM check_ins WHERE subject_kind = ? AND subject_id = ?`,
		string(kind), subjectID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting check-ins: %w", err)
	}
	return n, nil
}

func (r *SQLiteCheckInRepo) PruneOrphans(ctx context.Context) (int64, error) {
	query := `DELETE FROM check_ins WHERE
		(subject_kind = 'key_result' AND subject_id NOT IN (SELECT id FROM key_results))
		OR (subject_kind = 'success_metric' AND subject_id NOT IN (SELECT id FROM success_metrics))`
	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("pruning orphaned check-ins: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking affected rows: %w", err)
	}
	return n, nil
}

func scanCheckIns(rows *sql.Rows) ([]*domain.CheckIn, error) {
	var out []*domain.CheckIn
	for rows.Next() {
		var c domain.CheckIn
		var kind, createdAtStr string
		var prev sql.NullFloat64
		if err := rows.Scan(&c.ID, &kind, &c.SubjectID, &prev, &c.Value, &c.Note, &c.Source, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning check-in row: %w", err)
		}
		c.SubjectKind = domain.CheckInSubject(kind)
		c.PreviousValue = floatPtr(prev)
		created, err := time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		c.CreatedAt = created
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating check-ins: %w", err)
	}
	return out, nil
}
