package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/okra/internal/db"
)

// ErrAmbiguous is returned when an ID prefix matches more than one row.
var ErrAmbiguous = errors.New("ambiguous id prefix")

// minPrefixLen keeps lookups from matching half the table.
const minPrefixLen = 4

// resolveIDPrefix returns the full id in table that equals or starts with
// prefix. table is always a package constant, never user input.
func resolveIDPrefix(ctx context.Context, q db.DBTX, table, entity, prefix string) (string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", fmt.Errorf("%s: %w", entity, ErrNotFound)
	}

	var id string
	err := q.QueryRowContext(ctx, `SELECT id FROM `+table+` WHERE id = ?`, prefix).Scan(&id)
	if err == nil {
		return id, nil
	}
	if len(prefix) < minPrefixLen {
		return "", fmt.Errorf("%s %q: %w", entity, prefix, ErrNotFound)
	}

	rows, err := q.QueryContext(ctx, `SELECT id FROM `+table+` WHERE id LIKE ? || '%' LIMIT 2`, prefix)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", entity, err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("resolving %s: %w", entity, err)
		}
		matches = append(matches, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolving %s: %w", entity, err)
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s %q: %w", entity, prefix, ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s %q: %w", entity, prefix, ErrAmbiguous)
	}
}

func (r *SQLiteObjectiveRepo) ResolveID(ctx context.Context, prefix string) (string, error) {
	return resolveIDPrefix(ctx, r.db, "objectives", "objective", prefix)
}

func (r *SQLiteKeyResultRepo) ResolveID(ctx context.Context, prefix string) (string, error) {
	return resolveIDPrefix(ctx, r.db, "key_results", "key result", prefix)
}

func (r *SQLiteInitiativeRepo) ResolveID(ctx context.Context, prefix string) (string, error) {
	return resolveIDPrefix(ctx, r.db, "initiatives", "initiative", prefix)
}

func (r *SQLiteTaskRepo) ResolveID(ctx context.Context, prefix string) (string, error) {
	return resolveIDPrefix(ctx, r.db, "tasks", "task", prefix)
}

func (r *SQLiteSuccessMetricRepo) ResolveID(ctx context.Context, prefix string) (string, error) {
	return resolveIDPrefix(ctx, r.db, "success_metrics", "success metric", prefix)
}
