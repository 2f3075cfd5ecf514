package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent and re-run
// on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS objectives (
		id          TEXT PRIMARY KEY,
		short_id    TEXT NOT NULL DEFAULT '',
		parent_id   TEXT REFERENCES objectives(id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		owner       TEXT NOT NULL DEFAULT '',
		period      TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'active'
		            CHECK(status IN ('active','paused','done','archived')),
		start_date  TEXT NOT NULL,
		target_date TEXT,
		archived_at TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_objectives_short_id ON objectives(short_id) WHERE short_id != ''`,
	`CREATE INDEX IF NOT EXISTS idx_objectives_parent ON objectives(parent_id)`,
	`CREATE TABLE IF NOT EXISTS key_results (
		id               TEXT PRIMARY KEY,
		objective_id     TEXT NOT NULL REFERENCES objectives(id) ON DELETE CASCADE,
		title            TEXT NOT NULL,
		metric_type      TEXT NOT NULL,
		unit             TEXT NOT NULL DEFAULT 'number'
		                 CHECK(unit IN ('number','percentage','currency')),
		base_value       REAL,
		current_value    REAL,
		target_value     REAL NOT NULL,
		order_index      INTEGER NOT NULL DEFAULT 0,
		last_check_in_at TEXT,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_key_results_objective ON key_results(objective_id)`,
	`CREATE TABLE IF NOT EXISTS initiatives (
		id            TEXT PRIMARY KEY,
		key_result_id TEXT NOT NULL REFERENCES key_results(id) ON DELETE CASCADE,
		title         TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		status        TEXT NOT NULL DEFAULT 'planned'
		              CHECK(status IN ('planned','in_progress','done','cancelled')),
		due_date      TEXT,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_initiatives_key_result ON initiatives(key_result_id)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id            TEXT PRIMARY KEY,
		initiative_id TEXT NOT NULL REFERENCES initiatives(id) ON DELETE CASCADE,
		title         TEXT NOT NULL,
		done          INTEGER NOT NULL DEFAULT 0,
		completed_at  TEXT,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_initiative ON tasks(initiative_id)`,
	`CREATE TABLE IF NOT EXISTS success_metrics (
		id               TEXT PRIMARY KEY,
		initiative_id    TEXT NOT NULL REFERENCES initiatives(id) ON DELETE CASCADE,
		title            TEXT NOT NULL,
		metric_type      TEXT NOT NULL,
		unit             TEXT NOT NULL DEFAULT 'number'
		                 CHECK(unit IN ('number','percentage','currency')),
		base_value       REAL,
		current_value    REAL,
		target_value     REAL NOT NULL,
		last_check_in_at TEXT,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_success_metrics_initiative ON success_metrics(initiative_id)`,
	// Check-ins reference either a key result or a success metric, so the
	// subject has no foreign key; repositories delete them with their subject.
	`CREATE TABLE IF NOT EXISTS check_ins (
		id             TEXT PRIMARY KEY,
		subject_kind   TEXT NOT NULL CHECK(subject_kind IN ('key_result','success_metric')),
		subject_id     TEXT NOT NULL,
		previous_value REAL,
		value          REAL NOT NULL,
		note           TEXT NOT NULL DEFAULT '',
		created_at     TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_check_ins_subject ON check_ins(subject_kind, subject_id)`,
	`CREATE INDEX IF NOT EXISTS idx_check_ins_created ON check_ins(created_at)`,
	// Record which surface (cli, api, mcp, import) produced a check-in.
	`ALTER TABLE check_ins ADD COLUMN source TEXT NOT NULL DEFAULT 'cli'`,
}
