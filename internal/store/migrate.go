package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Statements are idempotent and run on every Open.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		skill      TEXT NOT NULL,
		id         TEXT NOT NULL,
		body       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE (skill, id)
	)`,
	`CREATE TABLE IF NOT EXISTS skill_concepts (
		skill      TEXT PRIMARY KEY,
		body       TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS learners (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL,
		skill           TEXT NOT NULL,
		current_project TEXT NOT NULL DEFAULT '',
		project_started INTEGER NOT NULL DEFAULT 0,
		created_at      TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS learner_concepts (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		learner_id TEXT NOT NULL REFERENCES learners(id) ON DELETE CASCADE,
		concept    TEXT NOT NULL,
		category   TEXT NOT NULL DEFAULT '',
		UNIQUE (learner_id, concept)
	)`,
	`CREATE TABLE IF NOT EXISTS completed_projects (
		seq           INTEGER PRIMARY KEY AUTOINCREMENT,
		learner_id    TEXT NOT NULL REFERENCES learners(id) ON DELETE CASCADE,
		project_key   TEXT NOT NULL,
		project_title TEXT NOT NULL DEFAULT '',
		concepts_used TEXT NOT NULL DEFAULT '',
		completed_at  TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS llm_request_events (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence      INTEGER NOT NULL,
		timestamp     TEXT NOT NULL,
		provider      TEXT NOT NULL,
		model         TEXT NOT NULL,
		purpose       TEXT NOT NULL,
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       INTEGER NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body  TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_learner_concepts_learner ON learner_concepts(learner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_completed_projects_learner ON completed_projects(learner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_llm_request_events_purpose ON llm_request_events(purpose)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
