package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/skillpath/internal/learner"
)

// LearnerRepo implements learner.Store on SQLite.
type LearnerRepo struct {
	db *sql.DB
}

var _ learner.Store = (*LearnerRepo)(nil)

func (r *LearnerRepo) Get(ctx context.Context, id string) (*learner.Record, error) {
	query, args := builder().Select("id", "name", "skill", "current_project", "project_started", "created_at").
		From(entsql.Table("learners")).
		Where(entsql.EQ("id", id)).
		Query()

	var (
		rec     learner.Record
		started int
		created string
	)
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&rec.ID, &rec.Name, &rec.Skill, &rec.CurrentProject, &started, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, learner.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get learner %q: %w", id, err)
	}
	rec.ProjectStarted = started != 0
	rec.CreatedAt = parseTime(created)

	if rec.Concepts, err = r.concepts(ctx, id); err != nil {
		return nil, err
	}
	if rec.Completed, err = r.completed(ctx, id); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *LearnerRepo) concepts(ctx context.Context, id string) ([]learner.Concept, error) {
	query, args := builder().Select("concept", "category").
		From(entsql.Table("learner_concepts")).
		Where(entsql.EQ("learner_id", id)).
		OrderBy("seq").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list concepts: %w", err)
	}
	defer rows.Close()

	var out []learner.Concept
	for rows.Next() {
		var c learner.Concept
		if err := rows.Scan(&c.Concept, &c.Category); err != nil {
			return nil, fmt.Errorf("scan concept: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *LearnerRepo) completed(ctx context.Context, id string) ([]learner.CompletedProject, error) {
	query, args := builder().Select("project_key", "project_title", "concepts_used", "completed_at").
		From(entsql.Table("completed_projects")).
		Where(entsql.EQ("learner_id", id)).
		OrderBy("seq").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list completed projects: %w", err)
	}
	defer rows.Close()

	var out []learner.CompletedProject
	for rows.Next() {
		var (
			c  learner.CompletedProject
			at string
		)
		if err := rows.Scan(&c.ProjectKey, &c.ProjectTitle, &c.ConceptUsed, &at); err != nil {
			return nil, fmt.Errorf("scan completed project: %w", err)
		}
		c.CompletedAt = parseTime(at)
		out = append(out, c)
	}
	return out, rows.Err()
}

// SetCurrentProject writes the pointer and the started flag in a single
// UPDATE statement.
func (r *LearnerRepo) SetCurrentProject(ctx context.Context, id, projectID string) error {
	query, args := builder().Update("learners").
		Set("current_project", projectID).
		Set("project_started", 1).
		Where(entsql.EQ("id", id)).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set current project for %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set current project for %q: %w", id, err)
	}
	if n == 0 {
		return learner.ErrNotFound
	}
	return nil
}

// Create inserts rec. An empty ID is filled with a new UUID and an empty
// CreatedAt with the current time.
func (r *LearnerRepo) Create(ctx context.Context, rec *learner.Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	started := 0
	if rec.ProjectStarted {
		started = 1
	}

	query, args := builder().Insert("learners").
		Columns("id", "name", "skill", "current_project", "project_started", "created_at").
		Values(rec.ID, rec.Name, rec.Skill, rec.CurrentProject, started, formatTime(rec.CreatedAt)).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create learner: %w", err)
	}
	return nil
}

// AddConcept records c as learned. Re-adding a known concept is a no-op.
func (r *LearnerRepo) AddConcept(ctx context.Context, id string, c learner.Concept) error {
	if err := r.exists(ctx, id); err != nil {
		return err
	}
	query, args := builder().Insert("learner_concepts").
		Columns("learner_id", "concept", "category").
		Values(id, c.Concept, c.Category).
		OnConflict(entsql.DoNothing()).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("add concept %q: %w", c.Concept, err)
	}
	return nil
}

// AddCompleted appends a completed-project record.
func (r *LearnerRepo) AddCompleted(ctx context.Context, id string, c learner.CompletedProject) error {
	if err := r.exists(ctx, id); err != nil {
		return err
	}
	if c.CompletedAt.IsZero() {
		c.CompletedAt = time.Now().UTC()
	}
	query, args := builder().Insert("completed_projects").
		Columns("learner_id", "project_key", "project_title", "concepts_used", "completed_at").
		Values(id, c.ProjectKey, c.ProjectTitle, c.ConceptUsed, formatTime(c.CompletedAt)).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("add completed project %q: %w", c.ProjectKey, err)
	}
	return nil
}

// List returns all learners without their concept and project history.
func (r *LearnerRepo) List(ctx context.Context) ([]learner.Record, error) {
	query, args := builder().Select("id", "name", "skill", "current_project", "project_started", "created_at").
		From(entsql.Table("learners")).
		OrderBy("created_at", "rowid").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list learners: %w", err)
	}
	defer rows.Close()

	var out []learner.Record
	for rows.Next() {
		var (
			rec     learner.Record
			started int
			created string
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Skill, &rec.CurrentProject, &started, &created); err != nil {
			return nil, fmt.Errorf("scan learner: %w", err)
		}
		rec.ProjectStarted = started != 0
		rec.CreatedAt = parseTime(created)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *LearnerRepo) exists(ctx context.Context, id string) error {
	query, args := builder().Select(entsql.Count("*")).
		From(entsql.Table("learners")).
		Where(entsql.EQ("id", id)).
		Query()

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return fmt.Errorf("lookup learner %q: %w", id, err)
	}
	if n == 0 {
		return learner.ErrNotFound
	}
	return nil
}
