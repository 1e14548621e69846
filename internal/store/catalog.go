package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/skillpath/internal/catalog"
)

// CatalogRepo implements catalog.Store on SQLite. Each project is one row
// holding its JSON document; seq preserves insertion order.
type CatalogRepo struct {
	db *sql.DB
}

var _ catalog.Store = (*CatalogRepo)(nil)

func (r *CatalogRepo) List(ctx context.Context, skill string) ([]catalog.Project, error) {
	query, args := builder().Select("id", "body").
		From(entsql.Table("projects")).
		Where(entsql.EQ("skill", skill)).
		OrderBy("seq").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []catalog.Project
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		p, err := decodeProject(id, body)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return out, nil
}

func (r *CatalogRepo) Get(ctx context.Context, skill, id string) (*catalog.Project, error) {
	query, args := builder().Select("body").
		From(entsql.Table("projects")).
		Where(entsql.And(entsql.EQ("skill", skill), entsql.EQ("id", id))).
		Query()

	var body string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project %q: %w", id, err)
	}
	return decodeProject(id, body)
}

func (r *CatalogRepo) Put(ctx context.Context, skill string, p *catalog.Project) error {
	if p.ID == "" {
		return fmt.Errorf("put project: empty id")
	}
	if catalog.ExcludedKeys[p.ID] {
		return fmt.Errorf("put project: %q is a reserved catalog key", p.ID)
	}

	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode project %q: %w", p.ID, err)
	}

	query, args := builder().Insert("projects").
		Columns("skill", "id", "body", "created_at").
		Values(skill, p.ID, string(body), formatTime(time.Now())).
		OnConflict(entsql.DoNothing()).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("put project %q: %w", p.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return catalog.ErrExists
	}
	return nil
}

func (r *CatalogRepo) Concepts(ctx context.Context, skill string) (catalog.CategoryMap, error) {
	query, args := builder().Select("body").
		From(entsql.Table("skill_concepts")).
		Where(entsql.EQ("skill", skill)).
		Query()

	var body string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.CategoryMap{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get concepts for %q: %w", skill, err)
	}

	var m catalog.CategoryMap
	if err := json.Unmarshal([]byte(body), &m); err != nil {
		return nil, fmt.Errorf("decode concepts for %q: %w", skill, err)
	}
	if m == nil {
		m = catalog.CategoryMap{}
	}
	return m, nil
}

func (r *CatalogRepo) PutConcepts(ctx context.Context, skill string, concepts catalog.CategoryMap) error {
	body, err := json.Marshal(concepts)
	if err != nil {
		return fmt.Errorf("encode concepts: %w", err)
	}

	query, args := builder().Insert("skill_concepts").
		Columns("skill", "body", "updated_at").
		Values(skill, string(body), formatTime(time.Now())).
		OnConflict(
			entsql.ConflictColumns("skill"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("put concepts for %q: %w", skill, err)
	}
	return nil
}

// Skills returns every skill with at least one project or a concept
// document, sorted.
func (r *CatalogRepo) Skills(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT skill FROM projects UNION SELECT skill FROM skill_concepts ORDER BY skill`)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func decodeProject(id, body string) (*catalog.Project, error) {
	var p catalog.Project
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		return nil, fmt.Errorf("decode project %q: %w", id, err)
	}
	p.ID = id
	return &p, nil
}

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		// Rows written before the fixed-width layout.
		if t, err = time.Parse(time.RFC3339Nano, s); err != nil {
			return time.Time{}
		}
	}
	return t
}
