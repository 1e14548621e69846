package catalog

import (
	"context"
	"errors"
	"sort"
)

var (
	// ErrNotFound is returned when a project id is not in the catalog.
	ErrNotFound = errors.New("catalog entry not found")

	// ErrExists is returned by Put when the id is already taken.
	// Catalog entries are append-only.
	ErrExists = errors.New("catalog entry already exists")
)

// CategoryMap groups a skill's concept names by category
// (e.g. "basic", "intermediate", "advanced").
type CategoryMap map[string][]string

// Names returns the union of concept names across all categories, sorted.
func (m CategoryMap) Names() []string {
	seen := make(map[string]bool)
	var out []string
	for _, concepts := range m {
		for _, c := range concepts {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Categories returns the category names in sorted order.
func (m CategoryMap) Categories() []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Store is the per-skill project catalog.
type Store interface {
	// List returns all project entries for the skill in insertion order.
	List(ctx context.Context, skill string) ([]Project, error)

	// Get returns a single entry, or ErrNotFound.
	Get(ctx context.Context, skill, id string) (*Project, error)

	// Put creates a new entry keyed by p.ID. Returns ErrExists if the id
	// is already present.
	Put(ctx context.Context, skill string, p *Project) error

	// Concepts returns the skill's concept document. An empty map is
	// returned when none has been stored.
	Concepts(ctx context.Context, skill string) (CategoryMap, error)

	// PutConcepts replaces the skill's concept document.
	PutConcepts(ctx context.Context, skill string, concepts CategoryMap) error
}
