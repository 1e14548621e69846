// Package progress derives concept and project counters for a learner.
package progress

import (
	"context"
	"fmt"

	"github.com/abhisek/skillpath/internal/catalog"
	"github.com/abhisek/skillpath/internal/learner"
)

// Summary is the learner's progress through a skill's concepts.
type Summary struct {
	// Learned is the number of learned-concept records.
	Learned int

	// Applied counts learned-concept records whose name appears in the
	// concepts used by any completed project.
	Applied int

	// Total is the number of distinct concept names across all
	// categories.
	Total int

	ProjectsCompleted int
	ByCategory        []CategoryProgress
}

// CategoryProgress is the per-category breakdown, in category order.
type CategoryProgress struct {
	Category string
	Learned  int
	Applied  int
	Total    int
}

// LearnedRatio returns Learned/Total in [0, 1].
func (s Summary) LearnedRatio() float64 {
	return ratio(s.Learned, s.Total)
}

// AppliedRatio returns Applied/Learned in [0, 1].
func (s Summary) AppliedRatio() float64 {
	return ratio(s.Applied, s.Learned)
}

// Ratio returns Learned/Total for the category.
func (c CategoryProgress) Ratio() float64 {
	return ratio(c.Learned, c.Total)
}

func ratio(n, d int) float64 {
	if d <= 0 {
		return 0
	}
	r := float64(n) / float64(d)
	if r > 1 {
		return 1
	}
	return r
}

// Aggregate computes the summary. Concept names match exactly, case
// sensitive, after trimming the comma-separated conceptUsed lists.
func Aggregate(all catalog.CategoryMap, learned []learner.Concept, completed []learner.CompletedProject) Summary {
	used := make(map[string]bool)
	for _, c := range completed {
		for _, name := range c.ConceptsUsed() {
			used[name] = true
		}
	}

	s := Summary{
		Learned:           len(learned),
		Total:             len(all.Names()),
		ProjectsCompleted: len(completed),
	}
	for _, c := range learned {
		if used[c.Concept] {
			s.Applied++
		}
	}

	learnedNames := make(map[string]bool, len(learned))
	for _, c := range learned {
		learnedNames[c.Concept] = true
	}
	for _, category := range all.Categories() {
		cp := CategoryProgress{Category: category}
		seen := make(map[string]bool)
		for _, name := range all[category] {
			if seen[name] {
				continue
			}
			seen[name] = true
			cp.Total++
			if learnedNames[name] {
				cp.Learned++
				if used[name] {
					cp.Applied++
				}
			}
		}
		s.ByCategory = append(s.ByCategory, cp)
	}
	return s
}

// Load reads the skill's concept document and the learner record and
// aggregates them.
func Load(ctx context.Context, cat catalog.Store, learners learner.Store, skill, learnerID string) (Summary, *learner.Record, error) {
	all, err := cat.Concepts(ctx, skill)
	if err != nil {
		return Summary{}, nil, fmt.Errorf("load concepts for %s: %w", skill, err)
	}
	rec, err := learners.Get(ctx, learnerID)
	if err != nil {
		return Summary{}, nil, fmt.Errorf("load learner %s: %w", learnerID, err)
	}
	return Aggregate(all, rec.Concepts, rec.Completed), rec, nil
}
