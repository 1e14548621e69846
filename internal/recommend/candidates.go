package recommend

import (
	"github.com/abhisek/skillpath/internal/catalog"
	"github.com/abhisek/skillpath/internal/learner"
)

// BuildCandidates returns the catalog entries the learner has not yet
// completed, in catalog order. Metadata entries listed in
// catalog.ExcludedKeys are dropped.
//
// An entry counts as completed when any record has
// ProjectKey == entry.ID, ProjectKey == entry.Title, or
// ProjectTitle == entry.Title. Older learner records were written with
// titles in ProjectKey, so all three checks are needed.
func BuildCandidates(entries []catalog.Project, completed []learner.CompletedProject) []catalog.Project {
	keys := make(map[string]bool, len(completed))
	titles := make(map[string]bool, len(completed))
	for _, c := range completed {
		if c.ProjectKey != "" {
			keys[c.ProjectKey] = true
		}
		if c.ProjectTitle != "" {
			titles[c.ProjectTitle] = true
		}
	}

	out := make([]catalog.Project, 0, len(entries))
	for _, e := range entries {
		if catalog.ExcludedKeys[e.ID] {
			continue
		}
		if keys[e.ID] || (e.Title != "" && (keys[e.Title] || titles[e.Title])) {
			continue
		}
		out = append(out, e)
	}
	return out
}
