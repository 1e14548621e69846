package learner

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/skillpath/internal/catalog"
)

// ErrNotFound is returned when no learner record exists for an id.
var ErrNotFound = errors.New("learner record not found")

// Concept is a concept the learner has marked as learned.
type Concept struct {
	Concept  string `json:"concept"`
	Category string `json:"category"`
}

// CompletedProject is an immutable record of a finished project.
type CompletedProject struct {
	// ProjectKey is normally the catalog id. Older records hold the
	// project title here instead.
	ProjectKey   string    `json:"projectKey"`
	ProjectTitle string    `json:"projectTitle"`
	CompletedAt  time.Time `json:"completedAt"`

	// ConceptUsed is the comma-separated list of concepts exercised.
	ConceptUsed string `json:"conceptUsed"`
}

// ConceptsUsed splits ConceptUsed into trimmed concept names.
func (c CompletedProject) ConceptsUsed() []string {
	return catalog.SplitConcepts(c.ConceptUsed)
}

// Record is the per-learner document.
type Record struct {
	ID             string
	Name           string
	Skill          string
	CurrentProject string
	ProjectStarted bool
	Concepts       []Concept
	Completed      []CompletedProject
	CreatedAt      time.Time
}

// Store is the learner record store.
type Store interface {
	// Get returns the learner record with concepts and completed
	// projects, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// SetCurrentProject sets the current-project pointer and the
	// project-started flag in one atomic update.
	SetCurrentProject(ctx context.Context, id, projectID string) error

	// Create inserts a new learner record.
	Create(ctx context.Context, r *Record) error

	// AddConcept appends a learned concept.
	AddConcept(ctx context.Context, id string, c Concept) error

	// AddCompleted appends a completed-project record.
	AddCompleted(ctx context.Context, id string, c CompletedProject) error
}
