package recommend

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/abhisek/skillpath/internal/catalog"
	"github.com/abhisek/skillpath/internal/learner"
)

type memCatalog struct {
	mu       sync.Mutex
	projects []catalog.Project

	listErr error
	getErr  error
	putErr  error
	puts    int
}

func newMemCatalog(ps ...catalog.Project) *memCatalog {
	return &memCatalog{projects: ps}
}

func (m *memCatalog) List(_ context.Context, _ string) ([]catalog.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return slices.Clone(m.projects), nil
}

func (m *memCatalog) Get(_ context.Context, _, id string) (*catalog.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, p := range m.projects {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (m *memCatalog) Put(_ context.Context, _ string, p *catalog.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	for _, existing := range m.projects {
		if existing.ID == p.ID {
			return catalog.ErrExists
		}
	}
	m.projects = append(m.projects, *p)
	return nil
}

func (m *memCatalog) Concepts(context.Context, string) (catalog.CategoryMap, error) {
	return catalog.CategoryMap{}, nil
}

func (m *memCatalog) PutConcepts(context.Context, string, catalog.CategoryMap) error {
	return nil
}

type memLearners struct {
	mu      sync.Mutex
	records map[string]*learner.Record

	getErr error
	setErr error
}

func newMemLearners(recs ...*learner.Record) *memLearners {
	m := &memLearners{records: make(map[string]*learner.Record)}
	for _, r := range recs {
		m.records[r.ID] = r
	}
	return m
}

func (m *memLearners) Get(_ context.Context, id string) (*learner.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	r, ok := m.records[id]
	if !ok {
		return nil, learner.ErrNotFound
	}
	cp := *r
	cp.Concepts = slices.Clone(r.Concepts)
	cp.Completed = slices.Clone(r.Completed)
	return &cp, nil
}

func (m *memLearners) SetCurrentProject(_ context.Context, id, projectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	r, ok := m.records[id]
	if !ok {
		return learner.ErrNotFound
	}
	r.CurrentProject = projectID
	r.ProjectStarted = true
	return nil
}

func (m *memLearners) Create(_ context.Context, r *learner.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[r.ID] = r
	return nil
}

func (m *memLearners) AddConcept(_ context.Context, id string, c learner.Concept) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[id].Concepts = append(m.records[id].Concepts, c)
	return nil
}

func (m *memLearners) AddCompleted(_ context.Context, id string, c learner.CompletedProject) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[id].Completed = append(m.records[id].Completed, c)
	return nil
}

func (m *memLearners) pointer(id string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.records[id]
	return r.CurrentProject, r.ProjectStarted
}

func projects(n int) []catalog.Project {
	out := make([]catalog.Project, n)
	for i := range out {
		out[i] = catalog.Project{
			ID:    fmt.Sprintf("P%d", i+1),
			Title: fmt.Sprintf("T%d", i+1),
		}
	}
	return out
}

func ids(ps []catalog.Project) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func completedKeys(keys ...string) []learner.CompletedProject {
	out := make([]learner.CompletedProject, len(keys))
	for i, k := range keys {
		out[i] = learner.CompletedProject{ProjectKey: k}
	}
	return out
}
