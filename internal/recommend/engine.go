package recommend

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/abhisek/skillpath/internal/catalog"
	"github.com/abhisek/skillpath/internal/learner"
)

// Options configures an Engine.
type Options struct {
	Catalog   catalog.Store
	Learners  learner.Store
	Generator *Generator // nil disables generation
	Skill     string
	Rand      *rand.Rand
	Observer  Observer
}

// Engine is the recommendation session for one skill. It is built once
// and shared by every surface that shows recommendations.
//
// Store and provider calls are never made while holding the Engine's
// lock; the lock only guards the rotation state.
type Engine struct {
	catalog  catalog.Store
	learners learner.Store
	gen      *Generator
	skill    string
	obs      Observer

	mu        sync.Mutex
	rot       *Rotation
	learnerID string
	epoch     uint64            // bumped by Dismiss
	pending   map[string]string // learner id → project id of a failed pointer write
}

// NewEngine creates an Engine.
func NewEngine(opts Options) *Engine {
	obs := opts.Observer
	if obs == nil {
		obs = NoopObserver{}
	}
	return &Engine{
		catalog:  opts.Catalog,
		learners: opts.Learners,
		gen:      opts.Generator,
		skill:    opts.Skill,
		obs:      obs,
		rot:      NewRotation(opts.Rand),
		pending:  make(map[string]string),
	}
}

// Skill returns the skill this engine recommends for.
func (e *Engine) Skill() string {
	return e.skill
}

// CanGenerate reports whether a generator is configured.
func (e *Engine) CanGenerate() bool {
	return e.gen != nil
}

// Start loads the learner's history and the catalog and returns a random
// first candidate. A Pick with Done() true means every project is
// completed.
func (e *Engine) Start(ctx context.Context, learnerID string) (pick Pick, err error) {
	start := time.Now()
	defer func() { e.observe(ctx, "start", learnerID, start, err, pickFields(pick)) }()

	candidates, err := e.load(ctx, learnerID)
	if err != nil {
		return Pick{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.learnerID = learnerID
	return Pick{Project: e.rot.PickInitial(candidates)}, nil
}

// Next advances the rotation. History is reloaded first so projects
// completed mid-session drop out.
func (e *Engine) Next(ctx context.Context) (pick Pick, err error) {
	learnerID, err := e.sessionLearner()
	if err != nil {
		return Pick{}, err
	}
	start := time.Now()
	defer func() { e.observe(ctx, "next", learnerID, start, err, pickFields(pick)) }()

	candidates, err := e.load(ctx, learnerID)
	if err != nil {
		return Pick{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rot.PickNext(candidates), nil
}

// Candidates returns the current candidate list for the session learner.
func (e *Engine) Candidates(ctx context.Context) ([]catalog.Project, error) {
	learnerID, err := e.sessionLearner()
	if err != nil {
		return nil, err
	}
	return e.load(ctx, learnerID)
}

// Generate synthesizes a new project from the session learner's concepts.
// The result is not persisted; pass it to Accept to keep it. If Dismiss
// is called while the request is in flight the result is dropped and
// ErrDiscarded is returned.
func (e *Engine) Generate(ctx context.Context) (p *catalog.Project, err error) {
	if e.gen == nil {
		return nil, &GenerationRequestError{Err: errors.New("no generative provider configured")}
	}
	learnerID, err := e.sessionLearner()
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	epoch := e.epoch
	e.mu.Unlock()

	start := time.Now()
	defer func() {
		fields := map[string]any{}
		if p != nil {
			fields["project"] = p.ID
		}
		e.observe(ctx, "generate", learnerID, start, err, fields)
	}()

	rec, err := e.learners.Get(ctx, learnerID)
	if err != nil {
		return nil, &LearnerRecordUnavailableError{Op: "get", LearnerID: learnerID, Err: err}
	}

	p, err = e.gen.Generate(ctx, rec.Concepts, e.skill)

	e.mu.Lock()
	dismissed := e.epoch != epoch
	e.mu.Unlock()
	if dismissed {
		return nil, ErrDiscarded
	}
	return p, err
}

// Dismiss discards the results of every generation currently in flight.
func (e *Engine) Dismiss() {
	e.mu.Lock()
	e.epoch++
	e.mu.Unlock()
}

// Accept makes chosen the learner's current project. A project missing
// from the catalog is written there first; the learner pointer is only
// updated once that write succeeded.
//
// A catalog failure returns *CatalogUnavailableError and leaves the
// pointer untouched. A pointer failure returns
// *LearnerRecordUnavailableError; the catalog entry stays and
// RetryPointer repeats just the pointer write.
func (e *Engine) Accept(ctx context.Context, chosen *catalog.Project, learnerID string) (err error) {
	start := time.Now()
	generated := false
	defer func() {
		e.observe(ctx, "accept", learnerID, start, err, map[string]any{"project": chosen.ID, "new_entry": generated})
	}()

	_, err = e.catalog.Get(ctx, e.skill, chosen.ID)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		generated = true
		if err := e.catalog.Put(ctx, e.skill, chosen); err != nil && !errors.Is(err, catalog.ErrExists) {
			return &CatalogUnavailableError{Op: "put", Skill: e.skill, Err: err}
		}
	case err != nil:
		return &CatalogUnavailableError{Op: "get", Skill: e.skill, Err: err}
	}

	return e.setPointer(ctx, learnerID, chosen.ID)
}

// RetryPointer repeats the pointer write of the last Accept that failed
// for learnerID.
func (e *Engine) RetryPointer(ctx context.Context, learnerID string) (err error) {
	e.mu.Lock()
	projectID, ok := e.pending[learnerID]
	e.mu.Unlock()
	if !ok {
		return ErrNothingToRetry
	}

	start := time.Now()
	defer func() {
		e.observe(ctx, "retry-pointer", learnerID, start, err, map[string]any{"project": projectID})
	}()
	return e.setPointer(ctx, learnerID, projectID)
}

func (e *Engine) setPointer(ctx context.Context, learnerID, projectID string) error {
	if err := e.learners.SetCurrentProject(ctx, learnerID, projectID); err != nil {
		e.mu.Lock()
		e.pending[learnerID] = projectID
		e.mu.Unlock()
		return &LearnerRecordUnavailableError{Op: "set current project", LearnerID: learnerID, Err: err}
	}
	e.mu.Lock()
	delete(e.pending, learnerID)
	e.mu.Unlock()
	return nil
}

func (e *Engine) load(ctx context.Context, learnerID string) ([]catalog.Project, error) {
	rec, err := e.learners.Get(ctx, learnerID)
	if err != nil {
		return nil, &LearnerRecordUnavailableError{Op: "get", LearnerID: learnerID, Err: err}
	}
	entries, err := e.catalog.List(ctx, e.skill)
	if err != nil {
		return nil, &CatalogUnavailableError{Op: "list", Skill: e.skill, Err: err}
	}
	return BuildCandidates(entries, rec.Completed), nil
}

func (e *Engine) sessionLearner() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.learnerID == "" {
		return "", ErrNoSession
	}
	return e.learnerID, nil
}

func (e *Engine) observe(ctx context.Context, op, learnerID string, start time.Time, err error, fields map[string]any) {
	e.obs.Observe(ctx, Event{
		Op:        op,
		LearnerID: learnerID,
		Skill:     e.skill,
		Duration:  time.Since(start),
		Err:       err,
		Fields:    fields,
	})
}

func pickFields(p Pick) map[string]any {
	if p.Done() {
		return map[string]any{"done": true}
	}
	return map[string]any{"project": p.Project.ID, "wrapped": p.Wrapped}
}
