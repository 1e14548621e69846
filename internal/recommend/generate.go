package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/skillpath/internal/catalog"
	"github.com/abhisek/skillpath/internal/learner"
	"github.com/abhisek/skillpath/internal/llm"
)

// GenerationPurpose labels project generation requests in the LLM event log.
const GenerationPurpose = "project-gen"

const (
	minPromptConcepts = 5
	maxPromptConcepts = 6
)

// GeneratorConfig tunes the generation request.
type GeneratorConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultGeneratorConfig returns the defaults used by the CLI.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		MaxTokens:   2048,
		Temperature: 0.8,
	}
}

// Generator synthesizes new project definitions when the catalog is
// exhausted. It never persists what it generates.
type Generator struct {
	provider llm.Provider
	cfg      GeneratorConfig

	mu     sync.Mutex
	rng    *rand.Rand
	now    func() time.Time
	lastMs int64
}

// NewGenerator creates a Generator. rng may be nil.
func NewGenerator(provider llm.Provider, cfg GeneratorConfig, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{provider: provider, cfg: cfg, rng: rng, now: time.Now}
}

// Generate asks the provider for a project built around a random handful
// of the learner's concepts. It makes exactly one request. Transport
// failures return *GenerationRequestError; responses without a usable
// project return *GenerationParseError.
func (g *Generator) Generate(ctx context.Context, learned []learner.Concept, skill string) (*catalog.Project, error) {
	concepts := g.sampleConcepts(learned)

	req := llm.Request{
		System:      projectSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildProjectPrompt(skill, concepts)}},
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	}

	resp, err := g.provider.Generate(llm.WithPurpose(ctx, GenerationPurpose), req)
	if err != nil {
		var inv *llm.ErrInvalidResponse
		if errors.As(err, &inv) {
			return nil, &GenerationParseError{Raw: string(inv.Content), Err: err}
		}
		var cut *llm.ErrMaxTokensExceeded
		if errors.As(err, &cut) {
			return nil, &GenerationParseError{Raw: string(cut.Content), Err: err}
		}
		return nil, &GenerationRequestError{Err: err}
	}

	p, err := parseProject(resp.Text())
	if err != nil {
		return nil, err
	}
	p.ID = g.nextID()
	return p, nil
}

// sampleConcepts picks 5 or 6 distinct concept names at random, or all of
// them when fewer than 5 are known.
func (g *Generator) sampleConcepts(learned []learner.Concept) []string {
	seen := make(map[string]bool, len(learned))
	var names []string
	for _, c := range learned {
		name := strings.TrimSpace(c.Concept)
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if len(names) < minPromptConcepts {
		return names
	}
	n := min(minPromptConcepts+g.rng.IntN(maxPromptConcepts-minPromptConcepts+1), len(names))
	g.rng.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })
	return names[:n]
}

// nextID returns "project_<unix-millis>", bumped past the previous id so
// two generations in the same millisecond never collide.
func (g *Generator) nextID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.lastMs {
		ms = g.lastMs + 1
	}
	g.lastMs = ms
	return fmt.Sprintf("project_%d", ms)
}

func parseProject(text string) (*catalog.Project, error) {
	raw, err := llm.ExtractObject(text)
	if err != nil {
		return nil, &GenerationParseError{Raw: text, Err: err}
	}
	if err := llm.ValidateJSON(generatedProjectSchema, raw); err != nil {
		return nil, &GenerationParseError{Raw: text, Err: err}
	}

	var p catalog.Project
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &GenerationParseError{Raw: text, Err: err}
	}

	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return nil, &GenerationParseError{Raw: text, Err: errors.New("empty title")}
	}
	if p.SubtaskCount() == 0 {
		return nil, &GenerationParseError{Raw: text, Err: errors.New("no task has any subtasks")}
	}
	return &p, nil
}
