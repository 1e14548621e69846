// Package home is the landing screen: current project, headline
// counters and the main menu.
package home

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillpath/internal/catalog"
	"github.com/abhisek/skillpath/internal/learner"
	prog "github.com/abhisek/skillpath/internal/progress"
	rec "github.com/abhisek/skillpath/internal/recommend"
	"github.com/abhisek/skillpath/internal/router"
	"github.com/abhisek/skillpath/internal/screen"
	progressscreen "github.com/abhisek/skillpath/internal/screens/progress"
	recommendscreen "github.com/abhisek/skillpath/internal/screens/recommend"
	"github.com/abhisek/skillpath/internal/ui/components"
	"github.com/abhisek/skillpath/internal/ui/layout"
	"github.com/abhisek/skillpath/internal/ui/theme"
)

// Deps are the collaborators shared by every screen.
type Deps struct {
	Engine    *rec.Engine
	Catalog   catalog.Store
	Learners  learner.Store
	LearnerID string
}

type overviewMsg struct {
	Summary prog.Summary
	Current string
	Err     error
}

// Screen is the home screen.
type Screen struct {
	deps Deps
	menu components.Menu

	summary prog.Summary
	current string
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the home screen.
func New(deps Deps) *Screen {
	h := &Screen{deps: deps}
	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "Find my next project", Action: func() tea.Cmd {
			return push(h.deps.RecommendScreen())
		}},
		{Label: "Progress", Action: func() tea.Cmd {
			return push(h.deps.ProgressScreen())
		}},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	})
	return h
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

// RecommendScreen builds the recommendation screen; Tab opens progress.
func (d Deps) RecommendScreen() screen.Screen {
	return recommendscreen.New(d.Engine, d.LearnerID, d.ProgressScreen)
}

// ProgressScreen builds the progress dashboard.
func (d Deps) ProgressScreen() screen.Screen {
	return progressscreen.New(d.Catalog, d.Learners, d.Engine.Skill(), d.LearnerID)
}

func (h *Screen) Init() tea.Cmd {
	deps := h.deps
	return func() tea.Msg {
		ctx := context.Background()
		sum, r, err := prog.Load(ctx, deps.Catalog, deps.Learners, deps.Engine.Skill(), deps.LearnerID)
		if err != nil {
			return overviewMsg{Err: err}
		}
		current := r.CurrentProject
		if current != "" {
			p, err := deps.Catalog.Get(ctx, deps.Engine.Skill(), current)
			switch {
			case err == nil:
				current = p.Title
			case !errors.Is(err, catalog.ErrNotFound):
				return overviewMsg{Summary: sum, Current: current, Err: err}
			}
		}
		return overviewMsg{Summary: sum, Current: current}
	}
}

func (h *Screen) Title() string {
	return "Home"
}

func (h *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
	}
}

func (h *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case overviewMsg:
		h.loaded = true
		h.summary = msg.Summary
		h.current = msg.Current
		h.errMsg = ""
		if msg.Err != nil {
			h.errMsg = msg.Err.Error()
		}
		return h, nil

	case router.ResumeMsg:
		// back on top: refresh counters and the current project
		return h, h.Init()
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *Screen) View(width, height int) string {
	var sections []string

	sections = append(sections, theme.Title.Render(fmt.Sprintf("Learning %s", h.deps.Engine.Skill())))

	switch {
	case h.errMsg != "":
		sections = append(sections, theme.Failure.Render(h.errMsg))
	case !h.loaded:
		sections = append(sections, theme.Hint.Render("Loading..."))
	default:
		current := "none yet"
		if h.current != "" {
			current = h.current
		}
		sections = append(sections,
			theme.Label.Render("Current project  ")+theme.Body.Render(current),
			theme.Subtitle.Render(fmt.Sprintf("%d/%d concepts learned · %d applied · %d projects done",
				h.summary.Learned, h.summary.Total, h.summary.Applied, h.summary.ProjectsCompleted)),
		)
	}

	sections = append(sections, h.menu.View())

	body := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}
