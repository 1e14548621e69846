// Package progress is the concept progress dashboard.
package progress

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillpath/internal/catalog"
	"github.com/abhisek/skillpath/internal/learner"
	prog "github.com/abhisek/skillpath/internal/progress"
	"github.com/abhisek/skillpath/internal/router"
	"github.com/abhisek/skillpath/internal/screen"
	"github.com/abhisek/skillpath/internal/ui/components"
	"github.com/abhisek/skillpath/internal/ui/layout"
	"github.com/abhisek/skillpath/internal/ui/theme"
)

const recentProjects = 5

type loadedMsg struct {
	Summary prog.Summary
	Record  *learner.Record
	Err     error
}

// Screen shows learned/applied concept counts and recent completions.
type Screen struct {
	catalog   catalog.Store
	learners  learner.Store
	skill     string
	learnerID string

	summary prog.Summary
	record  *learner.Record
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the dashboard.
func New(cat catalog.Store, learners learner.Store, skill, learnerID string) *Screen {
	return &Screen{catalog: cat, learners: learners, skill: skill, learnerID: learnerID}
}

func (s *Screen) Init() tea.Cmd {
	return func() tea.Msg {
		sum, r, err := prog.Load(context.Background(), s.catalog, s.learners, s.skill, s.learnerID)
		return loadedMsg{Summary: sum, Record: r, Err: err}
	}
}

func (s *Screen) Title() string {
	return "Progress"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "r", Description: "Refresh"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.summary = msg.Summary
		s.record = msg.Record
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "tab":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "r":
			return s, s.Init()
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}
	if s.errMsg != "" {
		return center(theme.Failure.Render("\n\nError: " + s.errMsg))
	}
	if !s.loaded {
		return center(theme.Hint.Render("\n\nLoading progress..."))
	}

	barWidth := min(width-8, 70)
	sum := s.summary

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center(theme.Title.Render(fmt.Sprintf("%s progress", s.skill))))
	b.WriteString("\n\n")

	learned := components.NewProgressBar("Concepts learned", sum.Learned, sum.Total, barWidth)
	learned.LabelWidth = 18
	applied := components.NewProgressBar("Applied in projects", sum.Applied, sum.Learned, barWidth)
	applied.LabelWidth = 18
	b.WriteString(center(learned.View()))
	b.WriteString("\n")
	b.WriteString(center(applied.View()))
	b.WriteString("\n\n")

	if len(sum.ByCategory) > 0 {
		b.WriteString(center(theme.Label.Render("By category")))
		b.WriteString("\n")
		for _, c := range sum.ByCategory {
			bar := components.NewProgressBar(c.Category, c.Learned, c.Total, barWidth)
			bar.LabelWidth = 18
			b.WriteString(center(bar.View()))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(center(theme.Label.Render(fmt.Sprintf("Projects completed: %d", sum.ProjectsCompleted))))
	b.WriteString("\n")
	if s.record != nil {
		done := s.record.Completed
		for i := len(done) - 1; i >= 0 && i >= len(done)-recentProjects; i-- {
			c := done[i]
			title := c.ProjectTitle
			if title == "" {
				title = c.ProjectKey
			}
			line := fmt.Sprintf("%s  %s", c.CompletedAt.Format("Jan 02"), title)
			b.WriteString(center(theme.Subtitle.Render(line)))
			b.WriteString("\n")
		}
	}
	return b.String()
}
