// Package app is the root Bubble Tea model.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillpath/internal/router"
	"github.com/abhisek/skillpath/internal/screen"
	"github.com/abhisek/skillpath/internal/screens/home"
	"github.com/abhisek/skillpath/internal/ui/layout"
)

// Options wires the TUI. The Engine is built once by the caller and
// shared by every screen.
type Options struct {
	home.Deps

	LearnerName string

	// StartOnRecommend opens the recommendation screen directly.
	StartOnRecommend bool
}

// Model is the root model: it owns the router and draws the frame.
type Model struct {
	router      *router.Router
	learnerName string
	skill       string
	width       int
	height      int
}

// New builds the root model.
func New(opts Options) Model {
	var above []screen.Screen
	if opts.StartOnRecommend {
		above = append(above, opts.RecommendScreen())
	}
	r := router.New(home.New(opts.Deps), above...)
	return Model{router: r, learnerName: opts.LearnerName, skill: opts.Engine.Skill()}
}

func (m Model) Init() tea.Cmd {
	// every screen on the stack needs its initial load
	var cmds []tea.Cmd
	for i := 0; i < m.router.Depth(); i++ {
		if cmd := m.router.At(i).Init(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}
	}

	return m, m.router.Update(msg)
}

func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the full frame for the current window size.
func (m Model) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	header := layout.RenderHeader(active.Title(), m.learnerName, m.skill, m.width)

	hints := []layout.KeyHint{{Key: "q", Description: "Quit"}}
	if p, ok := active.(screen.KeyHintProvider); ok {
		hints = append(p.KeyHints(), layout.KeyHint{Key: "q", Description: "Quit"})
	}
	footer := layout.RenderFooter(hints, m.width)

	content := m.router.View(m.width, layout.ContentHeight(header, footer, m.height))
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the program and blocks until the user quits.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
