package recommend

import (
	"errors"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillpath/internal/catalog"
	rec "github.com/abhisek/skillpath/internal/recommend"
	"github.com/abhisek/skillpath/internal/ui/theme"
)

const maxCardWidth = 76

func (s *Screen) View(width, height int) string {
	cardWidth := min(width-4, maxCardWidth)
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder
	b.WriteString("\n")

	if s.err != nil {
		b.WriteString(center(theme.Failure.Render(errorText(s.err))))
		b.WriteString("\n")
		if s.retry != nil {
			b.WriteString(center(theme.Hint.Render("Press r to try again.")))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	if s.notice != "" {
		b.WriteString(center(theme.Hint.Render(s.notice)))
		b.WriteString("\n\n")
	}
	if s.accepted != nil {
		b.WriteString(center(theme.Done.Render(fmt.Sprintf("✓ %s is now your current project", s.accepted.Title))))
		b.WriteString("\n\n")
	}

	switch s.state {
	case stateLoading:
		if s.current() == nil {
			b.WriteString(center(theme.Hint.Render("Finding a project...")))
			return b.String()
		}
	case stateGenerating:
		b.WriteString(center(theme.Label.Render("Generating a new project from your concepts...")))
		b.WriteString("\n")
		b.WriteString(center(theme.Hint.Render("Esc to cancel")))
		if s.current() == nil {
			return b.String()
		}
		b.WriteString("\n\n")
	case stateAccepting:
		b.WriteString(center(theme.Hint.Render("Saving...")))
		b.WriteString("\n\n")
	}

	p := s.current()
	if p == nil {
		if s.err == nil && s.accepted == nil && s.state == stateBrowsing {
			b.WriteString(center(theme.Done.Render("All projects completed!")))
			b.WriteString("\n")
			if s.engine.CanGenerate() {
				b.WriteString(center(theme.Hint.Render("Press g to generate a brand-new project.")))
			}
		}
		return b.String()
	}

	switch {
	case s.generated != nil:
		b.WriteString(center(theme.Banner.Render("New project · not saved until you accept it")))
		b.WriteString("\n")
	case s.pick.Wrapped:
		msg := "You've seen every project."
		if s.state != stateGenerating {
			msg = "You've seen every project. Press n to cycle again"
			if s.engine.CanGenerate() {
				msg += " or g to generate a new one"
			}
			msg += "."
		}
		b.WriteString(center(theme.Banner.Render(msg)))
		b.WriteString("\n")
	}

	card := renderProject(p, cardWidth-6, height-lipgloss.Height(b.String())-4)
	b.WriteString(center(theme.Card.Width(cardWidth).Render(card)))
	return b.String()
}

// renderProject draws the project body, dropping subtasks first and then
// tasks when maxLines is tight.
func renderProject(p *catalog.Project, width, maxLines int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(p.Title))
	b.WriteString("\n")
	if p.Description != "" {
		b.WriteString(theme.Body.Width(width).Render(p.Description))
		b.WriteString("\n")
	}
	if len(p.RequiredConcepts) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Label.Render("Concepts  "))
		b.WriteString(theme.Subtitle.Render(strings.Join(p.RequiredConcepts, ", ")))
		b.WriteString("\n")
	}

	if len(p.Tasks) == 0 {
		return b.String()
	}
	b.WriteString("\n")

	used := lipgloss.Height(b.String())
	showSubtasks := used+len(p.Tasks)+p.SubtaskCount() <= maxLines
	for i, t := range p.Tasks {
		if !showSubtasks && used+i >= maxLines-1 {
			b.WriteString(theme.Hint.Render(fmt.Sprintf("  ... %d more tasks", len(p.Tasks)-i)))
			break
		}
		title := t.Title
		if title == "" {
			title = t.ID
		}
		b.WriteString(theme.Body.Render(fmt.Sprintf("%d. %s", i+1, title)))
		if !showSubtasks {
			b.WriteString(theme.Subtitle.Render(fmt.Sprintf("  (%d steps)", len(t.Subtasks))))
		}
		b.WriteString("\n")
		if showSubtasks {
			for _, st := range t.Subtasks {
				b.WriteString(theme.Subtitle.Render("   · " + st))
				b.WriteString("\n")
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func errorText(err error) string {
	var (
		cat   *rec.CatalogUnavailableError
		lrn   *rec.LearnerRecordUnavailableError
		req   *rec.GenerationRequestError
		parse *rec.GenerationParseError
	)
	switch {
	case errors.As(err, &cat):
		return "Couldn't reach the project catalog."
	case errors.As(err, &lrn):
		if lrn.Op == "set current project" {
			return "The project was saved but couldn't be set as current."
		}
		return "Couldn't load your learner record."
	case errors.As(err, &req):
		return "The project generator is unavailable right now."
	case errors.As(err, &parse):
		return "The generated project was incomplete."
	case errors.Is(err, rec.ErrNothingToRetry):
		return "Nothing left to retry."
	}
	return err.Error()
}
