// Package recommend is the project recommendation screen.
package recommend

import (
	"context"
	"errors"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillpath/internal/catalog"
	rec "github.com/abhisek/skillpath/internal/recommend"
	"github.com/abhisek/skillpath/internal/router"
	"github.com/abhisek/skillpath/internal/screen"
	"github.com/abhisek/skillpath/internal/ui/layout"
)

type state int

const (
	stateLoading state = iota
	stateBrowsing
	stateGenerating
	stateAccepting
)

// Screen shows one recommended project at a time.
type Screen struct {
	engine    *rec.Engine
	learnerID string
	progress  func() screen.Screen
	keys      keyMap

	state     state
	pick      rec.Pick
	generated *catalog.Project
	accepted  *catalog.Project
	notice    string

	err   error
	retry func() tea.Cmd

	// genSeq is bumped by every generate and every dismiss; a result
	// whose Seq no longer matches is stale.
	genSeq int
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the screen. progress builds the dashboard pushed on Tab
// and may be nil.
func New(engine *rec.Engine, learnerID string, progress func() screen.Screen) *Screen {
	return &Screen{
		engine:    engine,
		learnerID: learnerID,
		progress:  progress,
		keys:      defaultKeys(),
	}
}

func (s *Screen) Init() tea.Cmd {
	return s.startCmd()
}

func (s *Screen) Title() string {
	return "Next Project"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	var hints []layout.KeyHint
	add := func(b key.Binding) {
		hints = append(hints, layout.KeyHint{Key: b.Help().Key, Description: b.Help().Desc})
	}

	switch {
	case s.state == stateGenerating:
		return []layout.KeyHint{{Key: "Esc", Description: "Cancel"}}
	case s.err != nil && s.retry != nil:
		add(s.keys.Retry)
	case s.state == stateBrowsing:
		if !s.pick.Done() {
			add(s.keys.Next)
		}
		if s.engine.CanGenerate() {
			add(s.keys.Generate)
		}
		if s.current() != nil {
			add(s.keys.Accept)
		}
	}
	if s.progress != nil {
		add(s.keys.Progress)
	}
	add(s.keys.Back)
	return hints
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case pickMsg:
		s.state = stateBrowsing
		if msg.Err != nil {
			s.err = msg.Err
			return s, nil
		}
		s.err, s.retry = nil, nil
		s.pick = msg.Pick
		s.generated = nil
		s.notice = ""
		// A wrapped pick means the catalog is exhausted for this pass.
		if msg.Pick.Wrapped && s.engine.CanGenerate() {
			return s, s.generateCmd()
		}
		return s, nil

	case generatedMsg:
		if msg.Seq != s.genSeq || errors.Is(msg.Err, rec.ErrDiscarded) {
			return s, nil
		}
		s.state = stateBrowsing
		if msg.Err != nil {
			s.err = msg.Err
			s.retry = s.generateCmd
			return s, nil
		}
		s.err, s.retry = nil, nil
		s.generated = msg.Project
		s.notice = ""
		return s, nil

	case acceptedMsg:
		s.state = stateBrowsing
		if msg.Err != nil {
			s.err = msg.Err
			p := msg.Project
			var lerr *rec.LearnerRecordUnavailableError
			if errors.As(msg.Err, &lerr) {
				s.retry = func() tea.Cmd { return s.retryPointerCmd(p) }
			} else {
				s.retry = func() tea.Cmd { return s.acceptCmd(p) }
			}
			return s, nil
		}
		s.err, s.retry = nil, nil
		s.accepted = msg.Project
		s.generated = nil
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch {
	case key.Matches(msg, s.keys.Back):
		if s.state == stateGenerating {
			s.engine.Dismiss()
			s.genSeq++
			s.state = stateBrowsing
			s.notice = "Generation cancelled."
			return s, nil
		}
		return s, func() tea.Msg { return router.PopScreenMsg{} }

	case key.Matches(msg, s.keys.Progress):
		if s.progress == nil || s.state == stateGenerating {
			return s, nil
		}
		next := s.progress()
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	}

	if s.state != stateBrowsing {
		return s, nil
	}

	switch {
	case key.Matches(msg, s.keys.Retry):
		if s.err == nil || s.retry == nil {
			return s, nil
		}
		retry := s.retry
		s.err, s.retry = nil, nil
		return s, retry()

	case key.Matches(msg, s.keys.Next):
		if s.pick.Done() && s.generated == nil {
			return s, nil
		}
		s.accepted = nil
		return s, s.nextCmd()

	case key.Matches(msg, s.keys.Generate):
		if !s.engine.CanGenerate() {
			s.notice = "No generative provider configured."
			return s, nil
		}
		s.accepted = nil
		return s, s.generateCmd()

	case key.Matches(msg, s.keys.Accept):
		p := s.current()
		if p == nil {
			return s, nil
		}
		return s, s.acceptCmd(p)
	}
	return s, nil
}

// current is the project on screen: a pending generated project wins
// over the rotation pick.
func (s *Screen) current() *catalog.Project {
	if s.generated != nil {
		return s.generated
	}
	return s.pick.Project
}

func (s *Screen) startCmd() tea.Cmd {
	s.state = stateLoading
	s.retry = s.startCmd
	engine, learnerID := s.engine, s.learnerID
	return func() tea.Msg {
		pick, err := engine.Start(context.Background(), learnerID)
		return pickMsg{Pick: pick, Err: err}
	}
}

func (s *Screen) nextCmd() tea.Cmd {
	s.state = stateLoading
	s.retry = s.nextCmd
	engine := s.engine
	return func() tea.Msg {
		pick, err := engine.Next(context.Background())
		return pickMsg{Pick: pick, Err: err}
	}
}

func (s *Screen) generateCmd() tea.Cmd {
	s.state = stateGenerating
	s.genSeq++
	seq, engine := s.genSeq, s.engine
	return func() tea.Msg {
		p, err := engine.Generate(context.Background())
		return generatedMsg{Seq: seq, Project: p, Err: err}
	}
}

func (s *Screen) acceptCmd(p *catalog.Project) tea.Cmd {
	s.state = stateAccepting
	engine, learnerID := s.engine, s.learnerID
	return func() tea.Msg {
		err := engine.Accept(context.Background(), p, learnerID)
		return acceptedMsg{Project: p, Err: err}
	}
}

func (s *Screen) retryPointerCmd(p *catalog.Project) tea.Cmd {
	s.state = stateAccepting
	engine, learnerID := s.engine, s.learnerID
	return func() tea.Msg {
		err := engine.RetryPointer(context.Background(), learnerID)
		return acceptedMsg{Project: p, Err: err}
	}
}
