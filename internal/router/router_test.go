package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillpath/internal/screen"
)

type stubScreen struct {
	title   string
	initRan bool
	got     []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}

func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.got = append(s.got, msg)
	return s, nil
}

func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

func TestPushPop(t *testing.T) {
	first := &stubScreen{title: "first"}
	r := New(first)

	second := &stubScreen{title: "second"}
	r.Update(PushScreenMsg{Screen: second})
	if r.Depth() != 2 || r.Active() != second {
		t.Fatalf("expected second on top, depth %d", r.Depth())
	}
	if !second.initRan {
		t.Error("Push should run Init")
	}

	cmd := r.Update(PopScreenMsg{})
	if r.Depth() != 1 || r.Active() != first {
		t.Fatalf("expected first on top after pop, depth %d", r.Depth())
	}
	if cmd == nil {
		t.Fatal("expected resume command after pop")
	}
	if _, ok := cmd().(ResumeMsg); !ok {
		t.Error("expected ResumeMsg")
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	r := New(&stubScreen{title: "only"})
	if cmd := r.Pop(); cmd != nil {
		t.Error("pop at bottom should not resume")
	}
	if r.Depth() != 1 {
		t.Errorf("depth = %d, want 1", r.Depth())
	}
}

func TestReplace(t *testing.T) {
	r := New(&stubScreen{title: "first"})
	r.Push(&stubScreen{title: "second"})

	third := &stubScreen{title: "third"}
	r.Update(ReplaceScreenMsg{Screen: third})

	if r.Depth() != 2 {
		t.Errorf("depth = %d, want 2", r.Depth())
	}
	if r.View(10, 10) != "third" || !third.initRan {
		t.Errorf("expected third active and initialised")
	}
}

func TestForwardsToActive(t *testing.T) {
	bottom := &stubScreen{title: "bottom"}
	top := &stubScreen{title: "top"}
	r := New(bottom)
	r.Push(top)

	r.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if len(top.got) != 1 || len(bottom.got) != 0 {
		t.Errorf("message should reach only the active screen")
	}
}

func TestNewStacksScreens(t *testing.T) {
	bottom := &stubScreen{title: "bottom"}
	top := &stubScreen{title: "top"}
	r := New(bottom, top)

	if r.Depth() != 2 || r.Active() != top || r.At(0) != bottom {
		t.Fatalf("unexpected stack")
	}
	if top.initRan || bottom.initRan {
		t.Error("New must not run Init")
	}
}
