package home

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillpath/internal/catalog"
	"github.com/abhisek/skillpath/internal/learner"
	rec "github.com/abhisek/skillpath/internal/recommend"
	"github.com/abhisek/skillpath/internal/router"
	"github.com/abhisek/skillpath/internal/store"
)

func testDeps(t *testing.T) (Deps, *store.Store) {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	p := &catalog.Project{ID: "p1", Title: "Number Guesser"}
	if err := st.CatalogRepo().Put(ctx, "python", p); err != nil {
		t.Fatal(err)
	}
	r := &learner.Record{Name: "Asha", Skill: "python"}
	if err := st.LearnerRepo().Create(ctx, r); err != nil {
		t.Fatal(err)
	}
	if err := st.LearnerRepo().SetCurrentProject(ctx, r.ID, "p1"); err != nil {
		t.Fatal(err)
	}

	return Deps{
		Engine:    rec.NewEngine(rec.Options{Catalog: st.CatalogRepo(), Learners: st.LearnerRepo(), Skill: "python"}),
		Catalog:   st.CatalogRepo(),
		Learners:  st.LearnerRepo(),
		LearnerID: r.ID,
	}, st
}

func TestHome_ShowsCurrentProject(t *testing.T) {
	deps, _ := testDeps(t)
	h := New(deps)

	s, _ := h.Update(h.Init()())
	view := s.View(100, 30)
	if !strings.Contains(view, "Number Guesser") {
		t.Errorf("expected current project title:\n%s", view)
	}
	if !strings.Contains(view, "Find my next project") {
		t.Error("expected menu")
	}
}

func TestHome_MenuPushesScreens(t *testing.T) {
	deps, _ := testDeps(t)
	h := New(deps)

	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg")
	}
	if msg.Screen.Title() != "Next Project" {
		t.Errorf("pushed %q, want Next Project", msg.Screen.Title())
	}

	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd = h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	msg, ok = cmd().(router.PushScreenMsg)
	if !ok || msg.Screen.Title() != "Progress" {
		t.Errorf("expected progress screen push")
	}
}

func TestHome_RefreshesWhenReturnedTo(t *testing.T) {
	deps, _ := testDeps(t)
	h := New(deps)
	if _, cmd := h.Update(router.ResumeMsg{}); cmd == nil {
		t.Error("expected reload command")
	}
}
