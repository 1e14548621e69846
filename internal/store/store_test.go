package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/skillpath/internal/catalog"
	"github.com/abhisek/skillpath/internal/learner"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL
		{"busy_timeout", "5000"},
	}
	for _, tt := range tests {
		var got string
		if err := s.DB().QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpen_InMemory(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.CatalogRepo().Put(ctx, "python", &catalog.Project{ID: "p1", Title: "One"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := s.CatalogRepo().Get(ctx, "python", "p1"); err != nil {
		t.Fatalf("get after put on in-memory db: %v", err)
	}
}

func TestOpen_MigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	for i := 0; i < 2; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		s.Close()
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for want := int64(1); want <= 5; want++ {
		got, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if got != want {
			t.Errorf("seq = %d, want %d", got, want)
		}
	}
}

func TestEnsureDir(t *testing.T) {
	dir := t.TempDir()
	if err := EnsureDir(filepath.Join(dir, "a", "b", "x.db")); err != nil {
		t.Fatalf("ensure dir: %v", err)
	}
	if err := EnsureDir(":memory:"); err != nil {
		t.Fatalf("memory dsn: %v", err)
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SKILLPATH_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	p, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if want := filepath.Join(dir, "skillpath", "skillpath.db"); p != want {
		t.Errorf("path = %q, want %q", p, want)
	}

	override := filepath.Join(dir, "custom", "my.db")
	t.Setenv("SKILLPATH_DB", override)
	if p, _ := DefaultDBPath(); p != override {
		t.Errorf("path = %q, want %q", p, override)
	}
}

func TestEventRepo_AppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "project-gen", InputTokens: 100, OutputTokens: 400, LatencyMs: 900, Success: true, RequestBody: "req", ResponseBody: "resp"},
		{Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "project-gen", InputTokens: 120, OutputTokens: 0, LatencyMs: 300, Success: false, ErrorMessage: "rate limited"},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "unknown", InputTokens: 10, OutputTokens: 20, LatencyMs: 100, Success: true},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d events, want 3", len(all))
	}
	if all[0].Model != "gpt-4o-mini" || all[2].ResponseBody != "resp" {
		t.Errorf("expected newest first, got %+v", all)
	}
	if all[1].Success || all[1].ErrorMessage != "rate limited" {
		t.Errorf("failure not round-tripped: %+v", all[1])
	}
	if time.Since(all[0].Timestamp) > time.Minute {
		t.Errorf("unexpected timestamp %v", all[0].Timestamp)
	}

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1, Purpose: "project-gen"})
	if err != nil {
		t.Fatalf("query limited: %v", err)
	}
	if len(limited) != 1 || limited[0].ErrorMessage != "rate limited" {
		t.Errorf("limited query = %+v", limited)
	}

	after, err := repo.QueryLLMEvents(ctx, QueryOpts{After: all[1].Sequence})
	if err != nil {
		t.Fatalf("query after: %v", err)
	}
	if len(after) != 1 || after[0].ID != all[0].ID {
		t.Errorf("after query = %+v", after)
	}

	got, err := repo.GetLLMEvent(ctx, all[2].ID)
	if err != nil || got == nil || got.RequestBody != "req" {
		t.Fatalf("get event = %+v, %v", got, err)
	}
	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil || missing != nil {
		t.Fatalf("missing event = %+v, %v", missing, err)
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 || byPurpose[0].Purpose != "project-gen" || byPurpose[0].Calls != 2 ||
		byPurpose[0].InputTokens != 220 || byPurpose[0].AvgLatencyMs != 600 {
		t.Errorf("usage by purpose = %+v", byPurpose)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 || byModel[1].Model != "gpt-4o-mini" || byModel[1].OutputTokens != 20 {
		t.Errorf("usage by model = %+v", byModel)
	}
}

func TestStoreClosed(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "closed.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s.Close()

	ctx := context.Background()
	if _, err := s.CatalogRepo().List(ctx, "python"); err == nil {
		t.Error("expected error listing on closed store")
	}
	if err := s.LearnerRepo().SetCurrentProject(ctx, "l1", "p1"); err == nil || errors.Is(err, learner.ErrNotFound) {
		t.Errorf("expected I/O error on closed store, got %v", err)
	}
}
