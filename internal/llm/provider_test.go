package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/skillpath/internal/store"
)

func TestMockProvider_FIFO(t *testing.T) {
	mock := NewMockProvider(MockText(`first`), MockText(`second`))

	for _, want := range []string{"first", "second"} {
		resp, err := mock.Generate(context.Background(), Request{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Text() != want {
			t.Fatalf("got %q, want %q", resp.Text(), want)
		}
	}

	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable on empty queue, got %v", err)
	}
	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.CallCount())
	}
}

func TestMockProvider_HoldRespectsContext(t *testing.T) {
	hold := make(chan struct{})
	mock := NewMockProvider(MockResponse{Hold: hold})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mock.Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

type recordedEvents struct {
	events []store.LLMRequestEventData
	err    error
}

func (r *recordedEvents) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func TestLogging_RecordsSuccess(t *testing.T) {
	rec := &recordedEvents{}
	mock := NewMockProvider(MockResponse{
		Content: []byte(`{"title":"x"}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 30},
	})
	p := WithLogging(mock, "gemini", rec)

	ctx := WithPurpose(context.Background(), "project-gen")
	req := Request{System: "be brief", Messages: []Message{{Role: RoleUser, Content: "make a project"}}}
	if _, err := p.Generate(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rec.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(rec.events))
	}
	ev := rec.events[0]
	if ev.Provider != "gemini" || ev.Model != "mock" || ev.Purpose != "project-gen" {
		t.Errorf("unexpected identity fields: %+v", ev)
	}
	if !ev.Success || ev.InputTokens != 12 || ev.OutputTokens != 30 {
		t.Errorf("unexpected outcome fields: %+v", ev)
	}
	if !strings.Contains(ev.RequestBody, "[user]\nmake a project") {
		t.Errorf("request body missing prompt: %q", ev.RequestBody)
	}
	if ev.ResponseBody != `{"title":"x"}` {
		t.Errorf("response body = %q", ev.ResponseBody)
	}
}

func TestLogging_RecordsFailureAndIgnoresRecorderError(t *testing.T) {
	rec := &recordedEvents{err: errors.New("disk full")}
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{}})
	p := WithLogging(mock, "openai", rec)

	_, err := p.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected provider error to pass through, got %v", err)
	}
	if len(rec.events) != 1 || rec.events[0].Success || rec.events[0].ErrorMessage == "" {
		t.Fatalf("expected one failed event, got %+v", rec.events)
	}
	if rec.events[0].Purpose != "unknown" {
		t.Errorf("purpose = %q, want unknown", rec.events[0].Purpose)
	}
}

func TestNewProvider(t *testing.T) {
	t.Run("mock", func(t *testing.T) {
		p, err := NewProvider(context.Background(), Config{Provider: "mock"}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ModelID() != "mock" {
			t.Errorf("model = %q", p.ModelID())
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, err := NewProvider(context.Background(), Config{Provider: "bard"}, nil); err == nil {
			t.Fatal("expected error for unknown provider")
		}
	})

	t.Run("missing key", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Provider = "openai"
		if _, err := NewProvider(context.Background(), cfg, nil); err == nil {
			t.Fatal("expected error for missing key")
		}
	})

	t.Run("openrouter wraps logging only", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = "sk-or-test"
		p, err := NewProvider(context.Background(), cfg, &recordedEvents{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := p.(*LoggingProvider); !ok {
			t.Fatalf("expected *LoggingProvider with MaxAttempts=1, got %T", p)
		}
		if p.ModelID() != "google/gemini-2.0-flash-exp" {
			t.Errorf("model = %q", p.ModelID())
		}
	})

	t.Run("retry when configured", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = "sk-ant-test"
		cfg.Retry.MaxAttempts = 3
		p, err := NewProvider(context.Background(), cfg, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := p.(*RetryProvider); !ok {
			t.Fatalf("expected *RetryProvider, got %T", p)
		}
		if p.ModelID() != "claude-haiku-4-5-20251001" {
			t.Errorf("model = %q", p.ModelID())
		}
	})
}

func TestPurposeFrom_Default(t *testing.T) {
	if got := PurposeFrom(context.Background()); got != "unknown" {
		t.Errorf("got %q", got)
	}
	if got := PurposeFrom(WithPurpose(context.Background(), "")); got != "unknown" {
		t.Errorf("empty purpose: got %q", got)
	}
}
