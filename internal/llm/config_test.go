package llm

import (
	"math"
	"testing"
)

func TestDiscoverConfig_Priority(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}

	if _, ok := DiscoverConfig(); ok {
		t.Fatal("expected no config without keys")
	}

	t.Setenv("OPENROUTER_API_KEY", "or")
	t.Setenv("OPENAI_API_KEY", "oa")
	cfg, ok := DiscoverConfig()
	if !ok || cfg.Provider != "openai" || cfg.OpenAI.APIKey != "oa" {
		t.Fatalf("expected openai to win over openrouter, got %+v", cfg)
	}

	t.Setenv("GEMINI_API_KEY", "gm")
	cfg, _ = DiscoverConfig()
	if cfg.Provider != "gemini" || cfg.Gemini.APIKey != "gm" {
		t.Fatalf("expected gemini first, got %q", cfg.Provider)
	}
	if cfg.Retry.MaxAttempts != 1 {
		t.Errorf("MaxAttempts = %d, want 1", cfg.Retry.MaxAttempts)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected missing key error")
	}

	cfg.Gemini.APIKey = "k"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Retry.MaxAttempts = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected max_attempts error")
	}

	if err := (Config{Provider: "mock", Retry: RetryConfig{MaxAttempts: 1}}).Validate(); err != nil {
		t.Fatalf("mock should validate: %v", err)
	}
	if err := (Config{Provider: "palm"}).Validate(); err == nil {
		t.Fatal("expected unknown provider error")
	}
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	if c == nil {
		t.Fatal("expected pricing for gpt-4o-mini")
	}
	if got := c.Cost(1_000_000, 1_000_000); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("cost = %v, want 0.75", got)
	}
	if LookupCost("openai/gpt-4o") == nil {
		t.Error("expected vendor prefix to be stripped")
	}
	if LookupCost("made-up-model") != nil {
		t.Error("expected nil for unknown model")
	}
}
