package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func projectSchema() *Schema {
	return &Schema{
		Name: "test-project",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{"type": "string", "minLength": 1},
				"tasks": map[string]any{"type": []any{"object", "array"}},
				"level": map[string]any{"type": "string", "enum": []any{"basic", "advanced"}},
			},
			"required": []any{"title", "tasks"},
		},
	}
}

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"object tasks", `{"title":"Todo CLI","tasks":{"t1":{"title":"a"}}}`, false},
		{"array tasks", `{"title":"Todo CLI","tasks":[]}`, false},
		{"missing tasks", `{"title":"Todo CLI"}`, true},
		{"empty title", `{"title":"","tasks":{}}`, true},
		{"tasks wrong type", `{"title":"x","tasks":"do it"}`, true},
		{"bad enum", `{"title":"x","tasks":{},"level":"expert"}`, true},
		{"malformed", `{title:}`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON(projectSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var inv *ErrInvalidResponse
				if !errors.As(err, &inv) {
					t.Fatalf("expected ErrInvalidResponse, got %T", err)
				}
			}
		})
	}
}

func TestValidateJSON_NilSchema(t *testing.T) {
	if err := ValidateJSON(nil, json.RawMessage(`not even json`)); err != nil {
		t.Fatalf("expected nil schema to accept anything, got %v", err)
	}
}

func TestValidateJSON_BadSchema(t *testing.T) {
	s := &Schema{Name: "test-broken", Definition: map[string]any{"type": 42}}
	err := ValidateJSON(s, json.RawMessage(`{}`))
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse for uncompilable schema, got %v", err)
	}
}
