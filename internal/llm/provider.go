package llm

import (
	"context"
	"encoding/json"
)

// Provider is a generative-language backend.
type Provider interface {
	// Generate sends a single request and returns the model output.
	// When req.Schema is set the provider asks for structured JSON and
	// validates it; otherwise Content holds the raw response text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes one generation call. There is no multi-turn state:
// Messages normally holds a single user prompt.
type Request struct {
	System    string
	Messages  []Message
	Schema    *Schema
	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default.
	Temperature float64
}

// Message is a single prompt message.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a JSON Schema the response must conform to.
type Schema struct {
	// Name identifies the schema. Kebab-case, e.g. "project-definition".
	Name        string
	Description string
	Definition  map[string]any
}

// Response holds the provider output.
type Response struct {
	// Content is validated JSON for schema requests, raw text otherwise.
	Content json.RawMessage

	Usage Usage
	Model string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Text returns the response content as a string.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Content)
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// finish checks a provider reply before it is returned. A reply cut off
// at MaxTokens comes back alongside *ErrMaxTokensExceeded so callers and
// the event log still see its content and usage. Schema requests are
// validated after that.
func finish(req Request, resp *Response) (*Response, error) {
	if resp.StopReason == "max_tokens" {
		return resp, &ErrMaxTokensExceeded{Content: resp.Content}
	}
	if err := validateResponse(req.Schema, resp.Content); err != nil {
		return nil, err
	}
	return resp, nil
}
