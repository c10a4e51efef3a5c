package llm

import (
	"context"
	"encoding/json"
)

// Provider sends one generation request to a hosted model.
type Provider interface {
	// Generate sends req and returns the model's reply. A reply that is not
	// usable as the requested structure fails with *GenerationError; a
	// failed HTTP exchange fails with *TransportError.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier requests are sent to.
	ModelID() string
}

// Request describes a single-turn or multi-turn prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, asks the provider for native structured output and
	// validates the reply against it before returning.
	Schema *Schema

	// JSONMode asks for a JSON reply without enforcing a schema. Callers
	// that tolerate several reply shapes use this and validate afterwards.
	JSONMode bool

	MaxTokens int

	// Temperature in [0, 1]; 0 leaves the provider default.
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema definition.
type Schema struct {
	// Name is kebab-case, e.g. "word-definitions".
	Name        string
	Description string
	Definition  map[string]any
}

// Response is the model's reply.
type Response struct {
	// Content is the raw reply text. For schema or JSON-mode requests it
	// is the JSON document.
	Content json.RawMessage

	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage is the token consumption of a single request.
type Usage struct {
	InputTokens  int `json:"prompt_tokens"`
	OutputTokens int `json:"completion_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Add returns the element-wise sum of u and o.
func (u Usage) Add(o Usage) Usage {
	return Usage{
		InputTokens:  u.InputTokens + o.InputTokens,
		OutputTokens: u.OutputTokens + o.OutputTokens,
		TotalTokens:  u.TotalTokens + o.TotalTokens,
	}
}

// resolveModel maps a friendly model name to a provider model id. Names
// missing from the map are used as-is.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
