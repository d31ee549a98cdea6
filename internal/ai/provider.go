package ai

import (
	"context"
	"encoding/json"
)

// Provider abstracts the model API behind evaluation and suggestion calls.
type Provider interface {
	// Generate sends a prompt and returns structured output. When the
	// request carries a Schema the returned Content is JSON that has
	// already been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the configured model identifier.
	ModelID() string
}

// Request describes one model call.
type Request struct {
	// System sets the examiner persona and grading constraints.
	System string

	// Messages is the conversation. Evaluation and suggestion calls are
	// single turn, so this usually holds one user message.
	Messages []Message

	// Schema, when set, makes the provider use its structured output
	// mechanism and the response is validated against it.
	Schema *Schema

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature controls randomness, 0.0 to 1.0. Grading runs at 0.
	Temperature float64
}

// Message is one turn in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a JSON Schema the model output must conform to.
type Schema struct {
	// Name identifies the schema, kebab-case. Used as the structured
	// output name where the provider API wants one.
	Name string

	// Description guides the model; it is sent alongside the schema.
	Description string

	// Definition is the schema body as a map.
	Definition map[string]any
}

// Response is the model output.
type Response struct {
	// Content is validated JSON when the request had a Schema, otherwise
	// the raw text.
	Content json.RawMessage

	// Usage reports token counts for the call.
	Usage Usage

	// Model is the model that actually served the request.
	Model string
}

// Usage tracks token consumption.
type Usage struct {
	InputTokens  int
	OutputTokens int
}
