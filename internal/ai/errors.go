package ai

import (
	"encoding/json"
	"fmt"
)

// ConnectivityError indicates the provider could not be reached or is
// returning server errors. Callers surface it as "check your connection
// and retry"; nothing is persisted.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("AI provider unreachable: %v", e.Err)
	}
	return "AI provider unreachable"
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// AuthError indicates the provider rejected our credentials. Retrying
// without operator intervention is pointless.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("AI provider rejected credentials: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// MalformedResponseError indicates the model returned content that is not
// valid JSON or does not match the requested schema. The raw content is
// kept for logging; it must never be persisted as feedback.
type MalformedResponseError struct {
	Content json.RawMessage
	Err     error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed AI response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// RateLimitError indicates the provider returned 429. It maps to a
// "too many requests, wait a moment" message.
type RateLimitError struct {
	Err error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("AI provider rate limited: %v", e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }
