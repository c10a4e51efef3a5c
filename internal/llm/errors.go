package llm

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// GenerationError means the model replied but the reply could not be
// turned into the expected structure.
type GenerationError struct {
	Content json.RawMessage
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("unusable generation reply: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// TransportError means the HTTP exchange with the provider failed.
// StatusCode is 0 when no response was received at all.
type TransportError struct {
	StatusCode int
	RetryAfter time.Duration
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("LLM transport failure: %v", e.Err)
	}
	return fmt.Sprintf("LLM request failed with HTTP %d: %v", e.StatusCode, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RateLimited reports whether the provider answered 429.
func (e *TransportError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// Temporary reports whether the failure is worth trying again later.
func (e *TransportError) Temporary() bool {
	return e.StatusCode == 0 || e.RateLimited() || e.StatusCode >= 500
}

func transportError(status int, err error) error {
	return &TransportError{StatusCode: status, Err: err}
}
