package llm

import (
	"errors"
	"fmt"
)

// ErrNotConfigured indicates the backing credential for the selected
// provider is absent. Not retryable within a turn.
var ErrNotConfigured = errors.New("LLM credential is not configured")

// ServiceError wraps a transport or API failure from the model backend.
// The orchestrator treats it as non-retryable within a single turn.
type ServiceError struct {
	Provider string
	Err      error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("llm service error (%s): %v", e.Provider, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
