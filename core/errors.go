package core

import "fmt"

// ExternalServiceError reports that the model provider or another external
// service was unreachable or returned a hard failure. It aborts the current
// orchestration loop invocation and propagates to the caller; messages
// already appended to the thread remain valid.
//
// Recoverable failures (validation, policy, unknown tool) never use this
// type: they stay inside the conversation as tool-result text the model can
// react to.
type ExternalServiceError struct {
	Service string // "model", "calendar", "docs", ...
	Err     error
}

// Error implements the error interface.
func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("external service %s failed: %v", e.Service, e.Err)
}

// Unwrap returns the wrapped cause.
func (e *ExternalServiceError) Unwrap() error { return e.Err }

// NewExternalServiceError wraps err as an aborting external failure.
func NewExternalServiceError(service string, err error) *ExternalServiceError {
	return &ExternalServiceError{Service: service, Err: err}
}
