// Package tool implements the capability subsystem that lets assistants
// invoke structured external actions (calendar, mail, documents, search,
// consultations) with schema-described arguments and uniform error handling.
//
// Every capability, including the consultation bridge that exposes one
// assistant to another, implements the same Tool interface and is looked up
// by name in a per-assistant Registry.
package tool

import (
	"context"
	"fmt"

	"github.com/billriesner/vongab2b/internal/util"
)

// Tool is the uniform capability contract. Implementations should provide a
// clear snake_case name, a description the model can act on, a minimal JSON
// schema for their arguments, and a synchronous Invoke.
//
// Invoke returns the textual tool result visible to the model. Failures the
// model can reasonably react to (bad arguments, business-rule violations)
// must be returned as result text or as a *ToolError, never as a panic.
type Tool interface {
	// Name returns the unique identifier for this tool (snake_case).
	Name() string

	// Description returns a human-readable description provided to the model
	// so it understands when and how to use the tool.
	Description() string

	// Parameters returns a JSON schema describing the expected arguments.
	Parameters() map[string]any

	// Invoke executes the tool with already-decoded arguments.
	Invoke(ctx context.Context, args map[string]any) (string, error)
}

// ValidationError represents parameter validation errors with detailed information.
type ValidationError = util.ValidationError

// Error codes attached to ToolError for uniform downstream handling.
const (
	CodeValidation = "VALIDATION_ERROR" // malformed or logically impossible input
	CodePolicy     = "POLICY_VIOLATION" // well-formed input violating a business rule
	CodeExecution  = "EXECUTION_ERROR"  // underlying implementation failed
	CodeUnknown    = "UNKNOWN_TOOL"     // requested tool name not registered
)

// ToolError represents errors that occur during tool execution. The
// dispatcher renders ToolErrors as ordinary tool-result text so the model
// can see and react to the failure on its next turn.
type ToolError struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}
