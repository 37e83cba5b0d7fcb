// Package tools implements the Tool contract, the registry, and the
// built-in tools exposed to the agent loop.
package tools

import (
	"context"
	"fmt"
)

// ErrorKind classifies a ToolError for retry and logging decisions.
type ErrorKind int

const (
	// ErrNotFound means the registry has no tool with the requested name.
	ErrNotFound ErrorKind = iota
	// ErrInvalidArguments means the call's arguments failed schema validation.
	ErrInvalidArguments
	// ErrExecutionFailed means the tool ran and failed, non-recoverably.
	ErrExecutionFailed
	// ErrExecutionFailedRecoverable means the tool ran and failed in a way a
	// retry might resolve.
	ErrExecutionFailedRecoverable
	// ErrPermissionDenied means a safety primitive rejected the call.
	ErrPermissionDenied
	// ErrTimeout means the tool exceeded its execution deadline.
	ErrTimeout
)

// ToolError is returned by Tool.Execute and by registry dispatch.
type ToolError struct {
	Kind     ErrorKind
	Tool     string
	Message  string
	Duration uint64 // seconds, set for ErrTimeout
}

func (e *ToolError) Error() string {
	switch e.Kind {
	case ErrNotFound:
		return fmt.Sprintf("tool not found: %s", e.Tool)
	case ErrInvalidArguments:
		return fmt.Sprintf("invalid arguments for tool %q: %s", e.Tool, e.Message)
	case ErrExecutionFailed, ErrExecutionFailedRecoverable:
		return fmt.Sprintf("tool %q execution failed: %s", e.Tool, e.Message)
	case ErrPermissionDenied:
		return fmt.Sprintf("permission denied for tool %q: %s", e.Tool, e.Message)
	case ErrTimeout:
		return fmt.Sprintf("tool %q timed out after %ds", e.Tool, e.Duration)
	default:
		return fmt.Sprintf("tool %q error: %s", e.Tool, e.Message)
	}
}

// IsRecoverable reports whether retrying the call might succeed. Per the
// contract, this classification is consulted only for logging and metrics;
// the agent loop does not automatically retry on it.
func (e *ToolError) IsRecoverable() bool {
	return e.Kind == ErrTimeout || e.Kind == ErrExecutionFailedRecoverable
}

// ToolName returns the tool name the error refers to, or "<unnamed>" if empty.
func (e *ToolError) ToolName() string {
	if e.Tool == "" {
		return "<unnamed>"
	}
	return e.Tool
}

// NotFoundError builds an ErrNotFound ToolError.
func NotFoundError(tool string) *ToolError {
	return &ToolError{Kind: ErrNotFound, Tool: tool}
}

// InvalidArgumentsError builds an ErrInvalidArguments ToolError.
func InvalidArgumentsError(tool, message string) *ToolError {
	return &ToolError{Kind: ErrInvalidArguments, Tool: tool, Message: message}
}

// ExecutionFailedError builds a non-recoverable ErrExecutionFailed ToolError.
func ExecutionFailedError(tool, message string) *ToolError {
	return &ToolError{Kind: ErrExecutionFailed, Tool: tool, Message: message}
}

// ExecutionFailedRecoverableError builds a recoverable execution failure.
func ExecutionFailedRecoverableError(tool, message string) *ToolError {
	return &ToolError{Kind: ErrExecutionFailedRecoverable, Tool: tool, Message: message}
}

// PermissionDeniedError builds an ErrPermissionDenied ToolError.
func PermissionDeniedError(tool, message string) *ToolError {
	return &ToolError{Kind: ErrPermissionDenied, Tool: tool, Message: message}
}

// TimeoutError builds an ErrTimeout ToolError.
func TimeoutError(tool string, durationSeconds uint64) *ToolError {
	return &ToolError{Kind: ErrTimeout, Tool: tool, Duration: durationSeconds}
}

// ExecutionContext carries the conversation context a tool executes within.
// Channel/ChatID are empty when the tool runs outside a conversation (tests,
// direct API calls).
type ExecutionContext struct {
	Channel string
	ChatID  string
}

// FunctionDefinition is the OpenAI-compatible function-calling shape used to
// describe a tool to the LLM.
type FunctionDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// Definition wraps a FunctionDefinition in the provider wire shape.
type Definition struct {
	Type     string             `json:"type"`
	Function FunctionDefinition `json:"function"`
}

// NewDefinition builds a Definition for the given name/description/schema.
func NewDefinition(name, description string, parameters map[string]interface{}) Definition {
	return Definition{
		Type: "function",
		Function: FunctionDefinition{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
	}
}

// Tool is the contract every built-in and user-defined tool implements.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]interface{}
	Execute(ctx context.Context, args map[string]interface{}, execCtx ExecutionContext) (string, *ToolError)
}

// ToDefinition builds the LLM-facing Definition for a Tool.
func ToDefinition(t Tool) Definition {
	return NewDefinition(t.Name(), t.Description(), t.Parameters())
}

// validateJSONSchema performs the same minimal structural check the
// original implementation does: the schema must be an object with
// type == "object", and properties/required, if present, must be the
// expected JSON kinds.
func validateJSONSchema(schema map[string]interface{}) error {
	if schema == nil {
		return fmt.Errorf("schema must be an object")
	}

	schemaType, _ := schema["type"].(string)
	if schemaType != "object" {
		return fmt.Errorf("schema type must be 'object' for tool parameters")
	}

	if props, ok := schema["properties"]; ok {
		if _, isMap := props.(map[string]interface{}); !isMap {
			return fmt.Errorf("schema 'properties' must be an object")
		}
	}

	if required, ok := schema["required"]; ok {
		if _, isSlice := required.([]interface{}); !isSlice {
			return fmt.Errorf("schema 'required' must be an array")
		}
	}

	return nil
}

// ValidateArgsAgainstSchema checks that args satisfies every required field
// named in schema's "required" array, after first validating schema's own
// shape.
func ValidateArgsAgainstSchema(args map[string]interface{}, schema map[string]interface{}, toolName string) *ToolError {
	if err := validateJSONSchema(schema); err != nil {
		return ExecutionFailedError(toolName, fmt.Sprintf("invalid tool schema: %v", err))
	}

	required, _ := schema["required"].([]interface{})
	for _, r := range required {
		field, ok := r.(string)
		if !ok {
			continue
		}
		if _, present := args[field]; !present {
			return InvalidArgumentsError(toolName, fmt.Sprintf("missing required parameter '%s'", field))
		}
	}

	return nil
}
