package framework

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateTool is returned when registering a tool whose name is
	// already taken.
	ErrDuplicateTool = errors.New("duplicate tool name")
	// ErrInvalidTool is returned when a tool lacks a name, a schema, or an
	// execution function.
	ErrInvalidTool = errors.New("invalid tool definition")
	// ErrUnknownTool is returned when invoking a tool that was never
	// registered.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrEmptyConversation is returned when a workflow is invoked without at
	// least one message.
	ErrEmptyConversation = errors.New("conversation is empty")
	// ErrCycleLimitExceeded is the only fatal workflow condition: the state
	// machine kept looping past its configured cycle budget.
	ErrCycleLimitExceeded = errors.New("cycle limit exceeded")
)

// SchemaValidationError reports arguments that do not satisfy a tool's
// declared input schema. Fields lists every offending field.
type SchemaValidationError struct {
	Tool   string
	Fields []string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("tool %s: invalid arguments: %s", e.Tool, strings.Join(e.Fields, ", "))
}
