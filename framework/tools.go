package framework

import (
	"context"
	"fmt"
	"sync"
)

// Tool defines capabilities accessible to agents. Each implementation wraps
// an independently invokable unit of work, typically a single third-party API
// call. The metadata doubles as a schema the language model reasons about
// when deciding which tool to call.
type Tool interface {
	Name() string
	Description() string
	Schema() *Schema
	Execute(ctx context.Context, args map[string]interface{}) (*ToolResult, error)
}

// ToolResult is returned by every tool execution. Error carries a
// human-readable failure description that flows back into the conversation
// where the failure classifier can inspect it.
type ToolResult struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// Declaration is the model-facing description of one tool.
type Declaration struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Schema      *Schema `json:"schema"`
}

// ExecuteFunc is the execution body of a function-backed tool.
type ExecuteFunc func(ctx context.Context, args map[string]interface{}) (*ToolResult, error)

// FuncTool adapts a plain function into a Tool.
type FuncTool struct {
	name        string
	description string
	schema      *Schema
	fn          ExecuteFunc
}

// NewTool builds a function-backed tool. Structural problems (missing schema
// or execution function) surface at registration time, not at call time.
func NewTool(name, description string, schema *Schema, fn ExecuteFunc) *FuncTool {
	return &FuncTool{name: name, description: description, schema: schema, fn: fn}
}

func (t *FuncTool) Name() string        { return t.name }
func (t *FuncTool) Description() string { return t.description }
func (t *FuncTool) Schema() *Schema     { return t.schema }

// Execute runs the wrapped function.
func (t *FuncTool) Execute(ctx context.Context, args map[string]interface{}) (*ToolResult, error) {
	if t.fn == nil {
		return nil, fmt.Errorf("%w: tool %s has no execution function", ErrInvalidTool, t.name)
	}
	return t.fn(ctx, args)
}

func (t *FuncTool) validate() error {
	if t.fn == nil {
		return fmt.Errorf("%w: tool %q is missing a function implementation", ErrInvalidTool, t.name)
	}
	return nil
}

// validatable lets tool implementations expose registration-time checks
// beyond the structural ones the registry performs itself.
type validatable interface {
	validate() error
}

// ToolRegistry maintains the tools exposed to one agent. Registration order
// is preserved so DescribeAll is stable across calls; after workflow
// construction the registry is read-only and safe to share across
// concurrent sessions.
type ToolRegistry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewToolRegistry builds an empty registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: make(map[string]Tool)}
}

// Register adds a tool. Duplicate names and structurally incomplete tools
// are rejected immediately.
func (r *ToolRegistry) Register(tool Tool) error {
	if tool == nil {
		return fmt.Errorf("%w: nil tool", ErrInvalidTool)
	}
	if tool.Name() == "" {
		return fmt.Errorf("%w: tool has no name", ErrInvalidTool)
	}
	if tool.Schema() == nil {
		return fmt.Errorf("%w: tool %q is missing a schema", ErrInvalidTool, tool.Name())
	}
	if v, ok := tool.(validatable); ok {
		if err := v.validate(); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, tool.Name())
	}
	r.tools[tool.Name()] = tool
	r.order = append(r.order, tool.Name())
	return nil
}

// RegisterAll registers tools in order, stopping at the first failure.
func (r *ToolRegistry) RegisterAll(tools ...Tool) error {
	for _, tool := range tools {
		if err := r.Register(tool); err != nil {
			return err
		}
	}
	return nil
}

// Get fetches a tool by name.
func (r *ToolRegistry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// Len reports the number of registered tools.
func (r *ToolRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// DescribeAll returns the declarations for every registered tool in
// registration order.
func (r *ToolRegistry) DescribeAll() []Declaration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	decls := make([]Declaration, 0, len(r.order))
	for _, name := range r.order {
		tool := r.tools[name]
		decls = append(decls, Declaration{
			Name:        tool.Name(),
			Description: tool.Description(),
			Schema:      tool.Schema(),
		})
	}
	return decls
}

// Invoke looks up a tool, validates the arguments against its schema, and
// runs it exactly once. The registry never retries; retry policy belongs to
// the individual tool.
func (r *ToolRegistry) Invoke(ctx context.Context, name string, args map[string]interface{}) (*ToolResult, error) {
	tool, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if problems := tool.Schema().Validate(args); len(problems) > 0 {
		return nil, &SchemaValidationError{Tool: name, Fields: problems}
	}
	return tool.Execute(ctx, args)
}
