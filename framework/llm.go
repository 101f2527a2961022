package framework

import "context"

// LLMOptions configures language model calls. Keeping the options struct in
// the framework avoids hard-coding provider-specific fields in agent code.
type LLMOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// LLMResponse is the result of a language model invocation. A response may
// carry text, tool-call requests, or both.
type LLMResponse struct {
	Text         string         `json:"text,omitempty"`
	FinishReason string         `json:"finish_reason,omitempty"`
	Usage        map[string]int `json:"usage,omitempty"`
	ToolCalls    []ToolCall     `json:"tool_calls,omitempty"`
}

// LanguageModel is the outbound model port. Implementations must support
// tool-declaration-aware completions: given the conversation and the
// available declarations, the model may request tool executions instead of,
// or alongside, a textual reply.
type LanguageModel interface {
	Chat(ctx context.Context, messages []Message, options *LLMOptions) (*LLMResponse, error)
	ChatWithTools(ctx context.Context, messages []Message, tools []Declaration, options *LLMOptions) (*LLMResponse, error)
}
