package framework

import "errors"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall encodes a tool invocation requested by the language model.
type ToolCall struct {
	ID   string                 `json:"id,omitempty"`
	Name string                 `json:"name"`
	Args map[string]interface{} `json:"args"`
}

// Message is one turn in a conversation. Assistant messages may carry tool
// calls instead of (or alongside) text; tool messages carry the result of one
// call and echo its ID so the model can correlate request and response.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	Name       string     `json:"name,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
}

// ErrEmptyMessage is returned when a message carries neither content nor tool
// calls.
var ErrEmptyMessage = errors.New("message has neither content nor tool calls")

// Validate enforces the message invariant: content, tool calls, or both.
func (m Message) Validate() error {
	if m.Content == "" && len(m.ToolCalls) == 0 {
		return ErrEmptyMessage
	}
	return nil
}

// Conversation is an ordered, append-only sequence of messages for one chat
// session. The workflow receives it by value, extends a copy, and returns the
// extended sequence; nothing in this package mutates, reorders, or removes
// messages already present.
type Conversation []Message

// Last returns the most recent message.
func (c Conversation) Last() (Message, bool) {
	if len(c) == 0 {
		return Message{}, false
	}
	return c[len(c)-1], true
}

// Clone copies the conversation so appends never alias the caller's slice.
func (c Conversation) Clone() Conversation {
	out := make(Conversation, len(c))
	copy(out, c)
	return out
}
