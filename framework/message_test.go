package framework

import "testing"

// TestMessageValidate covers the content-or-tool-calls invariant.
func TestMessageValidate(t *testing.T) {
	cases := []struct {
		name string
		msg  Message
		ok   bool
	}{
		{"content only", Message{Role: RoleUser, Content: "hi"}, true},
		{"tool calls only", Message{Role: RoleAssistant, ToolCalls: []ToolCall{{Name: "x"}}}, true},
		{"both", Message{Role: RoleAssistant, Content: "checking", ToolCalls: []ToolCall{{Name: "x"}}}, true},
		{"neither", Message{Role: RoleAssistant}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

// TestConversationClone ensures appends to a clone never reach the original
// backing array.
func TestConversationClone(t *testing.T) {
	original := make(Conversation, 0, 8)
	original = append(original, Message{Role: RoleUser, Content: "one"})
	clone := original.Clone()
	clone = append(clone, Message{Role: RoleAssistant, Content: "two"})
	clone[0].Content = "mutated"

	if len(original) != 1 || original[0].Content != "one" {
		t.Fatalf("original changed: %+v", original)
	}
}

// TestConversationLast covers the empty and non-empty cases.
func TestConversationLast(t *testing.T) {
	var empty Conversation
	if _, ok := empty.Last(); ok {
		t.Fatal("empty conversation reported a last message")
	}
	conv := Conversation{{Role: RoleUser, Content: "a"}, {Role: RoleAssistant, Content: "b"}}
	last, ok := conv.Last()
	if !ok || last.Content != "b" {
		t.Fatalf("unexpected last message: %+v", last)
	}
}
