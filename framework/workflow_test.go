package framework

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

// scriptedModel replays canned responses in order; after the script runs out
// it repeats the last entry. An entry with a non-nil err simulates a model
// failure.
type scriptedModel struct {
	mu      sync.Mutex
	script  []scriptStep
	calls   int
	lastMsg []Message
}

type scriptStep struct {
	resp *LLMResponse
	err  error
}

func (m *scriptedModel) Chat(ctx context.Context, messages []Message, options *LLMOptions) (*LLMResponse, error) {
	return m.ChatWithTools(ctx, messages, nil, options)
}

func (m *scriptedModel) ChatWithTools(ctx context.Context, messages []Message, tools []Declaration, options *LLMOptions) (*LLMResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastMsg = messages
	idx := m.calls
	m.calls++
	if idx >= len(m.script) {
		idx = len(m.script) - 1
	}
	step := m.script[idx]
	return step.resp, step.err
}

func weatherRegistry(t *testing.T) *ToolRegistry {
	t.Helper()
	registry := NewToolRegistry()
	weather := NewTool("get_weather", "returns the current weather", ObjectSchema(nil),
		func(ctx context.Context, args map[string]interface{}) (*ToolResult, error) {
			return &ToolResult{Success: true, Data: map[string]interface{}{"forecast": "sunny"}}, nil
		})
	if err := registry.Register(weather); err != nil {
		t.Fatalf("register weather: %v", err)
	}
	return registry
}

func buildWorkflow(t *testing.T, model LanguageModel, registry *ToolRegistry, maxCycles int) *Workflow {
	t.Helper()
	wf, err := NewWorkflow(WorkflowConfig{
		Agent:     NewAgentNode("agent", model, registry, "You are IRIS.", nil),
		MaxCycles: maxCycles,
	})
	if err != nil {
		t.Fatalf("new workflow: %v", err)
	}
	return wf
}

// TestWorkflowWeatherScenario is the canonical happy path: the agent
// requests the weather tool, the tool runs, and the agent then replies with
// text. The final conversation has exactly four messages.
func TestWorkflowWeatherScenario(t *testing.T) {
	model := &scriptedModel{script: []scriptStep{
		{resp: &LLMResponse{ToolCalls: []ToolCall{{ID: "call_1", Name: "get_weather", Args: map[string]interface{}{}}}}},
		{resp: &LLMResponse{Text: "It's sunny today."}},
	}}
	wf := buildWorkflow(t, model, weatherRegistry(t), 10)

	input := Conversation{{Role: RoleUser, Content: "What's the weather?"}}
	out, err := wf.Invoke(context.Background(), input)
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if len(out) != 4 {
		t.Fatalf("expected 4 messages, got %d: %+v", len(out), out)
	}
	if out[1].Role != RoleAssistant || len(out[1].ToolCalls) != 1 {
		t.Fatalf("expected tool-call assistant message, got %+v", out[1])
	}
	if out[2].Role != RoleTool || !strings.Contains(out[2].Content, "sunny") {
		t.Fatalf("expected tool result message, got %+v", out[2])
	}
	if out[3].Role != RoleAssistant || out[3].Content != "It's sunny today." {
		t.Fatalf("expected final reply, got %+v", out[3])
	}
}

// TestWorkflowAppendOnly verifies the output always begins with the exact
// input sequence.
func TestWorkflowAppendOnly(t *testing.T) {
	model := &scriptedModel{script: []scriptStep{
		{resp: &LLMResponse{Text: "Done."}},
	}}
	wf := buildWorkflow(t, model, nil, 10)

	input := Conversation{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "hi"},
		{Role: RoleUser, Content: "wrap up"},
	}
	out, err := wf.Invoke(context.Background(), input.Clone())
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if len(out) < len(input) {
		t.Fatalf("output shorter than input")
	}
	for i := range input {
		if out[i].Role != input[i].Role || out[i].Content != input[i].Content {
			t.Fatalf("input message %d changed: %+v", i, out[i])
		}
	}
}

// TestWorkflowToolOrderPreserved requests several tools in one assistant
// message; the tool results must land in request order even though the
// executions complete in reverse.
func TestWorkflowToolOrderPreserved(t *testing.T) {
	registry := NewToolRegistry()
	const n = 5
	for i := 0; i < n; i++ {
		i := i
		name := fmt.Sprintf("tool_%d", i)
		tool := NewTool(name, "ordered test tool", ObjectSchema(nil),
			func(ctx context.Context, args map[string]interface{}) (*ToolResult, error) {
				// Later requests finish first.
				time.Sleep(time.Duration(n-i) * 5 * time.Millisecond)
				return &ToolResult{Success: true, Data: map[string]interface{}{"index": i}}, nil
			})
		if err := registry.Register(tool); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
	calls := make([]ToolCall, n)
	for i := 0; i < n; i++ {
		calls[i] = ToolCall{ID: fmt.Sprintf("call_%d", i), Name: fmt.Sprintf("tool_%d", i), Args: map[string]interface{}{}}
	}
	model := &scriptedModel{script: []scriptStep{
		{resp: &LLMResponse{ToolCalls: calls}},
		{resp: &LLMResponse{Text: "All tools done."}},
	}}
	wf := buildWorkflow(t, model, registry, 10)

	out, err := wf.Invoke(context.Background(), Conversation{{Role: RoleUser, Content: "run everything"}})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	// user, assistant(tool calls), n tool results, final assistant.
	if len(out) != n+3 {
		t.Fatalf("expected %d messages, got %d", n+3, len(out))
	}
	for i := 0; i < n; i++ {
		msg := out[2+i]
		if msg.Role != RoleTool {
			t.Fatalf("message %d is %s, want tool", 2+i, msg.Role)
		}
		if msg.ToolCallID != fmt.Sprintf("call_%d", i) {
			t.Fatalf("position %d carries %s, want call_%d", i, msg.ToolCallID, i)
		}
	}
}

// TestWorkflowUnknownTool confirms a model hallucinating a tool name yields
// a tool message with the error text and the workflow still finishes with an
// assistant reply.
func TestWorkflowUnknownTool(t *testing.T) {
	model := &scriptedModel{script: []scriptStep{
		{resp: &LLMResponse{ToolCalls: []ToolCall{{ID: "call_1", Name: "does_not_exist", Args: map[string]interface{}{}}}}},
		{resp: &LLMResponse{Text: "That tool is unavailable."}},
	}}
	wf := buildWorkflow(t, model, weatherRegistry(t), 10)

	out, err := wf.Invoke(context.Background(), Conversation{{Role: RoleUser, Content: "use the magic tool"}})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if out[2].Role != RoleTool || !strings.Contains(out[2].Content, "unknown tool") {
		t.Fatalf("expected unknown-tool message, got %+v", out[2])
	}
	last, _ := out.Last()
	if last.Role != RoleAssistant || last.Content == "" {
		t.Fatalf("expected displayable final message, got %+v", last)
	}
}

// TestWorkflowRecoveryLoop feeds a Salesforce failure through the loop: the
// tool fails, the router picks recovery, the recovery node appends the
// remediation, and the agent answers.
func TestWorkflowRecoveryLoop(t *testing.T) {
	registry := NewToolRegistry()
	failing := NewTool("soql_query", "runs a SOQL query",
		ObjectSchema(map[string]Property{"query": {Type: "string"}}, "query"),
		func(ctx context.Context, args map[string]interface{}) (*ToolResult, error) {
			return &ToolResult{Success: false, Error: "Salesforce API Error: INVALID_FIELD"}, nil
		})
	if err := registry.Register(failing); err != nil {
		t.Fatalf("register: %v", err)
	}
	model := &scriptedModel{script: []scriptStep{
		{resp: &LLMResponse{ToolCalls: []ToolCall{{ID: "call_1", Name: "soql_query", Args: map[string]interface{}{"query": "SELECT Bogus FROM Account"}}}}},
		{resp: &LLMResponse{Text: "Salesforce API Error: INVALID_FIELD"}},
		{resp: &LLMResponse{Text: "I will describe the object first and retry."}},
	}}
	wf := buildWorkflow(t, model, registry, 10)

	out, err := wf.Invoke(context.Background(), Conversation{{Role: RoleUser, Content: "how many accounts do we have"}})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	classifier := wf.Router().Classifier
	found := false
	for _, msg := range out {
		if msg.Role == RoleAssistant && msg.Content == classifier.Suggestion(FailureSalesforce) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected recovery suggestion in conversation: %+v", out)
	}
	last, _ := out.Last()
	if last.Content != "I will describe the object first and retry." {
		t.Fatalf("unexpected final message: %+v", last)
	}
}

// TestWorkflowCycleLimit drives a model that always requests the same tool
// call; the run must stop with ErrCycleLimitExceeded instead of hanging.
func TestWorkflowCycleLimit(t *testing.T) {
	model := &scriptedModel{script: []scriptStep{
		{resp: &LLMResponse{ToolCalls: []ToolCall{{ID: "call", Name: "get_weather", Args: map[string]interface{}{}}}}},
	}}
	wf := buildWorkflow(t, model, weatherRegistry(t), 6)

	done := make(chan struct{})
	var out Conversation
	var err error
	go func() {
		out, err = wf.Invoke(context.Background(), Conversation{{Role: RoleUser, Content: "loop forever"}})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("workflow did not terminate")
	}
	if !errors.Is(err, ErrCycleLimitExceeded) {
		t.Fatalf("expected ErrCycleLimitExceeded, got %v", err)
	}
	if model.calls != 6 {
		t.Fatalf("expected 6 agent cycles, got %d", model.calls)
	}
	if len(out) == 0 {
		t.Fatal("partial conversation should still be returned")
	}
}

// TestWorkflowFailSoftOnModelError makes the model reject; the run still
// returns a conversation ending in a non-empty assistant message and no
// error escapes Invoke.
func TestWorkflowFailSoftOnModelError(t *testing.T) {
	model := &scriptedModel{script: []scriptStep{
		{err: errors.New("upstream timeout")},
	}}
	wf := buildWorkflow(t, model, nil, 10)

	out, err := wf.Invoke(context.Background(), Conversation{{Role: RoleUser, Content: "hello"}})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	last, _ := out.Last()
	if last.Role != RoleAssistant || last.Content != AgentFailureMessage {
		t.Fatalf("expected synthetic failure message, got %+v", last)
	}
}

// TestWorkflowEmptyConversation confirms invocation without messages is
// rejected before the router ever runs.
func TestWorkflowEmptyConversation(t *testing.T) {
	model := &scriptedModel{script: []scriptStep{{resp: &LLMResponse{Text: "hi"}}}}
	wf := buildWorkflow(t, model, nil, 10)
	if _, err := wf.Invoke(context.Background(), nil); !errors.Is(err, ErrEmptyConversation) {
		t.Fatalf("expected ErrEmptyConversation, got %v", err)
	}
}

// TestWorkflowDelegation routes a CRM request to a specialist workflow and
// then lets the primary agent wrap up. The specialist's messages appear in
// the shared conversation between the trigger and the final reply.
func TestWorkflowDelegation(t *testing.T) {
	subModel := &scriptedModel{script: []scriptStep{
		{resp: &LLMResponse{Text: "CRM update complete: 3 records touched."}},
	}}
	specialist, err := NewWorkflow(WorkflowConfig{
		Agent: NewAgentNode("agent", subModel, nil, "You are the CRM specialist.", nil),
	})
	if err != nil {
		t.Fatalf("specialist workflow: %v", err)
	}

	primaryModel := &scriptedModel{script: []scriptStep{
		{resp: &LLMResponse{Text: "Routing this salesforce request to the specialist."}},
		{resp: &LLMResponse{Text: "Your CRM update is done."}},
	}}
	router := NewRouter().Delegate("salesforce", "salesforce")
	wf, err := NewWorkflow(WorkflowConfig{
		Agent:     NewAgentNode("agent", primaryModel, nil, "You are IRIS.", nil),
		Router:    router,
		Delegates: map[string]*Workflow{"salesforce": specialist},
		MaxCycles: 8,
	})
	if err != nil {
		t.Fatalf("primary workflow: %v", err)
	}

	out, err := wf.Invoke(context.Background(), Conversation{{Role: RoleUser, Content: "update my opportunities"}})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	var sawSpecialist bool
	for _, msg := range out {
		if msg.Content == "CRM update complete: 3 records touched." {
			sawSpecialist = true
		}
	}
	if !sawSpecialist {
		t.Fatalf("specialist reply missing from conversation: %+v", out)
	}
	last, _ := out.Last()
	if last.Content != "Your CRM update is done." {
		t.Fatalf("unexpected final message: %+v", last)
	}
}

// TestWorkflowRejectsUnboundDelegation ensures construction fails when the
// router names a target with no specialist wired in.
func TestWorkflowRejectsUnboundDelegation(t *testing.T) {
	model := &scriptedModel{script: []scriptStep{{resp: &LLMResponse{Text: "hi"}}}}
	_, err := NewWorkflow(WorkflowConfig{
		Agent:  NewAgentNode("agent", model, nil, "", nil),
		Router: NewRouter().Delegate("salesforce", "salesforce"),
	})
	if err == nil {
		t.Fatal("expected construction error for unbound delegation target")
	}
}
