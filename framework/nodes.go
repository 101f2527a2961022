package framework

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// AgentFailureMessage is the synthetic assistant reply appended when the
// language model call fails. The router sees it like any other message, so a
// transient model failure degrades into a classified recovery instead of a
// crashed workflow.
const AgentFailureMessage = "Error executing agent."

// AgentNode wraps one language model bound to one tool registry. Each step
// sends the conversation plus the registry's declarations to the model and
// appends the assistant's reply.
type AgentNode struct {
	id           string
	Model        LanguageModel
	Registry     *ToolRegistry
	SystemPrompt string
	Options      *LLMOptions
}

// NewAgentNode builds an agent node.
func NewAgentNode(id string, model LanguageModel, registry *ToolRegistry, systemPrompt string, options *LLMOptions) *AgentNode {
	return &AgentNode{id: id, Model: model, Registry: registry, SystemPrompt: systemPrompt, Options: options}
}

// ID implements Node.
func (n *AgentNode) ID() string { return n.id }

// Execute asks the model for the next assistant message. Model failures are
// absorbed into AgentFailureMessage rather than propagated; the workflow
// must never end mid-conversation because of a transient completion error.
func (n *AgentNode) Execute(ctx context.Context, conv Conversation) ([]Message, error) {
	messages := make([]Message, 0, len(conv)+1)
	if n.SystemPrompt != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: n.SystemPrompt})
	}
	messages = append(messages, conv...)

	var decls []Declaration
	if n.Registry != nil {
		decls = n.Registry.DescribeAll()
	}
	resp, err := n.Model.ChatWithTools(ctx, messages, decls, n.Options)
	if err != nil || resp == nil || (resp.Text == "" && len(resp.ToolCalls) == 0) {
		return []Message{{Role: RoleAssistant, Content: AgentFailureMessage}}, nil
	}
	return []Message{{Role: RoleAssistant, Content: resp.Text, ToolCalls: resp.ToolCalls}}, nil
}

// ToolNode executes the tool calls requested by the preceding assistant
// message. Calls are dispatched concurrently (they are independent network
// requests) but results are appended in original request order so the model
// can correlate them 1:1 with its requests.
type ToolNode struct {
	id       string
	Registry *ToolRegistry
}

// NewToolNode builds a tool execution node over a registry.
func NewToolNode(id string, registry *ToolRegistry) *ToolNode {
	return &ToolNode{id: id, Registry: registry}
}

// ID implements Node.
func (n *ToolNode) ID() string { return n.id }

// Execute runs every requested call and returns one tool message per call.
// Tool failures of any kind (unknown tool, invalid arguments, execution
// error) become tool messages carrying the error text; they never abort the
// workflow.
func (n *ToolNode) Execute(ctx context.Context, conv Conversation) ([]Message, error) {
	last, ok := conv.Last()
	if !ok || len(last.ToolCalls) == 0 {
		return nil, nil
	}
	results := make([]Message, len(last.ToolCalls))
	var wg sync.WaitGroup
	for i, call := range last.ToolCalls {
		wg.Add(1)
		go func(i int, call ToolCall) {
			defer wg.Done()
			results[i] = Message{
				Role:       RoleTool,
				Name:       call.Name,
				ToolCallID: call.ID,
				Content:    n.invoke(ctx, call),
			}
		}(i, call)
	}
	wg.Wait()
	return results, nil
}

func (n *ToolNode) invoke(ctx context.Context, call ToolCall) string {
	result, err := n.Registry.Invoke(ctx, call.Name, call.Args)
	if err != nil {
		return err.Error()
	}
	if result == nil {
		return fmt.Sprintf("tool %s returned no result", call.Name)
	}
	if result.Error != "" {
		return result.Error
	}
	payload, err := json.Marshal(result.Data)
	if err != nil {
		return fmt.Sprintf("tool %s produced an unserializable result: %v", call.Name, err)
	}
	return string(payload)
}

// RecoveryNode classifies the last message and appends a corrective
// assistant message steering the next agent step. It never terminates the
// workflow itself; the graph's cycle bound is the only limit on its loop.
type RecoveryNode struct {
	id         string
	Classifier *Classifier
}

// NewRecoveryNode builds a recovery node around a classifier.
func NewRecoveryNode(id string, classifier *Classifier) *RecoveryNode {
	return &RecoveryNode{id: id, Classifier: classifier}
}

// ID implements Node.
func (n *RecoveryNode) ID() string { return n.id }

// Execute appends the classification-specific remediation message.
func (n *RecoveryNode) Execute(ctx context.Context, conv Conversation) ([]Message, error) {
	last, _ := conv.Last()
	class := n.Classifier.Classify(last.Content)
	return []Message{{Role: RoleAssistant, Content: n.Classifier.Suggestion(class)}}, nil
}

// DelegateNode hands the conversation to a specialized sub-workflow (for
// example the Salesforce agent) and contributes the sub-run's messages back
// into the shared conversation.
type DelegateNode struct {
	id       string
	Workflow *Workflow
}

// NewDelegateNode wraps a specialist workflow as a single graph node.
func NewDelegateNode(id string, workflow *Workflow) *DelegateNode {
	return &DelegateNode{id: id, Workflow: workflow}
}

// ID implements Node.
func (n *DelegateNode) ID() string { return n.id }

// Execute runs the sub-workflow and returns its extension of the
// conversation. A specialist that cannot converge is reported like a model
// failure so the primary loop keeps control.
func (n *DelegateNode) Execute(ctx context.Context, conv Conversation) ([]Message, error) {
	extended, err := n.Workflow.Invoke(ctx, conv)
	if err != nil {
		return []Message{{Role: RoleAssistant, Content: AgentFailureMessage}}, nil
	}
	return extended[len(conv):], nil
}
