package framework

import (
	"context"
	"errors"
	"fmt"
)

// Node identifiers used by the workflow graph.
const (
	nodeAgent       = "agent"
	nodeTools       = "tools"
	nodeRecover     = "recover"
	delegatePrefix  = "delegate:"
	defaultMaxCycle = 10
)

// WorkflowConfig assembles a workflow. Agent is required; everything else
// has defaults.
type WorkflowConfig struct {
	// Agent is the primary agent node the state machine loops through.
	Agent *AgentNode
	// Router decides transitions after each agent step. Defaults to a
	// router with the stock classifier and no delegations.
	Router *Router
	// Delegates maps delegation targets (as named in the router's rules) to
	// specialist workflows.
	Delegates map[string]*Workflow
	// MaxCycles bounds how many times any node may run per invocation.
	MaxCycles int
	// Telemetry receives execution events. Optional.
	Telemetry Telemetry
}

// Workflow is the orchestrator: a compiled state machine that alternates
// between the agent node and tool execution, with recovery and delegation
// branches, until the router terminates the run or the cycle bound trips.
//
//	start -> agent -> {tools | delegate:<name> | recover | end}
//	tools/delegate/recover -> agent
//
// A workflow is immutable after construction and safe for concurrent use;
// each invocation owns its conversation copy and shares nothing else.
type Workflow struct {
	graph  *Graph
	router *Router
}

// NewWorkflow compiles the state machine. Construction fails on structural
// problems (missing agent, delegation rules without a matching specialist)
// so invocation can assume a well-formed graph.
func NewWorkflow(cfg WorkflowConfig) (*Workflow, error) {
	if cfg.Agent == nil {
		return nil, errors.New("workflow requires an agent node")
	}
	if cfg.Agent.Model == nil {
		return nil, errors.New("agent node requires a language model")
	}
	if cfg.Agent.Registry == nil {
		cfg.Agent.Registry = NewToolRegistry()
	}
	router := cfg.Router
	if router == nil {
		router = NewRouter()
	}
	if router.Classifier == nil {
		router.Classifier = NewClassifier()
	}
	for _, rule := range router.Delegations {
		if _, ok := cfg.Delegates[rule.Target]; !ok {
			return nil, fmt.Errorf("delegation target %q has no workflow", rule.Target)
		}
	}

	graph := NewGraph()
	graph.SetTelemetry(cfg.Telemetry)
	if cfg.MaxCycles > 0 {
		graph.SetMaxVisits(cfg.MaxCycles)
	} else {
		graph.SetMaxVisits(defaultMaxCycle)
	}

	agent := &AgentNode{
		id:           nodeAgent,
		Model:        cfg.Agent.Model,
		Registry:     cfg.Agent.Registry,
		SystemPrompt: cfg.Agent.SystemPrompt,
		Options:      cfg.Agent.Options,
	}
	tools := NewToolNode(nodeTools, agent.Registry)
	recovery := NewRecoveryNode(nodeRecover, router.Classifier)

	if err := graph.AddNode(agent); err != nil {
		return nil, err
	}
	if err := graph.AddNode(tools); err != nil {
		return nil, err
	}
	if err := graph.AddNode(recovery); err != nil {
		return nil, err
	}
	for name, sub := range cfg.Delegates {
		if err := graph.AddNode(NewDelegateNode(delegatePrefix+name, sub)); err != nil {
			return nil, err
		}
	}
	if err := graph.SetStart(nodeAgent); err != nil {
		return nil, err
	}

	// Edge order mirrors the router's precedence; each condition recomputes
	// the (pure) routing decision against the latest message.
	if err := graph.AddEdge(nodeAgent, nodeTools, func(conv Conversation) bool {
		return router.Decide(conv).Decision == DecideExecuteTools
	}); err != nil {
		return nil, err
	}
	for name := range cfg.Delegates {
		target := name
		if err := graph.AddEdge(nodeAgent, delegatePrefix+target, func(conv Conversation) bool {
			route := router.Decide(conv)
			return route.Decision == DecideDelegate && route.Target == target
		}); err != nil {
			return nil, err
		}
	}
	if err := graph.AddEdge(nodeAgent, nodeRecover, func(conv Conversation) bool {
		return router.Decide(conv).Decision == DecideRecover
	}); err != nil {
		return nil, err
	}
	if err := graph.AddEdge(nodeTools, nodeAgent, nil); err != nil {
		return nil, err
	}
	if err := graph.AddEdge(nodeRecover, nodeAgent, nil); err != nil {
		return nil, err
	}
	for name := range cfg.Delegates {
		if err := graph.AddEdge(delegatePrefix+name, nodeAgent, nil); err != nil {
			return nil, err
		}
	}

	return &Workflow{graph: graph, router: router}, nil
}

// Invoke runs the state machine to completion and returns the extended
// conversation. The input is never mutated, reordered, or truncated: the
// output always begins with the input messages. Apart from
// ErrCycleLimitExceeded, the returned conversation ends with a displayable
// assistant message even when models or tools fail along the way.
func (w *Workflow) Invoke(ctx context.Context, conv Conversation) (Conversation, error) {
	return w.InvokeSession(ctx, "", conv)
}

// InvokeSession is Invoke with a session identifier attached to telemetry.
func (w *Workflow) InvokeSession(ctx context.Context, sessionID string, conv Conversation) (Conversation, error) {
	if len(conv) == 0 {
		return conv, ErrEmptyConversation
	}
	return w.graph.Execute(ctx, conv, sessionID)
}

// Router exposes the routing function, mainly for tests and diagnostics.
func (w *Workflow) Router() *Router { return w.router }
