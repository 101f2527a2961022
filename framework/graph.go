package framework

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Node describes the unit of work executed inside a graph. Execute receives
// the conversation so far and returns only the messages it appends; nodes
// never mutate the input.
type Node interface {
	ID() string
	Execute(ctx context.Context, conv Conversation) ([]Message, error)
}

// ConditionFunc determines whether an edge should be followed.
type ConditionFunc func(conv Conversation) bool

// Edge describes a transition between nodes.
type Edge struct {
	From      string
	To        string
	Condition ConditionFunc
}

// Graph orchestrates a workflow of nodes. It behaves like a tiny,
// deterministic state machine: nodes are registered ahead of time, edges
// describe transitions, and Execute walks the graph while recording
// telemetry and enforcing a bounded number of node visits so a router that
// never terminates cannot loop forever. Once built, a graph is read-only and
// safe to share across concurrent session executions; all per-run state
// lives on the stack of Execute.
type Graph struct {
	nodes       map[string]Node
	edges       map[string][]Edge
	startNodeID string
	maxVisits   int
	telemetry   Telemetry
}

// NewGraph creates a graph with sane defaults.
func NewGraph() *Graph {
	return &Graph{
		nodes:     make(map[string]Node),
		edges:     make(map[string][]Edge),
		maxVisits: 25,
	}
}

// SetTelemetry wires a telemetry sink for execution traces.
func (g *Graph) SetTelemetry(t Telemetry) {
	g.telemetry = t
}

// SetMaxVisits bounds how many times any single node may run in one
// execution.
func (g *Graph) SetMaxVisits(n int) {
	if n > 0 {
		g.maxVisits = n
	}
}

// emit sends telemetry events when a sink is configured; a no-op otherwise.
func (g *Graph) emit(event Event) {
	if g.telemetry == nil {
		return
	}
	g.telemetry.Emit(event)
}

// SetStart marks the starting node.
func (g *Graph) SetStart(id string) error {
	if _, ok := g.nodes[id]; !ok {
		return fmt.Errorf("start node %s not found", id)
	}
	g.startNodeID = id
	return nil
}

// AddNode registers a node.
func (g *Graph) AddNode(node Node) error {
	if _, exists := g.nodes[node.ID()]; exists {
		return fmt.Errorf("node %s already exists", node.ID())
	}
	g.nodes[node.ID()] = node
	return nil
}

// AddEdge wires two nodes together. Edges are evaluated in insertion order;
// the first edge whose condition passes (nil conditions always pass) is
// followed, and a node with no passing edge ends the run.
func (g *Graph) AddEdge(from, to string, condition ConditionFunc) error {
	if _, ok := g.nodes[from]; !ok {
		return fmt.Errorf("node %s not defined", from)
	}
	if _, ok := g.nodes[to]; !ok {
		return fmt.Errorf("node %s not defined", to)
	}
	g.edges[from] = append(g.edges[from], Edge{From: from, To: to, Condition: condition})
	return nil
}

// Validate ensures the graph is runnable and all references exist.
func (g *Graph) Validate() error {
	if len(g.nodes) == 0 {
		return errors.New("graph has no nodes")
	}
	if g.startNodeID == "" {
		return errors.New("graph has no start node")
	}
	for from, edges := range g.edges {
		if _, ok := g.nodes[from]; !ok {
			return fmt.Errorf("edge references missing node %s", from)
		}
		for _, edge := range edges {
			if _, ok := g.nodes[edge.To]; !ok {
				return fmt.Errorf("edge references missing node %s", edge.To)
			}
		}
	}
	return nil
}

// Execute runs the graph from its start node, threading the conversation
// through each node and appending the deltas the nodes return. The extended
// conversation is returned even on error so callers can persist partial
// progress.
func (g *Graph) Execute(ctx context.Context, conv Conversation, sessionID string) (Conversation, error) {
	if err := g.Validate(); err != nil {
		return conv, err
	}

	g.emit(Event{Type: EventWorkflowStart, SessionID: sessionID, Timestamp: time.Now().UTC()})
	var execErr error
	defer func() {
		status := "success"
		if execErr != nil {
			status = "error"
		}
		g.emit(Event{
			Type:      EventWorkflowFinish,
			SessionID: sessionID,
			Timestamp: time.Now().UTC(),
			Metadata:  map[string]interface{}{"status": status},
		})
	}()

	working := conv.Clone()
	visits := make(map[string]int)
	current := g.startNodeID
	for current != "" {
		select {
		case <-ctx.Done():
			execErr = ctx.Err()
			return working, execErr
		default:
		}
		node, ok := g.nodes[current]
		if !ok {
			execErr = fmt.Errorf("node %s missing", current)
			return working, execErr
		}
		visits[current]++
		if visits[current] > g.maxVisits {
			execErr = fmt.Errorf("%w: node %s ran %d times", ErrCycleLimitExceeded, current, g.maxVisits)
			return working, execErr
		}
		g.emit(Event{Type: EventNodeStart, NodeID: current, SessionID: sessionID, Timestamp: time.Now().UTC()})
		delta, err := node.Execute(ctx, working)
		if err != nil {
			execErr = fmt.Errorf("node %s execution failed: %w", current, err)
			g.emit(Event{
				Type:      EventNodeError,
				NodeID:    current,
				SessionID: sessionID,
				Timestamp: time.Now().UTC(),
				Message:   execErr.Error(),
			})
			return working, execErr
		}
		for _, msg := range delta {
			if err := msg.Validate(); err != nil {
				execErr = fmt.Errorf("node %s: %w", current, err)
				return working, execErr
			}
			working = append(working, msg)
		}
		g.emit(Event{
			Type:      EventNodeFinish,
			NodeID:    current,
			SessionID: sessionID,
			Timestamp: time.Now().UTC(),
			Metadata:  map[string]interface{}{"appended": len(delta)},
		})
		current = g.next(current, working)
	}
	return working, nil
}

// next evaluates the outgoing edges for a node against the current
// conversation. Returning a single node ID keeps the main Execute loop
// simple and debuggable; an empty ID terminates the run.
func (g *Graph) next(from string, conv Conversation) string {
	for _, edge := range g.edges[from] {
		if edge.Condition != nil && !edge.Condition(conv) {
			continue
		}
		return edge.To
	}
	return ""
}
