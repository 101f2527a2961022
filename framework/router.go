package framework

import "strings"

// Decision names the next workflow destination.
type Decision string

const (
	DecideExecuteTools Decision = "execute_tools"
	DecideDelegate     Decision = "delegate"
	DecideRecover      Decision = "recover"
	DecideTerminate    Decision = "terminate"
)

// Route pairs a decision with a delegation target when the decision is
// DecideDelegate.
type Route struct {
	Decision Decision
	Target   string
}

// DelegationRule routes conversations mentioning any of the keywords to the
// named specialized agent.
type DelegationRule struct {
	Target   string
	Keywords []string
}

// Router is the pure decision function of the workflow. It inspects only the
// latest message and holds no mutable state, so the same message always
// produces the same route.
//
// Precedence: pending tool calls beat delegation triggers, which beat failure
// signatures. A reply that both requests a tool and mentions a failure
// keyword must execute the tool, not detour into recovery.
type Router struct {
	Delegations []DelegationRule
	Classifier  *Classifier
}

// NewRouter builds a router with the default classifier and no delegations.
func NewRouter() *Router {
	return &Router{Classifier: NewClassifier()}
}

// Delegate adds a delegation rule and returns the router for chaining.
func (r *Router) Delegate(target string, keywords ...string) *Router {
	r.Delegations = append(r.Delegations, DelegationRule{Target: target, Keywords: keywords})
	return r
}

// Decide maps the conversation's last message to a route. The caller must
// guarantee the conversation is non-empty.
func (r *Router) Decide(conv Conversation) Route {
	last, ok := conv.Last()
	if !ok {
		return Route{Decision: DecideTerminate}
	}
	if last.Role == RoleAssistant && len(last.ToolCalls) > 0 {
		return Route{Decision: DecideExecuteTools}
	}
	lowered := strings.ToLower(last.Content)
	for _, rule := range r.Delegations {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lowered, strings.ToLower(keyword)) {
				return Route{Decision: DecideDelegate, Target: rule.Target}
			}
		}
	}
	if r.Classifier != nil && r.Classifier.Matches(last.Content) {
		return Route{Decision: DecideRecover}
	}
	return Route{Decision: DecideTerminate}
}
