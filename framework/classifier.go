package framework

import "strings"

// FailureClass names one entry of the closed failure taxonomy.
type FailureClass string

const (
	FailureSalesforce  FailureClass = "salesforce_error"
	FailureQuery       FailureClass = "query_failure"
	FailurePermission  FailureClass = "permission_issue"
	FailureMissingData FailureClass = "missing_data"
	FailureUnknown     FailureClass = "unknown"
)

// ClassifierRule maps message substrings to a failure class. Rules are
// evaluated in order and the first match wins.
type ClassifierRule struct {
	Class      FailureClass
	Substrings []string
}

// Classifier detects known failure signatures in message content. The rule
// table is explicit and ordered so tests can enumerate every signature; this
// replaces scattering ad hoc string checks through the control flow.
type Classifier struct {
	rules       map[FailureClass][]string
	order       []FailureClass
	suggestions map[FailureClass]string
}

// NewClassifier builds the default classifier with the stock rule table.
func NewClassifier() *Classifier {
	c := &Classifier{
		rules:       make(map[FailureClass][]string),
		suggestions: make(map[FailureClass]string),
	}
	c.AddRule(FailureSalesforce,
		"salesforce api error", "salesforce error", "invalid_field",
		"malformed_query", "invalid soql",
	)
	c.AddRule(FailureQuery,
		"query failed", "query returned no results",
		"unexpected empty response", "no records found", "error executing query",
	)
	c.AddRule(FailurePermission,
		"unauthorized", "permission", "insufficient access", "forbidden",
		"invalid_session_id",
	)
	c.AddRule(FailureMissingData,
		"missing required field", "missing input", "required field",
		"must be a non-empty", "not provided",
	)

	c.Suggest(FailureSalesforce, "The Salesforce API rejected the last request. Retry with an alternative method: verify the object and field API names first, for example by describing the object before querying it.")
	c.Suggest(FailureQuery, "The data query did not produce results. Double-check the object name and filter values, or look up the object first to confirm it exists.")
	c.Suggest(FailurePermission, "The connected credentials lack authorization for that operation. Suggest an alternative method to the user, or ask them to reconnect the integration with sufficient permissions.")
	c.Suggest(FailureMissingData, "Required input was missing from the request. Ask the user for the missing fields before retrying the operation.")
	c.Suggest(FailureUnknown, "The last step failed for an unrecognized reason. Summarize what went wrong and propose a different approach to the user.")
	return c
}

// AddRule appends signatures for a class; first call establishes the class's
// position in the precedence order.
func (c *Classifier) AddRule(class FailureClass, substrings ...string) {
	if _, ok := c.rules[class]; !ok {
		c.order = append(c.order, class)
	}
	c.rules[class] = append(c.rules[class], substrings...)
}

// Suggest sets the remediation message appended after a classified failure.
func (c *Classifier) Suggest(class FailureClass, message string) {
	c.suggestions[class] = message
}

// Rules returns the ordered rule table.
func (c *Classifier) Rules() []ClassifierRule {
	out := make([]ClassifierRule, 0, len(c.order))
	for _, class := range c.order {
		subs := make([]string, len(c.rules[class]))
		copy(subs, c.rules[class])
		out = append(out, ClassifierRule{Class: class, Substrings: subs})
	}
	return out
}

// Classify maps content to a failure class via the first matching substring
// rule; FailureUnknown when nothing matches.
func (c *Classifier) Classify(content string) FailureClass {
	lowered := strings.ToLower(content)
	for _, class := range c.order {
		for _, sub := range c.rules[class] {
			if strings.Contains(lowered, sub) {
				return class
			}
		}
	}
	return FailureUnknown
}

// Matches reports whether content carries any known failure signature.
func (c *Classifier) Matches(content string) bool {
	return c.Classify(content) != FailureUnknown
}

// Suggestion returns the remediation text for a class.
func (c *Classifier) Suggestion(class FailureClass) string {
	if s, ok := c.suggestions[class]; ok {
		return s
	}
	return c.suggestions[FailureUnknown]
}
