package llm

import (
	"context"
	"errors"
	"sync"

	"github.com/arctechlabs/iris/framework"
)

// Scripted replays canned responses in order, repeating the final entry once
// the script is exhausted. It backs tests and offline demos where a real
// model is unavailable.
type Scripted struct {
	mu     sync.Mutex
	steps  []ScriptStep
	calls  int
	record [][]framework.Message
}

// ScriptStep is one canned model turn.
type ScriptStep struct {
	Response *framework.LLMResponse
	Err      error
}

// NewScripted builds a scripted model.
func NewScripted(steps ...ScriptStep) *Scripted {
	return &Scripted{steps: steps}
}

// Chat replays the next step.
func (s *Scripted) Chat(ctx context.Context, messages []framework.Message, options *framework.LLMOptions) (*framework.LLMResponse, error) {
	return s.ChatWithTools(ctx, messages, nil, options)
}

// ChatWithTools replays the next step and records the prompt for assertions.
func (s *Scripted) ChatWithTools(ctx context.Context, messages []framework.Message, tools []framework.Declaration, options *framework.LLMOptions) (*framework.LLMResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.steps) == 0 {
		return nil, errors.New("scripted model has no steps")
	}
	s.record = append(s.record, messages)
	idx := s.calls
	s.calls++
	if idx >= len(s.steps) {
		idx = len(s.steps) - 1
	}
	step := s.steps[idx]
	return step.Response, step.Err
}

// Calls reports how many completions were requested.
func (s *Scripted) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Prompt returns the messages sent on the nth call.
func (s *Scripted) Prompt(n int) []framework.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 0 || n >= len(s.record) {
		return nil
	}
	return s.record[n]
}
