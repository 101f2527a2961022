package llm

import (
	"context"
	"time"

	"github.com/arctechlabs/iris/framework"
)

// Instrumented wraps a LanguageModel and emits telemetry for prompts and
// responses.
type Instrumented struct {
	Inner     framework.LanguageModel
	Telemetry framework.Telemetry
}

// NewInstrumented builds the wrapper.
func NewInstrumented(inner framework.LanguageModel, telemetry framework.Telemetry) *Instrumented {
	return &Instrumented{Inner: inner, Telemetry: telemetry}
}

// Chat forwards to the inner model with telemetry around the call.
func (m *Instrumented) Chat(ctx context.Context, messages []framework.Message, options *framework.LLMOptions) (*framework.LLMResponse, error) {
	m.emitPrompt("chat", messages, nil, options)
	resp, err := m.Inner.Chat(ctx, messages, options)
	m.emitResponse("chat", resp, err)
	return resp, err
}

// ChatWithTools forwards to the inner model with telemetry around the call.
func (m *Instrumented) ChatWithTools(ctx context.Context, messages []framework.Message, tools []framework.Declaration, options *framework.LLMOptions) (*framework.LLMResponse, error) {
	m.emitPrompt("chat_with_tools", messages, tools, options)
	resp, err := m.Inner.ChatWithTools(ctx, messages, tools, options)
	m.emitResponse("chat_with_tools", resp, err)
	return resp, err
}

func (m *Instrumented) emitPrompt(op string, messages []framework.Message, tools []framework.Declaration, options *framework.LLMOptions) {
	if m.Telemetry == nil {
		return
	}
	meta := map[string]interface{}{
		"op":       op,
		"messages": len(messages),
		"tools":    len(tools),
	}
	if options != nil && options.Model != "" {
		meta["model"] = options.Model
	}
	m.Telemetry.Emit(framework.Event{
		Type:      framework.EventModelPrompt,
		Timestamp: time.Now().UTC(),
		Metadata:  meta,
	})
}

func (m *Instrumented) emitResponse(op string, resp *framework.LLMResponse, err error) {
	if m.Telemetry == nil {
		return
	}
	event := framework.Event{
		Type:      framework.EventModelResponse,
		Timestamp: time.Now().UTC(),
		Metadata:  map[string]interface{}{"op": op},
	}
	if err != nil {
		event.Message = err.Error()
	} else if resp != nil {
		event.Metadata["text_chars"] = len(resp.Text)
		event.Metadata["tool_calls"] = len(resp.ToolCalls)
		event.Metadata["finish_reason"] = resp.FinishReason
	}
	m.Telemetry.Emit(event)
}
