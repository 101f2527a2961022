package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/arctechlabs/iris/framework"
)

// OpenAI implements framework.LanguageModel against the OpenAI
// chat-completions API, including tool-declaration-aware completions.
type OpenAI struct {
	client *openai.Client
	Model  string
}

// NewOpenAI builds a client for the given API key and default model.
func NewOpenAI(apiKey, model string) *OpenAI {
	return &OpenAI{client: openai.NewClient(apiKey), Model: model}
}

// NewOpenAIWithBaseURL points the client at an alternate endpoint. Used by
// tests and by OpenAI-compatible gateways.
func NewOpenAIWithBaseURL(apiKey, model, baseURL string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &OpenAI{client: openai.NewClientWithConfig(cfg), Model: model}
}

// Chat sends the conversation without tool declarations.
func (o *OpenAI) Chat(ctx context.Context, messages []framework.Message, options *framework.LLMOptions) (*framework.LLMResponse, error) {
	return o.ChatWithTools(ctx, messages, nil, options)
}

// ChatWithTools sends the conversation plus the available tool declarations
// and maps the reply back into the framework's message model.
func (o *OpenAI) ChatWithTools(ctx context.Context, messages []framework.Message, tools []framework.Declaration, options *framework.LLMOptions) (*framework.LLMResponse, error) {
	req := openai.ChatCompletionRequest{
		Model:    o.model(options),
		Messages: toOpenAIMessages(messages),
		Tools:    toOpenAITools(tools),
	}
	if options != nil {
		req.Temperature = float32(options.Temperature)
		if options.MaxTokens > 0 {
			req.MaxTokens = options.MaxTokens
		}
	}
	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai returned no choices")
	}
	choice := resp.Choices[0]
	out := &framework.LLMResponse{
		Text:         choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		Usage: map[string]int{
			"prompt_tokens":     resp.Usage.PromptTokens,
			"completion_tokens": resp.Usage.CompletionTokens,
		},
	}
	for _, call := range choice.Message.ToolCalls {
		args := map[string]interface{}{}
		if call.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
				return nil, fmt.Errorf("decode arguments for %s: %w", call.Function.Name, err)
			}
		}
		out.ToolCalls = append(out.ToolCalls, framework.ToolCall{
			ID:   call.ID,
			Name: call.Function.Name,
			Args: args,
		})
	}
	return out, nil
}

func (o *OpenAI) model(options *framework.LLMOptions) string {
	if options != nil && options.Model != "" {
		return options.Model
	}
	return o.Model
}

func toOpenAIMessages(messages []framework.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		converted := openai.ChatCompletionMessage{
			Role:       string(msg.Role),
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
		}
		if msg.Role == framework.RoleTool {
			converted.Name = msg.Name
		}
		for _, call := range msg.ToolCalls {
			args, err := json.Marshal(call.Args)
			if err != nil {
				args = []byte("{}")
			}
			converted.ToolCalls = append(converted.ToolCalls, openai.ToolCall{
				ID:   call.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      call.Name,
					Arguments: string(args),
				},
			})
		}
		out = append(out, converted)
	}
	return out
}

func toOpenAITools(tools []framework.Declaration) []openai.Tool {
	if len(tools) == 0 {
		return nil
	}
	out := make([]openai.Tool, 0, len(tools))
	for _, decl := range tools {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        decl.Name,
				Description: decl.Description,
				Parameters:  decl.Schema,
			},
		})
	}
	return out
}
