package assistant

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/brightsmile-dental/voice-assistant/internal/flow"
	"github.com/brightsmile-dental/voice-assistant/pkg/logging"
)

// chatCompleter is the slice of the OpenAI client the decider uses.
// *openai.Client satisfies it; tests inject a stub.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIDecider maps node bindings onto OpenAI tool definitions and
// lets the model pick exactly one per turn.
type OpenAIDecider struct {
	client chatCompleter
	model  string
	logger *logging.Logger
}

// NewOpenAIDecider builds a decider over the OpenAI API.
func NewOpenAIDecider(apiKey, model string, logger *logging.Logger) *OpenAIDecider {
	if model == "" {
		model = "gpt-4o-mini"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &OpenAIDecider{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}
}

// Decide sends the node prompts plus the utterance and expects one
// tool call back.
func (d *OpenAIDecider) Decide(ctx context.Context, node flow.Node, utterance string) (Decision, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 3)
	if node.RoleContent != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: node.RoleContent,
		})
	}
	messages = append(messages,
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: node.Content},
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: utterance},
	)

	resp, err := d.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       d.model,
		Messages:    messages,
		Tools:       toolsForNode(node),
		Temperature: 0.2,
	})
	if err != nil {
		return Decision{}, fmt.Errorf("assistant: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Decision{}, ErrNoDecision
	}

	choice := resp.Choices[0].Message
	if len(choice.ToolCalls) == 0 {
		d.logger.Warn("model answered without a tool call", "node", string(node.ID))
		return Decision{Say: choice.Content}, ErrNoDecision
	}

	call := choice.ToolCalls[0]
	args := flow.Args{}
	if call.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return Decision{}, fmt.Errorf("assistant: decode tool arguments: %w", err)
		}
	}
	return Decision{
		Handler: flow.HandlerName(call.Function.Name),
		Args:    args,
		Say:     choice.Content,
	}, nil
}

// toolsForNode renders the node's bindings as OpenAI tool schemas.
func toolsForNode(node flow.Node) []openai.Tool {
	tools := make([]openai.Tool, 0, len(node.Bindings))
	for _, b := range node.Bindings {
		properties := make(map[string]any, len(b.Params))
		required := make([]string, 0, len(b.Params))
		for _, p := range b.Params {
			properties[p.Name] = map[string]any{
				"type":        p.Type,
				"description": p.Description,
			}
			if p.Required {
				required = append(required, p.Name)
			}
		}
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        string(b.Name),
				Description: b.Description,
				Parameters: map[string]any{
					"type":       "object",
					"properties": properties,
					"required":   required,
				},
			},
		})
	}
	return tools
}
