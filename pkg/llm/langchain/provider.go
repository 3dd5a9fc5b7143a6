package langchain

import (
	"context"
	"fmt"

	"mindforge-be/pkg/llm"

	"github.com/tmc/langchaingo/llms"
)

// Provider adapts any langchaingo chat model (Anthropic, OpenAI-compatible)
// to llm.LLMProvider.
type Provider struct {
	model llms.Model
	name  string
}

var _ llm.LLMProvider = &Provider{}

func NewProvider(model llms.Model, defaultModel string) *Provider {
	return &Provider{model: model, name: defaultModel}
}

func toContent(history []llm.Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(history))
	for _, msg := range history {
		role := llms.ChatMessageTypeHuman
		switch msg.Role {
		case llm.RoleSystem:
			role = llms.ChatMessageTypeSystem
		case llm.RoleAssistant, "model":
			role = llms.ChatMessageTypeAI
		}
		out = append(out, llms.TextParts(role, msg.Content))
	}
	return out
}

func (p *Provider) callOptions(opts ...llm.Option) []llms.CallOption {
	options := llm.ApplyOptions(opts...)
	model := p.name
	if options.Model != "" {
		model = options.Model
	}
	callOpts := []llms.CallOption{
		llms.WithModel(model),
		llms.WithTemperature(options.Temperature),
	}
	if options.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(options.MaxTokens))
	}
	return callOpts
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	resp, err := p.model.GenerateContent(ctx, toContent(history), p.callOptions(opts...)...)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	return resp.Choices[0].Content, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

func (p *Provider) Stream(ctx context.Context, history []llm.Message, opts ...llm.Option) (<-chan string, <-chan error) {
	return llm.RunStream(ctx, func(ctx context.Context, emit llm.Emit) error {
		callOpts := append(p.callOptions(opts...), llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			return emit(string(chunk))
		}))
		if _, err := p.model.GenerateContent(ctx, toContent(history), callOpts...); err != nil {
			return fmt.Errorf("stream content: %w", err)
		}
		return nil
	})
}
