package factory

import (
	"context"
	"fmt"

	"mindforge-be/pkg/llm"
	"mindforge-be/pkg/llm/gemini"
	"mindforge-be/pkg/llm/langchain"
	"mindforge-be/pkg/llm/ollama"

	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/openai"
)

// Settings selects and configures one provider.
type Settings struct {
	Provider        string
	Model           string
	AnthropicAPIKey string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	GeminiAPIKey    string
	OllamaBaseURL   string
}

func NewLLMProvider(ctx context.Context, s Settings) (llm.LLMProvider, error) {
	switch s.Provider {
	case "anthropic":
		model, err := anthropic.New(
			anthropic.WithToken(s.AnthropicAPIKey),
			anthropic.WithModel(s.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("init anthropic: %w", err)
		}
		return langchain.NewProvider(model, s.Model), nil
	case "openai":
		opts := []openai.Option{
			openai.WithToken(s.OpenAIAPIKey),
			openai.WithModel(s.Model),
		}
		if s.OpenAIBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(s.OpenAIBaseURL))
		}
		model, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("init openai: %w", err)
		}
		return langchain.NewProvider(model, s.Model), nil
	case "gemini":
		return gemini.NewProvider(ctx, s.GeminiAPIKey, s.Model)
	case "ollama":
		baseURL := s.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, s.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
