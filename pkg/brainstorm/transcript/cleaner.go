// Package transcript normalizes raw speech-to-text output.
package transcript

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"mindforge-be/internal/constant"
	"mindforge-be/pkg/llm"
)

// minCleanable is the number of non-space characters below which the raw
// transcript is returned as is.
const minCleanable = 5

type Cleaner struct {
	provider  llm.LLMProvider
	model     string
	maxTokens int
}

func NewCleaner(provider llm.LLMProvider, model string, maxTokens int) *Cleaner {
	return &Cleaner{provider: provider, model: model, maxTokens: maxTokens}
}

func (c *Cleaner) Clean(ctx context.Context, raw string) (string, error) {
	if countNonSpace(raw) < minCleanable {
		return raw, nil
	}

	out, err := c.provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: constant.VoiceCleanupSystemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf(constant.VoiceCleanupPrompt, raw)},
	},
		llm.WithModel(c.model),
		llm.WithMaxTokens(c.maxTokens),
		llm.WithTemperature(0.2),
	)
	if err != nil {
		return "", fmt.Errorf("clean transcript: %w", err)
	}

	cleaned := strings.TrimSpace(out)
	if cleaned == "" {
		return raw, nil
	}
	return cleaned, nil
}

func countNonSpace(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
