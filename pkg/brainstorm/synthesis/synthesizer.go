// Package synthesis turns a session's whitepaper sections into the final
// markdown document.
package synthesis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"mindforge-be/internal/constant"
	"mindforge-be/internal/repository/specification"
	"mindforge-be/internal/repository/unitofwork"
	"mindforge-be/pkg/brainstorm/catalog"
	"mindforge-be/pkg/llm"

	"github.com/google/uuid"
)

const NoWhitepaperMessage = "No whitepaper data found for this session."

type Synthesizer struct {
	uowFactory unitofwork.RepositoryFactory
	catalog    catalog.Source
	provider   llm.LLMProvider
	model      string
	maxTokens  int
}

func NewSynthesizer(uowFactory unitofwork.RepositoryFactory, source catalog.Source, provider llm.LLMProvider, model string, maxTokens int) *Synthesizer {
	return &Synthesizer{
		uowFactory: uowFactory,
		catalog:    source,
		provider:   provider,
		model:      model,
		maxTokens:  maxTokens,
	}
}

// Synthesize returns the model output verbatim. Without a whitepaper row it
// returns NoWhitepaperMessage and never calls the model.
func (s *Synthesizer) Synthesize(ctx context.Context, sessionID uuid.UUID) (string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	wp, err := uow.WhitepaperRepository().FindOne(ctx, specification.BySessionID{SessionID: sessionID})
	if err != nil {
		return "", fmt.Errorf("load whitepaper: %w", err)
	}
	if wp == nil {
		return NoWhitepaperMessage, nil
	}

	rules, err := s.catalog.Rules(ctx)
	if err != nil {
		return "", fmt.Errorf("load rule book: %w", err)
	}
	data, err := encodeSections(wp.Content, rules.SectionKeys())
	if err != nil {
		return "", err
	}

	userPrompt := strings.Replace(constant.WhitepaperSynthesisPrompt, constant.PlaceholderWhitepaperData, data, 1)
	out, err := s.provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: constant.WhitepaperSystemPrompt},
		{Role: llm.RoleUser, Content: userPrompt},
	},
		llm.WithModel(s.model),
		llm.WithMaxTokens(s.maxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("generate whitepaper: %w", err)
	}
	return out, nil
}

// encodeSections writes content as an indented JSON object with canonical
// keys first, in canonical order. Unknown keys follow.
func encodeSections(content map[string]string, keys []string) (string, error) {
	var sb strings.Builder
	sb.WriteString("{")
	first := true
	write := func(k, v string) error {
		kb, err := json.Marshal(k)
		if err != nil {
			return err
		}
		vb, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if !first {
			sb.WriteString(",")
		}
		first = false
		sb.WriteString("\n  ")
		sb.Write(kb)
		sb.WriteString(": ")
		sb.Write(vb)
		return nil
	}

	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		seen[k] = true
		if v, ok := content[k]; ok {
			if err := write(k, v); err != nil {
				return "", fmt.Errorf("encode whitepaper: %w", err)
			}
		}
	}
	extra := make([]string, 0)
	for k := range content {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		if err := write(k, content[k]); err != nil {
			return "", fmt.Errorf("encode whitepaper: %w", err)
		}
	}
	if !first {
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String(), nil
}
