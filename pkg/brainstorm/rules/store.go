// Package rules keeps the learned-rule layer and renders it, together with
// the static rule book, into the prompt's rules block.
package rules

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mindforge-be/internal/entity"
	"mindforge-be/internal/repository/specification"
	"mindforge-be/internal/repository/unitofwork"
	"mindforge-be/pkg/brainstorm/catalog"

	"github.com/google/uuid"
)

var ErrRuleNotFound = errors.New("learned rule not found")

type Store struct {
	uowFactory unitofwork.RepositoryFactory
	catalog    catalog.Source
}

func NewStore(uowFactory unitofwork.RepositoryFactory, source catalog.Source) *Store {
	return &Store{uowFactory: uowFactory, catalog: source}
}

func (s *Store) Add(ctx context.Context, category, text string, sourceSessionID *uuid.UUID) (*entity.LearnedRule, error) {
	rule := &entity.LearnedRule{
		Category:        category,
		RuleText:        text,
		SourceSessionId: sourceSessionID,
		TimesApplied:    0,
		Active:          true,
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.LearnedRuleRepository().Create(ctx, rule); err != nil {
		return nil, fmt.Errorf("insert learned rule: %w", err)
	}
	return rule, nil
}

// ListActive returns active rules, most applied first.
func (s *Store) ListActive(ctx context.Context) ([]*entity.LearnedRule, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.LearnedRuleRepository().FindAll(ctx, specification.ActiveRules{}, specification.MostApplied{})
}

// Apply bumps the usage counter of one rule.
func (s *Store) Apply(ctx context.Context, ruleID uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	ok, err := uow.LearnedRuleRepository().IncrementUsage(ctx, ruleID)
	if err != nil {
		return fmt.Errorf("increment rule usage: %w", err)
	}
	if !ok {
		return ErrRuleNotFound
	}
	return nil
}

// Context renders the base rule book with learned rules appended under
// their category. Learned rules whose category is not in the book are not
// rendered.
func (s *Store) Context(ctx context.Context) (string, error) {
	book, err := s.catalog.Rules(ctx)
	if err != nil {
		return "", fmt.Errorf("load rule book: %w", err)
	}
	learned, err := s.ListActive(ctx)
	if err != nil {
		return "", fmt.Errorf("load learned rules: %w", err)
	}
	return Render(book, learned), nil
}

func Render(book *catalog.RuleBook, learned []*entity.LearnedRule) string {
	byCategory := make(map[string][]*entity.LearnedRule)
	for _, r := range learned {
		byCategory[r.Category] = append(byCategory[r.Category], r)
	}

	var sb strings.Builder
	sb.WriteString("## BRAINSTORMING RULES & QUESTION BANK\n\n")

	for _, cat := range book.Categories {
		fmt.Fprintf(&sb, "### %s\n", cat.Value.Label)
		sb.WriteString("**Questions to consider:**\n")
		for _, q := range cat.Value.BaseQuestions {
			fmt.Fprintf(&sb, "- %s\n", q)
		}
		sb.WriteString("**Thinking rules:**\n")
		for _, r := range cat.Value.ThinkingRules {
			fmt.Fprintf(&sb, "- %s\n", r)
		}
		if rules := byCategory[cat.Key]; len(rules) > 0 {
			sb.WriteString("**Learned from past sessions:**\n")
			for _, r := range rules {
				fmt.Fprintf(&sb, "- %s (applied %dx)\n", r.RuleText, r.TimesApplied)
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString("### Meta Rules\n")
	for _, meta := range book.MetaRules {
		fmt.Fprintf(&sb, "**%s:**\n", titleKey(meta.Key))
		for _, r := range meta.Value {
			fmt.Fprintf(&sb, "- %s\n", r)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// titleKey turns "gap_detection" into "Gap Detection".
func titleKey(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
