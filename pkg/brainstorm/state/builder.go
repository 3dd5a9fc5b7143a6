// Package state renders a session's persisted state as prompt text.
package state

import (
	"context"
	"fmt"
	"strings"

	"mindforge-be/internal/entity"
	"mindforge-be/internal/repository/specification"
	"mindforge-be/internal/repository/unitofwork"
	"mindforge-be/pkg/brainstorm/catalog"

	"github.com/google/uuid"
)

const (
	emptyWhitepaper = "All sections are empty — this is a new session."
	emptyHistory    = "No conversation yet — this is the first message."
)

type Builder struct {
	uowFactory   unitofwork.RepositoryFactory
	catalog      catalog.Source
	previewChars int
	turnChars    int
}

func NewBuilder(uowFactory unitofwork.RepositoryFactory, source catalog.Source, previewChars, turnChars int) *Builder {
	return &Builder{
		uowFactory:   uowFactory,
		catalog:      source,
		previewChars: previewChars,
		turnChars:    turnChars,
	}
}

// Build reads everything fresh. An unknown session renders as phase 1 with
// no niche rather than failing.
func (b *Builder) Build(ctx context.Context, sessionID uuid.UUID) (string, error) {
	rules, err := b.catalog.Rules(ctx)
	if err != nil {
		return "", fmt.Errorf("load rule book: %w", err)
	}

	uow := b.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionID})
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	wp, err := uow.WhitepaperRepository().FindOne(ctx, specification.BySessionID{SessionID: sessionID})
	if err != nil {
		return "", fmt.Errorf("load whitepaper: %w", err)
	}
	turns, err := uow.ConversationTurnRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionID},
		specification.ChronologicalTurns{},
	)
	if err != nil {
		return "", fmt.Errorf("load turns: %w", err)
	}

	var content map[string]string
	if wp != nil {
		content = wp.Content
	}
	return b.render(session, content, turns, rules.SectionKeys()), nil
}

func (b *Builder) render(session *entity.Session, content map[string]string, turns []*entity.ConversationTurn, keys []string) string {
	var sb strings.Builder

	phase := 1
	if session != nil {
		if session.IsClassified() {
			fmt.Fprintf(&sb, "**Classified niche**: %s\n", *session.NicheType)
		}
		if session.CurrentPhase > 0 {
			phase = session.CurrentPhase
		}
	}
	fmt.Fprintf(&sb, "**Current phase**: %d\n", phase)
	fmt.Fprintf(&sb, "**Conversation turns so far**: %d\n", len(turns))

	sb.WriteString("\n## Current Whitepaper State\n")
	if !hasContent(content, keys) {
		sb.WriteString(emptyWhitepaper + "\n")
	} else {
		for _, key := range keys {
			value := content[key]
			if value == "" {
				fmt.Fprintf(&sb, "- **%s**: EMPTY\n", key)
				continue
			}
			fmt.Fprintf(&sb, "- **%s**: HAS CONTENT\n", key)
			preview, cut := Truncate(value, b.previewChars)
			if cut {
				preview += "..."
			}
			fmt.Fprintf(&sb, "  Current: %s\n", preview)
		}
	}

	sb.WriteString("\n## Conversation History\n")
	if len(turns) == 0 {
		sb.WriteString(emptyHistory)
		return sb.String()
	}
	for i, turn := range turns {
		speaker := "User"
		if turn.Role == entity.TurnRoleAssistant {
			speaker = "MindForge"
		}
		text, _ := Truncate(turn.CleanedText, b.turnChars)
		fmt.Fprintf(&sb, "**%s:** %s", speaker, text)
		if i < len(turns)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func hasContent(content map[string]string, keys []string) bool {
	for _, key := range keys {
		if content[key] != "" {
			return true
		}
	}
	return false
}

// Truncate keeps the first n runes of s and reports whether anything was
// dropped. n <= 0 disables truncation.
func Truncate(s string, n int) (string, bool) {
	if n <= 0 {
		return s, false
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s, false
	}
	return string(runes[:n]), true
}
