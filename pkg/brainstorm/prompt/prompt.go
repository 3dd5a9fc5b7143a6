// Package prompt assembles the model input for a brainstorm turn.
package prompt

import (
	"strings"

	"mindforge-be/internal/constant"
	"mindforge-be/internal/entity"
	"mindforge-be/pkg/llm"
)

// BuildSystem substitutes the three context blocks into the system template.
// An empty niche block leaves its placeholder line blank.
func BuildSystem(nicheContext, rulesContext, sessionState string) string {
	r := strings.NewReplacer(
		constant.PlaceholderNicheContext, nicheContext,
		constant.PlaceholderRulesContext, rulesContext,
		constant.PlaceholderSessionState, sessionState,
	)
	return r.Replace(constant.BrainstormSystemPrompt)
}

// History maps stored turns to chat messages, oldest first, and appends the
// new user message. Roles other than user and assistant become user.
func History(system string, turns []*entity.ConversationTurn, message string) []llm.Message {
	out := make([]llm.Message, 0, len(turns)+2)
	out = append(out, llm.Message{Role: llm.RoleSystem, Content: system})
	for _, t := range turns {
		out = append(out, llm.Message{Role: CoerceRole(t.Role), Content: t.CleanedText})
	}
	return append(out, llm.Message{Role: llm.RoleUser, Content: message})
}

func CoerceRole(role string) string {
	if role == llm.RoleAssistant {
		return llm.RoleAssistant
	}
	return llm.RoleUser
}
