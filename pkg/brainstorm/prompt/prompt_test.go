package prompt

import (
	"strings"
	"testing"

	"mindforge-be/internal/entity"
	"mindforge-be/pkg/llm"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestBuildSystem(t *testing.T) {
	out := BuildSystem("## NICHE INTELLIGENCE: Bakery", "## BRAINSTORMING RULES & QUESTION BANK", "**Current phase**: 1")

	assert.Contains(t, out, "## NICHE INTELLIGENCE: Bakery")
	assert.Contains(t, out, "## BRAINSTORMING RULES & QUESTION BANK")
	assert.Contains(t, out, "## CURRENT SESSION STATE\n\n**Current phase**: 1")
	assert.NotContains(t, out, "{niche_context}")
	assert.NotContains(t, out, "{rules_context}")
	assert.NotContains(t, out, "{session_state}")
	for _, tag := range []string{"analysis", "gaps", "insights", "questions", "whitepaper_update", "new_rules", "phase_info"} {
		assert.True(t, strings.Contains(out, "<"+tag+">"), tag)
	}
}

func TestBuildSystemWithoutNiche(t *testing.T) {
	out := BuildSystem("", "rules", "state")
	assert.NotContains(t, out, "{niche_context}")
	assert.NotContains(t, out, "NICHE INTELLIGENCE")
}

func TestHistory(t *testing.T) {
	turns := []*entity.ConversationTurn{
		{Role: entity.TurnRoleUser, CleanedText: "I want a bakery website"},
		{Role: entity.TurnRoleAssistant, CleanedText: "<analysis>bakery</analysis>"},
		{Role: "system", CleanedText: "odd row"},
	}

	got := History("SYS", turns, "We sell sourdough")

	want := []llm.Message{
		{Role: llm.RoleSystem, Content: "SYS"},
		{Role: llm.RoleUser, Content: "I want a bakery website"},
		{Role: llm.RoleAssistant, Content: "<analysis>bakery</analysis>"},
		{Role: llm.RoleUser, Content: "odd row"},
		{Role: llm.RoleUser, Content: "We sell sourdough"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestCoerceRole(t *testing.T) {
	tests := map[string]string{
		"user":      "user",
		"assistant": "assistant",
		"model":     "user",
		"":          "user",
		"Assistant": "user",
	}
	for in, want := range tests {
		assert.Equal(t, want, CoerceRole(in), in)
	}
}
