package rules

import (
	"context"
	"strings"
	"testing"

	"mindforge-be/internal/entity"
	"mindforge-be/internal/testutil"
	"mindforge-be/pkg/brainstorm/catalog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(testutil.NewFactory(t), catalog.NewLoader("", ""))
}

func TestAddAndListActive(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	sessionID := uuid.New()

	first, err := store.Add(ctx, "security", "Rate limit public forms", &sessionID)
	require.NoError(t, err)
	assert.Equal(t, 0, first.TimesApplied)
	assert.True(t, first.Active)

	second, err := store.Add(ctx, "design", "Ask for a logo early", nil)
	require.NoError(t, err)

	require.NoError(t, store.Apply(ctx, second.Id))
	require.NoError(t, store.Apply(ctx, second.Id))

	active, err := store.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, second.Id, active[0].Id)
	assert.Equal(t, 2, active[0].TimesApplied)
	assert.Equal(t, first.Id, active[1].Id)
	require.NotNil(t, active[1].SourceSessionId)
	assert.Equal(t, sessionID, *active[1].SourceSessionId)
}

func TestApplyUnknownRule(t *testing.T) {
	err := newStore(t).Apply(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrRuleNotFound)
}

func TestContextMergesLayers(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	_, err := store.Add(ctx, "security", "Rate limit public forms", nil)
	require.NoError(t, err)
	_, err = store.Add(ctx, "unheard_of", "Never rendered", nil)
	require.NoError(t, err)

	out, err := store.Context(ctx)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "## BRAINSTORMING RULES & QUESTION BANK\n\n### Target Audience\n**Questions to consider:**\n"))
	assert.Contains(t, out, "**Learned from past sessions:**\n- Rate limit public forms (applied 0x)\n")
	assert.Contains(t, out, "- Any public form needs spam protection.\n")
	assert.Contains(t, out, "### Meta Rules\n**Conversation Style:**\n")
	assert.Contains(t, out, "**Gap Detection:**")
	assert.NotContains(t, out, "Never rendered")
	assert.Equal(t, 1, strings.Count(out, "**Learned from past sessions:**"))
}

func TestRenderWithoutLearnedRules(t *testing.T) {
	book := &catalog.RuleBook{
		Categories: catalog.OrderedMap[catalog.RuleCategory]{
			{Key: "audience", Value: catalog.RuleCategory{Label: "Audience", BaseQuestions: []string{"Who?"}, ThinkingRules: []string{"Be specific."}}},
		},
		MetaRules: catalog.OrderedMap[[]string]{
			{Key: "style", Value: []string{"Be brief."}},
		},
	}

	want := "## BRAINSTORMING RULES & QUESTION BANK\n\n" +
		"### Audience\n**Questions to consider:**\n- Who?\n**Thinking rules:**\n- Be specific.\n\n" +
		"### Meta Rules\n**Style:**\n- Be brief."
	assert.Equal(t, want, Render(book, nil))

	learned := []*entity.LearnedRule{{Category: "audience", RuleText: "Ask about age", TimesApplied: 3}}
	assert.Contains(t, Render(book, learned), "**Learned from past sessions:**\n- Ask about age (applied 3x)\n")
}
