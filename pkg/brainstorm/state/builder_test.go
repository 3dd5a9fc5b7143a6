package state

import (
	"context"
	"strings"
	"testing"
	"time"

	"mindforge-be/internal/entity"
	"mindforge-be/internal/testutil"
	"mindforge-be/pkg/brainstorm/catalog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildNewSession(t *testing.T) {
	ctx := context.Background()
	factory := testutil.NewFactory(t)
	uow := factory.NewUnitOfWork(ctx)

	session := &entity.Session{Name: "Bakery", CurrentPhase: 1, Status: "active"}
	require.NoError(t, uow.SessionRepository().Create(ctx, session))
	require.NoError(t, uow.WhitepaperRepository().Create(ctx, &entity.Whitepaper{SessionId: session.Id, Content: map[string]string{}}))

	out, err := NewBuilder(factory, catalog.NewLoader("", ""), 200, 500).Build(ctx, session.Id)
	require.NoError(t, err)

	want := "**Current phase**: 1\n" +
		"**Conversation turns so far**: 0\n" +
		"\n## Current Whitepaper State\n" +
		emptyWhitepaper + "\n" +
		"\n## Conversation History\n" +
		emptyHistory
	assert.Equal(t, want, out)
}

func TestBuildUnknownSession(t *testing.T) {
	out, err := NewBuilder(testutil.NewFactory(t), catalog.NewLoader("", ""), 200, 500).Build(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Contains(t, out, "**Current phase**: 1")
	assert.NotContains(t, out, "Classified niche")
	assert.Contains(t, out, emptyHistory)
}

func TestBuildWithHistory(t *testing.T) {
	ctx := context.Background()
	factory := testutil.NewFactory(t)
	uow := factory.NewUnitOfWork(ctx)

	niche := "restaurant"
	session := &entity.Session{Name: "Bakery", NicheType: &niche, CurrentPhase: 2, Status: "active"}
	require.NoError(t, uow.SessionRepository().Create(ctx, session))
	require.NoError(t, uow.WhitepaperRepository().Create(ctx, &entity.Whitepaper{
		SessionId: session.Id,
		Content: map[string]string{
			"project_overview": strings.Repeat("é", 12),
			"target_audience":  "Locals",
		},
	}))

	base := time.Now().Add(-time.Hour)
	turns := []*entity.ConversationTurn{
		{SessionId: session.Id, Role: entity.TurnRoleUser, CleanedText: "I want a bakery website", CreatedAt: base},
		{SessionId: session.Id, Role: entity.TurnRoleAssistant, CleanedText: "Tell me more about your customers and your menu", CreatedAt: base.Add(time.Second)},
	}
	for _, turn := range turns {
		require.NoError(t, uow.ConversationTurnRepository().Create(ctx, turn))
	}

	out, err := NewBuilder(factory, catalog.NewLoader("", ""), 10, 20).Build(ctx, session.Id)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "**Classified niche**: restaurant\n**Current phase**: 2\n**Conversation turns so far**: 2\n"))
	assert.Contains(t, out, "- **project_overview**: HAS CONTENT\n  Current: "+strings.Repeat("é", 10)+"...\n")
	assert.Contains(t, out, "- **target_audience**: HAS CONTENT\n  Current: Locals\n")
	assert.Contains(t, out, "- **pain_points**: EMPTY\n")
	assert.NotContains(t, out, emptyWhitepaper)
	assert.True(t, strings.HasSuffix(out, "**User:** I want a bakery webs\n**MindForge:** Tell me more about y"))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in      string
		n       int
		want    string
		wantCut bool
	}{
		{in: "hello", n: 10, want: "hello"},
		{in: "hello", n: 5, want: "hello"},
		{in: "hello", n: 3, want: "hel", wantCut: true},
		{in: "héllo", n: 2, want: "hé", wantCut: true},
		{in: "hello", n: 0, want: "hello"},
	}
	for _, tt := range tests {
		got, cut := Truncate(tt.in, tt.n)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.wantCut, cut)
	}
}
