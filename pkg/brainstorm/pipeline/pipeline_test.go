package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"mindforge-be/internal/entity"
	"mindforge-be/internal/repository/specification"
	"mindforge-be/internal/repository/unitofwork"
	"mindforge-be/internal/testutil"
	"mindforge-be/pkg/brainstorm/catalog"
	"mindforge-be/pkg/brainstorm/completion"
	"mindforge-be/pkg/brainstorm/rules"
	"mindforge-be/pkg/brainstorm/state"
	"mindforge-be/pkg/events"
	"mindforge-be/pkg/llm/llmtest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeCleaner struct{ out string }

func (f fakeCleaner) Clean(ctx context.Context, raw string) (string, error) {
	return f.out, nil
}

type panickyState struct{}

func (panickyState) Build(ctx context.Context, id uuid.UUID) (string, error) {
	panic("state exploded")
}

type recordingPublisher struct{ got []events.Event }

func (r *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	r.got = append(r.got, e)
	return nil
}

type fixture struct {
	factory   unitofwork.RepositoryFactory
	provider  *llmtest.Provider
	publisher *recordingPublisher
	deps      Dependencies
	session   *entity.Session
}

func newFixture(t *testing.T, content map[string]string) *fixture {
	t.Helper()
	ctx := context.Background()
	factory := testutil.NewFactory(t)
	source := catalog.NewLoader("", "")

	session := &entity.Session{Name: "Bakery", CurrentPhase: 1, Status: "active"}
	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.SessionRepository().Create(ctx, session))
	require.NoError(t, uow.WhitepaperRepository().Create(ctx, &entity.Whitepaper{SessionId: session.Id, Content: content}))

	provider := &llmtest.Provider{}
	publisher := &recordingPublisher{}
	return &fixture{
		factory:   factory,
		provider:  provider,
		publisher: publisher,
		session:   session,
		deps: Dependencies{
			UOWFactory: factory,
			Catalog:    source,
			Rules:      rules.NewStore(factory, source),
			State:      state.NewBuilder(factory, source, 200, 500),
			Completion: completion.NewCalculator(factory, source),
			Cleaner:    fakeCleaner{out: "I want a bakery website"},
			Provider:   provider,
			Publisher:  publisher,
		},
	}
}

func (f *fixture) run(t *testing.T, req TurnRequest) []Event {
	t.Helper()
	if req.SessionID == uuid.Nil {
		req.SessionID = f.session.Id
	}
	ch := New(f.deps, Options{Model: "test", MaxTokens: 4000, Temperature: 0.7}).Run(context.Background(), req)

	var out []Event
	timeout := time.After(10 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatal("pipeline did not finish")
		}
	}
}

func names(evs []Event) []string {
	out := make([]string, 0, len(evs))
	for _, ev := range evs {
		if ev.Name == "token" {
			if len(out) > 0 && out[len(out)-1] == "token" {
				continue
			}
		}
		out = append(out, ev.Name)
	}
	return out
}

func find(evs []Event, name string) (Event, bool) {
	for _, ev := range evs {
		if ev.Name == name {
			return ev, true
		}
	}
	return Event{}, false
}

func terminalCount(evs []Event) int {
	n := 0
	for _, ev := range evs {
		if ev.Terminal() {
			n++
		}
	}
	return n
}

const bakeryResponse = "<analysis>The user wants a bakery website to sell fresh bread and pastries.</analysis>\n" +
	"<gaps>- opening hours\n- delivery area</gaps>\n" +
	"<questions>1. Do you take custom cake orders?</questions>\n" +
	`<whitepaper_update>{"project_overview": "A website for a neighbourhood bakery", "bogus_key": "dropped", "target_audience": 5}</whitepaper_update>` + "\n" +
	`<new_rules>[{"category": "business", "rule_text": "Ask about seasonal products"}, {"category": "astrology", "rule_text": "unknown category"}, {"rule_text": "no category"}]</new_rules>` + "\n" +
	`<phase_info>{"current_phase": 2, "phase_name": "Foundation", "next_milestone": "Define the audience"}</phase_info>`

func chunk(s string, size int) []string {
	var out []string
	for len(s) > size {
		out = append(out, s[:size])
		s = s[size:]
	}
	return append(out, s)
}

func TestRunBakeryTurn(t *testing.T) {
	f := newFixture(t, map[string]string{})
	f.provider.Chunks = chunk(bakeryResponse, 17)

	evs := f.run(t, TurnRequest{Text: "I want a bakery website"})

	assert.Equal(t, []string{
		"status", "status", "token", "status",
		"analysis", "gaps", "questions",
		"whitepaper_update", "new_rules", "phase_info", "niche_classified",
		"completion", "done",
	}, names(evs))
	assert.Equal(t, StatusPayload{Status: "loading_rules"}, evs[0].Payload)
	assert.Equal(t, StatusPayload{Status: "thinking"}, evs[1].Payload)
	assert.Equal(t, 1, terminalCount(evs))

	var streamed strings.Builder
	for _, ev := range evs {
		if ev.Name == "token" {
			streamed.WriteString(ev.Payload.(TokenPayload).Text)
		}
	}
	assert.Equal(t, bakeryResponse, streamed.String())

	wp, _ := find(evs, "whitepaper_update")
	assert.Equal(t, WhitepaperPayload{"project_overview": "A website for a neighbourhood bakery"}, wp.Payload)

	nr, _ := find(evs, "new_rules")
	assert.Equal(t, NewRulesPayload{Count: 3, Rules: []RuleEntry{
		{Category: "business", RuleText: "Ask about seasonal products"},
		{Category: "astrology", RuleText: "unknown category"},
		{RuleText: "no category"},
	}}, nr.Payload)

	phase, _ := find(evs, "phase_info")
	assert.Equal(t, "Foundation", phase.Payload.(PhaseInfoPayload)["phase_name"])

	niche, _ := find(evs, "niche_classified")
	assert.Equal(t, NichePayload{Niche: "restaurant"}, niche.Payload)

	comp, _ := find(evs, "completion")
	assert.Equal(t, CompletionPayload{Pct: 7.1}, comp.Payload)
	assert.Greater(t, comp.Payload.(CompletionPayload).Pct, 0.0)

	done := evs[len(evs)-1]
	assert.Equal(t, DonePayload{SessionID: f.session.Id.String()}, done.Payload)

	ctx := context.Background()
	uow := f.factory.NewUnitOfWork(ctx)
	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: f.session.Id})
	require.NoError(t, err)
	require.NotNil(t, session.NicheType)
	assert.Equal(t, "restaurant", *session.NicheType)
	assert.Equal(t, 2, session.CurrentPhase)
	assert.Equal(t, 7.1, session.CompletionPct)

	turns, err := uow.ConversationTurnRepository().FindAll(ctx,
		specification.BySessionID{SessionID: f.session.Id}, specification.ChronologicalTurns{})
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, entity.TurnRoleUser, turns[0].Role)
	assert.Nil(t, turns[0].RawTranscript)
	assistant := turns[1]
	assert.Equal(t, bakeryResponse, assistant.CleanedText)
	require.NotNil(t, assistant.Analysis)
	assert.Contains(t, *assistant.Analysis, "bakery")
	assert.Nil(t, assistant.Insights)
	require.NotNil(t, assistant.WhitepaperUpdates)
	assert.Contains(t, *assistant.WhitepaperUpdates, "bogus_key")

	learned, err := uow.LearnedRuleRepository().FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, learned, 1)
	require.NotNil(t, learned[0].SourceSessionId)
	assert.Equal(t, f.session.Id, *learned[0].SourceSessionId)

	calls := f.provider.Calls()
	require.Len(t, calls, 1)
	require.Len(t, calls[0].History, 2)
	assert.Equal(t, "system", calls[0].History[0].Role)
	assert.Contains(t, calls[0].History[0].Content, "**Conversation turns so far**: 1")
	assert.Equal(t, "I want a bakery website", calls[0].History[1].Content)
	assert.Equal(t, 4000, calls[0].Options.MaxTokens)

	require.Len(t, f.publisher.got, 2)
	assert.Equal(t, "RULE_LEARNED", f.publisher.got[0].EventType())
	ruleID, _ := events.StringField(f.publisher.got[0], "rule_id")
	assert.Equal(t, learned[0].Id.String(), ruleID)
	assert.Equal(t, "TURN_COMPLETED", f.publisher.got[1].EventType())
}

func TestRunSecondTurnKeepsNicheAndHistory(t *testing.T) {
	f := newFixture(t, map[string]string{})
	f.provider.Chunks = []string{bakeryResponse}
	f.run(t, TurnRequest{Text: "I want a bakery website"})

	f.provider.Chunks = []string{"<analysis>Actually an online shop with a cart and checkout for products.</analysis>"}
	evs := f.run(t, TurnRequest{Text: "We also ship cakes"})

	_, classified := find(evs, "niche_classified")
	assert.False(t, classified)

	calls := f.provider.Calls()
	require.Len(t, calls, 2)
	history := calls[1].History
	require.Len(t, history, 4)
	assert.Equal(t, "assistant", history[2].Role)
	assert.Equal(t, bakeryResponse, history[2].Content)
	assert.Equal(t, "We also ship cakes", history[3].Content)
	assert.Contains(t, history[0].Content, "## NICHE INTELLIGENCE: Restaurant")
}

func TestRunInvalidWhitepaperUpdateStillCompletes(t *testing.T) {
	f := newFixture(t, map[string]string{"project_overview": "Existing overview"})
	f.provider.Chunks = []string{"<insights>Think about delivery.</insights><whitepaper_update>{not json</whitepaper_update><phase_info>{\"current_phase\": \"two\"}</phase_info>"}

	evs := f.run(t, TurnRequest{Text: "hello"})

	_, updated := find(evs, "whitepaper_update")
	assert.False(t, updated)
	_, phased := find(evs, "phase_info")
	assert.False(t, phased)
	_, insights := find(evs, "insights")
	assert.True(t, insights)

	comp, ok := find(evs, "completion")
	require.True(t, ok)
	assert.Equal(t, CompletionPayload{Pct: 7.1}, comp.Payload)
	assert.Equal(t, "done", evs[len(evs)-1].Name)

	ctx := context.Background()
	wp, err := f.factory.NewUnitOfWork(ctx).WhitepaperRepository().FindOne(ctx, specification.BySessionID{SessionID: f.session.Id})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"project_overview": "Existing overview"}, wp.Content)
}

func TestRunInvalidRulesStillAnnounced(t *testing.T) {
	f := newFixture(t, map[string]string{})
	f.provider.Chunks = []string{`<analysis>ok</analysis><new_rules>[{"category":"business"},{"rule_text":"orphan"}]</new_rules>`}

	evs := f.run(t, TurnRequest{Text: "hello"})

	nr, ok := find(evs, "new_rules")
	require.True(t, ok)
	assert.Equal(t, NewRulesPayload{Count: 2, Rules: []RuleEntry{{Category: "business"}, {RuleText: "orphan"}}}, nr.Payload)
	assert.Equal(t, "done", evs[len(evs)-1].Name)

	ctx := context.Background()
	learned, err := f.factory.NewUnitOfWork(ctx).LearnedRuleRepository().FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, learned)
	assert.Len(t, f.publisher.got, 1)
}

func TestRunEmptyRuleListIsSilent(t *testing.T) {
	f := newFixture(t, map[string]string{})
	f.provider.Chunks = []string{`<new_rules>[]</new_rules>`}

	evs := f.run(t, TurnRequest{Text: "hello"})

	_, ok := find(evs, "new_rules")
	assert.False(t, ok)
	assert.Equal(t, "done", evs[len(evs)-1].Name)
}

func TestRunOutOfRangePhaseIsSkipped(t *testing.T) {
	f := newFixture(t, map[string]string{})
	f.provider.Chunks = []string{`<phase_info>{"current_phase": 1e30}</phase_info>`}

	evs := f.run(t, TurnRequest{Text: "hello"})

	_, phased := find(evs, "phase_info")
	assert.False(t, phased)

	ctx := context.Background()
	session, err := f.factory.NewUnitOfWork(ctx).SessionRepository().FindOne(ctx, specification.ByID{ID: f.session.Id})
	require.NoError(t, err)
	assert.Equal(t, 1, session.CurrentPhase)
}

func TestRunTypedTurnDropsRawTranscript(t *testing.T) {
	f := newFixture(t, map[string]string{})
	f.provider.Chunks = []string{"<analysis>ok</analysis>"}

	f.run(t, TurnRequest{Text: "typed text", RawTranscript: "stray transcript"})

	ctx := context.Background()
	turns, err := f.factory.NewUnitOfWork(ctx).ConversationTurnRepository().FindAll(ctx,
		specification.BySessionID{SessionID: f.session.Id}, specification.ChronologicalTurns{})
	require.NoError(t, err)
	require.NotEmpty(t, turns)
	assert.Nil(t, turns[0].RawTranscript)
	assert.Equal(t, "typed text", turns[0].CleanedText)
}

func TestRunMergeIsLastWriteWins(t *testing.T) {
	f := newFixture(t, map[string]string{})

	for _, delta := range []string{`{"project_overview": "1"}`, `{"project_overview": "2"}`, `{"security": "https only"}`} {
		f.provider.Chunks = []string{"<whitepaper_update>" + delta + "</whitepaper_update>"}
		evs := f.run(t, TurnRequest{Text: "next"})
		require.Equal(t, "done", evs[len(evs)-1].Name)
	}

	ctx := context.Background()
	wp, err := f.factory.NewUnitOfWork(ctx).WhitepaperRepository().FindOne(ctx, specification.BySessionID{SessionID: f.session.Id})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"project_overview": "2", "security": "https only"}, wp.Content)
}

func TestRunStreamErrorIsTerminal(t *testing.T) {
	f := newFixture(t, map[string]string{})
	f.provider.Chunks = []string{"<analysis>half"}
	f.provider.StreamErr = errors.New("provider overloaded")

	evs := f.run(t, TurnRequest{Text: "hello"})

	last := evs[len(evs)-1]
	assert.Equal(t, "error", last.Name)
	assert.Equal(t, ErrorPayload{Message: "provider overloaded"}, last.Payload)
	assert.Equal(t, 1, terminalCount(evs))
	_, processed := find(evs, "completion")
	assert.False(t, processed)

	ctx := context.Background()
	count, err := f.factory.NewUnitOfWork(ctx).ConversationTurnRepository().Count(ctx, specification.BySessionID{SessionID: f.session.Id})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Empty(t, f.publisher.got)
}

func TestRunVoiceTurn(t *testing.T) {
	f := newFixture(t, map[string]string{})
	f.provider.Chunks = []string{"<analysis>ok</analysis>"}

	evs := f.run(t, TurnRequest{Text: "um I want uh a bakery website", IsVoice: true, RawTranscript: "um I want uh a bakery website"})

	require.GreaterOrEqual(t, len(evs), 2)
	assert.Equal(t, StatusPayload{Status: "cleaning_transcript"}, evs[0].Payload)
	assert.Equal(t, TranscriptPayload{Raw: "um I want uh a bakery website", Cleaned: "I want a bakery website"}, evs[1].Payload)

	ctx := context.Background()
	turns, err := f.factory.NewUnitOfWork(ctx).ConversationTurnRepository().FindAll(ctx,
		specification.BySessionID{SessionID: f.session.Id}, specification.ChronologicalTurns{})
	require.NoError(t, err)
	require.NotNil(t, turns[0].RawTranscript)
	assert.Equal(t, "um I want uh a bakery website", *turns[0].RawTranscript)
	assert.Equal(t, "I want a bakery website", turns[0].CleanedText)
}

func TestRunRecoversPanics(t *testing.T) {
	f := newFixture(t, map[string]string{})
	f.deps.State = panickyState{}

	evs := f.run(t, TurnRequest{Text: "hello"})

	last := evs[len(evs)-1]
	assert.Equal(t, "error", last.Name)
	assert.Contains(t, last.Payload.(ErrorPayload).Message, "state exploded")
	assert.Equal(t, 1, terminalCount(evs))
	assert.Empty(t, f.provider.Calls())
}

func TestRunAbandonedConsumerDoesNotLeak(t *testing.T) {
	f := newFixture(t, map[string]string{})
	f.provider.Chunks = []string{"a", "b", "c"}
	f.provider.Block = true
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	ch := New(f.deps, Options{}).Run(ctx, TurnRequest{SessionID: f.session.Id, Text: "hello"})

	for ev := range ch {
		if ev.Name == "token" {
			break
		}
	}
	cancel()

	select {
	case <-drain(ch):
	case <-time.After(5 * time.Second):
		t.Fatal("pipeline goroutine did not exit")
	}
}

func drain(ch <-chan Event) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		for range ch {
		}
		close(done)
	}()
	return done
}
