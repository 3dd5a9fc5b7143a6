// Package pipeline runs one brainstorm turn and reports progress as a
// stream of events.
package pipeline

import (
	"context"
	"fmt"
	"runtime/debug"

	"mindforge-be/internal/constant"
	"mindforge-be/internal/entity"
	"mindforge-be/internal/pkg/logger"
	"mindforge-be/internal/repository/unitofwork"
	"mindforge-be/pkg/brainstorm/catalog"
	"mindforge-be/pkg/events"
	"mindforge-be/pkg/llm"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const module = "Pipeline"

type TurnRequest struct {
	SessionID     uuid.UUID
	Text          string
	IsVoice       bool
	RawTranscript string
}

type TranscriptCleaner interface {
	Clean(ctx context.Context, raw string) (string, error)
}

type StateBuilder interface {
	Build(ctx context.Context, sessionID uuid.UUID) (string, error)
}

type RuleLearner interface {
	Context(ctx context.Context) (string, error)
	Add(ctx context.Context, category, text string, sourceSessionID *uuid.UUID) (*entity.LearnedRule, error)
}

type CompletionCalculator interface {
	Compute(ctx context.Context, sessionID uuid.UUID) (float64, error)
}

// Options are the model settings for the streaming call.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

type Dependencies struct {
	UOWFactory unitofwork.RepositoryFactory
	Catalog    catalog.Source
	Rules      RuleLearner
	State      StateBuilder
	Completion CompletionCalculator
	Cleaner    TranscriptCleaner
	Provider   llm.LLMProvider
	// Publisher is optional.
	Publisher events.Publisher
	Logger    logger.ILogger
}

type Pipeline struct {
	deps   Dependencies
	opts   Options
	tracer trace.Tracer
}

func New(deps Dependencies, opts Options) *Pipeline {
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}
	return &Pipeline{
		deps:   deps,
		opts:   opts,
		tracer: otel.Tracer("mindforge/brainstorm"),
	}
}

// Run starts the turn in its own goroutine. The returned channel yields the
// turn's events and is closed after exactly one done or error event. If ctx
// is cancelled the goroutine stops at the next send and closes the channel.
func (p *Pipeline) Run(ctx context.Context, req TurnRequest) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)
		t := &turn{p: p, req: req, out: out}
		t.run(ctx)
	}()
	return out
}

type stage struct {
	name string
	run  func(*turn, context.Context) error
}

var stages = []stage{
	{"normalize", (*turn).normalize},
	{"persist_user_turn", (*turn).persistUserTurn},
	{"assemble_context", (*turn).assembleContext},
	{"stream_generation", (*turn).streamGeneration},
	{"extract_sections", (*turn).extractSections},
	{"apply_whitepaper_update", (*turn).applyWhitepaperUpdate},
	{"apply_new_rules", (*turn).applyNewRules},
	{"apply_phase_info", (*turn).applyPhaseInfo},
	{"classify_niche", (*turn).classifyNiche},
	{"persist_assistant_turn", (*turn).persistAssistantTurn},
	{"update_completion", (*turn).updateCompletion},
	{"done", (*turn).finish},
}

func (t *turn) run(ctx context.Context) {
	ctx, span := t.p.tracer.Start(ctx, "brainstorm.turn",
		trace.WithAttributes(attribute.String("session.id", t.req.SessionID.String())))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			t.p.deps.Logger.Error(module, "Turn panicked", map[string]interface{}{
				"session_id": t.req.SessionID, "panic": fmt.Sprint(r), "stack": string(debug.Stack()),
			})
			t.fail(ctx, fmt.Errorf("internal error: %v", r))
		}
	}()

	for _, st := range stages {
		if err := t.runStage(ctx, st); err != nil {
			span.SetStatus(codes.Error, err.Error())
			t.p.deps.Logger.Error(module, "Turn failed", map[string]interface{}{
				"session_id": t.req.SessionID, "stage": st.name, "error": err.Error(),
			})
			t.fail(ctx, err)
			return
		}
	}

	t.publishCompleted(ctx)
}

// runStage converts a panic inside a stage into an error so the caller can
// emit the terminal error event.
func (t *turn) runStage(ctx context.Context, st stage) (err error) {
	ctx, span := t.p.tracer.Start(ctx, "brainstorm.turn/"+st.name)
	defer func() {
		if r := recover(); r != nil {
			t.p.deps.Logger.Error(module, "Stage panicked", map[string]interface{}{
				"stage": st.name, "panic": fmt.Sprint(r), "stack": string(debug.Stack()),
			})
			err = fmt.Errorf("internal error in %s: %v", st.name, r)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	return st.run(t, ctx)
}

func (t *turn) emit(ctx context.Context, name string, payload interface{}) error {
	select {
	case t.out <- Event{Name: name, Payload: payload}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *turn) fail(ctx context.Context, err error) {
	if t.terminated {
		return
	}
	t.terminated = true
	_ = t.emit(ctx, constant.EventError, ErrorPayload{Message: err.Error()})
}

func (t *turn) publishCompleted(ctx context.Context) {
	t.publish(ctx, constant.DomainEventTurnCompleted, map[string]interface{}{
		"session_id":       t.req.SessionID.String(),
		"completion_pct":   t.completion,
		"sections_updated": len(t.appliedDelta),
		"rules_learned":    len(t.learnedRules),
	})
}

// publish is best-effort; a failed publish never fails the turn.
func (t *turn) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if t.p.deps.Publisher == nil {
		return
	}
	if err := t.p.deps.Publisher.Publish(context.WithoutCancel(ctx), events.New(eventType, data)); err != nil {
		t.p.deps.Logger.Warn(module, "Failed to publish domain event", map[string]interface{}{
			"session_id": t.req.SessionID, "event_type": eventType, "error": err.Error(),
		})
	}
}
