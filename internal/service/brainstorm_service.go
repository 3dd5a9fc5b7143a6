package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"mindforge-be/internal/dto"
	"mindforge-be/internal/pkg/serverutils"
	"mindforge-be/internal/repository/specification"
	"mindforge-be/internal/repository/unitofwork"
	"mindforge-be/pkg/brainstorm/pipeline"

	"github.com/google/uuid"
)

// LiveFeed mirrors turn events to anyone watching the session.
type LiveFeed interface {
	Publish(sessionID uuid.UUID, event string, data interface{})
}

// TurnRunner runs one brainstorm turn.
type TurnRunner interface {
	Run(ctx context.Context, req pipeline.TurnRequest) <-chan pipeline.Event
}

type IBrainstormService interface {
	// SendMessage validates the turn and starts it. Errors are returned before
	// any event is produced.
	SendMessage(ctx context.Context, sessionID uuid.UUID, req *dto.SendMessageRequest) (<-chan pipeline.Event, error)
	History(ctx context.Context, sessionID uuid.UUID) ([]*dto.TurnResponse, error)
}

type brainstormService struct {
	uowFactory      unitofwork.RepositoryFactory
	runner          TurnRunner
	live            LiveFeed
	maxMessageChars int
}

// NewBrainstormService builds the service. live may be nil.
func NewBrainstormService(
	uowFactory unitofwork.RepositoryFactory,
	runner TurnRunner,
	live LiveFeed,
	maxMessageChars int,
) IBrainstormService {
	return &brainstormService{
		uowFactory:      uowFactory,
		runner:          runner,
		live:            live,
		maxMessageChars: maxMessageChars,
	}
}

func (s *brainstormService) SendMessage(ctx context.Context, sessionID uuid.UUID, req *dto.SendMessageRequest) (<-chan pipeline.Event, error) {
	if n := utf8.RuneCountInString(req.Text); n > s.maxMessageChars {
		return nil, serverutils.BadRequest(fmt.Sprintf("text must be at most %d characters", s.maxMessageChars))
	}
	if _, err := findSession(ctx, s.uowFactory.NewUnitOfWork(ctx), sessionID); err != nil {
		return nil, err
	}

	events := s.runner.Run(ctx, pipeline.TurnRequest{
		SessionID:     sessionID,
		Text:          req.Text,
		IsVoice:       req.IsVoice,
		RawTranscript: req.RawTranscript,
	})
	if s.live == nil {
		return events, nil
	}
	return s.mirror(ctx, sessionID, events), nil
}

// mirror copies every event to the live feed. Once ctx is done it stops
// forwarding but keeps draining so the pipeline can finish.
func (s *brainstormService) mirror(ctx context.Context, sessionID uuid.UUID, in <-chan pipeline.Event) <-chan pipeline.Event {
	out := make(chan pipeline.Event)
	go func() {
		defer close(out)
		for ev := range in {
			s.live.Publish(sessionID, ev.Name, ev.Payload)
			select {
			case out <- ev:
			case <-ctx.Done():
			}
		}
	}()
	return out
}

func (s *brainstormService) History(ctx context.Context, sessionID uuid.UUID) ([]*dto.TurnResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := findSession(ctx, uow, sessionID); err != nil {
		return nil, err
	}

	turns, err := uow.ConversationTurnRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionID},
		specification.ChronologicalTurns{},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.TurnResponse, 0, len(turns))
	for _, t := range turns {
		result = append(result, &dto.TurnResponse{
			Id:                t.Id,
			Role:              t.Role,
			RawTranscript:     t.RawTranscript,
			CleanedText:       t.CleanedText,
			Analysis:          t.Analysis,
			Gaps:              t.Gaps,
			Insights:          t.Insights,
			Questions:         t.Questions,
			WhitepaperUpdates: t.WhitepaperUpdates,
			CreatedAt:         t.CreatedAt,
		})
	}
	return result, nil
}
