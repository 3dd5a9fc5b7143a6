package service

import (
	"context"
	"fmt"
	"strings"

	"mindforge-be/internal/constant"
	"mindforge-be/internal/dto"
	"mindforge-be/internal/entity"
	"mindforge-be/internal/pkg/logger"
	"mindforge-be/internal/pkg/serverutils"
	"mindforge-be/internal/repository/specification"
	"mindforge-be/internal/repository/unitofwork"
	"mindforge-be/pkg/events"

	"github.com/google/uuid"
)

type ISessionService interface {
	Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	GetAll(ctx context.Context) ([]*dto.SessionResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error)
	Update(ctx context.Context, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type sessionService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		logger:           log,
	}
}

func toSessionResponse(s *entity.Session) *dto.SessionResponse {
	return &dto.SessionResponse{
		Id:            s.Id,
		Name:          s.Name,
		NicheType:     s.NicheType,
		CurrentPhase:  s.CurrentPhase,
		CompletionPct: s.CompletionPct,
		Status:        s.Status,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// Create stores the session together with its empty whitepaper.
func (c *sessionService) Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = constant.DefaultSessionName
	}
	session := &entity.Session{
		Name:         name,
		CurrentPhase: 1,
		Status:       constant.SessionStatusActive,
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.SessionRepository().Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if err := uow.WhitepaperRepository().Create(ctx, &entity.Whitepaper{
		SessionId: session.Id,
		Content:   map[string]string{},
	}); err != nil {
		return nil, fmt.Errorf("create whitepaper: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	c.publish(ctx, constant.DomainEventSessionCreated, session.Id)
	return toSessionResponse(session), nil
}

func (c *sessionService) GetAll(ctx context.Context) ([]*dto.SessionResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.SessionRepository().FindAll(ctx, specification.RecentlyUpdated{})
	if err != nil {
		return nil, err
	}

	result := make([]*dto.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		result = append(result, toSessionResponse(s))
	}
	return result, nil
}

func (c *sessionService) Show(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error) {
	session, err := findSession(ctx, c.uowFactory.NewUnitOfWork(ctx), id)
	if err != nil {
		return nil, err
	}
	return toSessionResponse(session), nil
}

func (c *sessionService) Update(ctx context.Context, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	session, err := findSession(ctx, uow, req.Id)
	if err != nil {
		return nil, err
	}

	session.Name = strings.TrimSpace(req.Name)
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return nil, fmt.Errorf("rename session: %w", err)
	}
	return toSessionResponse(session), nil
}

// Delete removes the session with its turns, whitepaper and analyses.
func (c *sessionService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if _, err := findSession(ctx, uow, id); err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ConversationTurnRepository().DeleteBySessionId(ctx, id); err != nil {
		return fmt.Errorf("delete turns: %w", err)
	}
	if err := uow.WhitepaperRepository().DeleteBySessionId(ctx, id); err != nil {
		return fmt.Errorf("delete whitepaper: %w", err)
	}
	if err := uow.CompetitorAnalysisRepository().DeleteBySessionId(ctx, id); err != nil {
		return fmt.Errorf("delete analyses: %w", err)
	}
	if err := uow.SessionRepository().Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	c.publish(ctx, constant.DomainEventSessionDeleted, id)
	return nil
}

func (c *sessionService) publish(ctx context.Context, eventType string, id uuid.UUID) {
	if c.publisherService == nil {
		return
	}
	ev := events.New(eventType, map[string]interface{}{"session_id": id.String()})
	if err := c.publisherService.Publish(ctx, ev); err != nil {
		c.logger.Warn("SessionService", "Failed to publish domain event", map[string]interface{}{
			"event_type": eventType, "session_id": id, "error": err.Error(),
		})
	}
}

// findSession turns a missing row into a 404.
func findSession(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.Session, error) {
	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, serverutils.NotFound("Session not found")
	}
	return session, nil
}
