package service

import (
	"context"

	"mindforge-be/internal/dto"
	"mindforge-be/internal/pkg/serverutils"
	"mindforge-be/internal/repository/specification"
	"mindforge-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// DocumentSynthesizer turns a session's sections into one markdown document.
type DocumentSynthesizer interface {
	Synthesize(ctx context.Context, sessionID uuid.UUID) (string, error)
}

type IWhitepaperService interface {
	Show(ctx context.Context, sessionID uuid.UUID) (*dto.WhitepaperResponse, error)
	Generate(ctx context.Context, sessionID uuid.UUID) (*dto.GenerateWhitepaperResponse, error)
}

type whitepaperService struct {
	uowFactory  unitofwork.RepositoryFactory
	synthesizer DocumentSynthesizer
}

func NewWhitepaperService(uowFactory unitofwork.RepositoryFactory, synthesizer DocumentSynthesizer) IWhitepaperService {
	return &whitepaperService{
		uowFactory:  uowFactory,
		synthesizer: synthesizer,
	}
}

func (s *whitepaperService) Show(ctx context.Context, sessionID uuid.UUID) (*dto.WhitepaperResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	wp, err := uow.WhitepaperRepository().FindOne(ctx, specification.BySessionID{SessionID: sessionID})
	if err != nil {
		return nil, err
	}
	if wp == nil {
		return nil, serverutils.NotFound("Whitepaper not found")
	}

	sections := wp.Content
	if sections == nil {
		sections = map[string]string{}
	}
	return &dto.WhitepaperResponse{
		SessionId: wp.SessionId,
		Sections:  sections,
		UpdatedAt: wp.UpdatedAt,
	}, nil
}

func (s *whitepaperService) Generate(ctx context.Context, sessionID uuid.UUID) (*dto.GenerateWhitepaperResponse, error) {
	if _, err := findSession(ctx, s.uowFactory.NewUnitOfWork(ctx), sessionID); err != nil {
		return nil, err
	}

	markdown, err := s.synthesizer.Synthesize(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &dto.GenerateWhitepaperResponse{
		SessionId:          sessionID,
		WhitepaperMarkdown: markdown,
	}, nil
}
