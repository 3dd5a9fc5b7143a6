package service

import (
	"context"

	"mindforge-be/internal/dto"
	"mindforge-be/internal/repository/specification"
	"mindforge-be/internal/repository/unitofwork"
	"mindforge-be/pkg/competitor"

	"github.com/google/uuid"
)

type CompetitorRunner interface {
	Run(ctx context.Context, req competitor.Request) <-chan competitor.Event
}

type ICompetitorService interface {
	Analyze(ctx context.Context, sessionID uuid.UUID, req *dto.AnalyzeCompetitorsRequest) (<-chan competitor.Event, error)
	GetAll(ctx context.Context, sessionID uuid.UUID) ([]*dto.CompetitorAnalysisResponse, error)
}

type competitorService struct {
	uowFactory unitofwork.RepositoryFactory
	runner     CompetitorRunner
}

func NewCompetitorService(uowFactory unitofwork.RepositoryFactory, runner CompetitorRunner) ICompetitorService {
	return &competitorService{
		uowFactory: uowFactory,
		runner:     runner,
	}
}

func (s *competitorService) Analyze(ctx context.Context, sessionID uuid.UUID, req *dto.AnalyzeCompetitorsRequest) (<-chan competitor.Event, error) {
	if _, err := findSession(ctx, s.uowFactory.NewUnitOfWork(ctx), sessionID); err != nil {
		return nil, err
	}
	return s.runner.Run(ctx, competitor.Request{
		SessionID: sessionID,
		Query:     req.Query,
		URLs:      req.URLs,
	}), nil
}

func (s *competitorService) GetAll(ctx context.Context, sessionID uuid.UUID) ([]*dto.CompetitorAnalysisResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := findSession(ctx, uow, sessionID); err != nil {
		return nil, err
	}

	analyses, err := uow.CompetitorAnalysisRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionID},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.CompetitorAnalysisResponse, 0, len(analyses))
	for _, a := range analyses {
		sites := make([]dto.SiteResponse, 0, len(a.Results))
		for _, r := range a.Results {
			sites = append(sites, dto.SiteResponse{
				URL:             r.URL,
				Title:           r.Title,
				MetaDescription: r.MetaDescription,
				Headings:        r.Headings,
				ContentLength:   r.ContentLength,
				Error:           r.Error,
			})
		}
		result = append(result, &dto.CompetitorAnalysisResponse{
			Id:        a.Id,
			Query:     a.Query,
			URLs:      a.URLs,
			Sites:     sites,
			Summary:   a.Summary,
			CreatedAt: a.CreatedAt,
		})
	}
	return result, nil
}
