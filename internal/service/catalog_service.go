package service

import (
	"context"

	"mindforge-be/pkg/brainstorm/catalog"
)

type ICatalogService interface {
	// Niches maps niche key to display label.
	Niches(ctx context.Context) (map[string]string, error)
}

type catalogService struct {
	source catalog.Source
}

func NewCatalogService(source catalog.Source) ICatalogService {
	return &catalogService{source: source}
}

func (s *catalogService) Niches(ctx context.Context) (map[string]string, error) {
	book, err := s.source.Niches(ctx)
	if err != nil {
		return nil, err
	}
	return book.Labels(), nil
}
