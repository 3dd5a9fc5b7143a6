package contract

import (
	"context"

	"mindforge-be/internal/entity"
	"mindforge-be/internal/repository/specification"

	"github.com/google/uuid"
)

type CompetitorAnalysisRepository interface {
	Create(ctx context.Context, analysis *entity.CompetitorAnalysis) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CompetitorAnalysis, error)
	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error
}
