package implementation

import (
	"context"

	"mindforge-be/internal/entity"
	"mindforge-be/internal/mapper"
	"mindforge-be/internal/model"
	"mindforge-be/internal/repository/contract"
	"mindforge-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CompetitorAnalysisRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CompetitorMapper
}

func NewCompetitorAnalysisRepository(db *gorm.DB) contract.CompetitorAnalysisRepository {
	return &CompetitorAnalysisRepositoryImpl{
		db:     db,
		mapper: mapper.NewCompetitorMapper(),
	}
}

func (r *CompetitorAnalysisRepositoryImpl) Create(ctx context.Context, analysis *entity.CompetitorAnalysis) error {
	m := r.mapper.ToModel(analysis)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*analysis = *r.mapper.ToEntity(m)
	return nil
}

func (r *CompetitorAnalysisRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CompetitorAnalysis, error) {
	var models []*model.CompetitorAnalysis
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *CompetitorAnalysisRepositoryImpl) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionId).Delete(&model.CompetitorAnalysis{}).Error
}
