package implementation

import (
	"context"
	"errors"

	"mindforge-be/internal/entity"
	"mindforge-be/internal/mapper"
	"mindforge-be/internal/model"
	"mindforge-be/internal/repository/contract"
	"mindforge-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LearnedRuleRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RuleMapper
}

func NewLearnedRuleRepository(db *gorm.DB) contract.LearnedRuleRepository {
	return &LearnedRuleRepositoryImpl{
		db:     db,
		mapper: mapper.NewRuleMapper(),
	}
}

func (r *LearnedRuleRepositoryImpl) Create(ctx context.Context, rule *entity.LearnedRule) error {
	m := r.mapper.ToModel(rule)
	// Select keeps an explicit false/0 from being replaced by column defaults
	if err := r.db.WithContext(ctx).Select("*").Create(m).Error; err != nil {
		return err
	}
	*rule = *r.mapper.ToEntity(m)
	return nil
}

func (r *LearnedRuleRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LearnedRule, error) {
	var m model.LearnedRule
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *LearnedRuleRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LearnedRule, error) {
	var models []*model.LearnedRule
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *LearnedRuleRepositoryImpl) IncrementUsage(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.LearnedRule{}).
		Where("id = ?", id).
		UpdateColumn("times_applied", gorm.Expr("times_applied + ?", 1))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
