package mapper

import (
	"mindforge-be/internal/entity"
	"mindforge-be/internal/model"
)

type RuleMapper struct{}

func NewRuleMapper() *RuleMapper {
	return &RuleMapper{}
}

func (m *RuleMapper) ToEntity(r *model.LearnedRule) *entity.LearnedRule {
	if r == nil {
		return nil
	}
	return &entity.LearnedRule{
		Id:              r.Id,
		Category:        r.Category,
		RuleText:        r.RuleText,
		SourceSessionId: r.SourceSessionId,
		TimesApplied:    r.TimesApplied,
		Active:          r.Active,
		CreatedAt:       r.CreatedAt,
	}
}

func (m *RuleMapper) ToModel(r *entity.LearnedRule) *model.LearnedRule {
	if r == nil {
		return nil
	}
	return &model.LearnedRule{
		Id:              r.Id,
		Category:        r.Category,
		RuleText:        r.RuleText,
		SourceSessionId: r.SourceSessionId,
		TimesApplied:    r.TimesApplied,
		Active:          r.Active,
		CreatedAt:       r.CreatedAt,
	}
}

func (m *RuleMapper) ToEntities(models []*model.LearnedRule) []*entity.LearnedRule {
	entities := make([]*entity.LearnedRule, len(models))
	for i, r := range models {
		entities[i] = m.ToEntity(r)
	}
	return entities
}
