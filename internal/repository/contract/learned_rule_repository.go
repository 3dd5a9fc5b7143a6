package contract

import (
	"context"

	"mindforge-be/internal/entity"
	"mindforge-be/internal/repository/specification"

	"github.com/google/uuid"
)

type LearnedRuleRepository interface {
	Create(ctx context.Context, rule *entity.LearnedRule) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LearnedRule, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LearnedRule, error)
	// IncrementUsage returns false when no rule has the given id.
	IncrementUsage(ctx context.Context, id uuid.UUID) (bool, error)
}
