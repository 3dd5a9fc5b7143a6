package contract

import (
	"context"

	"mindforge-be/internal/entity"
	"mindforge-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	Update(ctx context.Context, session *entity.Session) error
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	// ClassifyIfUnset stores the niche only when none is set; false means it was already classified.
	ClassifyIfUnset(ctx context.Context, id uuid.UUID, niche string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
