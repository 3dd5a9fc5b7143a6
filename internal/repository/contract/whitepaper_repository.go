package contract

import (
	"context"

	"mindforge-be/internal/entity"
	"mindforge-be/internal/repository/specification"

	"github.com/google/uuid"
)

type WhitepaperRepository interface {
	Create(ctx context.Context, whitepaper *entity.Whitepaper) error
	UpdateContent(ctx context.Context, sessionId uuid.UUID, content map[string]string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Whitepaper, error)
	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error
}
