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
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type WhitepaperRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WhitepaperMapper
}

func NewWhitepaperRepository(db *gorm.DB) contract.WhitepaperRepository {
	return &WhitepaperRepositoryImpl{
		db:     db,
		mapper: mapper.NewWhitepaperMapper(),
	}
}

func (r *WhitepaperRepositoryImpl) Create(ctx context.Context, whitepaper *entity.Whitepaper) error {
	m := r.mapper.ToModel(whitepaper)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*whitepaper = *r.mapper.ToEntity(m)
	return nil
}

func (r *WhitepaperRepositoryImpl) UpdateContent(ctx context.Context, sessionId uuid.UUID, content map[string]string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Whitepaper{}).
		Where("session_id = ?", sessionId).
		Update("content", datatypes.NewJSONType(content))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *WhitepaperRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Whitepaper, error) {
	var m model.Whitepaper
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *WhitepaperRepositoryImpl) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionId).Delete(&model.Whitepaper{}).Error
}
