package mapper

import (
	"mindforge-be/internal/entity"
	"mindforge-be/internal/model"

	"gorm.io/datatypes"
)

type WhitepaperMapper struct{}

func NewWhitepaperMapper() *WhitepaperMapper {
	return &WhitepaperMapper{}
}

func (m *WhitepaperMapper) ToEntity(w *model.Whitepaper) *entity.Whitepaper {
	if w == nil {
		return nil
	}
	content := w.Content.Data()
	if content == nil {
		content = map[string]string{}
	}
	return &entity.Whitepaper{
		Id:        w.Id,
		SessionId: w.SessionId,
		Content:   content,
		CreatedAt: w.CreatedAt,
		UpdatedAt: timePtr(w.UpdatedAt),
	}
}

func (m *WhitepaperMapper) ToModel(w *entity.Whitepaper) *model.Whitepaper {
	if w == nil {
		return nil
	}
	content := w.Content
	if content == nil {
		content = map[string]string{}
	}
	return &model.Whitepaper{
		Id:        w.Id,
		SessionId: w.SessionId,
		Content:   datatypes.NewJSONType(content),
		CreatedAt: w.CreatedAt,
		UpdatedAt: timeVal(w.UpdatedAt),
	}
}
