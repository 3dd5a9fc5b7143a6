package mapper

import (
	"mindforge-be/internal/entity"
	"mindforge-be/internal/model"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

// Session Mappers

func (m *SessionMapper) SessionToEntity(s *model.Session) *entity.Session {
	if s == nil {
		return nil
	}
	return &entity.Session{
		Id:            s.Id,
		Name:          s.Name,
		NicheType:     s.NicheType,
		CurrentPhase:  s.CurrentPhase,
		CompletionPct: s.CompletionPct,
		Status:        s.Status,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     timePtr(s.UpdatedAt),
		DeletedAt:     deletedAtPtr(s.DeletedAt),
		IsDeleted:     s.DeletedAt.Valid,
	}
}

func (m *SessionMapper) SessionToModel(s *entity.Session) *model.Session {
	if s == nil {
		return nil
	}
	return &model.Session{
		Id:            s.Id,
		Name:          s.Name,
		NicheType:     s.NicheType,
		CurrentPhase:  s.CurrentPhase,
		CompletionPct: s.CompletionPct,
		Status:        s.Status,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     timeVal(s.UpdatedAt),
		DeletedAt:     deletedAtModel(s.DeletedAt, s.IsDeleted),
	}
}

// Turn Mappers

func (m *SessionMapper) TurnToEntity(t *model.ConversationTurn) *entity.ConversationTurn {
	if t == nil {
		return nil
	}
	return &entity.ConversationTurn{
		Id:                t.Id,
		SessionId:         t.SessionId,
		Role:              t.Role,
		RawTranscript:     t.RawTranscript,
		CleanedText:       t.CleanedText,
		Analysis:          t.Analysis,
		Gaps:              t.Gaps,
		Insights:          t.Insights,
		Questions:         t.Questions,
		WhitepaperUpdates: t.WhitepaperUpdates,
		CreatedAt:         t.CreatedAt,
	}
}

func (m *SessionMapper) TurnToModel(t *entity.ConversationTurn) *model.ConversationTurn {
	if t == nil {
		return nil
	}
	return &model.ConversationTurn{
		Id:                t.Id,
		SessionId:         t.SessionId,
		Role:              t.Role,
		RawTranscript:     t.RawTranscript,
		CleanedText:       t.CleanedText,
		Analysis:          t.Analysis,
		Gaps:              t.Gaps,
		Insights:          t.Insights,
		Questions:         t.Questions,
		WhitepaperUpdates: t.WhitepaperUpdates,
		CreatedAt:         t.CreatedAt,
	}
}

func (m *SessionMapper) TurnsToEntities(models []*model.ConversationTurn) []*entity.ConversationTurn {
	entities := make([]*entity.ConversationTurn, len(models))
	for i, t := range models {
		entities[i] = m.TurnToEntity(t)
	}
	return entities
}
