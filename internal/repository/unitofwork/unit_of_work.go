package unitofwork

import (
	"context"

	"mindforge-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	SessionRepository() contract.SessionRepository
	ConversationTurnRepository() contract.ConversationTurnRepository
	WhitepaperRepository() contract.WhitepaperRepository
	LearnedRuleRepository() contract.LearnedRuleRepository
	CompetitorAnalysisRepository() contract.CompetitorAnalysisRepository
}
