package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	TurnRoleUser      = "user"
	TurnRoleAssistant = "assistant"
)

type ConversationTurn struct {
	Id                uuid.UUID
	SessionId         uuid.UUID
	Role              string
	RawTranscript     *string
	CleanedText       string
	Analysis          *string
	Gaps              *string
	Insights          *string
	Questions         *string
	WhitepaperUpdates *string
	CreatedAt         time.Time
}
