package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConversationTurn struct {
	Id                uuid.UUID      `gorm:"type:uuid;primaryKey"`
	SessionId         uuid.UUID      `gorm:"type:uuid;not null;index"`
	Role              string         `gorm:"type:varchar(16);not null"`
	RawTranscript     *string        `gorm:"type:text"`
	CleanedText       string         `gorm:"type:text;not null"`
	Analysis          *string        `gorm:"type:text"`
	Gaps              *string        `gorm:"type:text"`
	Insights          *string        `gorm:"type:text"`
	Questions         *string        `gorm:"type:text"`
	WhitepaperUpdates *string        `gorm:"type:text"`
	CreatedAt         time.Time      `gorm:"autoCreateTime;index"`
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

func (ConversationTurn) TableName() string {
	return "conversation_turns"
}

func (t *ConversationTurn) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.Id)
	return nil
}
