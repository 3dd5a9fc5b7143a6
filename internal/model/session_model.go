package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Session struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name          string         `gorm:"type:text;not null"`
	NicheType     *string        `gorm:"type:text"`
	CurrentPhase  int            `gorm:"not null;default:1"`
	CompletionPct float64        `gorm:"not null;default:0"`
	Status        string         `gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime;index"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (Session) TableName() string {
	return "sessions"
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.Id)
	return nil
}
