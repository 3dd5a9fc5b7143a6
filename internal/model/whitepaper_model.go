package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Whitepaper struct {
	Id        uuid.UUID                             `gorm:"type:uuid;primaryKey"`
	SessionId uuid.UUID                             `gorm:"type:uuid;not null;uniqueIndex"`
	Content   datatypes.JSONType[map[string]string] `gorm:"not null"`
	CreatedAt time.Time                             `gorm:"autoCreateTime"`
	UpdatedAt time.Time                             `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt                        `gorm:"index"`
}

func (Whitepaper) TableName() string {
	return "whitepapers"
}

func (w *Whitepaper) BeforeCreate(tx *gorm.DB) error {
	ensureID(&w.Id)
	return nil
}
