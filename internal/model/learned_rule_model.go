package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LearnedRule struct {
	Id              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Category        string     `gorm:"type:varchar(32);not null;index"`
	RuleText        string     `gorm:"type:text;not null"`
	SourceSessionId *uuid.UUID `gorm:"type:uuid"`
	TimesApplied    int        `gorm:"not null;default:0"`
	Active          bool       `gorm:"not null;default:true;index"`
	CreatedAt       time.Time  `gorm:"autoCreateTime"`
}

func (LearnedRule) TableName() string {
	return "learned_rules"
}

func (r *LearnedRule) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.Id)
	return nil
}
