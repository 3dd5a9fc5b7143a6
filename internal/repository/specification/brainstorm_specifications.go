package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BySessionID struct {
	SessionID uuid.UUID
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// ChronologicalTurns orders turns oldest first.
type ChronologicalTurns struct{}

func (s ChronologicalTurns) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

// RecentlyUpdated orders sessions by last activity.
type RecentlyUpdated struct{}

func (s RecentlyUpdated) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("updated_at DESC")
}

type ActiveRules struct{}

func (s ActiveRules) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("active = ?", true)
}

// MostApplied orders rules by usage, ties by age.
type MostApplied struct{}

func (s MostApplied) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("times_applied DESC").Order("created_at ASC")
}

type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category = ?", s.Category)
}
