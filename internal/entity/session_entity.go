package entity

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	Id            uuid.UUID
	Name          string
	NicheType     *string
	CurrentPhase  int
	CompletionPct float64
	Status        string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}

// IsClassified reports whether a niche has already been assigned.
func (s *Session) IsClassified() bool {
	return s.NicheType != nil && *s.NicheType != ""
}
