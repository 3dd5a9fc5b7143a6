package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	Name string `json:"name" validate:"maxrunes=200"`
}

type UpdateSessionRequest struct {
	Id   uuid.UUID
	Name string `json:"name" validate:"notblank,maxrunes=200"`
}

type SessionResponse struct {
	Id            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	NicheType     *string    `json:"niche_type"`
	CurrentPhase  int        `json:"current_phase"`
	CompletionPct float64    `json:"completion_pct"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
}
