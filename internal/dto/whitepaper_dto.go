package dto

import (
	"time"

	"github.com/google/uuid"
)

type WhitepaperResponse struct {
	SessionId uuid.UUID         `json:"session_id"`
	Sections  map[string]string `json:"sections"`
	UpdatedAt *time.Time        `json:"updated_at"`
}

type GenerateWhitepaperResponse struct {
	SessionId          uuid.UUID `json:"session_id"`
	WhitepaperMarkdown string    `json:"whitepaper_markdown"`
}
