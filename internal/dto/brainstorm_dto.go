package dto

import (
	"time"

	"github.com/google/uuid"
)

// SendMessageRequest is one user turn. The length limit is configurable, so
// the service checks it.
type SendMessageRequest struct {
	Text          string `json:"text" validate:"notblank"`
	IsVoice       bool   `json:"is_voice"`
	RawTranscript string `json:"raw_transcript"`
}

type TurnResponse struct {
	Id                uuid.UUID `json:"id"`
	Role              string    `json:"role"`
	RawTranscript     *string   `json:"raw_transcript"`
	CleanedText       string    `json:"cleaned_text"`
	Analysis          *string   `json:"analysis"`
	Gaps              *string   `json:"gaps"`
	Insights          *string   `json:"insights"`
	Questions         *string   `json:"questions"`
	WhitepaperUpdates *string   `json:"whitepaper_updates"`
	CreatedAt         time.Time `json:"created_at"`
}
