package dto

import (
	"time"

	"github.com/google/uuid"
)

type LearnedRuleResponse struct {
	Id              uuid.UUID  `json:"id"`
	Category        string     `json:"category"`
	RuleText        string     `json:"rule_text"`
	SourceSessionId *uuid.UUID `json:"source_session_id"`
	TimesApplied    int        `json:"times_applied"`
	CreatedAt       time.Time  `json:"created_at"`
}
