package entity

import (
	"time"

	"github.com/google/uuid"
)

type LearnedRule struct {
	Id              uuid.UUID
	Category        string
	RuleText        string
	SourceSessionId *uuid.UUID
	TimesApplied    int
	Active          bool
	CreatedAt       time.Time
}
