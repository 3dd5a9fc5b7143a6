package model

import (
	"github.com/google/uuid"
)

// ensureID fills an empty primary key so inserts work on stores without
// server-side uuid defaults.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All lists every table the service owns, in migration order.
func All() []interface{} {
	return []interface{}{
		&Session{},
		&ConversationTurn{},
		&Whitepaper{},
		&LearnedRule{},
		&CompetitorAnalysis{},
	}
}
