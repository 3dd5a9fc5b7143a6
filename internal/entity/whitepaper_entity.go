package entity

import (
	"time"

	"github.com/google/uuid"
)

type Whitepaper struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	Content   map[string]string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Merge overwrites the named keys and leaves the rest untouched.
func (w *Whitepaper) Merge(delta map[string]string) {
	if w.Content == nil {
		w.Content = make(map[string]string, len(delta))
	}
	for k, v := range delta {
		w.Content[k] = v
	}
}
