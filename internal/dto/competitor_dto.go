package dto

import (
	"time"

	"github.com/google/uuid"
)

// AnalyzeCompetitorsRequest needs a query, explicit urls, or both.
type AnalyzeCompetitorsRequest struct {
	Query string   `json:"query" validate:"required_without=URLs"`
	URLs  []string `json:"urls" validate:"required_without=Query,omitempty,max=10,dive,url"`
}

type SiteResponse struct {
	URL             string   `json:"url"`
	Title           string   `json:"title"`
	MetaDescription string   `json:"meta_description"`
	Headings        []string `json:"headings"`
	ContentLength   int      `json:"content_length"`
	Error           string   `json:"error,omitempty"`
}

type CompetitorAnalysisResponse struct {
	Id        uuid.UUID      `json:"id"`
	Query     string         `json:"query"`
	URLs      []string       `json:"urls"`
	Sites     []SiteResponse `json:"sites"`
	Summary   string         `json:"summary"`
	CreatedAt time.Time      `json:"created_at"`
}
