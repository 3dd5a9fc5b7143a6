package entity

import (
	"time"

	"github.com/google/uuid"
)

type NavLink struct {
	Href string
	Text string
}

type SiteExtraction struct {
	URL             string
	Title           string
	MetaDescription string
	Headings        []string
	NavLinks        []NavLink
	ContentLength   int
	Error           string
}

func (s SiteExtraction) OK() bool {
	return s.Error == ""
}

type CompetitorAnalysis struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	Query     string
	URLs      []string
	Results   []SiteExtraction
	Summary   string
	CreatedAt time.Time
}
