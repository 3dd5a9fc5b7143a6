package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NavLink struct {
	Href string `json:"href"`
	Text string `json:"text"`
}

// SiteExtraction is what the fetcher pulled out of one competitor page.
type SiteExtraction struct {
	URL             string    `json:"url"`
	Title           string    `json:"title"`
	MetaDescription string    `json:"meta_description"`
	Headings        []string  `json:"headings"`
	NavLinks        []NavLink `json:"navigation_links"`
	ContentLength   int       `json:"content_length"`
	Error           string    `json:"error,omitempty"`
}

type CompetitorAnalysis struct {
	Id        uuid.UUID                            `gorm:"type:uuid;primaryKey"`
	SessionId uuid.UUID                            `gorm:"type:uuid;not null;index"`
	Query     string                               `gorm:"type:text"`
	URLs      datatypes.JSONSlice[string]          `gorm:"not null"`
	Results   datatypes.JSONType[[]SiteExtraction] `gorm:"not null"`
	Summary   string                               `gorm:"type:text"`
	CreatedAt time.Time                            `gorm:"autoCreateTime"`
	DeletedAt gorm.DeletedAt                       `gorm:"index"`
}

func (CompetitorAnalysis) TableName() string {
	return "competitor_analyses"
}

func (c *CompetitorAnalysis) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.Id)
	return nil
}
