package mapper

import (
	"mindforge-be/internal/entity"
	"mindforge-be/internal/model"

	"gorm.io/datatypes"
)

type CompetitorMapper struct{}

func NewCompetitorMapper() *CompetitorMapper {
	return &CompetitorMapper{}
}

func (m *CompetitorMapper) ToEntity(c *model.CompetitorAnalysis) *entity.CompetitorAnalysis {
	if c == nil {
		return nil
	}
	rows := c.Results.Data()
	results := make([]entity.SiteExtraction, len(rows))
	for i, r := range rows {
		results[i] = entity.SiteExtraction{
			URL:             r.URL,
			Title:           r.Title,
			MetaDescription: r.MetaDescription,
			Headings:        r.Headings,
			NavLinks:        navLinksToEntity(r.NavLinks),
			ContentLength:   r.ContentLength,
			Error:           r.Error,
		}
	}
	return &entity.CompetitorAnalysis{
		Id:        c.Id,
		SessionId: c.SessionId,
		Query:     c.Query,
		URLs:      []string(c.URLs),
		Results:   results,
		Summary:   c.Summary,
		CreatedAt: c.CreatedAt,
	}
}

func (m *CompetitorMapper) ToModel(c *entity.CompetitorAnalysis) *model.CompetitorAnalysis {
	if c == nil {
		return nil
	}
	rows := make([]model.SiteExtraction, len(c.Results))
	for i, r := range c.Results {
		rows[i] = model.SiteExtraction{
			URL:             r.URL,
			Title:           r.Title,
			MetaDescription: r.MetaDescription,
			Headings:        r.Headings,
			NavLinks:        navLinksToModel(r.NavLinks),
			ContentLength:   r.ContentLength,
			Error:           r.Error,
		}
	}
	urls := c.URLs
	if urls == nil {
		urls = []string{}
	}
	return &model.CompetitorAnalysis{
		Id:        c.Id,
		SessionId: c.SessionId,
		Query:     c.Query,
		URLs:      datatypes.JSONSlice[string](urls),
		Results:   datatypes.NewJSONType(rows),
		Summary:   c.Summary,
		CreatedAt: c.CreatedAt,
	}
}

func (m *CompetitorMapper) ToEntities(models []*model.CompetitorAnalysis) []*entity.CompetitorAnalysis {
	entities := make([]*entity.CompetitorAnalysis, len(models))
	for i, c := range models {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func navLinksToEntity(links []model.NavLink) []entity.NavLink {
	out := make([]entity.NavLink, len(links))
	for i, l := range links {
		out[i] = entity.NavLink{Href: l.Href, Text: l.Text}
	}
	return out
}

func navLinksToModel(links []entity.NavLink) []model.NavLink {
	out := make([]model.NavLink, len(links))
	for i, l := range links {
		out[i] = model.NavLink{Href: l.Href, Text: l.Text}
	}
	return out
}
