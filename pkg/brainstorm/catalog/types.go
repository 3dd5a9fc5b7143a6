// Package catalog holds the static rule book and niche templates that seed
// every brainstorm prompt.
package catalog

import "context"

// RuleCategory is one base category of the rule book.
type RuleCategory struct {
	Label         string   `yaml:"label"`
	BaseQuestions []string `yaml:"base_questions"`
	ThinkingRules []string `yaml:"thinking_rules"`
}

// RuleBook is the base rule layer plus the canonical whitepaper sections.
type RuleBook struct {
	Categories OrderedMap[RuleCategory] `yaml:"categories"`
	MetaRules  OrderedMap[[]string]     `yaml:"meta_rules"`
	Sections   OrderedMap[string]       `yaml:"whitepaper_sections"`
}

// SectionKeys is the canonical whitepaper key list, in display order.
func (b *RuleBook) SectionKeys() []string {
	return b.Sections.Keys()
}

func (b *RuleBook) IsSection(key string) bool {
	_, ok := b.Sections.Get(key)
	return ok
}

func (b *RuleBook) IsCategory(key string) bool {
	_, ok := b.Categories.Get(key)
	return ok
}

type SuggestedPage struct {
	Name     string `yaml:"name"`
	Purpose  string `yaml:"purpose"`
	Priority string `yaml:"priority"`
}

type SuggestedFeature struct {
	Name       string `yaml:"name"`
	Priority   string `yaml:"priority"`
	Complexity string `yaml:"complexity"`
}

type DesignHints struct {
	Mood       string `yaml:"mood"`
	Colors     string `yaml:"colors"`
	Typography string `yaml:"typography"`
	KeyElement string `yaml:"key_element"`
	Imagery    string `yaml:"imagery"`
}

type Niche struct {
	Label              string             `yaml:"label"`
	Description        string             `yaml:"description"`
	Keywords           []string           `yaml:"keywords"`
	SuggestedPages     []SuggestedPage    `yaml:"suggested_pages"`
	SuggestedFeatures  []SuggestedFeature `yaml:"suggested_features"`
	KeyQuestions       []string           `yaml:"key_questions"`
	DesignHints        DesignHints        `yaml:"design_hints"`
	AdminNeeds         []string           `yaml:"admin_needs"`
	CommonIntegrations []string           `yaml:"common_integrations"`
	SEOFocus           []string           `yaml:"seo_focus"`
}

type NicheBook struct {
	Niches OrderedMap[Niche] `yaml:"niches"`
}

// Labels maps niche key to its display label.
func (b *NicheBook) Labels() map[string]string {
	out := make(map[string]string, len(b.Niches))
	for _, e := range b.Niches {
		out[e.Key] = e.Value.Label
	}
	return out
}

// Source serves parsed catalogs. Implementations may cache.
type Source interface {
	Rules(ctx context.Context) (*RuleBook, error)
	Niches(ctx context.Context) (*NicheBook, error)
}
