package catalog

import (
	"context"
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/*.yaml
var defaults embed.FS

// Loader reads catalogs from disk, falling back to the embedded defaults
// when no path is configured.
type Loader struct {
	RulesFile string
	NicheFile string
}

var _ Source = (*Loader)(nil)

func NewLoader(rulesFile, nicheFile string) *Loader {
	return &Loader{RulesFile: rulesFile, NicheFile: nicheFile}
}

func (l *Loader) Rules(ctx context.Context) (*RuleBook, error) {
	data, err := read(l.RulesFile, "defaults/brainstorm_rules.yaml")
	if err != nil {
		return nil, err
	}
	return ParseRules(data)
}

func (l *Loader) Niches(ctx context.Context) (*NicheBook, error) {
	data, err := read(l.NicheFile, "defaults/niche_templates.yaml")
	if err != nil {
		return nil, err
	}
	return ParseNiches(data)
}

func read(path, fallback string) ([]byte, error) {
	if path == "" {
		return defaults.ReadFile(fallback)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return data, nil
}

// ParseRules decodes a rule book. JSON input is accepted as well.
func ParseRules(data []byte) (*RuleBook, error) {
	var book RuleBook
	if err := yaml.Unmarshal(data, &book); err != nil {
		return nil, fmt.Errorf("parse rule book: %w", err)
	}
	if len(book.Sections) == 0 {
		return nil, fmt.Errorf("parse rule book: no whitepaper_sections defined")
	}
	return &book, nil
}

func ParseNiches(data []byte) (*NicheBook, error) {
	var book NicheBook
	if err := yaml.Unmarshal(data, &book); err != nil {
		return nil, fmt.Errorf("parse niche templates: %w", err)
	}
	return &book, nil
}
