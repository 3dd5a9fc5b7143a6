package catalog

import (
	"fmt"
	"strings"

	"mindforge-be/pkg/brainstorm/classifier"
)

var pagePriority = map[string]string{"must": "MUST", "should": "RECOMMENDED", "nice": "OPTIONAL"}
var featurePriority = map[string]string{"must": "ESSENTIAL", "should": "RECOMMENDED", "nice": "OPTIONAL"}

func priorityTag(table map[string]string, p string) string {
	if tag, ok := table[strings.ToLower(p)]; ok {
		return tag
	}
	return strings.ToUpper(p)
}

// KeywordTable feeds the classifier in catalog order.
func (b *NicheBook) KeywordTable() []classifier.Category {
	out := make([]classifier.Category, len(b.Niches))
	for i, e := range b.Niches {
		out[i] = classifier.Category{Key: e.Key, Keywords: e.Value.Keywords}
	}
	return out
}

// Context renders the niche block for the system prompt. Unknown keys
// render as "".
func (b *NicheBook) Context(key string) string {
	niche, ok := b.Niches.Get(key)
	if !ok {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## NICHE INTELLIGENCE: %s\n\n", niche.Label)
	fmt.Fprintf(&sb, "Business type: %s\n\n", niche.Description)

	sb.WriteString("### Suggested Pages\n")
	sb.WriteString("Offer these as your own recommendation.\n")
	for _, p := range niche.SuggestedPages {
		fmt.Fprintf(&sb, "- **%s** [%s] - %s\n", p.Name, priorityTag(pagePriority, p.Priority), p.Purpose)
	}

	sb.WriteString("\n### Suggested Features\n")
	for _, f := range niche.SuggestedFeatures {
		fmt.Fprintf(&sb, "- **%s** [%s] (complexity: %s)\n", f.Name, priorityTag(featurePriority, f.Priority), f.Complexity)
	}

	sb.WriteString("\n### Key Questions for This Niche\n")
	for _, q := range niche.KeyQuestions {
		fmt.Fprintf(&sb, "- %s\n", q)
	}

	h := niche.DesignHints
	sb.WriteString("\n### Design Direction Hints\n")
	fmt.Fprintf(&sb, "- Mood: %s\n- Colors: %s\n- Typography: %s\n- Key element: %s\n- Imagery: %s\n",
		h.Mood, h.Colors, h.Typography, h.KeyElement, h.Imagery)

	sb.WriteString("\n### Admin Needs for This Type\n")
	for _, n := range niche.AdminNeeds {
		fmt.Fprintf(&sb, "- %s\n", n)
	}

	sb.WriteString("\n### Common Integrations\n")
	sb.WriteString(strings.Join(niche.CommonIntegrations, ", "))
	sb.WriteString("\n")

	sb.WriteString("\n### SEO Focus\n")
	for _, s := range niche.SEOFocus {
		fmt.Fprintf(&sb, "- %s\n", s)
	}

	return strings.TrimRight(sb.String(), "\n")
}
