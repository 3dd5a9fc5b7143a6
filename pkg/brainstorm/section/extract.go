// Package section pulls tagged regions out of model output.
package section

import (
	"regexp"
	"strings"
	"sync"
)

const (
	TagAnalysis         = "analysis"
	TagGaps             = "gaps"
	TagInsights         = "insights"
	TagQuestions        = "questions"
	TagWhitepaperUpdate = "whitepaper_update"
	TagNewRules         = "new_rules"
	TagPhaseInfo        = "phase_info"
)

// Tags lists every section the brainstorm prompt asks for, in emission order.
var Tags = []string{
	TagAnalysis,
	TagGaps,
	TagInsights,
	TagQuestions,
	TagWhitepaperUpdate,
	TagNewRules,
	TagPhaseInfo,
}

var patterns sync.Map // tag -> *regexp.Regexp

func pattern(tag string) *regexp.Regexp {
	if re, ok := patterns.Load(tag); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`(?s)<` + regexp.QuoteMeta(tag) + `>(.*?)</` + regexp.QuoteMeta(tag) + `>`)
	actual, _ := patterns.LoadOrStore(tag, re)
	return actual.(*regexp.Regexp)
}

// Extract returns the trimmed body of the first closed <tag>...</tag> region.
// An open tag with no closing tag yet reports false.
func Extract(text, tag string) (string, bool) {
	m := pattern(tag).FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// ExtractAll runs Extract for each tag and keeps the ones present.
func ExtractAll(text string, tags ...string) map[string]string {
	out := make(map[string]string, len(tags))
	for _, tag := range tags {
		if body, ok := Extract(text, tag); ok {
			out[tag] = body
		}
	}
	return out
}
