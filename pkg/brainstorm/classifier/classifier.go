// Package classifier assigns a niche by keyword counting.
package classifier

import "strings"

// Category is one row of the keyword table.
type Category struct {
	Key      string
	Keywords []string
}

// Classify counts, per category, how many of its keywords occur in text
// (case-insensitive substring match) and returns the highest-scoring key.
// Ties go to the category that appears first in table. No hits reports false.
func Classify(text string, table []Category) (string, bool) {
	lower := strings.ToLower(text)

	best, bestScore := "", 0
	for _, cat := range table {
		score := 0
		for _, kw := range cat.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" && strings.Contains(lower, kw) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = cat.Key, score
		}
	}

	if bestScore == 0 {
		return "", false
	}
	return best, true
}
