package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		tag    string
		want   string
		wantOK bool
	}{
		{
			name:   "simple",
			text:   "<analysis>bakery</analysis>",
			tag:    "analysis",
			want:   "bakery",
			wantOK: true,
		},
		{
			name:   "embedded and padded",
			text:   "intro text\n<gaps>\n  - pricing\n  - hours\n</gaps>\ntrailing",
			tag:    "gaps",
			want:   "- pricing\n  - hours",
			wantOK: true,
		},
		{
			name:   "unclosed tag",
			text:   "<insights>still streaming",
			tag:    "insights",
			wantOK: false,
		},
		{
			name:   "missing tag",
			text:   "<analysis>x</analysis>",
			tag:    "gaps",
			wantOK: false,
		},
		{
			name:   "first region wins",
			text:   "<questions>one</questions><questions>two</questions>",
			tag:    "questions",
			want:   "one",
			wantOK: true,
		},
		{
			name:   "case sensitive",
			text:   "<Analysis>x</Analysis>",
			tag:    "analysis",
			wantOK: false,
		},
		{
			name:   "empty body",
			text:   "<new_rules>   </new_rules>",
			tag:    "new_rules",
			want:   "",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.text, tt.tag)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractOnGrowingBuffer(t *testing.T) {
	full := `<analysis>A bakery site</analysis><whitepaper_update>{"project_overview":"Bakery"}</whitepaper_update>`

	var closedAt int
	for i := 1; i <= len(full); i++ {
		got, ok := Extract(full[:i], TagWhitepaperUpdate)
		if !ok {
			continue
		}
		if closedAt == 0 {
			closedAt = i
		}
		assert.Equal(t, `{"project_overview":"Bakery"}`, got, "prefix length %d", i)
	}
	assert.Equal(t, len(full), closedAt, "only the complete buffer closes the tag")
}

func TestExtractAllSkipsAbsentTags(t *testing.T) {
	text := "<analysis>a</analysis><questions>q</questions><phase_info>{"

	got := ExtractAll(text, Tags...)

	assert.Equal(t, map[string]string{
		TagAnalysis:  "a",
		TagQuestions: "q",
	}, got)
}
