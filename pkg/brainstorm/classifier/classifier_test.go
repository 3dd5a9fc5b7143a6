package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	table := []Category{
		{Key: "shop", Keywords: []string{"store", "cart"}},
		{Key: "blog", Keywords: []string{"article", "post"}},
	}

	tests := []struct {
		name   string
		text   string
		table  []Category
		want   string
		wantOK bool
	}{
		{
			name:   "clear winner",
			text:   "I want a store with a shopping cart",
			table:  table,
			want:   "shop",
			wantOK: true,
		},
		{
			name:   "case insensitive",
			text:   "Weekly ARTICLE digest",
			table:  table,
			want:   "blog",
			wantOK: true,
		},
		{
			name:   "no hits",
			text:   "a landing page for my band",
			table:  table,
			wantOK: false,
		},
		{
			name:   "tie goes to first category",
			text:   "a store that publishes a post",
			table:  table,
			want:   "shop",
			wantOK: true,
		},
		{
			name:   "empty table",
			text:   "anything",
			table:  nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(tt.text, tt.table)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
