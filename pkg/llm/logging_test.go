package llm_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"mindforge-be/pkg/llm"
	"mindforge-be/pkg/llm/llmtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	level   string
	details map[string]interface{}
}

type memLogger struct {
	mu      sync.Mutex
	entries []entry
}

func (m *memLogger) Info(module, message string, details map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry{"info", details})
}

func (m *memLogger) Error(module, message string, details map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry{"error", details})
}

func TestWithLogging(t *testing.T) {
	tests := []struct {
		name      string
		fake      *llmtest.Provider
		call      func(p llm.LLMProvider) (string, error)
		want      string
		wantLevel string
		wantCall  string
	}{
		{
			name: "chat",
			fake: &llmtest.Provider{Reply: "hello"},
			call: func(p llm.LLMProvider) (string, error) {
				return p.Chat(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "hi"}}, llm.WithModel("m1"))
			},
			want: "hello", wantLevel: "info", wantCall: "chat",
		},
		{
			name: "stream",
			fake: &llmtest.Provider{Chunks: []string{"a", "bc"}},
			call: func(p llm.LLMProvider) (string, error) {
				return llm.Collect(p.Stream(context.Background(), nil, llm.WithModel("m1")))
			},
			want: "abc", wantLevel: "info", wantCall: "stream",
		},
		{
			name: "stream error",
			fake: &llmtest.Provider{Chunks: []string{"a"}, StreamErr: errors.New("boom")},
			call: func(p llm.LLMProvider) (string, error) {
				return llm.Collect(p.Stream(context.Background(), nil, llm.WithModel("m1")))
			},
			want: "a", wantLevel: "error", wantCall: "stream",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &memLogger{}
			got, _ := tt.call(llm.WithLogging(tt.fake, log))
			assert.Equal(t, tt.want, got)

			require.Len(t, log.entries, 1)
			e := log.entries[0]
			assert.Equal(t, tt.wantLevel, e.level)
			assert.Equal(t, tt.wantCall, e.details["call"])
			assert.Equal(t, "m1", e.details["model"])
			assert.Equal(t, len(tt.want), e.details["reply_chars"])
		})
	}
}
