package server_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mindforge-be/internal/bootstrap"
	"mindforge-be/internal/config"
	"mindforge-be/internal/pkg/logger"
	"mindforge-be/internal/server"
	"mindforge-be/internal/testutil"
	"mindforge-be/pkg/llm/llmtest"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, provider *llmtest.Provider) *fiber.App {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		App: config.AppConfig{
			CorsAllowedOrigins: "*",
			EventTopic:         "domain_events",
			LiveLogFilePath:    filepath.Join(dir, "live.log"),
		},
		Ai: config.AIConfig{BrainstormModel: "test-model", WhitepaperModel: "test-model", BrainstormTokens: 100, WhitepaperTokens: 100, CleanupTokens: 100},
		Brainstorm: config.BrainstormConfig{
			MaxMessageChars: 50,
			PreviewChars:    200,
			TurnChars:       500,
			CatalogTTL:      time.Minute,
		},
		Competitor: config.CompetitorConfig{Timeout: time.Second, MaxSites: 3, MaxBodyBytes: 1 << 20, UserAgent: "test"},
	}
	container := bootstrap.Build(testutil.NewDB(t), cfg, bootstrap.Infrastructure{LLM: provider}, logger.NewNopLogger())
	t.Cleanup(container.Close)
	return server.New(cfg, container).GetApp()
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func createSession(t *testing.T, app *fiber.App, name string) string {
	t.Helper()
	status, env := do(t, app, http.MethodPost, "/api/sessions", `{"name":"`+name+`"}`)
	require.Equal(t, http.StatusCreated, status)
	var session struct {
		Id string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))
	return session.Id
}

func TestHealth(t *testing.T) {
	app := newTestServer(t, &llmtest.Provider{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, map[string]string{"status": "ok", "service": "mindforge"}, body)
}

func TestSessionRoutes(t *testing.T) {
	app := newTestServer(t, &llmtest.Provider{})
	id := createSession(t, app, "Bakery")

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{name: "show", method: http.MethodGet, path: "/api/sessions/" + id, wantStatus: http.StatusOK},
		{name: "list", method: http.MethodGet, path: "/api/sessions", wantStatus: http.StatusOK},
		{name: "rename", method: http.MethodPatch, path: "/api/sessions/" + id, body: `{"name":"Cakes"}`, wantStatus: http.StatusOK},
		{name: "blank rename", method: http.MethodPatch, path: "/api/sessions/" + id, body: `{"name":"   "}`, wantStatus: http.StatusBadRequest},
		{name: "bad id", method: http.MethodGet, path: "/api/sessions/not-a-uuid", wantStatus: http.StatusNotFound},
		{name: "unknown id", method: http.MethodGet, path: "/api/sessions/7f1d0a52-8c61-4d5e-9a0e-2b8c5d7e9f10", wantStatus: http.StatusNotFound},
		{name: "whitepaper", method: http.MethodGet, path: "/api/whitepaper/" + id, wantStatus: http.StatusOK},
		{name: "history", method: http.MethodGet, path: "/api/brainstorm/" + id + "/history", wantStatus: http.StatusOK},
		{name: "rules", method: http.MethodGet, path: "/api/rules", wantStatus: http.StatusOK},
		{name: "niches", method: http.MethodGet, path: "/api/niches", wantStatus: http.StatusOK},
		{name: "analyze without input", method: http.MethodPost, path: "/api/competitor/" + id + "/analyze", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "delete", method: http.MethodDelete, path: "/api/sessions/" + id, wantStatus: http.StatusOK},
		{name: "show deleted", method: http.MethodGet, path: "/api/sessions/" + id, wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := do(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, status, env.Message)
			assert.Equal(t, tt.wantStatus < 400, env.Success)
		})
	}
}

func TestBrainstormMessageStreams(t *testing.T) {
	provider := &llmtest.Provider{Chunks: []string{"<analysis>A bakery site</analysis>", "<questions>Who buys your bread?</questions>"}}
	app := newTestServer(t, provider)
	id := createSession(t, app, "Bakery")

	status, _ := do(t, app, http.MethodPost, "/api/brainstorm/"+id+"/message", `{"text":"`+strings.Repeat("a", 51)+`"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	req := httptest.NewRequest(http.MethodPost, "/api/brainstorm/"+id+"/message", strings.NewReader(`{"text":"I want a bakery site"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(raw)
	assert.Contains(t, body, "event: token\n")
	assert.Contains(t, body, "event: done\n")
	assert.NotContains(t, body, "event: error\n")

	_, env := do(t, app, http.MethodGet, "/api/brainstorm/"+id+"/history", "")
	var turns []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &turns))
	require.Len(t, turns, 2)
	assert.Equal(t, "user", turns[0]["role"])
	assert.Equal(t, "assistant", turns[1]["role"])
}
