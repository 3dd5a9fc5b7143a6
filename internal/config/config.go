package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Ai         AIConfig
	Brainstorm BrainstormConfig
	Competitor CompetitorConfig
	Tracing    TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	LLMLogFilePath     string
	LiveLogFilePath    string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	EventTopic         string
}

type DatabaseConfig struct {
	Driver     string // "postgres" or "sqlite"
	Connection string
}

type AIConfig struct {
	Provider         string // "anthropic", "openai", "gemini", "ollama"
	AnthropicAPIKey  string
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	GeminiAPIKey     string
	OllamaBaseURL    string
	BrainstormModel  string
	WhitepaperModel  string
	BrainstormTokens int
	WhitepaperTokens int
	CleanupTokens    int
	Temperature      float64
}

type BrainstormConfig struct {
	MaxMessageChars int
	PreviewChars    int
	TurnChars       int
	RulesFile       string
	NicheFile       string
	CatalogTTL      time.Duration
}

type CompetitorConfig struct {
	Timeout      time.Duration
	MaxSites     int
	MaxBodyBytes int64
	UserAgent    string
}

type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			LLMLogFilePath:     getEnv("LLM_LOG_FILE_PATH", "logs/llm.log"),
			LiveLogFilePath:    getEnv("LIVE_LOG_FILE_PATH", "logs/live.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			EventTopic:         getEnv("EVENT_TOPIC", "domain_events"),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			Provider:         strings.ToLower(getEnv("LLM_PROVIDER", "anthropic")),
			AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
			OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
			GeminiAPIKey:     getEnv("GOOGLE_GEMINI_API_KEY", ""),
			OllamaBaseURL:    getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			BrainstormModel:  getEnv("BRAINSTORM_MODEL", "claude-sonnet-4-5"),
			WhitepaperModel:  getEnv("WHITEPAPER_MODEL", "claude-sonnet-4-5"),
			BrainstormTokens: getEnvAsInt("BRAINSTORM_MAX_TOKENS", 4000),
			WhitepaperTokens: getEnvAsInt("WHITEPAPER_MAX_TOKENS", 8000),
			CleanupTokens:    getEnvAsInt("CLEANUP_MAX_TOKENS", 2000),
			Temperature:      getEnvAsFloat("LLM_TEMPERATURE", 0.7),
		},
		Brainstorm: BrainstormConfig{
			MaxMessageChars: getEnvAsInt("BRAINSTORM_MAX_MESSAGE_CHARS", 10000),
			PreviewChars:    getEnvAsInt("BRAINSTORM_PREVIEW_CHARS", 200),
			TurnChars:       getEnvAsInt("BRAINSTORM_TURN_CHARS", 500),
			RulesFile:       getEnv("RULES_FILE", ""),
			NicheFile:       getEnv("NICHE_TEMPLATES_FILE", ""),
			CatalogTTL:      getEnvAsDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		},
		Competitor: CompetitorConfig{
			Timeout:      getEnvAsDuration("COMPETITOR_FETCH_TIMEOUT", 15*time.Second),
			MaxSites:     getEnvAsInt("COMPETITOR_MAX_SITES", 10),
			MaxBodyBytes: int64(getEnvAsInt("COMPETITOR_MAX_BODY_BYTES", 2<<20)),
			UserAgent:    getEnv("COMPETITOR_USER_AGENT", "MindForge-Analyzer/1.0 (website planning tool)"),
		},
		Tracing: TracingConfig{
			Enabled:  getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
