package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"mindforge-be/internal/cli"
	"mindforge-be/internal/config"
	"mindforge-be/internal/model"
	"mindforge-be/internal/pkg/logger"
	"mindforge-be/internal/repository/unitofwork"
	"mindforge-be/pkg/brainstorm/catalog"
	"mindforge-be/pkg/brainstorm/rules"
	"mindforge-be/pkg/brainstorm/synthesis"
	"mindforge-be/pkg/database"
	"mindforge-be/pkg/events"
	"mindforge-be/pkg/llm/factory"
	pktNats "mindforge-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type migrator struct{ db *gorm.DB }

func (m migrator) Migrate(ctx context.Context) error {
	return database.Migrate(m.db.WithContext(ctx), model.All()...)
}

// lazySynthesizer builds the model client on first use so commands that do
// not need it work without credentials.
type lazySynthesizer struct {
	cfg     *config.Config
	factory unitofwork.RepositoryFactory
	source  catalog.Source
}

func (l lazySynthesizer) Synthesize(ctx context.Context, sessionID uuid.UUID) (string, error) {
	provider, err := factory.NewLLMProvider(ctx, factory.Settings{
		Provider:        l.cfg.Ai.Provider,
		Model:           l.cfg.Ai.WhitepaperModel,
		AnthropicAPIKey: l.cfg.Ai.AnthropicAPIKey,
		OpenAIAPIKey:    l.cfg.Ai.OpenAIAPIKey,
		OpenAIBaseURL:   l.cfg.Ai.OpenAIBaseURL,
		GeminiAPIKey:    l.cfg.Ai.GeminiAPIKey,
		OllamaBaseURL:   l.cfg.Ai.OllamaBaseURL,
	})
	if err != nil {
		return "", err
	}
	s := synthesis.NewSynthesizer(l.factory, l.source, provider, l.cfg.Ai.WhitepaperModel, l.cfg.Ai.WhitepaperTokens)
	return s.Synthesize(ctx, sessionID)
}

// lazyPublisher connects to NATS on first publish.
type lazyPublisher struct {
	url string
	log logger.ILogger

	once sync.Once
	pub  *pktNats.Publisher
	err  error
}

func (l *lazyPublisher) Publish(ctx context.Context, e events.Event) error {
	l.once.Do(func() {
		l.pub, l.err = pktNats.NewPublisher(l.url, l.log)
	})
	if l.err != nil {
		return l.err
	}
	return l.pub.Publish(ctx, e)
}

func (l *lazyPublisher) Close() {
	if l.pub != nil {
		l.pub.Close()
	}
}

func main() {
	cfg := config.Load()
	log := logger.NewNopLogger()

	db, err := database.NewQuietGormDB(cfg.Database.Driver, cfg.Database.Connection)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to connect to database: %v\n", err)
		os.Exit(1)
	}

	uowFactory := unitofwork.NewRepositoryFactory(db)
	source := catalog.NewLoader(cfg.Brainstorm.RulesFile, cfg.Brainstorm.NicheFile)
	feedback := &lazyPublisher{url: cfg.App.NatsURL, log: log}
	defer feedback.Close()

	app := &cli.App{
		Migrator:    migrator{db: db},
		Rules:       rules.NewStore(uowFactory, source),
		Synthesizer: lazySynthesizer{cfg: cfg, factory: uowFactory, source: source},
		Feedback:    feedback,
	}

	if err := cli.Execute(context.Background(), app, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		feedback.Close()
		os.Exit(1)
	}
}
