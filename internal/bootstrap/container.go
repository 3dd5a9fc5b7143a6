package bootstrap

import (
	"context"

	"mindforge-be/internal/config"
	"mindforge-be/internal/controller"
	"mindforge-be/internal/pkg/logger"
	"mindforge-be/internal/repository/memory"
	"mindforge-be/internal/repository/unitofwork"
	"mindforge-be/internal/service"
	"mindforge-be/internal/websocket"
	"mindforge-be/pkg/brainstorm/catalog"
	"mindforge-be/pkg/brainstorm/completion"
	"mindforge-be/pkg/brainstorm/pipeline"
	"mindforge-be/pkg/brainstorm/rules"
	"mindforge-be/pkg/brainstorm/state"
	"mindforge-be/pkg/brainstorm/synthesis"
	"mindforge-be/pkg/brainstorm/transcript"
	"mindforge-be/pkg/competitor"
	"mindforge-be/pkg/events"
	"mindforge-be/pkg/llm"
	"mindforge-be/pkg/llm/factory"
	pktNats "mindforge-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Infrastructure holds the external connections. Everything except LLM may
// be nil; the matching feature then runs in degraded mode.
type Infrastructure struct {
	LLM            llm.LLMProvider
	Redis          *redis.Client
	EventExporter  events.Publisher
	FeedbackSource service.EventSubscriber
}

type Container struct {
	Logger logger.ILogger

	// Controllers
	SessionController    controller.ISessionController
	BrainstormController controller.IBrainstormController
	WhitepaperController controller.IWhitepaperController
	CompetitorController controller.ICompetitorController
	RuleController       controller.IRuleController
	LiveController       controller.ILiveController

	// Background services, started by Start
	ConsumerService service.IConsumerService
	RuleService     service.IRuleService
	WebSocketHub    *websocket.Hub

	infra   Infrastructure
	closers []func()
}

// NewContainer connects to the configured infrastructure and wires the app.
func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) (*Container, error) {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())

	provider, err := factory.NewLLMProvider(ctx, factory.Settings{
		Provider:        cfg.Ai.Provider,
		Model:           cfg.Ai.BrainstormModel,
		AnthropicAPIKey: cfg.Ai.AnthropicAPIKey,
		OpenAIAPIKey:    cfg.Ai.OpenAIAPIKey,
		OpenAIBaseURL:   cfg.Ai.OpenAIBaseURL,
		GeminiAPIKey:    cfg.Ai.GeminiAPIKey,
		OllamaBaseURL:   cfg.Ai.OllamaBaseURL,
	})
	if err != nil {
		return nil, err
	}
	sysLogger.Info("Bootstrap", "LLM provider ready", map[string]interface{}{
		"provider": cfg.Ai.Provider, "model": cfg.Ai.BrainstormModel,
	})

	infra := Infrastructure{
		LLM: llm.WithLogging(provider, logger.NewIsolatedLogger(cfg.App.LLMLogFilePath)),
	}
	var closers []func()

	// NATS
	if pub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger); err != nil {
		sysLogger.Warn("Bootstrap", "NATS publisher unavailable, event export disabled", map[string]interface{}{"error": err.Error()})
	} else {
		infra.EventExporter = pub
		closers = append(closers, pub.Close)
	}
	if sub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger); err != nil {
		sysLogger.Warn("Bootstrap", "NATS subscriber unavailable, rule feedback disabled", map[string]interface{}{"error": err.Error()})
	} else {
		infra.FeedbackSource = sub
		closers = append(closers, sub.Close)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		sysLogger.Warn("Bootstrap", "Failed to parse Redis URL, using it as address", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		sysLogger.Warn("Bootstrap", "Redis unavailable, live mirror is local only", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
	} else {
		infra.Redis = rdb
		closers = append(closers, func() { _ = rdb.Close() })
	}

	c := Build(db, cfg, infra, sysLogger)
	c.closers = append(c.closers, closers...)
	return c, nil
}

// Build wires services and controllers over already-open infrastructure.
func Build(db *gorm.DB, cfg *config.Config, infra Infrastructure, sysLogger logger.ILogger) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	catalogRepo := memory.NewCatalogRepository(
		catalog.NewLoader(cfg.Brainstorm.RulesFile, cfg.Brainstorm.NicheFile),
		cfg.Brainstorm.CatalogTTL,
	)

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	publisherService := service.NewPublisherService(cfg.App.EventTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.App.EventTopic, infra.EventExporter, sysLogger)

	// 3. Brainstorm domain
	ruleStore := rules.NewStore(uowFactory, catalogRepo)
	turnPipeline := pipeline.New(pipeline.Dependencies{
		UOWFactory: uowFactory,
		Catalog:    catalogRepo,
		Rules:      ruleStore,
		State:      state.NewBuilder(uowFactory, catalogRepo, cfg.Brainstorm.PreviewChars, cfg.Brainstorm.TurnChars),
		Completion: completion.NewCalculator(uowFactory, catalogRepo),
		Cleaner:    transcript.NewCleaner(infra.LLM, cfg.Ai.BrainstormModel, cfg.Ai.CleanupTokens),
		Provider:   infra.LLM,
		Publisher:  publisherService,
		Logger:     sysLogger,
	}, pipeline.Options{
		Model:       cfg.Ai.BrainstormModel,
		MaxTokens:   cfg.Ai.BrainstormTokens,
		Temperature: cfg.Ai.Temperature,
	})
	synthesizer := synthesis.NewSynthesizer(uowFactory, catalogRepo, infra.LLM, cfg.Ai.WhitepaperModel, cfg.Ai.WhitepaperTokens)
	analyzer := competitor.NewAnalyzer(
		uowFactory,
		competitor.NewFetcher(cfg.Competitor.Timeout, cfg.Competitor.UserAgent, cfg.Competitor.MaxBodyBytes),
		infra.LLM,
		publisherService,
		sysLogger,
		competitor.Options{
			Model:       cfg.Ai.BrainstormModel,
			MaxTokens:   cfg.Ai.BrainstormTokens,
			Temperature: cfg.Ai.Temperature,
			MaxSites:    cfg.Competitor.MaxSites,
		},
	)

	// 4. Live mirror
	wsHub := websocket.NewHub(infra.Redis, logger.NewIsolatedLogger(cfg.App.LiveLogFilePath))

	// 5. Services
	sessionService := service.NewSessionService(uowFactory, publisherService, sysLogger)
	brainstormService := service.NewBrainstormService(uowFactory, turnPipeline, wsHub, cfg.Brainstorm.MaxMessageChars)
	whitepaperService := service.NewWhitepaperService(uowFactory, synthesizer)
	competitorService := service.NewCompetitorService(uowFactory, analyzer)
	ruleService := service.NewRuleService(ruleStore, publisherService, sysLogger)
	catalogService := service.NewCatalogService(catalogRepo)

	// 6. Controllers
	return &Container{
		Logger:               sysLogger,
		SessionController:    controller.NewSessionController(sessionService),
		BrainstormController: controller.NewBrainstormController(brainstormService),
		WhitepaperController: controller.NewWhitepaperController(whitepaperService),
		CompetitorController: controller.NewCompetitorController(competitorService),
		RuleController:       controller.NewRuleController(ruleService, catalogService),
		LiveController:       controller.NewLiveController(wsHub, sessionService),

		ConsumerService: consumerService,
		RuleService:     ruleService,
		WebSocketHub:    wsHub,

		infra:   infra,
		closers: []func(){func() { _ = pubSub.Close() }},
	}
}

// Start runs the background workers until ctx is done.
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)

	if err := c.ConsumerService.Consume(ctx); err != nil {
		return err
	}

	if c.infra.FeedbackSource != nil {
		if err := c.RuleService.Start(ctx, c.infra.FeedbackSource); err != nil {
			c.Logger.Warn("Bootstrap", "Rule feedback subscriber not started", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
