package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/meudayhegde/sprint-summary-chatbot/internal/agent"
	httptransport "github.com/meudayhegde/sprint-summary-chatbot/internal/api/http"
	"github.com/meudayhegde/sprint-summary-chatbot/internal/api/http/handlers"
	"github.com/meudayhegde/sprint-summary-chatbot/internal/auth"
	"github.com/meudayhegde/sprint-summary-chatbot/internal/config"
	"github.com/meudayhegde/sprint-summary-chatbot/internal/dataset"
	"github.com/meudayhegde/sprint-summary-chatbot/internal/events"
	"github.com/meudayhegde/sprint-summary-chatbot/internal/observability"
	"github.com/meudayhegde/sprint-summary-chatbot/internal/persistence"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var pg *persistence.Postgres
	if cfg.Dataset.Source == "postgres" {
		pg, err = persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()
	}

	load := loadFunc(cfg.Dataset, pg)
	table, err := load(ctx)
	if err != nil {
		logger.Fatal("failed to load dataset", zap.Error(err))
	}
	store := dataset.NewStore(table)
	logger.Info("dataset loaded",
		zap.String("source", cfg.Dataset.Source),
		zap.Int("rows", table.Len()),
	)

	dispatcher := events.NewInMemoryDispatcher()
	reloader := dataset.NewReloader(store, load, cfg.Dataset.ReloadInterval(), dispatcher, logger)
	reloader.Start(ctx)
	defer reloader.Stop()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	answerCache := agent.NewAnswerCache(redis.Client, cfg.Redis.AnswerTTL(), logger)
	answerCache.SubscribeReloads(dispatcher)

	var narrator agent.Narrator
	if cfg.LLM.AnthropicAPIKey != "" {
		narrator, err = agent.NewClaudeNarrator(cfg.LLM)
		if err != nil {
			logger.Warn("narrator unavailable, answers degrade to templates", zap.Error(err))
		}
	} else {
		logger.Warn("no Anthropic API key configured, answers degrade to templates")
	}
	analysisAgent := agent.New(store, narrator, answerCache, logger)

	var tokens *auth.TokenManager
	if cfg.Auth.JWTSecret != "" {
		tokens = auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTLMinutes)
	} else {
		logger.Warn("AUTH_JWT_SECRET not set, API runs unauthenticated")
	}

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store, metrics),
		Token:          handlers.NewTokenHandler(tokens, cfg.Auth.IssueKey),
		Chat:           handlers.NewChatHandler(analysisAgent),
		Query:          handlers.NewQueryHandler(store, metrics),
		Dashboard:      handlers.NewDashboardHandler(store),
		Report:         handlers.NewReportHandler(store),
		Admin:          handlers.NewAdminHandler(store, reloader),
		AuthMiddleware: auth.NewMiddleware(tokens),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// loadFunc binds the configured dataset source into a reloadable loader.
func loadFunc(cfg config.DatasetConfig, pg *persistence.Postgres) dataset.LoadFunc {
	if cfg.Source == "postgres" {
		return func(ctx context.Context) (*dataset.Table, error) {
			return dataset.LoadPostgres(ctx, pg.PoolHandle())
		}
	}
	return func(ctx context.Context) (*dataset.Table, error) {
		return dataset.LoadCSVFile(cfg.CSVPath)
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
