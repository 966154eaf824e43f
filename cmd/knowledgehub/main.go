package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/prompt-general/knowledgehub/internal/ai"
	"github.com/prompt-general/knowledgehub/internal/api"
	"github.com/prompt-general/knowledgehub/internal/article"
	"github.com/prompt-general/knowledgehub/internal/config"
	"github.com/prompt-general/knowledgehub/internal/events"
	"github.com/prompt-general/knowledgehub/internal/health"
	"github.com/prompt-general/knowledgehub/internal/space"
	"github.com/prompt-general/knowledgehub/internal/store"
	"github.com/prompt-general/knowledgehub/internal/user"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Configuration file path")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("knowledgehub %s (commit: %s)\n", version, commit)
		return
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("starting knowledgehub", zap.String("version", version))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := store.Open(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Fatal("failed to connect to mongodb", zap.Error(err))
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := db.Close(shutdownCtx); err != nil {
			logger.Warn("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var bus events.Publisher = events.NoopPublisher{}
	if len(cfg.Events.Brokers) > 0 {
		kafkaBus := events.NewKafkaPublisher(cfg.Events, logger)
		defer kafkaBus.Close() //nolint:errcheck
		bus = kafkaBus
	} else {
		logger.Info("no kafka brokers configured; event publishing disabled")
	}

	aiClient := ai.NewClient(cfg.OpenAI, logger)

	articleService := article.NewService(
		db.Articles(),
		aiClient,
		aiClient,
		bus,
		article.ServiceConfig{
			DefaultSearchLimit:  cfg.Search.DefaultLimit,
			CandidateMultiplier: cfg.Search.CandidateMultiplier,
			MinCandidates:       cfg.Search.MinCandidates,
		},
		logger,
	)
	spaceService := space.NewService(db.Spaces(), db.Articles(), bus, logger)
	userService := user.NewService(db.Users(), bus, logger)

	checker := health.NewChecker()
	checker.Register(health.CheckFunc("mongodb", func(ctx context.Context) health.Result {
		if err := db.Ping(ctx); err != nil {
			return health.Result{Status: health.StatusUnhealthy, Message: err.Error()}
		}
		return health.Result{Status: health.StatusHealthy}
	}))
	checker.Register(health.CheckFunc("openai", func(ctx context.Context) health.Result {
		if cfg.OpenAI.APIKey == "" {
			return health.Result{Status: health.StatusDegraded, Message: "api key not configured"}
		}
		return health.Result{Status: health.StatusHealthy}
	}))

	gateway := api.NewGateway(cfg.Server, cfg.Upload, articleService, spaceService, userService, checker.HTTPHandler(), logger)

	errCh := make(chan error, 1)
	go func() {
		if err := gateway.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Fatal("server error", zap.Error(err))
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := gateway.Stop(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	zapConfig := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	return zapConfig.Build()
}
