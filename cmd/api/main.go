package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"veritas-lab/internal/api"
	"veritas-lab/internal/api/handlers"
	apimiddleware "veritas-lab/internal/api/middleware"
	"veritas-lab/internal/config"
	"veritas-lab/internal/domain/services"
	"veritas-lab/internal/domain/services/ai"
	"veritas-lab/internal/domain/services/risk"
	grpchealth "veritas-lab/internal/grpc/health"
	"veritas-lab/internal/infrastructure/cache"
	"veritas-lab/internal/infrastructure/database"
	"veritas-lab/internal/infrastructure/database/repository"
	"veritas-lab/internal/streaming"
	"veritas-lab/pkg/logger"
)

// reportStatusTTL bounds how long case status lives in Redis without a database
const reportStatusTTL = 90 * 24 * time.Hour

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.FromConfig(cfg.App.Environment, logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		TimeFormat: cfg.Logger.TimeFormat,
		Service:    cfg.App.Name,
		Version:    cfg.App.Version,
	})
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting VERITAS Lab")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize infrastructure
	db, redisCache := initInfrastructure(ctx, cfg, log)
	defer func() {
		if db != nil {
			db.Close()
		}
		if redisCache != nil {
			_ = redisCache.Close()
		}
	}()

	// Initialize streaming infrastructure
	var natsPublisher *streaming.NATSPublisher
	if cfg.NATS.Enabled {
		natsPublisher, err = streaming.NewNATSPublisher(ctx, cfg.NATS, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to NATS, events stay in-process")
		}
	}
	eventBus := streaming.NewEventBus(natsPublisher, log)
	defer eventBus.Close()
	publisher := streaming.NewEventBusPublisher(eventBus)
	streaming.NewAuditLog(eventBus, log).Start(ctx)
	log.Info().Bool("nats_enabled", natsPublisher != nil).Msg("event bus initialized")

	// Upstream clients
	breaker := ai.BreakerSettings{
		Enabled:             cfg.AI.Breaker.Enabled,
		ConsecutiveFailures: cfg.AI.Breaker.ConsecutiveFailures,
		OpenTimeout:         cfg.AI.Breaker.OpenTimeout,
		HalfOpenRequests:    cfg.AI.Breaker.HalfOpenRequests,
	}
	llmClient := ai.NewLLMClient(ai.LLMConfig{
		APIKey:  cfg.AI.OpenAI.APIKey,
		BaseURL: cfg.AI.OpenAI.BaseURL,
		Timeout: cfg.AI.OpenAI.Timeout,
		Retry: ai.RetryPolicy{
			MaxRetries:      cfg.AI.Retry.MaxRetries,
			InitialInterval: cfg.AI.Retry.InitialInterval,
			Multiplier:      cfg.AI.Retry.Multiplier,
		},
		Breaker: breaker,
	}, log)
	if !llmClient.Configured() {
		log.Warn().Msg("OpenAI API key not set, image analysis will return the fallback verdict")
	}
	hfClient := ai.NewHFClient(ai.HFConfig{
		Token:   cfg.AI.HuggingFace.Token,
		BaseURL: cfg.AI.HuggingFace.BaseURL,
		Model:   cfg.AI.HuggingFace.Model,
		Timeout: cfg.AI.HuggingFace.Timeout,
		Breaker: breaker,
	}, log)
	vision := ai.NewVisionAnalyzer(log, llmClient, cfg.AI.OpenAI.VisionModel)

	// Storage, with in-process fallbacks when a backend is missing
	var (
		imageRepo   services.ImageAnalysisRepository
		reportRepo  services.ReportRepository
		chatRepo    services.ChatRepository
		resultCache services.ResultCache
		guard       services.InFlightGuard
		rateStore   apimiddleware.RateLimitStore
	)
	switch {
	case db != nil:
		imageRepo = repository.NewImageAnalysisRepository(db.Pool())
		reportRepo = repository.NewReportRepository(db.Pool())
		chatRepo = repository.NewChatRepository(db.Pool())
	case redisCache != nil:
		log.Warn().Msg("running without database, reports keep status in Redis and chats stay in memory")
		reportRepo = services.NewRedisReportStore(redisCache, reportStatusTTL)
		chatRepo = services.NewMemoryChatStore()
	default:
		log.Warn().Msg("running without database or Redis, using in-memory stores")
		reportRepo = services.NewMemoryReportStore()
		chatRepo = services.NewMemoryChatStore()
	}
	if redisCache != nil {
		resultCache = redisCache
		guard = services.NewRedisInFlightGuard(redisCache, cfg.Analysis.InFlightTTL, log)
		rateStore = redisCache
	} else {
		guard = services.NewMemoryInFlightGuard()
	}

	// Domain services
	helplines := services.NewHelplineDirectory()
	imageAnalysis := services.NewImageAnalysisService(
		vision,
		risk.NewImageClassifier(),
		guard,
		imageRepo,
		resultCache,
		publisher,
		services.ImageAnalysisConfig{
			MaxImageSize: cfg.Analysis.MaxImageSize,
			CacheTTL:     cfg.Analysis.CacheTTL,
			HistoryLimit: cfg.Analysis.HistoryLimit,
		},
		log,
	)
	chatbot := services.NewChatbotService(llmClient, chatRepo, services.ChatbotConfig{
		Model: cfg.AI.OpenAI.ChatModel,
	}, log)

	checks := make(map[string]handlers.Pinger)
	grpcChecks := make(map[string]grpchealth.Pinger)
	if db != nil {
		checks["postgres"], grpcChecks["postgres"] = db, db
	}
	if redisCache != nil {
		checks["redis"], grpcChecks["redis"] = redisCache, redisCache
	}

	// Initialize handlers
	h := handlers.NewHandlers(handlers.Dependencies{
		ImageAnalysis:   imageAnalysis,
		LabelClassifier: services.NewLabelClassifierService(hfClient, cfg.Analysis.MaxImageSize, log),
		ChatScanner:     services.NewChatScannerService(helplines, publisher, log),
		ProfileScanner:  services.NewProfileScannerService(cfg.Analysis.MaxImageSize, log),
		Reports:         services.NewReportService(reportRepo, publisher, log),
		Helplines:       helplines,
		Chatbot:         chatbot,
		Checks:          checks,
		MaxImageSize:    cfg.Analysis.MaxImageSize,
		Version:         cfg.App.Version,
		Logger:          log,
	})

	// Create router
	router := api.NewRouter(*cfg, h, rateStore, log)

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Start gRPC health server
	grpcListener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.GRPCPort))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create gRPC listener")
	}
	grpcServer := grpc.NewServer()
	healthChecker := grpchealth.Register(grpcServer, grpcChecks, log)
	go healthChecker.Run(ctx, 10*time.Second)

	go func() {
		log.Info().Str("addr", grpcListener.Addr().String()).Msg("starting gRPC server")
		if err := grpcServer.Serve(grpcListener); err != nil {
			log.Fatal().Err(err).Msg("gRPC server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")

	// Cancel context to stop background loops
	cancel()
	healthChecker.Shutdown()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	grpcServer.GracefulStop()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}

// initInfrastructure connects the optional backing stores. A store that is
// enabled but unreachable is logged and skipped.
func initInfrastructure(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.PostgresDB, *cache.RedisCache) {
	var db *database.PostgresDB
	if cfg.Database.Enabled {
		conn, err := database.NewPostgres(ctx, cfg.Database, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to PostgreSQL, continuing without database")
		} else {
			db = conn
			if cfg.Database.AutoMigrate {
				if err := db.EnsureSchema(ctx); err != nil {
					log.Fatal().Err(err).Msg("failed to apply database schema")
				}
			}
		}
	}

	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		rc, err := cache.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without cache")
		} else {
			redisCache = rc
		}
	}

	return db, redisCache
}
