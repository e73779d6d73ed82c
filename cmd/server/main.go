package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"quizbank/internal/auth"
	"quizbank/internal/cache"
	"quizbank/internal/config"
	quizSvc "quizbank/internal/domain/services/quizbank"
	"quizbank/internal/export"
	"quizbank/internal/handler"
	"quizbank/internal/middleware"
	"quizbank/internal/repository/postgres"
	postgresQuiz "quizbank/internal/repository/postgres/quizbank"
	serviceQuiz "quizbank/internal/service/quizbank"
	"quizbank/internal/storage"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" || cfg.Debug {
		logLevel = slog.LevelDebug
	}

	var logOutput io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	ctx := context.Background()

	// Create pgx connection pool
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", pool.Config().MaxConns,
		"min_conns", pool.Config().MinConns,
	)

	// Create repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	folderRepo := postgresQuiz.NewFolderRepository(repoConfig)
	categoryRepo := postgresQuiz.NewCategoryRepository(repoConfig)
	questionRepo := postgresQuiz.NewQuestionRepository(repoConfig)

	// Roster cache: Redis when configured, otherwise in-process
	var rosters quizSvc.RosterCache
	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		rosters = cache.NewRedisRosterCache(redisClient, cfg.TablePrefix, cfg.RosterCacheTTL)
		logger.Info("roster cache: redis", "ttl", cfg.RosterCacheTTL)
	} else {
		rosters = cache.NewMemoryRosterCache(cfg.RosterCacheTTL)
		logger.Info("roster cache: memory", "ttl", cfg.RosterCacheTTL)
	}

	// Folder tree manager
	manager := serviceQuiz.NewFolderTreeManager(
		folderRepo,
		categoryRepo,
		questionRepo,
		rosters,
		serviceQuiz.ManagerOptions{FetchConcurrency: cfg.RosterFetchConcurrency},
		logger,
	)

	// Initial load; a partial roster failure is retried by the next refresh
	if err := manager.Refresh(ctx); err != nil {
		if len(manager.Folders()) == 0 {
			logger.Error("initial load failed", "error", err)
		} else {
			logger.Warn("initial roster load incomplete", "error", err)
		}
	}

	if cfg.RosterRefreshInterval > 0 {
		refresher, err := serviceQuiz.NewRosterRefresher(manager, cfg.RosterRefreshInterval, logger)
		if err != nil {
			log.Fatalf("Failed to create roster refresher: %v", err)
		}
		refresher.Start()
		defer func() {
			if err := refresher.Stop(); err != nil {
				logger.Error("roster refresher shutdown failed", "error", err)
			}
		}()
	}

	// Export pipeline
	renderer := export.NewPDFRenderer(export.NewHTTPImageFetcher(cfg.ExportImageTimeout), logger)

	var exportStore quizSvc.ExportStore
	if cfg.MinioEndpoint != "" {
		minioStore, err := storage.NewMinioExportStore(storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			Region:    cfg.MinioRegion,
			UseSSL:    cfg.MinioUseSSL,
			URLExpiry: cfg.ExportURLTTL,
		}, logger)
		if err != nil {
			log.Fatalf("Failed to create export store: %v", err)
		}
		if err := minioStore.EnsureBucket(ctx); err != nil {
			log.Fatalf("Failed to prepare export bucket: %v", err)
		}
		exportStore = minioStore
	}
	exportService := serviceQuiz.NewExportService(manager, categoryRepo, renderer, exportStore, logger)

	logger.Info("services initialized", "export_store", exportStore != nil)

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handlers := &handler.Handlers{
		Health: handler.NewHealthHandler(pool, logger),
		Folder: handler.NewFolderHandler(manager, logger),
		Tree:   handler.NewTreeHandler(manager, logger),
		Edit:   handler.NewEditHandler(manager, logger),
		Roster: handler.NewRosterHandler(manager, logger),
		Export: handler.NewExportHandler(exportService, logger),
	}
	handlers.Register(mux)

	// Build middleware chain
	// Order: CORS → Logging → Recovery → Auth → Routes
	var h http.Handler = mux

	if cfg.AuthEnabled() {
		jwtVerifier, err := auth.NewJWTVerifier(cfg.SupabaseJWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer jwtVerifier.Close()
		h = middleware.AuthMiddleware(jwtVerifier, logger)(h)
	} else {
		logger.Warn("authentication disabled (dev environment without SUPABASE_URL)")
	}
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestLogger(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute, // PDF renders fetch remote images
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		logger.Error("server failed", "error", err)
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
