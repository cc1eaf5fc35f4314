package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"alcyxob/fitgen/internal/api"
	"alcyxob/fitgen/internal/cache"
	"alcyxob/fitgen/internal/config"
	"alcyxob/fitgen/internal/llm"
	"alcyxob/fitgen/internal/logger"
	"alcyxob/fitgen/internal/observability"
	"alcyxob/fitgen/internal/planstore"
	"alcyxob/fitgen/internal/repository/mongo"
	"alcyxob/fitgen/internal/service"
	"alcyxob/fitgen/internal/storage"
)

var version = "dev"

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	appLog, err := logger.New(cfg.Server.Mode, cfg.Log.Level)
	if err != nil {
		log.Fatalf("FATAL: Could not build logger: %v", err)
	}
	defer appLog.Sync()
	appLog.Info("starting fitgen server", "version", version, "mode", cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing := observability.InitTracing(ctx, appLog, cfg.Telemetry, version)

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(ctx, cfg.Database.URI)
	if err != nil {
		appLog.Fatal("could not connect to MongoDB", "error", err)
	}
	defer func() {
		appLog.Info("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			appLog.Error("failed to disconnect MongoDB", "error", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	// --- Ensure Indexes ---
	go func() {
		idxCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(idxCtx, appDB); err != nil {
			appLog.Error("index creation incomplete", "error", err)
			return
		}
		appLog.Info("indexes ensured")
	}()

	// --- Infrastructure ---
	sharedCache, err := cache.New(ctx, cfg.Cache, cfg.Redis)
	if err != nil {
		appLog.Fatal("could not initialize cache", "backend", cfg.Cache.Backend, "error", err)
	}
	archive, err := storage.NewArchive(ctx, cfg.S3)
	if err != nil {
		appLog.Fatal("could not initialize generation archive", "error", err)
	}
	provider, err := llm.NewProvider(cfg.LLM)
	if err != nil {
		appLog.Fatal("could not initialize model provider", "error", err)
	}
	generator := llm.NewGenerator(provider, cfg.LLM.MaxTokens, cfg.LLM.Timeout)

	// --- Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	profileRepo := mongo.NewMongoProfileRepository(appDB)
	planRepo := mongo.NewMongoPlanRepository(appDB)
	sessionRepo := mongo.NewMongoSessionRepository(appDB)
	genLogRepo := mongo.NewMongoGenerationLogRepository(appDB)

	store := planstore.New(planRepo, sharedCache, cfg.Cache.TTL, appLog)

	// --- Services ---
	services := api.Services{
		Auth:    service.NewAuthService(userRepo, sharedCache, cfg.Cache.TokenTTL, cfg.JWT.Secret, cfg.JWT.Expiration, appLog),
		Workout: service.NewWorkoutService(store, generator, genLogRepo, archive, cfg.LLM.PromptVersion, cfg.LLM.Model, appLog),
		Session: service.NewSessionService(sessionRepo, store, appLog),
		Profile: service.NewProfileService(profileRepo),
	}

	// --- HTTP ---
	if !cfg.Server.Development() {
		gin.SetMode(gin.ReleaseMode)
	}
	opts := api.Options{
		Log:         appLog,
		Development: cfg.Server.Development(),
		CORSOrigins: cfg.Server.CORSOrigins,
		Limiter:     api.NewUserLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	}
	if cfg.Telemetry.Enabled {
		opts.TraceService = cfg.Telemetry.ServiceName
	}
	router := api.NewRouter(opts, services)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		appLog.Info("server listening", "addr", cfg.Server.Address, "provider", provider.Name(), "model", cfg.LLM.Model)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// --- Graceful Shutdown ---
	select {
	case <-ctx.Done():
		appLog.Info("shutting down server")
	case err := <-serveErr:
		if err != nil {
			appLog.Error("listen failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.Error("server forced to shutdown", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		appLog.Warn("tracer shutdown failed", "error", err)
	}
	appLog.Info("server exiting")
}
