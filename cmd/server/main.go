package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devinpereira/Flexin/internal/api"
	"github.com/devinpereira/Flexin/internal/app"
	"github.com/devinpereira/Flexin/internal/config"
	"github.com/devinpereira/Flexin/internal/engine"
	"github.com/devinpereira/Flexin/internal/jobs"
	"github.com/devinpereira/Flexin/internal/logger"
	"github.com/devinpereira/Flexin/internal/repository/mongo"
	"github.com/devinpereira/Flexin/internal/service"
	"github.com/devinpereira/Flexin/internal/storage"
)

// @title Flexin Schedule API
// @version 1.0
// @description Generates weekly workout schedules from a user's training profile.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic("could not load config: " + err.Error())
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		panic("could not init logger: " + err.Error())
	}
	defer log.Sync()
	log.Info("Starting Flexin server", "address", cfg.Server.Address, "catalogSource", cfg.Catalog.Source)

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("jwt.secret is not configured")
	}

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatal("Could not connect to MongoDB", "error", err)
	}
	defer func() {
		log.Info("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Error("Failed to disconnect MongoDB", "error", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(ctx, appDB); err != nil {
			log.Error("Index creation failed", "error", err)
			return
		}
		log.Info("Index creation process completed")
	}()

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	// --- Initialize Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.BucketName != "" {
		fileStorage, err = storage.NewS3Storage(startupCtx, cfg.S3, log)
		if err != nil {
			log.Fatal("Failed to initialize S3 storage", "error", err)
		}
	} else {
		log.Info("No S3 bucket configured, object storage disabled")
	}

	// --- Reference Data ---
	vocab := engine.DefaultVocabulary()
	log.Info("Vocabulary loaded", "version", vocab.Version, "fingerprint", vocab.Fingerprint())

	initialCatalog, err := app.LoadCatalog(startupCtx, cfg, appDB, fileStorage, log)
	if err != nil {
		log.Fatal("Failed to load exercise catalog", "error", err)
	}

	// --- Initialize Repositories ---
	profileRepo := mongo.NewMongoProfileRepository(appDB)
	scheduleRepo := mongo.NewMongoScheduleRepository(appDB)
	diagnosticRepo := mongo.NewMongoDiagnosticRepository(appDB)

	// --- Initialize Services ---
	diagnosticsService := service.NewDiagnosticsService(diagnosticRepo, cfg.Engine.DiagnosticsBuffer, log)
	diagnosticsService.Start()

	focus, releaseFocus := app.BuildFocusPredictor(startupCtx, cfg, vocab, log)
	defer releaseFocus()
	load := app.BuildLoadStrategy(cfg.Model, vocab)
	log.Info("Load strategy selected", "strategy", load.Name())

	catalogService := app.NewCatalogService(cfg, initialCatalog, appDB, log)
	profileService := service.NewProfileService(profileRepo, log)
	scheduleService := service.NewScheduleService(service.ScheduleDeps{
		Engine:          engine.New(vocab, engine.DefaultFocusTable(), diagnosticsService, log),
		Catalog:         catalogService,
		Focus:           focus,
		Load:            load,
		ScheduleRepo:    scheduleRepo,
		ProfileRepo:     profileRepo,
		AssembleTimeout: cfg.Engine.AssembleTimeout,
		Workers:         cfg.Jobs.Workers,
	}, log)

	// --- Scheduled Jobs ---
	var regenerator api.Regenerator = scheduleService
	var weekly *jobs.WeeklyRegeneration
	if cfg.Jobs.WeeklySpec != "" {
		weekly, err = jobs.NewWeeklyRegeneration(cfg.Jobs.WeeklySpec, scheduleService, 0, log)
		if err != nil {
			log.Fatal("Invalid weekly regeneration schedule", "spec", cfg.Jobs.WeeklySpec, "error", err)
		}
		weekly.Start()
		regenerator = weekly
	}

	// --- Initialize Gin Engine ---
	router := gin.New()
	router.Use(gin.Recovery())

	api.SetupRoutes(router, api.RouteDeps{
		JWTSecret:          cfg.JWT.Secret,
		Vocabulary:         vocab,
		VocabularyStore:    fileStorage,
		VocabularyKey:      cfg.S3.VocabularyKey,
		ScheduleService:    scheduleService,
		ProfileService:     profileService,
		CatalogService:     catalogService,
		DiagnosticsService: diagnosticsService,
		Regenerator:        regenerator,
		Log:                log,
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("Server listening", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("ListenAndServe error", "error", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	if weekly != nil {
		weekly.Stop()
	}
	diagnosticsService.Close()

	log.Info("Server exiting")
}
