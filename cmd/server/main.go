package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/patiklub/service-pets/internal/application"
	"github.com/patiklub/service-pets/internal/auth"
	"github.com/patiklub/service-pets/internal/config"
	"github.com/patiklub/service-pets/internal/database"
	"github.com/patiklub/service-pets/internal/handler"
	"github.com/patiklub/service-pets/internal/health"
	"github.com/patiklub/service-pets/internal/logger"
	"github.com/patiklub/service-pets/internal/middleware"
	"github.com/patiklub/service-pets/internal/repository"
	"github.com/patiklub/service-pets/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-pets")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-pets",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}()

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(&repository.PetModel{}, &repository.OwnerProfileModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DBConfig.URL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize token verifier
	verifier := auth.NewTokenVerifier(cfg.AuthConfig.JWTSecret)

	// Initialize avatar object store
	objectStore := storage.NewSupabaseStore(storage.SupabaseConfig{
		BaseURL:    cfg.StorageConfig.BaseURL,
		Bucket:     cfg.StorageConfig.Bucket,
		ServiceKey: cfg.StorageConfig.ServiceKey,
		Timeout:    cfg.StorageConfig.Timeout,
	})

	// Initialize repositories
	petRepo := repository.NewGormPetRepository(db)
	ownerRepo := repository.NewGormOwnerRepository(db)

	// Initialize application services
	petService := application.NewPetService(petRepo, ownerRepo, log)
	avatarService := application.NewAvatarService(petRepo, objectStore, log)
	profileService := application.NewProfileService(ownerRepo, petRepo, log)

	// Initialize HTTP handlers
	petHandler := handler.NewPetHandler(petService, avatarService)
	profileHandler := handler.NewProfileHandler(profileService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-pets")
	healthHandler.RegisterRoutes(router)

	// Register routes
	petHandler.RegisterRoutes(&router.RouterGroup, verifier)
	profileHandler.RegisterRoutes(&router.RouterGroup, verifier)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-pets...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-pets stopped")
}
