// Package main initializes and starts the hardware-loan portal server,
// setting up configuration, logging, database connections, repositories,
// services, and handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/avolkovs/hwledger/internal/config"
	"github.com/avolkovs/hwledger/internal/db"
	"github.com/avolkovs/hwledger/internal/logger"
	"github.com/avolkovs/hwledger/internal/models"
	"github.com/avolkovs/hwledger/internal/repository"
	"github.com/avolkovs/hwledger/internal/server/handler/http"
	"github.com/avolkovs/hwledger/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

// defaultSets is seeded at startup when the hardware_sets table is empty.
var defaultSets = []models.HardwareSet{
	{Name: "HWSET1", Capacity: 250, CheckedOut: 20},
	{Name: "HWSET2", Capacity: 100, CheckedOut: 0},
}

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	if options.SessionSecret == "" {
		zapLogger.Fatal("session secret is required (-s flag or SESSION_SECRET)")
	}
	sessionSecret := []byte(options.SessionSecret)

	ctx := context.Background()

	// Initialize PostgreSQL connection and run migrations.
	postgresDB, err := db.InitPostgres(ctx, options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Initialize repositories.
	hardwareRepo := repository.NewPostgresHardwareRepository(postgresDB)
	authRepo := repository.NewPostgresAuthRepository(postgresDB)
	projectRepo := repository.NewPostgresProjectRepository(postgresDB)

	// Seed the default hardware pools on first start.
	if err := hardwareRepo.SeedDefaults(ctx, defaultSets); err != nil {
		zapLogger.Fatal("cannot seed hardware sets", zap.Error(err))
	}

	// Trim old audit events in the background.
	db.StartEventTrimmer(ctx, postgresDB,
		time.Hour,       // interval
		90*24*time.Hour, // retention: 90 days
		zapLogger,
	)

	// Initialize business-logic services.
	hardwareService := service.NewHardwareService(hardwareRepo, zapLogger)
	authService := service.NewAuthService(authRepo)
	projectService := service.NewProjectService(projectRepo)

	// Create HTTP handlers.
	authHandler := &http.AuthHandler{
		AuthService:   authService,
		SessionSecret: sessionSecret,
		SessionTTL:    options.SessionTTL(),
	}
	hardwareHandler := &http.HardwareHandler{HardwareService: hardwareService}
	projectHandler := &http.ProjectHandler{ProjectService: projectService}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, hardwareHandler, projectHandler, sessionSecret, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Address,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Address))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
