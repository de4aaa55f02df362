package main

import (
	"log"
	"log/slog"

	"github.com/lamdv/socialverse/backend/internal/router"
	"github.com/lamdv/socialverse/backend/pkg/config"
	"github.com/lamdv/socialverse/backend/pkg/logging"
	"github.com/lamdv/socialverse/backend/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Initialize database connection (also loads .env)
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB() // Ensure database connection is closed when main exits

	// Load configuration
	cfg := config.Load()
	if cfg.Secret == "" {
		log.Fatal("SECRET environment variable not set")
	}

	// Logger
	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Setup global middleware
	router.SetupMiddleware(e, logger)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Mongo, cfg, logger)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
