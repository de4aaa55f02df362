package router

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/lamdv/socialverse/backend/internal/handlers"
	"github.com/lamdv/socialverse/backend/internal/mailer"
	"github.com/lamdv/socialverse/backend/internal/middleware"
	"github.com/lamdv/socialverse/backend/internal/repositories"
	"github.com/lamdv/socialverse/backend/internal/token"
	"github.com/lamdv/socialverse/backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"
)

// Auth endpoints share one budget: 50 requests per 15 minutes per client.
const (
	authRateLimit  = 50
	authRateWindow = 15 * time.Minute
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, logger *slog.Logger) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(middleware.RequestLogger(logger))
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, mgClient *mongo.Client, cfg *config.Config, logger *slog.Logger) {
	db := mgClient.Database(cfg.MongoDB)

	// --- Initialize Repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	postRepo := repositories.NewMongoPostRepository(db)
	categoryRepo := repositories.NewMongoCategoryRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create user indexes: %v", err)
	}
	log.Println("MongoDB indexes ensured.")

	tokens := token.NewService(cfg.Secret)
	guard := middleware.NewGuard(tokens)
	mail := mailer.New(cfg, logger)

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"message": "socialverse api"})
	})

	// --- Auth routes, rate-limited per client IP ---
	authLimiter := eMiddleware.RateLimiterWithConfig(eMiddleware.RateLimiterConfig{
		Store: eMiddleware.NewRateLimiterMemoryStoreWithConfig(eMiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(float64(authRateLimit) / authRateWindow.Seconds()),
			Burst:     authRateLimit,
			ExpiresIn: authRateWindow,
		}),
	})
	authGroup := e.Group("", authLimiter)
	authHandler := handlers.NewAuthHandler(userRepo, tokens, mail)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// User routes
	userHandler := handlers.NewUserHandler(userRepo, postRepo)
	userHandler.RegisterUserRoutes(e, guard)
	log.Println("User routes configured.")

	// Category routes
	categoryHandler := handlers.NewCategoryHandler(categoryRepo)
	categoryHandler.RegisterCategoryRoutes(e, guard)
	log.Println("Category routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo, userRepo)
	postHandler.RegisterPostRoutes(e, guard)
	log.Println("Post routes configured.")

	log.Println("All routes configured.")
}
