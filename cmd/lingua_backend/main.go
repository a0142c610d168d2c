package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/lingua_app/internal/adapters/email"
	"github.com/SscSPs/lingua_app/internal/adapters/oauth/github"
	"github.com/SscSPs/lingua_app/internal/adapters/oauth/google"
	portssvc "github.com/SscSPs/lingua_app/internal/core/ports/services"
	"github.com/SscSPs/lingua_app/internal/core/services"
	"github.com/SscSPs/lingua_app/internal/handlers"
	"github.com/SscSPs/lingua_app/internal/middleware"
	"github.com/SscSPs/lingua_app/internal/platform/config"
	"github.com/SscSPs/lingua_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/lingua_app/internal/utils"
	"github.com/SscSPs/lingua_app/migrations"
	"github.com/SscSPs/lingua_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title Lingua Backend API
// @version 1.0
// @description Accounts, sessions and exercise tracking for the Lingua language app.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// --- Run Database Migrations ---
	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, migrations.FS, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck, cfg.DBMaxConns)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	mailer := email.NewMailer(cfg.ResendAPIKey, cfg.EmailFrom, logger)

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(cfg, repos, mailer, configuredProviders(cfg, logger)...)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer, posthogClient); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// configuredProviders returns the identity providers that have client credentials.
func configuredProviders(cfg *config.Config, logger *slog.Logger) []portssvc.OAuthProvider {
	var providers []portssvc.OAuthProvider
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		providers = append(providers, google.NewProvider(cfg))
	}
	if cfg.GitHubClientID != "" && cfg.GitHubClientSecret != "" {
		providers = append(providers, github.NewProvider(cfg))
	}
	logger.Info("OAuth providers configured", slog.Int("count", len(providers)))
	return providers
}
