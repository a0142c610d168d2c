package handlers

import (
	"fmt"
	"net/http"

	"github.com/SscSPs/lingua_app/cmd/docs"
	portssvc "github.com/SscSPs/lingua_app/internal/core/ports/services"
	"github.com/SscSPs/lingua_app/internal/middleware"
	"github.com/SscSPs/lingua_app/internal/platform/config"
	"github.com/SscSPs/lingua_app/internal/utils"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	posthogClient *utils.PosthogClientWrapper,
) error {
	registerValidator()

	loginLimiter, err := middleware.NewIPRateLimiter(cfg.LoginRateLimit)
	if err != nil {
		return fmt.Errorf("invalid LOGIN_RATE_LIMIT %q: %w", cfg.LoginRateLimit, err)
	}
	cookies := newSessionCookies(cfg)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	// Public authentication routes
	auth := r.Group("/auth")
	registerAuthRoutes(auth, newAuthHandler(services.Session, services.PasswordReset, cookies, posthogClient), loginLimiter)
	registerOAuthRoutes(auth, newOAuthHandler(services.OAuth, cookies, cfg.PostLoginRedirectURL, posthogClient))

	setupProtectedRoutes(r, services, cookies, posthogClient)

	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupProtectedRoutes registers everything that sits behind the auth gate.
func setupProtectedRoutes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
	cookies sessionCookies,
	posthogClient *utils.PosthogClientWrapper,
) {
	protected := r.Group("", middleware.AuthMiddleware(services.Token), middleware.PosthogMiddleware(posthogClient))

	registerUserRoutes(protected, newUserHandler(services.User, cookies))
	registerExerciseRoutes(protected, newExerciseHandler(services.Exercise, services.SubExercise))
	registerCompletedExerciseRoutes(protected, newCompletedExerciseHandler(services.CompletedExercise))
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
