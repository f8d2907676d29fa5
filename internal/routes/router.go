package routes

import (
	"context"
	"net/http"
	"time"

	"restaurant-review-api/internal/config"
	"restaurant-review-api/internal/delivery/http/handler"
	"restaurant-review-api/internal/logger"
	"restaurant-review-api/internal/middleware"
	"restaurant-review-api/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// HealthChecker reports whether the database is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// UserService covers what both the auth handler and the auth middleware need.
type UserService interface {
	handler.AuthService
	middleware.Authenticator
}

type Services struct {
	Users       UserService
	Ingredients handler.IngredientService
	Favorites   handler.FavoriteService
	Saved       handler.SavedService
	Reviews     handler.ReviewService
}

// SetupRoutes builds the engine. ctx bounds background work owned by the
// router, currently the rate limiter sweepers.
func SetupRoutes(ctx context.Context, cfg *config.Config, db HealthChecker, svc Services) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	binding.EnableDecoderDisallowUnknownFields = true

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))

	generalLimiter := middleware.NewRateLimiter(ctx, "general", cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst)
	authLimiter := middleware.NewRateLimiter(ctx, "auth", cfg.RateLimit.AuthRPS, cfg.RateLimit.AuthBurst)
	router.Use(generalLimiter.Middleware())

	router.GET("/health", func(c *gin.Context) {
		checkCtx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		if err := db.Health(checkCtx); err != nil {
			logger.Error("Health check failed", zap.Error(err))
			utils.ErrorResponse(c, http.StatusServiceUnavailable, "Database connection failed")
			return
		}
		utils.SuccessResponse(c, http.StatusOK, "Service is running", gin.H{"status": "healthy"})
	})

	router.NoRoute(func(c *gin.Context) {
		utils.ErrorResponse(c, http.StatusNotFound, "Route not found")
	})

	requireAuth := middleware.AuthMiddleware(cfg.JWT.Secret, svc.Users)

	authHandler := handler.NewAuthHandler(svc.Users)
	ingredientHandler := handler.NewIngredientHandler(svc.Ingredients)
	favoriteHandler := handler.NewFavoriteHandler(svc.Favorites)
	savedHandler := handler.NewSavedHandler(svc.Saved)
	reviewHandler := handler.NewReviewHandler(svc.Reviews)

	auth := router.Group("/auth")
	{
		authHandler.RegisterPublicRoutes(auth.Group("", authLimiter.Middleware()))
		authHandler.RegisterProtectedRoutes(auth.Group("", requireAuth))
	}

	ingredientHandler.RegisterIngredientRoutes(router.Group("/ingredient"))
	ingredientHandler.RegisterAllergyRoutes(router.Group("/user/allergy", requireAuth))
	favoriteHandler.RegisterRoutes(router.Group("/api/favorites", requireAuth))
	savedHandler.RegisterRoutes(router.Group("/api/saved", requireAuth))

	comments := router.Group("/comments")
	{
		reviewHandler.RegisterPublicRoutes(comments)
		reviewHandler.RegisterProtectedRoutes(comments.Group("", requireAuth))
	}

	logger.Info("All routes initialized")
	return router
}
