package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shanto268/DishCord/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()

	router.Use(RecoveryMiddleware(logger))
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		recipes := v1.Group("/recipes")
		{
			recipes.POST("/query", handler.Query)
			recipes.POST("/search", handler.Search)
			recipes.GET("/:id", handler.GetRecipe)
		}

		// Reload is only exposed when an admin token is configured
		if cfg.Server.AdminToken != "" {
			v1.POST("/corpus/reload", AdminTokenMiddleware(cfg.Server.AdminToken), handler.ReloadCorpus)
		}
	}

	return router
}
