package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/budgeat/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RecoveryMiddleware())
	router.Use(RequestLogger(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		research := v1.Group("/research")
		{
			research.POST("", handler.Research)
			research.POST("/list", handler.ResearchList)
			research.POST("/recipes", handler.ResearchRecipes)
		}

		v1.GET("/recipes/search", handler.SearchRecipes)
		v1.POST("/vision/analyze", handler.AnalyzeVision)
	}

	return router
}
