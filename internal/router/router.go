package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gitanalyzer/backend/config"
	"github.com/gitanalyzer/backend/internal/handler"
)

func Setup(
	cfg *config.Config,
	analysisHandler *handler.AnalysisHandler,
	exportHandler *handler.ExportHandler,
	systemHandler *handler.SystemHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	api := r.Group("/api")
	{
		api.POST("/analyze", analysisHandler.Create)

		analysis := api.Group("/analysis")
		{
			analysis.GET("/recent", analysisHandler.GetRecent)
			analysis.GET("/queue", analysisHandler.GetQueueStatus)
			analysis.POST("/cleanup", analysisHandler.CleanupStuck)
			analysis.GET("/:id/status", analysisHandler.GetStatus)
			analysis.GET("/:id/results", analysisHandler.GetResults)
			analysis.POST("/:id/cancel", analysisHandler.Cancel)
		}

		api.POST("/export/:id/:format", exportHandler.Export)
		api.GET("/download/:id/:format", exportHandler.Download)

		api.GET("/health", systemHandler.Health)
		api.GET("/providers", systemHandler.Providers)
	}

	return r
}
