package api

import (
	"log"

	"image-crawler-go/pkg/api/handlers"
	"image-crawler-go/pkg/api/middleware"
	"image-crawler-go/pkg/metrics"
	"image-crawler-go/pkg/services"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the crawl service into a gin engine. recorder may be nil,
// in which case /metrics is not served.
func NewRouter(service *services.CrawlService, recorder *metrics.Recorder, logger *log.Logger) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.ErrorHandler())

	// Health check
	router.GET("/health", handlers.HealthCheck)
	if recorder != nil {
		router.GET("/metrics", gin.WrapH(recorder.Handler()))
	}

	// API routes
	v1 := router.Group("/api/v1")
	{
		crawls := v1.Group("/crawls")
		crawls.Use(middleware.ExtractCredential())
		{
			crawls.POST("", handlers.SubmitCrawl(service))
			crawls.GET("/latest", handlers.LatestCrawl(service))
		}

		v1.GET("/progress", handlers.GetProgress(service))
		v1.GET("/credential", handlers.GetCredential(service))
	}

	return router
}
