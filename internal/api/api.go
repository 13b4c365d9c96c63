package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/roasboard/backend-go/internal/api/handlers"
	"github.com/andresuchdata/roasboard/backend-go/internal/api/middleware"
	"github.com/andresuchdata/roasboard/backend-go/internal/metrics"
	"github.com/andresuchdata/roasboard/backend-go/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	DashboardService *service.DashboardService
	PlanningService  *service.PlanningService
	ExportService    *service.ExportService
	Metrics          *metrics.Registry
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	if services != nil && services.Metrics != nil {
		router.Use(middleware.Metrics(services.Metrics))
	}
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.DashboardService != nil {
			dashboardHandler := handlers.NewDashboardHandler(services.DashboardService)
			apiGroup.GET("/skus", dashboardHandler.GetSKUs)
			apiGroup.GET("/skus/:id", dashboardHandler.GetSKU)
			apiGroup.GET("/campaigns", dashboardHandler.GetCampaigns)
			apiGroup.GET("/timeseries", dashboardHandler.GetTimeSeries)
			apiGroup.POST("/refresh", dashboardHandler.Refresh)

			dashboardGroup := apiGroup.Group("/dashboard")
			{
				dashboardGroup.GET("", dashboardHandler.GetDashboard)
				dashboardGroup.GET("/metrics", dashboardHandler.GetMetrics)
			}

			predictionGroup := apiGroup.Group("/predictions")
			{
				predictionGroup.GET("", dashboardHandler.GetPredictions)
				predictionGroup.GET("/importance", dashboardHandler.GetFeatureImportance)
			}

			apiGroup.GET("/inventory/alerts", dashboardHandler.GetInventoryAlerts)
		}

		if services.PlanningService != nil {
			planningHandler := handlers.NewPlanningHandler(services.PlanningService)
			biddingGroup := apiGroup.Group("/bidding")
			{
				biddingGroup.GET("/recommendations", planningHandler.GetRecommendations)
				biddingGroup.POST("/reallocate", planningHandler.Reallocate)
				biddingGroup.GET("/margins", planningHandler.GetMargins)
			}

			scenarioGroup := apiGroup.Group("/scenarios")
			{
				scenarioGroup.GET("", planningHandler.ListScenarios)
				scenarioGroup.POST("", planningHandler.CreateScenario)
				scenarioGroup.GET("/:id", planningHandler.GetScenario)
				scenarioGroup.DELETE("/:id", planningHandler.DeleteScenario)
				scenarioGroup.POST("/:id/run", planningHandler.RunScenario)
			}

			simulationGroup := apiGroup.Group("/simulation")
			{
				simulationGroup.POST("/baseline", planningHandler.CaptureBaseline)
				simulationGroup.POST("/quick", planningHandler.QuickSimulation)
			}
		}

		if services.ExportService != nil {
			exportHandler := handlers.NewExportHandler(services.ExportService)
			exportGroup := apiGroup.Group("/exports")
			{
				exportGroup.GET("/:report", exportHandler.Download)
				exportGroup.POST("/publish", exportHandler.Publish)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
