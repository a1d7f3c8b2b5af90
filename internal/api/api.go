// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/shelfaware/wastewatch/internal/api/handlers"
	"github.com/shelfaware/wastewatch/internal/api/middleware"
	"github.com/shelfaware/wastewatch/internal/service"
)

type Services struct {
	RiskService     *service.RiskService
	AnomalyService  *service.AnomalyService
	GenerateService *service.GenerateService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
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

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.RiskService != nil {
			riskHandler := handlers.NewRiskHandler(services.RiskService)
			apiGroup.POST("/waste-risk", riskHandler.AssessRisk)
			apiGroup.GET("/waste-risk/summary", riskHandler.GetSummary)
		}

		if services.AnomalyService != nil {
			anomalyHandler := handlers.NewAnomalyHandler(services.AnomalyService)
			apiGroup.POST("/detect-anomalies", anomalyHandler.DetectAnomalies)
		}

		if services.GenerateService != nil {
			dataHandler := handlers.NewDataHandler(services.GenerateService)
			apiGroup.POST("/generate-data", dataHandler.GenerateData)
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
