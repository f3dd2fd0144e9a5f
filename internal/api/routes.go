package api

import (
	"os"
	"strconv"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/etf-portfolio/backend/internal/api/handlers"
	"github.com/etf-portfolio/backend/internal/portfolio"
)

func SetupRouter(session *portfolio.Session) *gin.Engine {
	router := gin.Default()

	// CORS configuration - allow origins from environment or use defaults
	config := cors.DefaultConfig()
	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		config.AllowOrigins = strings.Split(corsOrigins, ",")
	} else {
		config.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.AllowCredentials = false
	router.Use(cors.New(config))

	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(rateLimitFromEnv()))

	// Initialize handlers
	holdingHandler := handlers.NewHoldingHandler(session)
	fundsHandler := handlers.NewFundsHandler(session)
	historyHandler := handlers.NewHistoryHandler(session)
	exportHandler := handlers.NewExportHandler(session)

	// API routes
	api := router.Group("/api")
	{
		// Holding routes
		holdings := api.Group("/holdings")
		{
			holdings.GET("", holdingHandler.GetHoldings)
			holdings.POST("", holdingHandler.AddHolding)
			holdings.PUT("/prices", holdingHandler.UpdatePrices)
			holdings.PUT("/:id", holdingHandler.UpdateHolding)
			holdings.DELETE("/:id", holdingHandler.DeleteHolding)
			holdings.POST("/:id/correct-price", holdingHandler.CorrectPrice)
		}

		// Funds and summary routes
		funds := api.Group("/funds")
		{
			funds.GET("", fundsHandler.GetFunds)
			funds.PUT("", fundsHandler.SetFunds)
		}
		api.GET("/summary", fundsHandler.GetSummary)

		// History routes
		history := api.Group("/history")
		{
			history.GET("", historyHandler.GetHistory)
			history.POST("", historyHandler.AddPoint)
			history.GET("/chart", historyHandler.GetChartSeries)
			history.GET("/prices/:ticker", historyHandler.GetPriceHistory)
			history.DELETE("/:date", historyHandler.DeletePoint)
		}

		// Export routes
		api.GET("/export/csv", exportHandler.ExportCSV)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

func rateLimitFromEnv() (float64, int) {
	rps := 50.0
	burst := 100
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			rps = parsed
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			burst = parsed
		}
	}
	return rps, burst
}
