// internal/api/router.go
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meditrain/simstudio/internal/config"
)

// SetupRouter builds the gin engine with all middleware and routes.
func SetupRouter(handler *Handler) *gin.Engine {
	cfg := config.Current()
	if !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(CORSMiddleware())
	r.Use(MetricsMiddleware())

	// Studio frontend assets.
	if cfg.StaticDir != "" {
		r.Static("/static", cfg.StaticDir)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(DefaultRateLimit())
	{
		api.GET("/presets", handler.GetPresets)

		api.GET("/catalog", handler.ListCatalog)
		api.POST("/catalog", handler.CreateCatalogItem)
		api.DELETE("/catalog/:id", handler.DeleteCatalogItem)

		api.GET("/scenarios", handler.ListScenarios)
		api.POST("/scenarios", handler.CreateScenario)
		api.GET("/scenarios/:id", handler.GetScenario)
		api.PUT("/scenarios/:id", handler.SaveScenario)
		api.DELETE("/scenarios/:id", handler.DeleteScenario)

		api.POST("/scenarios/:id/ops", handler.ApplyOperation)
		api.POST("/scenarios/:id/placement/check", handler.CheckPlacement)
		api.GET("/scenarios/:id/highlights", handler.GetHighlights)
		api.GET("/scenarios/:id/events", handler.ListEvents)
		api.GET("/scenarios/:id/lint", handler.LintScenario)
		api.GET("/scenarios/:id/export", handler.ExportScenario)
	}

	r.GET("/ws/scenarios/:id", handler.HandleWebSocket)

	return r
}
