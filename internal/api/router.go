// Package api wires the HTTP surface of the chart service.
package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"plancharts/internal/api/handlers"
	"plancharts/internal/api/middleware"
	"plancharts/internal/api/models"
	"plancharts/internal/charts"
	"plancharts/internal/config"
	"plancharts/internal/host"
	"plancharts/internal/metrics"
)

// Deps are the components the router serves.
type Deps struct {
	Server  config.ServerConfig
	Host    *host.Host
	Catalog *charts.Catalog
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// NewRouter builds the gin engine. It does not call gin.SetMode.
func NewRouter(d Deps) *gin.Engine {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(d.Server.CORSOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Metrics != nil {
		router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	chartHandler := handlers.NewChartHandler(d.Host, d.Catalog, logger)

	api := router.Group("/api/v1")
	{
		api.GET("/domains", chartHandler.ListDomains)
		api.POST("/charts/:domain", chartHandler.Render)
		api.GET("/charts/:domain/defaults", chartHandler.Defaults)
	}

	serveStatic(router, d.Server.StaticDir, logger)
	return router
}

// serveStatic serves a built single page app from dir when it exists.
// Unknown non-API paths get index.html.
func serveStatic(router *gin.Engine, dir string, logger *zap.Logger) {
	notFound := func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.NewError("NOT_FOUND", "Not found"))
	}
	if dir == "" {
		router.NoRoute(notFound)
		return
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		logger.Info("static directory not found, skipping static file serving", zap.String("dir", dir))
		router.NoRoute(notFound)
		return
	}

	router.Static("/assets", filepath.Join(dir, "assets"))
	router.StaticFile("/favicon.ico", filepath.Join(dir, "favicon.ico"))
	index := filepath.Join(dir, "index.html")
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			notFound(c)
			return
		}
		c.File(index)
	})
	logger.Info("serving static files", zap.String("dir", dir))
}
