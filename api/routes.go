package api

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/killallgit/recipe-api/api/extraction"
	"github.com/killallgit/recipe-api/api/health"
	"github.com/killallgit/recipe-api/api/recipes"
	"github.com/killallgit/recipe-api/api/shares"
	"github.com/killallgit/recipe-api/api/types"
	"github.com/killallgit/recipe-api/api/version"
	_ "github.com/killallgit/recipe-api/docs/swagger"
)

// RouteOptions controls the optional parts of the route table
type RouteOptions struct {
	MetricsEnabled bool
	MetricsPath    string
}

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, opts RouteOptions, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	if deps == nil {
		return errors.New("dependencies are nil")
	}

	// Register public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	// Register Swagger documentation route
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if opts.MetricsEnabled && deps.Metrics != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		engine.GET(path, gin.WrapH(deps.Metrics.Handler()))
	}

	// Setup 404 handler
	engine.NoRoute(NotFoundHandler())

	// API v1 routes
	v1 := engine.Group("/api/v1")

	// Shares replace the pending payload, so they get the tightest limit (1 req/s, burst of 3)
	sharesGroup := v1.Group("/shares")
	sharesGroup.Use(PerClientRateLimit("shares", rateLimiters, cleanupStop, cleanupInitialized, 1, 3))
	shares.RegisterRoutes(sharesGroup, deps)

	// Extraction state routes with general rate limiting (10 req/s, burst of 20)
	extractionGroup := v1.Group("/extraction")
	extractionGroup.Use(PerClientRateLimit("extraction", rateLimiters, cleanupStop, cleanupInitialized, 10, 20))
	extraction.RegisterRoutes(extractionGroup, deps)

	// Recipe routes with general rate limiting (10 req/s, burst of 20)
	recipesGroup := v1.Group("/recipes")
	recipesGroup.Use(PerClientRateLimit("recipes", rateLimiters, cleanupStop, cleanupInitialized, 10, 20))
	recipes.RegisterRoutes(recipesGroup, deps)

	return nil
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
