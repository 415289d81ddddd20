package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"plating-line-backend/config"
	"plating-line-backend/internal/mw"
	"plating-line-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, sim Simulator, cfg config.ServerConfig, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), mw.Logger(logger))

	// Quick previews are cached per project and dropped on every write.
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl)

	// Only the expensive endpoints are throttled.
	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst, cfg.RequestIPHeader)

	handler := NewHandler(s, sim, cacheStore, logger)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	project := r.Group("/api/projects/:" + mw.ProjectParam)
	{
		project.GET("/production-goal", handler.GetGoal)
		project.PUT("/production-goal", handler.PutGoal)

		project.GET("/line", handler.GetLine)
		project.PUT("/line", handler.PutLine)

		simulation := project.Group("/simulation")
		simulation.GET("/parameters", handler.GetParameters)
		simulation.PUT("/parameters", handler.PutParameters)
		simulation.GET("/quick", rateLimiter, caching, handler.Quick)
		simulation.POST("/run", rateLimiter, handler.Run)
		simulation.GET("/results", handler.ListResults)
		simulation.GET("/results/:run_id", handler.GetResult)
	}

	return r
}
