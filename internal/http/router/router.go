// Package router assembles the gin engine: shared middleware, health
// endpoint, and the /api/v1 group that domain modules mount their routes on.
package router

import (
	"net/http"

	apphttp "gateway_manager_api/internal/http"
	"gateway_manager_api/platform/config"
	"gateway_manager_api/platform/httpkit"
	"gateway_manager_api/platform/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Config combines the config interfaces needed by the router.
type Config interface {
	config.HTTPConfig
	config.RateLimitConfig
}

// New builds the gin engine and registers every module's routes.
func New(cfg Config, log *logger.Logger, health apphttp.HealthChecker, modules ...apphttp.Module) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(log))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(corsMiddleware(cfg))

	limiter := httpkit.NewIPRateLimiter(rate.Limit(cfg.GetRateLimitPerSecond()), cfg.GetRateLimitBurst(), log)
	engine.Use(limiter.RateLimit())

	engine.GET("/api/health", func(c *gin.Context) {
		if err := health.Ping(c.Request.Context()); err != nil {
			httpkit.Error(c, http.StatusServiceUnavailable, "Service Unavailable", "database is not reachable")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	ctx := &apphttp.RouterContext{
		Engine: engine,
		V1:     engine.Group("/api/v1"),
	}

	for _, m := range modules {
		m.RegisterRoutes(ctx)
		log.Info("routes registered", "module", m.Name())
	}

	return engine
}

func corsMiddleware(cfg Config) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", httpkit.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{httpkit.RequestIDHeader}

	if cfg.GetCORSAllowAll() || len(cfg.GetCORSOrigins()) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.GetCORSOrigins()
	}

	return cors.New(corsConfig)
}
