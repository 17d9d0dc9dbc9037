package router

import (
	"context"
	"net/http"
	"time"

	apphttp "familyplaces_backend/internal/http"
	"familyplaces_backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// New builds the gin engine with shared middleware and mounts every module.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.Metrics())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(cors.New(corsConfig(app.Config)))

	engine.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/api/ready", readyHandler(app.Health, app.Upstreams))
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api")
	protected := api.Group("")
	protected.Use(httpkit.AuthRequired(app.Config))

	rateLimit := func(c *gin.Context) { c.Next() }
	if app.RateLimiter != nil {
		rateLimit = httpkit.RateLimit(app.RateLimiter, app.Logger)
	}

	routerCtx := &apphttp.RouterContext{
		Engine:          engine,
		API:             api,
		Protected:       protected,
		Config:          app.Config,
		PublicRateLimit: rateLimit,
	}

	for _, module := range app.Modules {
		module.RegisterRoutes(routerCtx)
		app.Logger.Debug("module routes registered", "module", module.Name())
	}

	return engine
}

func corsConfig(cfg apphttp.RouterConfig) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", httpkit.HeaderRequestID},
		ExposeHeaders:    []string{httpkit.HeaderRequestID},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}
	if cfg.GetCORSAllowAll() {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.GetCORSOrigins()
	}
	return corsCfg
}

func readyHandler(health apphttp.HealthChecker, upstreams []apphttp.UpstreamStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		states := make(map[string]string, len(upstreams))
		for _, u := range upstreams {
			name, state := u.UpstreamState()
			states[name] = state
		}

		if health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := health.Ping(ctx); err != nil {
				_ = c.Error(err)
				httpkit.Error(c, http.StatusServiceUnavailable, "database unavailable", gin.H{"upstreams": states})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "upstreams": states})
	}
}
