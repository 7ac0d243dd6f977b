// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"manuscript-gen/internal/config"
	"manuscript-gen/internal/interfaces/http/handler"
	"manuscript-gen/internal/interfaces/http/middleware"
)

// Deps 路由依赖
type Deps struct {
	Executor handler.PromptExecutor
	Usage    handler.UsageReader
	Health   map[string]handler.HealthChecker
	// Limiter 为空时使用进程内令牌桶
	Limiter middleware.RateLimiter
}

// Router HTTP 路由器
type Router struct {
	engine *gin.Engine
	cfg    *config.Config
	deps   Deps
}

// New 创建新的路由器
func New(cfg *config.Config, deps Deps) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine: gin.New(),
		cfg:    cfg,
		deps:   deps,
	}
	r.setupMiddleware()
	r.setupRoutes()
	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}
}

func (r *Router) setupRoutes() {
	health := handler.NewHealthHandler(r.cfg.App.Version, r.deps.Health)
	r.engine.GET("/health", health.Health)
	r.engine.GET("/ready", health.Ready)

	if r.cfg.Observability.Metrics.Enabled {
		path := r.cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.engine.GET(path, gin.WrapH(promhttp.Handler()))
	}

	rl := r.cfg.Security.RateLimit
	limiter := r.deps.Limiter
	if limiter == nil {
		limiter = middleware.NewLocalRateLimiter(rl.Burst)
	}

	v1 := r.engine.Group("/v1")
	v1.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Enabled:           rl.Enabled,
		RequestsPerSecond: rl.RequestsPerSecond,
		Burst:             rl.Burst,
	}, limiter))

	var usage *handler.UsageHandler
	if r.deps.Usage != nil {
		usage = handler.NewUsageHandler(r.deps.Usage)
	}
	RegisterV1Routes(v1, handler.NewPromptHandler(r.deps.Executor), usage)
}
