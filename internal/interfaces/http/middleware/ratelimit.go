// Package middleware 提供 HTTP 中间件
package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"manuscript-gen/pkg/logger"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	// Enabled 是否启用限流
	Enabled bool
	// RequestsPerSecond 每秒请求数
	RequestsPerSecond int
	// Burst 突发容量
	Burst int
	// KeyPrefix Redis Key 前缀
	KeyPrefix string
}

// RateLimiter 限流器接口
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit 限流中间件，按客户端 IP 与路径计数
func RateLimit(cfg RateLimitConfig, limiter RateLimiter) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 2
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "ratelimit"
	}

	return func(c *gin.Context) {
		key := cfg.KeyPrefix + ":" + c.ClientIP() + ":" + c.Request.URL.Path

		allowed, err := limiter.Allow(c.Request.Context(), key, cfg.RequestsPerSecond, time.Second)
		if err != nil {
			// 限流器故障时放行
			logger.Warn(c.Request.Context(), "rate limiter unavailable", "error", err.Error())
			c.Next()
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success":  false,
				"error":    "rate limit exceeded",
				"trace_id": c.GetString("trace_id"),
			})
			return
		}

		c.Next()
	}
}

// LocalRateLimiter 进程内令牌桶，每个 key 一个桶
type LocalRateLimiter struct {
	mu      sync.Mutex
	burst   int
	buckets map[string]*rate.Limiter
}

// NewLocalRateLimiter 创建进程内限流器
func NewLocalRateLimiter(burst int) *LocalRateLimiter {
	return &LocalRateLimiter{burst: burst, buckets: make(map[string]*rate.Limiter)}
}

// Allow 实现 RateLimiter。limit/window 换算为令牌速率
func (l *LocalRateLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	l.mu.Lock()
	lim, ok := l.buckets[key]
	if !ok {
		burst := l.burst
		if burst <= 0 {
			burst = limit
		}
		lim = rate.NewLimiter(rate.Limit(float64(limit)/window.Seconds()), burst)
		l.buckets[key] = lim
	}
	l.mu.Unlock()
	return lim.Allow(), nil
}
