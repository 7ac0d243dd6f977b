// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker 依赖项健康检查
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler 健康检查处理器
type HealthHandler struct {
	version string
	checks  map[string]HealthChecker
}

// NewHealthHandler 创建健康检查处理器；checks 中为 nil 的依赖视为未启用
func NewHealthHandler(version string, checks map[string]HealthChecker) *HealthHandler {
	return &HealthHandler{version: version, checks: checks}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type readinessCheck struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

type readinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*readinessCheck `json:"checks,omitempty"`
}

// Health 存活检查
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Version: h.version})
}

// Ready 就绪检查：已配置的依赖全部可用才就绪
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	ready := true
	checks := make(map[string]*readinessCheck, len(h.checks))
	for name, checker := range h.checks {
		if checker == nil {
			checks[name] = &readinessCheck{Status: "disabled"}
			continue
		}
		start := time.Now()
		err := checker.HealthCheck(ctx)
		check := &readinessCheck{Status: "ok", LatencyMs: time.Since(start).Milliseconds()}
		if err != nil {
			check.Status = "error"
			check.Error = err.Error()
			ready = false
		}
		checks[name] = check
	}

	resp := readinessResponse{Status: "ok", Checks: checks}
	if !ready {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
