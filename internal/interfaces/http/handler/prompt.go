package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"manuscript-gen/internal/application/remote"
	"manuscript-gen/internal/interfaces/http/dto"
	"manuscript-gen/pkg/logger"
)

// PromptExecutor 单次提示执行
type PromptExecutor interface {
	Execute(ctx context.Context, req remote.Request) remote.Response
}

// PromptHandler 远程提示接口
type PromptHandler struct {
	executor PromptExecutor
}

func NewPromptHandler(executor PromptExecutor) *PromptHandler {
	return &PromptHandler{executor: executor}
}

// Execute POST /v1/prompt
// 执行结果（含失败）均以 200 返回，success 字段区分；仅请求体无法解析时返回 400
func (h *PromptHandler) Execute(c *gin.Context) {
	var req dto.PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.PromptResponse{
			Success:   false,
			Error:     "invalid request body: " + err.Error(),
			Timestamp: time.Now().UTC(),
		})
		return
	}

	ctx := c.Request.Context()
	logger.Info(ctx, "remote prompt received", "prompt_chars", len(req.Prompt), "timeout_ms", req.TimeoutMs)

	resp := h.executor.Execute(ctx, req.ToRemote())
	c.JSON(http.StatusOK, dto.FromRemote(resp))
}
