package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"manuscript-gen/internal/domain/entity"
	"manuscript-gen/internal/domain/repository"
	"manuscript-gen/internal/interfaces/http/dto"
	"manuscript-gen/pkg/logger"
)

// UsageReader 用量台账查询
type UsageReader interface {
	Summary(ctx context.Context, workItemID string) ([]*entity.UsageSummary, error)
	Events(ctx context.Context, workItemID string, page, pageSize int) (*repository.PagedResult[*entity.PromptEvent], error)
}

// UsageHandler 用量台账只读接口
type UsageHandler struct {
	usage UsageReader
}

func NewUsageHandler(usage UsageReader) *UsageHandler {
	return &UsageHandler{usage: usage}
}

// Summary GET /v1/usage
func (h *UsageHandler) Summary(c *gin.Context) {
	summaries, err := h.usage.Summary(c.Request.Context(), c.Query("item"))
	if err != nil {
		logger.Error(c.Request.Context(), "usage summary failed", err)
		dto.InternalError(c, "failed to summarize usage")
		return
	}
	if summaries == nil {
		summaries = []*entity.UsageSummary{}
	}
	dto.Success(c, summaries)
}

// Events GET /v1/usage/:id/events
func (h *UsageHandler) Events(c *gin.Context) {
	var uri dto.WorkItemIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		dto.BadRequest(c, "invalid work item id")
		return
	}
	page := dto.BindPage(c)

	result, err := h.usage.Events(c.Request.Context(), uri.ID, page.Page, page.PageSize)
	if err != nil {
		logger.Error(c.Request.Context(), "list usage events failed", err, "work_item_id", uri.ID)
		dto.InternalError(c, "failed to list usage events")
		return
	}

	items := make([]*dto.PromptEventResponse, 0, len(result.Items))
	for _, e := range result.Items {
		items = append(items, dto.ToPromptEventResponse(e))
	}
	dto.SuccessWithPage(c, items, &dto.PageMeta{
		Page:       result.Page,
		PageSize:   result.PageSize,
		Total:      result.Total,
		TotalPages: result.TotalPages,
	})
}
