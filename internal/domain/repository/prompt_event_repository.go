package repository

import (
	"context"

	"manuscript-gen/internal/domain/entity"
)

// PromptEventRepository 提示用量台账
type PromptEventRepository interface {
	Create(ctx context.Context, event *entity.PromptEvent) error

	// ListByWorkItem 按时间顺序分页列出某工作项的事件
	ListByWorkItem(ctx context.Context, workItemID string, pagination Pagination) (*PagedResult[*entity.PromptEvent], error)

	// Summarize 按工作项汇总；workItemID 为空时汇总全部工作项
	Summarize(ctx context.Context, workItemID string) ([]*entity.UsageSummary, error)
}
