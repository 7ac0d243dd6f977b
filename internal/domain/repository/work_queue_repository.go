package repository

import (
	"context"

	"manuscript-gen/internal/domain/entity"
)

// WorkQueueRepository 工作队列存储。每次状态变更都整体读取、内存修改、整体写回
type WorkQueueRepository interface {
	// Load 读取完整队列
	Load(ctx context.Context) (*entity.WorkQueue, error)

	// Save 整体覆盖写回
	Save(ctx context.Context, queue *entity.WorkQueue) error
}
