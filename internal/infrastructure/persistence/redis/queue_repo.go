package redis

import (
	"context"
	"encoding/json"

	"manuscript-gen/internal/domain/entity"
	"manuscript-gen/internal/domain/repository"
	apperrors "manuscript-gen/pkg/errors"
)

// QueueRepository 把整个工作队列存为单个 JSON 值
type QueueRepository struct {
	client *Client
	key    string
}

var _ repository.WorkQueueRepository = (*QueueRepository)(nil)

// NewQueueRepository 创建队列存储
func NewQueueRepository(client *Client, key string) *QueueRepository {
	if key == "" {
		key = "manuscript:queue"
	}
	return &QueueRepository{client: client, key: key}
}

// Load 读取队列；与文件存储一致，键不存在返回 QueuePersistenceError
func (r *QueueRepository) Load(ctx context.Context) (*entity.WorkQueue, error) {
	data, err := r.client.Get(ctx, r.key)
	if err != nil {
		if IsNil(err) {
			return nil, apperrors.ErrQueuePersistence.WithDetail("queue key not found: " + r.key).WithError(err)
		}
		return nil, apperrors.ErrQueuePersistence.WithDetail("read " + r.key).WithError(err)
	}

	var q entity.WorkQueue
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, apperrors.ErrQueuePersistence.WithDetail("decode " + r.key).WithError(err)
	}
	return &q, nil
}

// Save 整体覆盖
func (r *QueueRepository) Save(ctx context.Context, queue *entity.WorkQueue) error {
	data, err := json.Marshal(queue)
	if err != nil {
		return apperrors.ErrQueuePersistence.WithDetail("encode queue").WithError(err)
	}
	if err := r.client.Set(ctx, r.key, data, 0); err != nil {
		return apperrors.ErrQueuePersistence.WithDetail("write " + r.key).WithError(err)
	}
	return nil
}
