// Package jsonfile 提供基于本地 JSON 文件的工作队列存储
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"manuscript-gen/internal/domain/entity"
	"manuscript-gen/internal/domain/repository"
	apperrors "manuscript-gen/pkg/errors"
	"manuscript-gen/pkg/tracer"
)

// QueueRepository 单写者的 JSON 文件队列，写入不做原子替换
type QueueRepository struct {
	path string
}

var _ repository.WorkQueueRepository = (*QueueRepository)(nil)

// NewQueueRepository 创建队列存储
func NewQueueRepository(path string) *QueueRepository {
	return &QueueRepository{path: path}
}

// Path 队列文件路径
func (r *QueueRepository) Path() string {
	return r.path
}

// Load 读取并解析队列文件
func (r *QueueRepository) Load(ctx context.Context) (*entity.WorkQueue, error) {
	_, span := tracer.Start(ctx, "jsonfile.QueueRepository.Load")
	defer span.End()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.ErrQueuePersistence.WithDetail("queue file not found: " + r.path).WithError(err)
		}
		return nil, apperrors.ErrQueuePersistence.WithDetail("read " + r.path).WithError(err)
	}

	var q entity.WorkQueue
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, apperrors.ErrQueuePersistence.WithDetail("decode " + r.path).WithError(err)
	}
	return &q, nil
}

// Save 整体重写队列文件
func (r *QueueRepository) Save(ctx context.Context, queue *entity.WorkQueue) error {
	_, span := tracer.Start(ctx, "jsonfile.QueueRepository.Save")
	defer span.End()

	data, err := json.MarshalIndent(queue, "", "  ")
	if err != nil {
		return apperrors.ErrQueuePersistence.WithDetail("encode queue").WithError(err)
	}
	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.ErrQueuePersistence.WithDetail("create " + dir).WithError(err)
		}
	}
	if err := os.WriteFile(r.path, append(data, '\n'), 0o644); err != nil {
		return apperrors.ErrQueuePersistence.WithDetail("write " + r.path).WithError(err)
	}
	return nil
}
