package repository

import (
	"context"

	"manuscript-gen/internal/domain/entity"
)

// ArtifactRepository 阶段产物存储，按 (work item, stage) 无条件覆盖
type ArtifactRepository interface {
	// Save 保存产物，返回存储位置（路径或行键）
	Save(ctx context.Context, output *entity.StageOutput) (string, error)

	// Get 读取产物，不存在时返回 ErrNotFound
	Get(ctx context.Context, workItemID string, stage entity.Stage) (*entity.StageOutput, error)
}
