// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"manuscript-gen/internal/domain/entity"
	"manuscript-gen/internal/domain/repository"
	apperrors "manuscript-gen/pkg/errors"
)

// ArtifactRepository 阶段产物表，(work_item_id, stage) 唯一
type ArtifactRepository struct {
	client *Client
}

var _ repository.ArtifactRepository = (*ArtifactRepository)(nil)

func NewArtifactRepository(client *Client) *ArtifactRepository {
	return &ArtifactRepository{client: client}
}

// Save 写入产物，同一阶段重复写入时覆盖内容
func (r *ArtifactRepository) Save(ctx context.Context, out *entity.StageOutput) (string, error) {
	ctx, span := tracer.Start(ctx, "postgres.ArtifactRepository.Save")
	defer span.End()
	span.SetAttributes(
		attribute.String("work_item.id", out.WorkItemID),
		attribute.String("stage", string(out.Stage)),
	)

	db := getDB(ctx, r.client.db)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "work_item_id"}, {Name: "stage"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "created_at"}),
	}).Create(out).Error
	if err != nil {
		span.RecordError(err)
		return "", apperrors.ErrStorage.WithDetail("save stage output").WithError(err)
	}
	return Location(out.WorkItemID, out.Stage), nil
}

// Get 读取产物
func (r *ArtifactRepository) Get(ctx context.Context, workItemID string, stage entity.Stage) (*entity.StageOutput, error) {
	ctx, span := tracer.Start(ctx, "postgres.ArtifactRepository.Get")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var out entity.StageOutput
	if err := db.First(&out, "work_item_id = ? AND stage = ?", workItemID, stage).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound.WithDetail(Location(workItemID, stage))
		}
		span.RecordError(err)
		return nil, apperrors.ErrStorage.WithDetail("get stage output").WithError(err)
	}
	return &out, nil
}

// ListByWorkItem 按写入时间列出某部书稿的全部产物
func (r *ArtifactRepository) ListByWorkItem(ctx context.Context, workItemID string) ([]*entity.StageOutput, error) {
	ctx, span := tracer.Start(ctx, "postgres.ArtifactRepository.ListByWorkItem")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var outs []*entity.StageOutput
	if err := db.Where("work_item_id = ?", workItemID).Order("created_at ASC").Find(&outs).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list stage outputs: %w", err)
	}
	return outs, nil
}

// Location 产物定位串
func Location(workItemID string, stage entity.Stage) string {
	return fmt.Sprintf("postgres://stage_outputs/%s/%s", workItemID, stage)
}
