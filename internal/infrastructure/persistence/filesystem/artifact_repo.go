// Package filesystem 提供按目录布局存放阶段产物的实现
package filesystem

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"manuscript-gen/internal/domain/entity"
	"manuscript-gen/internal/domain/repository"
	"manuscript-gen/internal/infrastructure/render"
	apperrors "manuscript-gen/pkg/errors"
	"manuscript-gen/pkg/logger"
	"manuscript-gen/pkg/tracer"
)

// ArtifactRepository 产物目录布局：
//
//	outlines/<id>-outline.md
//	drafts/<id>/_chapter-titles.md
//	drafts/<id>/chapter-NN.md
//	drafts/<id>/_combined-draft.md
//	completed/<id>.md
type ArtifactRepository struct {
	root     string
	renderer *render.Renderer
}

var _ repository.ArtifactRepository = (*ArtifactRepository)(nil)

// Option 可选项
type Option func(*ArtifactRepository)

// WithHTMLExport 完成稿额外导出 completed/<id>.html
func WithHTMLExport(r *render.Renderer) Option {
	return func(a *ArtifactRepository) {
		a.renderer = r
	}
}

// NewArtifactRepository 创建产物存储
func NewArtifactRepository(root string, opts ...Option) *ArtifactRepository {
	a := &ArtifactRepository{root: root}
	for _, o := range opts {
		o(a)
	}
	return a
}

// PathFor 返回产物的相对路径
func PathFor(workItemID string, stage entity.Stage) string {
	switch {
	case stage == entity.StageOutline:
		return filepath.Join("outlines", workItemID+"-outline.md")
	case stage == entity.StageTitles:
		return filepath.Join("drafts", workItemID, "_chapter-titles.md")
	case stage == entity.StageCombined:
		return filepath.Join("drafts", workItemID, "_combined-draft.md")
	case stage == entity.StageFinal:
		return filepath.Join("completed", workItemID+".md")
	default:
		return filepath.Join("drafts", workItemID, string(stage)+".md")
	}
}

// Save 写入产物，已有文件直接覆盖
func (a *ArtifactRepository) Save(ctx context.Context, out *entity.StageOutput) (string, error) {
	ctx, span := tracer.Start(ctx, "filesystem.ArtifactRepository.Save")
	defer span.End()
	span.SetAttributes(
		attribute.String("work_item.id", out.WorkItemID),
		attribute.String("stage", string(out.Stage)),
	)

	if err := validateID(out.WorkItemID); err != nil {
		return "", err
	}
	path := filepath.Join(a.root, PathFor(out.WorkItemID, out.Stage))
	if err := writeFile(path, []byte(out.Content)); err != nil {
		span.RecordError(err)
		return "", err
	}

	if out.Stage == entity.StageFinal && a.renderer != nil {
		html, err := a.renderer.Document(out.WorkItemID, out.Content)
		if err != nil {
			// HTML 导出失败不影响 markdown 成稿
			logger.Warn(ctx, "html export failed", "error", err.Error())
		} else if err := writeFile(strings.TrimSuffix(path, ".md")+".html", html); err != nil {
			logger.Warn(ctx, "html export failed", "error", err.Error())
		}
	}
	return path, nil
}

// Get 读取产物
func (a *ArtifactRepository) Get(ctx context.Context, workItemID string, stage entity.Stage) (*entity.StageOutput, error) {
	_, span := tracer.Start(ctx, "filesystem.ArtifactRepository.Get")
	defer span.End()

	if err := validateID(workItemID); err != nil {
		return nil, err
	}
	path := filepath.Join(a.root, PathFor(workItemID, stage))
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.ErrNotFound.WithDetail(path)
		}
		return nil, apperrors.ErrStorage.WithDetail("read " + path).WithError(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, apperrors.ErrStorage.WithDetail("stat " + path).WithError(err)
	}
	return &entity.StageOutput{
		WorkItemID: workItemID,
		Stage:      stage,
		Content:    string(data),
		CreatedAt:  info.ModTime(),
	}, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperrors.ErrStorage.WithDetail("create " + filepath.Dir(path)).WithError(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.ErrStorage.WithDetail("write " + path).WithError(err)
	}
	return nil
}

func validateID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return apperrors.ErrInvalidParam.WithDetail("invalid work item id: " + id)
	}
	return nil
}
