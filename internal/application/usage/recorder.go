// Package usage 记录每次提示提交的用量
package usage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"manuscript-gen/internal/domain/entity"
	"manuscript-gen/internal/domain/repository"
)

// Input 单次提示的用量
type Input struct {
	WorkItemID    string
	Stage         entity.Stage
	PromptChars   int
	ResponseChars int
	Duration      time.Duration
	Err           error
}

type Recorder struct {
	repo repository.PromptEventRepository
	now  func() time.Time
}

func NewRecorder(repo repository.PromptEventRepository) *Recorder {
	return &Recorder{repo: repo, now: time.Now}
}

// Record 写入台账。未配置台账时为空操作
func (r *Recorder) Record(ctx context.Context, in Input) error {
	if r == nil || r.repo == nil {
		return nil
	}
	if strings.TrimSpace(in.WorkItemID) == "" {
		return fmt.Errorf("usage event without work item")
	}
	if in.PromptChars < 0 || in.ResponseChars < 0 {
		return fmt.Errorf("invalid usage sizes")
	}

	evt := &entity.PromptEvent{
		ID:            uuid.NewString(),
		WorkItemID:    strings.TrimSpace(in.WorkItemID),
		Stage:         in.Stage,
		PromptChars:   in.PromptChars,
		ResponseChars: in.ResponseChars,
		DurationMs:    in.Duration.Milliseconds(),
		Status:        entity.PromptStatusOK,
		CreatedAt:     r.now().UTC(),
	}
	if in.Err != nil {
		evt.Status = entity.PromptStatusFailed
		evt.Error = in.Err.Error()
	}
	return r.repo.Create(ctx, evt)
}

// Summary 汇总用量
func (r *Recorder) Summary(ctx context.Context, workItemID string) ([]*entity.UsageSummary, error) {
	if r == nil || r.repo == nil {
		return nil, nil
	}
	return r.repo.Summarize(ctx, strings.TrimSpace(workItemID))
}

// Events 分页列出某工作项的事件
func (r *Recorder) Events(ctx context.Context, workItemID string, page, pageSize int) (*repository.PagedResult[*entity.PromptEvent], error) {
	if r == nil || r.repo == nil {
		return repository.NewPagedResult[*entity.PromptEvent](nil, 0, repository.NewPagination(page, pageSize)), nil
	}
	return r.repo.ListByWorkItem(ctx, workItemID, repository.NewPagination(page, pageSize))
}
