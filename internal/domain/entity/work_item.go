// Package entity 定义领域实体
package entity

import (
	"time"

	apperrors "manuscript-gen/pkg/errors"
)

// WorkStatus 工作项状态
type WorkStatus string

const (
	WorkStatusIdea       WorkStatus = "idea"
	WorkStatusInProgress WorkStatus = "in_progress"
	WorkStatusCompleted  WorkStatus = "completed"
)

// rank 状态只允许向前推进
func (s WorkStatus) rank() int {
	switch s {
	case WorkStatusIdea:
		return 0
	case WorkStatusInProgress:
		return 1
	case WorkStatusCompleted:
		return 2
	default:
		return -1
	}
}

// Valid 是否为已知状态
func (s WorkStatus) Valid() bool {
	return s.rank() >= 0
}

// Eligible 是否可被流水线选中
func (s WorkStatus) Eligible() bool {
	return s == WorkStatusIdea || s == WorkStatusInProgress
}

// WorkItem 书稿工作项
type WorkItem struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Genre           string     `json:"genre"`
	Tone            string     `json:"tone"`
	TargetWordCount int        `json:"targetWordCount"`
	ChapterCount    int        `json:"chapterCount"`
	Description     string     `json:"description"`
	Status          WorkStatus `json:"status"`
	StartedAt       *time.Time `json:"startedAt,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
}

// ChapterTarget 每章目标字数（整除）
func (w *WorkItem) ChapterTarget() int {
	if w.ChapterCount <= 0 {
		return 0
	}
	return w.TargetWordCount / w.ChapterCount
}

// Transition 推进状态。in_progress -> in_progress 视为续跑
func (w *WorkItem) Transition(next WorkStatus, now time.Time) error {
	if !next.Valid() {
		return apperrors.ErrInvalidTransition.WithDetail("unknown status " + string(next))
	}
	cur := w.Status
	if cur == "" {
		cur = WorkStatusIdea
	}
	if cur == WorkStatusCompleted || next.rank() < cur.rank() {
		return apperrors.ErrInvalidTransition.WithDetail(string(cur) + " -> " + string(next))
	}

	switch next {
	case WorkStatusInProgress:
		if w.StartedAt == nil {
			t := now
			w.StartedAt = &t
		}
	case WorkStatusCompleted:
		t := now
		w.CompletedAt = &t
	}
	w.Status = next
	return nil
}

// Start 标记开始处理
func (w *WorkItem) Start(now time.Time) error {
	return w.Transition(WorkStatusInProgress, now)
}

// Complete 标记完成
func (w *WorkItem) Complete(now time.Time) error {
	return w.Transition(WorkStatusCompleted, now)
}

// Reset 外部重置为 idea，是离开 completed 的唯一途径
func (w *WorkItem) Reset() {
	w.Status = WorkStatusIdea
	w.StartedAt = nil
	w.CompletedAt = nil
}
