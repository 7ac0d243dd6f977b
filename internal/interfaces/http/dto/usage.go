package dto

import (
	"manuscript-gen/internal/domain/entity"
)

// PromptEventResponse 单条用量记录
type PromptEventResponse struct {
	ID            string `json:"id"`
	Stage         string `json:"stage"`
	PromptChars   int    `json:"prompt_chars"`
	ResponseChars int    `json:"response_chars"`
	DurationMs    int64  `json:"duration_ms"`
	Status        string `json:"status"`
	Error         string `json:"error,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// ToPromptEventResponse 转换
func ToPromptEventResponse(e *entity.PromptEvent) *PromptEventResponse {
	return &PromptEventResponse{
		ID:            e.ID,
		Stage:         string(e.Stage),
		PromptChars:   e.PromptChars,
		ResponseChars: e.ResponseChars,
		DurationMs:    e.DurationMs,
		Status:        string(e.Status),
		Error:         e.Error,
		CreatedAt:     e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
