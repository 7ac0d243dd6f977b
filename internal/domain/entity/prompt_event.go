package entity

import "time"

// PromptStatus 单次提示结果
type PromptStatus string

const (
	PromptStatusOK     PromptStatus = "ok"
	PromptStatusFailed PromptStatus = "failed"
)

// PromptEvent 一次提示提交的用量记录
type PromptEvent struct {
	ID            string       `json:"id"`
	WorkItemID    string       `json:"work_item_id"`
	Stage         Stage        `json:"stage"`
	PromptChars   int          `json:"prompt_chars"`
	ResponseChars int          `json:"response_chars"`
	DurationMs    int64        `json:"duration_ms"`
	Status        PromptStatus `json:"status"`
	Error         string       `json:"error,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

// UsageSummary 用量汇总
type UsageSummary struct {
	WorkItemID    string `json:"work_item_id"`
	Prompts       int    `json:"prompts"`
	Failures      int    `json:"failures"`
	PromptChars   int64  `json:"prompt_chars"`
	ResponseChars int64  `json:"response_chars"`
	DurationMs    int64  `json:"duration_ms"`
}
