// Package messaging 提供基于 Redis Stream 的事件发布
package messaging

import (
	"encoding/json"
	"time"
)

// Message 消息结构
type Message struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	WorkItemID string            `json:"work_item_id"`
	Payload    json.RawMessage   `json:"payload"`
	Metadata   map[string]string `json:"metadata"`
	CreatedAt  time.Time         `json:"created_at"`
}

// NewMessage 创建新消息
func NewMessage(id, msgType, workItemID string, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Message{
		ID:         id,
		Type:       msgType,
		WorkItemID: workItemID,
		Payload:    payloadBytes,
		Metadata:   make(map[string]string),
		CreatedAt:  time.Now(),
	}, nil
}

// SetMetadata 设置元数据
func (m *Message) SetMetadata(key, value string) {
	if m.Metadata == nil {
		m.Metadata = make(map[string]string)
	}
	m.Metadata[key] = value
}

// UnmarshalPayload 解析消息载荷
func (m *Message) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(m.Payload, v)
}

// Stream 流定义
type Stream string

// StreamManuscriptEvents 书稿生命周期事件流
const StreamManuscriptEvents Stream = "stream:manuscript:events"

// 事件类型
const (
	EventManuscriptCompleted = "manuscript.completed"
	EventManuscriptFailed    = "manuscript.failed"
)

// ManuscriptEvent 书稿事件载荷
type ManuscriptEvent struct {
	RunID          string `json:"run_id"`
	WorkItemID     string `json:"work_item_id"`
	Title          string `json:"title"`
	Stage          string `json:"stage,omitempty"`
	Error          string `json:"error,omitempty"`
	Location       string `json:"location,omitempty"`
	ChaptersOK     int    `json:"chapters_ok"`
	ChaptersFailed int    `json:"chapters_failed"`
	WordCount      int    `json:"word_count,omitempty"`
	DurationMs     int64  `json:"duration_ms"`
}
