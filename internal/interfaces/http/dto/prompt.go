package dto

import (
	"time"

	"manuscript-gen/internal/application/remote"
)

// PromptRequest POST /v1/prompt 请求体
type PromptRequest struct {
	Credential    string `json:"credential"`
	// SessionCookie 旧字段名，credential 为空时使用
	SessionCookie string `json:"sessionCookie,omitempty"`
	Prompt        string `json:"prompt"`
	TimeoutMs     int    `json:"timeoutMs"`
}

// ToRemote 转换为执行器请求
func (r PromptRequest) ToRemote() remote.Request {
	credential := r.Credential
	if credential == "" {
		credential = r.SessionCookie
	}
	return remote.Request{
		Credential: credential,
		Prompt:     r.Prompt,
		TimeoutMs:  r.TimeoutMs,
	}
}

// PromptResponse 远程调用结果
type PromptResponse struct {
	Success   bool      `json:"success"`
	Response  string    `json:"response,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// FromRemote 转换执行结果
func FromRemote(r remote.Response) PromptResponse {
	return PromptResponse{
		Success:   r.Success,
		Response:  r.Response,
		Error:     r.Error,
		Timestamp: r.Timestamp,
	}
}
