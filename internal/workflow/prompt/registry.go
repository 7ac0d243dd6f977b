// Package prompt 管理发送给会话界面的提示模板
package prompt

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"sync"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed templates/*.txt
var templatesFS embed.FS

type PromptID string

const (
	PromptOutlineV1       PromptID = "outline_v1"
	PromptChapterTitlesV1 PromptID = "chapter_titles_v1"
	PromptChapterV1       PromptID = "chapter_v1"
	PromptPolishV1        PromptID = "polish_v1"
	PromptProbeV1         PromptID = "probe_v1"
)

type Registry struct {
	mu    sync.RWMutex
	cache map[PromptID]einoprompt.ChatTemplate
}

func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[PromptID]einoprompt.ChatTemplate),
	}
}

func (r *Registry) ChatTemplate(id PromptID) (einoprompt.ChatTemplate, error) {
	if r == nil {
		return nil, fmt.Errorf("prompt registry is nil")
	}

	r.mu.RLock()
	if tpl, ok := r.cache[id]; ok {
		r.mu.RUnlock()
		return tpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.cache[id]; ok {
		return tpl, nil
	}

	path, err := resolvePromptFile(id)
	if err != nil {
		return nil, err
	}
	text, err := readEmbeddedText(path)
	if err != nil {
		return nil, err
	}

	// 网页界面只有一个输入框，模板只包含一条用户消息
	tpl := einoprompt.FromMessages(schema.FString, schema.UserMessage(text))
	r.cache[id] = tpl
	return tpl, nil
}

// Render 渲染模板为可直接提交的文本
func (r *Registry) Render(ctx context.Context, id PromptID, vars map[string]any) (string, error) {
	tpl, err := r.ChatTemplate(id)
	if err != nil {
		return "", err
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("format prompt %s: %w", id, err)
	}

	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m == nil || strings.TrimSpace(m.Content) == "" {
			continue
		}
		parts = append(parts, m.Content)
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("prompt %s rendered empty", id)
	}
	return strings.Join(parts, "\n\n"), nil
}

func resolvePromptFile(id PromptID) (string, error) {
	switch id {
	case PromptOutlineV1, PromptChapterTitlesV1, PromptChapterV1, PromptPolishV1, PromptProbeV1:
		return "templates/" + string(id) + ".txt", nil
	default:
		return "", fmt.Errorf("unknown prompt id: %s", id)
	}
}

func readEmbeddedText(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
