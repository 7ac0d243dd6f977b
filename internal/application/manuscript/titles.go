package manuscript

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"manuscript-gen/internal/domain/entity"
)

var titleLine = regexp.MustCompile(`^\d+\.\s*(.+)$`)

// ExtractTitles 解析编号列表形式的章节标题，最多保留 limit 个。
// 不足 limit 时原样返回，不补齐；limit <= 0 时不返回任何标题
func ExtractTitles(text string, limit int) []string {
	if limit <= 0 {
		return nil
	}
	var titles []string
	for _, line := range strings.Split(text, "\n") {
		if len(titles) >= limit {
			break
		}
		m := titleLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		title := strings.TrimSpace(m[1])
		if title == "" {
			continue
		}
		titles = append(titles, title)
	}
	return titles
}

// TitleBlock 成稿头部
func TitleBlock(item *entity.WorkItem, generated time.Time) string {
	return fmt.Sprintf("# %s\n**Genre:** %s\n**Tone:** %s\n**Generated:** %s\n\n---\n\n",
		item.Title, item.Genre, item.Tone, generated.UTC().Format(time.RFC3339))
}

// Combine 按章节序号拼接草稿
func Combine(chapters []entity.ChapterDraft, separator string) string {
	parts := make([]string, 0, len(chapters))
	for _, ch := range chapters {
		parts = append(parts, ch.Content)
	}
	return strings.Join(parts, separator)
}
