package entity

import (
	"encoding/json"
)

// WorkQueue 有序工作队列
type WorkQueue struct {
	Items []*WorkItem `json:"items"`
}

// legacyItem 旧版 ideas 文件中的条目，章节数字段名为 chapters
type legacyItem struct {
	WorkItem
	Chapters *int `json:"chapters,omitempty"`
}

// UnmarshalJSON 同时接受 items 与旧版 manuscripts 布局
func (q *WorkQueue) UnmarshalJSON(data []byte) error {
	var raw struct {
		Items       []legacyItem `json:"items"`
		Manuscripts []legacyItem `json:"manuscripts"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	src := raw.Items
	if len(src) == 0 {
		src = raw.Manuscripts
	}

	q.Items = make([]*WorkItem, 0, len(src))
	for i := range src {
		item := src[i].WorkItem
		if item.ChapterCount == 0 && src[i].Chapters != nil {
			item.ChapterCount = *src[i].Chapters
		}
		if item.Status == "" {
			item.Status = WorkStatusIdea
		}
		q.Items = append(q.Items, &item)
	}
	return nil
}

// NextEligible 按队列顺序返回第一个 idea 或 in_progress 的条目
func (q *WorkQueue) NextEligible() *WorkItem {
	for _, item := range q.Items {
		if item.Status.Eligible() {
			return item
		}
	}
	return nil
}

// Find 按 ID 查找
func (q *WorkQueue) Find(id string) *WorkItem {
	for _, item := range q.Items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// Counts 按状态统计
func (q *WorkQueue) Counts() map[WorkStatus]int {
	counts := make(map[WorkStatus]int, 3)
	for _, item := range q.Items {
		counts[item.Status]++
	}
	return counts
}
