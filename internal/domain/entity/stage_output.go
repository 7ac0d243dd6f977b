package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Stage 流水线阶段
type Stage string

const (
	StageOutline  Stage = "outline"
	StageTitles   Stage = "titles"
	StageCombined Stage = "combined"
	StageFinal    Stage = "final"

	chapterPrefix = "chapter-"
)

// ChapterStage 返回第 n 章的阶段名（两位补零）
func ChapterStage(n int) Stage {
	return Stage(fmt.Sprintf("%s%02d", chapterPrefix, n))
}

// ChapterNumber 解析章节阶段的序号
func (s Stage) ChapterNumber() (int, bool) {
	rest, ok := strings.CutPrefix(string(s), chapterPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// IsChapter 是否为章节阶段
func (s Stage) IsChapter() bool {
	_, ok := s.ChapterNumber()
	return ok
}

// StageOutput 阶段产物，以 (WorkItemID, Stage) 为键
type StageOutput struct {
	WorkItemID string    `json:"work_item_id" gorm:"primaryKey;type:varchar(128)"`
	Stage      Stage     `json:"stage" gorm:"primaryKey;type:varchar(32)"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName 表名
func (StageOutput) TableName() string {
	return "stage_outputs"
}

// ChapterDraft 章节草稿
type ChapterDraft struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	Content string `json:"content"`
}
