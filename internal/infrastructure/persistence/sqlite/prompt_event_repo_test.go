package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manuscript-gen/internal/domain/entity"
	"manuscript-gen/internal/domain/repository"
)

func seed(t *testing.T, repo *PromptEventRepository) {
	t.Helper()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	events := []*entity.PromptEvent{
		{WorkItemID: "a", Stage: entity.StageOutline, PromptChars: 100, ResponseChars: 900, DurationMs: 1000, Status: entity.PromptStatusOK},
		{WorkItemID: "a", Stage: entity.ChapterStage(1), PromptChars: 200, ResponseChars: 0, DurationMs: 500, Status: entity.PromptStatusFailed, Error: "timeout"},
		{WorkItemID: "b", Stage: entity.StageOutline, PromptChars: 50, ResponseChars: 10, DurationMs: 10, Status: entity.PromptStatusOK},
		{WorkItemID: "a", Stage: entity.ChapterStage(2), PromptChars: 300, ResponseChars: 3000, DurationMs: 2000, Status: entity.PromptStatusOK},
	}
	for i, e := range events {
		e.ID = fmt.Sprintf("evt-%d", i)
		e.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(context.Background(), e))
	}
}

func TestPromptEventRepository_ListByWorkItem(t *testing.T) {
	repo, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	seed(t, repo)

	page, err := repo.ListByWorkItem(context.Background(), "a", repository.NewPagination(1, 2))
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 2)
	assert.Equal(t, entity.StageOutline, page.Items[0].Stage)
	assert.Equal(t, entity.PromptStatusFailed, page.Items[1].Status)
	assert.Equal(t, "timeout", page.Items[1].Error)

	page, err = repo.ListByWorkItem(context.Background(), "a", repository.NewPagination(2, 2))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, entity.ChapterStage(2), page.Items[0].Stage)
}

func TestPromptEventRepository_Summarize(t *testing.T) {
	repo, err := Open(filepath.Join(t.TempDir(), "nested", "usage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	seed(t, repo)

	all, err := repo.Summarize(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].WorkItemID)
	assert.Equal(t, 3, all[0].Prompts)
	assert.Equal(t, 1, all[0].Failures)
	assert.EqualValues(t, 600, all[0].PromptChars)
	assert.EqualValues(t, 3900, all[0].ResponseChars)
	assert.EqualValues(t, 3500, all[0].DurationMs)

	one, err := repo.Summarize(context.Background(), "b")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, 0, one[0].Failures)
}
