package filesystem

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manuscript-gen/internal/domain/entity"
	"manuscript-gen/internal/infrastructure/render"
	apperrors "manuscript-gen/pkg/errors"
)

func TestPathFor(t *testing.T) {
	tests := []struct {
		stage entity.Stage
		want  string
	}{
		{entity.StageOutline, "outlines/book-outline.md"},
		{entity.StageTitles, "drafts/book/_chapter-titles.md"},
		{entity.ChapterStage(3), "drafts/book/chapter-03.md"},
		{entity.StageCombined, "drafts/book/_combined-draft.md"},
		{entity.StageFinal, "completed/book.md"},
	}
	for _, tt := range tests {
		assert.Equal(t, filepath.FromSlash(tt.want), PathFor("book", tt.stage), string(tt.stage))
	}
}

func TestArtifactRepository_SaveOverwritesAndGet(t *testing.T) {
	root := t.TempDir()
	repo := NewArtifactRepository(root)
	ctx := context.Background()

	out := &entity.StageOutput{WorkItemID: "book", Stage: entity.ChapterStage(1), Content: "first", CreatedAt: time.Now()}
	loc, err := repo.Save(ctx, out)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "drafts", "book", "chapter-01.md"), loc)

	out.Content = "second"
	_, err = repo.Save(ctx, out)
	require.NoError(t, err)

	got, err := repo.Get(ctx, "book", entity.ChapterStage(1))
	require.NoError(t, err)
	assert.Equal(t, "second", got.Content)

	_, err = repo.Get(ctx, "book", entity.ChapterStage(2))
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestArtifactRepository_FinalExportsHTML(t *testing.T) {
	root := t.TempDir()
	repo := NewArtifactRepository(root, WithHTMLExport(render.NewRenderer()))

	_, err := repo.Save(context.Background(), &entity.StageOutput{
		WorkItemID: "book", Stage: entity.StageFinal, Content: "# Book\n\ntext\n",
	})
	require.NoError(t, err)

	html, err := os.ReadFile(filepath.Join(root, "completed", "book.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "<h1")

	// 非终稿不导出
	_, err = repo.Save(context.Background(), &entity.StageOutput{WorkItemID: "book", Stage: entity.StageOutline, Content: "# O"})
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "outlines", "book-outline.html"))
	assert.True(t, os.IsNotExist(err))
}

func TestArtifactRepository_RejectsPathTraversal(t *testing.T) {
	repo := NewArtifactRepository(t.TempDir())
	_, err := repo.Save(context.Background(), &entity.StageOutput{WorkItemID: "../etc", Stage: entity.StageFinal})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidParam))
}
