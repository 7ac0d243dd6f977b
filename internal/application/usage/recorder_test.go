package usage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manuscript-gen/internal/domain/entity"
	"manuscript-gen/internal/domain/repository"
)

type memoryRepo struct {
	events []*entity.PromptEvent
}

func (m *memoryRepo) Create(_ context.Context, e *entity.PromptEvent) error {
	m.events = append(m.events, e)
	return nil
}

func (m *memoryRepo) ListByWorkItem(_ context.Context, id string, p repository.Pagination) (*repository.PagedResult[*entity.PromptEvent], error) {
	var out []*entity.PromptEvent
	for _, e := range m.events {
		if e.WorkItemID == id {
			out = append(out, e)
		}
	}
	return repository.NewPagedResult(out, int64(len(out)), p), nil
}

func (m *memoryRepo) Summarize(context.Context, string) ([]*entity.UsageSummary, error) {
	return nil, nil
}

func TestRecorder_Record(t *testing.T) {
	repo := &memoryRepo{}
	r := NewRecorder(repo)
	r.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	require.NoError(t, r.Record(context.Background(), Input{
		WorkItemID: " book-1 ", Stage: entity.StageOutline,
		PromptChars: 120, ResponseChars: 4000, Duration: 1500 * time.Millisecond,
	}))
	require.NoError(t, r.Record(context.Background(), Input{
		WorkItemID: "book-1", Stage: entity.ChapterStage(2),
		PromptChars: 300, Err: errors.New("response timeout"),
	}))

	require.Len(t, repo.events, 2)
	ok := repo.events[0]
	assert.NotEmpty(t, ok.ID)
	assert.Equal(t, "book-1", ok.WorkItemID)
	assert.Equal(t, entity.PromptStatusOK, ok.Status)
	assert.EqualValues(t, 1500, ok.DurationMs)
	assert.Equal(t, 2025, ok.CreatedAt.Year())

	failed := repo.events[1]
	assert.Equal(t, entity.PromptStatusFailed, failed.Status)
	assert.Equal(t, "response timeout", failed.Error)
	assert.Equal(t, entity.Stage("chapter-02"), failed.Stage)

	page, err := r.Events(context.Background(), "book-1", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
}

func TestRecorder_Validation(t *testing.T) {
	r := NewRecorder(&memoryRepo{})
	assert.Error(t, r.Record(context.Background(), Input{}))
	assert.Error(t, r.Record(context.Background(), Input{WorkItemID: "x", PromptChars: -1}))

	var nilRecorder *Recorder
	assert.NoError(t, nilRecorder.Record(context.Background(), Input{}))
}
