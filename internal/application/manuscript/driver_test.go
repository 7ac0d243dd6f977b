package manuscript

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manuscript-gen/internal/domain/entity"
)

type stubProcessor struct {
	results []*Result
	errs    []error
	calls   int
}

func (s *stubProcessor) ProcessNext(context.Context) (*Result, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i < len(s.results) {
		return s.results[i], nil
	}
	return nil, nil
}

func TestDriver_RunUntilExhausted(t *testing.T) {
	proc := &stubProcessor{results: []*Result{{RunID: "1"}, {RunID: "2"}}}
	var waits []time.Duration
	d := NewDriver(proc, 30*time.Second).WithSleep(func(_ context.Context, dur time.Duration) error {
		waits = append(waits, dur)
		return nil
	})

	n, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 3, proc.calls)
	assert.Equal(t, []time.Duration{30 * time.Second, 30 * time.Second}, waits)
}

func TestDriver_HaltsOnError(t *testing.T) {
	boom := errors.New("outline failed")
	proc := &stubProcessor{
		results: []*Result{{RunID: "1"}, nil, {RunID: "3"}},
		errs:    []error{nil, boom},
	}
	d := NewDriver(proc, 0).WithSleep(func(context.Context, time.Duration) error { return nil })

	n, err := d.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, proc.calls)
}

func TestDriver_EmptyQueue(t *testing.T) {
	proc := &stubProcessor{}
	d := NewDriver(proc, time.Hour)

	n, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	res, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestDriver_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	proc := &stubProcessor{results: []*Result{{RunID: "1"}, {RunID: "2"}}}
	d := NewDriver(proc, time.Hour).WithSleep(func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	})

	n, err := d.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, n)
}

// 端到端：连续模式处理完整个队列后停止
func TestDriver_WithOrchestrator(t *testing.T) {
	q := newMemQueue(book("a", entity.WorkStatusIdea), book("b", entity.WorkStatusIdea))
	o, _ := newTestOrchestrator(&scriptedPrompter{titles: "1. One\n2. Two"}, q, newMemArtifacts())
	d := NewDriver(o, time.Second).WithSleep(func(context.Context, time.Duration) error { return nil })

	n, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, entity.WorkStatusCompleted, q.item("a").Status)
	assert.Equal(t, entity.WorkStatusCompleted, q.item("b").Status)
}
