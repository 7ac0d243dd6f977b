package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext_AddsKnownKeys(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "debug", "json")
	t.Cleanup(func() { Init("info", "json") })

	ctx := WithContext(context.Background(), WorkItemIDKey, "book-1")
	ctx = WithContext(ctx, StageKey, "outline")
	Error(ctx, "stage failed", errors.New("boom"), "attempt", 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "stage failed", rec["msg"])
	assert.Equal(t, "book-1", rec["work_item_id"])
	assert.Equal(t, "outline", rec["stage"])
	assert.Equal(t, "boom", rec["error"])
	assert.EqualValues(t, 1, rec["attempt"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "WARN", parseLevel("warning").String())
	assert.Equal(t, "INFO", parseLevel("nonsense").String())
}
