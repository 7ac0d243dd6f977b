package main

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manuscript-gen/internal/domain/entity"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func TestWriteQueueTable_AlignsWithColour(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = prev })

	items := []*entity.WorkItem{
		{ID: "a", Title: "First", ChapterCount: 5, TargetWordCount: 10000, Status: entity.WorkStatusIdea},
		{ID: "bb", Title: "Second", ChapterCount: 12, TargetWordCount: 60000, Status: entity.WorkStatusInProgress},
		{ID: "ccc", Title: "Third", ChapterCount: 3, TargetWordCount: 3000, Status: entity.WorkStatusCompleted},
	}

	var buf bytes.Buffer
	require.NoError(t, writeQueueTable(&buf, items))
	assert.True(t, ansi.MatchString(buf.String()))

	lines := strings.Split(strings.TrimRight(ansi.ReplaceAllString(buf.String(), ""), "\n"), "\n")
	require.Len(t, lines, 4)

	col := strings.Index(lines[0], "STATUS")
	require.Positive(t, col)
	for i, line := range lines[1:] {
		require.Greater(t, len(line), col, line)
		assert.Equal(t, string(items[i].Status), line[col:], line)
	}
}
