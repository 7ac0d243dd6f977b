package prompt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RenderChapter(t *testing.T) {
	r := NewRegistry()

	text, err := r.Render(context.Background(), PromptChapterV1, map[string]any{
		"chapter_number":      3,
		"title":               "The Quiet Mind",
		"outline":             "An outline with {braces} inside",
		"chapter_title":       "Stillness",
		"chapter_word_target": 2000,
		"tone":                "reflective",
	})
	require.NoError(t, err)

	assert.Contains(t, text, `You are writing Chapter 3 of "The Quiet Mind".`)
	assert.Contains(t, text, "An outline with {braces} inside")
	assert.Contains(t, text, "Target word count: 2000 words")
	assert.Contains(t, text, `Start with "# Chapter 3: Stillness"`)
}

func TestRegistry_RenderTitles(t *testing.T) {
	text, err := NewRegistry().Render(context.Background(), PromptChapterTitlesV1, map[string]any{
		"outline":       "# Outline",
		"chapter_count": 5,
	})
	require.NoError(t, err)
	assert.Contains(t, text, "exactly 5 chapter titles")
	assert.Contains(t, text, "1. [Chapter Title]")
}

func TestRegistry_Errors(t *testing.T) {
	r := NewRegistry()

	_, err := r.Render(context.Background(), PromptID("missing"), nil)
	assert.Error(t, err)
}

func TestRegistry_CachesTemplates(t *testing.T) {
	r := NewRegistry()
	a, err := r.ChatTemplate(PromptOutlineV1)
	require.NoError(t, err)
	b, err := r.ChatTemplate(PromptOutlineV1)
	require.NoError(t, err)
	assert.Same(t, a, b)
}
