package browser_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manuscript-gen/internal/browser"
	"manuscript-gen/internal/browser/browsertest"
	"manuscript-gen/internal/config"
	apperrors "manuscript-gen/pkg/errors"
)

func TestLocator_Selector(t *testing.T) {
	assert.Equal(t, `[data-testid="composer-input"]`, browser.TestID("composer-input").Selector())
	assert.Equal(t, `[data-testid^="message"]`, browser.TestIDPrefix("message").Selector())
	assert.Equal(t, `.typing-indicator`, browser.CSS(".typing-indicator").Selector())
}

func TestParseLocator(t *testing.T) {
	tests := []struct {
		name    string
		spec    config.LocatorSpec
		want    browser.Locator
		wantErr bool
	}{
		{"css default kind", config.LocatorSpec{Value: "textarea"}, browser.CSS("textarea"), false},
		{"testid", config.LocatorSpec{Kind: "TestID", Value: "x"}, browser.TestID("x"), false},
		{"prefix", config.LocatorSpec{Kind: "testid-prefix", Value: "message"}, browser.TestIDPrefix("message"), false},
		{"empty value", config.LocatorSpec{Kind: "css"}, browser.Locator{}, true},
		{"unknown kind", config.LocatorSpec{Kind: "xpath", Value: "//div"}, browser.Locator{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := browser.ParseLocator(tt.spec)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, apperrors.ErrInvalidParam))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSet_FirstFallsBackInPriorityOrder(t *testing.T) {
	page := browsertest.New(`<div class="c"></div>`)
	set := browser.NewSet("input", 0, browser.CSS(".a"), browser.CSS(".b"), browser.CSS(".c"))

	got, err := set.First(context.Background(), page, 5*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, browser.CSS(".c"), got)
}

func TestSet_FirstPrefersEarlierMatch(t *testing.T) {
	page := browsertest.New(`<div class="b"></div><div class="c"></div>`)
	set := browser.NewSet("input", 0, browser.CSS(".a"), browser.CSS(".b"), browser.CSS(".c"))

	got, err := set.First(context.Background(), page, 5*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, browser.CSS(".b"), got)
}

func TestSet_FirstNoneMatches(t *testing.T) {
	page := browsertest.New(`<p>nothing here</p>`)
	set := browser.NewSet("prompt input", 20*time.Millisecond, browser.CSS(".a"), browser.CSS(".b"))

	_, err := set.First(context.Background(), page, 5*time.Millisecond)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrLocatorNotFound))
	assert.Contains(t, err.Error(), "prompt input")
}

func TestSet_FirstWaitsPerLocator(t *testing.T) {
	page := browsertest.New(`<body></body>`)
	page.After(30*time.Millisecond, func(doc *goquery.Selection) {
		doc.Find("body").AppendHtml(`<div class="a"></div>`)
	})
	t.Cleanup(page.Stop)

	set := browser.NewSet("input", time.Second, browser.CSS(".a"), browser.CSS(".b"))
	got, err := set.First(context.Background(), page, 5*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, browser.CSS(".a"), got)
}

func TestSet_TotalSumsAllLocators(t *testing.T) {
	page := browsertest.New(`
		<div data-testid="typing-indicator"></div>
		<span class="typing-indicator"></span>
		<span class="is-typing"></span>`)
	set := browser.NewSet("typing", 0,
		browser.TestID("typing-indicator"),
		browser.CSS(".typing-indicator"),
		browser.CSS(`[class*="typing"]`),
	)

	n, err := set.Total(context.Background(), page)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestSet_LastTextUsesFirstMatchingLocator(t *testing.T) {
	page := browsertest.New(`
		<div class="prose">prose text</div>
		<div data-testid="message-1">first</div>
		<div data-testid="message-2">second</div>`)
	set := browser.NewSet("message", 0, browser.TestIDPrefix("message"), browser.CSS(`div[class*="prose"]`))

	text, ok, err := set.LastText(context.Background(), page)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", text)
}
