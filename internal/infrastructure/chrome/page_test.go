package chrome

import (
	"testing"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp/kb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manuscript-gen/internal/config"
)

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, kb.Enter, normalizeKey("Enter"))
	assert.Equal(t, kb.Enter, normalizeKey(" return "))
	assert.Equal(t, kb.Escape, normalizeKey("esc"))
	assert.Equal(t, "x", normalizeKey("x"))
}

func TestSameSite(t *testing.T) {
	assert.Equal(t, network.CookieSameSiteLax, sameSite("Lax"))
	assert.Equal(t, network.CookieSameSiteStrict, sameSite("strict"))
	assert.Equal(t, network.CookieSameSite(""), sameSite(""))
}

func TestJSStringQuotesSelectors(t *testing.T) {
	got, err := jsString(`textarea[placeholder*="Talk to Claude"]`)
	require.NoError(t, err)
	assert.Equal(t, `"textarea[placeholder*=\"Talk to Claude\"]"`, got)
}

func TestLauncher_Remote(t *testing.T) {
	assert.False(t, NewLauncher(config.BrowserConfig{}).Remote())
	assert.True(t, NewLauncher(config.BrowserConfig{CDPURL: "ws://127.0.0.1:9222"}).Remote())
}
