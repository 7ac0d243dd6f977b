package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadFrom_DefaultsWithoutFiles(t *testing.T) {
	t.Setenv(CredentialEnv, "")

	cfg, err := LoadFrom(t.TempDir(), "test")
	require.NoError(t, err)

	assert.Equal(t, "manuscript-gen", cfg.App.Name)
	assert.Equal(t, "test", cfg.App.Env)
	assert.Equal(t, "session", cfg.Session.CookieName)
	assert.Equal(t, 3*time.Second, cfg.Session.ProbeDelay)
	assert.Equal(t, 5*time.Minute, cfg.Session.LoginTimeout)
	assert.Equal(t, 120*time.Second, cfg.Interaction.ArrivalTimeout)
	assert.Equal(t, 30*time.Second, cfg.Interaction.StreamingTimeout)
	assert.Equal(t, 2*time.Second, cfg.Interaction.SettleDelay)
	assert.Equal(t, 10, cfg.Interaction.MinResponseLength)
	assert.Equal(t, "\n\n---\n\n", cfg.Pipeline.ChapterSeparator)
	assert.Equal(t, 30*time.Second, cfg.Pipeline.ItemBackoff)

	require.Len(t, cfg.Locators.Input, 3)
	assert.Equal(t, LocatorSpec{Kind: "testid", Value: "composer-input"}, cfg.Locators.Input[0])
	assert.Equal(t, `div[contenteditable="true"]`, cfg.Locators.Input[2].Value)
	require.Len(t, cfg.Locators.Message, 4)
	assert.Equal(t, "testid-prefix", cfg.Locators.Message[0].Kind)
}

func TestLoadFrom_EnvOverlayAndExpansion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", `
session:
  credential: ${TEST_MANUSCRIPT_COOKIE:fallback}
pipeline:
  chapter_delay: 7s
locators:
  input:
    - kind: css
      value: "#prompt"
`)
	writeFile(t, dir, "config.staging.yaml", `
pipeline:
  chapter_delay: 1s
`)
	t.Setenv("TEST_MANUSCRIPT_COOKIE", "abc123")

	cfg, err := LoadFrom(dir, "staging")
	require.NoError(t, err)

	assert.Equal(t, "abc123", cfg.Session.Credential)
	assert.Equal(t, time.Second, cfg.Pipeline.ChapterDelay)
	assert.Equal(t, 3*time.Second, cfg.Pipeline.StageDelay)
	require.Len(t, cfg.Locators.Input, 1)
	assert.Equal(t, "#prompt", cfg.Locators.Input[0].Value)
}

func TestLoadFrom_CredentialFallsBackToEnv(t *testing.T) {
	t.Setenv(CredentialEnv, "from-env")

	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Session.Credential)
	assert.Equal(t, "development", cfg.App.Env)
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("EXPAND_SET", "value")

	tests := []struct {
		in   string
		want string
	}{
		{"a: ${EXPAND_SET}", "a: value"},
		{"a: ${EXPAND_SET:other}", "a: value"},
		{"a: ${EXPAND_UNSET_X:def}", "a: def"},
		{"a: ${EXPAND_UNSET_X:}", "a: "},
		{"a: ${EXPAND_UNSET_X}", "a: ${EXPAND_UNSET_X}"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, expandEnv(tt.in), tt.in)
	}
}
