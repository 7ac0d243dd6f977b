package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCredentialPrefix(t *testing.T) {
	assert.Equal(t, "sk-ant-sid01-abcdefg...", credentialPrefix("sk-ant-REDACTED"))
	assert.Equal(t, "abc...", credentialPrefix("abcdef"))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", preview("short", 10))
	assert.Equal(t, "héll...", preview("héllo world", 4))
}
