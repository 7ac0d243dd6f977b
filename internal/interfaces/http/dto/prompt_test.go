package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPromptRequest_ToRemote(t *testing.T) {
	req := PromptRequest{SessionCookie: "legacy", Prompt: "hi", TimeoutMs: 10}
	assert.Equal(t, "legacy", req.ToRemote().Credential)

	req.Credential = "current"
	assert.Equal(t, "current", req.ToRemote().Credential)
	assert.Equal(t, 10, req.ToRemote().TimeoutMs)
}
