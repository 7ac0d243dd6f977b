package messaging

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage("m1", EventManuscriptCompleted, "book", &ManuscriptEvent{WorkItemID: "book", ChaptersOK: 4})
	require.NoError(t, err)
	msg.SetMetadata("run_id", "r1")

	var evt ManuscriptEvent
	require.NoError(t, msg.UnmarshalPayload(&evt))
	assert.Equal(t, 4, evt.ChaptersOK)
	assert.Equal(t, "r1", msg.Metadata["run_id"])
}

func TestNewProducer_Defaults(t *testing.T) {
	p := NewProducer(nil, "", 0)
	assert.Equal(t, StreamManuscriptEvents, p.stream)
	assert.EqualValues(t, 10000, p.maxLen)
}

func TestProducer_PublishManuscriptEvent(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	ctx := context.Background()
	require.NoError(t, rdb.Ping(ctx).Err())
	t.Cleanup(func() {
		rdb.FlushDB(ctx)
		_ = rdb.Close()
	})

	p := NewProducer(rdb, "test:events", 100)
	require.NoError(t, p.PublishManuscriptEvent(ctx, EventManuscriptFailed, &ManuscriptEvent{
		RunID: "r1", WorkItemID: "book", Stage: "outline", Error: "timeout",
	}))

	entries, err := rdb.XRange(ctx, "test:events", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, EventManuscriptFailed, entries[0].Values["type"])

	var msg Message
	require.NoError(t, json.Unmarshal([]byte(entries[0].Values["data"].(string)), &msg))
	assert.Equal(t, "book", msg.WorkItemID)
	assert.Equal(t, "r1", msg.Metadata["run_id"])
}
