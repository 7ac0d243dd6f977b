package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("messaging")

// Producer 消息生产者
type Producer struct {
	client redis.Cmdable
	stream Stream
	maxLen int64
}

// NewProducer 创建消息生产者
func NewProducer(client redis.Cmdable, stream string, maxLen int64) *Producer {
	if maxLen <= 0 {
		maxLen = 10000
	}
	if stream == "" {
		stream = string(StreamManuscriptEvents)
	}
	return &Producer{
		client: client,
		stream: Stream(stream),
		maxLen: maxLen,
	}
}

// Publish 发布消息
func (p *Producer) Publish(ctx context.Context, msg *Message) (string, error) {
	ctx, span := tracer.Start(ctx, "producer.Publish",
		trace.WithAttributes(
			attribute.String("stream", string(p.stream)),
			attribute.String("message.id", msg.ID),
			attribute.String("message.type", msg.Type),
		))
	defer span.End()

	data, err := json.Marshal(msg)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	result, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: string(p.stream),
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"type": msg.Type,
			"data": string(data),
		},
	}).Result()
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to publish message: %w", err)
	}

	span.SetAttributes(attribute.String("stream.message_id", result))
	return result, nil
}

// PublishManuscriptEvent 发布书稿完成或失败事件
func (p *Producer) PublishManuscriptEvent(ctx context.Context, eventType string, evt *ManuscriptEvent) error {
	msg, err := NewMessage(uuid.NewString(), eventType, evt.WorkItemID, evt)
	if err != nil {
		return err
	}
	msg.SetMetadata("run_id", evt.RunID)
	msg.SetMetadata("chapters_ok", strconv.Itoa(evt.ChaptersOK))

	_, err = p.Publish(ctx, msg)
	return err
}
