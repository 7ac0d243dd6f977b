// Package eino 为提示模板渲染注册 Eino 全局回调
package eino

import (
	"context"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/prompt"
	cbtemplate "github.com/cloudwego/eino/utils/callbacks"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"manuscript-gen/pkg/logger"
	"manuscript-gen/pkg/metrics"
)

// startTimeKey 在 OnStart 与 OnEnd 之间传递开始时间
type startTimeKey struct{}

// newPromptCallbackHandler 模板渲染回调：计数、字符数与追踪
func newPromptCallbackHandler() *cbtemplate.PromptCallbackHandler {
	return &cbtemplate.PromptCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *prompt.CallbackInput) context.Context {
			ctx = context.WithValue(ctx, startTimeKey{}, time.Now())

			attrs := []attribute.KeyValue{}
			if info != nil {
				attrs = append(attrs,
					attribute.String("eino.name", info.Name),
					attribute.String("eino.type", info.Type),
				)
			}
			if input != nil {
				attrs = append(attrs, attribute.Int("prompt.variables", len(input.Variables)))
			}
			ctx, _ = otel.Tracer("eino").Start(ctx, "prompt.render", trace.WithAttributes(attrs...))
			return ctx
		},

		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *prompt.CallbackOutput) context.Context {
			chars := renderedChars(output)
			metrics.TemplateRenderTotal.WithLabelValues("success").Inc()
			metrics.TemplateRenderChars.Observe(float64(chars))

			logger.Debug(ctx, "prompt rendered", "chars", chars, "elapsed_ms", elapsedMs(ctx))

			span := trace.SpanFromContext(ctx)
			span.SetAttributes(attribute.Int("prompt.chars", chars))
			span.End()
			return ctx
		},

		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			metrics.TemplateRenderTotal.WithLabelValues("error").Inc()

			span := trace.SpanFromContext(ctx)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.End()
			return ctx
		},
	}
}

func renderedChars(out *prompt.CallbackOutput) int {
	if out == nil {
		return 0
	}
	n := 0
	for _, m := range out.Result {
		if m != nil {
			n += len([]rune(m.Content))
		}
	}
	return n
}

func elapsedMs(ctx context.Context) int64 {
	start, ok := ctx.Value(startTimeKey{}).(time.Time)
	if !ok || start.IsZero() {
		return 0
	}
	return time.Since(start).Milliseconds()
}
