package browser

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	apperrors "manuscript-gen/pkg/errors"
	"manuscript-gen/pkg/logger"
	"manuscript-gen/pkg/metrics"
	"manuscript-gen/pkg/tracer"
)

// ClientOptions 交互参数
type ClientOptions struct {
	Input   Set
	Typing  Set
	Message Set

	PollInterval      time.Duration
	ArrivalTimeout    time.Duration
	StreamingTimeout  time.Duration
	SettleDelay       time.Duration
	MinResponseLength int
	SubmitKey         string
}

// Client 在已登录的页面上提交提示并提取完整回复。不做重试
type Client struct {
	page  Page
	opts  ClientOptions
	sleep func(context.Context, time.Duration) error
}

// NewClient 创建交互客户端
func NewClient(page Page, opts ClientOptions) *Client {
	if opts.SubmitKey == "" {
		opts.SubmitKey = "Enter"
	}
	return &Client{page: page, opts: opts, sleep: Sleep}
}

// WithSleep 替换稳定期等待实现，返回同一客户端
func (c *Client) WithSleep(fn func(context.Context, time.Duration) error) *Client {
	c.sleep = fn
	return c
}

// WithArrivalTimeout 返回使用不同到达超时的副本
func (c *Client) WithArrivalTimeout(d time.Duration) *Client {
	cp := *c
	cp.opts.ArrivalTimeout = d
	return &cp
}

// SubmitPrompt 定位输入框、写入并提交提示，等待回复结束后返回最后一条消息文本
func (c *Client) SubmitPrompt(ctx context.Context, text string) (string, error) {
	ctx, span := tracer.Start(ctx, "browser.SubmitPrompt")
	defer span.End()
	span.SetAttributes(attribute.Int("prompt.chars", len(text)))

	start := time.Now()
	resp, err := c.submit(ctx, text)
	status := promptStatus(err)
	metrics.PromptTotal.WithLabelValues(status).Inc()
	metrics.PromptDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		return "", err
	}
	metrics.ResponseChars.Observe(float64(len(resp)))
	span.SetAttributes(attribute.Int("response.chars", len(resp)))
	return resp, nil
}

func (c *Client) submit(ctx context.Context, text string) (string, error) {
	input, err := c.opts.Input.First(ctx, c.page, c.opts.PollInterval)
	if err != nil {
		return "", interactionError(ctx, err, "locate input")
	}

	baseline, err := c.messageCounts(ctx)
	if err != nil {
		return "", pageError(ctx, err, "count messages")
	}

	if err := c.page.Fill(ctx, input.Selector(), text); err != nil {
		return "", pageError(ctx, err, "fill input")
	}
	if err := c.page.PressKey(ctx, c.opts.SubmitKey); err != nil {
		return "", pageError(ctx, err, "submit")
	}
	logger.Debug(ctx, "prompt submitted", "input", input.String(), "chars", len(text))

	// 1. 等待新消息出现
	err = WaitUntil(ctx, c.opts.PollInterval, c.opts.ArrivalTimeout, func(ctx context.Context) (bool, error) {
		return c.arrived(ctx, baseline, text)
	})
	if err != nil {
		return "", interactionError(ctx, err, "response arrival")
	}

	// 2. 等待所有输入中指示器消失
	err = WaitUntil(ctx, c.opts.PollInterval, c.opts.StreamingTimeout, func(ctx context.Context) (bool, error) {
		n, err := c.opts.Typing.Total(ctx, c.page)
		return n == 0, err
	})
	if err != nil {
		return "", interactionError(ctx, err, "response streaming")
	}

	// 3. 稳定期
	if err := c.sleep(ctx, c.opts.SettleDelay); err != nil {
		return "", err
	}

	resp, ok, err := c.opts.Message.LastText(ctx, c.page)
	if err != nil {
		return "", pageError(ctx, err, "extract response")
	}
	resp = strings.TrimSpace(resp)
	if !ok || resp == "" {
		return "", apperrors.ErrExtractionFailure.WithDetail("no message content")
	}
	return resp, nil
}

func (c *Client) messageCounts(ctx context.Context) ([]int, error) {
	counts := make([]int, len(c.opts.Message.Locators))
	for i, l := range c.opts.Message.Locators {
		n, err := c.page.Count(ctx, l.Selector())
		if err != nil {
			return nil, err
		}
		counts[i] = n
	}
	return counts, nil
}

// arrived 任一消息策略出现了超出基线的节点，且最后一个节点有足够长度并且不是回显的提示
func (c *Client) arrived(ctx context.Context, baseline []int, prompt string) (bool, error) {
	prompt = strings.TrimSpace(prompt)
	for i, l := range c.opts.Message.Locators {
		texts, err := c.page.Texts(ctx, l.Selector())
		if err != nil {
			return false, err
		}
		if len(texts) <= baseline[i] {
			continue
		}
		last := strings.TrimSpace(texts[len(texts)-1])
		if len(last) > c.opts.MinResponseLength && last != prompt {
			return true, nil
		}
	}
	return false, nil
}

// interactionError 将等待超时映射为 ResponseTimeout，定位失败保持 LocatorNotFound
func interactionError(ctx context.Context, err error, phase string) error {
	switch {
	case apperrors.IsInteraction(err):
		return err
	case IsTimeout(err):
		return apperrors.ErrResponseTimeout.WithDetail(phase)
	default:
		return pageError(ctx, err, phase)
	}
}

func promptStatus(err error) string {
	if err == nil {
		return "ok"
	}
	if !apperrors.IsInteraction(err) {
		return "error"
	}
	switch apperrors.AsAppError(err).Code {
	case apperrors.CodeLocatorNotFound:
		return "locator_not_found"
	case apperrors.CodeResponseTimeout:
		return "response_timeout"
	default:
		return "extraction_failure"
	}
}
