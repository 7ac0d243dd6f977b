// Package remote 实现单次提示的远程调用：每次请求独立打开页面、登录、提交、关闭
package remote

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/semaphore"

	"manuscript-gen/internal/browser"
	"manuscript-gen/internal/config"
	"manuscript-gen/pkg/logger"
	"manuscript-gen/pkg/metrics"
	"manuscript-gen/pkg/tracer"
)

const defaultTimeout = 120 * time.Second

// PageLauncher 打开新页面，返回页面与释放函数
type PageLauncher interface {
	NewPage(ctx context.Context) (browser.Page, func() error, error)
}

// Request 单次提示请求
type Request struct {
	Credential string `json:"credential"`
	Prompt     string `json:"prompt"`
	TimeoutMs  int    `json:"timeoutMs"`
}

// Response 调用结果。失败不返回 error，以 Success=false 表示
type Response struct {
	Success   bool      `json:"success"`
	Response  string    `json:"response,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Executor struct {
	launcher       PageLauncher
	opts           browser.Options
	sem            *semaphore.Weighted
	defaultTimeout time.Duration

	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

func NewExecutor(launcher PageLauncher, opts browser.Options, cfg config.RemoteConfig) *Executor {
	limit := int64(cfg.MaxConcurrent)
	if limit <= 0 {
		limit = 1
	}
	timeout := cfg.DefaultTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	// 远端请求无人可登录，凭据无效时立即失败
	opts.Session.NoInteractiveLogin = true
	return &Executor{
		launcher:       launcher,
		opts:           opts,
		sem:            semaphore.NewWeighted(limit),
		defaultTimeout: timeout,
		now:            time.Now,
		sleep:          browser.Sleep,
	}
}

// WithSleep 替换等待实现
func (e *Executor) WithSleep(fn func(context.Context, time.Duration) error) *Executor {
	e.sleep = fn
	return e
}

// Execute 执行一次提示
func (e *Executor) Execute(ctx context.Context, req Request) Response {
	ctx, span := tracer.Start(ctx, "remote.Execute")
	defer span.End()
	span.SetAttributes(attribute.Int("prompt.chars", len(req.Prompt)))

	if strings.TrimSpace(req.Prompt) == "" {
		return e.fail(ctx, fmt.Errorf("prompt is required"))
	}
	// 远端无法人工登录，必须携带凭据
	if strings.TrimSpace(req.Credential) == "" {
		return e.fail(ctx, fmt.Errorf("credential is required"))
	}

	if err := e.sem.Acquire(ctx, 1); err != nil {
		return e.fail(ctx, err)
	}
	defer e.sem.Release(1)
	metrics.RemoteInFlight.Inc()
	defer metrics.RemoteInFlight.Dec()

	timeout := e.defaultTimeout
	if req.TimeoutMs > 0 {
		timeout = time.Duration(req.TimeoutMs) * time.Millisecond
	}

	text, err := e.run(ctx, req, timeout)
	if err != nil {
		span.RecordError(err)
		return e.fail(ctx, err)
	}
	return Response{Success: true, Response: text, Timestamp: e.now().UTC()}
}

func (e *Executor) run(ctx context.Context, req Request, timeout time.Duration) (string, error) {
	page, release, err := e.launcher.NewPage(ctx)
	if err != nil {
		return "", err
	}

	mgr := browser.NewSessionManager(page, e.opts.Session,
		browser.WithRelease(release),
		browser.WithSessionSleep(e.sleep),
	)
	sess, err := mgr.Open(ctx, req.Credential)
	if err != nil {
		if relErr := release(); relErr != nil {
			logger.Warn(ctx, "release page failed", "error", relErr.Error())
		}
		return "", err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			logger.Warn(ctx, "close session failed", "error", err.Error())
		}
	}()

	client := browser.NewClient(sess.Page(), e.opts.Client).
		WithSleep(e.sleep).
		WithArrivalTimeout(timeout)
	return client.SubmitPrompt(ctx, req.Prompt)
}

func (e *Executor) fail(ctx context.Context, err error) Response {
	logger.Warn(ctx, "remote prompt failed", "error", err.Error())
	return Response{Success: false, Error: err.Error(), Timestamp: e.now().UTC()}
}
