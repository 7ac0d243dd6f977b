package manuscript

import (
	"context"
	"time"

	"manuscript-gen/internal/browser"
	"manuscript-gen/pkg/logger"
)

// Processor 单步处理
type Processor interface {
	ProcessNext(ctx context.Context) (*Result, error)
}

// Driver 连续模式：逐条处理直到队列耗尽或出错
type Driver struct {
	proc    Processor
	backoff time.Duration
	sleep   func(context.Context, time.Duration) error
}

func NewDriver(proc Processor, backoff time.Duration) *Driver {
	return &Driver{proc: proc, backoff: backoff, sleep: browser.Sleep}
}

// WithSleep 替换等待函数
func (d *Driver) WithSleep(fn func(context.Context, time.Duration) error) *Driver {
	d.sleep = fn
	return d
}

// Run 循环处理，返回已完成的条目数。出错即停止，不跳到下一条
func (d *Driver) Run(ctx context.Context) (int, error) {
	processed := 0
	for {
		if err := ctx.Err(); err != nil {
			return processed, err
		}
		res, err := d.proc.ProcessNext(ctx)
		if err != nil {
			return processed, err
		}
		if res == nil {
			logger.Info(ctx, "queue exhausted", "processed", processed)
			return processed, nil
		}
		processed++

		logger.Info(ctx, "waiting before next manuscript", "backoff_ms", d.backoff.Milliseconds())
		if err := d.sleep(ctx, d.backoff); err != nil {
			return processed, err
		}
	}
}

// RunOnce 单条模式
func (d *Driver) RunOnce(ctx context.Context) (*Result, error) {
	res, err := d.proc.ProcessNext(ctx)
	if err != nil {
		return nil, err
	}
	if res == nil {
		logger.Info(ctx, "no eligible work items")
	}
	return res, nil
}
