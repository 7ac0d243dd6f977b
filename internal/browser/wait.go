package browser

import (
	"context"
	"errors"
	"time"
)

// ErrWaitTimeout 条件在超时内未满足
var ErrWaitTimeout = errors.New("condition not met before timeout")

// Condition 等待条件
type Condition func(ctx context.Context) (bool, error)

// IsTimeout 是否为等待超时
func IsTimeout(err error) bool {
	return errors.Is(err, ErrWaitTimeout)
}

// WaitUntil 以 interval 轮询 cond，直到其为真、返回错误、超时或 ctx 结束。
// 首次检查立即执行
func WaitUntil(ctx context.Context, interval, timeout time.Duration, cond Condition) error {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ok, err := cond(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			// 超时前再确认一次，避免错过最后一个周期内的变化
			ok, err := cond(ctx)
			if err != nil {
				return err
			}
			if ok {
				return nil
			}
			return ErrWaitTimeout
		case <-ticker.C:
		}
	}
}

// Sleep 可被取消的等待
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
