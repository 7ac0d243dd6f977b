package chrome

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/chromedp/chromedp"

	"manuscript-gen/internal/browser"
	"manuscript-gen/internal/config"
	"manuscript-gen/pkg/logger"
)

// Launcher 启动本地 Chrome 或连接远程 CDP 端点
type Launcher struct {
	cfg config.BrowserConfig
}

// NewLauncher 创建启动器
func NewLauncher(cfg config.BrowserConfig) *Launcher {
	return &Launcher{cfg: cfg}
}

// Remote 是否连接远程浏览器
func (l *Launcher) Remote() bool {
	return strings.TrimSpace(l.cfg.CDPURL) != ""
}

// Launch 打开一个新的标签页。调用方负责 Close
func (l *Launcher) Launch(ctx context.Context) (*Page, error) {
	allocCtx, allocCancel := l.allocator()

	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(tabCtx, chromedp.Navigate("about:blank")); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("start browser tab: %w", err)
	}

	logger.Debug(ctx, "browser tab started", "remote", l.Remote(), "headless", l.cfg.Headless)
	return &Page{
		ctx: tabCtx,
		cancel: func() {
			tabCancel()
			allocCancel()
		},
	}, nil
}

// allocator 浏览器进程与调用方 context 解耦，生命周期由 Page.Close 控制
func (l *Launcher) allocator() (context.Context, context.CancelFunc) {
	base := context.Background()
	if l.Remote() {
		return chromedp.NewRemoteAllocator(base, strings.TrimSpace(l.cfg.CDPURL))
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", l.cfg.Headless),
		chromedp.Flag("disable-gpu", l.cfg.Headless),
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if ua := strings.TrimSpace(l.cfg.UserAgent); ua != "" {
		opts = append(opts, chromedp.UserAgent(ua))
	}
	if l.cfg.WindowWidth > 0 && l.cfg.WindowHeight > 0 {
		opts = append(opts, chromedp.WindowSize(l.cfg.WindowWidth, l.cfg.WindowHeight))
	}
	if path := strings.TrimSpace(l.cfg.ChromePath); path != "" {
		opts = append(opts, chromedp.ExecPath(path))
	}
	if dir := strings.TrimSpace(l.cfg.UserDataDir); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err == nil {
			opts = append(opts, chromedp.UserDataDir(dir))
		}
	}
	return chromedp.NewExecAllocator(base, opts...)
}

// NewPage 以 browser.Page 形式返回新标签页及其释放函数
func (l *Launcher) NewPage(ctx context.Context) (browser.Page, func() error, error) {
	p, err := l.Launch(ctx)
	if err != nil {
		return nil, nil, err
	}
	return p, p.Close, nil
}
