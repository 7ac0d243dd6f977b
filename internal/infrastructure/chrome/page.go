// Package chrome 基于 chromedp 的页面实现
package chrome

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"manuscript-gen/internal/browser"
)

// Page 单个浏览器标签页
type Page struct {
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
}

var _ browser.Page = (*Page)(nil)

// run 在标签页上下文中执行动作，同时继承调用方的取消与截止时间
func (p *Page) run(ctx context.Context, actions ...chromedp.Action) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(p.ctx)
	defer cancel()
	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, deadline)
		defer cancelDeadline()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	return p.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

func (p *Page) Reload(ctx context.Context) error {
	return p.run(ctx,
		chromedp.Reload(),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

func (p *Page) SetCookie(ctx context.Context, c browser.Cookie) error {
	return p.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		params := network.SetCookie(c.Name, c.Value).
			WithDomain(c.Domain).
			WithPath(c.Path).
			WithHTTPOnly(c.HTTPOnly).
			WithSecure(c.Secure)
		if ss := sameSite(c.SameSite); ss != "" {
			params = params.WithSameSite(ss)
		}
		return params.Do(ctx)
	}))
}

func (p *Page) Cookies(ctx context.Context) ([]browser.Cookie, error) {
	var raw []*network.Cookie
	err := p.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		raw, err = network.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		return nil, err
	}

	out := make([]browser.Cookie, 0, len(raw))
	for _, c := range raw {
		out = append(out, browser.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: c.SameSite.String(),
		})
	}
	return out, nil
}

func (p *Page) Count(ctx context.Context, selector string) (int, error) {
	sel, err := jsString(selector)
	if err != nil {
		return 0, err
	}
	var n int
	script := fmt.Sprintf(`document.querySelectorAll(%s).length`, sel)
	if err := p.run(ctx, chromedp.Evaluate(script, &n)); err != nil {
		return 0, err
	}
	return n, nil
}

func (p *Page) Texts(ctx context.Context, selector string) ([]string, error) {
	sel, err := jsString(selector)
	if err != nil {
		return nil, err
	}
	var texts []string
	script := fmt.Sprintf(`Array.from(document.querySelectorAll(%s), el => el.textContent || "")`, sel)
	if err := p.run(ctx, chromedp.Evaluate(script, &texts)); err != nil {
		return nil, err
	}
	return texts, nil
}

// Fill 聚焦、全选删除，然后用 Input.insertText 一次性写入，避免逐键输入触发提前提交
func (p *Page) Fill(ctx context.Context, selector, text string) error {
	return p.run(ctx,
		chromedp.Focus(selector, chromedp.ByQuery),
		chromedp.KeyEvent("a", chromedp.KeyModifiers(input.ModifierCtrl)),
		chromedp.KeyEvent(kb.Backspace),
		chromedp.ActionFunc(func(ctx context.Context) error {
			return input.InsertText(text).Do(ctx)
		}),
	)
}

func (p *Page) PressKey(ctx context.Context, key string) error {
	return p.run(ctx, chromedp.KeyEvent(normalizeKey(key)))
}

// Close 关闭标签页及其浏览器分配器
func (p *Page) Close() error {
	if p.cancel != nil {
		p.cancel()
	}
	return nil
}

func jsString(s string) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func normalizeKey(key string) string {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "enter", "return":
		return kb.Enter
	case "tab":
		return kb.Tab
	case "escape", "esc":
		return kb.Escape
	default:
		return key
	}
}

func sameSite(v string) network.CookieSameSite {
	switch strings.ToLower(v) {
	case "lax":
		return network.CookieSameSiteLax
	case "strict":
		return network.CookieSameSiteStrict
	case "none":
		return network.CookieSameSiteNone
	default:
		return ""
	}
}
