// Package browsertest 提供基于 goquery 的内存页面，用于在没有浏览器的情况下驱动交互逻辑
package browsertest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"manuscript-gen/internal/browser"
)

// Page 内存 DOM 页面。所有读写都在互斥锁保护下进行，可被定时回调并发修改
type Page struct {
	mu      sync.Mutex
	doc     *goquery.Document
	cookies []browser.Cookie
	timers  []*time.Timer

	url         string
	navigations int
	reloads     int
	fills       []string
	keys        []string
	lastFill    string

	// OnSubmit 在提交键按下后调用，prompt 为最近一次写入的文本
	OnSubmit func(p *Page, prompt string)
	// OnReload 在页面刷新后调用
	OnReload func(p *Page)
	// CountErr 非空时 Count 返回该错误
	CountErr error
}

var _ browser.Page = (*Page)(nil)

// New 从 HTML 片段创建页面
func New(html string) *Page {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		panic(err)
	}
	return &Page{doc: doc}
}

// Mutate 在锁内修改 DOM
func (p *Page) Mutate(fn func(doc *goquery.Selection)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p.doc.Selection)
}

// Append 向 selector 匹配的节点追加 HTML
func (p *Page) Append(selector, html string) {
	p.Mutate(func(doc *goquery.Selection) {
		doc.Find(selector).AppendHtml(html)
	})
}

// Remove 删除 selector 匹配的节点
func (p *Page) Remove(selector string) {
	p.Mutate(func(doc *goquery.Selection) {
		doc.Find(selector).Remove()
	})
}

// After 在 d 之后异步修改 DOM
func (p *Page) After(d time.Duration, fn func(doc *goquery.Selection)) {
	t := time.AfterFunc(d, func() { p.Mutate(fn) })
	p.mu.Lock()
	p.timers = append(p.timers, t)
	p.mu.Unlock()
}

// Stop 取消尚未触发的定时修改
func (p *Page) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, t := range p.timers {
		t.Stop()
	}
	p.timers = nil
}

// HTML 当前文档
func (p *Page) HTML() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	html, _ := p.doc.Html()
	return html
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	p.url = url
	p.navigations++
	p.mu.Unlock()
	return nil
}

func (p *Page) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	p.reloads++
	hook := p.OnReload
	p.mu.Unlock()
	if hook != nil {
		hook(p)
	}
	return nil
}

func (p *Page) SetCookie(_ context.Context, cookie browser.Cookie) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.cookies {
		if p.cookies[i].Name == cookie.Name {
			p.cookies[i] = cookie
			return nil
		}
	}
	p.cookies = append(p.cookies, cookie)
	return nil
}

func (p *Page) Cookies(context.Context) ([]browser.Cookie, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]browser.Cookie, len(p.cookies))
	copy(out, p.cookies)
	return out, nil
}

func (p *Page) Count(ctx context.Context, selector string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.CountErr != nil {
		return 0, p.CountErr
	}
	return p.doc.Find(selector).Length(), nil
}

func (p *Page) Texts(ctx context.Context, selector string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	p.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, s.Text())
	})
	return out, nil
}

func (p *Page) Fill(ctx context.Context, selector, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.doc.Find(selector).First().SetText(text)
	p.fills = append(p.fills, text)
	p.lastFill = text
	return nil
}

func (p *Page) PressKey(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	p.keys = append(p.keys, key)
	prompt := p.lastFill
	hook := p.OnSubmit
	p.mu.Unlock()
	if hook != nil {
		hook(p, prompt)
	}
	return nil
}

// URL 最近一次导航地址
func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

// Reloads 刷新次数
func (p *Page) Reloads() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reloads
}

// Fills 按顺序返回写入过的文本
func (p *Page) Fills() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.fills...)
}

// Keys 按顺序返回按下过的键
func (p *Page) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}
