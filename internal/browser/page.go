// Package browser 提供对会话式网页界面的弹性交互：元素定位、条件等待、会话建立与提示提交
package browser

import (
	"context"
)

// Cookie 浏览器 Cookie
type Cookie struct {
	Name     string
	Value    string
	Domain   string
	Path     string
	HTTPOnly bool
	Secure   bool
	SameSite string
}

// Page 单个浏览器页面的最小操作集。实现方负责把 selector 视为 CSS 选择器
type Page interface {
	Navigate(ctx context.Context, url string) error
	Reload(ctx context.Context) error

	SetCookie(ctx context.Context, cookie Cookie) error
	Cookies(ctx context.Context) ([]Cookie, error)

	// Count 返回匹配 selector 的节点数
	Count(ctx context.Context, selector string) (int, error)
	// Texts 按文档顺序返回匹配节点的文本
	Texts(ctx context.Context, selector string) ([]string, error)

	// Fill 聚焦元素、清空已有内容，并一次性写入文本
	Fill(ctx context.Context, selector, text string) error
	// PressKey 向当前焦点元素发送按键
	PressKey(ctx context.Context, key string) error
}
