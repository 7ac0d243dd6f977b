package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"manuscript-gen/internal/config"
	apperrors "manuscript-gen/pkg/errors"
)

// LocatorKind 定位策略类型
type LocatorKind string

const (
	KindCSS          LocatorKind = "css"
	KindTestID       LocatorKind = "testid"
	KindTestIDPrefix LocatorKind = "testid-prefix"
)

// Locator 单个定位策略，最终编译为 CSS 选择器
type Locator struct {
	Kind  LocatorKind
	Value string
}

// CSS 定位器
func CSS(selector string) Locator {
	return Locator{Kind: KindCSS, Value: selector}
}

// TestID 按 data-testid 精确匹配
func TestID(id string) Locator {
	return Locator{Kind: KindTestID, Value: id}
}

// TestIDPrefix 按 data-testid 前缀匹配
func TestIDPrefix(prefix string) Locator {
	return Locator{Kind: KindTestIDPrefix, Value: prefix}
}

// Selector 编译为 CSS 选择器
func (l Locator) Selector() string {
	switch l.Kind {
	case KindTestID:
		return fmt.Sprintf(`[data-testid="%s"]`, l.Value)
	case KindTestIDPrefix:
		return fmt.Sprintf(`[data-testid^="%s"]`, l.Value)
	default:
		return l.Value
	}
}

func (l Locator) String() string {
	return l.Selector()
}

// ParseLocator 从配置项构建定位器
func ParseLocator(spec config.LocatorSpec) (Locator, error) {
	value := strings.TrimSpace(spec.Value)
	if value == "" {
		return Locator{}, apperrors.ErrInvalidParam.WithDetail("locator value is empty")
	}
	switch kind := LocatorKind(strings.ToLower(strings.TrimSpace(spec.Kind))); kind {
	case "", KindCSS:
		return CSS(value), nil
	case KindTestID, KindTestIDPrefix:
		return Locator{Kind: kind, Value: value}, nil
	default:
		return Locator{}, apperrors.ErrInvalidParam.WithDetail("unknown locator kind " + spec.Kind)
	}
}

// ParseLocators 批量构建定位器，保持配置顺序
func ParseLocators(specs []config.LocatorSpec) ([]Locator, error) {
	out := make([]Locator, 0, len(specs))
	for _, spec := range specs {
		l, err := ParseLocator(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// Set 同一逻辑元素的有序定位策略集合，首个命中者胜出
type Set struct {
	Name     string
	Locators []Locator
	// Timeout 每个策略的等待上限；0 表示只探测一次
	Timeout time.Duration
}

// NewSet 创建定位集合
func NewSet(name string, timeout time.Duration, locators ...Locator) Set {
	return Set{Name: name, Locators: locators, Timeout: timeout}
}

// First 依次尝试每个策略，返回第一个在超时内出现的策略
func (s Set) First(ctx context.Context, page Page, poll time.Duration) (Locator, error) {
	for _, l := range s.Locators {
		found, err := present(ctx, page, l, poll, s.Timeout)
		if err != nil {
			return Locator{}, err
		}
		if found {
			return l, nil
		}
	}
	return Locator{}, apperrors.ErrLocatorNotFound.WithDetail(s.Name)
}

// Probe 对每个策略只探测一次，不等待
func (s Set) Probe(ctx context.Context, page Page) (Locator, bool, error) {
	for _, l := range s.Locators {
		n, err := page.Count(ctx, l.Selector())
		if err != nil {
			return Locator{}, false, err
		}
		if n > 0 {
			return l, true, nil
		}
	}
	return Locator{}, false, nil
}

// Total 所有策略命中数之和
func (s Set) Total(ctx context.Context, page Page) (int, error) {
	total := 0
	for _, l := range s.Locators {
		n, err := page.Count(ctx, l.Selector())
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// LastText 取第一个有命中的策略的最后一个节点文本
func (s Set) LastText(ctx context.Context, page Page) (string, bool, error) {
	for _, l := range s.Locators {
		texts, err := page.Texts(ctx, l.Selector())
		if err != nil {
			return "", false, err
		}
		if len(texts) > 0 {
			return texts[len(texts)-1], true, nil
		}
	}
	return "", false, nil
}

func present(ctx context.Context, page Page, l Locator, poll, timeout time.Duration) (bool, error) {
	check := func(ctx context.Context) (bool, error) {
		n, err := page.Count(ctx, l.Selector())
		return n > 0, err
	}
	if timeout <= 0 {
		return check(ctx)
	}
	err := WaitUntil(ctx, poll, timeout, check)
	if err == nil {
		return true, nil
	}
	if IsTimeout(err) {
		return false, nil
	}
	return false, err
}
