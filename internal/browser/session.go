package browser

import (
	"context"
	"strings"
	"sync"
	"time"

	"manuscript-gen/pkg/logger"
	"manuscript-gen/pkg/metrics"
	"manuscript-gen/pkg/tracer"

	apperrors "manuscript-gen/pkg/errors"
)

// ReadyState 会话就绪方式
type ReadyState string

const (
	// ReadyCredential 注入的凭据直接生效
	ReadyCredential ReadyState = "credential"
	// ReadyInteractive 经人工登录后就绪
	ReadyInteractive ReadyState = "interactive"
)

// SessionOptions 会话建立参数
type SessionOptions struct {
	BaseURL           string
	CookieName        string
	CookieDomain      string
	ProbeDelay        time.Duration
	LoginTimeout      time.Duration
	NavigationTimeout time.Duration
	PollInterval      time.Duration
	Ready             Set

	// NoInteractiveLogin 为 true 时未登录立即返回 AuthenticationRequired，不等待人工登录
	NoInteractiveLogin bool
}

// Session 已认证的会话句柄
type Session struct {
	// Credential 会话结束时页面持有的凭据
	Credential string
	// Refreshed 凭据是否与注入值不同
	Refreshed bool
	State     ReadyState
	Indicator Locator

	page    Page
	release func() error
	once    sync.Once
}

// Page 返回会话所在页面
func (s *Session) Page() Page {
	return s.page
}

// Close 释放页面资源，可重复调用
func (s *Session) Close() error {
	var err error
	s.once.Do(func() {
		if s.release != nil {
			err = s.release()
		}
	})
	return err
}

// SessionManager 负责打开页面并确认已登录
type SessionManager struct {
	page    Page
	opts    SessionOptions
	release func() error
	sleep   func(context.Context, time.Duration) error
}

// SessionOption 会话管理器可选项
type SessionOption func(*SessionManager)

// WithRelease 设置 Session.Close 时调用的释放函数
func WithRelease(fn func() error) SessionOption {
	return func(m *SessionManager) {
		m.release = fn
	}
}

// WithSessionSleep 替换等待实现，测试用
func WithSessionSleep(fn func(context.Context, time.Duration) error) SessionOption {
	return func(m *SessionManager) {
		m.sleep = fn
	}
}

// NewSessionManager 创建会话管理器
func NewSessionManager(page Page, opts SessionOptions, options ...SessionOption) *SessionManager {
	if opts.CookieName == "" {
		opts.CookieName = "session"
	}
	m := &SessionManager{
		page:  page,
		opts:  opts,
		sleep: Sleep,
	}
	for _, o := range options {
		o(m)
	}
	return m
}

// Open 导航到服务、注入凭据并确认界面已进入可交互状态
func (m *SessionManager) Open(ctx context.Context, credential string) (*Session, error) {
	ctx, span := tracer.Start(ctx, "browser.session.open")
	defer span.End()

	sess, err := m.open(ctx, credential)
	if err != nil {
		span.RecordError(err)
		metrics.SessionOpenTotal.WithLabelValues("failed").Inc()
		return nil, err
	}
	metrics.SessionOpenTotal.WithLabelValues(string(sess.State)).Inc()
	return sess, nil
}

func (m *SessionManager) open(ctx context.Context, credential string) (*Session, error) {
	if err := m.navigate(ctx); err != nil {
		return nil, err
	}

	if credential != "" {
		cookie := Cookie{
			Name:     m.opts.CookieName,
			Value:    credential,
			Domain:   m.opts.CookieDomain,
			Path:     "/",
			HTTPOnly: true,
			Secure:   true,
			SameSite: "Lax",
		}
		if err := m.page.SetCookie(ctx, cookie); err != nil {
			return nil, pageError(ctx, err, "set session cookie")
		}
		if err := m.page.Reload(ctx); err != nil {
			return nil, pageError(ctx, err, "reload after cookie")
		}
	}

	if err := m.sleep(ctx, m.opts.ProbeDelay); err != nil {
		return nil, err
	}

	state := ReadyCredential
	indicator, ok, err := m.opts.Ready.Probe(ctx, m.page)
	if err != nil {
		return nil, pageError(ctx, err, "probe login indicators")
	}
	if !ok && m.opts.NoInteractiveLogin {
		return nil, apperrors.ErrAuthenticationRequired.WithDetail("credential not accepted")
	}
	if !ok {
		logger.Warn(ctx, "not logged in, complete the login in the browser window",
			"timeout", m.opts.LoginTimeout.String(),
		)
		indicator, err = m.awaitLogin(ctx)
		if err != nil {
			return nil, err
		}
		state = ReadyInteractive
	}
	logger.Info(ctx, "session ready", "state", string(state), "indicator", indicator.String())

	harvested, err := m.harvest(ctx)
	if err != nil {
		return nil, err
	}
	sess := &Session{
		Credential: harvested,
		Refreshed:  harvested != "" && harvested != credential,
		State:      state,
		Indicator:  indicator,
		page:       m.page,
		release:    m.release,
	}
	if sess.Credential == "" {
		sess.Credential = credential
	}
	return sess, nil
}

func (m *SessionManager) navigate(ctx context.Context) error {
	navCtx := ctx
	if m.opts.NavigationTimeout > 0 {
		var cancel context.CancelFunc
		navCtx, cancel = context.WithTimeout(ctx, m.opts.NavigationTimeout)
		defer cancel()
	}
	if err := m.page.Navigate(navCtx, m.opts.BaseURL); err != nil {
		return pageError(ctx, err, "navigate to "+m.opts.BaseURL)
	}
	return nil
}

func (m *SessionManager) awaitLogin(ctx context.Context) (Locator, error) {
	var found Locator
	err := WaitUntil(ctx, m.opts.PollInterval, m.opts.LoginTimeout, func(ctx context.Context) (bool, error) {
		l, ok, err := m.opts.Ready.Probe(ctx, m.page)
		if ok {
			found = l
		}
		return ok, err
	})
	switch {
	case err == nil:
		return found, nil
	case IsTimeout(err):
		return Locator{}, apperrors.ErrAuthenticationRequired.WithDetail("login not completed within " + m.opts.LoginTimeout.String())
	case ctx.Err() != nil:
		return Locator{}, ctx.Err()
	default:
		return Locator{}, pageError(ctx, err, "await login")
	}
}

// harvest 取名为 CookieName 的 Cookie，否则取第一个名称包含 session 的
func (m *SessionManager) harvest(ctx context.Context) (string, error) {
	cookies, err := m.page.Cookies(ctx)
	if err != nil {
		return "", pageError(ctx, err, "read cookies")
	}
	for _, c := range cookies {
		if c.Name == m.opts.CookieName {
			return c.Value, nil
		}
	}
	for _, c := range cookies {
		if strings.Contains(strings.ToLower(c.Name), "session") {
			return c.Value, nil
		}
	}
	return "", nil
}

// pageError 页面层错误统一包装为 BrowserError，取消与超时原样返回
func pageError(ctx context.Context, err error, op string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return apperrors.ErrBrowser.WithDetail(op).WithError(err)
}
