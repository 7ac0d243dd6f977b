package remote

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manuscript-gen/internal/browser"
	"manuscript-gen/internal/browser/browsertest"
	"manuscript-gen/internal/config"
)

type fakeLauncher struct {
	mu       sync.Mutex
	err      error
	pages    []*browsertest.Page
	released int32
	setup    func(*browsertest.Page)
}

func (l *fakeLauncher) NewPage(context.Context) (browser.Page, func() error, error) {
	if l.err != nil {
		return nil, nil, l.err
	}
	page := browsertest.NewChat()
	if l.setup != nil {
		l.setup(page)
	}
	l.mu.Lock()
	l.pages = append(l.pages, page)
	l.mu.Unlock()
	return page, func() error {
		page.Stop()
		atomic.AddInt32(&l.released, 1)
		return nil
	}, nil
}

func testOptions() browser.Options {
	return browser.Options{
		Session: browser.SessionOptions{
			BaseURL:      "https://chat.example",
			CookieName:   "session",
			CookieDomain: ".chat.example",
			PollInterval: 2 * time.Millisecond,
			LoginTimeout: 20 * time.Millisecond,
			Ready:        browser.NewSet("login indicator", 0, browser.TestID("composer-input")),
		},
		Client: browser.ClientOptions{
			Input:             browser.NewSet("prompt input", 20*time.Millisecond, browser.TestID("composer-input")),
			Typing:            browser.NewSet("typing indicator", 0, browser.TestID("typing-indicator")),
			Message:           browser.NewSet("message", 0, browser.TestIDPrefix("message")),
			PollInterval:      2 * time.Millisecond,
			ArrivalTimeout:    time.Second,
			StreamingTimeout:  time.Second,
			MinResponseLength: 10,
		},
	}
}

func noSleep(context.Context, time.Duration) error { return nil }

func TestExecutor_Success(t *testing.T) {
	l := &fakeLauncher{setup: func(p *browsertest.Page) {
		p.Respond(5*time.Millisecond, 10*time.Millisecond, func(prompt string) string {
			return "Answer for " + prompt
		})
	}}
	e := NewExecutor(l, testOptions(), config.RemoteConfig{}).WithSleep(noSleep)

	resp := e.Execute(context.Background(), Request{Credential: "sk-cookie", Prompt: "What is stillness?"})
	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, "Answer for What is stillness?", resp.Response)
	assert.False(t, resp.Timestamp.IsZero())

	require.Len(t, l.pages, 1)
	cookies, _ := l.pages[0].Cookies(context.Background())
	require.Len(t, cookies, 1)
	assert.Equal(t, "sk-cookie", cookies[0].Value)
	assert.EqualValues(t, 1, atomic.LoadInt32(&l.released))
}

func TestExecutor_Failures(t *testing.T) {
	tests := []struct {
		name     string
		launcher *fakeLauncher
		req      Request
		wantErr  string
		released int32
	}{
		{
			name:     "missing prompt",
			launcher: &fakeLauncher{},
			req:      Request{Credential: "c"},
			wantErr:  "prompt is required",
		},
		{
			name:     "missing credential",
			launcher: &fakeLauncher{},
			req:      Request{Prompt: "hi"},
			wantErr:  "credential is required",
		},
		{
			name:     "launch failure",
			launcher: &fakeLauncher{err: errors.New("chrome not found")},
			req:      Request{Credential: "c", Prompt: "hi"},
			wantErr:  "chrome not found",
		},
		{
			name: "not logged in",
			launcher: &fakeLauncher{setup: func(p *browsertest.Page) {
				p.Remove(`[data-testid="composer-input"]`)
			}},
			req:      Request{Credential: "c", Prompt: "hi"},
			wantErr:  "authentication required",
			released: 1,
		},
		{
			name:     "no reply within timeout",
			launcher: &fakeLauncher{},
			req:      Request{Credential: "c", Prompt: "hi", TimeoutMs: 20},
			wantErr:  "response timeout",
			released: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExecutor(tt.launcher, testOptions(), config.RemoteConfig{MaxConcurrent: 2}).WithSleep(noSleep)
			resp := e.Execute(context.Background(), tt.req)
			assert.False(t, resp.Success)
			assert.Contains(t, resp.Error, tt.wantErr)
			assert.Empty(t, resp.Response)
			assert.Equal(t, tt.released, atomic.LoadInt32(&tt.launcher.released))
		})
	}
}

func TestExecutor_RejectedCredentialDoesNotWaitForLogin(t *testing.T) {
	l := &fakeLauncher{setup: func(p *browsertest.Page) {
		p.Remove(`[data-testid="composer-input"]`)
	}}
	opts := testOptions()
	opts.Session.LoginTimeout = time.Minute
	e := NewExecutor(l, opts, config.RemoteConfig{}).WithSleep(noSleep)

	start := time.Now()
	resp := e.Execute(context.Background(), Request{Credential: "expired", Prompt: "hi", TimeoutMs: 100})
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "authentication required")
	assert.Less(t, time.Since(start), time.Second)
	assert.EqualValues(t, 1, atomic.LoadInt32(&l.released))

	// 槽位已释放
	require.True(t, e.sem.TryAcquire(1))
	e.sem.Release(1)
}

func TestExecutor_CanceledWhileWaitingForSlot(t *testing.T) {
	e := NewExecutor(&fakeLauncher{}, testOptions(), config.RemoteConfig{MaxConcurrent: 1})
	require.True(t, e.sem.TryAcquire(1))
	defer e.sem.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	resp := e.Execute(ctx, Request{Credential: "c", Prompt: "hi"})
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "deadline exceeded")
}
