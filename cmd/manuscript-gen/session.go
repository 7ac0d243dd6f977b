package main

import (
	"context"
	"fmt"

	"manuscript-gen/internal/browser"
	"manuscript-gen/internal/config"
	"manuscript-gen/internal/infrastructure/chrome"
)

// openSession 启动浏览器并建立已登录会话。会话关闭时释放页面
func openSession(ctx context.Context, cfg *config.Config) (*browser.Session, *browser.Client, error) {
	opts, err := browser.OptionsFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	page, release, err := chrome.NewLauncher(cfg.Browser).NewPage(ctx)
	if err != nil {
		return nil, nil, err
	}

	sess, err := browser.NewSessionManager(page, opts.Session, browser.WithRelease(release)).
		Open(ctx, cfg.Session.Credential)
	if err != nil {
		_ = release()
		return nil, nil, err
	}
	return sess, browser.NewClient(sess.Page(), opts.Client), nil
}

// reportCredential 凭据被服务刷新时只输出前缀，供更新 .env
func reportCredential(sess *browser.Session) {
	if !sess.Refreshed || sess.Credential == "" {
		return
	}
	fmt.Printf("%s session credential refreshed: %s\n", yellow("!"), credentialPrefix(sess.Credential))
}

func credentialPrefix(v string) string {
	const n = 20
	if len(v) <= n {
		return v[:len(v)/2] + "..."
	}
	return v[:n] + "..."
}
