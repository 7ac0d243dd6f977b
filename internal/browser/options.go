package browser

import (
	"manuscript-gen/internal/config"
)

// Options 由配置构建的会话与交互参数
type Options struct {
	Session SessionOptions
	Client  ClientOptions
}

// OptionsFromConfig 把配置中的定位策略与等待参数转换为运行时结构
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	input, err := ParseLocators(cfg.Locators.Input)
	if err != nil {
		return Options{}, err
	}
	typing, err := ParseLocators(cfg.Locators.Typing)
	if err != nil {
		return Options{}, err
	}
	message, err := ParseLocators(cfg.Locators.Message)
	if err != nil {
		return Options{}, err
	}
	ready, err := ParseLocators(cfg.Locators.Ready)
	if err != nil {
		return Options{}, err
	}

	ic := cfg.Interaction
	return Options{
		Session: SessionOptions{
			BaseURL:           cfg.Session.BaseURL,
			CookieName:        cfg.Session.CookieName,
			CookieDomain:      cfg.Session.CookieDomain,
			ProbeDelay:        cfg.Session.ProbeDelay,
			LoginTimeout:      cfg.Session.LoginTimeout,
			NavigationTimeout: cfg.Session.NavigationTimeout,
			PollInterval:      ic.PollInterval,
			Ready:             NewSet("login indicator", 0, ready...),
		},
		Client: ClientOptions{
			Input:             NewSet("prompt input", ic.LocatorTimeout, input...),
			Typing:            NewSet("typing indicator", 0, typing...),
			Message:           NewSet("message", 0, message...),
			PollInterval:      ic.PollInterval,
			ArrivalTimeout:    ic.ArrivalTimeout,
			StreamingTimeout:  ic.StreamingTimeout,
			SettleDelay:       ic.SettleDelay,
			MinResponseLength: ic.MinResponseLength,
			SubmitKey:         ic.SubmitKey,
		},
	}, nil
}
