// Package config 提供配置加载功能
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// CredentialEnv 会话凭据的环境变量名
const CredentialEnv = "CLAUDE_SESSION_COOKIE"

var placeholder = regexp.MustCompile(`\${(\w+)(:([^}]*))?}`)

// Load 从默认目录加载配置
func Load() (*Config, error) {
	return LoadFrom("configs", os.Getenv("APP_ENV"))
}

// LoadFrom 加载配置
// 按优先级加载：默认配置 -> 环境配置 -> 环境变量
func LoadFrom(dir, env string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// 1. 加载默认配置（目录中没有配置文件时完全依赖默认值）
	if err := loadConfigFile(v, filepath.Join(dir, "config.yaml"), true); err != nil {
		return nil, err
	}

	// 2. 加载环境特定配置
	if env == "" {
		env = "development"
	}
	envFile := filepath.Join(dir, fmt.Sprintf("config.%s.yaml", env))
	if err := loadConfigFile(v, envFile, true); err != nil {
		return nil, err
	}

	// 3. 绑定环境变量 (直接覆盖)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.App.Env == "" {
		cfg.App.Env = env
	}
	if cfg.Session.Credential == "" {
		cfg.Session.Credential = os.Getenv(CredentialEnv)
	}

	return &cfg, nil
}

// loadConfigFile 读取文件，执行环境变量替换，并加载到 viper
func loadConfigFile(v *viper.Viper, path string, optional bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	reader := strings.NewReader(expandEnv(string(content)))
	if v.ConfigFileUsed() == "" {
		if err := v.ReadConfig(reader); err != nil {
			return fmt.Errorf("failed to read processed config %s: %w", path, err)
		}
		v.SetConfigFile(path)
		return nil
	}
	if err := v.MergeConfig(reader); err != nil {
		return fmt.Errorf("failed to merge processed config %s: %w", path, err)
	}
	return nil
}

// expandEnv 替换字符串中的 ${VAR:default} 占位符，未定义且无默认值的变量保留原样
func expandEnv(s string) string {
	return placeholder.ReplaceAllStringFunc(s, func(match string) string {
		submatch := placeholder.FindStringSubmatch(match)
		if val, ok := os.LookupEnv(submatch[1]); ok {
			return val
		}
		if submatch[2] != "" {
			return submatch[3]
		}
		return match
	})
}

// MustLoad 加载配置，失败时 panic
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

func locators(specs ...string) []map[string]any {
	out := make([]map[string]any, 0, len(specs)/2)
	for i := 0; i+1 < len(specs); i += 2 {
		out = append(out, map[string]any{"kind": specs[i], "value": specs[i+1]})
	}
	return out
}

// setDefaults 设置配置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "manuscript-gen")
	v.SetDefault("app.version", "v0.0.0")

	// HTTP 服务器默认值
	v.SetDefault("server.http.host", "0.0.0.0")
	v.SetDefault("server.http.port", 8080)
	v.SetDefault("server.http.read_timeout", "30s")
	v.SetDefault("server.http.write_timeout", "10m")
	v.SetDefault("server.http.idle_timeout", "120s")

	// 会话默认值
	v.SetDefault("session.base_url", "https://claude.ai")
	v.SetDefault("session.cookie_name", "session")
	v.SetDefault("session.cookie_domain", ".claude.ai")
	v.SetDefault("session.probe_delay", "3s")
	v.SetDefault("session.login_timeout", "5m")
	v.SetDefault("session.navigation_timeout", "60s")

	// 定位策略默认值，按优先级排列
	v.SetDefault("locators.input", locators(
		"testid", "composer-input",
		"css", `textarea[placeholder*="Talk to Claude"]`,
		"css", `div[contenteditable="true"]`,
	))
	v.SetDefault("locators.typing", locators(
		"testid", "typing-indicator",
		"css", ".typing-indicator",
		"css", `[class*="typing"]`,
	))
	v.SetDefault("locators.message", locators(
		"testid-prefix", "message",
		"css", ".message-content",
		"css", `[class*="message"]`,
		"css", `div[class*="prose"]`,
	))
	v.SetDefault("locators.ready", locators(
		"testid", "composer-input",
		"css", `textarea[placeholder*="Talk to Claude"]`,
		"css", `button[aria-label="New chat"]`,
	))

	// 交互默认值
	v.SetDefault("interaction.poll_interval", "250ms")
	v.SetDefault("interaction.locator_timeout", "10s")
	v.SetDefault("interaction.arrival_timeout", "120s")
	v.SetDefault("interaction.streaming_timeout", "30s")
	v.SetDefault("interaction.settle_delay", "2s")
	v.SetDefault("interaction.min_response_length", 10)
	v.SetDefault("interaction.submit_key", "Enter")

	// 流水线默认值
	v.SetDefault("pipeline.stage_delay", "3s")
	v.SetDefault("pipeline.chapter_delay", "5s")
	v.SetDefault("pipeline.item_backoff", "30s")
	v.SetDefault("pipeline.chapter_separator", "\n\n---\n\n")

	// 浏览器默认值
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.window_width", 1280)
	v.SetDefault("browser.window_height", 900)
	v.SetDefault("browser.user_agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36")

	v.SetDefault("remote.max_concurrent", 1)
	v.SetDefault("remote.default_timeout", "120s")

	// 存储默认值
	v.SetDefault("storage.queue.backend", "file")
	v.SetDefault("storage.queue.path", "data/manuscript-ideas.json")
	v.SetDefault("storage.queue.redis_key", "manuscript:queue")
	v.SetDefault("storage.artifacts.backend", "filesystem")
	v.SetDefault("storage.artifacts.root", "manuscripts")
	v.SetDefault("storage.artifacts.render_html", false)

	// 数据库默认值
	v.SetDefault("database.postgres.host", "localhost")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.user", "postgres")
	v.SetDefault("database.postgres.database", "manuscripts")
	v.SetDefault("database.postgres.ssl_mode", "disable")
	v.SetDefault("database.postgres.max_open_conns", 10)
	v.SetDefault("database.postgres.max_idle_conns", 2)
	v.SetDefault("database.postgres.conn_max_lifetime", "30m")
	v.SetDefault("database.postgres.conn_max_idle_time", "5m")
	v.SetDefault("database.sqlite.enabled", true)
	v.SetDefault("database.sqlite.path", "data/usage.db")

	// Redis 默认值
	v.SetDefault("cache.redis.enabled", false)
	v.SetDefault("cache.redis.host", "localhost")
	v.SetDefault("cache.redis.port", 6379)
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.pool_size", 10)
	v.SetDefault("cache.redis.min_idle_conns", 1)
	v.SetDefault("cache.redis.dial_timeout", "5s")
	v.SetDefault("cache.redis.read_timeout", "3s")
	v.SetDefault("cache.redis.write_timeout", "3s")

	v.SetDefault("messaging.redis_stream.enabled", false)
	v.SetDefault("messaging.redis_stream.stream", "stream:manuscript:events")
	v.SetDefault("messaging.redis_stream.max_len", 10000)

	// 可观测性默认值
	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "json")
	v.SetDefault("observability.tracing.enabled", false)
	v.SetDefault("observability.tracing.endpoint", "localhost:4317")
	v.SetDefault("observability.tracing.sample_rate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.port", 9464)
	v.SetDefault("observability.metrics.path", "/metrics")

	// 安全默认值
	v.SetDefault("security.rate_limit.enabled", true)
	v.SetDefault("security.rate_limit.requests_per_second", 2)
	v.SetDefault("security.rate_limit.burst", 4)
	v.SetDefault("security.cors.allowed_origins", []string{"*"})
	v.SetDefault("security.cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("security.cors.allowed_headers", []string{"Origin", "Content-Type", "X-Request-ID"})
}
