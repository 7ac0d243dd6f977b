// Package config 提供配置加载和管理功能
package config

import (
	"fmt"
	"time"
)

// Config 应用配置根结构
type Config struct {
	App           AppConfig           `yaml:"app" mapstructure:"app"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	Session       SessionConfig       `yaml:"session" mapstructure:"session"`
	Locators      LocatorsConfig      `yaml:"locators" mapstructure:"locators"`
	Interaction   InteractionConfig   `yaml:"interaction" mapstructure:"interaction"`
	Pipeline      PipelineConfig      `yaml:"pipeline" mapstructure:"pipeline"`
	Browser       BrowserConfig       `yaml:"browser" mapstructure:"browser"`
	Remote        RemoteConfig        `yaml:"remote" mapstructure:"remote"`
	Storage       StorageConfig       `yaml:"storage" mapstructure:"storage"`
	Database      DatabaseConfig      `yaml:"database" mapstructure:"database"`
	Cache         CacheConfig         `yaml:"cache" mapstructure:"cache"`
	Messaging     MessagingConfig     `yaml:"messaging" mapstructure:"messaging"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
	Security      SecurityConfig      `yaml:"security" mapstructure:"security"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Version string `yaml:"version" mapstructure:"version"`
	Env     string `yaml:"env" mapstructure:"env"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTP HTTPServerConfig `yaml:"http" mapstructure:"http"`
}

// HTTPServerConfig HTTP 服务器配置
type HTTPServerConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// Addr 返回监听地址
func (c HTTPServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SessionConfig 会话配置
type SessionConfig struct {
	BaseURL           string        `yaml:"base_url" mapstructure:"base_url"`
	Credential        string        `yaml:"credential" mapstructure:"credential"`
	CookieName        string        `yaml:"cookie_name" mapstructure:"cookie_name"`
	CookieDomain      string        `yaml:"cookie_domain" mapstructure:"cookie_domain"`
	ProbeDelay        time.Duration `yaml:"probe_delay" mapstructure:"probe_delay"`
	LoginTimeout      time.Duration `yaml:"login_timeout" mapstructure:"login_timeout"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout" mapstructure:"navigation_timeout"`
}

// LocatorSpec 单个定位策略
type LocatorSpec struct {
	Kind  string `yaml:"kind" mapstructure:"kind"`
	Value string `yaml:"value" mapstructure:"value"`
}

// LocatorsConfig 各类 UI 元素的有序定位策略
type LocatorsConfig struct {
	Input   []LocatorSpec `yaml:"input" mapstructure:"input"`
	Typing  []LocatorSpec `yaml:"typing" mapstructure:"typing"`
	Message []LocatorSpec `yaml:"message" mapstructure:"message"`
	Ready   []LocatorSpec `yaml:"ready" mapstructure:"ready"`
}

// InteractionConfig 交互等待配置
type InteractionConfig struct {
	PollInterval      time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`
	LocatorTimeout    time.Duration `yaml:"locator_timeout" mapstructure:"locator_timeout"`
	ArrivalTimeout    time.Duration `yaml:"arrival_timeout" mapstructure:"arrival_timeout"`
	StreamingTimeout  time.Duration `yaml:"streaming_timeout" mapstructure:"streaming_timeout"`
	SettleDelay       time.Duration `yaml:"settle_delay" mapstructure:"settle_delay"`
	MinResponseLength int           `yaml:"min_response_length" mapstructure:"min_response_length"`
	SubmitKey         string        `yaml:"submit_key" mapstructure:"submit_key"`
}

// PipelineConfig 流水线节奏配置
type PipelineConfig struct {
	StageDelay       time.Duration `yaml:"stage_delay" mapstructure:"stage_delay"`
	ChapterDelay     time.Duration `yaml:"chapter_delay" mapstructure:"chapter_delay"`
	ItemBackoff      time.Duration `yaml:"item_backoff" mapstructure:"item_backoff"`
	ChapterSeparator string        `yaml:"chapter_separator" mapstructure:"chapter_separator"`
}

// BrowserConfig 浏览器启动配置
type BrowserConfig struct {
	Headless     bool   `yaml:"headless" mapstructure:"headless"`
	ChromePath   string `yaml:"chrome_path" mapstructure:"chrome_path"`
	UserDataDir  string `yaml:"user_data_dir" mapstructure:"user_data_dir"`
	CDPURL       string `yaml:"cdp_url" mapstructure:"cdp_url"`
	UserAgent    string `yaml:"user_agent" mapstructure:"user_agent"`
	WindowWidth  int    `yaml:"window_width" mapstructure:"window_width"`
	WindowHeight int    `yaml:"window_height" mapstructure:"window_height"`
}

// RemoteConfig 远程单次调用配置
type RemoteConfig struct {
	MaxConcurrent  int           `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	DefaultTimeout time.Duration `yaml:"default_timeout" mapstructure:"default_timeout"`
}

// StorageConfig 存储配置
type StorageConfig struct {
	Queue     QueueStorageConfig    `yaml:"queue" mapstructure:"queue"`
	Artifacts ArtifactStorageConfig `yaml:"artifacts" mapstructure:"artifacts"`
}

// QueueStorageConfig 工作队列存储配置
type QueueStorageConfig struct {
	Backend  string `yaml:"backend" mapstructure:"backend"` // file/redis
	Path     string `yaml:"path" mapstructure:"path"`
	RedisKey string `yaml:"redis_key" mapstructure:"redis_key"`
}

// ArtifactStorageConfig 产物存储配置
type ArtifactStorageConfig struct {
	Backend    string `yaml:"backend" mapstructure:"backend"` // filesystem/postgres
	Root       string `yaml:"root" mapstructure:"root"`
	RenderHTML bool   `yaml:"render_html" mapstructure:"render_html"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Postgres PostgresConfig `yaml:"postgres" mapstructure:"postgres"`
	SQLite   SQLiteConfig   `yaml:"sqlite" mapstructure:"sqlite"`
}

// PostgresConfig PostgreSQL 配置
type PostgresConfig struct {
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            int           `yaml:"port" mapstructure:"port"`
	User            string        `yaml:"user" mapstructure:"user"`
	Password        string        `yaml:"password" mapstructure:"password"`
	Database        string        `yaml:"database" mapstructure:"database"`
	SSLMode         string        `yaml:"ssl_mode" mapstructure:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" mapstructure:"conn_max_idle_time"`
}

// SQLiteConfig 用量台账配置
type SQLiteConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Redis RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled      bool          `yaml:"enabled" mapstructure:"enabled"`
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	Password     string        `yaml:"password" mapstructure:"password"`
	DB           int           `yaml:"db" mapstructure:"db"`
	PoolSize     int           `yaml:"pool_size" mapstructure:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// MessagingConfig 消息配置
type MessagingConfig struct {
	RedisStream RedisStreamConfig `yaml:"redis_stream" mapstructure:"redis_stream"`
}

// RedisStreamConfig Redis Stream 配置
type RedisStreamConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Stream  string `yaml:"stream" mapstructure:"stream"`
	MaxLen  int    `yaml:"max_len" mapstructure:"max_len"`
}

// ObservabilityConfig 可观测性配置
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// TracingConfig 追踪配置
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Port    int    `yaml:"port" mapstructure:"port"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors" mapstructure:"cors"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerSecond int  `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int  `yaml:"burst" mapstructure:"burst"`
}

// CORSConfig CORS 配置
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
}
