// Package wire 提供依赖注入配置
package wire

import (
	"context"
	"fmt"

	"manuscript-gen/internal/application/manuscript"
	"manuscript-gen/internal/application/remote"
	"manuscript-gen/internal/application/usage"
	"manuscript-gen/internal/browser"
	"manuscript-gen/internal/config"
	"manuscript-gen/internal/domain/repository"
	"manuscript-gen/internal/infrastructure/chrome"
	"manuscript-gen/internal/infrastructure/messaging"
	"manuscript-gen/internal/infrastructure/persistence/filesystem"
	"manuscript-gen/internal/infrastructure/persistence/jsonfile"
	"manuscript-gen/internal/infrastructure/persistence/postgres"
	"manuscript-gen/internal/infrastructure/persistence/redis"
	"manuscript-gen/internal/infrastructure/persistence/sqlite"
	"manuscript-gen/internal/infrastructure/render"
	"manuscript-gen/internal/interfaces/http/handler"
	"manuscript-gen/internal/interfaces/http/router"
	"manuscript-gen/internal/workflow/prompt"
	"manuscript-gen/pkg/logger"
)

// ProvideRedisClient 提供 Redis 客户端；未启用时返回 nil
func ProvideRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug(ctx, "redis connected", "host", cfg.Cache.Redis.Host)
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvidePostgresClient 仅在产物存于 Postgres 时连接并建表
func ProvidePostgresClient(ctx context.Context, cfg *config.Config) (*postgres.Client, func(), error) {
	if cfg.Storage.Artifacts.Backend != "postgres" {
		return nil, func() {}, nil
	}
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	if err := client.Migrate(ctx); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideQueueRepository 按配置选择队列存储
func ProvideQueueRepository(cfg *config.Config, rc *redis.Client) (repository.WorkQueueRepository, error) {
	qc := cfg.Storage.Queue
	switch qc.Backend {
	case "", "file":
		return jsonfile.NewQueueRepository(qc.Path), nil
	case "redis":
		if rc == nil {
			return nil, fmt.Errorf("queue backend redis requires cache.redis.enabled")
		}
		return redis.NewQueueRepository(rc, qc.RedisKey), nil
	default:
		return nil, fmt.Errorf("unknown queue backend: %s", qc.Backend)
	}
}

// ProvideArtifactRepository 按配置选择产物存储
func ProvideArtifactRepository(cfg *config.Config, pg *postgres.Client) (repository.ArtifactRepository, error) {
	ac := cfg.Storage.Artifacts
	switch ac.Backend {
	case "", "filesystem":
		var opts []filesystem.Option
		if ac.RenderHTML {
			opts = append(opts, filesystem.WithHTMLExport(render.NewRenderer()))
		}
		return filesystem.NewArtifactRepository(ac.Root, opts...), nil
	case "postgres":
		if pg == nil {
			return nil, fmt.Errorf("artifact backend postgres not connected")
		}
		return postgres.NewArtifactRepository(pg), nil
	default:
		return nil, fmt.Errorf("unknown artifact backend: %s", ac.Backend)
	}
}

// ProvideUsageRepository 用量台账；未启用时返回 nil
func ProvideUsageRepository(cfg *config.Config) (repository.PromptEventRepository, func(), error) {
	if !cfg.Database.SQLite.Enabled {
		return nil, func() {}, nil
	}
	repo, err := sqlite.Open(cfg.Database.SQLite.Path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = repo.Close()
	}
	return repo, cleanup, nil
}

// ProvideUsageRecorder 提供用量记录器
func ProvideUsageRecorder(repo repository.PromptEventRepository) *usage.Recorder {
	return usage.NewRecorder(repo)
}

// ProvideNotifier 事件发布；未启用或无 Redis 时返回 nil
func ProvideNotifier(ctx context.Context, cfg *config.Config, rc *redis.Client) manuscript.Notifier {
	sc := cfg.Messaging.RedisStream
	if !sc.Enabled {
		return nil
	}
	if rc == nil {
		logger.Warn(ctx, "event stream enabled without redis, events disabled")
		return nil
	}
	return messaging.NewProducer(rc.Redis(), sc.Stream, int64(sc.MaxLen))
}

// ProvidePipelineConfig 流程节奏
func ProvidePipelineConfig(cfg *config.Config) manuscript.Config {
	return manuscript.ConfigFrom(cfg.Pipeline)
}

// ProvideOrchestrator 组装流程编排器
func ProvideOrchestrator(
	prompter manuscript.Prompter,
	queue repository.WorkQueueRepository,
	artifacts repository.ArtifactRepository,
	prompts *prompt.Registry,
	pcfg manuscript.Config,
	recorder *usage.Recorder,
	notifier manuscript.Notifier,
) *manuscript.Orchestrator {
	opts := []manuscript.Option{manuscript.WithUsage(recorder)}
	if notifier != nil {
		opts = append(opts, manuscript.WithNotifier(notifier))
	}
	return manuscript.NewOrchestrator(prompter, queue, artifacts, prompts, pcfg, opts...)
}

// ProvideBrowserOptions 定位策略与等待参数
func ProvideBrowserOptions(cfg *config.Config) (browser.Options, error) {
	return browser.OptionsFromConfig(cfg)
}

// ProvideLauncher 浏览器启动器
func ProvideLauncher(cfg *config.Config) *chrome.Launcher {
	return chrome.NewLauncher(cfg.Browser)
}

// ProvideExecutor 远程单次提示执行器
func ProvideExecutor(l *chrome.Launcher, opts browser.Options, cfg *config.Config) *remote.Executor {
	return remote.NewExecutor(l, opts, cfg.Remote)
}

// ProvideRouter 组装 HTTP 路由
func ProvideRouter(cfg *config.Config, exec *remote.Executor, recorder *usage.Recorder, rc *redis.Client, pg *postgres.Client) *router.Router {
	deps := router.Deps{
		Executor: exec,
		Usage:    recorder,
		Health:   map[string]handler.HealthChecker{"redis": nil, "postgres": nil},
	}
	if rc != nil {
		deps.Health["redis"] = rc
		deps.Limiter = redis.NewRateLimiter(rc)
	}
	if pg != nil {
		deps.Health["postgres"] = pg
	}
	return router.New(cfg, deps)
}
