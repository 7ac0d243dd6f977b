//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"manuscript-gen/internal/application/manuscript"
	"manuscript-gen/internal/application/usage"
	"manuscript-gen/internal/config"
	"manuscript-gen/internal/domain/repository"
	"manuscript-gen/internal/interfaces/http/router"
	"manuscript-gen/internal/workflow/prompt"
)

// StorageSet 队列、产物与台账
var StorageSet = wire.NewSet(
	ProvideRedisClient,
	ProvidePostgresClient,
	ProvideQueueRepository,
	ProvideArtifactRepository,
	ProvideUsageRepository,
	ProvideUsageRecorder,
)

// PipelineSet 流程编排
var PipelineSet = wire.NewSet(
	StorageSet,
	prompt.NewRegistry,
	ProvideNotifier,
	ProvidePipelineConfig,
	ProvideOrchestrator,
)

// ServerSet 远程提示服务
var ServerSet = wire.NewSet(
	ProvideRedisClient,
	ProvidePostgresClient,
	ProvideUsageRepository,
	ProvideUsageRecorder,
	ProvideBrowserOptions,
	ProvideLauncher,
	ProvideExecutor,
	ProvideRouter,
)

// InitializePipeline 初始化书稿流程，prompter 由已打开的会话提供
func InitializePipeline(ctx context.Context, cfg *config.Config, prompter manuscript.Prompter) (*manuscript.Orchestrator, func(), error) {
	wire.Build(PipelineSet)
	return nil, nil, nil
}

// InitializeServer 初始化 HTTP 服务
func InitializeServer(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(ServerSet)
	return nil, nil, nil
}

// InitializeQueue 仅初始化队列存储（queue 子命令）
func InitializeQueue(ctx context.Context, cfg *config.Config) (repository.WorkQueueRepository, func(), error) {
	wire.Build(ProvideRedisClient, ProvideQueueRepository)
	return nil, nil, nil
}

// InitializeUsage 仅初始化用量台账（usage 子命令）
func InitializeUsage(ctx context.Context, cfg *config.Config) (*usage.Recorder, func(), error) {
	wire.Build(ProvideUsageRepository, ProvideUsageRecorder)
	return nil, nil, nil
}
