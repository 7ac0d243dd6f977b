package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"manuscript-gen/internal/application/manuscript"
	"manuscript-gen/internal/config"
	einoobs "manuscript-gen/internal/observability/eino"
	"manuscript-gen/internal/wire"
	"manuscript-gen/pkg/logger"
	"manuscript-gen/pkg/tracer"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

var (
	configDir  string
	appEnv     string
	continuous bool

	// 由 PersistentPreRunE 填充
	cfg            *config.Config
	shutdownTracer func(context.Context) error
	stopSignals    context.CancelFunc
)

var rootCmd = &cobra.Command{
	Use:   "manuscript-gen",
	Short: "Generate manuscripts through a logged-in chat web interface",
	Long: `Takes the next idea from the work queue, drives the chat interface through
outline, chapter titles, chapters and a final polish, and stores every stage
output. With --continuous it keeps going until the queue has no eligible items.`,
	SilenceUsage:       true,
	PersistentPreRunE:  bootstrap,
	PersistentPostRunE: teardown,
	RunE:               runGenerate,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "configs", "directory holding config.yaml")
	rootCmd.PersistentFlags().StringVar(&appEnv, "env", "", "config overlay to apply (defaults to APP_ENV)")
	rootCmd.Flags().BoolVar(&continuous, "continuous", false, "keep processing until the queue is exhausted")
}

func bootstrap(cmd *cobra.Command, _ []string) error {
	// 加载 .env 文件（如果存在）
	_ = godotenv.Load()

	if appEnv == "" {
		appEnv = os.Getenv("APP_ENV")
	}
	loaded, err := config.LoadFrom(configDir, appEnv)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg = loaded

	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	stopSignals = stop
	cmd.SetContext(ctx)

	shutdownTracer, err = tracer.Init(ctx, tracer.Config{
		ServiceName: cfg.App.Name,
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		return fmt.Errorf("failed to init tracer: %w", err)
	}

	// 注册模板渲染的 Eino 全局 callbacks
	einoobs.Init()

	logger.Debug(ctx, "config loaded",
		"version", Version,
		"build_time", BuildTime,
		"env", cfg.App.Env,
	)
	return nil
}

func teardown(cmd *cobra.Command, _ []string) error {
	if stopSignals != nil {
		defer stopSignals()
	}
	if shutdownTracer == nil {
		return nil
	}
	if err := shutdownTracer(context.Background()); err != nil {
		logger.Error(cmd.Context(), "failed to shutdown tracer", err)
	}
	return nil
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if cfg.Session.Credential == "" {
		fmt.Fprintln(os.Stderr, red("✗ "+config.CredentialEnv+" is not set"))
		return fmt.Errorf("missing session credential")
	}

	sess, client, err := openSession(ctx, cfg)
	if err != nil {
		logger.Error(ctx, "failed to open session", err)
		return err
	}
	defer func() { _ = sess.Close() }()
	reportCredential(sess)

	orch, cleanup, err := wire.InitializePipeline(ctx, cfg, client)
	if err != nil {
		logger.Error(ctx, "failed to initialize pipeline", err)
		return err
	}
	defer cleanup()

	driver := manuscript.NewDriver(orch, cfg.Pipeline.ItemBackoff)
	if continuous {
		n, err := driver.Run(ctx)
		if err != nil {
			return stopped(ctx, err)
		}
		fmt.Printf("%s processed %d item(s), queue exhausted\n", green("✓"), n)
		return nil
	}

	res, err := driver.RunOnce(ctx)
	if err != nil {
		return stopped(ctx, err)
	}
	if res == nil {
		fmt.Println(yellow("No eligible work items"))
		return nil
	}
	printResult(res)
	return nil
}

// stopped 中断不视为失败
func stopped(ctx context.Context, err error) error {
	if manuscript.IsCanceled(err) {
		logger.Warn(ctx, "interrupted, item left in progress")
		return nil
	}
	logger.Error(ctx, "generation halted", err)
	return err
}

func printResult(res *manuscript.Result) {
	fmt.Printf("%s %s\n", green("✓"), bold(res.WorkItem.Title))
	fmt.Printf("  chapters: %d/%d\n", len(res.Chapters), len(res.Titles))
	if len(res.FailedChapters) > 0 {
		fmt.Printf("  %s %v\n", yellow("failed chapters:"), res.FailedChapters)
	}
	fmt.Printf("  words:    %d\n", res.WordCount)
	fmt.Printf("  output:   %s\n", res.Location)
	fmt.Printf("  %s\n", gray("took "+res.Duration.Round(time.Second).String()))
}
