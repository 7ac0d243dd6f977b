// Package manuscript 驱动单部书稿从大纲到成稿的完整流程
package manuscript

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"manuscript-gen/internal/application/usage"
	"manuscript-gen/internal/browser"
	"manuscript-gen/internal/config"
	"manuscript-gen/internal/domain/entity"
	"manuscript-gen/internal/domain/repository"
	"manuscript-gen/internal/infrastructure/messaging"
	"manuscript-gen/internal/workflow/prompt"
	apperrors "manuscript-gen/pkg/errors"
	"manuscript-gen/pkg/logger"
	"manuscript-gen/pkg/metrics"
	"manuscript-gen/pkg/tracer"
)

// Prompter 提交一条提示并返回回复全文
type Prompter interface {
	SubmitPrompt(ctx context.Context, text string) (string, error)
}

// PrompterFunc 函数适配
type PrompterFunc func(ctx context.Context, text string) (string, error)

func (f PrompterFunc) SubmitPrompt(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// Notifier 书稿生命周期事件
type Notifier interface {
	PublishManuscriptEvent(ctx context.Context, eventType string, evt *messaging.ManuscriptEvent) error
}

// Config 流程节奏
type Config struct {
	StageDelay       time.Duration
	ChapterDelay     time.Duration
	ChapterSeparator string
}

// ConfigFrom 从全局配置构建
func ConfigFrom(cfg config.PipelineConfig) Config {
	c := Config{
		StageDelay:       cfg.StageDelay,
		ChapterDelay:     cfg.ChapterDelay,
		ChapterSeparator: cfg.ChapterSeparator,
	}
	if c.ChapterSeparator == "" {
		c.ChapterSeparator = "\n\n---\n\n"
	}
	return c
}

// Result 一次完整运行的结果
type Result struct {
	RunID          string
	WorkItem       *entity.WorkItem
	Titles         []string
	Chapters       []entity.ChapterDraft
	FailedChapters []int
	Location       string
	WordCount      int
	Duration       time.Duration
}

type Orchestrator struct {
	prompter  Prompter
	queue     repository.WorkQueueRepository
	artifacts repository.ArtifactRepository
	prompts   *prompt.Registry
	usage     *usage.Recorder
	notifier  Notifier
	cfg       Config

	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

type Option func(*Orchestrator)

func WithUsage(r *usage.Recorder) Option {
	return func(o *Orchestrator) { o.usage = r }
}

func WithNotifier(n Notifier) Option {
	return func(o *Orchestrator) { o.notifier = n }
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func WithSleep(fn func(context.Context, time.Duration) error) Option {
	return func(o *Orchestrator) { o.sleep = fn }
}

func NewOrchestrator(
	prompter Prompter,
	queue repository.WorkQueueRepository,
	artifacts repository.ArtifactRepository,
	prompts *prompt.Registry,
	cfg Config,
	opts ...Option,
) *Orchestrator {
	if cfg.ChapterSeparator == "" {
		cfg.ChapterSeparator = "\n\n---\n\n"
	}
	o := &Orchestrator{
		prompter:  prompter,
		queue:     queue,
		artifacts: artifacts,
		prompts:   prompts,
		cfg:       cfg,
		now:       time.Now,
		sleep:     browser.Sleep,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ProcessNext 处理队列中第一个可处理的条目；队列为空时返回 (nil, nil)
func (o *Orchestrator) ProcessNext(ctx context.Context) (*Result, error) {
	queue, err := o.queue.Load(ctx)
	if err != nil {
		return nil, err
	}
	item := queue.NextEligible()
	if item == nil {
		return nil, nil
	}

	runID := uuid.NewString()
	ctx = logger.WithContext(ctx, logger.RunIDKey, runID)
	ctx = logger.WithContext(ctx, logger.WorkItemIDKey, item.ID)
	ctx, span := tracer.Start(ctx, "manuscript.ProcessNext")
	defer span.End()
	span.SetAttributes(
		attribute.String("run.id", runID),
		attribute.String("work_item.id", item.ID),
	)

	if err := item.Start(o.now()); err != nil {
		return nil, err
	}
	if err := o.queue.Save(ctx, queue); err != nil {
		return nil, err
	}
	logger.Info(ctx, "manuscript started",
		"title", item.Title,
		"chapters", item.ChapterCount,
		"target_words", item.TargetWordCount,
	)

	run := &Result{RunID: runID, WorkItem: item}
	started := o.now()
	stage, err := o.generate(ctx, run)
	run.Duration = o.now().Sub(started)
	if err != nil {
		span.RecordError(err)
		metrics.ManuscriptTotal.WithLabelValues("failed").Inc()
		logger.Error(ctx, "manuscript failed", err, "stage", string(stage))
		o.notify(ctx, messaging.EventManuscriptFailed, run, stage, err)
		return nil, apperrors.ErrGenerationFailed.WithDetail(string(stage)).WithError(err)
	}

	metrics.ManuscriptTotal.WithLabelValues("completed").Inc()
	metrics.ManuscriptWordCount.Observe(float64(run.WordCount))
	logger.Info(ctx, "manuscript completed",
		"location", run.Location,
		"chapters_ok", len(run.Chapters),
		"chapters_failed", len(run.FailedChapters),
		"words", run.WordCount,
		"duration_ms", run.Duration.Milliseconds(),
	)
	o.notify(ctx, messaging.EventManuscriptCompleted, run, entity.StageFinal, nil)
	return run, nil
}

// generate 依次执行各阶段，返回出错的阶段
func (o *Orchestrator) generate(ctx context.Context, run *Result) (entity.Stage, error) {
	item := run.WorkItem

	outline, err := o.runStage(ctx, item, entity.StageOutline, prompt.PromptOutlineV1, map[string]any{
		"title":             item.Title,
		"genre":             item.Genre,
		"tone":              item.Tone,
		"target_word_count": item.TargetWordCount,
		"chapter_count":     item.ChapterCount,
		"description":       item.Description,
	})
	if err != nil {
		return entity.StageOutline, err
	}
	if err := o.sleep(ctx, o.cfg.StageDelay); err != nil {
		return entity.StageOutline, err
	}

	rawTitles, err := o.runStage(ctx, item, entity.StageTitles, prompt.PromptChapterTitlesV1, map[string]any{
		"outline":       outline,
		"chapter_count": item.ChapterCount,
	})
	if err != nil {
		return entity.StageTitles, err
	}
	run.Titles = ExtractTitles(rawTitles, item.ChapterCount)
	if len(run.Titles) < item.ChapterCount {
		logger.Warn(ctx, "fewer chapter titles than requested",
			"requested", item.ChapterCount,
			"extracted", len(run.Titles),
		)
	}
	if err := o.sleep(ctx, o.cfg.StageDelay); err != nil {
		return entity.StageTitles, err
	}

	for i, title := range run.Titles {
		n := i + 1
		stage := entity.ChapterStage(n)
		content, err := o.runStage(ctx, item, stage, prompt.PromptChapterV1, map[string]any{
			"chapter_number":      n,
			"title":               item.Title,
			"outline":             outline,
			"chapter_title":       title,
			"chapter_word_target": item.ChapterTarget(),
			"tone":                item.Tone,
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return stage, ctxErr
			}
			// 单章失败跳过，不中断整部书稿
			metrics.ChapterFailures.Inc()
			logger.Error(ctx, "chapter failed, skipping", err, "chapter", n, "chapter_title", title)
			run.FailedChapters = append(run.FailedChapters, n)
			continue
		}
		run.Chapters = append(run.Chapters, entity.ChapterDraft{Number: n, Title: title, Content: content})
		if err := o.sleep(ctx, o.cfg.ChapterDelay); err != nil {
			return stage, err
		}
	}

	combined := Combine(run.Chapters, o.cfg.ChapterSeparator)
	if _, err := o.save(ctx, item.ID, entity.StageCombined, combined); err != nil {
		return entity.StageCombined, err
	}

	polished, err := o.prompt(ctx, item, entity.StageFinal, prompt.PromptPolishV1, map[string]any{
		"manuscript": combined,
	})
	if err != nil {
		return entity.StageFinal, err
	}
	final := TitleBlock(item, o.now()) + polished
	run.Location, err = o.save(ctx, item.ID, entity.StageFinal, final)
	if err != nil {
		return entity.StageFinal, err
	}
	run.WordCount = len(strings.Fields(final))

	if err := o.complete(ctx, item); err != nil {
		return entity.StageFinal, err
	}
	return entity.StageFinal, nil
}

// runStage 提交提示并保存产物
func (o *Orchestrator) runStage(ctx context.Context, item *entity.WorkItem, stage entity.Stage, id prompt.PromptID, vars map[string]any) (string, error) {
	resp, err := o.prompt(ctx, item, stage, id, vars)
	if err != nil {
		return "", err
	}
	if _, err := o.save(ctx, item.ID, stage, resp); err != nil {
		return "", err
	}
	return resp, nil
}

func (o *Orchestrator) prompt(ctx context.Context, item *entity.WorkItem, stage entity.Stage, id prompt.PromptID, vars map[string]any) (string, error) {
	ctx = logger.WithContext(ctx, logger.StageKey, string(stage))
	ctx, span := tracer.Start(ctx, "manuscript.stage")
	defer span.End()
	span.SetAttributes(attribute.String("stage", string(stage)))

	text, err := o.prompts.Render(ctx, id, vars)
	if err != nil {
		return "", err
	}

	logger.Info(ctx, "stage started", "prompt_chars", len(text))
	start := o.now()
	resp, err := o.prompter.SubmitPrompt(ctx, text)
	elapsed := o.now().Sub(start)

	label := stageLabel(stage)
	status := "ok"
	if err != nil {
		status = "failed"
		span.RecordError(err)
	}
	metrics.StageTotal.WithLabelValues(label, status).Inc()
	metrics.StageDuration.WithLabelValues(label).Observe(elapsed.Seconds())

	if recErr := o.usage.Record(ctx, usage.Input{
		WorkItemID:    item.ID,
		Stage:         stage,
		PromptChars:   len(text),
		ResponseChars: len(resp),
		Duration:      elapsed,
		Err:           err,
	}); recErr != nil {
		logger.Warn(ctx, "usage record failed", "error", recErr.Error())
	}

	if err != nil {
		return "", err
	}
	logger.Info(ctx, "stage completed", "response_chars", len(resp), "duration_ms", elapsed.Milliseconds())
	return resp, nil
}

func (o *Orchestrator) save(ctx context.Context, workItemID string, stage entity.Stage, content string) (string, error) {
	return o.artifacts.Save(ctx, &entity.StageOutput{
		WorkItemID: workItemID,
		Stage:      stage,
		Content:    content,
		CreatedAt:  o.now(),
	})
}

// complete 重新读取队列后标记完成，保留运行期间对其他条目的外部修改
func (o *Orchestrator) complete(ctx context.Context, item *entity.WorkItem) error {
	queue, err := o.queue.Load(ctx)
	if err != nil {
		return err
	}
	current := queue.Find(item.ID)
	if current == nil {
		return apperrors.ErrNotFound.WithDetail("work item " + item.ID + " removed from queue")
	}
	if err := current.Complete(o.now()); err != nil {
		return err
	}
	if err := o.queue.Save(ctx, queue); err != nil {
		return err
	}
	*item = *current
	return nil
}

func (o *Orchestrator) notify(ctx context.Context, eventType string, run *Result, stage entity.Stage, cause error) {
	if o.notifier == nil {
		return
	}
	evt := &messaging.ManuscriptEvent{
		RunID:          run.RunID,
		WorkItemID:     run.WorkItem.ID,
		Title:          run.WorkItem.Title,
		Stage:          string(stage),
		Location:       run.Location,
		ChaptersOK:     len(run.Chapters),
		ChaptersFailed: len(run.FailedChapters),
		WordCount:      run.WordCount,
		DurationMs:     run.Duration.Milliseconds(),
	}
	if cause != nil {
		evt.Error = cause.Error()
	}
	// 运行被取消时仍然发出失败事件
	if err := o.notifier.PublishManuscriptEvent(context.WithoutCancel(ctx), eventType, evt); err != nil {
		logger.Warn(ctx, "publish manuscript event failed", "event", eventType, "error", err.Error())
	}
}

func stageLabel(stage entity.Stage) string {
	if stage.IsChapter() {
		return "chapter"
	}
	return string(stage)
}

// IsCanceled 运行是否因上下文取消而终止
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
