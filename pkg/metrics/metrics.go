// Package metrics 提供 Prometheus 指标采集功能
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "manuscript_gen"
)

var (
	// HTTP 请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.05, .25, 1, 5, 15, 30, 60, 120, 300},
		},
		[]string{"method", "path"},
	)

	// 浏览器交互指标
	PromptTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "browser",
			Name:      "prompt_total",
			Help:      "Total number of prompts submitted to the conversational UI",
		},
		[]string{"status"}, // status: ok/locator_not_found/response_timeout/extraction_failure/error
	)

	PromptDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "browser",
			Name:      "prompt_duration_seconds",
			Help:      "Time from submission to extracted response",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"status"},
	)

	ResponseChars = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "browser",
			Name:      "response_chars",
			Help:      "Extracted response length in characters",
			Buckets:   prometheus.ExponentialBuckets(100, 4, 7),
		},
	)

	SessionOpenTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "browser",
			Name:      "session_open_total",
			Help:      "Session open attempts by outcome",
		},
		[]string{"outcome"}, // outcome: ready/interactive/failed
	)

	// 流水线指标
	StageTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_total",
			Help:      "Pipeline stage executions",
		},
		[]string{"stage", "status"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage duration in seconds",
			Buckets:   []float64{5, 30, 60, 120, 300, 900, 1800, 3600},
		},
		[]string{"stage"},
	)

	ChapterFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "chapter_failures_total",
			Help:      "Chapters skipped because generation failed",
		},
	)

	ManuscriptTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "manuscript_total",
			Help:      "Manuscripts processed by outcome",
		},
		[]string{"status"},
	)

	ManuscriptWordCount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "manuscript_word_count",
			Help:      "Word count of finished manuscripts",
			Buckets:   []float64{1000, 5000, 10000, 20000, 40000, 60000, 100000},
		},
	)

	// 远程单次调用指标
	RemoteInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "remote",
			Name:      "in_flight",
			Help:      "Remote single-prompt executions currently running",
		},
	)

	// 模板渲染指标
	TemplateRenderTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "prompt",
			Name:      "template_render_total",
			Help:      "Prompt template renders by outcome",
		},
		[]string{"status"},
	)

	TemplateRenderChars = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "prompt",
			Name:      "template_render_chars",
			Help:      "Size of rendered prompt text in characters",
			Buckets:   prometheus.ExponentialBuckets(128, 2, 8),
		},
	)
)
