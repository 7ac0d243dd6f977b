// Package sqlite 提供本地 SQLite 用量台账
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	_ "modernc.org/sqlite"

	"manuscript-gen/internal/domain/entity"
	"manuscript-gen/internal/domain/repository"
)

var tracer = otel.Tracer("sqlite")

const schema = `
CREATE TABLE IF NOT EXISTS prompt_events (
	id TEXT PRIMARY KEY,
	work_item_id TEXT NOT NULL,
	stage TEXT NOT NULL,
	prompt_chars INTEGER NOT NULL DEFAULT 0,
	response_chars INTEGER NOT NULL DEFAULT 0,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	error TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_prompt_events_item ON prompt_events(work_item_id, created_at);
`

// PromptEventRepository 提示用量表
type PromptEventRepository struct {
	db *sql.DB
}

var _ repository.PromptEventRepository = (*PromptEventRepository)(nil)

// Open 打开（或创建）数据库，path 为 ":memory:" 时使用内存库
func Open(path string) (*PromptEventRepository, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// 单连接：内存库每个连接相互独立
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &PromptEventRepository{db: db}, nil
}

// Close 关闭数据库
func (r *PromptEventRepository) Close() error {
	return r.db.Close()
}

// Create 写入一条记录
func (r *PromptEventRepository) Create(ctx context.Context, e *entity.PromptEvent) error {
	ctx, span := tracer.Start(ctx, "sqlite.PromptEventRepository.Create")
	defer span.End()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO prompt_events (id, work_item_id, stage, prompt_chars, response_chars, duration_ms, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.WorkItemID, string(e.Stage), e.PromptChars, e.ResponseChars, e.DurationMs,
		string(e.Status), e.Error, e.CreatedAt.UnixMilli(),
	)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to insert prompt event: %w", err)
	}
	return nil
}

// ListByWorkItem 按时间顺序分页列出
func (r *PromptEventRepository) ListByWorkItem(ctx context.Context, workItemID string, p repository.Pagination) (*repository.PagedResult[*entity.PromptEvent], error) {
	ctx, span := tracer.Start(ctx, "sqlite.PromptEventRepository.ListByWorkItem")
	defer span.End()

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM prompt_events WHERE work_item_id = ?`, workItemID,
	).Scan(&total); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count prompt events: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, work_item_id, stage, prompt_chars, response_chars, duration_ms, status, error, created_at
		FROM prompt_events WHERE work_item_id = ?
		ORDER BY created_at ASC, rowid ASC
		LIMIT ? OFFSET ?`, workItemID, p.Limit(), p.Offset())
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list prompt events: %w", err)
	}
	defer rows.Close()

	var items []*entity.PromptEvent
	for rows.Next() {
		var (
			e       entity.PromptEvent
			stage   string
			status  string
			created int64
		)
		if err := rows.Scan(&e.ID, &e.WorkItemID, &stage, &e.PromptChars, &e.ResponseChars,
			&e.DurationMs, &status, &e.Error, &created); err != nil {
			return nil, fmt.Errorf("failed to scan prompt event: %w", err)
		}
		e.Stage = entity.Stage(stage)
		e.Status = entity.PromptStatus(status)
		e.CreatedAt = time.UnixMilli(created)
		items = append(items, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate prompt events: %w", err)
	}
	return repository.NewPagedResult(items, total, p), nil
}

// Summarize 汇总用量；workItemID 为空时按书稿分组返回全部
func (r *PromptEventRepository) Summarize(ctx context.Context, workItemID string) ([]*entity.UsageSummary, error) {
	ctx, span := tracer.Start(ctx, "sqlite.PromptEventRepository.Summarize")
	defer span.End()

	query := `
		SELECT work_item_id, COUNT(*),
			SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END),
			SUM(prompt_chars), SUM(response_chars), SUM(duration_ms)
		FROM prompt_events`
	var args []any
	if workItemID != "" {
		query += ` WHERE work_item_id = ?`
		args = append(args, workItemID)
	}
	query += ` GROUP BY work_item_id ORDER BY MIN(created_at) ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to summarize prompt events: %w", err)
	}
	defer rows.Close()

	var out []*entity.UsageSummary
	for rows.Next() {
		var s entity.UsageSummary
		if err := rows.Scan(&s.WorkItemID, &s.Prompts, &s.Failures, &s.PromptChars, &s.ResponseChars, &s.DurationMs); err != nil {
			return nil, fmt.Errorf("failed to scan usage summary: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
