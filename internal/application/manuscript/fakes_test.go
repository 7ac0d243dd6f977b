package manuscript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"manuscript-gen/internal/domain/entity"
	"manuscript-gen/internal/infrastructure/messaging"
	apperrors "manuscript-gen/pkg/errors"
)

type memQueue struct {
	mu    sync.Mutex
	data  []byte
	saves int

	// failSaveAt 第 n 次保存（从 1 计）返回错误，队列内容不变
	failSaveAt int
	attempts   int
	loadErr    error
}

func newMemQueue(items ...*entity.WorkItem) *memQueue {
	q := &memQueue{}
	_ = q.Save(context.Background(), &entity.WorkQueue{Items: items})
	q.saves = 0
	q.attempts = 0
	return q
}

func (q *memQueue) Load(context.Context) (*entity.WorkQueue, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.loadErr != nil {
		return nil, q.loadErr
	}
	return q.decode()
}

func (q *memQueue) decode() (*entity.WorkQueue, error) {
	var wq entity.WorkQueue
	if err := json.Unmarshal(q.data, &wq); err != nil {
		return nil, err
	}
	return &wq, nil
}

func (q *memQueue) Save(_ context.Context, wq *entity.WorkQueue) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.attempts++
	if q.failSaveAt > 0 && q.attempts == q.failSaveAt {
		return apperrors.ErrQueuePersistence.WithDetail("write queue").WithError(errors.New("disk full"))
	}
	data, err := json.Marshal(wq)
	if err != nil {
		return err
	}
	q.data = data
	q.saves++
	return nil
}

func (q *memQueue) item(id string) *entity.WorkItem {
	q.mu.Lock()
	defer q.mu.Unlock()
	wq, _ := q.decode()
	return wq.Find(id)
}

type memArtifacts struct {
	mu   sync.Mutex
	outs map[string]*entity.StageOutput
}

func newMemArtifacts() *memArtifacts {
	return &memArtifacts{outs: make(map[string]*entity.StageOutput)}
}

func (a *memArtifacts) Save(_ context.Context, out *entity.StageOutput) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	key := out.WorkItemID + "/" + string(out.Stage)
	cp := *out
	a.outs[key] = &cp
	return "mem://" + key, nil
}

func (a *memArtifacts) Get(_ context.Context, id string, stage entity.Stage) (*entity.StageOutput, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out, ok := a.outs[id+"/"+string(stage)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return out, nil
}

func (a *memArtifacts) content(id string, stage entity.Stage) string {
	out, err := a.Get(context.Background(), id, stage)
	if err != nil {
		return ""
	}
	return out.Content
}

var chapterPrompt = regexp.MustCompile(`You are writing Chapter (\d+) of`)

// scriptedPrompter 按提示内容返回固定回复
type scriptedPrompter struct {
	mu          sync.Mutex
	titles      string
	failChapter map[int]error
	failOutline error
	failTitles  error
	failPolish  error
	prompts     []string
}

func (p *scriptedPrompter) SubmitPrompt(_ context.Context, text string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = append(p.prompts, text)

	switch {
	case strings.HasPrefix(text, "You are a professional book writer"):
		if p.failOutline != nil {
			return "", p.failOutline
		}
		return "# Outline\n\nA fine outline.", nil
	case strings.Contains(text, "extract ONLY the chapter titles"):
		if p.failTitles != nil {
			return "", p.failTitles
		}
		return p.titles, nil
	case chapterPrompt.MatchString(text):
		var n int
		fmt.Sscanf(chapterPrompt.FindStringSubmatch(text)[1], "%d", &n)
		if err := p.failChapter[n]; err != nil {
			return "", err
		}
		return fmt.Sprintf("# Chapter %d\n\nBody %d.", n, n), nil
	case strings.Contains(text, "lightly polish"):
		if p.failPolish != nil {
			return "", p.failPolish
		}
		i := strings.Index(text, "MANUSCRIPT:\n")
		return "POLISHED\n" + text[i+len("MANUSCRIPT:\n"):], nil
	}
	return "", errors.New("unexpected prompt")
}

type recordingNotifier struct {
	events []string
	last   *messaging.ManuscriptEvent
}

func (n *recordingNotifier) PublishManuscriptEvent(_ context.Context, eventType string, evt *messaging.ManuscriptEvent) error {
	n.events = append(n.events, eventType)
	n.last = evt
	return nil
}
