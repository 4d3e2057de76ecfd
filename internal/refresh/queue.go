// ABOUTME: Sequential import queue for OPML batches with checkpointed progress
// ABOUTME: One fetch at a time with a fixed delay; cancellation stops scheduling only

package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harper/feedvault/internal/models"
)

// TaskState is the lifecycle state of one queued import.
type TaskState string

const (
	TaskPending    TaskState = "pending"
	TaskProcessing TaskState = "processing"
	TaskCompleted  TaskState = "completed"
	TaskFailed     TaskState = "failed"
)

// Task is one feed subscription waiting to be imported.
type Task struct {
	ID    string
	Meta  models.FeedMeta
	State TaskState
	Err   error
}

// checkpointInterval is how many completions pass between checkpoint calls.
const checkpointInterval = 5

// Queue imports feeds one at a time with a fixed delay between fetches, so a
// large OPML import does not hammer origins. Progress is checkpointed every
// few completions and once at the end, letting an interrupted import resume
// from persisted state.
type Queue struct {
	mu      sync.Mutex
	tasks   []*Task
	delay   time.Duration
	service *Service

	// Checkpoint receives every feed imported so far; called every
	// checkpointInterval completions and after the final task.
	Checkpoint func(feeds []*models.Feed) error
}

// NewQueue creates an import queue. delay is the pause between fetches.
func NewQueue(service *Service, delay time.Duration) *Queue {
	return &Queue{service: service, delay: delay}
}

// Enqueue adds import tasks for the given subscriptions.
func (q *Queue) Enqueue(metas []models.FeedMeta) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, meta := range metas {
		q.tasks = append(q.tasks, &Task{
			ID:    uuid.New().String(),
			Meta:  meta,
			State: TaskPending,
		})
	}
}

// Tasks returns a snapshot of the queue's task states.
func (q *Queue) Tasks() []Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Task, len(q.tasks))
	for i, t := range q.tasks {
		out[i] = *t
	}
	return out
}

func (q *Queue) nextPending() *Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, t := range q.tasks {
		if t.State == TaskPending {
			t.State = TaskProcessing
			return t
		}
	}
	return nil
}

func (q *Queue) finish(t *Task, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err != nil {
		t.State = TaskFailed
		t.Err = err
	} else {
		t.State = TaskCompleted
	}
}

// Drain processes pending tasks until none remain or ctx is cancelled.
// Cancellation stops scheduling the next task; an in-flight fetch finishes
// under its own deadline. Returns the feeds imported during this drain.
func (q *Queue) Drain(ctx context.Context) []*models.Feed {
	var imported []*models.Feed
	completed := 0
	for {
		if ctx.Err() != nil {
			break
		}
		task := q.nextPending()
		if task == nil {
			break
		}

		feed, err := q.importOne(ctx, task.Meta)
		q.finish(task, err)
		if err == nil {
			imported = append(imported, feed)
			completed++
			if q.Checkpoint != nil && completed%checkpointInterval == 0 {
				_ = q.Checkpoint(imported)
			}
		}

		if q.delay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(q.delay):
			}
		}
	}
	if q.Checkpoint != nil && completed > 0 && completed%checkpointInterval != 0 {
		_ = q.Checkpoint(imported)
	}
	return imported
}

// importOne fetches a subscription for the first time and applies the
// metadata carried by its OPML outline.
func (q *Queue) importOne(ctx context.Context, meta models.FeedMeta) (*models.Feed, error) {
	seed := &models.Feed{
		Title:              meta.Title,
		URL:                meta.URL,
		Folder:             meta.Folder,
		MediaType:          meta.MediaType,
		MaxItemsLimit:      meta.MaxItemsLimit,
		AutoDeleteDuration: meta.AutoDeleteDuration,
		ScanInterval:       meta.ScanInterval,
	}
	feed, err := q.service.ParseFeed(ctx, meta.URL, seed)
	if err != nil {
		return nil, err
	}
	if meta.Title != "" {
		feed.Title = meta.Title
	}
	if meta.MediaType != "" {
		feed.MediaType = meta.MediaType
	}
	return feed, nil
}
