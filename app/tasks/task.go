package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/lysyi3m/rssget/app/feed"
)

type TaskType string

const (
	TaskTypeFetchFeed TaskType = "fetch_feed"
)

type TaskInterface interface {
	Execute(ctx context.Context) (*feed.Channel, error)
	GetID() string
	GetType() TaskType
	GetFeedURL() string
	Start()
	GetDuration() time.Duration
}

type Task struct {
	ID        string
	Type      TaskType
	FeedURL   string
	StartedAt *time.Time
}

func (t *Task) GetID() string {
	return t.ID
}

func (t *Task) GetType() TaskType {
	return t.Type
}

func (t *Task) GetFeedURL() string {
	return t.FeedURL
}

func (t *Task) Start() {
	now := time.Now()
	t.StartedAt = &now
}

func (t *Task) GetDuration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return time.Since(*t.StartedAt)
}

// NewTask builds the shared task header. index is the source position, which
// keeps IDs unique within a run.
func NewTask(taskType TaskType, feedURL string, index int) Task {
	return Task{
		ID:      fmt.Sprintf("%s-%d", taskType, index),
		Type:    taskType,
		FeedURL: feedURL,
	}
}
