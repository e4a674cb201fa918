package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const TypeBlobCleanup = "blob:cleanup"

// BlobCleanupPayload names an uploaded object that no onboarding row references.
type BlobCleanupPayload struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

func NewBlobCleanupTask(payload BlobCleanupPayload, delay time.Duration) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBlobCleanup, b)
	opts := []asynq.Option{asynq.ProcessIn(delay), asynq.MaxRetry(5)}

	return task, opts, nil
}

func ParseBlobCleanupPayload(task *asynq.Task) (BlobCleanupPayload, error) {
	var p BlobCleanupPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid blob cleanup payload: %w", err)
	}
	if p.Bucket == "" || p.Key == "" {
		return p, fmt.Errorf("invalid blob cleanup payload: bucket and key are required")
	}
	return p, nil
}

// Enqueuer is the subset of *asynq.Client used to schedule tasks.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqReaper schedules delayed deletion of orphaned onboarding uploads.
type AsynqReaper struct {
	Client Enqueuer
	Delay  time.Duration
}

func NewAsynqReaper(client Enqueuer, delay time.Duration) *AsynqReaper {
	return &AsynqReaper{Client: client, Delay: delay}
}

func (r *AsynqReaper) ScheduleCleanup(ctx context.Context, bucket, key string) error {
	task, opts, err := NewBlobCleanupTask(BlobCleanupPayload{Bucket: bucket, Key: key}, r.Delay)
	if err != nil {
		return err
	}
	if _, err := r.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue blob cleanup: %w", err)
	}
	return nil
}
