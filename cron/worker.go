package cron

import (
	"context"
	"fmt"
	"time"

	"collabhub/config"
	"collabhub/services/storage"
	"collabhub/services/tasks"
	"collabhub/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// QueueRedisOpt is the asynq connection for the cleanup queue.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitCleanupWorker runs the orphan blob cleanup worker in background.
func InitCleanupWorker(blobs storage.BlobStore) *asynq.Server {
	logger := utils.GetLogger()
	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBlobCleanup, handleBlobCleanup(blobs))

	go func() {
		logger.Info("Starting blob cleanup worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				break
			}
			logger.Error("Cleanup worker failed to start", zap.Int("attempt", attempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal("Cleanup worker: max retry attempts reached")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

func handleBlobCleanup(blobs storage.BlobStore) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseBlobCleanupPayload(task)
		if err != nil {
			utils.GetLogger().Error("Dropping blob cleanup task", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if err := blobs.Delete(ctx, p.Bucket, p.Key); err != nil {
			utils.GetLogger().Warn("Failed to delete orphaned blob", zap.String("bucket", p.Bucket), zap.String("key", p.Key), zap.Error(err))
			return err
		}
		utils.GetLogger().Info("Deleted orphaned blob", zap.String("bucket", p.Bucket), zap.String("key", p.Key))
		return nil
	}
}
