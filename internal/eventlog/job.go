package eventlog

import (
	"context"
	"time"

	"github.com/osse101/CozyCasino_Go/internal/logger"
)

// CleanupJob prunes journal entries older than the retention period
type CleanupJob struct {
	service   Service
	retention time.Duration
}

// NewCleanupJob creates a new cleanup job. A zero retention keeps everything.
func NewCleanupJob(service Service, retention time.Duration) *CleanupJob {
	return &CleanupJob{service: service, retention: retention}
}

// Process executes the cleanup job
func (j *CleanupJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)
	if j.retention <= 0 {
		log.Debug(LogMsgCleanupDisabled)
		return nil
	}
	log.Info(LogMsgCleanupJobStarting, LogFieldRetention, j.retention)

	start := time.Now()
	count, err := j.service.CleanupOldEvents(ctx, j.retention)
	duration := time.Since(start)

	if err != nil {
		log.Error(LogMsgCleanupJobFailed, LogFieldError, err, LogFieldDuration, duration)
		return err
	}

	log.Info(LogMsgCleanupJobCompleted, LogFieldDeletedCount, count, LogFieldDuration, duration)
	return nil
}
