// File: internal/jobs/orphan_cleanup.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"scholar_directory_backend/internal/config"
	"scholar_directory_backend/internal/profile"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// OrphanCleanupJob holds dependencies for the orphaned upload sweep.
type OrphanCleanupJob struct {
	profileService profile.Service
	logger         *zap.Logger
	cfg            *config.Config
	cronScheduler  *cron.Cron
}

// NewOrphanCleanupJob creates a new OrphanCleanupJob.
func NewOrphanCleanupJob(
	profileService profile.Service,
	logger *zap.Logger,
	cfg *config.Config,
) *OrphanCleanupJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &OrphanCleanupJob{
		profileService: profileService,
		logger:         logger.Named("OrphanCleanupJob"),
		cfg:            cfg,
		cronScheduler:  scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *OrphanCleanupJob) SetupAndStart() error {
	jobSpec := j.cfg.OrphanCleanupJobSchedule // e.g., "@daily", "0 3 * * *"
	if jobSpec == "" {
		j.logger.Warn("Orphan cleanup job schedule not defined (ORPHAN_CLEANUP_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule orphan cleanup job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Orphan cleanup job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// runJob is the actual work performed by the cron job.
func (j *OrphanCleanupJob) runJob() {
	j.logger.Info("Starting orphan cleanup job run...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	deleted, err := j.profileService.CleanupOrphanUploads(ctx)
	if err != nil {
		j.logger.Error("Orphan cleanup job run failed", zap.Error(err))
	} else {
		j.logger.Info("Orphan cleanup job run completed", zap.Int("uploads_deleted", deleted))
	}
}

// Stop gracefully stops the cron scheduler.
func (j *OrphanCleanupJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping orphan cleanup job scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Orphan cleanup job scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Orphan cleanup job scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

// Info logs routine messages from cron.
func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	cl.zl.Info(msg, fields...)
}

// Error logs error messages from cron.
func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
