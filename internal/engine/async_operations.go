package engine

import (
	"context"
	"fmt"
	"strconv"

	apperrors "github.com/iEmiya/ruaddress/internal/errors"
	"github.com/iEmiya/ruaddress/internal/jobs"
	"github.com/iEmiya/ruaddress/internal/source"
	"github.com/iEmiya/ruaddress/model"
)

// RebuildAsync rebuilds the store from src in a background job and returns
// the job id. The job owns src and closes it when done.
func (e *Engine) RebuildAsync(src source.Source) (string, error) {
	if e.rebuilding.Load() {
		return "", apperrors.ErrRebuildInProgress
	}

	jobID := e.jobManager.CreateJob(model.JobTypeRebuild, map[string]string{
		"operation": "rebuild",
	})

	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return e.executeRebuildJob(ctx, src, job.ID)
	})
	if err != nil {
		_ = src.Close()
		return "", fmt.Errorf("failed to start rebuild job: %w", err)
	}

	return jobID, nil
}

// executeRebuildJob executes the rebuild job.
func (e *Engine) executeRebuildJob(ctx context.Context, src source.Source, jobID string) error {
	defer func() {
		if err := src.Close(); err != nil {
			e.logger.Warn("failed to close source", "job_id", jobID, "error", err)
		}
	}()

	e.jobManager.UpdateJobProgress(jobID, 0, 0, "Reading source")
	stats, err := e.rebuildFromSource(ctx, src, func(current, total int) {
		e.jobManager.UpdateJobProgress(jobID, current, total, "Writing documents")
	})
	if err != nil {
		return err
	}

	e.jobManager.SetJobMetadata(jobID, "build_id", stats.BuildID)
	e.jobManager.SetJobMetadata(jobID, "documents", strconv.Itoa(stats.Documents))
	e.jobManager.SetJobMetadata(jobID, "records", strconv.Itoa(stats.Records))
	return nil
}

// GetJob returns a snapshot of a background job.
func (e *Engine) GetJob(jobID string) (*model.Job, error) {
	return e.jobManager.GetJob(jobID)
}

// ListJobs returns the known jobs, optionally filtered by status.
func (e *Engine) ListJobs(status *model.JobStatus) []*model.Job {
	return e.jobManager.ListJobs(status)
}

// GetJobMetrics returns job counters.
func (e *Engine) GetJobMetrics() jobs.JobMetricsData {
	return e.jobManager.GetMetrics()
}
