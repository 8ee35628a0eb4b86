package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/iEmiya/ruaddress/internal/errors"
	"github.com/iEmiya/ruaddress/internal/jobs"
	"github.com/iEmiya/ruaddress/model"
)

// RebuildHandler handles POST /rebuild. The store is rebuilt from the
// configured source in a background job; with ?wait=true the request blocks
// until the rebuild is done and returns its statistics.
func (api *API) RebuildHandler(c *gin.Context) {
	if api.sources == nil {
		SendError(c, http.StatusNotImplemented, ErrorCodeRebuildDisabled, "Rebuild is not configured on this server")
		return
	}
	wait, _ := strconv.ParseBool(c.DefaultQuery("wait", "false"))

	src, err := api.sources()
	if err != nil {
		SendInternalError(c, "opening source", err)
		return
	}

	if wait {
		defer func() { _ = src.Close() }()
		stats, err := api.backend.RebuildFromSource(c.Request.Context(), src)
		if err != nil {
			api.sendRebuildError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
		return
	}

	jobID, err := api.backend.RebuildAsync(src)
	if err != nil {
		if errors.Is(err, apperrors.ErrRebuildInProgress) {
			_ = src.Close()
		}
		api.sendRebuildError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": "Rebuild started",
		"job_id":  jobID,
	})
}

func (api *API) sendRebuildError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrRebuildInProgress) {
		SendError(c, http.StatusConflict, ErrorCodeRebuildInProgress, "Another rebuild is in progress")
		return
	}
	SendError(c, http.StatusInternalServerError, ErrorCodeRebuildFailed, "Rebuild failed: "+err.Error())
}

// GetJobHandler handles requests to get job status by ID
func (api *API) GetJobHandler(c *gin.Context) {
	jobID := c.Param("jobId")

	job, err := api.backend.GetJob(jobID)
	if err != nil {
		if errors.Is(err, apperrors.ErrJobNotFound) {
			SendJobNotFoundError(c, jobID)
			return
		}
		SendInternalError(c, "job lookup", err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListJobsHandler handles requests to list jobs, optionally by ?status=
func (api *API) ListJobsHandler(c *gin.Context) {
	var statusFilter *model.JobStatus
	if statusParam := c.Query("status"); statusParam != "" {
		status := model.JobStatus(statusParam)
		statusFilter = &status
	}

	list := api.backend.ListJobs(statusFilter)
	c.JSON(http.StatusOK, gin.H{
		"jobs":  list,
		"total": len(list),
	})
}

// GetJobMetricsHandler handles requests to get job performance metrics
func (api *API) GetJobMetricsHandler(c *gin.Context) {
	withMetrics, ok := api.backend.(interface{ GetJobMetrics() jobs.JobMetricsData })
	if !ok {
		SendError(c, http.StatusNotImplemented, ErrorCodeInternalError, "Job metrics not supported by this backend")
		return
	}

	metrics := withMetrics.GetJobMetrics()
	var successRate float64
	if finished := metrics.JobsCompleted + metrics.JobsFailed; finished > 0 {
		successRate = float64(metrics.JobsCompleted) / float64(finished) * 100
	}
	c.JSON(http.StatusOK, gin.H{
		"metrics":      metrics,
		"success_rate": successRate,
	})
}
