package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/neurobridge-backend/internal/data/repos"
	domain "github.com/yungbote/neurobridge-backend/internal/domain"
	"github.com/yungbote/neurobridge-backend/internal/http/response"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
)

type JobHandler struct {
	jobs repos.JobRepo
}

func NewJobHandler(jobs repos.JobRepo) *JobHandler {
	return &JobHandler{jobs: jobs}
}

type submitJobRequest struct {
	Parameters datatypes.JSON `json:"parameters"`
	Priority   string         `json:"priority" validate:"omitempty,oneof=low normal high critical"`
}

// POST /jobs/:type
func (h *JobHandler) SubmitJob(c *gin.Context) {
	jobType := c.Param("type")
	if jobType == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_job_type", nil)
		return
	}

	var req submitJobRequest
	if err := bindAndValidate(c, &req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	priority := req.Priority
	if priority == "" {
		priority = domain.JobPriorityNormal
	}
	params := req.Parameters
	if params == nil {
		params = datatypes.JSON([]byte("{}"))
	}

	job := &domain.Job{
		ID:         uuid.New(),
		Type:       jobType,
		Priority:   priority,
		Status:     domain.JobStatusPending,
		Parameters: params,
		Result:     datatypes.JSON([]byte("{}")),
	}

	created, err := h.jobs.Create(dbctx.Bare(c.Request.Context()), job)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "job_create_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"job": created})
}

// GET /jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_job_id", err)
		return
	}
	job, err := h.jobs.GetByID(dbctx.Bare(c.Request.Context()), jobID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "job_lookup_failed", err)
		return
	}
	if job == nil {
		response.RespondError(c, http.StatusNotFound, "job_not_found", nil)
		return
	}
	response.RespondOK(c, gin.H{"job": job})
}

// DELETE /jobs/:id
func (h *JobHandler) CancelJob(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_job_id", err)
		return
	}
	cancelled, err := h.jobs.RequestCancel(dbctx.Bare(c.Request.Context()), jobID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "cancel_job_failed", err)
		return
	}
	if !cancelled {
		response.RespondError(c, http.StatusConflict, "job_not_cancellable", nil)
		return
	}
	c.Status(http.StatusNoContent)
}
