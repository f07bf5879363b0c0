package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobly/internal/apperr"
	"jobly/internal/models"
)

// ListJobs returns jobs ordered by id, narrowed by the optional
// title/minSalary/hasEquity query filters.
func (h *Handler) ListJobs(c *gin.Context) {
	var filter models.JobFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondBindError(c, err)
		return
	}

	jobs, err := h.jobs.FindAll(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// GetJob returns one job by id.
func (h *Handler) GetJob(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		respondError(c, apperr.InvalidInput("job id must be an integer"))
		return
	}

	job, err := h.jobs.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

// CreateJob creates a job for an existing company. Admin only.
func (h *Handler) CreateJob(c *gin.Context) {
	var req models.JobCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	job, err := h.jobs.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"job": job})
}

// UpdateJob applies a partial update to a job. Admin only.
func (h *Handler) UpdateJob(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		respondError(c, apperr.InvalidInput("job id must be an integer"))
		return
	}

	var req models.JobUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	job, err := h.jobs.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

// DeleteJob removes a job by id. Admin only.
func (h *Handler) DeleteJob(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		respondError(c, apperr.InvalidInput("job id must be an integer"))
		return
	}

	if err := h.jobs.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
