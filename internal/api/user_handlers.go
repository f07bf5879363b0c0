package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobly/internal/apperr"
	"jobly/internal/models"
)

// ListUsers returns all users ordered by username. Admin only.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.users.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// CreateUser creates a user, possibly an admin one. Admin only — unlike
// self-registration, which never grants the flag.
func (h *Handler) CreateUser(c *gin.Context) {
	var req models.UserCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.users.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// GetUser returns one user with their application job ids. Self or admin.
func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateUser applies a partial update to a user. Self or admin.
func (h *Handler) UpdateUser(c *gin.Context) {
	var req models.UserUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("username"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteUser removes a user; their applications cascade away. Self or admin.
func (h *Handler) DeleteUser(c *gin.Context) {
	username := c.Param("username")
	if err := h.users.Delete(c.Request.Context(), username); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": username})
}

// ApplyToJob records an application by the user to the job. Self or admin.
func (h *Handler) ApplyToJob(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		respondError(c, apperr.InvalidInput("job id must be an integer"))
		return
	}

	applied, err := h.users.ApplyToJob(c.Request.Context(), c.Param("username"), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"applied": applied})
}
