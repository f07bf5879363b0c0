package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobly/internal/models"
)

// ListCompanies returns companies ordered by name, narrowed by the
// optional name/minEmployees/maxEmployees query filters.
func (h *Handler) ListCompanies(c *gin.Context) {
	var filter models.CompanyFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondBindError(c, err)
		return
	}

	companies, err := h.companies.FindAll(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

// GetCompany returns one company with its jobs.
func (h *Handler) GetCompany(c *gin.Context) {
	company, err := h.companies.Get(c.Request.Context(), c.Param("handle"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": company})
}

// CreateCompany creates a company. Admin only.
func (h *Handler) CreateCompany(c *gin.Context) {
	var req models.CompanyCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	company, err := h.companies.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"company": company})
}

// UpdateCompany applies a partial update to a company. Admin only.
func (h *Handler) UpdateCompany(c *gin.Context) {
	var req models.CompanyUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	company, err := h.companies.Update(c.Request.Context(), c.Param("handle"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": company})
}

// DeleteCompany removes a company and, via cascade, its jobs. Admin only.
func (h *Handler) DeleteCompany(c *gin.Context) {
	handle := c.Param("handle")
	if err := h.companies.Delete(c.Request.Context(), handle); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": handle})
}
