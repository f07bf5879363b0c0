// Package api wires the repositories behind a gin router: JSON binding on
// the way in, authorization gates per route, and the error taxonomy's
// status mapping on the way out.
package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"jobly/internal/auth"
	"jobly/internal/repo"
)

// Handler holds the repositories and the token issuer. It carries no
// per-request state; gin invokes its methods concurrently.
type Handler struct {
	companies repo.CompanyRepository
	jobs      repo.JobRepository
	users     repo.UserRepository
	tokens    *auth.TokenIssuer
}

// NewHandler returns a Handler over the given collaborators.
func NewHandler(
	companies repo.CompanyRepository,
	jobs repo.JobRepository,
	users repo.UserRepository,
	tokens *auth.TokenIssuer,
) *Handler {
	return &Handler{companies: companies, jobs: jobs, users: users, tokens: tokens}
}

// Register mounts all routes on r. Route-level gates encode the
// authorization contract: listing companies and jobs is anonymous,
// mutating them is admin-only, and user records belong to their owner
// or an admin.
func (h *Handler) Register(r *gin.Engine) {
	registerValidations()

	r.Use(Authenticate(h.tokens))

	r.POST("/auth/token", h.Login)
	r.POST("/auth/register", h.RegisterUser)

	companies := r.Group("/companies")
	{
		companies.GET("", h.ListCompanies)
		companies.GET("/:handle", h.GetCompany)
		companies.POST("", RequireAdmin(), h.CreateCompany)
		companies.PATCH("/:handle", RequireAdmin(), h.UpdateCompany)
		companies.DELETE("/:handle", RequireAdmin(), h.DeleteCompany)
	}

	jobs := r.Group("/jobs")
	{
		jobs.GET("", h.ListJobs)
		jobs.GET("/:id", h.GetJob)
		jobs.POST("", RequireAdmin(), h.CreateJob)
		jobs.PATCH("/:id", RequireAdmin(), h.UpdateJob)
		jobs.DELETE("/:id", RequireAdmin(), h.DeleteJob)
	}

	users := r.Group("/users")
	{
		users.GET("", RequireAdmin(), h.ListUsers)
		users.POST("", RequireAdmin(), h.CreateUser)
		users.GET("/:username", RequireSelfOrAdmin("username"), h.GetUser)
		users.PATCH("/:username", RequireSelfOrAdmin("username"), h.UpdateUser)
		users.DELETE("/:username", RequireSelfOrAdmin("username"), h.DeleteUser)
		users.POST("/:username/jobs/:id", RequireSelfOrAdmin("username"), h.ApplyToJob)
	}
}

// registerValidations adds the equity range check to gin's validator so
// create payloads fail at binding time with the other field errors.
func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("equity", func(fl validator.FieldLevel) bool {
		f, err := strconv.ParseFloat(fl.Field().String(), 64)
		return err == nil && f >= 0 && f <= 1
	})
}

// jobID parses the :id route parameter.
func jobID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
