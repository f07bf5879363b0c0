package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"jobly/internal/apperr"
)

// respondError renders a failure through the taxonomy's status table and
// aborts the chain. Taxonomy messages are surfaced verbatim; anything
// unclassified is a server fault — logged in full, reported generically.
func respondError(c *gin.Context, err error) {
	status := apperr.StatusCode(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// respondBindError wraps a gin binding/validation failure as InvalidInput
// so it flows through the same table as the core's own checks.
func respondBindError(c *gin.Context, err error) {
	respondError(c, apperr.InvalidInput("%s", err.Error()))
}
