package api

import (
	"strings"

	"github.com/gin-gonic/gin"

	"jobly/internal/apperr"
	"jobly/internal/auth"
)

// identityKey is where the Authenticate middleware stashes the verified
// caller identity in the request context.
const identityKey = "jobly/identity"

// Authenticate resolves the optional Authorization header. A valid bearer
// token stashes the caller's identity for the gates downstream; no header
// leaves the caller anonymous; a present-but-invalid token fails with
// Unauthenticated immediately.
func Authenticate(tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		id, err := tokens.Verify(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

func identityFrom(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}

// ─────────────────────────────────────────────────────────────────────────────
// Gates — evaluated in order before the handler body
// ─────────────────────────────────────────────────────────────────────────────

// RequireAuth passes any authenticated caller.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := identityFrom(c); !ok {
			respondError(c, apperr.Unauthenticated("Unauthorized"))
			return
		}
		c.Next()
	}
}

// RequireAdmin passes only callers whose identity carries the admin flag.
// Anonymous callers fail with Unauthenticated, not Forbidden: the
// authentication check always precedes the role check.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identityFrom(c)
		if !ok {
			respondError(c, apperr.Unauthenticated("Unauthorized"))
			return
		}
		if !id.IsAdmin {
			respondError(c, apperr.Forbidden("Admin privileges required"))
			return
		}
		c.Next()
	}
}

// RequireSelfOrAdmin passes admins and callers whose username matches the
// named route parameter. Same ordering contract as RequireAdmin.
func RequireSelfOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identityFrom(c)
		if !ok {
			respondError(c, apperr.Unauthenticated("Unauthorized"))
			return
		}
		if !id.IsAdmin && id.Username != c.Param(param) {
			respondError(c, apperr.Forbidden("Must be the account owner or an admin"))
			return
		}
		c.Next()
	}
}
