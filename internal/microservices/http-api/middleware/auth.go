package middleware

import (
	"errors"
	"net/http"
	"strings"

	"yamdb/internal/logging"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/policy"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

const userKey = "user"

// Authenticate resolves an optional bearer token to the stored user. A
// request without an Authorization header continues anonymously; a header
// that is malformed or carries a bad token is rejected with 401.
func Authenticate(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		// format: "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			unauthorized(c, "Authorization header must contain two space-delimited values")
			return
		}

		user, err := authService.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				unauthorized(c, "Given token not valid for any token type")
				return
			}
			logging.Ctx(c.Request.Context()).Error().Err(err).Msg("authenticate request")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// Authorize runs the entry check of p against the current caller.
func Authorize(p policy.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := p.Entry(CurrentUser(c), c.Request.Method)
		if d.Allowed {
			c.Next()
			return
		}
		if d.Unauthenticated {
			unauthorized(c, d.Reason)
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": d.Reason})
	}
}

// CurrentUser returns the authenticated user or nil for anonymous callers.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

// SetUser is used by tests and tools that authenticate out of band.
func SetUser(c *gin.Context, u *models.User) {
	c.Set(userKey, u)
}

func unauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
}
