package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/interface/http/response"
)

// UUIDValidator rejects requests whose path parameter is not a UUID.
// Usage: router.GET("/projects/:id", UUIDValidator("id"), handler.Get)
func UUIDValidator(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param(paramName)
		if raw == "" {
			response.BadRequest(c, "parameter "+paramName+" is required")
			c.Abort()
			return
		}
		if _, err := uuid.Parse(raw); err != nil {
			response.BadRequest(c, "parameter "+paramName+" must be a valid UUID")
			c.Abort()
			return
		}
		c.Next()
	}
}
