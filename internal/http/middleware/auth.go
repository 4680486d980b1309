package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/koicare/pondflow/internal/auth"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/interface/http/response"
)

// ContextActorKey is the gin.Context key holding the authenticated valueobject.Actor.
const ContextActorKey = "actor"

// AuthMiddleware verifies the bearer access token and stores the actor.
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(c, "authorization required")
			c.Abort()
			return
		}

		actor, err := tokens.ParseAccess(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		c.Set(ContextActorKey, actor)
		c.Next()
	}
}

// ActorFrom returns the actor set by AuthMiddleware.
func ActorFrom(c *gin.Context) (valueobject.Actor, bool) {
	v, ok := c.Get(ContextActorKey)
	if !ok {
		return valueobject.Actor{}, false
	}
	actor, ok := v.(valueobject.Actor)
	return actor, ok
}
