package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/http/middleware"
	"github.com/koicare/pondflow/internal/interface/http/response"
)

// actor returns the authenticated caller or writes 401.
func actor(c *gin.Context) (valueobject.Actor, bool) {
	a, ok := middleware.ActorFrom(c)
	if !ok {
		response.Unauthorized(c, "authorization required")
	}
	return a, ok
}

// pathID parses a UUID path parameter or writes 400.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.BadRequest(c, "invalid request body")
		return false
	}
	return true
}

// queryUUID parses an optional UUID query parameter.
func queryUUID(c *gin.Context, key string) (*uuid.UUID, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(c, "invalid "+key)
		return nil, false
	}
	return &id, true
}

func parseIntQuery(c *gin.Context, key string, defaultValue int) int {
	raw := c.Query(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

func pageFrom(c *gin.Context) repository.Page {
	return repository.Page{
		Limit:  parseIntQuery(c, "limit", repository.DefaultLimit),
		Offset: parseIntQuery(c, "offset", 0),
	}.Normalize()
}
