package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// parseUUIDParam parses a UUID path parameter
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s format", name)
	}
	return id, nil
}

// parseUUIDQuery parses a required UUID query parameter
func parseUUIDQuery(c *gin.Context, name string) (uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%s is required", name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s format", name)
	}
	return id, nil
}

// normalizePage clamps list pagination to page 1 / size 20 when unset.
func normalizePage(page, pageSize *int) {
	if *page <= 0 {
		*page = 1
	}
	if *pageSize <= 0 {
		*pageSize = 20
	}
}

// bindJSON binds the request body into dst. On failure it writes a 400 and
// returns false so the caller can bail with a bare return.
func (h *BaseHandler) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.BadRequest(c, err.Error())
		return false
	}
	return true
}

// bindQuery binds query parameters into dst, writing a 400 on failure.
func (h *BaseHandler) bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		h.BadRequest(c, err.Error())
		return false
	}
	return true
}

// uuidParam reads a UUID path parameter, writing a 400 on failure.
func (h *BaseHandler) uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := parseUUIDParam(c, name)
	if err != nil {
		h.BadRequest(c, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

// uuidQuery reads a required UUID query parameter, writing a 400 on failure.
func (h *BaseHandler) uuidQuery(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := parseUUIDQuery(c, name)
	if err != nil {
		h.BadRequest(c, err.Error())
		return uuid.Nil, false
	}
	return id, true
}
