package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/synergysphere/project-collab-api/internal/errors"
)

// parseIDParam parses a numeric path parameter, responding 400 on failure.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name+" parameter")
		return 0, false
	}
	return id, true
}
