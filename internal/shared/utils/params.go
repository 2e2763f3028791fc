package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/techdesk-io/techdesk/internal/shared/errors"
)

// ParseUintParam reads a positive integer path parameter.
func ParseUintParam(c *gin.Context, paramName, entityName string) (uint, error) {
	raw := c.Param(paramName)
	if raw == "" {
		return 0, errors.NewValidationError(entityName + " ID is required")
	}

	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, errors.NewValidationError("invalid " + entityName + " ID")
	}
	return uint(n), nil
}
