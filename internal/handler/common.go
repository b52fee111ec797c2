package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/streampulse/account-service/internal/constants"
	apperrors "github.com/streampulse/account-service/internal/errors"
)

// respondError maps a domain error to its HTTP status and writes the
// uniform error envelope.
func respondError(c *gin.Context, err error) {
	status := apperrors.ToHTTPStatus(err)
	c.JSON(status, constants.BuildErrorResponse(
		status, apperrors.GetErrorMessage(err), nil,
	))
}

// currentUserID reads the authenticated user ID set by the JWT middleware.
func currentUserID(c *gin.Context) (uint, bool) {
	raw, exists := c.Get(constants.GinKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := raw.(type) {
	case uint:
		return v, true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}
