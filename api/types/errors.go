package types

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/killallgit/recipe-api/pkg/errors"
)

// RespondError writes err as an ErrorResponse. Errors that are not AppErrors
// are logged and rendered as an internal error without their text.
func RespondError(c *gin.Context, deps *Dependencies, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		deps.Log().Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		appErr = apperrors.Internal(err)
	}

	resp := appErr.ToResponse()
	c.AbortWithStatusJSON(appErr.GetHTTPCode(), ErrorResponse{
		Status:  resp.Status,
		Code:    string(resp.Code),
		Message: resp.Message,
		Details: resp.Details,
	})
}
