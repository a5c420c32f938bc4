package shares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/recipe-api/api/types"
	"github.com/killallgit/recipe-api/internal/services/capture"
	"github.com/killallgit/recipe-api/internal/services/captions"
	apperrors "github.com/killallgit/recipe-api/pkg/errors"
)

// Post captures a shared post and publishes it for extraction
// @Summary      Share a post
// @Description  Validates an Instagram or TikTok URL, replaces any pending extraction and publishes a new payload
// @Tags         shares
// @Accept       json
// @Produce      json
// @Param        request body types.ShareRequest true "Shared post"
// @Success      201 {object} types.ShareResponse "Payload published"
// @Failure      400 {object} types.ErrorResponse "Invalid URL or audio path"
// @Failure      429 {object} types.ErrorResponse "Rate limit exceeded"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/shares [post]
func Post(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps == nil || deps.Capture == nil {
			types.RespondError(c, deps, apperrors.New(apperrors.ErrCodeServiceDown, "capture service not available"))
			return
		}

		var req types.ShareRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			types.RespondError(c, deps, apperrors.ValidationError("body", err.Error()))
			return
		}

		payload, err := deps.Capture.Share(c.Request.Context(), capture.Request{
			URL:       req.URL,
			Caption:   req.Caption,
			AudioPath: req.AudioPath,
		})
		if err != nil {
			switch {
			case errors.Is(err, captions.ErrInvalidURL):
				types.RespondError(c, deps, apperrors.ValidationError("url", err.Error()))
			case errors.Is(err, capture.ErrAudioNotFound):
				types.RespondError(c, deps, apperrors.ValidationError("audio_path", err.Error()))
			default:
				types.RespondError(c, deps, err)
			}
			return
		}

		c.JSON(http.StatusCreated, types.ShareResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Share captured"},
			Payload:      payload,
		})
	}
}
