package extraction

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/recipe-api/api/types"
)

// PostDismiss abandons the current extraction and cleans up the handoff
// @Summary      Dismiss extraction
// @Tags         extraction
// @Produce      json
// @Success      200 {object} types.ExtractionStateResponse
// @Failure      500 {object} types.ErrorResponse "Cleanup failed"
// @Router       /api/v1/extraction/dismiss [post]
func PostDismiss(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctrl, ok := controller(c, deps)
		if !ok {
			return
		}

		if err := ctrl.Dismiss(c.Request.Context()); err != nil {
			respondSessionError(c, deps, err)
			return
		}

		c.JSON(http.StatusOK, stateResponse(ctrl.Current()))
	}
}
