package extraction

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/recipe-api/api/types"
)

// PostRetry re-runs a failed extraction
// @Summary      Retry extraction
// @Tags         extraction
// @Produce      json
// @Success      202 {object} types.ExtractionStateResponse
// @Failure      409 {object} types.ErrorResponse "Not in the error phase"
// @Router       /api/v1/extraction/retry [post]
func PostRetry(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctrl, ok := controller(c, deps)
		if !ok {
			return
		}

		if err := ctrl.Retry(); err != nil {
			respondSessionError(c, deps, err)
			return
		}

		c.JSON(http.StatusAccepted, stateResponse(ctrl.Current()))
	}
}
