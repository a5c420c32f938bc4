package extraction

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/recipe-api/api/types"
)

// PostCheck looks for a pending payload and starts processing it when idle
// @Summary      Check for pending work
// @Description  Same signal as the lifecycle watcher or a deep link. A no-op unless the session is idle.
// @Tags         extraction
// @Produce      json
// @Success      200 {object} types.CheckResponse
// @Failure      500 {object} types.ErrorResponse "Mailbox could not be read"
// @Router       /api/v1/extraction/check [post]
func PostCheck(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctrl, ok := controller(c, deps)
		if !ok {
			return
		}

		started, err := ctrl.CheckPending(c.Request.Context())
		if err != nil {
			respondSessionError(c, deps, err)
			return
		}

		c.JSON(http.StatusOK, types.CheckResponse{
			ExtractionStateResponse: stateResponse(ctrl.Current()),
			Started:                 started,
		})
	}
}
