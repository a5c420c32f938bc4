package extraction

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/recipe-api/api/types"
)

// Get returns the current extraction state
// @Summary      Get extraction state
// @Description  Returns the phase (idle, processing, success, error), the recipe on success and a display descriptor on error
// @Tags         extraction
// @Produce      json
// @Success      200 {object} types.ExtractionStateResponse
// @Failure      503 {object} types.ErrorResponse "Session not available"
// @Router       /api/v1/extraction [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctrl, ok := controller(c, deps)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, stateResponse(ctrl.Current()))
	}
}
