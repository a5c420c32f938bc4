package extraction

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/killallgit/recipe-api/api/types"
)

// PostManual leaves a failed extraction with an empty recipe to fill in by hand
// @Summary      Create recipe manually
// @Tags         extraction
// @Produce      json
// @Success      200 {object} types.ManualRecipeResponse
// @Failure      409 {object} types.ErrorResponse "Not in the error phase"
// @Router       /api/v1/extraction/manual [post]
func PostManual(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctrl, ok := controller(c, deps)
		if !ok {
			return
		}

		shell, err := ctrl.StartManualCreation(c.Request.Context())
		if err != nil && shell == nil {
			respondSessionError(c, deps, err)
			return
		}
		if err != nil {
			deps.Log().Warn("manual creation cleanup failed", zap.Error(err))
		}

		c.JSON(http.StatusOK, types.ManualRecipeResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Recipe:       shell,
		})
	}
}
